package domain

import "time"

// KeyPrefix namespaces every key prodex writes to the key-value store.
const KeyPrefix = "prodex:"

// CompletionConfig holds the generation settings sent with every search prompt.
type CompletionConfig struct {
	Model       string
	Temperature float32
	TopP        float32
	MaxTokens   int
	Timeout     time.Duration
}

// DefaultCompletionConfig returns the settings the search prompt was tuned with.
func DefaultCompletionConfig() CompletionConfig {
	return CompletionConfig{
		Model:       "google/gemini-pro",
		Temperature: 0.3,
		TopP:        0.8,
		MaxTokens:   500,
		Timeout:     10 * time.Second,
	}
}
