package prodex

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// Option configures the Engine.
type Option interface {
	apply(*engineConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*engineConfig)

func (f optionFunc) apply(c *engineConfig) { f(c) }

type engineConfig struct {
	completer Completer
	openai    *openAIConfig
	timeout   time.Duration

	dailyTokens   int64
	monthlyTokens int64

	logger     *zap.Logger
	metricsReg prometheus.Registerer
}

type openAIConfig struct {
	apiKey  string
	baseURL string
	model   string
}

// WithCompleter sets a custom language-model provider.
// It takes precedence over WithOpenAI.
func WithCompleter(c Completer) Option {
	return optionFunc(func(cfg *engineConfig) {
		cfg.completer = c
	})
}

// WithOpenAI configures an OpenAI-compatible chat-completion provider.
// Empty baseURL selects OpenRouter; empty model selects google/gemini-pro.
// An empty apiKey leaves the engine on the keyword path.
func WithOpenAI(apiKey, baseURL, model string) Option {
	return optionFunc(func(cfg *engineConfig) {
		if apiKey == "" {
			cfg.openai = nil
			return
		}
		cfg.openai = &openAIConfig{apiKey: apiKey, baseURL: baseURL, model: model}
	})
}

// WithTimeout bounds the language-model call. Default: 10s.
func WithTimeout(d time.Duration) Option {
	return optionFunc(func(cfg *engineConfig) {
		cfg.timeout = d
	})
}

// WithTokenBudget rejects completion calls once the daily or monthly token
// count is spent; rejected searches take the keyword path. Zero means unlimited.
func WithTokenBudget(daily, monthly int64) Option {
	return optionFunc(func(cfg *engineConfig) {
		cfg.dailyTokens = daily
		cfg.monthlyTokens = monthly
	})
}

// WithLogger enables structured logging. Pass nil to disable (default).
func WithLogger(l *zap.Logger) Option {
	return optionFunc(func(cfg *engineConfig) {
		cfg.logger = l
	})
}

// WithPrometheus registers engine metrics (search counts and durations)
// on the given registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(cfg *engineConfig) {
		cfg.metricsReg = reg
	})
}
