// Package wire holds JSON encodings shared by the HTTP API and the catalog file reader.
package wire

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// Rating accepts either a bare number or the {"rate": n, "count": m} object
// storefront catalogs use, and writes back the form it was read in.
type Rating struct {
	Rate   float64
	Count  *int
	Object bool
}

// UnmarshalJSON implements json.Unmarshaler.
func (r *Rating) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '{' {
		var obj struct {
			Rate  *float64 `json:"rate"`
			Count *int     `json:"count"`
		}
		if err := json.Unmarshal(data, &obj); err != nil {
			return fmt.Errorf("rating: %w", err)
		}
		if obj.Rate == nil {
			return errors.New("rating: object is missing rate")
		}
		r.Rate, r.Count, r.Object = *obj.Rate, obj.Count, true
		return nil
	}
	if err := json.Unmarshal(data, &r.Rate); err != nil {
		return fmt.Errorf("rating: %w", err)
	}
	return nil
}

// MarshalJSON implements json.Marshaler.
func (r Rating) MarshalJSON() ([]byte, error) {
	if r.Object {
		return json.Marshal(struct { //nolint:wrapcheck // plain value encoding
			Rate  float64 `json:"rate"`
			Count *int    `json:"count,omitempty"`
		}{r.Rate, r.Count})
	}
	return json.Marshal(r.Rate) //nolint:wrapcheck // plain value encoding
}

// Value returns the rate as an optional domain rating.
func (r *Rating) Value() *float64 {
	if r == nil {
		return nil
	}
	v := r.Rate
	return &v
}

// Product is a catalog item on the wire.
type Product struct {
	ID          int      `json:"id"`
	Title       string   `json:"title"`
	Price       float64  `json:"price"`
	Category    string   `json:"category"`
	Description string   `json:"description"`
	Rating      *Rating  `json:"rating,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	Image       string   `json:"image,omitempty"`
}
