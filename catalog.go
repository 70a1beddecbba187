package prodex

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/kailas-cloud/prodex/internal/transport/wire"
)

// ReadCatalog decodes a JSON array of products. Ratings may be plain numbers
// or {"rate": n, "count": m} objects.
func ReadCatalog(r io.Reader) ([]Product, error) {
	var items []wire.Product
	if err := json.NewDecoder(r).Decode(&items); err != nil {
		return nil, fmt.Errorf("%w: decode catalog: %w", ErrInvalidInput, err)
	}

	catalog := make([]Product, len(items))
	for i := range items {
		p := &items[i]
		catalog[i] = Product{
			ID:          p.ID,
			Title:       p.Title,
			Price:       p.Price,
			Category:    p.Category,
			Description: p.Description,
			Rating:      p.Rating.Value(),
			Tags:        p.Tags,
		}
	}
	return catalog, nil
}
