package catalogsvc

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"slices"
	"sync"

	"github.com/mkrupp/storefront/internal/domain"
)

//go:embed placeholder_products.json
var placeholderProductsJSON []byte

//nolint:gochecknoglobals
var loadPlaceholderProducts = sync.OnceValues(func() ([]domain.Product, error) {
	var products []domain.Product
	if err := json.Unmarshal(placeholderProductsJSON, &products); err != nil {
		return nil, fmt.Errorf("decode placeholder products: %w", err)
	}

	return products, nil
})

// PlaceholderProducts returns up to limit bundled products shown when the remote
// API is unreachable. A non-positive limit returns all of them.
func PlaceholderProducts(limit int) ([]domain.Product, error) {
	products, err := loadPlaceholderProducts()
	if err != nil {
		return nil, err
	}

	if limit > 0 && limit < len(products) {
		products = products[:limit]
	}

	return slices.Clone(products), nil
}
