// internal/catalog/catalog.go
package catalog

import (
	"context"
	"fmt"

	"github.com/freshcast/backend-go/internal/domain"
)

// ProductSource serves the rows of the products dataset.
type ProductSource interface {
	Products(ctx context.Context) ([]domain.Product, error)
}

// Catalog resolves static product attributes from the products dataset.
// It reads through to the source on every call; datasets are small and may
// be replaced by an upload at any time.
type Catalog struct {
	source           ProductSource
	defaultShelfLife int
}

func New(source ProductSource, defaultShelfLife int) *Catalog {
	if defaultShelfLife <= 0 {
		defaultShelfLife = 7
	}
	return &Catalog{source: source, defaultShelfLife: defaultShelfLife}
}

// Lookup returns the shelf profile for one product id, or
// domain.ErrNotFound when the id is absent from the dataset.
func (c *Catalog) Lookup(ctx context.Context, productID string) (*domain.ProductShelfProfile, error) {
	products, err := c.source.Products(ctx)
	if err != nil {
		return nil, err
	}

	for _, product := range products {
		if product.ProductID != productID {
			continue
		}

		name := product.ProductName
		if name == "" {
			name = fmt.Sprintf("Product %s", product.ProductID)
		}

		shelfLife := product.ShelfLifeDays
		if shelfLife <= 0 {
			shelfLife = c.defaultShelfLife
		}

		return &domain.ProductShelfProfile{
			ProductID:     product.ProductID,
			DisplayName:   name,
			ShelfLifeDays: shelfLife,
		}, nil
	}

	return nil, fmt.Errorf("product %s: %w", productID, domain.ErrNotFound)
}

// ListIDs returns up to limit distinct product ids in dataset order, giving
// planning calls without explicit ids a deterministic default selection.
func (c *Catalog) ListIDs(ctx context.Context, limit int) ([]string, error) {
	products, err := c.source.Products(ctx)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, len(products))
	ids := make([]string, 0, limit)
	for _, product := range products {
		if product.ProductID == "" {
			continue
		}
		if _, ok := seen[product.ProductID]; ok {
			continue
		}
		seen[product.ProductID] = struct{}{}
		ids = append(ids, product.ProductID)
		if limit > 0 && len(ids) == limit {
			break
		}
	}

	return ids, nil
}

// Products exposes the full dataset for the catalog API endpoints.
func (c *Catalog) Products(ctx context.Context) ([]domain.Product, error) {
	return c.source.Products(ctx)
}
