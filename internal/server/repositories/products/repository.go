// Package products declares the repository contract for the produtos table.
package products

import (
	"context"

	"github.com/ciclone-ptc/ciclone/internal/server/models"
)

// ListFilter narrows List results. The zero value lists every active
// product.
type ListFilter struct {
	IncludeInactive bool
	Categoria       string
	Limit           uint64
}

// Repository defines persistence operations for products.
type Repository interface {
	// List returns products matching the filter, ordered by id.
	List(ctx context.Context, filter ListFilter) ([]*models.Product, error)

	// GetByID returns the active product with the given id, or
	// common.ErrorNotFound.
	GetByID(ctx context.Context, id int64) (*models.Product, error)

	// Create inserts a new product and returns it with ID populated.
	Create(ctx context.Context, product *models.Product) (*models.Product, error)
}
