// Package ads declares the repository contract for the anuncios table.
package ads

import (
	"context"

	"github.com/ciclone-ptc/ciclone/internal/server/models"
)

// ListFilter narrows List results. The zero value lists every active ad.
type ListFilter struct {
	IncludeInactive bool
	Categoria       string
	Limit           uint64
}

// Repository defines persistence operations for advertisements.
type Repository interface {
	// List returns ads matching the filter, ordered by id.
	List(ctx context.Context, filter ListFilter) ([]*models.Ad, error)

	// GetByID returns the active ad with the given id, or
	// common.ErrorNotFound.
	GetByID(ctx context.Context, id int64) (*models.Ad, error)

	// Create inserts a new ad and returns it with ID populated.
	Create(ctx context.Context, ad *models.Ad) (*models.Ad, error)

	// Count returns the number of ads.
	Count(ctx context.Context) (int64, error)
}
