// Package ratings declares the repository contract for the avaliacoes
// event log and the produtos_stats aggregate it feeds.
package ratings

import (
	"context"

	"github.com/ciclone-ptc/ciclone/internal/server/models"
)

// Repository defines persistence operations for ratings and their
// per-product aggregate.
type Repository interface {
	// Create appends a rating event. Events are never deduplicated:
	// rating the same product twice counts twice.
	Create(ctx context.Context, rating *models.Rating) (*models.Rating, error)

	// UpsertStats folds one rating into the product's running mean:
	//
	//	media = (media*total_avaliacoes + nota) / (total_avaliacoes + 1)
	//
	// and returns the updated aggregate.
	UpsertStats(ctx context.Context, productID int64, nota int) (*models.ProductStats, error)

	// GetStats returns the aggregate for the product, or a zero-valued
	// aggregate when no rating exists yet.
	GetStats(ctx context.Context, productID int64) (*models.ProductStats, error)
}
