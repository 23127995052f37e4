package services

import (
	"context"
	"database/sql"
	"errors"

	"github.com/ciclone-ptc/ciclone/internal/common"
	"github.com/ciclone-ptc/ciclone/internal/dbx"
	"github.com/ciclone-ptc/ciclone/internal/server/metrics"
	"github.com/ciclone-ptc/ciclone/internal/server/models"
	"github.com/ciclone-ptc/ciclone/internal/server/repositories/repomanager"
)

// RatingOutcome bundles the stored rating, the refreshed aggregate, and the
// click outcome when the submission also ran the credit rotation.
type RatingOutcome struct {
	Rating *models.Rating
	Stats  *models.ProductStats
	Click  *ClickOutcome
}

// RatingService records product ratings and maintains the per-product
// running mean. RateProduct additionally runs the credit rotation with the
// rater as acting user.
type RatingService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	credits     *CreditService
}

// NewRatingService constructs a RatingService.
func NewRatingService(db *sql.DB, m repomanager.RepositoryManager, credits *CreditService) *RatingService {
	return &RatingService{db: db, repomanager: m, credits: credits}
}

// SubmitRating stores a rating and folds it into the product aggregate.
// Ratings are append-only: repeat submissions count again.
func (s *RatingService) SubmitRating(ctx context.Context, email string, productID int64, nota int) (*RatingOutcome, error) {
	if err := s.validate(ctx, email, productID, nota); err != nil {
		return nil, err
	}

	outcome := &RatingOutcome{}
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return s.record(ctx, tx, email, productID, nota, outcome)
	})
	if err != nil {
		return nil, err
	}
	metrics.RatingsRecorded.Inc()
	return outcome, nil
}

// RateProduct stores a rating like SubmitRating and, in the same
// transaction, runs the credit rotation crediting the current recipient.
func (s *RatingService) RateProduct(ctx context.Context, email string, productID int64, nota int) (*RatingOutcome, error) {
	if err := s.validate(ctx, email, productID, nota); err != nil {
		return nil, err
	}

	outcome := &RatingOutcome{}
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.record(ctx, tx, email, productID, nota, outcome); err != nil {
			return err
		}
		click, err := s.credits.applyClick(ctx, tx, email)
		if err != nil {
			return err
		}
		outcome.Click = click
		return nil
	})
	if err != nil {
		if errors.Is(err, common.ErrNoEligibleRecipient) {
			metrics.ClicksRejected.Inc()
		}
		return nil, err
	}

	metrics.RatingsRecorded.Inc()
	metrics.ClicksCredited.Inc()
	if outcome.Click.CapReached {
		metrics.Rotations.Inc()
	}
	s.credits.invalidateStats(ctx)
	return outcome, nil
}

// GetStats returns the aggregate for a product, zero-valued when the
// product has no ratings yet.
func (s *RatingService) GetStats(ctx context.Context, productID int64) (*models.ProductStats, error) {
	stats, err := s.repomanager.Ratings(s.db).GetStats(ctx, productID)
	if err != nil {
		return nil, common.ErrorInternal
	}
	return stats, nil
}

func (s *RatingService) validate(ctx context.Context, email string, productID int64, nota int) error {
	if email == "" || nota < 1 || nota > 5 {
		return common.ErrorValidation
	}
	if _, err := s.repomanager.Products(s.db).GetByID(ctx, productID); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrorNotFound
		}
		return common.ErrorInternal
	}
	return nil
}

func (s *RatingService) record(ctx context.Context, tx dbx.DBTX, email string, productID int64, nota int, outcome *RatingOutcome) error {
	ratingRepo := s.repomanager.Ratings(tx)

	rating, err := ratingRepo.Create(ctx, &models.Rating{Email: email, ProductID: productID, Nota: nota})
	if err != nil {
		return common.ErrorInternal
	}
	stats, err := ratingRepo.UpsertStats(ctx, productID, nota)
	if err != nil {
		return common.ErrorInternal
	}
	outcome.Rating = rating
	outcome.Stats = stats
	return nil
}
