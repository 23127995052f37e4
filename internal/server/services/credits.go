package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ciclone-ptc/ciclone/internal/common"
	"github.com/ciclone-ptc/ciclone/internal/dbx"
	"github.com/ciclone-ptc/ciclone/internal/server/cache"
	"github.com/ciclone-ptc/ciclone/internal/server/metrics"
	"github.com/ciclone-ptc/ciclone/internal/server/models"
	"github.com/ciclone-ptc/ciclone/internal/server/repositories/repomanager"
	"github.com/shopspring/decimal"
)

var (
	// creditIncrement is the amount credited to the current recipient
	// for every valid click.
	creditIncrement = decimal.RequireFromString("0.0001")

	// creditCap is the balance at which an account stops receiving
	// credits and the rotation moves on.
	creditCap = decimal.RequireFromString("1000.0000")
)

// ClickOutcome describes the effects of one credited click.
type ClickOutcome struct {
	// Counter holds the acting user's click counters after the upsert.
	Counter *models.ClickCounter
	// RecipientID is the account that received the credit.
	RecipientID int64
	// NewBalance is the recipient's balance after crediting.
	NewBalance decimal.Decimal
	// CapReached reports whether this click pushed the recipient to the cap.
	CapReached bool
	// PromotedID is the account promoted to receive next, zero when the
	// cap was not reached or no candidate existed.
	PromotedID int64
}

// CreditService implements the sequential credit-distribution rotation:
// pick the lowest-id eligible account, credit it a fixed increment, and on
// reaching the cap rotate eligibility to the next account. All state
// transitions run under row locks inside a single transaction.
type CreditService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	cache       *cache.Cache
}

// NewCreditService constructs a CreditService. The cache may be nil.
func NewCreditService(db *sql.DB, m repomanager.RepositoryManager, c *cache.Cache) *CreditService {
	return &CreditService{db: db, repomanager: m, cache: c}
}

// RegisterClick processes one click by email: upserts the clicker's counters
// and credits the current rotation recipient, rotating on cap. The whole
// operation commits or rolls back as a unit; when no account is eligible
// nothing is persisted and ErrNoEligibleRecipient is returned.
func (s *CreditService) RegisterClick(ctx context.Context, email string) (*ClickOutcome, error) {
	var outcome *ClickOutcome
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		var txErr error
		outcome, txErr = s.applyClick(ctx, tx, email)
		return txErr
	})
	if err != nil {
		if errors.Is(err, common.ErrNoEligibleRecipient) {
			metrics.ClicksRejected.Inc()
		}
		return nil, err
	}

	metrics.ClicksCredited.Inc()
	if outcome.CapReached {
		metrics.Rotations.Inc()
	}
	s.invalidateStats(ctx)
	return outcome, nil
}

// applyClick runs the rotation inside an existing transaction, so rating
// submissions can combine it with their own writes.
func (s *CreditService) applyClick(ctx context.Context, tx dbx.DBTX, email string) (*ClickOutcome, error) {
	accountRepo := s.repomanager.Accounts(tx)
	clickRepo := s.repomanager.Clicks(tx)

	if _, err := accountRepo.GetByEmail(ctx, email); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, common.ErrorInternal
	}

	counter, err := clickRepo.Register(ctx, email)
	if err != nil {
		return nil, common.ErrorInternal
	}

	recipient, err := accountRepo.CurrentRecipientForUpdate(ctx)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrNoEligibleRecipient
		}
		return nil, common.ErrorInternal
	}

	newBalance := recipient.Balance.Add(creditIncrement)
	if err := accountRepo.UpdateBalance(ctx, recipient.ID, newBalance); err != nil {
		return nil, common.ErrorInternal
	}

	outcome := &ClickOutcome{
		Counter:     counter,
		RecipientID: recipient.ID,
		NewBalance:  newBalance,
	}

	if newBalance.GreaterThanOrEqual(creditCap) {
		if err := accountRepo.SetRotationFlags(ctx, recipient.ID, false, true); err != nil {
			return nil, common.ErrorInternal
		}
		outcome.CapReached = true

		next, err := accountRepo.NextCandidateForUpdate(ctx)
		if err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				// No candidate: the rotation stalls until registration
				// or manual activation.
				return outcome, nil
			}
			return nil, common.ErrorInternal
		}
		if err := accountRepo.SetRotationFlags(ctx, next.ID, true, false); err != nil {
			return nil, common.ErrorInternal
		}
		outcome.PromotedID = next.ID
	}

	return outcome, nil
}

// RecordClick upserts the click counters for email without touching the
// rotation.
func (s *CreditService) RecordClick(ctx context.Context, email string) (*models.ClickCounter, error) {
	counter, err := s.repomanager.Clicks(s.db).Register(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("error registering click: %v", err)
	}
	return counter, nil
}

// SetClicksToday sets the daily counter for email while still incrementing
// the total.
func (s *CreditService) SetClicksToday(ctx context.Context, email string, clicksHoje int64) (*models.ClickCounter, error) {
	counter, err := s.repomanager.Clicks(s.db).SetToday(ctx, email, clicksHoje)
	if err != nil {
		return nil, fmt.Errorf("error updating clicks: %v", err)
	}
	return counter, nil
}

// ActivateCredits re-enables credit reception for the account. The capped
// flag is left untouched, so a capped account stays out of the rotation
// until the flag is cleared in the database.
func (s *CreditService) ActivateCredits(ctx context.Context, email string) (*models.Account, error) {
	account, err := s.repomanager.Accounts(s.db).ActivateByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, common.ErrorInternal
	}
	s.invalidateStats(ctx)
	return account, nil
}

// StartCredits bootstraps the rotation: when no account is currently
// receiving, the lowest-id non-capped account is promoted. Returns the
// receiving account, or ErrNoEligibleRecipient when every account is capped.
func (s *CreditService) StartCredits(ctx context.Context) (*models.Account, error) {
	var receiving *models.Account
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		accountRepo := s.repomanager.Accounts(tx)

		current, err := accountRepo.CurrentRecipientForUpdate(ctx)
		if err == nil {
			receiving = current
			return nil
		}
		if !errors.Is(err, common.ErrorNotFound) {
			return common.ErrorInternal
		}

		next, err := accountRepo.NextCandidateForUpdate(ctx)
		if err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return common.ErrNoEligibleRecipient
			}
			return common.ErrorInternal
		}
		if err := accountRepo.SetRotationFlags(ctx, next.ID, true, false); err != nil {
			return common.ErrorInternal
		}
		next.ReceivingCredits = true
		next.CapReached = false
		receiving = next
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.invalidateStats(ctx)
	return receiving, nil
}

func (s *CreditService) invalidateStats(ctx context.Context) {
	_ = s.cache.Invalidate(ctx, statsCacheKey)
}
