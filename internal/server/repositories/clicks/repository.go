// Package clicks declares the repository contract for the clicks table:
// per-account click counters keyed by email.
package clicks

import (
	"context"

	"github.com/ciclone-ptc/ciclone/internal/server/models"
)

// TopClicker is the leaderboard row returned by Top.
type TopClicker struct {
	Nome        string
	TotalClicks int64
}

// Repository defines persistence operations for click counters.
type Repository interface {
	// Get returns the counter row for the email. When the account has
	// never clicked, it returns a zero-valued counter, not an error.
	Get(ctx context.Context, email string) (*models.ClickCounter, error)

	// Register upserts the counter for one click: total_clicks+1,
	// clicks_hoje+1 (or reset to 1 on a new day), data_ultimo_click=now.
	Register(ctx context.Context, email string) (*models.ClickCounter, error)

	// SetToday upserts the counter setting clicks_hoje to the given
	// value while still incrementing total_clicks.
	SetToday(ctx context.Context, email string, clicksHoje int64) (*models.ClickCounter, error)

	// Total returns the sum of total_clicks across all accounts.
	Total(ctx context.Context) (int64, error)

	// Top returns the name and count of the most active clicker, or
	// common.ErrorNotFound when the table is empty.
	Top(ctx context.Context) (*TopClicker, error)
}
