package clicks

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ciclone-ptc/ciclone/internal/common"
	"github.com/ciclone-ptc/ciclone/internal/dbx"
	"github.com/ciclone-ptc/ciclone/internal/server/models"
)

// PostgresRepository implements Repository over dbx.DBTX (satisfied by
// *sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func scanCounter(row *sql.Row) (*models.ClickCounter, error) {
	c := &models.ClickCounter{}
	err := row.Scan(&c.Email, &c.TotalClicks, &c.ClicksToday, &c.LastClickAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return c, nil
}

func (r *PostgresRepository) Get(ctx context.Context, email string) (*models.ClickCounter, error) {
	query := `
		SELECT email, total_clicks, clicks_hoje, data_ultimo_click
		FROM clicks
		WHERE email = $1`
	c, err := scanCounter(r.db.QueryRowContext(ctx, query, email))
	if errors.Is(err, common.ErrorNotFound) {
		return &models.ClickCounter{Email: email}, nil
	}
	return c, err
}

func (r *PostgresRepository) Register(ctx context.Context, email string) (*models.ClickCounter, error) {
	query := `
		INSERT INTO clicks (email, total_clicks, clicks_hoje, data_ultimo_click)
		VALUES ($1, 1, 1, NOW())
		ON CONFLICT (email) DO UPDATE SET
			total_clicks = clicks.total_clicks + 1,
			clicks_hoje = CASE
				WHEN clicks.data_ultimo_click::date = CURRENT_DATE THEN clicks.clicks_hoje + 1
				ELSE 1
			END,
			data_ultimo_click = NOW()
		RETURNING email, total_clicks, clicks_hoje, data_ultimo_click`
	return scanCounter(r.db.QueryRowContext(ctx, query, email))
}

func (r *PostgresRepository) SetToday(ctx context.Context, email string, clicksHoje int64) (*models.ClickCounter, error) {
	query := `
		INSERT INTO clicks (email, total_clicks, clicks_hoje, data_ultimo_click)
		VALUES ($1, 1, $2, NOW())
		ON CONFLICT (email) DO UPDATE SET
			total_clicks = clicks.total_clicks + 1,
			clicks_hoje = $2,
			data_ultimo_click = NOW()
		RETURNING email, total_clicks, clicks_hoje, data_ultimo_click`
	return scanCounter(r.db.QueryRowContext(ctx, query, email, clicksHoje))
}

func (r *PostgresRepository) Total(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRowContext(ctx, `SELECT COALESCE(SUM(total_clicks), 0) FROM clicks`).Scan(&n); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}

func (r *PostgresRepository) Top(ctx context.Context) (*TopClicker, error) {
	query := `
		SELECT cad.nome, c.total_clicks
		FROM clicks c
		JOIN cadastro cad ON c.email = cad.email
		ORDER BY c.total_clicks DESC
		LIMIT 1`
	t := &TopClicker{}
	if err := r.db.QueryRowContext(ctx, query).Scan(&t.Nome, &t.TotalClicks); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return t, nil
}
