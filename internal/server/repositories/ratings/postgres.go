package ratings

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

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

func (r *PostgresRepository) Create(ctx context.Context, rating *models.Rating) (*models.Rating, error) {
	query := `
		INSERT INTO avaliacoes (email, produto_id, nota)
		VALUES ($1, $2, $3)
		RETURNING id, email, produto_id, nota, data_criacao`
	created := &models.Rating{}
	err := r.db.QueryRowContext(ctx, query, rating.Email, rating.ProductID, rating.Nota).
		Scan(&created.ID, &created.Email, &created.ProductID, &created.Nota, &created.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return created, nil
}

// UpsertStats applies the incremental-mean recurrence in a single
// statement so the count and mean always move together.
func (r *PostgresRepository) UpsertStats(ctx context.Context, productID int64, nota int) (*models.ProductStats, error) {
	query := `
		INSERT INTO produtos_stats (produto_id, total_avaliacoes, media)
		VALUES ($1, 1, $2)
		ON CONFLICT (produto_id) DO UPDATE SET
			media = (produtos_stats.media * produtos_stats.total_avaliacoes + $2) / (produtos_stats.total_avaliacoes + 1),
			total_avaliacoes = produtos_stats.total_avaliacoes + 1
		RETURNING produto_id, total_avaliacoes, media`
	s := &models.ProductStats{}
	err := r.db.QueryRowContext(ctx, query, productID, nota).
		Scan(&s.ProductID, &s.TotalAvaliacoes, &s.Media)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return s, nil
}

func (r *PostgresRepository) GetStats(ctx context.Context, productID int64) (*models.ProductStats, error) {
	query := `
		SELECT produto_id, total_avaliacoes, media
		FROM produtos_stats
		WHERE produto_id = $1`
	s := &models.ProductStats{}
	err := r.db.QueryRowContext(ctx, query, productID).
		Scan(&s.ProductID, &s.TotalAvaliacoes, &s.Media)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return &models.ProductStats{ProductID: productID}, nil
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return s, nil
}
