package ads

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/ciclone-ptc/ciclone/internal/common"
	"github.com/ciclone-ptc/ciclone/internal/dbx"
	"github.com/ciclone-ptc/ciclone/internal/server/models"
)

var adColumns = []string{"id", "titulo", "descricao", "url", "imagem", "categoria", "ativo", "data_criacao"}

// PostgresRepository implements Repository over dbx.DBTX (satisfied by
// *sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func scanAd(row interface{ Scan(dest ...any) error }) (*models.Ad, error) {
	a := &models.Ad{}
	err := row.Scan(&a.ID, &a.Titulo, &a.Descricao, &a.URL, &a.Imagem, &a.Categoria, &a.Ativo, &a.CreatedAt)
	if err != nil {
		return nil, err
	}
	return a, nil
}

func (r *PostgresRepository) List(ctx context.Context, filter ListFilter) ([]*models.Ad, error) {
	builder := sq.Select(adColumns...).
		From("anuncios").
		OrderBy("id").
		PlaceholderFormat(sq.Dollar)

	if !filter.IncludeInactive {
		builder = builder.Where(sq.Eq{"ativo": true})
	}
	if filter.Categoria != "" {
		builder = builder.Where(sq.Eq{"categoria": filter.Categoria})
	}
	if filter.Limit > 0 {
		builder = builder.Limit(filter.Limit)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("building query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.Ad
	for rows.Next() {
		a, err := scanAd(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*models.Ad, error) {
	query := `
		SELECT id, titulo, descricao, url, imagem, categoria, ativo, data_criacao
		FROM anuncios
		WHERE id = $1 AND ativo = true`
	a, err := scanAd(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return a, nil
}

func (r *PostgresRepository) Create(ctx context.Context, ad *models.Ad) (*models.Ad, error) {
	query := `
		INSERT INTO anuncios (titulo, descricao, url, imagem, categoria, ativo)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, titulo, descricao, url, imagem, categoria, ativo, data_criacao`
	a, err := scanAd(r.db.QueryRowContext(ctx, query,
		ad.Titulo, ad.Descricao, ad.URL, ad.Imagem, ad.Categoria, ad.Ativo))
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return a, nil
}

func (r *PostgresRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM anuncios`).Scan(&n); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}
