package products

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

var productColumns = []string{"id", "nome", "descricao", "imagem", "categoria", "ativo", "data_criacao"}

// PostgresRepository implements Repository over dbx.DBTX (satisfied by
// *sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func scanProduct(row interface{ Scan(dest ...any) error }) (*models.Product, error) {
	p := &models.Product{}
	err := row.Scan(&p.ID, &p.Nome, &p.Descricao, &p.Imagem, &p.Categoria, &p.Ativo, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *PostgresRepository) List(ctx context.Context, filter ListFilter) ([]*models.Product, error) {
	builder := sq.Select(productColumns...).
		From("produtos").
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

	var result []*models.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*models.Product, error) {
	query := `
		SELECT id, nome, descricao, imagem, categoria, ativo, data_criacao
		FROM produtos
		WHERE id = $1 AND ativo = true`
	p, err := scanProduct(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return p, nil
}

func (r *PostgresRepository) Create(ctx context.Context, product *models.Product) (*models.Product, error) {
	query := `
		INSERT INTO produtos (nome, descricao, imagem, categoria, ativo)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, nome, descricao, imagem, categoria, ativo, data_criacao`
	p, err := scanProduct(r.db.QueryRowContext(ctx, query,
		product.Nome, product.Descricao, product.Imagem, product.Categoria, product.Ativo))
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return p, nil
}
