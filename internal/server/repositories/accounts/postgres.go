package accounts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ciclone-ptc/ciclone/internal/common"
	"github.com/ciclone-ptc/ciclone/internal/dbx"
	"github.com/ciclone-ptc/ciclone/internal/server/models"
	"github.com/shopspring/decimal"
)

const accountColumns = `id, nome, email, senha, chavepix, telefone, avatar,
	recebendo_creditos, limite_atingido, saldo_redisponivel, data_criacao`

// PostgresRepository implements Repository over dbx.DBTX (satisfied by
// *sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func scanAccount(row *sql.Row) (*models.Account, error) {
	a := &models.Account{}
	err := row.Scan(&a.ID, &a.Nome, &a.Email, &a.SenhaHash, &a.ChavePix,
		&a.Telefone, &a.Avatar, &a.ReceivingCredits, &a.CapReached,
		&a.Balance, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return a, nil
}

func (r *PostgresRepository) Create(ctx context.Context, account *models.Account) (*models.Account, error) {
	query := `
		INSERT INTO cadastro (nome, email, senha, chavepix, telefone, avatar, recebendo_creditos)
		VALUES ($1, $2, $3, $4, $5, $6, true)
		RETURNING ` + accountColumns

	row := r.db.QueryRowContext(ctx, query,
		account.Nome, account.Email, account.SenhaHash,
		account.ChavePix, account.Telefone, account.Avatar)

	return scanAccount(row)
}

func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM cadastro WHERE email = $1`
	return scanAccount(r.db.QueryRowContext(ctx, query, email))
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM cadastro WHERE id = $1`
	return scanAccount(r.db.QueryRowContext(ctx, query, id))
}

// CurrentRecipientForUpdate runs the Selector query. The FOR UPDATE lock
// serializes concurrent rotations on the same recipient row.
func (r *PostgresRepository) CurrentRecipientForUpdate(ctx context.Context) (*models.Account, error) {
	query := `
		SELECT ` + accountColumns + `
		FROM cadastro
		WHERE recebendo_creditos AND NOT limite_atingido
		ORDER BY id
		LIMIT 1
		FOR UPDATE`
	return scanAccount(r.db.QueryRowContext(ctx, query))
}

func (r *PostgresRepository) NextCandidateForUpdate(ctx context.Context) (*models.Account, error) {
	query := `
		SELECT ` + accountColumns + `
		FROM cadastro
		WHERE NOT recebendo_creditos AND NOT limite_atingido
		ORDER BY id
		LIMIT 1
		FOR UPDATE`
	return scanAccount(r.db.QueryRowContext(ctx, query))
}

func (r *PostgresRepository) UpdateBalance(ctx context.Context, id int64, balance decimal.Decimal) error {
	query := `UPDATE cadastro SET saldo_redisponivel = $1 WHERE id = $2`
	if _, err := r.db.ExecContext(ctx, query, balance, id); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) SetRotationFlags(ctx context.Context, id int64, receiving, capped bool) error {
	query := `UPDATE cadastro SET recebendo_creditos = $1, limite_atingido = $2 WHERE id = $3`
	if _, err := r.db.ExecContext(ctx, query, receiving, capped, id); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) ActivateByEmail(ctx context.Context, email string) (*models.Account, error) {
	query := `
		UPDATE cadastro SET recebendo_creditos = true
		WHERE email = $1
		RETURNING ` + accountColumns
	return scanAccount(r.db.QueryRowContext(ctx, query, email))
}

func (r *PostgresRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM cadastro`).Scan(&n); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}

func (r *PostgresRepository) HighestBalance(ctx context.Context) (*TopBalance, error) {
	query := `
		SELECT nome, saldo_redisponivel
		FROM cadastro
		ORDER BY saldo_redisponivel DESC
		LIMIT 1`
	t := &TopBalance{}
	if err := r.db.QueryRowContext(ctx, query).Scan(&t.Nome, &t.Saldo); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return t, nil
}
