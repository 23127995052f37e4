// Package models contains the persistence-layer structs shared by
// repositories and services. Column names follow the original CICLONE
// schema (Portuguese table/column names).
package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Account is a row in the cadastro table. ID is a monotonic serial; the
// rotation orders accounts by it.
type Account struct {
	ID               int64
	Nome             string
	Email            string
	SenhaHash        string
	ChavePix         string
	Telefone         string
	Avatar           string
	ReceivingCredits bool            // recebendo_creditos
	CapReached       bool            // limite_atingido
	Balance          decimal.Decimal // saldo_redisponivel, NUMERIC(12,4)
	CreatedAt        time.Time       // data_criacao
}

// Eligible reports whether the account can be selected as the current
// credit recipient.
func (a *Account) Eligible() bool {
	return a.ReceivingCredits && !a.CapReached
}
