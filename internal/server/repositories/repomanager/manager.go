package repomanager

import (
	"context"
	"database/sql"

	"github.com/ciclone-ptc/ciclone/internal/dbx"
	"github.com/ciclone-ptc/ciclone/internal/server/repositories/accounts"
	"github.com/ciclone-ptc/ciclone/internal/server/repositories/ads"
	"github.com/ciclone-ptc/ciclone/internal/server/repositories/clicks"
	"github.com/ciclone-ptc/ciclone/internal/server/repositories/products"
	"github.com/ciclone-ptc/ciclone/internal/server/repositories/ratings"
	"github.com/ciclone-ptc/ciclone/internal/server/repositories/refreshtokens"
)

// RepositoryManager vends repository implementations bound to a DBTX, so the
// same repository code runs against a plain connection or inside a
// transaction.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Accounts(db dbx.DBTX) accounts.Repository
	Clicks(db dbx.DBTX) clicks.Repository
	Ads(db dbx.DBTX) ads.Repository
	Products(db dbx.DBTX) products.Repository
	Ratings(db dbx.DBTX) ratings.Repository
	RefreshTokens(db dbx.DBTX) refreshtokens.Repository
}
