package repomanager

import (
	"context"
	"database/sql"

	"github.com/uncovr/uncovr/internal/dbx"
	"github.com/uncovr/uncovr/internal/server/repositories/releases"
	"github.com/uncovr/uncovr/internal/server/repositories/tokens"
	"github.com/uncovr/uncovr/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Tokens(db dbx.DBTX) tokens.Repository
	Releases(db dbx.DBTX) releases.Repository
}
