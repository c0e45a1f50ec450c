package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/mobilecore/internal/dbx"
	"github.com/dmitrijs2005/mobilecore/internal/server/repositories/notes"
	"github.com/dmitrijs2005/mobilecore/internal/server/repositories/users"
)

// RepositoryManager vends repositories bound to a DBTX, so the same code
// runs against *sql.DB or inside a transaction.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Notes(db dbx.DBTX) notes.Repository
}
