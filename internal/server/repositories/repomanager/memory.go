package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/mobilecore/internal/dbx"
	"github.com/dmitrijs2005/mobilecore/internal/server/repositories/notes"
	"github.com/dmitrijs2005/mobilecore/internal/server/repositories/users"
)

// InMemoryRepositoryManager ignores the DBTX and always returns the same
// process-local repositories. Used when no database DSN is configured.
type InMemoryRepositoryManager struct {
	users *users.MemoryRepository
	notes *notes.MemoryRepository
}

func NewInMemoryRepositoryManager() *InMemoryRepositoryManager {
	return &InMemoryRepositoryManager{
		users: users.NewMemoryRepository(),
		notes: notes.NewMemoryRepository(),
	}
}

func (m *InMemoryRepositoryManager) RunMigrations(context.Context, *sql.DB) error { return nil }

func (m *InMemoryRepositoryManager) Users(dbx.DBTX) users.Repository { return m.users }

func (m *InMemoryRepositoryManager) Notes(dbx.DBTX) notes.Repository { return m.notes }
