package notes

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrijs2005/mobilecore/internal/server/models"
)

type MemoryRepository struct {
	mu     sync.RWMutex
	byUser map[string][]models.Note
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{byUser: make(map[string][]models.Note)}
}

func (r *MemoryRepository) Create(_ context.Context, note *models.Note) (*models.Note, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	note.CreatedAt = time.Now().UTC()
	r.byUser[note.UserID] = append(r.byUser[note.UserID], *note)
	return note, nil
}

func (r *MemoryRepository) ListByUser(_ context.Context, userID string) ([]models.Note, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return append(make([]models.Note, 0, len(r.byUser[userID])), r.byUser[userID]...), nil
}
