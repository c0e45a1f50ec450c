package services

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/mobilecore/internal/server/models"
	"github.com/dmitrijs2005/mobilecore/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

// NoteService stores short per-user notes. It is the protected resource
// the client exercises for authenticated and queued writes.
type NoteService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewNoteService(db *sql.DB, m repomanager.RepositoryManager) *NoteService {
	return &NoteService{db: db, repomanager: m}
}

func (s *NoteService) Create(ctx context.Context, userID, title, body string) (*models.Note, error) {
	note := &models.Note{
		ID:     uuid.NewString(),
		UserID: userID,
		Title:  strings.TrimSpace(title),
		Body:   body,
	}
	n, err := s.repomanager.Notes(s.db).Create(ctx, note)
	if err != nil {
		return nil, fmt.Errorf("error creating note: %w", err)
	}
	return n, nil
}

func (s *NoteService) List(ctx context.Context, userID string) ([]models.Note, error) {
	list, err := s.repomanager.Notes(s.db).ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error listing notes: %w", err)
	}
	return list, nil
}
