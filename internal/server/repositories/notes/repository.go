package notes

import (
	"context"

	"github.com/dmitrijs2005/mobilecore/internal/server/models"
)

// Repository stores notes per user.
type Repository interface {
	Create(ctx context.Context, note *models.Note) (*models.Note, error)
	// ListByUser returns the user's notes oldest first.
	ListByUser(ctx context.Context, userID string) ([]models.Note, error)
}
