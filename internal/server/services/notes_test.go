package services

import (
	"context"
	"errors"
	"testing"

	"github.com/dmitrijs2005/mobilecore/internal/server/repositories/repomanager"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoteService_CreateAndList(t *testing.T) {
	ctx := context.Background()
	s := NewNoteService(nil, repomanager.NewInMemoryRepositoryManager())

	n, err := s.Create(ctx, "u1", "  shopping ", "milk")
	require.NoError(t, err)
	assert.NotEmpty(t, n.ID)
	assert.Equal(t, "u1", n.UserID)
	assert.Equal(t, "shopping", n.Title)
	assert.False(t, n.CreatedAt.IsZero())

	_, err = s.Create(ctx, "u2", "other", "")
	require.NoError(t, err)

	list, err := s.List(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, n.ID, list[0].ID)

	// у нового пользователя заметок нет
	list, err = s.List(ctx, "u3")
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestNoteService_RepoErrorsWrapped(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("boom")
	s := NewNoteService(nil, brokenManager{err: boom})

	_, err := s.Create(ctx, "u1", "t", "b")
	require.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "error creating note")

	_, err = s.List(ctx, "u1")
	require.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "error listing notes")
}
