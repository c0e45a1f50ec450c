// Package credentials persists the bearer token and the user record under
// two keys of a storage.Store.
package credentials

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/mobilecore/internal/client/models"
	"github.com/dmitrijs2005/mobilecore/internal/client/storage"
	"github.com/dmitrijs2005/mobilecore/internal/common"
)

// ErrNoCredentials is returned by Load when the token or the user record is missing.
var ErrNoCredentials = errors.New("no stored credentials")

type Store struct {
	store storage.Store
}

func New(s storage.Store) *Store {
	return &Store{store: s}
}

// Save writes the token and the user record. With a storage.BatchStore both
// keys are written in one transaction; otherwise both writes are attempted
// and their errors joined.
func (s *Store) Save(ctx context.Context, token string, user models.User) error {
	userJSON, err := json.Marshal(user)
	if err != nil {
		return &common.StorageError{Op: "set", Key: common.UserKey, Err: err}
	}

	if bs, ok := s.store.(storage.BatchStore); ok {
		return bs.SetMany(ctx, map[string][]byte{
			common.TokenKey: []byte(token),
			common.UserKey:  userJSON,
		})
	}

	return errors.Join(
		s.store.Set(ctx, common.TokenKey, []byte(token)),
		s.store.Set(ctx, common.UserKey, userJSON),
	)
}

// Load returns the stored token and user. A missing key yields
// ErrNoCredentials; an unreadable user record yields *common.ParseError.
func (s *Store) Load(ctx context.Context) (string, *models.User, error) {
	token, err := s.store.Get(ctx, common.TokenKey)
	if err != nil {
		return "", nil, err
	}
	userJSON, err := s.store.Get(ctx, common.UserKey)
	if err != nil {
		return "", nil, err
	}
	if len(token) == 0 || len(userJSON) == 0 {
		return "", nil, ErrNoCredentials
	}

	var user models.User
	if err := json.Unmarshal(userJSON, &user); err != nil {
		return "", nil, &common.ParseError{Key: common.UserKey, Err: err}
	}
	if user.ID == "" {
		return "", nil, &common.ParseError{Key: common.UserKey, Err: fmt.Errorf("user record has no id")}
	}
	return string(token), &user, nil
}

// Clear deletes both keys. Both deletes are always attempted.
func (s *Store) Clear(ctx context.Context) error {
	return errors.Join(
		s.store.Delete(ctx, common.TokenKey),
		s.store.Delete(ctx, common.UserKey),
	)
}
