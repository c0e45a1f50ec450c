// Package storage is the persistent key-value capability the credential
// store and the offline queue are built on.
//
// Values are opaque bytes addressed by string keys. A missing key is not an
// error: Get returns (nil, nil). Every failure is a *common.StorageError, or a
// *common.ParseError when SecureStore cannot decrypt a stored value.
package storage

import (
	"context"

	"github.com/dmitrijs2005/mobilecore/internal/common"
)

type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	// Delete is idempotent: deleting a missing key succeeds.
	Delete(ctx context.Context, key string) error
}

// BatchStore is implemented by stores that can write several keys atomically.
type BatchStore interface {
	Store
	SetMany(ctx context.Context, values map[string][]byte) error
}

func storageErr(op, key string, err error) error {
	return &common.StorageError{Op: op, Key: key, Err: err}
}
