package storage

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/mobilecore/internal/common"
	"github.com/dmitrijs2005/mobilecore/internal/cryptox"
)

// SecureStore encrypts every value with AES-GCM before handing it to the
// wrapped Store. The key is derived from a passphrase and a random salt
// that is generated on first use and kept, unencrypted, under
// common.KDFSaltKey.
type SecureStore struct {
	inner Store
	key   []byte
}

var _ BatchStore = (*SecureStore)(nil)

func NewSecureStore(ctx context.Context, inner Store, passphrase string) (*SecureStore, error) {
	salt, err := inner.Get(ctx, common.KDFSaltKey)
	if err != nil {
		return nil, err
	}
	if len(salt) == 0 {
		salt = common.GenerateRandByteArray(cryptox.SaltSize)
		if err := inner.Set(ctx, common.KDFSaltKey, salt); err != nil {
			return nil, err
		}
	}

	return &SecureStore{
		inner: inner,
		key:   cryptox.DeriveKey([]byte(passphrase), salt),
	}, nil
}

func (s *SecureStore) Get(ctx context.Context, key string) ([]byte, error) {
	sealed, err := s.inner.Get(ctx, key)
	if err != nil || sealed == nil {
		return nil, err
	}

	plain, err := cryptox.Open(s.key, sealed)
	if err != nil {
		return nil, &common.ParseError{Key: key, Err: fmt.Errorf("decrypt: %w", err)}
	}
	return plain, nil
}

func (s *SecureStore) Set(ctx context.Context, key string, value []byte) error {
	sealed, err := cryptox.Seal(s.key, value)
	if err != nil {
		return storageErr("set", key, err)
	}
	return s.inner.Set(ctx, key, sealed)
}

// SetMany is atomic only when the wrapped store is a BatchStore.
func (s *SecureStore) SetMany(ctx context.Context, values map[string][]byte) error {
	sealed := make(map[string][]byte, len(values))
	for k, v := range values {
		b, err := cryptox.Seal(s.key, v)
		if err != nil {
			return storageErr("set", k, err)
		}
		sealed[k] = b
	}

	if bs, ok := s.inner.(BatchStore); ok {
		return bs.SetMany(ctx, sealed)
	}
	for k, v := range sealed {
		if err := s.inner.Set(ctx, k, v); err != nil {
			return err
		}
	}
	return nil
}

func (s *SecureStore) Delete(ctx context.Context, key string) error {
	return s.inner.Delete(ctx, key)
}

// Close wipes the derived key and closes the wrapped store when it can be closed.
func (s *SecureStore) Close() error {
	common.WipeByteArray(s.key)
	if c, ok := s.inner.(interface{ Close() error }); ok {
		return c.Close()
	}
	return nil
}
