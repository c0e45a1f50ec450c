package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/dmitrijs2005/mobilecore/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// plainStore hides SetMany of the wrapped store and can fail on demand.
type plainStore struct {
	inner   *MemoryStore
	failGet error
	failSet error
}

func (p *plainStore) Get(ctx context.Context, key string) ([]byte, error) {
	if p.failGet != nil {
		return nil, p.failGet
	}
	return p.inner.Get(ctx, key)
}

func (p *plainStore) Set(ctx context.Context, key string, value []byte) error {
	if p.failSet != nil {
		return p.failSet
	}
	return p.inner.Set(ctx, key, value)
}

func (p *plainStore) Delete(ctx context.Context, key string) error {
	return p.inner.Delete(ctx, key)
}

func TestSecureStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	inner := NewMemoryStore()

	s, err := NewSecureStore(ctx, inner, "passphrase")
	require.NoError(t, err)

	require.NoError(t, s.Set(ctx, common.TokenKey, []byte("secret-token")))

	raw, err := inner.Get(ctx, common.TokenKey)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "secret-token", "value must be encrypted at rest")

	got, err := s.Get(ctx, common.TokenKey)
	require.NoError(t, err)
	assert.Equal(t, "secret-token", string(got))

	missing, err := s.Get(ctx, "absent")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestSecureStore_SaltPersistsAcrossInstances(t *testing.T) {
	ctx := context.Background()
	inner := newSQLiteStore(t)

	s1, err := NewSecureStore(ctx, inner, "passphrase")
	require.NoError(t, err)
	require.NoError(t, s1.Set(ctx, "k", []byte("v")))

	salt, err := inner.Get(ctx, common.KDFSaltKey)
	require.NoError(t, err)
	require.NotEmpty(t, salt)

	s2, err := NewSecureStore(ctx, inner, "passphrase")
	require.NoError(t, err)
	got, err := s2.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), got)
}

func TestSecureStore_TamperedValueIsParseError(t *testing.T) {
	ctx := context.Background()
	inner := NewMemoryStore()
	s, err := NewSecureStore(ctx, inner, "passphrase")
	require.NoError(t, err)

	require.NoError(t, s.Set(ctx, common.UserKey, []byte(`{"id":"u1"}`)))
	raw, _ := inner.Get(ctx, common.UserKey)
	raw[len(raw)-1] ^= 0x01
	require.NoError(t, inner.Set(ctx, common.UserKey, raw))

	_, err = s.Get(ctx, common.UserKey)
	require.ErrorIs(t, err, common.ErrParse)

	var pe *common.ParseError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, common.UserKey, pe.Key)
}

func TestSecureStore_WrongPassphrase(t *testing.T) {
	ctx := context.Background()
	inner := NewMemoryStore()

	s1, err := NewSecureStore(ctx, inner, "right")
	require.NoError(t, err)
	require.NoError(t, s1.Set(ctx, "k", []byte("v")))

	s2, err := NewSecureStore(ctx, inner, "wrong")
	require.NoError(t, err)
	_, err = s2.Get(ctx, "k")
	require.ErrorIs(t, err, common.ErrParse)
}

func TestSecureStore_SetManyWithoutBatchSupport(t *testing.T) {
	ctx := context.Background()
	inner := &plainStore{inner: NewMemoryStore()}

	s, err := NewSecureStore(ctx, inner, "p")
	require.NoError(t, err)
	require.NoError(t, s.SetMany(ctx, map[string][]byte{"a": []byte("1"), "b": []byte("2")}))

	a, err := s.Get(ctx, "a")
	require.NoError(t, err)
	b, err := s.Get(ctx, "b")
	require.NoError(t, err)
	assert.Equal(t, "1", string(a))
	assert.Equal(t, "2", string(b))

	inner.failSet = errors.New("disk full")
	require.Error(t, s.SetMany(ctx, map[string][]byte{"c": []byte("3")}))
}

func TestSecureStore_SetManyBatch(t *testing.T) {
	ctx := context.Background()
	s, err := NewSecureStore(ctx, newSQLiteStore(t), "p")
	require.NoError(t, err)

	require.NoError(t, s.SetMany(ctx, map[string][]byte{common.TokenKey: []byte("t"), common.UserKey: []byte("u")}))
	v, err := s.Get(ctx, common.UserKey)
	require.NoError(t, err)
	assert.Equal(t, "u", string(v))

	require.NoError(t, s.Delete(ctx, common.UserKey))
	v, err = s.Get(ctx, common.UserKey)
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestNewSecureStore_InnerFailures(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("boom")

	_, err := NewSecureStore(ctx, &plainStore{inner: NewMemoryStore(), failGet: boom}, "p")
	require.ErrorIs(t, err, boom)

	_, err = NewSecureStore(ctx, &plainStore{inner: NewMemoryStore(), failSet: boom}, "p")
	require.ErrorIs(t, err, boom)
}

func TestSecureStore_Close(t *testing.T) {
	ctx := context.Background()
	s, err := NewSecureStore(ctx, newSQLiteStore(t), "p")
	require.NoError(t, err)
	require.NoError(t, s.Close())
	assert.Equal(t, make([]byte, len(s.key)), s.key)
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()

	v := []byte("abc")
	require.NoError(t, m.Set(ctx, "k", v))
	v[0] = 'X'

	got, err := m.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(got), "stored value must be a copy")

	require.NoError(t, m.SetMany(ctx, map[string][]byte{"a": nil, "b": nil}))
	assert.Equal(t, 3, m.Len())

	require.NoError(t, m.Delete(ctx, "k"))
	require.NoError(t, m.Delete(ctx, "k"))
	assert.Equal(t, 2, m.Len())
}
