// Package session owns the in-memory authentication state of the client.
//
// A Manager is constructed once at startup and handed to the HTTP client,
// the services and the CLI. Login, Logout and Restore are serialized on one
// mutex so that persisted credentials and the in-memory session never
// diverge; readers always see a whole session or none.
package session

import (
	"context"
	"errors"
	"sync"

	"github.com/dmitrijs2005/mobilecore/internal/client/audit"
	"github.com/dmitrijs2005/mobilecore/internal/client/credentials"
	"github.com/dmitrijs2005/mobilecore/internal/client/models"
	"github.com/dmitrijs2005/mobilecore/internal/logging"
)

// CredentialStore is the persistence the Manager needs.
type CredentialStore interface {
	Save(ctx context.Context, token string, user models.User) error
	Load(ctx context.Context) (string, *models.User, error)
	Clear(ctx context.Context) error
}

// State is a snapshot published to subscribers.
type State struct {
	Session *models.Session
	Loading bool
}

func (s State) IsAuthenticated() bool { return s.Session != nil }

type Manager struct {
	creds CredentialStore
	audit audit.Recorder
	log   logging.Logger

	// writeMu serializes Login, Logout and Restore.
	writeMu sync.Mutex

	mu      sync.RWMutex
	session *models.Session
	loading bool

	subMu  sync.Mutex
	nextID int
	subs   map[int]func(State)
}

func NewManager(creds CredentialStore, rec audit.Recorder, l logging.Logger) *Manager {
	log := logging.OrNop(l).With("component", "session")
	if rec == nil {
		rec = audit.NewLogRecorder(log)
	}
	return &Manager{
		creds:   creds,
		audit:   rec,
		log:     log,
		loading: true,
		subs:    make(map[int]func(State)),
	}
}

// Login persists token and user and then makes them the current session.
// If persistence fails the in-memory state is left untouched and the
// *common.StorageError is returned.
func (m *Manager) Login(ctx context.Context, token string, user models.User) error {
	m.writeMu.Lock()
	defer m.writeMu.Unlock()

	if err := m.creds.Save(ctx, token, user); err != nil {
		m.log.Error(ctx, "failed to persist credentials", "userId", user.ID, "error", err)
		return err
	}

	m.set(models.NewSession(token, user), false)
	m.audit.Record(ctx, audit.Record{Event: audit.UserLogin, UserID: user.ID, Email: user.Email})
	return nil
}

// Logout clears the session. Deleting persisted credentials is best effort:
// failures are logged and the in-memory session is cleared regardless.
func (m *Manager) Logout(ctx context.Context) {
	m.writeMu.Lock()
	defer m.writeMu.Unlock()

	if err := m.creds.Clear(ctx); err != nil {
		m.log.Error(ctx, "failed to delete stored credentials", "error", err)
	}

	prev := m.Current()
	m.set(nil, false)

	if prev != nil {
		m.audit.Record(ctx, audit.Record{Event: audit.UserLogout, UserID: prev.UserID})
	}
}

// Restore loads persisted credentials. It never fails: anything short of a
// token plus a readable user record leaves the client unauthenticated.
// Loading is cleared when it returns.
func (m *Manager) Restore(ctx context.Context) {
	m.writeMu.Lock()
	defer m.writeMu.Unlock()

	token, user, err := m.creds.Load(ctx)
	if err != nil {
		if errors.Is(err, credentials.ErrNoCredentials) {
			m.log.Debug(ctx, "no stored credentials")
		} else {
			m.log.Warn(ctx, "failed to restore session", "error", err)
		}
		m.set(nil, true)
		return
	}

	m.set(models.NewSession(token, *user), true)
	m.audit.Record(ctx, audit.Record{Event: audit.TokenLoaded, UserID: user.ID})
}

// Current returns a copy of the session, or nil when unauthenticated.
func (m *Manager) Current() *models.Session {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.session == nil {
		return nil
	}
	s := *m.session
	return &s
}

// Token returns the bearer token, or "" when unauthenticated.
func (m *Manager) Token() string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.session == nil {
		return ""
	}
	return m.session.Token
}

func (m *Manager) IsAuthenticated() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.session != nil
}

// IsLoading is true until the first Restore completes.
func (m *Manager) IsLoading() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.loading
}

// Subscribe registers fn to be called with every new state. The returned
// function removes the subscription. fn runs while the Manager holds its
// write lock, so it must not call Login, Logout or Restore itself.
func (m *Manager) Subscribe(fn func(State)) (unsubscribe func()) {
	m.subMu.Lock()
	id := m.nextID
	m.nextID++
	m.subs[id] = fn
	m.subMu.Unlock()

	return func() {
		m.subMu.Lock()
		delete(m.subs, id)
		m.subMu.Unlock()
	}
}

func (m *Manager) set(s *models.Session, restored bool) {
	m.mu.Lock()
	m.session = s
	if restored {
		m.loading = false
	}
	st := m.stateLocked()
	m.mu.Unlock()

	m.publish(st)
}

func (m *Manager) stateLocked() State {
	st := State{Loading: m.loading}
	if m.session != nil {
		s := *m.session
		st.Session = &s
	}
	return st
}

func (m *Manager) publish(st State) {
	m.subMu.Lock()
	fns := make([]func(State), 0, len(m.subs))
	for _, fn := range m.subs {
		fns = append(fns, fn)
	}
	m.subMu.Unlock()

	for _, fn := range fns {
		fn(st)
	}
}
