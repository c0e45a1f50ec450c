// Package audit records security-relevant session events.
package audit

import (
	"context"

	"github.com/dmitrijs2005/mobilecore/internal/logging"
)

type Event string

const (
	UserLogin   Event = "USER_LOGIN"
	UserLogout  Event = "USER_LOGOUT"
	TokenLoaded Event = "TOKEN_LOADED"
)

// Record is one audit entry. Email is only set for UserLogin.
type Record struct {
	Event  Event
	UserID string
	Email  string
}

type Recorder interface {
	Record(ctx context.Context, r Record)
}

// LogRecorder writes audit records through a logger at info level.
type LogRecorder struct {
	log logging.Logger
}

func NewLogRecorder(l logging.Logger) *LogRecorder {
	return &LogRecorder{log: logging.OrNop(l).With("component", "audit")}
}

func (a *LogRecorder) Record(ctx context.Context, r Record) {
	args := []any{"event", string(r.Event), "userId", r.UserID}
	if r.Email != "" {
		args = append(args, "email", r.Email)
	}
	a.log.Info(ctx, "audit", args...)
}

// RecorderFunc adapts a function to Recorder.
type RecorderFunc func(ctx context.Context, r Record)

func (f RecorderFunc) Record(ctx context.Context, r Record) { f(ctx, r) }
