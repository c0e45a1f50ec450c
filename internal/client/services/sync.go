package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/mobilecore/internal/client/models"
	"github.com/dmitrijs2005/mobilecore/internal/client/netmon"
	"github.com/dmitrijs2005/mobilecore/internal/client/queue"
	"github.com/dmitrijs2005/mobilecore/internal/common"
	"github.com/dmitrijs2005/mobilecore/internal/logging"
)

// ErrQueued is returned by Submit when the request was stored for replay
// instead of being sent.
var ErrQueued = errors.New("request queued for replay")

// Requester is implemented by *client.HTTPClient.
type Requester interface {
	Do(ctx context.Context, method, path string, body, out any) error
}

type OfflineQueue interface {
	Enqueue(ctx context.Context, url, method string, body any) (models.QueuedRequest, error)
	Process(ctx context.Context, retry queue.RetryFunc) (queue.Report, error)
}

// Connectivity is implemented by *netmon.Monitor.
type Connectivity interface {
	Online() bool
}

type SyncService struct {
	http  Requester
	queue OfflineQueue
	net   Connectivity
	log   logging.Logger
}

func NewSyncService(r Requester, q OfflineQueue, c Connectivity, l logging.Logger) *SyncService {
	return &SyncService{http: r, queue: q, net: c, log: logging.OrNop(l).With("component", "sync")}
}

// Submit sends a request. A mutating request (POST, PUT, PATCH, DELETE) is
// queued instead when the device is offline or the request never reached
// the server; in that case ErrQueued is returned. Any other failure,
// including HTTP error statuses, is returned as is.
func (s *SyncService) Submit(ctx context.Context, method, path string, body, out any) error {
	if !isMutating(method) {
		return s.http.Do(ctx, method, path, body, out)
	}

	if !s.net.Online() {
		return s.enqueue(ctx, method, path, body)
	}

	err := s.http.Do(ctx, method, path, body, out)
	var ne *common.NetworkError
	if errors.As(err, &ne) && ne.IsTransport() {
		s.log.Info(ctx, "request failed at transport level, queueing", "method", method, "path", path, "error", err)
		return s.enqueue(ctx, method, path, body)
	}
	return err
}

func (s *SyncService) enqueue(ctx context.Context, method, path string, body any) error {
	if _, err := s.queue.Enqueue(ctx, path, method, body); err != nil {
		return fmt.Errorf("queue %s %s: %w", method, path, err)
	}
	return ErrQueued
}

// Flush replays the offline queue through the shared HTTP client.
func (s *SyncService) Flush(ctx context.Context) (queue.Report, error) {
	return s.queue.Process(ctx, func(ctx context.Context, url, method string, body json.RawMessage) error {
		var payload any
		if len(body) > 0 {
			payload = body
		}
		return s.http.Do(ctx, method, url, payload, nil)
	})
}

// Start replays the queue every time m reports a return to online, and
// once right away when m is already online so requests left over from the
// previous run go out. The returned function stops it.
func (s *SyncService) Start(ctx context.Context, m *netmon.Monitor) (stop func()) {
	stop = netmon.OnReconnect(m, func() { go s.replay(ctx, "reconnect") })
	if m.Online() {
		go s.replay(ctx, "startup")
	}
	return stop
}

func (s *SyncService) replay(ctx context.Context, trigger string) {
	rep, err := s.Flush(ctx)
	switch {
	case errors.Is(err, queue.ErrReplayInProgress):
		s.log.Debug(ctx, "replay already running")
	case err != nil:
		s.log.Error(ctx, "offline queue replay failed", "trigger", trigger, "error", err)
	case rep.Replayed > 0 || len(rep.Failed) > 0:
		s.log.Info(ctx, "offline queue replayed", "trigger", trigger, "replayed", rep.Replayed, "failed", len(rep.Failed))
	}
}

func isMutating(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	}
	return false
}
