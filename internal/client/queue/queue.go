// Package queue persists mutating requests that could not be sent and
// replays them, oldest first, once the network is back.
//
// The whole queue is one JSON array stored under common.QueueKey. Every
// read-modify-write of that value happens under a single mutex, so
// concurrent Enqueue/Dequeue calls in one process never lose updates.
//
// Delivery is at-least-once: an entry is removed only after its replay
// succeeded, and a crash between the two replays it again.
package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dmitrijs2005/mobilecore/internal/client/models"
	"github.com/dmitrijs2005/mobilecore/internal/client/storage"
	"github.com/dmitrijs2005/mobilecore/internal/common"
	"github.com/dmitrijs2005/mobilecore/internal/logging"
	"github.com/prometheus/client_golang/prometheus"
)

var ErrReplayInProgress = errors.New("offline queue replay already in progress")

// RetryFunc re-sends one queued request. A nil error means the server
// accepted it and the entry can be dropped.
type RetryFunc func(ctx context.Context, url, method string, body json.RawMessage) error

type Queue struct {
	store       storage.Store
	log         logging.Logger
	maxAttempts int
	now         func() time.Time
	registry    *prometheus.Registry
	metrics     *metrics

	mu        sync.Mutex
	replaying atomic.Bool
}

type Option func(*Queue)

func WithLogger(l logging.Logger) Option {
	return func(q *Queue) { q.log = logging.OrNop(l).With("component", "queue") }
}

// WithMaxAttempts bounds how often an entry is replayed. Once an entry has
// failed n times it moves to the dead-letter list. 0 means retry forever.
func WithMaxAttempts(n int) Option {
	return func(q *Queue) { q.maxAttempts = n }
}

func WithClock(now func() time.Time) Option {
	return func(q *Queue) { q.now = now }
}

// WithRegistry registers the queue collectors on reg instead of a private
// registry. A registry can hold the collectors of one queue only.
func WithRegistry(reg *prometheus.Registry) Option {
	return func(q *Queue) { q.registry = reg }
}

func New(s storage.Store, opts ...Option) *Queue {
	q := &Queue{store: s, log: logging.Nop(), now: time.Now}
	for _, opt := range opts {
		opt(q)
	}
	if q.registry == nil {
		q.registry = prometheus.NewRegistry()
	}
	q.metrics = newMetrics(q.registry)
	return q
}

// Enqueue appends a request. Persistence failures are logged and returned
// for information; the caller may carry on as if nothing was queued.
func (q *Queue) Enqueue(ctx context.Context, url, method string, body any) (models.QueuedRequest, error) {
	raw, err := toRaw(body)
	if err != nil {
		q.log.Error(ctx, "failed to encode queued request body", "method", method, "url", url, "error", err)
		return models.QueuedRequest{}, err
	}

	now := q.now()
	req := models.QueuedRequest{
		ID:         newID(now),
		URL:        url,
		Method:     method,
		Body:       raw,
		EnqueuedAt: now.UnixMilli(),
	}

	err = q.update(ctx, func(list []models.QueuedRequest) []models.QueuedRequest {
		return append(list, req)
	})
	if err != nil {
		q.log.Error(ctx, "failed to persist queued request", "method", method, "url", url, "error", err)
		return req, err
	}

	q.metrics.enqueued.Inc()
	q.log.Info(ctx, "request queued for replay", "id", req.ID, "method", method, "url", url)
	return req, nil
}

// List returns the queued requests in replay order.
func (q *Queue) List(ctx context.Context) ([]models.QueuedRequest, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	return q.read(ctx, common.QueueKey)
}

// Dequeue removes the entry with the given id. A missing id is not an error.
func (q *Queue) Dequeue(ctx context.Context, id string) error {
	return q.update(ctx, func(list []models.QueuedRequest) []models.QueuedRequest {
		return remove(list, id)
	})
}

// Clear drops every queued request. It is idempotent.
func (q *Queue) Clear(ctx context.Context) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if err := q.store.Delete(ctx, common.QueueKey); err != nil {
		return err
	}
	q.metrics.length.Set(0)
	return nil
}

// DeadLetters returns the entries that exhausted their attempts.
func (q *Queue) DeadLetters(ctx context.Context) ([]models.QueuedRequest, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	return q.read(ctx, common.DeadLetterKey)
}

func (q *Queue) ClearDeadLetters(ctx context.Context) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	return q.store.Delete(ctx, common.DeadLetterKey)
}

func (q *Queue) update(ctx context.Context, fn func([]models.QueuedRequest) []models.QueuedRequest) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	list, err := q.read(ctx, common.QueueKey)
	if err != nil {
		return err
	}
	return q.write(ctx, common.QueueKey, fn(list))
}

// read loads the list under key. A corrupt value is logged and treated as
// an empty list so one bad write cannot wedge the queue.
func (q *Queue) read(ctx context.Context, key string) ([]models.QueuedRequest, error) {
	data, err := q.store.Get(ctx, key)
	if err != nil {
		if errors.Is(err, common.ErrParse) {
			// undecryptable value, e.g. after a passphrase change
			q.log.Warn(ctx, "discarding unreadable queue", "key", key, "error", err)
			return nil, nil
		}
		return nil, err
	}
	if len(data) == 0 {
		return nil, nil
	}

	var list []models.QueuedRequest
	if err := json.Unmarshal(data, &list); err != nil {
		q.log.Warn(ctx, "discarding unreadable queue", "key", key, "error", &common.ParseError{Key: key, Err: err})
		return nil, nil
	}

	sort.SliceStable(list, func(i, j int) bool { return list[i].EnqueuedAt < list[j].EnqueuedAt })
	return list, nil
}

func (q *Queue) write(ctx context.Context, key string, list []models.QueuedRequest) error {
	data, err := encodeList(key, list)
	if err != nil {
		return err
	}
	if err := q.store.Set(ctx, key, data); err != nil {
		return err
	}
	if key == common.QueueKey {
		q.metrics.length.Set(float64(len(list)))
	}
	return nil
}

func encodeList(key string, list []models.QueuedRequest) ([]byte, error) {
	if list == nil {
		list = []models.QueuedRequest{}
	}
	data, err := json.Marshal(list)
	if err != nil {
		return nil, &common.StorageError{Op: "set", Key: key, Err: err}
	}
	return data, nil
}

func remove(list []models.QueuedRequest, id string) []models.QueuedRequest {
	out := list[:0]
	for _, r := range list {
		if r.ID != id {
			out = append(out, r)
		}
	}
	return out
}

func toRaw(body any) (json.RawMessage, error) {
	switch b := body.(type) {
	case nil:
		return nil, nil
	case json.RawMessage:
		if len(b) == 0 {
			return nil, nil
		}
		if !json.Valid(b) {
			return nil, fmt.Errorf("body is not valid JSON")
		}
		return b, nil
	case []byte:
		return toRaw(json.RawMessage(b))
	default:
		return json.Marshal(b)
	}
}
