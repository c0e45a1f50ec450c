package queue

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/mobilecore/internal/client/models"
	"github.com/dmitrijs2005/mobilecore/internal/client/storage"
	"github.com/dmitrijs2005/mobilecore/internal/common"
)

// Report summarises one Process run.
type Report struct {
	Replayed     int
	Failed       []*common.ReplayError
	DeadLettered []string
	Remaining    int
}

// Err joins the per-entry failures, nil when every entry was replayed.
func (r Report) Err() error {
	errs := make([]error, len(r.Failed))
	for i, f := range r.Failed {
		errs[i] = f
	}
	return errors.Join(errs...)
}

// Process replays the queue in enqueue order. Each entry is removed right
// after its replay succeeds; a failed entry stays queued and replay moves
// on to the next one. An empty queue returns immediately.
//
// Only one Process may run at a time; a concurrent call returns
// ErrReplayInProgress. The returned error covers reading the queue and
// context cancellation; per-entry failures are in Report.Failed.
func (q *Queue) Process(ctx context.Context, retry RetryFunc) (Report, error) {
	if !q.replaying.CompareAndSwap(false, true) {
		return Report{}, ErrReplayInProgress
	}
	defer q.replaying.Store(false)

	pending, err := q.List(ctx)
	if err != nil {
		return Report{}, err
	}
	if len(pending) == 0 {
		return Report{}, nil
	}

	q.log.Info(ctx, "replaying offline queue", "count", len(pending))

	var rep Report
	for _, req := range pending {
		if err := ctx.Err(); err != nil {
			rep.Remaining = q.remaining(ctx)
			return rep, err
		}

		if err := retry(ctx, req.URL, req.Method, req.Body); err != nil {
			q.onFailure(ctx, &rep, req, err)
			continue
		}

		q.metrics.replayed.Inc()
		rep.Replayed++
		if err := q.Dequeue(ctx, req.ID); err != nil {
			q.log.Error(ctx, "replayed request could not be removed from queue", "id", req.ID, "error", err)
		}
	}

	rep.Remaining = q.remaining(ctx)
	q.log.Info(ctx, "offline queue replay finished",
		"replayed", rep.Replayed, "failed", len(rep.Failed), "dead_lettered", len(rep.DeadLettered), "remaining", rep.Remaining)
	return rep, nil
}

func (q *Queue) onFailure(ctx context.Context, rep *Report, req models.QueuedRequest, cause error) {
	q.metrics.replayFailures.Inc()

	attempts := req.Attempts + 1
	rep.Failed = append(rep.Failed, &common.ReplayError{
		ID: req.ID, Method: req.Method, URL: req.URL, Attempts: attempts, Err: cause,
	})
	q.log.Warn(ctx, "queued request failed again", "id", req.ID, "method", req.Method, "url", req.URL, "attempts", attempts, "error", cause)

	dead, err := q.recordAttempt(ctx, req.ID)
	if err != nil {
		q.log.Error(ctx, "failed to update queued request", "id", req.ID, "error", err)
		return
	}
	if dead {
		q.metrics.deadLettered.Inc()
		rep.DeadLettered = append(rep.DeadLettered, req.ID)
		q.log.Warn(ctx, "queued request moved to dead letters", "id", req.ID, "attempts", attempts)
	}
}

// recordAttempt bumps the attempt counter of id and, when the limit is
// reached, moves the entry to the dead-letter list in the same write.
func (q *Queue) recordAttempt(ctx context.Context, id string) (dead bool, err error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	list, err := q.read(ctx, common.QueueKey)
	if err != nil {
		return false, err
	}

	var entry *models.QueuedRequest
	for i := range list {
		if list[i].ID == id {
			list[i].Attempts++
			entry = &list[i]
			break
		}
	}
	if entry == nil {
		return false, nil
	}

	if q.maxAttempts <= 0 || entry.Attempts < q.maxAttempts {
		return false, q.write(ctx, common.QueueKey, list)
	}

	letters, err := q.read(ctx, common.DeadLetterKey)
	if err != nil {
		return false, err
	}
	letters = append(letters, *entry)
	list = remove(list, id)

	return true, q.writeBoth(ctx, list, letters)
}

func (q *Queue) writeBoth(ctx context.Context, list, letters []models.QueuedRequest) error {
	bs, ok := q.store.(storage.BatchStore)
	if !ok {
		if err := q.write(ctx, common.DeadLetterKey, letters); err != nil {
			return err
		}
		return q.write(ctx, common.QueueKey, list)
	}

	queueData, err := encodeList(common.QueueKey, list)
	if err != nil {
		return err
	}
	letterData, err := encodeList(common.DeadLetterKey, letters)
	if err != nil {
		return err
	}
	if err := bs.SetMany(ctx, map[string][]byte{common.QueueKey: queueData, common.DeadLetterKey: letterData}); err != nil {
		return err
	}
	q.metrics.length.Set(float64(len(list)))
	return nil
}

func (q *Queue) remaining(ctx context.Context) int {
	list, err := q.List(context.WithoutCancel(ctx))
	if err != nil {
		return -1
	}
	return len(list)
}
