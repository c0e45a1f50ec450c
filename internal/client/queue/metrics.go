package queue

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	enqueuedMetric       = "mobilecore_offline_queue_enqueued_total"
	replayedMetric       = "mobilecore_offline_queue_replayed_total"
	replayFailuresMetric = "mobilecore_offline_queue_replay_failures_total"
	deadLetteredMetric   = "mobilecore_offline_queue_dead_lettered_total"
	lengthMetric         = "mobilecore_offline_queue_length"
)

type metrics struct {
	enqueued       prometheus.Counter
	replayed       prometheus.Counter
	replayFailures prometheus.Counter
	deadLettered   prometheus.Counter
	length         prometheus.Gauge
}

func newMetrics(reg prometheus.Registerer) *metrics {
	f := promauto.With(reg)
	return &metrics{
		enqueued: f.NewCounter(prometheus.CounterOpts{
			Name: enqueuedMetric,
			Help: "Requests added to the offline queue",
		}),
		replayed: f.NewCounter(prometheus.CounterOpts{
			Name: replayedMetric,
			Help: "Queued requests replayed successfully",
		}),
		replayFailures: f.NewCounter(prometheus.CounterOpts{
			Name: replayFailuresMetric,
			Help: "Failed replay attempts",
		}),
		deadLettered: f.NewCounter(prometheus.CounterOpts{
			Name: deadLetteredMetric,
			Help: "Queued requests moved to the dead-letter list",
		}),
		length: f.NewGauge(prometheus.GaugeOpts{
			Name: lengthMetric,
			Help: "Requests currently waiting in the offline queue",
		}),
	}
}

// Stats is a snapshot of the queue counters since the process started.
type Stats struct {
	Enqueued       int
	Replayed       int
	ReplayFailures int
	DeadLettered   int
	Length         int
}

// Stats gathers the queue's collectors from its registry.
func (q *Queue) Stats() (Stats, error) {
	families, err := q.registry.Gather()
	if err != nil {
		return Stats{}, err
	}

	var st Stats
	for _, mf := range families {
		ms := mf.GetMetric()
		if len(ms) == 0 {
			continue
		}
		m := ms[0]
		switch mf.GetName() {
		case enqueuedMetric:
			st.Enqueued = int(m.GetCounter().GetValue())
		case replayedMetric:
			st.Replayed = int(m.GetCounter().GetValue())
		case replayFailuresMetric:
			st.ReplayFailures = int(m.GetCounter().GetValue())
		case deadLetteredMetric:
			st.DeadLettered = int(m.GetCounter().GetValue())
		case lengthMetric:
			st.Length = int(m.GetGauge().GetValue())
		}
	}
	return st, nil
}
