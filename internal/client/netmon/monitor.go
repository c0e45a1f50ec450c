// Package netmon tracks device connectivity and internet reachability.
//
// A platform Source emits raw connectivity events; Monitor turns each event
// into a models.NetworkStatus and republishes it to every subscriber, even
// when it equals the previous status. Until the first event arrives the
// status is optimistic (connected and reachable) to avoid a false offline
// state on start-up.
package netmon

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/mobilecore/internal/client/models"
	"github.com/dmitrijs2005/mobilecore/internal/logging"
)

// Event is one raw observation. Nil pointers mean the platform does not
// know the value (yet).
type Event struct {
	Connected         *bool
	InternetReachable *bool
	Type              string
}

// Source produces connectivity events until ctx is done, then closes the channel.
type Source interface {
	Events(ctx context.Context) <-chan Event
}

type Monitor struct {
	log logging.Logger

	mu     sync.RWMutex
	status models.NetworkStatus

	subMu  sync.Mutex
	nextID int
	subs   map[int]func(models.NetworkStatus)
}

func NewMonitor(l logging.Logger) *Monitor {
	return &Monitor{
		log:    logging.OrNop(l).With("component", "netmon"),
		status: models.NetworkStatus{Connected: true, InternetReachable: models.Reachable},
		subs:   make(map[int]func(models.NetworkStatus)),
	}
}

// StatusFromEvent maps a raw event to a status. Unknown connectivity counts
// as disconnected; unknown reachability stays unknown.
func StatusFromEvent(ev Event) models.NetworkStatus {
	st := models.NetworkStatus{TransportType: ev.Type}
	if ev.Connected != nil {
		st.Connected = *ev.Connected
	}
	if ev.InternetReachable != nil {
		if *ev.InternetReachable {
			st.InternetReachable = models.Reachable
		} else {
			st.InternetReachable = models.Unreachable
		}
	}
	return st
}

// Handle recomputes the status from ev and publishes it.
func (m *Monitor) Handle(ctx context.Context, ev Event) models.NetworkStatus {
	st := StatusFromEvent(ev)

	m.mu.Lock()
	prev := m.status
	m.status = st
	m.mu.Unlock()

	if prev != st {
		m.log.Info(ctx, "network status changed",
			"connected", st.Connected, "reachable", st.InternetReachable.String(), "type", st.TransportType)
	}

	m.publish(st)
	return st
}

func (m *Monitor) Status() models.NetworkStatus {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.status
}

func (m *Monitor) Online() bool {
	return m.Status().Online()
}

// Subscribe registers fn for every published status and returns a function
// that removes it.
func (m *Monitor) Subscribe(fn func(models.NetworkStatus)) (unsubscribe func()) {
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

// Run feeds events from src into the monitor until ctx is done or the
// source closes its channel.
func (m *Monitor) Run(ctx context.Context, src Source) {
	events := src.Events(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			m.Handle(ctx, ev)
		}
	}
}

func (m *Monitor) publish(st models.NetworkStatus) {
	m.subMu.Lock()
	fns := make([]func(models.NetworkStatus), 0, len(m.subs))
	for _, fn := range m.subs {
		fns = append(fns, fn)
	}
	m.subMu.Unlock()

	for _, fn := range fns {
		fn(st)
	}
}

// OnReconnect calls fn each time the status goes from offline to online.
// Repeated online events do not call it again.
func OnReconnect(m *Monitor, fn func()) (unsubscribe func()) {
	var mu sync.Mutex
	wasOnline := m.Online()

	return m.Subscribe(func(st models.NetworkStatus) {
		mu.Lock()
		online := st.Online()
		fire := online && !wasOnline
		wasOnline = online
		mu.Unlock()

		if fire {
			fn()
		}
	})
}

const (
	BannerOffline = "No internet connection"
	BannerLimited = "Limited connectivity - some features may be unavailable"
)

// Banner returns the user-facing connectivity notice, "" when online.
func Banner(st models.NetworkStatus) string {
	switch {
	case !st.Connected:
		return BannerOffline
	case st.InternetReachable != models.Reachable:
		return BannerLimited
	default:
		return ""
	}
}
