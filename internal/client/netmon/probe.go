package netmon

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/dmitrijs2005/mobilecore/internal/logging"
	"github.com/dmitrijs2005/mobilecore/internal/netx"
	"google.golang.org/grpc"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// Prober checks whether the backend can be reached.
type Prober interface {
	Probe(ctx context.Context) error
}

type ProberFunc func(ctx context.Context) error

func (f ProberFunc) Probe(ctx context.Context) error { return f(ctx) }

// HTTPProber treats any HTTP response from URL as reachable: even a 404
// proves a route to the server exists.
type HTTPProber struct {
	URL    string
	Client *http.Client
}

func (p HTTPProber) Probe(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.URL, nil)
	if err != nil {
		return err
	}
	c := p.Client
	if c == nil {
		c = http.DefaultClient
	}

	resp, err := c.Do(req)
	if err != nil {
		return err
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return resp.Body.Close()
}

// GRPCHealthProber asks a grpc.health.v1 server for Service ("" = whole server).
type GRPCHealthProber struct {
	Conn    grpc.ClientConnInterface
	Service string
}

func (p GRPCHealthProber) Probe(ctx context.Context) error {
	resp, err := healthpb.NewHealthClient(p.Conn).Check(ctx, &healthpb.HealthCheckRequest{Service: p.Service})
	if err != nil {
		return err
	}
	if resp.GetStatus() != healthpb.HealthCheckResponse_SERVING {
		return fmt.Errorf("health status %s", resp.GetStatus())
	}
	return nil
}

// ProbeSource observes connectivity on hosts without a platform network
// API: a usable non-loopback interface means connected, and Prober decides
// internet reachability. It emits one event immediately and then one per
// Interval.
type ProbeSource struct {
	Interval time.Duration
	Timeout  time.Duration
	Prober   Prober
	// Interfaces defaults to netx.SystemInterfaces.
	Interfaces netx.Lister
	Log        logging.Logger
}

func (s *ProbeSource) Events(ctx context.Context) <-chan Event {
	out := make(chan Event)
	go func() {
		defer close(out)

		ticker := time.NewTicker(s.Interval)
		defer ticker.Stop()

		for {
			select {
			case out <- s.Observe(ctx):
			case <-ctx.Done():
				return
			}

			select {
			case <-ticker.C:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}

// Observe takes one sample.
func (s *ProbeSource) Observe(ctx context.Context) Event {
	log := logging.OrNop(s.Log)
	list := s.Interfaces
	if list == nil {
		list = netx.SystemInterfaces
	}

	ifaces, err := list()
	if err != nil {
		log.Warn(ctx, "failed to list network interfaces", "error", err)
		return Event{}
	}

	transport, connected := netx.ActiveTransport(ifaces)
	if !connected {
		return Event{Connected: boolPtr(false), InternetReachable: boolPtr(false)}
	}

	ev := Event{Connected: boolPtr(true), Type: transport}
	if s.Prober == nil {
		return ev
	}

	probeCtx := ctx
	if s.Timeout > 0 {
		var cancel context.CancelFunc
		probeCtx, cancel = context.WithTimeout(ctx, s.Timeout)
		defer cancel()
	}

	if err := s.Prober.Probe(probeCtx); err != nil {
		log.Debug(ctx, "reachability probe failed", "error", err)
		ev.InternetReachable = boolPtr(false)
	} else {
		ev.InternetReachable = boolPtr(true)
	}
	return ev
}

func boolPtr(b bool) *bool { return &b }
