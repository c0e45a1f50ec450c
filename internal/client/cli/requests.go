package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/dmitrijs2005/mobilecore/internal/client/netmon"
)

var getMultiline = GetMultiline

// Request sends method path with an optional JSON body through the sync
// service. POST, PUT and PATCH without an inline body prompt for one.
func (a *App) Request(ctx context.Context, method, path, body string) error {
	if body == "" && (method == http.MethodPost || method == http.MethodPut || method == http.MethodPatch) {
		var err error
		body, err = getMultiline(a.reader, "Enter JSON body", a.out)
		if err != nil {
			return err
		}
	}

	var payload json.RawMessage
	if body != "" {
		if !json.Valid([]byte(body)) {
			return errors.New("body is not valid JSON")
		}
		payload = json.RawMessage(body)
	}

	var out json.RawMessage
	if err := a.syncService.Submit(ctx, method, path, payload, &out); err != nil {
		return err
	}

	if len(out) == 0 {
		fmt.Fprintln(a.out, "OK")
		return nil
	}
	var pretty bytes.Buffer
	if err := json.Indent(&pretty, out, "", "  "); err != nil {
		fmt.Fprintln(a.out, string(out))
		return nil
	}
	fmt.Fprintln(a.out, pretty.String())
	return nil
}

// Status prints connectivity, session and queue state.
func (a *App) Status(ctx context.Context) error {
	st := a.monitor.Status()
	fmt.Fprintf(a.out, "Network: connected=%t reachable=%s transport=%s\n", st.Connected, st.InternetReachable, st.TransportType)
	if banner := netmon.Banner(st); banner != "" {
		fmt.Fprintln(a.out, banner)
	}

	if cur := a.session.Current(); cur != nil {
		fmt.Fprintf(a.out, "Session: %s\n", cur.Email)
	} else {
		fmt.Fprintln(a.out, "Session: none")
	}

	list, err := a.queue.List(ctx)
	if err != nil {
		return err
	}
	dead, err := a.queue.DeadLetters(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Queue: %d pending, %d dead-lettered\n", len(list), len(dead))

	qs, err := a.queue.Stats()
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Since start: %d queued, %d replayed, %d failed attempts, %d dead-lettered\n",
		qs.Enqueued, qs.Replayed, qs.ReplayFailures, qs.DeadLettered)
	return nil
}

// Queue lists pending requests oldest first.
func (a *App) Queue(ctx context.Context) error {
	list, err := a.queue.List(ctx)
	if err != nil {
		return err
	}
	if len(list) == 0 {
		fmt.Fprintln(a.out, "Queue is empty")
		return nil
	}
	for _, r := range list {
		line := fmt.Sprintf("%s  %-6s %s  %s", r.ID, r.Method, r.URL, r.Time().Format(time.DateTime))
		if r.Attempts > 0 {
			line += fmt.Sprintf("  attempts=%d", r.Attempts)
		}
		fmt.Fprintln(a.out, line)
	}
	return nil
}

// Flush replays the queue now.
func (a *App) Flush(ctx context.Context) error {
	rep, err := a.syncService.Flush(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Replayed %d, failed %d, dead-lettered %d, remaining %d\n",
		rep.Replayed, len(rep.Failed), len(rep.DeadLettered), rep.Remaining)
	for _, f := range rep.Failed {
		fmt.Fprintln(a.out, " -", f)
	}
	return nil
}

// ClearQueue drops every pending and dead-lettered request.
func (a *App) ClearQueue(ctx context.Context) error {
	if err := a.queue.Clear(ctx); err != nil {
		return err
	}
	if err := a.queue.ClearDeadLetters(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Queue cleared")
	return nil
}
