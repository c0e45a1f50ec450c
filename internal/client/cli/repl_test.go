package cli

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/dmitrijs2005/mobilecore/internal/client/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeExec struct {
	loggedIn bool

	calls      []string
	requests   []string
	requestErr error
}

func (f *fakeExec) isLoggedIn() bool { return f.loggedIn }
func (f *fakeExec) Register(ctx context.Context) error {
	f.calls = append(f.calls, "register")
	return nil
}
func (f *fakeExec) Login(ctx context.Context) error {
	f.calls = append(f.calls, "login")
	f.loggedIn = true
	return nil
}
func (f *fakeExec) Logout(ctx context.Context) error {
	f.calls = append(f.calls, "logout")
	f.loggedIn = false
	return nil
}
func (f *fakeExec) WhoAmI(ctx context.Context) error { f.calls = append(f.calls, "whoami"); return nil }
func (f *fakeExec) Status(ctx context.Context) error { f.calls = append(f.calls, "status"); return nil }
func (f *fakeExec) Request(ctx context.Context, method, path, body string) error {
	f.calls = append(f.calls, "request")
	f.requests = append(f.requests, method+" "+path+" "+body)
	return f.requestErr
}
func (f *fakeExec) Queue(ctx context.Context) error { f.calls = append(f.calls, "queue"); return nil }
func (f *fakeExec) Flush(ctx context.Context) error { f.calls = append(f.calls, "flush"); return nil }
func (f *fakeExec) ClearQueue(ctx context.Context) error {
	f.calls = append(f.calls, "clearqueue")
	return nil
}

func run(t *testing.T, exec execIface, lines ...string) string {
	t.Helper()
	var out bytes.Buffer
	in := bufio.NewReader(strings.NewReader(strings.Join(lines, "\n")))
	runREPL(context.Background(), exec, func() string { return "(status)" }, in, &out)
	return out.String()
}

func TestRunREPL_LoginFlowAndCommands(t *testing.T) {
	exec := &fakeExec{}
	out := run(t, exec,
		"help",
		"login",
		"help",
		"whoami",
		"status",
		`post /api/notes {"title": "milk"}`,
		"get /api/notes",
		"queue",
		"flush",
		"clearqueue",
		"logout",
		"foobar",
		"exit",
	)

	require.Equal(t, []string{"login", "whoami", "status", "request", "request", "queue", "flush", "clearqueue", "logout"}, exec.calls)
	assert.Equal(t, []string{`POST /api/notes {"title": "milk"}`, "GET /api/notes "}, exec.requests)

	assert.Contains(t, out, helpAnonymous)
	assert.Contains(t, out, helpLoggedIn)
	assert.Contains(t, out, "Unknown command: foobar")
	assert.Contains(t, out, "mc (status)> ")
	assert.True(t, strings.HasSuffix(out, "Bye!\n"))
}

func TestRunREPL_UsageAndQuit(t *testing.T) {
	exec := &fakeExec{loggedIn: true}
	out := run(t, exec, "get", "delete", "quit", "login")

	assert.Empty(t, exec.calls)
	assert.Contains(t, out, "Usage: get <path> [json]")
	assert.Contains(t, out, "Usage: delete <path> [json]")
}

func TestRunREPL_StopsOnEOF(t *testing.T) {
	exec := &fakeExec{}
	run(t, exec, "", "status")

	assert.Equal(t, []string{"status"}, exec.calls)
}

func TestRunREPL_ReportsErrors(t *testing.T) {
	exec := &fakeExec{requestErr: errors.New("boom")}
	out := run(t, exec, "delete /api/notes/1", "exit")
	assert.Contains(t, out, "Error: boom")

	// запрос, сохранённый в очередь, не считается ошибкой
	exec = &fakeExec{requestErr: services.ErrQueued}
	out = run(t, exec, "delete /api/notes/1", "exit")
	assert.Contains(t, out, "request queued")
	assert.NotContains(t, out, "Error:")
}
