package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/mobilecore/internal/client/services"
)

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	WhoAmI(ctx context.Context) error
	Status(ctx context.Context) error
	Request(ctx context.Context, method, path, body string) error
	Queue(ctx context.Context) error
	Flush(ctx context.Context) error
	ClearQueue(ctx context.Context) error
}

const (
	helpAnonymous = "Available commands: register, login, status, get, post, put, patch, delete, queue, flush, clearqueue, exit"
	helpLoggedIn  = "Available commands: whoami, logout, status, get, post, put, patch, delete, queue, flush, clearqueue, exit"
)

var requestCommands = map[string]string{
	"get":    http.MethodGet,
	"post":   http.MethodPost,
	"put":    http.MethodPut,
	"patch":  http.MethodPatch,
	"delete": http.MethodDelete,
}

// runREPL reads commands from in until EOF or "exit"/"quit" and dispatches
// them to a. The prompt shows statusFn().
//
// Request commands take a path and an optional inline JSON body:
//
//	post /api/notes {"title":"milk"}
//
// Command errors are printed and the loop continues. A request stored for
// later replay is reported as queued, not as a failure.
func runREPL(ctx context.Context, a execIface, statusFn func() string, in *bufio.Reader, out io.Writer) {
	for {
		fmt.Fprintf(out, "mc %s> ", statusFn())

		line, err := in.ReadString('\n')
		if err != nil && line == "" {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			if err != nil {
				return
			}
			continue
		}
		cmd, args := parts[0], parts[1:]

		var cmdErr error
		switch cmd {
		case "help":
			if a.isLoggedIn() {
				fmt.Fprintln(out, helpLoggedIn)
			} else {
				fmt.Fprintln(out, helpAnonymous)
			}

		case "register":
			cmdErr = a.Register(ctx)

		case "login":
			cmdErr = a.Login(ctx)

		case "logout":
			cmdErr = a.Logout(ctx)

		case "whoami":
			cmdErr = a.WhoAmI(ctx)

		case "status":
			cmdErr = a.Status(ctx)

		case "get", "post", "put", "patch", "delete":
			if len(args) == 0 {
				fmt.Fprintf(out, "Usage: %s <path> [json]\n", cmd)
				continue
			}
			cmdErr = a.Request(ctx, requestCommands[cmd], args[0], strings.Join(args[1:], " "))

		case "queue":
			cmdErr = a.Queue(ctx)

		case "flush":
			cmdErr = a.Flush(ctx)

		case "clearqueue":
			cmdErr = a.ClearQueue(ctx)

		case "exit", "quit":
			fmt.Fprintln(out, "Bye!")
			return

		default:
			fmt.Fprintln(out, "Unknown command:", cmd)
		}

		switch {
		case cmdErr == nil:
		case errors.Is(cmdErr, services.ErrQueued):
			fmt.Fprintln(out, "Offline: request queued and will be sent when the connection is back")
		default:
			fmt.Fprintln(out, "Error:", cmdErr)
		}

		if err != nil {
			return
		}
	}
}
