package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/dmitrijs2005/mobilecore/internal/client/client"
	"github.com/dmitrijs2005/mobilecore/internal/client/config"
	"github.com/dmitrijs2005/mobilecore/internal/client/credentials"
	"github.com/dmitrijs2005/mobilecore/internal/client/models"
	"github.com/dmitrijs2005/mobilecore/internal/client/netmon"
	"github.com/dmitrijs2005/mobilecore/internal/client/queue"
	"github.com/dmitrijs2005/mobilecore/internal/client/services"
	"github.com/dmitrijs2005/mobilecore/internal/client/session"
	"github.com/dmitrijs2005/mobilecore/internal/client/storage"
	"github.com/dmitrijs2005/mobilecore/internal/logging"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
	ModeLimited Mode = "limited"
)

func modeOf(st models.NetworkStatus) Mode {
	switch {
	case st.Online():
		return ModeOnline
	case st.Connected:
		return ModeLimited
	default:
		return ModeOffline
	}
}

type App struct {
	config *config.Config
	log    logging.Logger

	closers     []io.Closer
	session     *session.Manager
	authService services.AuthService
	syncService *services.SyncService
	queue       *queue.Queue
	monitor     *netmon.Monitor
	source      netmon.Source

	reader *bufio.Reader
	out    io.Writer

	modeMu sync.Mutex
	Mode   Mode
}

// NewApp wires storage, session, HTTP client, offline queue and network
// monitor from c. The REPL reads stdin and writes stdout.
func NewApp(ctx context.Context, c *config.Config, l logging.Logger) (*App, error) {
	return newApp(ctx, c, l, os.Stdin, os.Stdout)
}

func newApp(ctx context.Context, c *config.Config, l logging.Logger, in io.Reader, out io.Writer) (*App, error) {
	l = logging.OrNop(l)
	a := &App{config: c, log: l, reader: bufio.NewReader(in), out: out}

	sqlStore, err := storage.Open(ctx, c.DatabasePath)
	if err != nil {
		l.Error(ctx, "error initializing database", "path", c.DatabasePath, "error", err)
		return nil, err
	}
	a.closers = append(a.closers, sqlStore)

	var store storage.Store = sqlStore
	if c.StoragePassphrase != "" {
		secure, err := storage.NewSecureStore(ctx, sqlStore, c.StoragePassphrase)
		if err != nil {
			_ = a.Close()
			return nil, fmt.Errorf("init secure storage: %w", err)
		}
		store = secure
	}

	a.session = session.NewManager(credentials.New(store), nil, l)

	httpClient := client.NewHTTPClient(c.BaseURL,
		client.WithTimeout(c.RequestTimeout),
		client.WithRequestInterceptor(client.BearerToken(a.session)),
		client.WithResponseInterceptor(client.Passthrough, client.LogoutOnUnauthorized(a.session, c.AuthExcludedPaths, l)),
		client.WithResponseInterceptor(nil, client.LogErrors(l)),
	)

	a.authService = services.NewAuthService(client.NewAuthAPI(httpClient), a.session, l)
	a.queue = queue.New(store, queue.WithLogger(l), queue.WithMaxAttempts(c.QueueMaxAttempts))
	a.monitor = netmon.NewMonitor(l)
	a.syncService = services.NewSyncService(httpClient, a.queue, a.monitor, l)

	prober, err := a.newProber(httpClient)
	if err != nil {
		_ = a.Close()
		return nil, err
	}
	a.source = &netmon.ProbeSource{
		Interval: c.OnlineCheckInterval,
		Timeout:  c.ProbeTimeout,
		Prober:   prober,
		Log:      l,
	}

	return a, nil
}

func (a *App) newProber(httpClient *client.HTTPClient) (netmon.Prober, error) {
	if a.config.GRPCHealthAddr == "" {
		return netmon.HTTPProber{URL: httpClient.URL(client.HealthPath)}, nil
	}
	conn, err := client.NewGRPCConn(a.config.GRPCHealthAddr, a.session, a.session)
	if err != nil {
		return nil, fmt.Errorf("dial grpc health %s: %w", a.config.GRPCHealthAddr, err)
	}
	a.closers = append(a.closers, conn)
	return netmon.GRPCHealthProber{Conn: conn}, nil
}

// Run restores the saved session, starts connectivity monitoring with
// replay on reconnect, and blocks in the REPL until the user exits or ctx
// is done.
func (a *App) Run(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	defer func() {
		cancel()
		if err := a.Close(); err != nil {
			a.log.Error(ctx, "close", "error", err)
		}
	}()

	a.session.Restore(ctx)

	a.setMode(modeOf(a.monitor.Status()))
	unwatch := a.monitor.Subscribe(func(st models.NetworkStatus) { a.setMode(modeOf(st)) })
	defer unwatch()

	stopReplay := a.syncService.Start(ctx, a.monitor)
	defer stopReplay()

	go a.monitor.Run(ctx, a.source)

	a.Root(ctx)
}

func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		errs = append(errs, a.closers[i].Close())
	}
	a.closers = nil
	return errors.Join(errs...)
}

func (a *App) isLoggedIn() bool {
	return a.session != nil && a.session.IsAuthenticated()
}

func (a *App) setMode(mode Mode) {
	a.modeMu.Lock()
	prev := a.Mode
	a.Mode = mode
	a.modeMu.Unlock()

	// nothing to announce when the first known mode is online
	if prev == mode || (prev == "" && mode == ModeOnline) {
		return
	}
	switch mode {
	case ModeOnline:
		fmt.Fprintln(a.out, "Back online")
	case ModeLimited:
		fmt.Fprintln(a.out, netmon.BannerLimited)
	default:
		fmt.Fprintln(a.out, netmon.BannerOffline)
	}
}

func (a *App) mode() Mode {
	a.modeMu.Lock()
	defer a.modeMu.Unlock()
	return a.Mode
}

// getStatus renders the prompt suffix: "(alice@example.com online)".
func (a *App) getStatus() string {
	s := ""
	if a.session != nil {
		if cur := a.session.Current(); cur != nil {
			s = cur.Email + " "
		}
	}
	if m := a.mode(); m != "" {
		s += string(m)
	}
	if s != "" {
		s = fmt.Sprintf("(%s)", s)
	}
	return s
}

// Root prints the welcome line and runs the REPL on the app input.
func (a *App) Root(ctx context.Context) {
	fmt.Fprintln(a.out, "mobilecore shell (type 'help' for commands)")
	runREPL(ctx, a, a.getStatus, a.reader, a.out)
}
