// Package server wires the development backend: storage, account and notes
// services, the REST API and the gRPC health endpoint.
package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/dmitrijs2005/mobilecore/internal/logging"
	"github.com/dmitrijs2005/mobilecore/internal/server/config"
	"github.com/dmitrijs2005/mobilecore/internal/server/httpapi"
	"github.com/dmitrijs2005/mobilecore/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/mobilecore/internal/server/services"
	"golang.org/x/sync/errgroup"

	gs "github.com/dmitrijs2005/mobilecore/internal/server/grpc"
)

const shutdownTimeout = 5 * time.Second

type App struct {
	config      *config.Config
	logger      logging.Logger
	db          *sql.DB
	userService *services.UserService
	noteService *services.NoteService
}

// NewApp opens storage and builds the services. With an empty DatabaseDSN
// accounts and notes live in memory.
func NewApp(ctx context.Context, c *config.Config, l logging.Logger) (*App, error) {
	l = logging.OrNop(l)

	var (
		db *sql.DB
		rm repomanager.RepositoryManager
	)

	if c.DatabaseDSN == "" {
		l.Warn(ctx, "No database DSN configured, using in-memory storage")
		rm = repomanager.NewInMemoryRepositoryManager()
	} else {
		var err error
		db, err = repomanager.OpenPostgres(ctx, c.DatabaseDSN)
		if err != nil {
			return nil, fmt.Errorf("db init error: %w", err)
		}
		pm := repomanager.NewPostgresRepositoryManager()
		if err := pm.RunMigrations(ctx, db); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("migrations error: %w", err)
		}
		rm = pm
	}

	return &App{
		config:      c,
		logger:      l,
		db:          db,
		userService: services.NewUserService(db, rm, c),
		noteService: services.NewNoteService(db, rm),
	}, nil
}

// Run serves HTTP and gRPC until ctx is cancelled or either server fails.
func (app *App) Run(ctx context.Context) error {
	app.logger.Info(ctx, "Starting app...")

	g, gctx := errgroup.WithContext(ctx)

	h := httpapi.NewHandler(app.userService, app.noteService, app.logger)
	httpSrv := &http.Server{
		Addr:              app.config.HTTPAddr,
		Handler:           h.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return gctx },
	}

	g.Go(func() error {
		app.logger.Info(gctx, "Starting HTTP server", "address", app.config.HTTPAddr)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		app.logger.Info(context.Background(), "Stopping HTTP server...")
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return httpSrv.Shutdown(sctx)
	})

	g.Go(func() error {
		s := gs.NewGRPCServer(app.config.GRPCAddr, app.logger, app.userService)
		if err := s.Run(gctx); err != nil {
			return fmt.Errorf("grpc server: %w", err)
		}
		return nil
	})

	err := g.Wait()
	app.logger.Info(context.Background(), "App stopped")
	return err
}

// Close releases the database, if any.
func (app *App) Close() error {
	if app.db == nil {
		return nil
	}
	return app.db.Close()
}
