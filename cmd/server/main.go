package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/mobilecore/internal/buildinfo"
	"github.com/dmitrijs2005/mobilecore/internal/logging"
	"github.com/dmitrijs2005/mobilecore/internal/server"
	"github.com/dmitrijs2005/mobilecore/internal/server/config"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	logger := logging.NewJSONLogger(os.Stdout, slog.LevelInfo)
	cfg := config.LoadConfig()

	app, err := server.NewApp(ctx, cfg, logger)
	if err != nil {
		logger.Error(ctx, "init failed", "error", err)
		os.Exit(1)
	}
	defer app.Close()

	if err := app.Run(ctx); err != nil {
		logger.Error(ctx, "app stopped with error", "error", err)
	}
}
