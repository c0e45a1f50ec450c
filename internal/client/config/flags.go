package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/mobilecore/internal/flagx"
)

// parseFlags populates Config fields from the command line. Only the flags
// listed here are looked at; parse errors panic.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-g", "-d", "-k", "-i", "-m", "-x"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.BaseURL, "a", cfg.BaseURL, "backend base URL")
	fs.StringVar(&cfg.GRPCHealthAddr, "g", cfg.GRPCHealthAddr, "gRPC health endpoint host:port")
	fs.StringVar(&cfg.DatabasePath, "d", cfg.DatabasePath, "SQLite database path")
	fs.StringVar(&cfg.StoragePassphrase, "k", cfg.StoragePassphrase, "storage encryption passphrase")
	onlineCheckInterval := fs.Int("i", int(cfg.OnlineCheckInterval.Seconds()), "online check interval (in seconds)")
	fs.IntVar(&cfg.QueueMaxAttempts, "m", cfg.QueueMaxAttempts, "replay attempts before dead-lettering (0 = unlimited)")

	excluded := flagx.StringList(cfg.AuthExcludedPaths)
	fs.Var(&excluded, "x", "comma separated paths excluded from logout on 401")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.OnlineCheckInterval = time.Duration(*onlineCheckInterval) * time.Second
	cfg.AuthExcludedPaths = []string(excluded)
}
