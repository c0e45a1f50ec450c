package config

import (
	"time"

	"github.com/dmitrijs2005/mobilecore/internal/client/client"
	"github.com/dmitrijs2005/mobilecore/internal/common"
)

// Config holds runtime settings for the client shell.
//
// Fields:
//   - BaseURL: backend HTTP base URL.
//   - GRPCHealthAddr: host:port of a grpc.health.v1 endpoint. Empty means
//     reachability is probed over HTTP against BaseURL.
//   - DatabasePath: SQLite file backing the key-value store.
//   - StoragePassphrase: enables at-rest encryption when non-empty.
//   - OnlineCheckInterval, ProbeTimeout: network monitor cadence.
//   - RequestTimeout: per-request HTTP timeout.
//   - AuthExcludedPaths: paths whose 401 does not end the session.
//   - QueueMaxAttempts: replay attempts before dead-lettering, 0 = unlimited.
type Config struct {
	BaseURL             string
	GRPCHealthAddr      string
	DatabasePath        string
	StoragePassphrase   string
	OnlineCheckInterval time.Duration
	ProbeTimeout        time.Duration
	RequestTimeout      time.Duration
	AuthExcludedPaths   []string
	QueueMaxAttempts    int
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.BaseURL = common.DefaultBaseURL
	c.GRPCHealthAddr = ""
	c.DatabasePath = "data/app.db"
	c.StoragePassphrase = ""
	c.OnlineCheckInterval = 3 * time.Second
	c.ProbeTimeout = 3 * time.Second
	c.RequestTimeout = client.DefaultTimeout
	c.AuthExcludedPaths = append([]string(nil), client.DefaultAuthExcludedPaths...)
	c.QueueMaxAttempts = 0
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
