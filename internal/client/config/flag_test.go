package config

import (
	"os"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	tests := []struct {
		expected    *Config
		name        string
		args        []string
		expectPanic bool
	}{
		{
			name: "all flags",
			args: []string{"cmd", "-a", "http://api.local:9090", "-g", "127.0.0.1:50051", "-d", "/tmp/x.db",
				"-k", "secret", "-i", "10", "-m", "5", "-x", "/login,/signup"},
			expected: &Config{
				BaseURL:             "http://api.local:9090",
				GRPCHealthAddr:      "127.0.0.1:50051",
				DatabasePath:        "/tmp/x.db",
				StoragePassphrase:   "secret",
				OnlineCheckInterval: 10 * time.Second,
				QueueMaxAttempts:    5,
				AuthExcludedPaths:   []string{"/login", "/signup"},
			},
		},
		{
			name:     "unknown flags are ignored",
			args:     []string{"cmd", "-z", "1", "-i", "4"},
			expected: &Config{OnlineCheckInterval: 4 * time.Second},
		},
		{name: "incorrect check interval", args: []string{"cmd", "-i", "abc"}, expectPanic: true},
		{name: "incorrect max attempts", args: []string{"cmd", "-m", "many"}, expectPanic: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Args = tt.args

			config := &Config{}

			if tt.expectPanic {
				require.Panics(t, func() { parseFlags(config) })
				return
			}
			require.NotPanics(t, func() { parseFlags(config) })
			assert.Empty(t, cmp.Diff(tt.expected, config))
		})
	}
}

func TestParseFlags_KeepsDefaults(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })
	os.Args = []string{"cmd", "-d", "other.db"}

	cfg := &Config{}
	cfg.LoadDefaults()
	parseFlags(cfg)

	want := &Config{}
	want.LoadDefaults()
	want.DatabasePath = "other.db"
	assert.Empty(t, cmp.Diff(want, cfg))
}
