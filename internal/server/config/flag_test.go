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
		{name: "Test1 OK", args: []string{"cmd",
			"-a", "127.0.0.1:9090", "-g", "127.0.0.1:9091", "-d", "postgres://db", "-s", "secret", "-t", "5",
		}, expected: &Config{
			HTTPAddr:                    "127.0.0.1:9090",
			GRPCAddr:                    "127.0.0.1:9091",
			DatabaseDSN:                 "postgres://db",
			SecretKey:                   "secret",
			AccessTokenValidityDuration: 5 * time.Minute,
		}},
		{name: "Test2 bad validity", args: []string{"cmd", "-t", "soon"}, expectPanic: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Args = tt.args

			config := &Config{}

			if !tt.expectPanic {
				require.NotPanics(t, func() { parseFlags(config) })
				assert.Empty(t, cmp.Diff(config, tt.expected))
			} else {
				require.Panics(t, func() { parseFlags(config) })
			}
		})
	}
}
