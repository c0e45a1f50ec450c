package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, "http://localhost:8080", c.BaseURL)
	assert.Empty(t, c.GRPCHealthAddr)
	assert.Equal(t, "data/app.db", c.DatabasePath)
	assert.Equal(t, 3*time.Second, c.OnlineCheckInterval)
	assert.Equal(t, 3*time.Second, c.ProbeTimeout)
	assert.Equal(t, 15*time.Second, c.RequestTimeout)
	assert.Equal(t, []string{"/auth/login", "/auth/register"}, c.AuthExcludedPaths)
	assert.Zero(t, c.QueueMaxAttempts)
}

func TestLoadDefaults_ExcludedPathsAreACopy(t *testing.T) {
	var a, b Config
	a.LoadDefaults()
	b.LoadDefaults()

	a.AuthExcludedPaths[0] = "/changed"
	assert.Equal(t, "/auth/login", b.AuthExcludedPaths[0])
}

func TestLoadConfig_UsesDefaultsBeforeParsing(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })
	os.Args = []string{"testbin"}

	cfg := LoadConfig()

	require.NotNil(t, cfg, "LoadConfig must not return nil")
	assert.Equal(t, "http://localhost:8080", cfg.BaseURL)
	assert.Equal(t, 3*time.Second, cfg.OnlineCheckInterval)
}
