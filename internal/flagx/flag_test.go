package flagx

import (
	"flag"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilterArgs(t *testing.T) {
	tests := []struct {
		name         string
		args         []string
		allowedFlags []string
		want         []string
	}{
		{
			name:         "separate value",
			args:         []string{"-d", "data/app.db", "-a", "http://localhost:8080"},
			allowedFlags: []string{"-d"},
			want:         []string{"-d", "data/app.db"},
		},
		{
			name:         "equals form",
			args:         []string{"--config=client.json", "-a", "x"},
			allowedFlags: []string{"-c", "--config"},
			want:         []string{"--config=client.json"},
		},
		{
			name:         "unknown flags ignored",
			args:         []string{"-x", "1", "--y=2", "positional"},
			allowedFlags: []string{"-c"},
			want:         []string{},
		},
		{
			name:         "flag without value at end",
			args:         []string{"-k"},
			allowedFlags: []string{"-k"},
			want:         []string{"-k"},
		},
		{
			name:         "next token is a flag, not a value",
			args:         []string{"-c", "-m", "3"},
			allowedFlags: []string{"-c"},
			want:         []string{"-c"},
		},
		{
			name:         "equals value that looks like a flag",
			args:         []string{"--config=--weird.json"},
			allowedFlags: []string{"--config"},
			want:         []string{"--config=--weird.json"},
		},
		{
			name:         "order preserved across several flags",
			args:         []string{"-a", "http://h:1", "-i", "5", "-m", "3", "-z"},
			allowedFlags: []string{"-a", "-m"},
			want:         []string{"-a", "http://h:1", "-m", "3"},
		},
		{
			name:         "repeated flag kept",
			args:         []string{"-c", "one.json", "-c", "two.json"},
			allowedFlags: []string{"-c"},
			want:         []string{"-c", "one.json", "-c", "two.json"},
		},
		{
			name:         "empty",
			args:         []string{},
			allowedFlags: []string{"-c"},
			want:         []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FilterArgs(tt.args, tt.allowedFlags))
		})
	}
}

func TestConfigPath(t *testing.T) {
	assert.Equal(t, "/etc/a.json", ConfigPath([]string{"-c", "/etc/a.json"}))
	assert.Equal(t, "/etc/b.json", ConfigPath([]string{"-config", "/etc/b.json", "-a", "x"}))
	assert.Equal(t, "/etc/2.json", ConfigPath([]string{"-c", "/etc/1.json", "-config", "/etc/2.json"}))
	assert.Empty(t, ConfigPath([]string{"-x", "1"}))
}

func TestJsonConfigFlags(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	os.Args = []string{"testbin", "-c", "/path/short.json"}
	assert.Equal(t, "/path/short.json", JsonConfigFlags())

	os.Args = []string{"testbin"}
	assert.Empty(t, JsonConfigFlags())
}

func TestStringList(t *testing.T) {
	var l StringList
	fs := flag.NewFlagSet("t", flag.ContinueOnError)
	fs.Var(&l, "x", "excluded paths")

	require.NoError(t, fs.Parse([]string{"-x", "/auth/login, /auth/register,,"}))
	assert.Equal(t, StringList{"/auth/login", "/auth/register"}, l)
	assert.Equal(t, "/auth/login,/auth/register", l.String())
}
