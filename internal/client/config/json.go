package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/mobilecore/internal/flagx"
	"github.com/dmitrijs2005/mobilecore/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Pointer
// fields tell "absent" apart from an explicit zero.
type JsonConfig struct {
	BaseURL             string          `json:"base_url"`
	GRPCHealthAddr      *string         `json:"grpc_health_addr"`
	DatabasePath        string          `json:"database_path"`
	StoragePassphrase   *string         `json:"storage_passphrase"`
	OnlineCheckInterval *timex.Duration `json:"online_check_interval"`
	ProbeTimeout        *timex.Duration `json:"probe_timeout"`
	RequestTimeout      *timex.Duration `json:"request_timeout"`
	AuthExcludedPaths   []string        `json:"auth_excluded_paths"`
	QueueMaxAttempts    *int            `json:"queue_max_attempts"`
}

// parseJson overlays cfg with the file named by -c/-config. Read or decode
// errors panic, like flag errors do.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	jc.apply(cfg)
}

func (jc *JsonConfig) apply(cfg *Config) {
	if jc.BaseURL != "" {
		cfg.BaseURL = jc.BaseURL
	}
	if jc.GRPCHealthAddr != nil {
		cfg.GRPCHealthAddr = *jc.GRPCHealthAddr
	}
	if jc.DatabasePath != "" {
		cfg.DatabasePath = jc.DatabasePath
	}
	if jc.StoragePassphrase != nil {
		cfg.StoragePassphrase = *jc.StoragePassphrase
	}
	if jc.OnlineCheckInterval != nil {
		cfg.OnlineCheckInterval = jc.OnlineCheckInterval.Duration
	}
	if jc.ProbeTimeout != nil {
		cfg.ProbeTimeout = jc.ProbeTimeout.Duration
	}
	if jc.RequestTimeout != nil {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	if jc.AuthExcludedPaths != nil {
		cfg.AuthExcludedPaths = jc.AuthExcludedPaths
	}
	if jc.QueueMaxAttempts != nil {
		cfg.QueueMaxAttempts = *jc.QueueMaxAttempts
	}
}
