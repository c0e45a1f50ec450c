package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/mobilecore/internal/flagx"
	"github.com/dmitrijs2005/mobilecore/internal/timex"
)

// JsonConfig is the JSON shape of Config. Durations use timex.Duration.
type JsonConfig struct {
	HTTPAddr                    string          `json:"http_addr"`
	GRPCAddr                    string          `json:"grpc_addr"`
	DatabaseDSN                 *string         `json:"database_dsn"`
	SecretKey                   string          `json:"secret_key"`
	AccessTokenValidityDuration *timex.Duration `json:"access_token_validity_duration"`
}

// parseJson overlays config with the file named by -c/-config. Fields
// missing from the file are left alone; read or decode errors panic.
func parseJson(config *Config) {

	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	if c.HTTPAddr != "" {
		config.HTTPAddr = c.HTTPAddr
	}
	if c.GRPCAddr != "" {
		config.GRPCAddr = c.GRPCAddr
	}
	if c.DatabaseDSN != nil {
		config.DatabaseDSN = *c.DatabaseDSN
	}
	if c.SecretKey != "" {
		config.SecretKey = c.SecretKey
	}
	if c.AccessTokenValidityDuration != nil {
		config.AccessTokenValidityDuration = c.AccessTokenValidityDuration.Duration
	}
}
