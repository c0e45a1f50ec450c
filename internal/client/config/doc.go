// Package config loads runtime configuration for the client shell.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected via flags: -c or -config.
//  3. Command-line flags, which override earlier values.
//
// Supported flags
//
//	-a string   backend base URL
//	-g string   gRPC health endpoint host:port (empty: probe over HTTP)
//	-d string   SQLite database path
//	-k string   storage passphrase (empty: values stored unencrypted)
//	-i int      online status check interval (seconds)
//	-m int      queue replay attempts before dead-lettering (0: unlimited)
//	-x list     comma separated paths whose 401 keeps the session
//
// # JSON schema
//
// Durations use timex.Duration, so they can be strings like "3s" or integer
// nanoseconds. Fields missing from the file keep their previous value:
//
//	{
//	  "base_url": "http://localhost:8080",
//	  "grpc_health_addr": "127.0.0.1:50051",
//	  "database_path": "data/app.db",
//	  "storage_passphrase": "",
//	  "online_check_interval": "3s",
//	  "probe_timeout": "3s",
//	  "request_timeout": "15s",
//	  "auth_excluded_paths": ["/auth/login", "/auth/register"],
//	  "queue_max_attempts": 0
//	}
//
// This package does not read environment variables.
package config
