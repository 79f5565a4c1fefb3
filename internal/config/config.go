// Package config loads the optional TOML configuration file that backs the
// CLI and HTTP boundaries: the rule-table path, the trace-sink destination,
// and the HTTP server's bind/auth options. CLI flags always take precedence
// over whatever the file specifies; Config's fields are only ever filled in
// from the file, and the caller applies flag overrides on top.
package config

import (
	"os"

	"github.com/BurntSushi/toml"
)

// Config is the on-disk shape of an msparse config file.
type Config struct {
	// TableFile is the path to the serialized lexicon/rule-table blob.
	TableFile string `toml:"table_file"`

	// TracePath is where trace diagnostics are written; empty disables
	// tracing.
	TracePath string `toml:"trace_path"`

	Server ServerConfig `toml:"server"`
}

// ServerConfig holds the optional HTTP boundary's settings.
type ServerConfig struct {
	// BindAddr is the address the HTTP server listens on, e.g. ":8080".
	BindAddr string `toml:"bind_addr"`

	// APIKey is the bearer token clients present to /parse. It is never
	// compared in the clear; internal/httpapi/auth hashes it with bcrypt at
	// startup.
	APIKey string `toml:"api_key"`

	// RateLogPath is the sqlite database the HTTP boundary appends served
	// requests to. Empty disables rate logging.
	RateLogPath string `toml:"rate_log_path"`
}

// Default returns a Config with the same defaults the CLI flags fall back
// to when neither a config file nor a flag is given.
func Default() Config {
	return Config{
		TableFile: "msp.dat",
		Server: ServerConfig{
			BindAddr: ":8080",
		},
	}
}

// Load reads and decodes the TOML file at path into a Config seeded with
// Default's values (so a file that sets only one field leaves the rest at
// their defaults). A missing file is not an error; Load returns the
// defaults unchanged.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}
