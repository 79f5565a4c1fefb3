package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "msp.dat", cfg.TableFile)
	assert.Equal(t, ":8080", cfg.Server.BindAddr)
	assert.Empty(t, cfg.TracePath)
}

func TestLoadNoPath(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadMissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.toml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "msparse.toml")
	contents := `
table_file = "custom.dat"
trace_path = "trace.log"

[server]
bind_addr = ":9090"
api_key = "secret"
rate_log_path = "rate.db"
`
	require.NoError(t, os.WriteFile(path, []byte(contents), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "custom.dat", cfg.TableFile)
	assert.Equal(t, "trace.log", cfg.TracePath)
	assert.Equal(t, ":9090", cfg.Server.BindAddr)
	assert.Equal(t, "secret", cfg.Server.APIKey)
	assert.Equal(t, "rate.db", cfg.Server.RateLogPath)
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "msparse.toml")
	require.NoError(t, os.WriteFile(path, []byte(`trace_path = "trace.log"`), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "msp.dat", cfg.TableFile)
	assert.Equal(t, ":8080", cfg.Server.BindAddr)
	assert.Equal(t, "trace.log", cfg.TracePath)
}
