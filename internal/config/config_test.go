package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "0.0.0.0:5000", cfg.Server.Addr())
	assert.Equal(t, 30*time.Second, cfg.API.RequestTimeout.Std())
	assert.Equal(t, time.Second, cfg.Assistant.ReplyDelay.Std())
	assert.Equal(t, "info", cfg.Log.Level)
	assert.True(t, cfg.Seed)
	assert.Contains(t, cfg.API.CORS.AllowedOrigins, "http://localhost:5173")
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  host: 127.0.0.1
  port: 8080
assistant:
  reply_delay: 250ms
log:
  level: debug
seed: false
`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:8080", cfg.Server.Addr())
	assert.Equal(t, 250*time.Millisecond, cfg.Assistant.ReplyDelay.Std())
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.False(t, cfg.Seed)
	// untouched sections keep their defaults
	assert.Equal(t, 30*time.Second, cfg.API.RequestTimeout.Std())
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestLoadEmptyPathUsesDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default().Server, cfg.Server)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("CHITTYINSIGHT_HOST", "10.0.0.5")
	t.Setenv("CHITTYINSIGHT_PORT", "9000")
	t.Setenv("CHITTYINSIGHT_LOG_LEVEL", "warn")
	t.Setenv("CHITTYINSIGHT_SEED", "false")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "10.0.0.5:9000", cfg.Server.Addr())
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.False(t, cfg.Seed)
}

func TestSplitAddr(t *testing.T) {
	host, port, err := SplitAddr("127.0.0.1:5000")
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1", host)
	assert.Equal(t, 5000, port)

	_, _, err = SplitAddr("no-port")
	assert.Error(t, err)

	_, _, err = SplitAddr("host:notanumber")
	assert.Error(t, err)
}
