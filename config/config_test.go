package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, Default(), cfg)
	assert.Equal(t, 800*time.Millisecond, cfg.Latency.Generate.Duration)
	assert.Equal(t, 1500*time.Millisecond, cfg.Latency.Verify.Duration)
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sandbox.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
host_url = "0.0.0.0:9090"
key_source = "secp256k1"

[latency]
generate = "10ms"
verify = "0s"
`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:9090", cfg.HostURL)
	assert.Equal(t, "secp256k1", cfg.KeySource)
	assert.Equal(t, DefaultLogLevel, cfg.LogLevel)
	assert.Equal(t, 10*time.Millisecond, cfg.Latency.Generate.Duration)
	assert.Equal(t, time.Duration(0), cfg.Latency.Verify.Duration)
	assert.Equal(t, DefaultIssueLatency, cfg.Latency.Issue.Duration)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sandbox.toml")
	require.NoError(t, os.WriteFile(path, []byte(`host_url = "0.0.0.0:9090"`), 0o600))

	t.Setenv(EnvHostURL, "127.0.0.1:7000")
	t.Setenv(EnvLogLevel, "debug")
	t.Setenv(EnvResolveLatency, "1s")
	t.Setenv(EnvLatencyScale, "0.5")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:7000", cfg.HostURL)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 500*time.Millisecond, cfg.Latency.Resolve.Duration)
	assert.Equal(t, 400*time.Millisecond, cfg.Latency.Generate.Duration)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)

	t.Setenv(EnvVerifyLatency, "soon")
	_, err = Load("")
	assert.Error(t, err)
}

func TestLatencyScale(t *testing.T) {
	l := Default().Latency

	assert.Equal(t, Latency{}, l.Scale(0))
	assert.Equal(t, Latency{}, l.Scale(-1))
	assert.Equal(t, 2*DefaultIssueLatency, l.Scale(2).Issue.Duration)
}
