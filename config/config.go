package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
)

// Default values
const (
	DefaultHostURL   = "localhost:8080"
	DefaultLogLevel  = "info"
	DefaultKeySource = "random"

	DefaultGenerateLatency = 800 * time.Millisecond
	DefaultIssueLatency    = 1000 * time.Millisecond
	DefaultVerifyLatency   = 1500 * time.Millisecond
	DefaultResolveLatency  = 600 * time.Millisecond
)

// Environment variable names
const (
	EnvHostURL         = "DID_SANDBOX_HOST_URL"
	EnvLogLevel        = "DID_SANDBOX_LOG_LEVEL"
	EnvKeySource       = "DID_SANDBOX_KEY_SOURCE"
	EnvLatencyScale    = "DID_SANDBOX_LATENCY_SCALE"
	EnvConfigFile      = "DID_SANDBOX_CONFIG_FILE"
	EnvGenerateLatency = "DID_SANDBOX_GENERATE_LATENCY"
	EnvIssueLatency    = "DID_SANDBOX_ISSUE_LATENCY"
	EnvVerifyLatency   = "DID_SANDBOX_VERIFY_LATENCY"
	EnvResolveLatency  = "DID_SANDBOX_RESOLVE_LATENCY"
)

// Duration is a time.Duration read from strings like "800ms".
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Latency is the artificial delay of each simulated operation.
type Latency struct {
	Generate Duration `toml:"generate"`
	Issue    Duration `toml:"issue"`
	Verify   Duration `toml:"verify"`
	Resolve  Duration `toml:"resolve"`
}

// Scale multiplies every delay by f. Negative factors are treated as zero.
func (l Latency) Scale(f float64) Latency {
	if f < 0 {
		f = 0
	}
	scale := func(d Duration) Duration {
		return Duration{time.Duration(float64(d.Duration) * f)}
	}
	return Latency{
		Generate: scale(l.Generate),
		Issue:    scale(l.Issue),
		Verify:   scale(l.Verify),
		Resolve:  scale(l.Resolve),
	}
}

type Config struct {
	HostURL   string  `toml:"host_url"`
	LogLevel  string  `toml:"log_level"`
	KeySource string  `toml:"key_source"`
	Latency   Latency `toml:"latency"`
}

// Default returns the configuration used when nothing else is set.
func Default() *Config {
	return &Config{
		HostURL:   DefaultHostURL,
		LogLevel:  DefaultLogLevel,
		KeySource: DefaultKeySource,
		Latency: Latency{
			Generate: Duration{DefaultGenerateLatency},
			Issue:    Duration{DefaultIssueLatency},
			Verify:   Duration{DefaultVerifyLatency},
			Resolve:  Duration{DefaultResolveLatency},
		},
	}
}

// Load builds the configuration from defaults, then the TOML file at path
// (if path is not empty), then environment variables.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv(EnvHostURL); v != "" {
		c.HostURL = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv(EnvKeySource); v != "" {
		c.KeySource = v
	}

	for env, target := range map[string]*Duration{
		EnvGenerateLatency: &c.Latency.Generate,
		EnvIssueLatency:    &c.Latency.Issue,
		EnvVerifyLatency:   &c.Latency.Verify,
		EnvResolveLatency:  &c.Latency.Resolve,
	} {
		if v := os.Getenv(env); v != "" {
			if err := target.UnmarshalText([]byte(v)); err != nil {
				return fmt.Errorf("invalid %s: %w", env, err)
			}
		}
	}

	if v := os.Getenv(EnvLatencyScale); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", EnvLatencyScale, err)
		}
		c.Latency = c.Latency.Scale(f)
	}
	return nil
}
