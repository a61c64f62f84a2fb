package common

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pilacorp/go-did-sandbox/config"
	"github.com/pilacorp/go-did-sandbox/did"
	"github.com/pilacorp/go-did-sandbox/internal/cmdutil"
	"github.com/pilacorp/go-did-sandbox/internal/log"
	"github.com/pilacorp/go-did-sandbox/simulator"
)

const (
	// LogLevelFlagName is the flag name used for setting the default log level.
	LogLevelFlagName = "log-level"
	// LogLevelFlagShorthand is the shorthand flag name used for setting the default log level.
	LogLevelFlagShorthand = "l"
	// LogLevelFlagUsage is the usage text for the log level flag.
	LogLevelFlagUsage = "Logging level. Supported levels are: debug, info, warn, error." +
		" Defaults to info if not set. Alternatively, this can be set with the following environment variable: " +
		config.EnvLogLevel

	ConfigFileFlagName  = "config-file"
	ConfigFileFlagUsage = "Path to a TOML configuration file." +
		" Alternatively, this can be set with the following environment variable: " + config.EnvConfigFile
)

// SetDefaultLogLevel sets the level of every logger. An invalid level falls
// back to info.
func SetDefaultLogLevel(logger *zap.Logger, userLogLevel string) {
	if err := log.SetLevel(userLogLevel); err != nil {
		logger.Warn("invalid log level, defaulting to info", zap.String("userLogLevel", userLogLevel), zap.Error(err))

		_ = log.SetLevel(config.DefaultLogLevel)
		return
	}

	if log.Level() == zap.DebugLevel.String() {
		logger.Info(`Log level set to "debug". Performance may be adversely impacted.`)
	}
}

// AddConfigFlags registers the flags read by LoadConfig.
func AddConfigFlags(cmd *cobra.Command) {
	cmd.Flags().StringP(LogLevelFlagName, LogLevelFlagShorthand, "", LogLevelFlagUsage)
	cmd.Flags().String(ConfigFileFlagName, "", ConfigFileFlagUsage)
}

// LoadConfig reads the configuration file named by --config-file (or its
// environment variable), applies environment overrides and then --log-level.
func LoadConfig(cmd *cobra.Command) (*config.Config, error) {
	path := cmdutil.GetUserSetOptionalVarFromString(cmd, ConfigFileFlagName, config.EnvConfigFile)

	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	if cmd.Flags().Changed(LogLevelFlagName) {
		cfg.LogLevel, err = cmd.Flags().GetString(LogLevelFlagName)
		if err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

// NewSimulator builds a simulator from cfg, registering its metrics with reg.
func NewSimulator(cfg *config.Config, reg prometheus.Registerer) (*simulator.Simulator, error) {
	keys, err := did.NewKeySource(cfg.KeySource)
	if err != nil {
		return nil, err
	}

	return simulator.New(
		simulator.WithKeySource(keys),
		simulator.WithLatency(simulator.Latency{
			Generate: cfg.Latency.Generate.Duration,
			Issue:    cfg.Latency.Issue.Duration,
			Verify:   cfg.Latency.Verify.Duration,
			Resolve:  cfg.Latency.Resolve.Duration,
		}),
		simulator.WithRegisterer(reg),
	), nil
}
