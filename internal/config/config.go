// Package config loads the service configuration from an optional YAML file
// and the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cast"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"drilling-engine/internal/formula"
	"drilling-engine/internal/kick"
	"drilling-engine/internal/params"
	"drilling-engine/internal/rigstate"
	"drilling-engine/internal/trajectory"
)

// Environment variables read by Load.
const (
	EnvConfigPath  = "DRILLING_CONFIG"
	EnvHTTPAddr    = "HTTP_ADDR"
	EnvPrecision   = "CALC_PRECISION"
	EnvVSAzimuth   = "VS_AZIMUTH_DEG"
	EnvKickWindow  = "KICK_WINDOW_SIZE"
	EnvLogLevel    = "LOG_LEVEL"
	EnvTraceRatio  = "TRACE_SAMPLE_RATIO"
	maxPrecision   = 10
	defaultAddr    = ":8080"
	defaultWindow  = 30
	defaultTimeout = 5 * time.Second
)

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Addr            string        `yaml:"addr"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// LogConfig configures the process logger. ExportLevel is the lowest level
// shipped to the OTLP log exporter; stdout still gets Level.
type LogConfig struct {
	Level       string `yaml:"level"`
	ExportLevel string `yaml:"export_level"`
}

// TracingConfig sets the fraction of root spans that are sampled.
type TracingConfig struct {
	SampleRatio float64 `yaml:"sample_ratio"`
}

// KickConfig holds the kick thresholds and the per-well baseline window size.
type KickConfig struct {
	kick.Thresholds `yaml:",inline"`
	WindowSize      int `yaml:"window_size"`
}

// Config is the complete service configuration.
type Config struct {
	Server     ServerConfig        `yaml:"server"`
	Log        LogConfig           `yaml:"log"`
	Tracing    TracingConfig       `yaml:"tracing"`
	Formula    formula.Config      `yaml:"formula"`
	Trajectory trajectory.Config   `yaml:"trajectory"`
	RigState   rigstate.Thresholds `yaml:"rig_state"`
	Kick       KickConfig          `yaml:"kick"`
	Fields     params.FieldKeys    `yaml:"fields"`
}

// Default returns a fresh configuration with every default filled in.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Addr:            defaultAddr,
			ShutdownTimeout: defaultTimeout,
		},
		Log:        LogConfig{Level: "info", ExportLevel: "info"},
		Tracing:    TracingConfig{SampleRatio: 1},
		Formula:    formula.DefaultConfig(),
		Trajectory: trajectory.Config{},
		RigState:   rigstate.DefaultThresholds(),
		Kick: KickConfig{
			Thresholds: kick.DefaultThresholds(),
			WindowSize: defaultWindow,
		},
		Fields: params.FieldKeys{},
	}
}

// Load reads path over the defaults, applies environment overrides and
// validates the result. An empty path skips the file.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v, ok := os.LookupEnv(EnvHTTPAddr); ok && v != "" {
		c.Server.Addr = v
	}
	if v, ok := os.LookupEnv(EnvLogLevel); ok && v != "" {
		c.Log.Level = v
	}
	if v, ok := os.LookupEnv(EnvTraceRatio); ok && v != "" {
		ratio, err := cast.ToFloat64E(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvTraceRatio, err)
		}
		c.Tracing.SampleRatio = ratio
	}
	if v, ok := os.LookupEnv(EnvPrecision); ok && v != "" {
		p, err := cast.ToIntE(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvPrecision, err)
		}
		c.Formula.Precision = p
	}
	if v, ok := os.LookupEnv(EnvVSAzimuth); ok && v != "" {
		az, err := cast.ToFloat64E(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvVSAzimuth, err)
		}
		c.Trajectory.VerticalSectionAzimuthDeg = az
	}
	if v, ok := os.LookupEnv(EnvKickWindow); ok && v != "" {
		n, err := cast.ToIntE(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvKickWindow, err)
		}
		c.Kick.WindowSize = n
	}
	return nil
}

// Validate checks every section.
func (c Config) Validate() error {
	var errs []error

	if c.Server.Addr == "" {
		errs = append(errs, errors.New("server.addr must be set"))
	}
	if c.Server.ShutdownTimeout <= 0 {
		errs = append(errs, fmt.Errorf("server.shutdown_timeout must be > 0, got %s", c.Server.ShutdownTimeout))
	}
	if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, fmt.Errorf("log.level: %w", err))
	}
	if _, err := zapcore.ParseLevel(c.Log.ExportLevel); err != nil {
		errs = append(errs, fmt.Errorf("log.export_level: %w", err))
	}
	if c.Tracing.SampleRatio < 0 || c.Tracing.SampleRatio > 1 {
		errs = append(errs, fmt.Errorf("tracing.sample_ratio must be within [0, 1], got %g", c.Tracing.SampleRatio))
	}
	if c.Formula.Precision < 0 || c.Formula.Precision > maxPrecision {
		errs = append(errs, fmt.Errorf("formula.precision must be within [0, %d], got %d", maxPrecision, c.Formula.Precision))
	}
	for name, v := range map[string]float64{
		"formula.mse_high_psi":           c.Formula.MSEHighPsi,
		"formula.dls_high_deg_per_100ft": c.Formula.DLSHighDegPer100ft,
		"formula.ecd_high_ppg":           c.Formula.ECDHighPpg,
		"formula.ecd_low_ppg":            c.Formula.ECDLowPpg,
		"formula.min_hsi":                c.Formula.MinHSI,
	} {
		if v < 0 {
			errs = append(errs, fmt.Errorf("%s must be >= 0, got %g", name, v))
		}
	}
	if c.Formula.ECDHighPpg > 0 && c.Formula.ECDLowPpg >= c.Formula.ECDHighPpg {
		errs = append(errs, fmt.Errorf("formula.ecd_low_ppg (%g) must be below ecd_high_ppg (%g)", c.Formula.ECDLowPpg, c.Formula.ECDHighPpg))
	}
	if err := c.Trajectory.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("trajectory: %w", err))
	}
	if err := c.RigState.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("rig_state: %w", err))
	}
	if err := c.Kick.Thresholds.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("kick: %w", err))
	}
	if c.Kick.WindowSize < 1 {
		errs = append(errs, fmt.Errorf("kick.window_size must be >= 1, got %d", c.Kick.WindowSize))
	} else if c.Kick.WindowSize < c.Kick.MinBaselineSamples {
		errs = append(errs, fmt.Errorf("kick.window_size (%d) must be >= kick.min_baseline_samples (%d)", c.Kick.WindowSize, c.Kick.MinBaselineSamples))
	}

	return errors.Join(errs...)
}
