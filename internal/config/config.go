package config

import (
	"strings"
	"time"

	"codeberg.org/mutker/wheelspeed/internal/errors"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	EnvPrefix = "WHEELSPEED"

	DefaultLogLevel   = string(LogLevelInfo)
	DefaultChip       = "gpiochip0"
	DefaultLine       = 17
	DefaultTimeout    = 2 * time.Second
	DefaultDebounce   = 20 * time.Millisecond
	DefaultWindow     = 3
	DefaultStatusPath = "/tmp/wheel_speed.json"
)

// Config holds the fixed sensing constants. They are not exposed as flags;
// WHEELSPEED_* environment variables may override them.
type Config struct {
	LogLevel   string        `mapstructure:"log_level"`
	Chip       string        `mapstructure:"chip"`
	Line       int           `mapstructure:"line"`
	Timeout    time.Duration `mapstructure:"timeout"`
	Debounce   time.Duration `mapstructure:"debounce"`
	Window     int           `mapstructure:"window"`
	StatusPath string        `mapstructure:"status_path"`
}

// Load parses args and merges them over environment and built-in defaults.
func Load(name string, args []string) (*Config, error) {
	errFactory := errors.New()

	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.String("log-level", DefaultLogLevel, "Log level (debug, info, warning, error)")
	debug := fs.Bool("debug", false, "Enable debugging mode (same as --log-level debug)")

	if err := fs.Parse(args); err != nil {
		return nil, errFactory.Wrap(errors.ErrParseFlags, err)
	}

	v := viper.New()
	v.SetDefault("log_level", DefaultLogLevel)
	v.SetDefault("chip", DefaultChip)
	v.SetDefault("line", DefaultLine)
	v.SetDefault("timeout", DefaultTimeout)
	v.SetDefault("debounce", DefaultDebounce)
	v.SetDefault("window", DefaultWindow)
	v.SetDefault("status_path", DefaultStatusPath)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	if err := v.BindPFlag("log_level", fs.Lookup("log-level")); err != nil {
		return nil, errFactory.Wrap(errors.ErrBindFlags, err)
	}

	config := &Config{}
	if err := v.Unmarshal(config); err != nil {
		return nil, errFactory.Wrap(errors.ErrReadConfig, err)
	}

	if *debug {
		config.LogLevel = string(LogLevelDebug)
	}
	config.LogLevel = strings.ToLower(config.LogLevel)

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate checks the loaded values
func (c *Config) Validate() error {
	errFactory := errors.New()

	if !LogLevel(c.LogLevel).IsValid() {
		return errFactory.WithData(errors.ErrInvalidLogLevel, c.LogLevel)
	}

	switch {
	case c.Chip == "":
		return errFactory.WithData(errors.ErrInvalidConfig, "chip must not be empty")
	case c.Line < 0:
		return errFactory.WithData(errors.ErrInvalidConfig, "line must not be negative")
	case c.Window < 1:
		return errFactory.WithData(errors.ErrInvalidConfig, "window must be at least 1")
	case c.StatusPath == "":
		return errFactory.WithData(errors.ErrInvalidConfig, "status_path must not be empty")
	case c.Timeout <= 0:
		return errFactory.WithData(errors.ErrInvalidTiming, "timeout must be positive")
	case c.Debounce < 0 || c.Debounce >= c.Timeout:
		return errFactory.WithData(errors.ErrInvalidTiming, "debounce must be in [0, timeout)")
	}

	return nil
}
