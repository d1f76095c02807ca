// Package config is for app wide settings that are unmarshalled
// from Viper (see: /cmd)
package config

import (
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

const (
	// EnvPrefix is prepended to the upper-cased setting name when it's read from the environment,
	// eg: AUTOPRIMER_PRIMER3=/opt/primer3/bin/primer3_core
	EnvPrefix = "AUTOPRIMER"

	// DefaultPrimer3Path is the primer3 executable looked up on the PATH
	DefaultPrimer3Path = "primer3_core"
)

// Config is the root-level settings struct and is a mix
// of settings available in a settings file, the environment
// and those available from the command line
type Config struct {
	// path to the primer3_core executable
	Primer3Path string `mapstructure:"primer3"`

	// whether to leave the primer3 input file on disk after the run
	KeepInput bool `mapstructure:"keep-input"`

	// whether to log debug messages and a primer summary to stderr
	Verbose bool `mapstructure:"verbose"`

	// directory to write primer3 input files to, os.TempDir() if empty
	TempDir string `mapstructure:"temp-dir"`

	// path to an optional YAML settings file
	Settings string `mapstructure:"settings"`

	log zerolog.Logger
}

// SetDefaults registers the default value of every setting on v. Viper only
// resolves environment variables for keys it knows about, so this has to run
// before Unmarshal.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("primer3", DefaultPrimer3Path)
	v.SetDefault("keep-input", false)
	v.SetDefault("verbose", false)
	v.SetDefault("temp-dir", "")
	v.SetDefault("settings", "")
}

// New returns a new Config populated by Viper settings (from the
// settings file, environment and/or command line arguments). Logs are
// written to logOut.
func New(v *viper.Viper, logOut io.Writer) (*Config, error) {
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if settings := v.GetString("settings"); settings != "" {
		v.SetConfigFile(settings)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read settings file %s: %w", settings, err)
		}
	}

	c := &Config{}
	if err := v.Unmarshal(c); err != nil {
		return nil, fmt.Errorf("unable to decode settings: %w", err)
	}

	if c.Primer3Path == "" {
		c.Primer3Path = DefaultPrimer3Path
	}
	c.log = NewLogger(logOut, c.Verbose)

	return c, nil
}

// Default returns a Config with default settings and logging disabled.
func Default() *Config {
	return &Config{
		Primer3Path: DefaultPrimer3Path,
		log:         zerolog.Nop(),
	}
}

// Logger returns the logger for this run.
func (c *Config) Logger() *zerolog.Logger {
	return &c.log
}

// SetLogger replaces the run's logger.
func (c *Config) SetLogger(l zerolog.Logger) {
	c.log = l
}

// NewLogger makes a human readable logger for stderr (without an annoying timestamp).
// Debug messages are only written when verbose is true.
func NewLogger(w io.Writer, verbose bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}

	console := zerolog.ConsoleWriter{
		Out:          w,
		NoColor:      true,
		PartsExclude: []string{zerolog.TimestampFieldName},
	}

	return zerolog.New(console).Level(level)
}
