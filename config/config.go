// Package config loads default breaker settings from the environment.
//
// Values are resolved in priority order: environment variables (with
// the BREAKER_ prefix by default), a .env file in the working
// directory, an explicit config file, and finally the package
// defaults. All three settings must be positive.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/tripswitch/breaker"
)

// Keys recognized in config files and, uppercased with the env prefix,
// in the environment.
const (
	keyFailureThreshold = "failure_threshold"
	keySuccessThreshold = "success_threshold"
	keyOpenDuration     = "open_duration"
)

// DefaultEnvPrefix is the prefix stripped from environment variables.
const DefaultEnvPrefix = "BREAKER"

// Defaults holds breaker configuration supplied by the environment.
type Defaults struct {
	FailureThreshold int
	SuccessThreshold int
	OpenDuration     time.Duration
}

// Options converts the loaded defaults into breaker constructor options.
func (d Defaults) Options() []breaker.Option {
	return []breaker.Option{
		breaker.WithFailureThreshold(d.FailureThreshold),
		breaker.WithSuccessThreshold(d.SuccessThreshold),
		breaker.WithOpenDuration(d.OpenDuration),
	}
}

func (d Defaults) validate() error {
	if d.FailureThreshold <= 0 {
		return fmt.Errorf("%s must be positive, got %d", keyFailureThreshold, d.FailureThreshold)
	}
	if d.SuccessThreshold <= 0 {
		return fmt.Errorf("%s must be positive, got %d", keySuccessThreshold, d.SuccessThreshold)
	}
	if d.OpenDuration <= 0 {
		return fmt.Errorf("%s must be positive, got %v", keyOpenDuration, d.OpenDuration)
	}
	return nil
}

type options struct {
	envPrefix string
	file      string
}

// Option configures Load.
type Option func(*options)

// WithEnvPrefix overrides the environment variable prefix.
func WithEnvPrefix(prefix string) Option {
	return func(o *options) {
		o.envPrefix = prefix
	}
}

// WithFile reads settings from the given config file. The format is
// inferred from the extension (yaml, toml, json, ...).
func WithFile(path string) Option {
	return func(o *options) {
		o.file = path
	}
}

// Load resolves breaker defaults from the environment and validates them.
func Load(opts ...Option) (Defaults, error) {
	o := options{envPrefix: DefaultEnvPrefix}
	for _, opt := range opts {
		opt(&o)
	}

	// A .env file, when present, is merged into the process environment
	// so local development matches deployed configuration.
	_ = godotenv.Load()

	v := viper.New()
	v.SetDefault(keyFailureThreshold, breaker.DefaultFailureThreshold)
	v.SetDefault(keySuccessThreshold, breaker.DefaultSuccessThreshold)
	v.SetDefault(keyOpenDuration, breaker.DefaultOpenDuration)

	v.SetEnvPrefix(o.envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if o.file != "" {
		v.SetConfigFile(o.file)
		if err := v.ReadInConfig(); err != nil {
			return Defaults{}, fmt.Errorf("read config %s: %w", o.file, err)
		}
	}

	d := Defaults{
		FailureThreshold: v.GetInt(keyFailureThreshold),
		SuccessThreshold: v.GetInt(keySuccessThreshold),
		OpenDuration:     v.GetDuration(keyOpenDuration),
	}
	if err := d.validate(); err != nil {
		return Defaults{}, err
	}
	return d, nil
}
