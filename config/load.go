package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "SET"

var defaults = map[string]any{
	"game.deck_size":            81,
	"game.table_size":           12,
	"game.turn_timeout":         60 * time.Second,
	"game.turn_timeout_warning": 5 * time.Second,
	"game.point_freeze":         1 * time.Second,
	"game.penalty_freeze":       3 * time.Second,
	"game.table_delay":          100 * time.Millisecond,
	"game.hints":                false,
	"players.human":             2,
	"players.computer":          0,
	"players.press_interval":    250 * time.Millisecond,
	"display.tick":              100 * time.Millisecond,
	"display.terminal":          true,
	"log.level":                 "info",
	"log.file":                  "",
}

// Load reads the configuration. When path is not empty the file is read
// first; environment variables take precedence over it and flags that were
// set on the command line take precedence over everything. Flags are named
// after the keys they override, e.g. "players.human"; flags may be nil.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %q: %w", path, err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return nil, fmt.Errorf("failed to bind flags: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the struct tags and the rules spanning several groups.
func (c *Config) Validate() error {
	var errs []error
	if err := validator.New().Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			for _, fe := range verrs {
				errs = append(errs, fmt.Errorf("invalid %s: failed on %q", fe.Namespace(), fe.Tag()))
			}
		} else {
			errs = append(errs, err)
		}
	}
	if c.Players.Total() == 0 {
		errs = append(errs, errors.New("at least one player is required"))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	return nil
}
