package jsonload

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes environment variables read by ConfigFromEnv, e.g.
// JSONLOAD_MAX_FALLBACK_DEPTH.
const EnvPrefix = "JSONLOAD"

// Config keys.
const (
	cfgKeyType             = "type"
	cfgKeyBase             = "base"
	cfgKeyMaxFallbackDepth = "max_fallback_depth"
)

// Config holds process-level loader defaults.
type Config struct {
	Type             string `mapstructure:"type"`
	Base             string `mapstructure:"base"`
	MaxFallbackDepth int    `mapstructure:"max_fallback_depth"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() Config {
	return Config{
		Type:             DefaultType,
		MaxFallbackDepth: DefaultMaxFallbackDepth,
	}
}

func setConfigDefaults(v *viper.Viper) {
	defaults := DefaultConfig()
	v.SetDefault(cfgKeyType, defaults.Type)
	v.SetDefault(cfgKeyBase, defaults.Base)
	v.SetDefault(cfgKeyMaxFallbackDepth, defaults.MaxFallbackDepth)
}

// ConfigFromViper reads loader settings from v, filling missing keys with
// DefaultConfig values.
func ConfigFromViper(v *viper.Viper) Config {
	if v == nil {
		return DefaultConfig()
	}
	setConfigDefaults(v)
	return Config{
		Type:             strings.TrimSpace(v.GetString(cfgKeyType)),
		Base:             strings.TrimSpace(v.GetString(cfgKeyBase)),
		MaxFallbackDepth: v.GetInt(cfgKeyMaxFallbackDepth),
	}
}

// ConfigFromEnv reads JSONLOAD_TYPE, JSONLOAD_BASE and
// JSONLOAD_MAX_FALLBACK_DEPTH.
func ConfigFromEnv() Config {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	return ConfigFromViper(v)
}

// LoadConfigFile reads settings from a yaml, toml or json file. Environment
// variables override file values.
func LoadConfigFile(path string) (Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	if err := v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("jsonload: read config %s: %w", path, err)
	}
	return ConfigFromViper(v), nil
}

// WithConfig applies cfg. Zero fields keep the current setting; options
// listed after WithConfig override it.
func WithConfig(cfg Config) Option {
	return func(lc *loadConfig) {
		if cfg.Type != "" {
			lc.typ = cfg.Type
		}
		if cfg.Base != "" {
			lc.base = cfg.Base
		}
		if cfg.MaxFallbackDepth != 0 {
			lc.maxFallbackDepth = cfg.MaxFallbackDepth
		}
	}
}
