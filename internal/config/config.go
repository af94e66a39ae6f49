// Package config loads the rtadmin settings from a config file, a .env file
// and RTADMIN_ environment variables.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvPrefix = "RTADMIN"
	fileName  = "rtadmin"
)

// Config holds the settings shared by every rtadmin invocation.
type Config struct {
	// Module is the path of the PKCS#11 library.
	Module     string `mapstructure:"module"`
	Slot       string `mapstructure:"slot"`
	TokenLabel string `mapstructure:"token_label"`
	// PINPool is the default PIN pool file.
	PINPool string `mapstructure:"pin_pool"`
	Log     Log    `mapstructure:"log"`
}

// Log configures the slog handler.
type Log struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// New returns a viper instance with the rtadmin defaults and environment
// binding in place. Callers bind their flags to it before Load.
func New() *viper.Viper {
	v := viper.New()
	v.SetDefault("module", "")
	v.SetDefault("slot", "")
	v.SetDefault("token_label", "")
	v.SetDefault("pin_pool", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads .env, then configFile or, when empty, rtadmin.yaml from the
// working directory or $HOME/.config/rtadmin. Missing files are not an
// error.
func Load(v *viper.Viper, configFile string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("config: load .env: %w", err)
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName(fileName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", fileName))
		}
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("config: read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: decode: %w", err)
	}
	if _, err := cfg.Log.level(); err != nil {
		return nil, err
	}
	if err := cfg.Log.validateFormat(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (l Log) level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(l.Level)); err != nil {
		return 0, fmt.Errorf("config: log.level %q: %w", l.Level, err)
	}
	return level, nil
}

func (l Log) validateFormat() error {
	switch strings.ToLower(l.Format) {
	case "text", "json":
		return nil
	default:
		return fmt.Errorf("config: log.format %q, want text or json", l.Format)
	}
}

// Logger builds the logger described by l, writing to w.
func (l Log) Logger(w io.Writer) (*slog.Logger, error) {
	level, err := l.level()
	if err != nil {
		return nil, err
	}
	if err := l.validateFormat(); err != nil {
		return nil, err
	}
	opts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(l.Format, "json") {
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	}
	return slog.New(slog.NewTextHandler(w, opts)), nil
}
