package main

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Config of the pagekv command. Values come from flags, PAGEKV_* environment
// variables or a config file, in that order of precedence.
type Config struct {
	// Dir is the filesystem bucket directory snapshots are kept in.
	Dir         string `mapstructure:"dir" validate:"required"`
	Compression string `mapstructure:"compression" validate:"oneof=none snappy zlib lz4 zstd"`
	CacheSize   int    `mapstructure:"cache_size" validate:"gte=1"`
	LogLevel    string `mapstructure:"log_level" validate:"oneof=debug info warn error"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("dir", "./pagekv-data")
	v.SetDefault("compression", "snappy")
	v.SetDefault("cache_size", 1000)
	v.SetDefault("log_level", "info")
}

func bindFlags(v *viper.Viper, cmd *cobra.Command) error {
	flags := cmd.PersistentFlags()
	for k, name := range map[string]string{
		"dir":         "dir",
		"compression": "compression",
		"cache_size":  "cache-size",
		"log_level":   "log-level",
	} {
		if err := v.BindPFlag(k, flags.Lookup(name)); err != nil {
			return fmt.Errorf("while binding flag %q: %w", name, err)
		}
	}
	return nil
}

// loadConfig resolves and validates the configuration. An empty file means
// no config file is read.
func loadConfig(v *viper.Viper, file string) (Config, error) {
	var cfg Config

	v.SetEnvPrefix("PAGEKV")
	v.AutomaticEnv()
	setDefaults(v)

	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return cfg, fmt.Errorf("while reading config file %q: %w", file, err)
		}
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("while decoding config: %w", err)
	}
	if err := validator.New().Struct(cfg); err != nil {
		return cfg, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}
