// Package config provides a reusable loader for ledger node configuration
// files and environment variables. It is versioned so that applications can
// depend on a stable API contract.
//
// Version: v0.1.0
package config

import (
	"github.com/spf13/viper"

	"synnergy-multiledger/pkg/utils"
)

// Version is the semantic version of this configuration package.
const Version = "v0.1.0"

// Config represents the unified configuration for a ledger node. It mirrors
// the structure of the YAML files under cmd/ledgerd/config.
type Config struct {
	Storage struct {
		WALPath          string `mapstructure:"wal_path" json:"wal_path"`
		SnapshotPath     string `mapstructure:"snapshot_path" json:"snapshot_path"`
		SnapshotInterval int    `mapstructure:"snapshot_interval" json:"snapshot_interval"`
	} `mapstructure:"storage" json:"storage"`

	HTTP struct {
		ListenAddr string `mapstructure:"listen_addr" json:"listen_addr"`
	} `mapstructure:"http" json:"http"`

	Ledger struct {
		DefaultFee         uint64   `mapstructure:"default_fee" json:"default_fee"`
		Controllers        []string `mapstructure:"controllers" json:"controllers"`
		DedupWindowHours   int      `mapstructure:"dedup_window_hours" json:"dedup_window_hours"`
		FutureToleranceMin int      `mapstructure:"future_tolerance_min" json:"future_tolerance_min"`
	} `mapstructure:"ledger" json:"ledger"`

	Logging struct {
		Level string `mapstructure:"level" json:"level"`
		File  string `mapstructure:"file" json:"file"`
	} `mapstructure:"logging" json:"logging"`
}

// AppConfig holds the configuration loaded via Load or LoadFromEnv.
var AppConfig Config

// Load reads configuration files and merges any environment specific
// overrides. The resulting configuration is stored in AppConfig and returned.
//
// The function uses the provided environment name to merge additional config
// files. If env is empty, only the default configuration is loaded.
func Load(env string) (*Config, error) {
	viper.SetConfigName("default")
	viper.AddConfigPath("cmd/ledgerd/config")
	viper.AddConfigPath("config")
	viper.SetConfigType("yaml")
	if err := viper.ReadInConfig(); err != nil {
		return nil, utils.Wrap(err, "load config")
	}

	if env != "" {
		viper.SetConfigName(env)
		if err := viper.MergeInConfig(); err != nil {
			return nil, utils.Wrapf(err, "merge %s config", env)
		}
	}

	viper.AutomaticEnv() // env var named after the upper-cased key overrides it; no prefix or key replacer is set

	if err := viper.Unmarshal(&AppConfig); err != nil {
		return nil, utils.Wrap(err, "unmarshal config")
	}
	applyDefaults(&AppConfig)
	return &AppConfig, nil
}

// LoadFromEnv loads configuration using the LEDGER_ENV environment variable.
func LoadFromEnv() (*Config, error) {
	return Load(utils.EnvOrDefault("LEDGER_ENV", ""))
}

// applyDefaults fills in the zero-value defaults named in the spec (§6) for
// any field a config file or environment override left unset.
func applyDefaults(c *Config) {
	if c.Storage.WALPath == "" {
		c.Storage.WALPath = "ledger.wal"
	}
	if c.Storage.SnapshotPath == "" {
		c.Storage.SnapshotPath = "ledger.snap"
	}
	if c.Storage.SnapshotInterval == 0 {
		c.Storage.SnapshotInterval = 1000
	}
	if c.HTTP.ListenAddr == "" {
		c.HTTP.ListenAddr = ":8080"
	}
	if c.Ledger.DefaultFee == 0 {
		c.Ledger.DefaultFee = 10_000
	}
	if c.Ledger.DedupWindowHours == 0 {
		c.Ledger.DedupWindowHours = 24
	}
	if c.Ledger.FutureToleranceMin == 0 {
		c.Ledger.FutureToleranceMin = 5
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
}
