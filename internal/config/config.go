package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"zipmarket/internal/boundary"
	"zipmarket/internal/database"
	"zipmarket/internal/market"
	"zipmarket/internal/session"
)

// DefaultFile is looked up in the working directory when no --config is given.
const DefaultFile = "zipmarket.yaml"

// Config is the dashboard configuration.
type Config struct {
	DatasetPath        string   `mapstructure:"dataset_path" yaml:"dataset_path"`
	ZIPColumn          string   `mapstructure:"zip_column" yaml:"zip_column"`
	BoundaryPath       string   `mapstructure:"boundary_path" yaml:"boundary_path"`
	BoundaryKey        string   `mapstructure:"boundary_key" yaml:"boundary_key"`
	PreferredColumn    string   `mapstructure:"preferred_column" yaml:"preferred_column"`
	CorrelationExclude []string `mapstructure:"correlation_exclude" yaml:"correlation_exclude"`
	OutputDir          string   `mapstructure:"output_dir" yaml:"output_dir"`
	Title              string   `mapstructure:"title" yaml:"title"`
	PreviewRows        int      `mapstructure:"preview_rows" yaml:"preview_rows"`

	DB database.DBConfig `mapstructure:"db" yaml:"db"`
}

// dbEnv maps Oracle connection keys to the DB_* variables used by .env files.
var dbEnv = map[string]string{
	"db.host":            "DB_HOST",
	"db.port":            "DB_PORT",
	"db.service":         "DB_SERVICE",
	"db.username":        "DB_USERNAME",
	"db.password":        "DB_PASSWORD",
	"db.wallet_location": "DB_WALLET_LOCATION",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("dataset_path", "data/merge.csv")
	v.SetDefault("zip_column", market.DefaultZIPColumn)
	v.SetDefault("boundary_path", "tx_texas_zip_codes_geo.min.json")
	v.SetDefault("boundary_key", boundary.DefaultKey)
	v.SetDefault("preferred_column", session.PreferredColumn)
	v.SetDefault("correlation_exclude", market.DefaultCorrelationExclude)
	v.SetDefault("output_dir", "out")
	v.SetDefault("title", "Texas Real Estate Market Analysis")
	v.SetDefault("preview_rows", 10)
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", "1521")
	v.SetDefault("db.service", "XE")
	v.SetDefault("db.username", "")
	v.SetDefault("db.password", "")
	v.SetDefault("db.wallet_location", "")
}

// Default returns the built-in configuration.
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	var c Config
	_ = v.Unmarshal(&c)
	return &c
}

// Load loads configuration from file, env, and defaults.
// Precedence: env > config file > defaults. A .env file in the working
// directory is applied first without overriding variables already set.
func Load(cfgFile string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	v.SetEnvPrefix("ZIPMARKET")
	v.AutomaticEnv()
	setDefaults(v)
	for key, env := range dbEnv {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("bind %s: %w", env, err)
		}
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", cfgFile, err)
		}
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("zipmarket")
		v.SetConfigType("yaml")
		// optional read
		_ = v.ReadInConfig()
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &c, nil
}

// Save writes c as YAML to path. The database password is never written.
func Save(c *Config, path string) error {
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
