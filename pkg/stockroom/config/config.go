package config

import (
	"errors"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds the server configuration, loaded from an optional YAML file
// with STOCKROOM_* environment overrides.
type Config struct {
	Env string `mapstructure:"env"`

	HTTP struct {
		Addr string `mapstructure:"addr"`
	} `mapstructure:"http"`

	Database struct {
		Path string `mapstructure:"path"`
	} `mapstructure:"database"`

	JWT struct {
		Secret     string        `mapstructure:"secret"`
		AccessTTL  time.Duration `mapstructure:"access_ttl"`
		RefreshTTL time.Duration `mapstructure:"refresh_ttl"`
	} `mapstructure:"jwt"`

	Uploads struct {
		Dir      string `mapstructure:"dir"`
		MaxBytes int64  `mapstructure:"max_bytes"`
	} `mapstructure:"uploads"`

	// Consistency picks how item group data is kept current:
	// "snapshot" or "referential".
	Consistency string `mapstructure:"consistency"`
}

// Load reads configuration. An explicit path must exist; with an empty path
// the default search (./config.yaml) is optional and env/defaults apply.
func Load(path string) (Config, error) {
	v := viper.New()

	v.SetDefault("env", "dev")
	v.SetDefault("http.addr", ":8080")
	v.SetDefault("database.path", "stockroom.db")
	v.SetDefault("jwt.secret", "stockroom-dev-secret-change-in-production")
	v.SetDefault("jwt.access_ttl", time.Hour)
	v.SetDefault("jwt.refresh_ttl", 7*24*time.Hour)
	v.SetDefault("uploads.dir", "uploads")
	v.SetDefault("uploads.max_bytes", int64(5*1024*1024))
	v.SetDefault("consistency", "snapshot")

	v.SetEnvPrefix("STOCKROOM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var c Config
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return c, err
		}
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return c, err
			}
		}
	}

	if err := v.Unmarshal(&c); err != nil {
		return c, err
	}
	return c, nil
}
