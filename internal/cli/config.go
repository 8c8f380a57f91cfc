package cli

import (
	"os"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/bookwire/bookwire/pkg/errors"
)

// Config holds the server configuration loaded from a TOML file.
type Config struct {
	Server serverConfig `toml:"server"`
	Cache  cacheConfig  `toml:"cache"`
}

type serverConfig struct {
	// Listen is the address the HTTP server binds to.
	Listen string `toml:"listen"`
	// Database is the sqlite file path; ":memory:" gives an ephemeral store.
	Database string `toml:"database"`
}

type cacheConfig struct {
	// Redis is the address of the payload cache. Empty disables caching.
	Redis string `toml:"redis"`
	// TTL is the payload expiry as a Go duration string (e.g. "5m").
	TTL string `toml:"ttl"`
}

// defaultConfig returns the configuration used when no file is given.
func defaultConfig() Config {
	return Config{
		Server: serverConfig{
			Listen:   ":8080",
			Database: "bookwire.db",
		},
		Cache: cacheConfig{
			TTL: "5m",
		},
	}
}

// loadConfig reads a TOML config file, filling unset fields with defaults.
// An empty path returns the defaults unchanged.
func loadConfig(path string) (Config, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read config %s", path)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse config %s", path)
	}
	if _, err := cfg.cacheTTL(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// cacheTTL parses the configured payload expiry.
func (c Config) cacheTTL() (time.Duration, error) {
	if c.Cache.TTL == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.Cache.TTL)
	if err != nil {
		return 0, errors.Wrap(errors.ErrCodeInvalidConfig, err, "cache ttl %q", c.Cache.TTL)
	}
	return d, nil
}
