// internal/config/config.go
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"dirdiff/internal/errors"
	"dirdiff/internal/fingerprint"
)

// EnvConfig overrides the default location of the config file.
const EnvConfig = "DIRDIFF_CONFIG"

type Config struct {
	LogLevel  string                `json:"log_level"` // debug, info, warn, error
	Algorithm fingerprint.Algorithm `json:"algorithm"` // fast, secure
	Workers   int                   `json:"workers"`   // 0 means one per CPU

	Database struct {
		Path string `json:"path"`
	} `json:"database"`

	Cache struct {
		Enabled bool `json:"enabled"`
		Size    int  `json:"size"`
	} `json:"cache"`

	Ignore []string `json:"ignore"`
}

func Default() *Config {
	cfg := &Config{
		LogLevel:  "warn",
		Algorithm: fingerprint.Secure,
	}
	cfg.Database.Path = defaultDataDir()
	cfg.Cache.Size = 4096
	return cfg
}

func defaultDataDir() string {
	if dir, err := os.UserCacheDir(); err == nil {
		return filepath.Join(dir, "dirdiff", "db")
	}
	return filepath.Join(os.TempDir(), "dirdiff", "db")
}

// Path returns the config file to read: flag if set, then $DIRDIFF_CONFIG,
// then config.json in the user config directory.
func Path(flag string) string {
	if flag != "" {
		return flag
	}
	if env := os.Getenv(EnvConfig); env != "" {
		return env
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "dirdiff", "config.json")
}

// Load reads path over the defaults. A missing file is only an error when
// it was asked for explicitly.
func Load(path string, explicit bool) (*Config, error) {
	config := Default()
	if path == "" {
		return config, nil
	}

	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return config, nil
		}
		return nil, errors.Configuration(fmt.Sprintf("opening config %s: %v", path, err))
	}
	defer file.Close()

	if err := json.NewDecoder(file).Decode(config); err != nil {
		return nil, errors.Configuration(fmt.Sprintf("parsing config %s: %v", path, err))
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func (c *Config) Validate() error {
	switch c.Algorithm {
	case fingerprint.Secure, fingerprint.Fast:
	default:
		return errors.Configuration(fmt.Sprintf("unknown algorithm %s", c.Algorithm))
	}
	if c.Workers < 0 {
		return errors.Configuration(fmt.Sprintf("workers must not be negative, got %d", c.Workers))
	}
	if c.Cache.Size < 0 {
		return errors.Configuration(fmt.Sprintf("cache size must not be negative, got %d", c.Cache.Size))
	}
	if c.Cache.Enabled && c.Database.Path == "" {
		return errors.Configuration("cache requires a database path")
	}
	return nil
}
