package api

import (
	"github.com/BurntSushi/toml"

	"github.com/sciviz/figlint/pkg/errors"
)

// Config holds the audit service configuration, loadable from TOML.
type Config struct {
	// Addr is the listen address, e.g. ":8080".
	Addr string `toml:"addr"`

	// CacheDir enables the file cache when set. Ignored if RedisURL
	// is also set.
	CacheDir string `toml:"cache_dir"`

	// RedisURL enables the Redis cache when set,
	// e.g. "redis://localhost:6379/0".
	RedisURL string `toml:"redis_url"`

	// MongoURI enables the MongoDB report archive when set. Without
	// it, reports live in process memory.
	MongoURI        string `toml:"mongo_uri"`
	MongoDatabase   string `toml:"mongo_database"`
	MongoCollection string `toml:"mongo_collection"`

	// StandardsFile points at a TOML file of user-defined journal
	// standards to merge into the registry at startup.
	StandardsFile string `toml:"standards_file"`
}

// DefaultConfig returns a configuration suitable for local development:
// in-memory report archive, no cache backend.
func DefaultConfig() Config {
	return Config{
		Addr:            ":8080",
		MongoDatabase:   "figlint",
		MongoCollection: "reports",
	}
}

// LoadConfig reads a TOML config file, filling unset fields with
// defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "load config %s", path)
	}
	if cfg.Addr == "" {
		cfg.Addr = DefaultConfig().Addr
	}
	return cfg, nil
}
