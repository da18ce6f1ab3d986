// Package config loads the YAML file the gqlpatch command builds its cache from.
package config

import (
	"os"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/krisalay/gql-cache-patch/eviction"
	"github.com/krisalay/gql-cache-patch/expiration"
	"github.com/krisalay/gql-cache-patch/inmemory"
	"github.com/krisalay/gql-cache-patch/persist"
	"github.com/krisalay/gql-cache-patch/types"
	"github.com/krisalay/gql-cache-patch/writepolicy"
)

// Persistence kinds.
const (
	KindNone   = "none"
	KindMemory = "memory"
	KindBadger = "badger"
)

type Config struct {
	Cache       Cache       `yaml:"cache"`
	Persistence Persistence `yaml:"persistence"`

	// LogLevel is a zap level name: debug, info, warn, error.
	LogLevel string `yaml:"log_level"`
}

type Cache struct {
	Shards   int    `yaml:"shards"`
	Capacity int    `yaml:"capacity"`
	Eviction string `yaml:"eviction"`

	// TTL of non-root entries, e.g. "5m". Zero disables expiration.
	TTL time.Duration `yaml:"ttl"`

	// Sliding restarts the TTL on every read.
	Sliding bool `yaml:"sliding"`

	AddTypename   bool                `yaml:"add_typename"`
	PossibleTypes map[string][]string `yaml:"possible_types"`
}

type Persistence struct {
	Kind   string `yaml:"kind"`
	Dir    string `yaml:"dir"`
	Mode   string `yaml:"mode"`
	Buffer int    `yaml:"buffer"`
}

// Default is the configuration used when no file is given.
func Default() Config {
	return Config{
		Cache: Cache{
			Shards:      4,
			Eviction:    string(eviction.LRU),
			AddTypename: true,
		},
		Persistence: Persistence{
			Kind:   KindNone,
			Mode:   string(writepolicy.ModeThrough),
			Buffer: 1024,
		},
		LogLevel: "info",
	}
}

// Load reads path over the defaults and validates the result.
func Load(path string) (Config, error) {
	cfg := Default()

	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, errors.Wrap(err, "read config")
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, errors.Wrapf(err, "parse config %s", path)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, errors.WithMessagef(err, "config %s", path)
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.Cache.Shards < 1 {
		return errors.Errorf("cache.shards must be at least 1, got %d", c.Cache.Shards)
	}
	if c.Cache.Capacity < 0 {
		return errors.Errorf("cache.capacity must not be negative, got %d", c.Cache.Capacity)
	}
	if !eviction.PolicyType(c.Cache.Eviction).Valid() {
		return errors.Errorf("cache.eviction: unknown policy %q", c.Cache.Eviction)
	}
	if c.Cache.TTL < 0 {
		return errors.Errorf("cache.ttl must not be negative, got %s", c.Cache.TTL)
	}

	switch c.Persistence.Kind {
	case KindNone:
	case KindMemory, KindBadger:
		switch writepolicy.Mode(c.Persistence.Mode) {
		case writepolicy.ModeThrough:
		case writepolicy.ModeBack:
			if c.Persistence.Buffer < 1 {
				return errors.Errorf("persistence.buffer must be at least 1 for write-back, got %d", c.Persistence.Buffer)
			}
		default:
			return errors.Errorf("persistence.mode: unknown mode %q", c.Persistence.Mode)
		}
	default:
		return errors.Errorf("persistence.kind: unknown kind %q", c.Persistence.Kind)
	}

	if _, err := zap.ParseAtomicLevel(c.LogLevel); err != nil {
		return errors.Wrap(err, "log_level")
	}
	return nil
}

// Logger builds the logger for LogLevel: zap's development console logger at
// debug, its production JSON logger at every other level.
func (c Config) Logger() (*zap.Logger, error) {
	level, err := zap.ParseAtomicLevel(c.LogLevel)
	if err != nil {
		return nil, errors.Wrap(err, "log_level")
	}

	zc := zap.NewProductionConfig()
	if level.Level() == zapcore.DebugLevel {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Level = level
	return zc.Build()
}

/*
CacheOptions translates the configuration into inmemory options.

The returned close function releases the persistent store and must run
after the cache is closed, so write-back can still flush into it.
*/
func (c Config) CacheOptions(logger *zap.Logger) ([]inmemory.Option, func() error, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	noop := func() error { return nil }

	opts := []inmemory.Option{
		inmemory.WithShards(c.Cache.Shards),
		inmemory.WithCapacity(c.Cache.Capacity),
		inmemory.WithEviction(eviction.PolicyType(c.Cache.Eviction)),
		inmemory.WithAddTypename(c.Cache.AddTypename),
		inmemory.WithLogger(logger),
	}
	if exp := expiration.New(c.Cache.TTL, c.Cache.Sliding); exp != nil {
		opts = append(opts, inmemory.WithExpiration(exp))
	}
	if len(c.Cache.PossibleTypes) > 0 {
		opts = append(opts, inmemory.WithPossibleTypes(c.Cache.PossibleTypes))
	}

	var (
		store   types.Storage
		closeFn = noop
	)
	switch c.Persistence.Kind {
	case KindNone:
		return opts, noop, nil
	case KindMemory:
		store = persist.NewMemoryStorage()
	case KindBadger:
		db, err := persist.OpenBadger(c.Persistence.Dir)
		if err != nil {
			return nil, nil, err
		}
		store, closeFn = db, db.Close
	default:
		return nil, nil, errors.Errorf("persistence.kind: unknown kind %q", c.Persistence.Kind)
	}

	wp, err := writepolicy.New(writepolicy.Mode(c.Persistence.Mode), store, c.Persistence.Buffer, logger)
	if err != nil {
		_ = closeFn()
		return nil, nil, err
	}

	logger.Info("persistence enabled",
		zap.String("kind", c.Persistence.Kind),
		zap.String("mode", c.Persistence.Mode))
	return append(opts, inmemory.WithStorage(store), inmemory.WithWritePolicy(wp)), closeFn, nil
}
