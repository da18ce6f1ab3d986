package config_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/krisalay/gql-cache-patch/config"
	"github.com/krisalay/gql-cache-patch/document"
	"github.com/krisalay/gql-cache-patch/inmemory"
	"github.com/krisalay/gql-cache-patch/types"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "gqlpatch.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestDefaultIsValid(t *testing.T) {
	assert.NoError(t, config.Default().Validate())
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeFile(t, `
cache:
  shards: 8
  capacity: 1000
  eviction: lfu
  ttl: 90s
  sliding: true
persistence:
  kind: memory
  mode: write-back
log_level: debug
`)

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, 8, cfg.Cache.Shards)
	assert.Equal(t, 1000, cfg.Cache.Capacity)
	assert.Equal(t, "lfu", cfg.Cache.Eviction)
	assert.Equal(t, 90*time.Second, cfg.Cache.TTL)
	assert.True(t, cfg.Cache.Sliding)
	assert.True(t, cfg.Cache.AddTypename, "unset fields keep their default")
	assert.Equal(t, "write-back", cfg.Persistence.Mode)
	assert.Equal(t, 1024, cfg.Persistence.Buffer)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"bad yaml", "cache: [", "parse config"},
		{"shards", "cache:\n  shards: 0\n", "cache.shards"},
		{"eviction", "cache:\n  eviction: random\n", "cache.eviction"},
		{"ttl", "cache:\n  ttl: -1s\n", "cache.ttl"},
		{"kind", "persistence:\n  kind: redis\n", "persistence.kind"},
		{"mode", "persistence:\n  kind: memory\n  mode: sometimes\n", "persistence.mode"},
		{"buffer", "persistence:\n  kind: memory\n  mode: write-back\n  buffer: 0\n", "persistence.buffer"},
		{"log level", "log_level: loud\n", "log_level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := config.Load(writeFile(t, tt.body))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestCacheOptionsBuildWorkingCache(t *testing.T) {
	for _, kind := range []string{config.KindNone, config.KindMemory, config.KindBadger} {
		t.Run(kind, func(t *testing.T) {
			cfg := config.Default()
			cfg.Persistence.Kind = kind
			cfg.Cache.TTL = time.Minute

			opts, closeFn, err := cfg.CacheOptions(nil)
			require.NoError(t, err)

			c, err := inmemory.New(opts...)
			require.NoError(t, err)

			ctx := context.Background()
			q := document.MustParse(`query Me { me { __typename id name } }`)
			data := map[string]any{"me": map[string]any{"__typename": "User", "id": "1", "name": "Ada"}}
			require.NoError(t, c.WriteQuery(ctx, types.WriteQueryOptions{
				QueryOptions: types.QueryOptions{Query: q},
				Data:         data,
			}))

			got, err := c.ReadQuery(ctx, types.QueryOptions{Query: q})
			require.NoError(t, err)
			assert.Equal(t, data, got)

			c.Close()
			assert.NoError(t, closeFn())
		})
	}
}

func TestLogger(t *testing.T) {
	cfg := config.Default()
	cfg.LogLevel = "warn"

	logger, err := cfg.Logger()
	require.NoError(t, err)
	assert.False(t, logger.Core().Enabled(zapcore.InfoLevel))
	assert.True(t, logger.Core().Enabled(zapcore.WarnLevel))
}

func TestLoggerDebug(t *testing.T) {
	cfg := config.Default()
	cfg.LogLevel = "debug"

	logger, err := cfg.Logger()
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(zapcore.DebugLevel))
}
