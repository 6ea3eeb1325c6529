package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, ":8080", cfg.HTTP.Addr)
	assert.Equal(t, DriverSQLite, cfg.DB.Driver)
	assert.Equal(t, 20, cfg.Collection.DefaultPageSize)
	assert.Equal(t, 30*time.Second, cfg.Cache.TTL)
	assert.Empty(t, cfg.Events.Brokers)
	assert.False(t, cfg.IsProduction())
}

func TestLoadFileThenEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "catalog.yaml")
	yaml := `
env: production
http:
  addr: ":9090"
  shutdown_timeout: 3s
db:
  driver: postgresql
  dsn: postgres://catalog@localhost/catalog
collection:
  default_page_size: 10
  max_page_size: 50
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))
	t.Setenv("CATALOG_HTTP_ADDR", ":7070")
	t.Setenv("CATALOG_EVENTS_BROKERS", "kafka-1:9092, kafka-2:9092")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, ":7070", cfg.HTTP.Addr)
	assert.Equal(t, 3*time.Second, cfg.HTTP.ShutdownTimeout)
	assert.Equal(t, DriverPostgres, cfg.DB.Driver)
	assert.Equal(t, 10, cfg.Collection.DefaultPageSize)
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.Events.Brokers)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			HTTP:       HTTPConfig{Addr: ":8080"},
			DB:         DBConfig{Driver: DriverSQLite, DSN: "file::memory:"},
			Collection: CollectionConfig{DefaultPageSize: 20, MaxPageSize: 100},
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr error
	}{
		{name: "valid", mutate: func(c *Config) {}},
		{name: "empty addr", mutate: func(c *Config) { c.HTTP.Addr = " " }, wantErr: ErrAddrEmpty},
		{name: "unknown driver", mutate: func(c *Config) { c.DB.Driver = "mysql" }, wantErr: ErrDriverUnknown},
		{name: "empty dsn", mutate: func(c *Config) { c.DB.DSN = "" }, wantErr: ErrDSNEmpty},
		{name: "default above max", mutate: func(c *Config) { c.Collection.DefaultPageSize = 500 }, wantErr: ErrPageSizeInvalid},
		{name: "brokers without topic", mutate: func(c *Config) { c.Events.Brokers = []string{"k:9092"} }, wantErr: ErrTopicEmpty},
		{name: "ratio out of range", mutate: func(c *Config) { c.OTel.SampleRatio = 1.5 }, wantErr: ErrSampleRatio},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(&c)
			err := c.Validate()
			if tt.wantErr == nil {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
		})
	}
}
