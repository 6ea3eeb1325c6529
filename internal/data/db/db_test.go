package db

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/catalog-backend/internal/config"
	"github.com/yungbote/catalog-backend/internal/platform/logger"
)

func TestNewServiceSQLiteMigratesAndPings(t *testing.T) {
	svc, err := NewService(config.DBConfig{
		Driver:       config.DriverSQLite,
		DSN:          "file:dbtest?mode=memory&cache=shared",
		MaxOpenConns: 1,
	}, logger.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = svc.Close() })

	require.NoError(t, svc.AutoMigrateAll())
	require.NoError(t, svc.Ping(context.Background()))
	assert.Equal(t, config.DriverSQLite, svc.Driver())
	for _, table := range []string{"category", "product", "category_product", "pet", "visit"} {
		assert.True(t, svc.DB().Migrator().HasTable(table), table)
	}
}

func TestNewServiceUnknownDriver(t *testing.T) {
	_, err := NewService(config.DBConfig{Driver: "oracle", DSN: "x"}, logger.Nop())
	require.Error(t, err)
	assert.True(t, errors.Is(err, config.ErrDriverUnknown))
}
