package app

import (
	"context"
	"io"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/catalog-backend/internal/config"
	"github.com/yungbote/catalog-backend/internal/platform/logger"
)

func testConfig() *config.Config {
	return &config.Config{
		Env:     "test",
		Version: "test",
		HTTP: config.HTTPConfig{
			Addr:              "127.0.0.1:0",
			ReadHeaderTimeout: time.Second,
			ShutdownTimeout:   time.Second,
		},
		DB: config.DBConfig{
			Driver:       config.DriverSQLite,
			DSN:          "file:apptest?mode=memory&cache=shared&_foreign_keys=on",
			MaxOpenConns: 1,
		},
		Events:     config.EventsConfig{Topic: "catalog.visits"},
		Collection: config.CollectionConfig{DefaultPageSize: 20, MaxPageSize: 200},
	}
}

func TestAppServesAndShutsDown(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	a, err := New(ctx, testConfig(), logger.Nop())
	require.NoError(t, err)
	defer a.Close()

	assert.Nil(t, a.Clients.Cache)
	assert.NotNil(t, a.Clients.Events)
	assert.Len(t, Resources(a.Services), 4)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	done := make(chan error, 1)
	go func() { done <- a.Server.Serve(ctx, ln) }()

	base := "http://" + ln.Addr().String()
	var resp *http.Response
	require.Eventually(t, func() bool {
		resp, err = http.Get(base + "/api/visits")
		return err == nil
	}, 2*time.Second, 20*time.Millisecond)
	body, err := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "[]", string(body))

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("server did not shut down")
	}
}

func TestNewRejectsUnknownDriver(t *testing.T) {
	cfg := testConfig()
	cfg.DB.Driver = "oracle"
	_, err := New(context.Background(), cfg, logger.Nop())
	require.Error(t, err)
}
