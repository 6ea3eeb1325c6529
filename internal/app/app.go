package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/yungbote/catalog-backend/internal/config"
	"github.com/yungbote/catalog-backend/internal/data/db"
	httpx "github.com/yungbote/catalog-backend/internal/http"
	"github.com/yungbote/catalog-backend/internal/observability"
	"github.com/yungbote/catalog-backend/internal/platform/logger"
)

type App struct {
	Log      *logger.Logger
	Cfg      *config.Config
	Store    *db.Service
	DB       *gorm.DB
	Metrics  *observability.Metrics
	Clients  Clients
	Repos    Repos
	Services Services
	Server   *httpx.Server

	shutdownOTel func(context.Context) error
}

// New wires the whole service from cfg. Optional clients (cache, events) that
// fail to connect are logged and left disabled.
func New(ctx context.Context, cfg *config.Config, log *logger.Logger) (*App, error) {
	if cfg == nil {
		return nil, errors.New("config required")
	}
	shutdownOTel := observability.InitOTel(ctx, log, cfg.OTel, cfg.Env, cfg.Version)

	store, err := db.NewService(cfg.DB, log)
	if err != nil {
		_ = shutdownOTel(ctx)
		return nil, fmt.Errorf("init store: %w", err)
	}
	if err := store.AutoMigrateAll(); err != nil {
		_ = store.Close()
		_ = shutdownOTel(ctx)
		return nil, fmt.Errorf("store automigrate: %w", err)
	}
	theDB := store.DB()

	metrics := observability.NewMetrics()
	clientset := wireClients(cfg, log)
	reposet := wireRepos(theDB, log)
	serviceset := wireServices(theDB, log, reposet, clientset, metrics)
	handlerset := wireHandlers(log, cfg, store, serviceset)

	router, err := wireRouter(log, cfg, metrics, handlerset, serviceset)
	if err != nil {
		clientset.Close(log)
		_ = store.Close()
		_ = shutdownOTel(ctx)
		return nil, err
	}

	return &App{
		Log:          log,
		Cfg:          cfg,
		Store:        store,
		DB:           theDB,
		Metrics:      metrics,
		Clients:      clientset,
		Repos:        reposet,
		Services:     serviceset,
		Server:       httpx.NewServer(router, cfg.HTTP, log),
		shutdownOTel: shutdownOTel,
	}, nil
}

// Run serves HTTP and background collectors until ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	if a == nil || a.Server == nil {
		return fmt.Errorf("app not initialized")
	}
	a.Metrics.StartStoreCollector(ctx, a.Log, a.DB, 15*time.Second)
	if a.Clients.Cache != nil {
		a.Metrics.StartCacheCollector(ctx, a.Log, a.Clients.Cache, 15*time.Second)
	}
	return a.Server.Run(ctx)
}

func (a *App) Close() {
	if a == nil {
		return
	}
	a.Clients.Close(a.Log)
	if a.Store != nil {
		if err := a.Store.Close(); err != nil {
			a.Log.Warn("store close failed", "error", err)
		}
	}
	if a.shutdownOTel != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := a.shutdownOTel(ctx); err != nil {
			a.Log.Warn("otel shutdown failed", "error", err)
		}
		cancel()
	}
	a.Log.Sync()
}
