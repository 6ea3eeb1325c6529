package app

import (
	"github.com/yungbote/catalog-backend/internal/clients/kafka"
	"github.com/yungbote/catalog-backend/internal/clients/redis"
	"github.com/yungbote/catalog-backend/internal/config"
	"github.com/yungbote/catalog-backend/internal/platform/logger"
)

type Clients struct {
	// Cache is nil when no redis address is configured or redis is unreachable.
	Cache  redis.CollectionCache
	Events kafka.Publisher
}

func wireClients(cfg *config.Config, log *logger.Logger) Clients {
	var out Clients

	if cfg.Cache.RedisAddr != "" {
		cache, err := redis.NewCollectionCache(cfg.Cache, log)
		if err != nil {
			log.Warn("collection cache disabled", "error", err)
		} else {
			out.Cache = cache
			log.Info("collection cache enabled", "ttl", cfg.Cache.TTL.String())
		}
	}

	out.Events = kafka.Nop()
	if len(cfg.Events.Brokers) > 0 {
		pub, err := kafka.NewPublisher(cfg.Events, log)
		if err != nil {
			log.Warn("event publishing disabled", "error", err)
		} else {
			out.Events = pub
			log.Info("event publishing enabled", "topic", cfg.Events.Topic)
		}
	}
	return out
}

func (c Clients) Close(log *logger.Logger) {
	if c.Cache != nil {
		if err := c.Cache.Close(); err != nil {
			log.Warn("cache close failed", "error", err)
		}
	}
	if c.Events != nil {
		if err := c.Events.Close(); err != nil {
			log.Warn("event publisher close failed", "error", err)
		}
	}
}
