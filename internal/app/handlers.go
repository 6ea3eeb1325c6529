package app

import (
	"github.com/yungbote/catalog-backend/internal/config"
	"github.com/yungbote/catalog-backend/internal/data/db"
	httpH "github.com/yungbote/catalog-backend/internal/http/handlers"
	"github.com/yungbote/catalog-backend/internal/platform/logger"
)

type Handlers struct {
	Health     *httpH.HealthHandler
	Collection *httpH.CollectionHandler
	Visit      *httpH.VisitHandler
}

func wireHandlers(log *logger.Logger, cfg *config.Config, store *db.Service, s Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health:     httpH.NewHealthHandler(log, store),
		Collection: httpH.NewCollectionHandler(log, cfg.Collection),
		Visit:      httpH.NewVisitHandler(log, s.VisitMutations),
	}
}
