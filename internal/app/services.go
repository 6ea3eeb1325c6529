package app

import (
	"gorm.io/gorm"

	types "github.com/yungbote/catalog-backend/internal/domain"
	"github.com/yungbote/catalog-backend/internal/observability"
	"github.com/yungbote/catalog-backend/internal/platform/logger"
	"github.com/yungbote/catalog-backend/internal/services"
)

type Services struct {
	Categories     services.CollectionReader
	CategoryItems  services.ItemReader
	Products       services.CollectionReader
	ProductItems   services.ItemReader
	Pets           services.CollectionReader
	Visits         services.CollectionReader
	VisitMutations services.VisitService
}

func wireServices(db *gorm.DB, log *logger.Logger, r Repos, c Clients, m *observability.Metrics) Services {
	log.Info("Wiring services...")
	return Services{
		Categories:    services.NewCollectionService[types.Category]("categories", r.Category, c.Cache, m, log),
		CategoryItems: services.NewItemService[types.Category]("categories", r.Category, log),
		Products:      services.NewCollectionService[types.Product]("products", r.Product, c.Cache, m, log),
		ProductItems:  services.NewItemService[types.Product]("products", r.Product, log),
		Pets:          services.NewCollectionService[types.Pet]("pets", r.Pet, c.Cache, m, log),
		// VisitMutations invalidates this listing's cache entries.
		Visits:         services.NewCollectionService[types.Visit](services.ResourceVisits, r.Visit, c.Cache, m, log),
		VisitMutations: services.NewVisitService(db, log, r.Pet, r.Visit, c.Cache, c.Events, m),
	}
}
