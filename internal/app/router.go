package app

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/catalog-backend/internal/config"
	httpx "github.com/yungbote/catalog-backend/internal/http"
	httpH "github.com/yungbote/catalog-backend/internal/http/handlers"
	"github.com/yungbote/catalog-backend/internal/observability"
	"github.com/yungbote/catalog-backend/internal/platform/logger"
)

// Resources lists every read resource the API exposes.
func Resources(s Services) []httpH.Resource {
	return []httpH.Resource{
		{Path: "categories", Entity: "Category", Type: httpH.TypeCollection | httpH.TypeItem, List: s.Categories, Item: s.CategoryItems},
		{Path: "products", Entity: "Product", Type: httpH.TypeCollection | httpH.TypeItem, List: s.Products, Item: s.ProductItems},
		{Path: "pets", Entity: "Pet", Type: httpH.TypeCollection, List: s.Pets},
		{Path: "visits", Entity: "Visit", Type: httpH.TypeCollection, List: s.Visits},
	}
}

func wireRouter(log *logger.Logger, cfg *config.Config, m *observability.Metrics, h Handlers, s Services) (*gin.Engine, error) {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	serviceName := ""
	if cfg.OTel.Enabled {
		serviceName = cfg.OTel.ServiceName
	}
	return httpx.NewRouter(httpx.RouterConfig{
		Log:               log,
		Metrics:           m,
		ServiceName:       serviceName,
		CORSOrigins:       cfg.HTTP.CORSOrigins,
		HealthHandler:     h.Health,
		CollectionHandler: h.Collection,
		VisitHandler:      h.Visit,
		Resources:         Resources(s),
	})
}
