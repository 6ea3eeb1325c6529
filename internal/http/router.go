package http

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/yungbote/catalog-backend/internal/http/handlers"
	httpMW "github.com/yungbote/catalog-backend/internal/http/middleware"
	"github.com/yungbote/catalog-backend/internal/observability"
	"github.com/yungbote/catalog-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log         *logger.Logger
	Metrics     *observability.Metrics
	ServiceName string
	CORSOrigins []string

	HealthHandler     *httpH.HealthHandler
	CollectionHandler *httpH.CollectionHandler
	VisitHandler      *httpH.VisitHandler

	// Resources are mounted under /api in declaration order.
	Resources []httpH.Resource
}

func NewRouter(cfg RouterConfig) (*gin.Engine, error) {
	r := gin.New()
	r.Use(httpMW.Recovery(cfg.Log))
	if cfg.ServiceName != "" {
		r.Use(otelgin.Middleware(cfg.ServiceName))
	}
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.Metrics(cfg.Metrics))
	if len(cfg.CORSOrigins) > 0 {
		r.Use(httpMW.CORS(cfg.CORSOrigins))
	}

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
		r.GET("/readyz", cfg.HealthHandler.Ready)
	}
	if cfg.Metrics != nil {
		r.GET("/metrics", gin.WrapF(cfg.Metrics.WriteHTTP))
	}

	api := r.Group("/api")
	{
		// Visit mutations are registered before the visit resource so the
		// static /batch segment is explicit in the route table.
		if cfg.VisitHandler != nil {
			api.POST("/visits", cfg.VisitHandler.Create)
			api.POST("/visits/batch", cfg.VisitHandler.CreateBatch)
			api.DELETE("/visits/batch/:ids", cfg.VisitHandler.DeleteBatch)
		}

		for _, res := range cfg.Resources {
			if err := RegisterResource(api, cfg.CollectionHandler, res); err != nil {
				return nil, err
			}
		}
	}
	return r, nil
}

// RegisterResource binds the read routes res declares.
func RegisterResource(g *gin.RouterGroup, h *httpH.CollectionHandler, res httpH.Resource) error {
	if h == nil {
		return fmt.Errorf("register %s: collection handler missing", res.Path)
	}
	if err := res.Validate(); err != nil {
		return fmt.Errorf("register %s: %w", res.Path, err)
	}
	base := "/" + res.Path
	if res.Type.Has(httpH.TypeCollection) {
		g.GET(base, h.List(res.List))
	}
	if res.Type.Has(httpH.TypeItem) {
		g.GET(base+"/:id", h.Get(res.Item))
	}
	return nil
}
