package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/catalog-backend/internal/config"
	"github.com/yungbote/catalog-backend/internal/http/response"
	"github.com/yungbote/catalog-backend/internal/platform/apierr"
	"github.com/yungbote/catalog-backend/internal/platform/ctxutil"
	"github.com/yungbote/catalog-backend/internal/platform/logger"
	"github.com/yungbote/catalog-backend/internal/services"
)

const (
	HeaderTotalCount = "X-Total-Count"
	HeaderPage       = "X-Page"
	HeaderPageSize   = "X-Page-Size"
)

// ResourceType selects which routes a Resource exposes.
type ResourceType uint8

const (
	// TypeCollection exposes GET /<path>.
	TypeCollection ResourceType = 1 << iota
	// TypeItem exposes GET /<path>/:id.
	TypeItem
)

func (t ResourceType) Has(o ResourceType) bool { return t&o != 0 }

// Resource declares an HTTP resource backed by an entity type.
type Resource struct {
	Path   string
	Entity string
	Type   ResourceType
	List   services.CollectionReader
	Item   services.ItemReader
}

func (r Resource) Validate() error {
	if strings.TrimSpace(r.Path) == "" || strings.Contains(r.Path, "/") {
		return errors.New("resource path must be a single non-empty segment")
	}
	if r.Type.Has(TypeCollection) && r.List == nil {
		return errors.New("collection resource " + r.Path + " has no reader")
	}
	if r.Type.Has(TypeItem) && r.Item == nil {
		return errors.New("item resource " + r.Path + " has no reader")
	}
	if !r.Type.Has(TypeCollection) && !r.Type.Has(TypeItem) {
		return errors.New("resource " + r.Path + " exposes nothing")
	}
	return nil
}

type CollectionHandler struct {
	log *logger.Logger
	cfg config.CollectionConfig
}

func NewCollectionHandler(log *logger.Logger, cfg config.CollectionConfig) *CollectionHandler {
	return &CollectionHandler{log: log.With("handler", "CollectionHandler"), cfg: cfg}
}

// List serves GET /<path>: a JSON array of every matching entity, or the
// requested page of it. The body is fully serialized before anything is written.
func (h *CollectionHandler) List(reader services.CollectionReader) gin.HandlerFunc {
	return func(c *gin.Context) {
		q, err := parseListQuery(c, h.cfg)
		if err != nil {
			response.RespondAPIError(c, apierr.BadRequest(err))
			return
		}
		l, err := reader.List(c.Request.Context(), q)
		if err != nil {
			h.logFailure(c, reader.Resource(), err)
			response.RespondAPIError(c, err)
			return
		}
		c.Header(HeaderTotalCount, strconv.FormatInt(l.Total, 10))
		if l.Size > 0 {
			c.Header(HeaderPage, strconv.Itoa(l.Page))
			c.Header(HeaderPageSize, strconv.Itoa(l.Size))
		}
		response.RespondJSONBytes(c, http.StatusOK, l.Body)
	}
}

// Get serves GET /<path>/:id.
func (h *CollectionHandler) Get(reader services.ItemReader) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := uuid.Parse(strings.TrimSpace(c.Param("id")))
		if err != nil {
			response.RespondAPIError(c, apierr.BadRequest(errors.New("id must be a UUID")))
			return
		}
		body, err := reader.Get(c.Request.Context(), id)
		if err != nil {
			h.logFailure(c, reader.Resource(), err)
			response.RespondAPIError(c, err)
			return
		}
		response.RespondJSONBytes(c, http.StatusOK, body)
	}
}

func (h *CollectionHandler) logFailure(c *gin.Context, resource string, err error) {
	ae := apierr.From(err)
	if ae.Status < 500 {
		return
	}
	fields := append([]interface{}{"resource", resource, "code", ae.Code, "error", err}, ctxutil.LogFields(c.Request.Context())...)
	h.log.Error("resource read failed", fields...)
}
