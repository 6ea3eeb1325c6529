package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/catalog-backend/internal/http/response"
	"github.com/yungbote/catalog-backend/internal/platform/apierr"
	"github.com/yungbote/catalog-backend/internal/platform/logger"
	"github.com/yungbote/catalog-backend/internal/services"
)

const (
	maxBodyBytes = 1 << 20
	maxBatch     = 500
)

type VisitHandler struct {
	log *logger.Logger
	svc services.VisitService
}

func NewVisitHandler(log *logger.Logger, svc services.VisitService) *VisitHandler {
	return &VisitHandler{log: log.With("handler", "VisitHandler"), svc: svc}
}

type visitRequest struct {
	PetID       string `json:"pet_id"`
	VisitDate   string `json:"visit_date"`
	Description string `json:"description"`
}

func (r visitRequest) toNewVisit(i int) (services.NewVisit, error) {
	var nv services.NewVisit
	id, err := uuid.Parse(strings.TrimSpace(r.PetID))
	if err != nil {
		return nv, fmt.Errorf("item %d: pet_id must be a UUID", i)
	}
	d, err := time.Parse("2006-01-02", strings.TrimSpace(r.VisitDate))
	if err != nil {
		return nv, fmt.Errorf("item %d: visit_date must be YYYY-MM-DD", i)
	}
	nv.PetID = id
	nv.VisitDate = d
	nv.Description = r.Description
	return nv, nil
}

// POST /api/visits
func (h *VisitHandler) Create(c *gin.Context) {
	var req visitRequest
	if err := decodeBody(c, &req); err != nil {
		response.RespondAPIError(c, apierr.BadRequest(err))
		return
	}
	nv, err := req.toNewVisit(0)
	if err != nil {
		response.RespondAPIError(c, apierr.BadRequest(err))
		return
	}
	v, err := h.svc.Create(c.Request.Context(), nv)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	h.respondCreated(c, v)
}

// POST /api/visits/batch
func (h *VisitHandler) CreateBatch(c *gin.Context) {
	var req []visitRequest
	if err := decodeBody(c, &req); err != nil {
		response.RespondAPIError(c, apierr.BadRequest(err))
		return
	}
	if len(req) > maxBatch {
		response.RespondAPIError(c, apierr.BadRequest(fmt.Errorf("batch exceeds %d items", maxBatch)))
		return
	}
	in := make([]services.NewVisit, 0, len(req))
	for i, r := range req {
		nv, err := r.toNewVisit(i)
		if err != nil {
			response.RespondAPIError(c, apierr.BadRequest(err))
			return
		}
		in = append(in, nv)
	}
	out, err := h.svc.CreateBatch(c.Request.Context(), in)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	h.respondCreated(c, out)
}

// DELETE /api/visits/batch/:ids
func (h *VisitHandler) DeleteBatch(c *gin.Context) {
	parts := strings.Split(c.Param("ids"), ",")
	ids := make([]uuid.UUID, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		id, err := uuid.Parse(p)
		if err != nil {
			response.RespondAPIError(c, apierr.BadRequest(fmt.Errorf("invalid id %q", p)))
			return
		}
		ids = append(ids, id)
	}
	if len(ids) > maxBatch {
		response.RespondAPIError(c, apierr.BadRequest(fmt.Errorf("batch exceeds %d items", maxBatch)))
		return
	}
	n, err := h.svc.DeleteBatch(c.Request.Context(), ids)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"deleted": n})
}

func (h *VisitHandler) respondCreated(c *gin.Context, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		h.log.Error("visit serialization failed", "error", err)
		response.RespondAPIError(c, apierr.SerializationFailed(err))
		return
	}
	response.RespondJSONBytes(c, http.StatusCreated, body)
}

func decodeBody(c *gin.Context, dst any) error {
	dec := json.NewDecoder(io.LimitReader(c.Request.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("request body is empty")
		}
		return fmt.Errorf("invalid JSON body: %w", err)
	}
	return nil
}
