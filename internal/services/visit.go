package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/yungbote/catalog-backend/internal/clients/kafka"
	"github.com/yungbote/catalog-backend/internal/clients/redis"
	"github.com/yungbote/catalog-backend/internal/data/repos"
	"github.com/yungbote/catalog-backend/internal/data/repos/repoutil"
	types "github.com/yungbote/catalog-backend/internal/domain"
	"github.com/yungbote/catalog-backend/internal/observability"
	"github.com/yungbote/catalog-backend/internal/platform/apierr"
	"github.com/yungbote/catalog-backend/internal/platform/logger"
)

const ResourceVisits = "visits"

var (
	ErrPetRequired  = errors.New("pet_id is required")
	ErrDateRequired = errors.New("visit_date is required")
	ErrUnknownPet   = errors.New("unknown pet")
	ErrEmptyBatch   = errors.New("batch is empty")
)

type NewVisit struct {
	PetID       uuid.UUID
	VisitDate   time.Time
	Description string
}

type VisitService interface {
	Create(ctx context.Context, in NewVisit) (*types.Visit, error)
	CreateBatch(ctx context.Context, in []NewVisit) ([]*types.Visit, error)
	DeleteBatch(ctx context.Context, ids []uuid.UUID) (int64, error)
}

type visitService struct {
	db        *gorm.DB
	log       *logger.Logger
	petRepo   repos.PetRepo
	visitRepo repos.VisitRepo
	cache     redis.CollectionCache
	events    kafka.Publisher
	metrics   *observability.Metrics
}

// NewVisitService wires visit mutations. cache may be nil; events defaults to a no-op publisher.
func NewVisitService(
	db *gorm.DB,
	log *logger.Logger,
	petRepo repos.PetRepo,
	visitRepo repos.VisitRepo,
	cache redis.CollectionCache,
	events kafka.Publisher,
	metrics *observability.Metrics,
) VisitService {
	if events == nil {
		events = kafka.Nop()
	}
	return &visitService{
		db:        db,
		log:       log.With("service", "VisitService"),
		petRepo:   petRepo,
		visitRepo: visitRepo,
		cache:     cache,
		events:    events,
		metrics:   metrics,
	}
}

func (s *visitService) Create(ctx context.Context, in NewVisit) (*types.Visit, error) {
	out, err := s.CreateBatch(ctx, []NewVisit{in})
	if err != nil {
		return nil, err
	}
	return out[0], nil
}

func (s *visitService) CreateBatch(ctx context.Context, in []NewVisit) ([]*types.Visit, error) {
	ctx, span := tracer.Start(ctx, "visit.CreateBatch")
	defer span.End()

	if len(in) == 0 {
		return nil, apierr.BadRequest(ErrEmptyBatch)
	}
	rows := make([]*types.Visit, 0, len(in))
	petIDs := make([]uuid.UUID, 0, len(in))
	seen := map[uuid.UUID]bool{}
	for i, nv := range in {
		if nv.PetID == uuid.Nil {
			return nil, apierr.BadRequest(fmt.Errorf("item %d: %w", i, ErrPetRequired))
		}
		if nv.VisitDate.IsZero() {
			return nil, apierr.BadRequest(fmt.Errorf("item %d: %w", i, ErrDateRequired))
		}
		if !seen[nv.PetID] {
			seen[nv.PetID] = true
			petIDs = append(petIDs, nv.PetID)
		}
		rows = append(rows, &types.Visit{
			PetID:       nv.PetID,
			VisitDate:   datatypes.Date(nv.VisitDate),
			Description: strings.TrimSpace(nv.Description),
		})
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		pets, err := s.petRepo.GetByIDs(ctx, tx, petIDs)
		if err != nil {
			return err
		}
		if len(pets) != len(petIDs) {
			found := make(map[uuid.UUID]bool, len(pets))
			for _, p := range pets {
				found[p.ID] = true
			}
			for _, id := range petIDs {
				if !found[id] {
					return apierr.BadRequest(fmt.Errorf("%w: %s", ErrUnknownPet, id))
				}
			}
		}
		_, err = s.visitRepo.Create(ctx, tx, rows)
		return err
	})
	if err != nil {
		span.RecordError(err)
		return nil, mapWriteError(err)
	}

	events := make([]kafka.Event, 0, len(rows))
	for _, v := range rows {
		events = append(events, kafka.Event{Type: kafka.EventVisitCreated, EntityID: v.ID, OccurredAt: v.CreatedAt, Payload: v})
	}
	s.afterWrite(ctx, events)
	s.log.Info("visits created", "count", len(rows))
	return rows, nil
}

func (s *visitService) DeleteBatch(ctx context.Context, ids []uuid.UUID) (int64, error) {
	ctx, span := tracer.Start(ctx, "visit.DeleteBatch")
	defer span.End()

	if len(ids) == 0 {
		return 0, apierr.BadRequest(ErrEmptyBatch)
	}
	existing, err := s.visitRepo.GetByIDs(ctx, nil, ids)
	if err != nil {
		span.RecordError(err)
		return 0, mapWriteError(err)
	}
	n, err := s.visitRepo.SoftDeleteByIDs(ctx, nil, ids)
	if err != nil {
		span.RecordError(err)
		return 0, mapWriteError(err)
	}
	if n == 0 {
		return 0, nil
	}

	now := time.Now().UTC()
	events := make([]kafka.Event, 0, len(existing))
	for _, v := range existing {
		events = append(events, kafka.Event{Type: kafka.EventVisitDeleted, EntityID: v.ID, OccurredAt: now})
	}
	s.afterWrite(ctx, events)
	s.log.Info("visits deleted", "count", n)
	return n, nil
}

// afterWrite invalidates cached visit pages and publishes events. Failures
// are logged; the write has already committed.
func (s *visitService) afterWrite(ctx context.Context, events []kafka.Event) {
	if s.cache != nil {
		if err := s.cache.Invalidate(ctx, ResourceVisits); err != nil {
			s.metrics.IncCacheError("invalidate")
			s.log.Warn("visit cache invalidation failed", "error", err)
		}
	}
	if len(events) == 0 {
		return
	}
	err := s.events.Publish(ctx, events...)
	s.metrics.IncEvent(events[0].Type, err)
	if err != nil {
		s.log.Warn("visit event publish failed", "type", events[0].Type, "count", len(events), "error", err)
	}
}

func mapWriteError(err error) *apierr.Error {
	var ae *apierr.Error
	switch {
	case errors.As(err, &ae):
		return ae
	case errors.Is(repoutil.Classify(err), repoutil.ErrStoreUnavailable):
		return apierr.StoreUnavailable(err)
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return apierr.BadRequest(fmt.Errorf("%w: %v", ErrUnknownPet, err))
	default:
		return apierr.From(err)
	}
}
