package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	json "github.com/goccy/go-json"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"

	"github.com/yungbote/catalog-backend/internal/clients/redis"
	"github.com/yungbote/catalog-backend/internal/data/repos/repoutil"
	"github.com/yungbote/catalog-backend/internal/observability"
	"github.com/yungbote/catalog-backend/internal/platform/apierr"
	"github.com/yungbote/catalog-backend/internal/platform/logger"
	"github.com/yungbote/catalog-backend/internal/projection"
)

var tracer = otel.Tracer("github.com/yungbote/catalog-backend/internal/services")

// loadTimeout bounds a shared store load. The load is detached from its callers' contexts.
const loadTimeout = 30 * time.Second

// Source is the persistence boundary of a collection resource.
type Source[T any] interface {
	FindPage(ctx context.Context, tx *gorm.DB, q repoutil.Query) (repoutil.Page[T], error)
}

// ItemSource loads a single entity; a missing row is (nil, nil).
type ItemSource[T any] interface {
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*T, error)
}

// Listing is a fully serialized collection page. Body is always a JSON array.
type Listing struct {
	Body  []byte
	Total int64
	Page  int
	Size  int
	// Source tells where the body came from (store, cache or a shared in-flight load).
	Source string
}

type CollectionReader interface {
	Resource() string
	List(ctx context.Context, q repoutil.Query) (*Listing, error)
}

type ItemReader interface {
	Resource() string
	Get(ctx context.Context, id uuid.UUID) ([]byte, error)
}

type collectionService[T any] struct {
	resource string
	source   Source[T]
	cache    redis.CollectionCache
	metrics  *observability.Metrics
	log      *logger.Logger
	group    singleflight.Group
}

// NewCollectionService serves resource from source. cache and metrics may be nil.
func NewCollectionService[T any](resource string, source Source[T], cache redis.CollectionCache, metrics *observability.Metrics, log *logger.Logger) CollectionReader {
	return &collectionService[T]{
		resource: resource,
		source:   source,
		cache:    cache,
		metrics:  metrics,
		log:      log.With("service", "CollectionService", "resource", resource),
	}
}

func (s *collectionService[T]) Resource() string { return s.resource }

func (s *collectionService[T]) List(ctx context.Context, q repoutil.Query) (*Listing, error) {
	ctx, span := tracer.Start(ctx, "collection.List", trace.WithAttributes(
		attribute.String("catalog.resource", s.resource),
		attribute.Int("catalog.page", q.Page),
		attribute.Int("catalog.size", q.Size),
	))
	defer span.End()

	key := q.Key()
	cached, ver, cacheable := s.fromCache(ctx, key)
	if cached != nil {
		span.SetAttributes(attribute.String("catalog.source", cached.Source))
		s.metrics.ObserveCollectionRead(s.resource, cached.Source, "ok", int(cached.Total))
		return cached, nil
	}

	// Loads started under different cache versions never share a result.
	flight := key
	if cacheable {
		flight = fmt.Sprintf("v%d|%s", ver, key)
	}
	ch := s.group.DoChan(flight, func() (interface{}, error) {
		lctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), loadTimeout)
		defer cancel()
		return s.load(lctx, q, key, ver, cacheable)
	})

	var res singleflight.Result
	select {
	case res = <-ch:
	case <-ctx.Done():
		span.RecordError(ctx.Err())
		span.SetStatus(codes.Error, "cancelled")
		s.log.Debug("collection read abandoned by caller", "error", ctx.Err())
		return nil, apierr.From(ctx.Err())
	}

	if res.Err != nil {
		mapped := mapReadError(res.Err)
		span.RecordError(res.Err)
		span.SetStatus(codes.Error, mapped.Code)
		s.metrics.ObserveCollectionRead(s.resource, observability.SourceStore, mapped.Code, 0)
		if mapped.Status >= 500 {
			s.log.Error("collection read failed", "code", mapped.Code, "error", res.Err)
		}
		return nil, mapped
	}

	loaded := res.Val.(*Listing)
	out := *loaded
	if res.Shared {
		out.Source = observability.SourceShared
	}
	span.SetAttributes(attribute.String("catalog.source", out.Source), attribute.Int64("catalog.total", out.Total))
	s.metrics.ObserveCollectionRead(s.resource, out.Source, "ok", int(out.Total))
	return &out, nil
}

// load runs detached from any single caller; ctx carries only values and loadTimeout.
func (s *collectionService[T]) load(ctx context.Context, q repoutil.Query, key string, ver int64, cacheable bool) (*Listing, error) {
	page, err := s.source.FindPage(ctx, nil, q)
	if err != nil {
		return nil, err
	}
	body, err := projection.MarshalList(page.Items)
	if err != nil {
		return nil, err
	}
	l := &Listing{
		Body:   body,
		Total:  page.Total,
		Page:   page.Page,
		Size:   page.Size,
		Source: observability.SourceStore,
	}
	if cacheable {
		s.toCache(ctx, key, ver, l)
	}
	return l, nil
}

// fromCache returns a hit, or on a miss the version the page must be stored
// under. cacheable is false when there is no cache or it failed.
func (s *collectionService[T]) fromCache(ctx context.Context, key string) (hit *Listing, ver int64, cacheable bool) {
	if s.cache == nil {
		return nil, 0, false
	}
	e, ver, err := s.cache.Get(ctx, s.resource, key)
	if err != nil {
		s.metrics.IncCacheError("get")
		s.log.Warn("collection cache read failed; falling back to store", "error", err)
		return nil, 0, false
	}
	if e == nil {
		return nil, ver, true
	}
	return &Listing{Body: e.Body, Total: e.Total, Page: e.Page, Size: e.Size, Source: observability.SourceCache}, ver, true
}

func (s *collectionService[T]) toCache(ctx context.Context, key string, ver int64, l *Listing) {
	err := s.cache.Set(ctx, s.resource, ver, key, &redis.Entry{Body: l.Body, Total: l.Total, Page: l.Page, Size: l.Size})
	if err != nil {
		s.metrics.IncCacheError("set")
		s.log.Warn("collection cache write failed", "error", err)
	}
}

type itemService[T any] struct {
	resource string
	source   ItemSource[T]
	log      *logger.Logger
}

func NewItemService[T any](resource string, source ItemSource[T], log *logger.Logger) ItemReader {
	return &itemService[T]{
		resource: resource,
		source:   source,
		log:      log.With("service", "ItemService", "resource", resource),
	}
}

func (s *itemService[T]) Resource() string { return s.resource }

func (s *itemService[T]) Get(ctx context.Context, id uuid.UUID) ([]byte, error) {
	ctx, span := tracer.Start(ctx, "item.Get", trace.WithAttributes(
		attribute.String("catalog.resource", s.resource),
		attribute.String("catalog.id", id.String()),
	))
	defer span.End()

	row, err := s.source.GetByID(ctx, nil, id)
	if err != nil {
		mapped := mapReadError(err)
		span.RecordError(err)
		span.SetStatus(codes.Error, mapped.Code)
		return nil, mapped
	}
	if row == nil {
		return nil, apierr.NotFound(fmt.Errorf("%s %s not found", s.resource, id))
	}
	body, err := json.Marshal(row)
	if err != nil {
		span.RecordError(err)
		s.log.Error("item serialization failed", "id", id, "error", err)
		return nil, apierr.SerializationFailed(&projection.Error{Type: s.resource, Err: err})
	}
	return body, nil
}

// mapReadError sorts a read failure into the HTTP error taxonomy.
func mapReadError(err error) *apierr.Error {
	var ae *apierr.Error
	switch {
	case errors.As(err, &ae):
		return ae
	case errors.Is(err, repoutil.ErrInvalidQuery):
		return apierr.BadRequest(err)
	case errors.Is(err, repoutil.ErrStoreUnavailable):
		return apierr.StoreUnavailable(err)
	case projection.IsSerialization(err):
		return apierr.SerializationFailed(err)
	default:
		return apierr.From(err)
	}
}
