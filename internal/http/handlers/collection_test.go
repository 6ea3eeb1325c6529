package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/catalog-backend/internal/config"
	"github.com/yungbote/catalog-backend/internal/data/repos/repoutil"
	"github.com/yungbote/catalog-backend/internal/platform/apierr"
	"github.com/yungbote/catalog-backend/internal/platform/logger"
	"github.com/yungbote/catalog-backend/internal/services"
)

var testPaging = config.CollectionConfig{DefaultPageSize: 20, MaxPageSize: 50}

type stubList struct {
	listing *services.Listing
	err     error
	lastQ   repoutil.Query
	calls   int
}

func (s *stubList) Resource() string { return "visits" }

func (s *stubList) List(_ context.Context, q repoutil.Query) (*services.Listing, error) {
	s.calls++
	s.lastQ = q
	return s.listing, s.err
}

type stubItem struct {
	body []byte
	err  error
}

func (s *stubItem) Resource() string { return "visits" }

func (s *stubItem) Get(context.Context, uuid.UUID) ([]byte, error) { return s.body, s.err }

func newEngine(list services.CollectionReader, item services.ItemReader) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewCollectionHandler(logger.Nop(), testPaging)
	r := gin.New()
	r.GET("/api/visits", h.List(list))
	r.GET("/api/visits/:id", h.Get(item))
	return r
}

func get(r http.Handler, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestListEmptyCollection(t *testing.T) {
	list := &stubList{listing: &services.Listing{Body: []byte("[]")}}
	rec := get(newEngine(list, &stubItem{}), "/api/visits")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Equal(t, "[]", rec.Body.String())
	assert.Equal(t, "0", rec.Header().Get(HeaderTotalCount))
	assert.Empty(t, rec.Header().Get(HeaderPage))
	assert.Zero(t, list.lastQ.Size)
}

func TestListWritesBodyAndPagingHeaders(t *testing.T) {
	body := `[{"id":"a"},{"id":"b"}]`
	list := &stubList{listing: &services.Listing{Body: []byte(body), Total: 7, Page: 1, Size: 2}}
	rec := get(newEngine(list, &stubItem{}), "/api/visits?page=1&size=2&sort=visit_date,desc&search=%20dog%20")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, body, rec.Body.String())
	assert.Equal(t, "7", rec.Header().Get(HeaderTotalCount))
	assert.Equal(t, "1", rec.Header().Get(HeaderPage))
	assert.Equal(t, "2", rec.Header().Get(HeaderPageSize))
	assert.Equal(t, repoutil.Query{
		Page:   1,
		Size:   2,
		Sort:   []repoutil.SortField{{Field: "visit_date", Direction: repoutil.Desc}},
		Search: "dog",
	}, list.lastQ)
}

func TestListQueryDefaultsAndCaps(t *testing.T) {
	list := &stubList{listing: &services.Listing{Body: []byte("[]")}}
	r := newEngine(list, &stubItem{})

	get(r, "/api/visits?page=0")
	assert.Equal(t, 20, list.lastQ.Size)

	get(r, "/api/visits?size=1000")
	assert.Equal(t, 50, list.lastQ.Size)

	get(r, "/api/visits?sort=name&sort=created_at,asc")
	assert.Equal(t, []repoutil.SortField{
		{Field: "name", Direction: repoutil.Asc},
		{Field: "created_at", Direction: repoutil.Asc},
	}, list.lastQ.Sort)
}

func TestListRejectsBadQuery(t *testing.T) {
	for _, target := range []string{
		"/api/visits?page=-1",
		"/api/visits?page=x",
		"/api/visits?size=0",
		"/api/visits?sort=name,sideways",
		"/api/visits?sort=,asc",
		"/api/visits?page=9223372036854775807&size=10",
		"/api/visits?page=461168601842738791",
		"/api/visits?search=" + strings.Repeat("a", 201),
	} {
		t.Run(target, func(t *testing.T) {
			list := &stubList{listing: &services.Listing{Body: []byte("[]")}}
			rec := get(newEngine(list, &stubItem{}), target)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, rec.Body.String(), apierr.CodeInvalidRequest)
			assert.Zero(t, list.calls)
		})
	}
}

func TestListSearchLimitCountsCharacters(t *testing.T) {
	list := &stubList{listing: &services.Listing{Body: []byte("[]")}}
	r := newEngine(list, &stubItem{})

	term := strings.Repeat("é", maxSearchLen)
	rec := get(r, "/api/visits?search="+url.QueryEscape(term))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, term, list.lastQ.Search)

	rec = get(r, "/api/visits?search="+url.QueryEscape(term+"é"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListFailuresNeverWritePartialBody(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"store unavailable", apierr.StoreUnavailable(errors.New("dial tcp: refused")), http.StatusServiceUnavailable, apierr.CodeStoreUnavailable},
		{"serialization", apierr.SerializationFailed(errors.New("unsupported value")), http.StatusInternalServerError, apierr.CodeSerializationFailed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := get(newEngine(&stubList{err: tt.err}, &stubItem{}), "/api/visits")
			assert.Equal(t, tt.status, rec.Code)
			assert.Contains(t, rec.Body.String(), `"code":"`+tt.code+`"`)
			assert.NotContains(t, rec.Body.String(), "[")
			assert.Empty(t, rec.Header().Get(HeaderTotalCount))
		})
	}
}

func TestGetItem(t *testing.T) {
	r := newEngine(&stubList{}, &stubItem{body: []byte(`{"id":"x"}`)})
	rec := get(r, "/api/visits/"+uuid.NewString())
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, `{"id":"x"}`, rec.Body.String())

	rec = get(r, "/api/visits/not-a-uuid")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	missing := newEngine(&stubList{}, &stubItem{err: apierr.NotFound(errors.New("visits x not found"))})
	rec = get(missing, "/api/visits/"+uuid.NewString())
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestResourceValidate(t *testing.T) {
	list := &stubList{}
	assert.NoError(t, Resource{Path: "visits", Type: TypeCollection, List: list}.Validate())
	assert.Error(t, Resource{Path: "", Type: TypeCollection, List: list}.Validate())
	assert.Error(t, Resource{Path: "a/b", Type: TypeCollection, List: list}.Validate())
	assert.Error(t, Resource{Path: "visits", Type: TypeItem}.Validate())
	assert.Error(t, Resource{Path: "visits"}.Validate())
	assert.True(t, (TypeCollection | TypeItem).Has(TypeItem))
}
