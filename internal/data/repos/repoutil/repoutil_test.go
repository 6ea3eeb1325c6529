package repoutil

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		unavailable bool
	}{
		{name: "nil", err: nil},
		{name: "deadline", err: context.DeadlineExceeded, unavailable: true},
		{name: "bad conn", err: fmt.Errorf("query: %w", driver.ErrBadConn), unavailable: true},
		{name: "pg connection exception", err: &pgconn.PgError{Code: "08006"}, unavailable: true},
		{name: "pg admin shutdown", err: &pgconn.PgError{Code: "57P01"}, unavailable: true},
		{name: "pg unique violation", err: &pgconn.PgError{Code: "23505"}},
		{name: "closed pool", err: errors.New("sql: database is closed"), unavailable: true},
		{name: "plain", err: errors.New("record not found")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.err)
			if tt.err == nil {
				assert.NoError(t, got)
				return
			}
			assert.Equal(t, tt.unavailable, errors.Is(got, ErrStoreUnavailable))
			assert.True(t, errors.Is(got, tt.err))
		})
	}
}

func TestClassifyKeepsCancellation(t *testing.T) {
	err := Classify(context.Canceled)
	assert.Same(t, context.Canceled, err)
	assert.False(t, errors.Is(err, ErrStoreUnavailable))
}

func TestOrderClause(t *testing.T) {
	spec := Spec{
		Sortable:     map[string]string{"name": "name", "date": "visit_date"},
		DefaultOrder: "created_at ASC, id ASC",
	}

	got, err := spec.orderClause(nil)
	require.NoError(t, err)
	assert.Equal(t, "created_at ASC, id ASC", got)

	got, err = spec.orderClause([]SortField{{Field: "date", Direction: Desc}, {Field: "name"}})
	require.NoError(t, err)
	assert.Equal(t, "visit_date DESC, name ASC, id ASC", got)

	_, err = spec.orderClause([]SortField{{Field: "name", Direction: "sideways"}})
	assert.True(t, errors.Is(err, ErrInvalidQuery))

	_, err = spec.orderClause([]SortField{{Field: "name; DROP TABLE visit"}})
	assert.True(t, errors.Is(err, ErrInvalidQuery))
}

func TestQueryKey(t *testing.T) {
	a := Query{Page: 1, Size: 10, Search: "  Rex ", Sort: []SortField{{Field: "name", Direction: Asc}}}
	b := Query{Page: 1, Size: 10, Search: "rex", Sort: []SortField{{Field: "name", Direction: Asc}}}
	assert.Equal(t, a.Key(), b.Key())
	assert.NotEqual(t, a.Key(), Query{}.Key())
}

func TestQueryKeyEscapesComponents(t *testing.T) {
	crafted := Query{Search: "x&o=name,asc"}
	sorted := Query{Search: "x", Sort: []SortField{{Field: "name", Direction: Asc}}}
	assert.NotEqual(t, crafted.Key(), sorted.Key())

	assert.NotEqual(t,
		Query{Search: "a&p=1"}.Key(),
		Query{Page: 1, Search: "a"}.Key(),
	)
	assert.NotEqual(t,
		Query{Sort: []SortField{{Field: "a,desc", Direction: Asc}}}.Key(),
		Query{Sort: []SortField{{Field: "a", Direction: Desc}}}.Key(),
	)
}

func TestMaxPage(t *testing.T) {
	assert.Equal(t, math.MaxInt, MaxPage(0))
	assert.Equal(t, math.MaxInt/20, MaxPage(20))
}
