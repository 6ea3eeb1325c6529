package repoutil

import (
	"context"
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"

	"gorm.io/gorm"
)

type SortDirection string

const (
	Asc  SortDirection = "asc"
	Desc SortDirection = "desc"
)

type SortField struct {
	Field     string
	Direction SortDirection
}

// Query carries the list parameters of a collection read. Page is zero based;
// Size 0 means unpaged.
type Query struct {
	Page   int
	Size   int
	Sort   []SortField
	Search string
}

// Key renders q deterministically for cache keys and request coalescing.
// Every component is escaped, so no search term can spell another query's key.
func (q Query) Key() string {
	v := url.Values{}
	v.Set("p", strconv.Itoa(q.Page))
	v.Set("s", strconv.Itoa(q.Size))
	v.Set("q", strings.ToLower(strings.TrimSpace(q.Search)))
	for _, s := range q.Sort {
		v.Add("o", url.QueryEscape(s.Field)+","+url.QueryEscape(string(s.Direction)))
	}
	return v.Encode()
}

type Page[T any] struct {
	Items []*T
	Total int64
	Page  int
	Size  int
}

// Spec describes how a table is listed.
type Spec struct {
	// Sortable maps public field names to columns.
	Sortable      map[string]string
	SearchColumns []string
	DefaultOrder  string
	Preload       []string
}

func (s Spec) orderClause(sort []SortField) (string, error) {
	if len(sort) == 0 {
		return s.DefaultOrder, nil
	}
	parts := make([]string, 0, len(sort)+1)
	for _, f := range sort {
		col, ok := s.Sortable[f.Field]
		if !ok {
			return "", fmt.Errorf("%w: unknown sort field %q", ErrInvalidQuery, f.Field)
		}
		switch f.Direction {
		case Asc, "":
			parts = append(parts, col+" ASC")
		case Desc:
			parts = append(parts, col+" DESC")
		default:
			return "", fmt.Errorf("%w: unknown sort direction %q", ErrInvalidQuery, f.Direction)
		}
	}
	// Tie-break on id so equal sort keys keep a stable order across calls.
	parts = append(parts, "id ASC")
	return strings.Join(parts, ", "), nil
}

// likeEscaper makes a search term match literally inside LIKE ... ESCAPE '\'.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// MaxPage is the highest page whose offset fits in an int for the given size.
func MaxPage(size int) int {
	if size <= 0 {
		return math.MaxInt
	}
	return math.MaxInt / size
}

// FindPage lists T under spec, applying search, order and paging.
// The returned Items is never nil.
func FindPage[T any](ctx context.Context, t *gorm.DB, q Query, spec Spec) (Page[T], error) {
	order, err := spec.orderClause(q.Sort)
	if err != nil {
		return Page[T]{}, err
	}
	if q.Page < 0 || q.Size < 0 {
		return Page[T]{}, fmt.Errorf("%w: negative page or size", ErrInvalidQuery)
	}
	if q.Size > 0 && q.Page > MaxPage(q.Size) {
		return Page[T]{}, fmt.Errorf("%w: page %d out of range", ErrInvalidQuery, q.Page)
	}

	base := t.WithContext(ctx).Model(new(T))
	if term := strings.ToLower(strings.TrimSpace(q.Search)); term != "" && len(spec.SearchColumns) > 0 {
		like := "%" + likeEscaper.Replace(term) + "%"
		conds := make([]string, 0, len(spec.SearchColumns))
		args := make([]interface{}, 0, len(spec.SearchColumns))
		for _, col := range spec.SearchColumns {
			conds = append(conds, "LOWER("+col+") LIKE ? ESCAPE '\\'")
			args = append(args, like)
		}
		base = base.Where(strings.Join(conds, " OR "), args...)
	}
	base = base.Session(&gorm.Session{})

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return Page[T]{}, Classify(err)
	}

	find := base.Order(order)
	for _, p := range spec.Preload {
		find = find.Preload(p, byID)
	}
	if q.Size > 0 {
		find = find.Limit(q.Size).Offset(q.Page * q.Size)
	}
	items := []*T{}
	if err := find.Find(&items).Error; err != nil {
		return Page[T]{}, Classify(err)
	}
	return Page[T]{Items: items, Total: total, Page: q.Page, Size: q.Size}, nil
}

// byID orders preloaded associations so nested id lists are stable.
func byID(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }
