package handlers

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/catalog-backend/internal/config"
	"github.com/yungbote/catalog-backend/internal/data/repos/repoutil"
)

const maxSearchLen = 200

// parseListQuery reads page, size, sort and search. Without page and size the
// whole collection is returned; either one switches to paged mode with the
// configured default size.
func parseListQuery(c *gin.Context, cfg config.CollectionConfig) (repoutil.Query, error) {
	var q repoutil.Query

	rawPage, hasPage := c.GetQuery("page")
	rawSize, hasSize := c.GetQuery("size")
	if hasPage {
		n, err := strconv.Atoi(strings.TrimSpace(rawPage))
		if err != nil || n < 0 {
			return q, fmt.Errorf("page must be a non-negative integer")
		}
		q.Page = n
	}
	if hasSize {
		n, err := strconv.Atoi(strings.TrimSpace(rawSize))
		if err != nil || n < 1 {
			return q, fmt.Errorf("size must be a positive integer")
		}
		if n > cfg.MaxPageSize {
			n = cfg.MaxPageSize
		}
		q.Size = n
	} else if hasPage {
		q.Size = cfg.DefaultPageSize
	}
	if q.Page > repoutil.MaxPage(q.Size) {
		return q, fmt.Errorf("page is out of range")
	}

	for _, raw := range c.QueryArray("sort") {
		for _, part := range strings.Split(raw, ";") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			field, dir, _ := strings.Cut(part, ",")
			sf := repoutil.SortField{Field: strings.TrimSpace(field), Direction: repoutil.Asc}
			switch strings.ToLower(strings.TrimSpace(dir)) {
			case "", "asc":
			case "desc":
				sf.Direction = repoutil.Desc
			default:
				return q, fmt.Errorf("sort direction must be asc or desc")
			}
			if sf.Field == "" {
				return q, fmt.Errorf("sort field must not be empty")
			}
			q.Sort = append(q.Sort, sf)
		}
	}

	q.Search = strings.TrimSpace(c.Query("search"))
	if utf8.RuneCountInString(q.Search) > maxSearchLen {
		return q, fmt.Errorf("search must be at most 200 characters")
	}
	return q, nil
}
