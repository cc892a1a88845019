package pagination

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Skotchmaster/storefront/internal/domain"
)

const (
	DefaultPage     = 1
	DefaultPageSize = 10
	MaxPageSize     = 100
)

type Page struct {
	Page  int
	Limit int
}

type Meta struct {
	TotalItems  int64 `json:"totalItems"`
	CurrentPage int   `json:"currentPage"`
	PageSize    int   `json:"pageSize"`
	TotalPages  int   `json:"totalPages"`
	HasNextPage bool  `json:"hasNextPage"`
	HasPrevPage bool  `json:"hasPrevPage"`
}

// Parse reads raw page/limit query values. Empty values take the defaults;
// anything non-numeric or out of range is rejected.
func Parse(rawPage, rawLimit string) (Page, error) {
	page, err := parseIntDefault(rawPage, DefaultPage)
	if err != nil || page < 1 {
		return Page{}, fmt.Errorf("%w: page must be a positive integer", domain.ErrValidation)
	}
	limit, err := parseIntDefault(rawLimit, DefaultPageSize)
	if err != nil || limit < 1 || limit > MaxPageSize {
		return Page{}, fmt.Errorf("%w: limit must be an integer between 1 and %d", domain.ErrValidation, MaxPageSize)
	}
	return Page{Page: page, Limit: limit}, nil
}

func (p Page) Offset() int {
	return (p.Page - 1) * p.Limit
}

func (p Page) Meta(total int64) Meta {
	pages := 0
	if total > 0 {
		pages = int((total + int64(p.Limit) - 1) / int64(p.Limit))
	}
	return Meta{
		TotalItems:  total,
		CurrentPage: p.Page,
		PageSize:    p.Limit,
		TotalPages:  pages,
		HasNextPage: p.Page < pages,
		HasPrevPage: p.Page > 1,
	}
}

func parseIntDefault(s string, def int) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return def, nil
	}
	return strconv.Atoi(s)
}
