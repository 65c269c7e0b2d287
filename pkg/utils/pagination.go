package utils

import (
	"math"
	"net/url"
	"strconv"
)

const (
	DefaultPageLimit = 10
	MaxPageLimit     = 100
)

// Pagination is a page of a newest-first listing
type Pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Skip  int `json:"-"`
}

// GetPagination reads page and limit from the query, falling back to page 1 of 10
func GetPagination(query url.Values) Pagination {
	page, _ := strconv.Atoi(query.Get("page"))
	limit, _ := strconv.Atoi(query.Get("limit"))

	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DefaultPageLimit
	}
	if limit > MaxPageLimit {
		limit = MaxPageLimit
	}
	// Keep the skip representable; such pages are empty anyway
	if maxPage := math.MaxInt32/limit + 1; page > maxPage {
		page = maxPage
	}

	return Pagination{
		Page:  page,
		Limit: limit,
		Skip:  (page - 1) * limit,
	}
}
