package logs_dto

import (
	"encoding/json"
	"math"
)

const (
	DefaultPageNumber = 1
	DefaultPageSize   = 10
	MaxPageSize       = 1000
)

type PaginationParams struct {
	PageNumber int `form:"pageNumber" json:"pageNumber"`
	PageSize   int `form:"pageSize"   json:"pageSize"`
}

func NewPaginationParams(pageNumber, pageSize int) PaginationParams {
	return PaginationParams{PageNumber: pageNumber, PageSize: pageSize}.Normalize()
}

// Normalize replaces out-of-range values with the defaults and caps the page
// size and the page number.
func (p PaginationParams) Normalize() PaginationParams {
	if p.PageNumber < 1 {
		p.PageNumber = DefaultPageNumber
	}

	if p.PageSize < 1 {
		p.PageSize = DefaultPageSize
	}

	if p.PageSize > MaxPageSize {
		p.PageSize = MaxPageSize
	}

	// keeps Skip from overflowing
	if maxPageNumber := math.MaxInt / p.PageSize; p.PageNumber > maxPageNumber {
		p.PageNumber = maxPageNumber
	}

	return p
}

func (p PaginationParams) Skip() int {
	return (p.PageNumber - 1) * p.PageSize
}

type PagedResult[T any] struct {
	Items      []T
	TotalCount int64
	PageNumber int
	PageSize   int
}

func NewPagedResult[T any](items []T, totalCount int64, params PaginationParams) *PagedResult[T] {
	if items == nil {
		items = make([]T, 0)
	}

	return &PagedResult[T]{
		Items:      items,
		TotalCount: totalCount,
		PageNumber: params.PageNumber,
		PageSize:   params.PageSize,
	}
}

func (r *PagedResult[T]) TotalPages() int {
	if r.PageSize <= 0 {
		return 0
	}

	return int((r.TotalCount + int64(r.PageSize) - 1) / int64(r.PageSize))
}

func (r *PagedResult[T]) HasNextPage() bool {
	return r.PageNumber < r.TotalPages()
}

func (r *PagedResult[T]) HasPreviousPage() bool {
	return r.PageNumber > 1
}

func (r *PagedResult[T]) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Items           []T   `json:"items"`
		TotalCount      int64 `json:"totalCount"`
		PageNumber      int   `json:"pageNumber"`
		PageSize        int   `json:"pageSize"`
		TotalPages      int   `json:"totalPages"`
		HasNextPage     bool  `json:"hasNextPage"`
		HasPreviousPage bool  `json:"hasPreviousPage"`
	}{
		Items:           r.Items,
		TotalCount:      r.TotalCount,
		PageNumber:      r.PageNumber,
		PageSize:        r.PageSize,
		TotalPages:      r.TotalPages(),
		HasNextPage:     r.HasNextPage(),
		HasPreviousPage: r.HasPreviousPage(),
	})
}
