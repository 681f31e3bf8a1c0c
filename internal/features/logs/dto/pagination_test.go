package logs_dto

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_PaginationParams_Skip_IsPageOffsetTimesSize(t *testing.T) {
	tests := []struct {
		pageNumber int
		pageSize   int
		expected   int
	}{
		{1, 10, 0},
		{3, 10, 20},
		{5, 20, 80},
		{2, 1, 1},
	}

	for _, tt := range tests {
		params := NewPaginationParams(tt.pageNumber, tt.pageSize)
		assert.Equal(t, tt.expected, params.Skip(), "page %d size %d", tt.pageNumber, tt.pageSize)
	}
}

func Test_PaginationParams_Normalize_AppliesDefaultsAndCap(t *testing.T) {
	assert.Equal(t, PaginationParams{PageNumber: 1, PageSize: 10}, PaginationParams{}.Normalize())
	assert.Equal(t, PaginationParams{PageNumber: 1, PageSize: 10}, PaginationParams{PageNumber: -3, PageSize: -1}.Normalize())
	assert.Equal(t, MaxPageSize, PaginationParams{PageNumber: 1, PageSize: 50_000}.Normalize().PageSize)
}

func Test_PaginationParams_Normalize_WithHugePageNumber_KeepsSkipNonNegative(t *testing.T) {
	for _, pageSize := range []int{2, 10, MaxPageSize} {
		params := NewPaginationParams(math.MaxInt/pageSize+2, pageSize)

		assert.Equal(t, math.MaxInt/pageSize, params.PageNumber)
		assert.GreaterOrEqual(t, params.Skip(), 0, "page size %d", pageSize)
	}

	params := NewPaginationParams(math.MaxInt, 0)
	assert.Equal(t, DefaultPageSize, params.PageSize)
	assert.GreaterOrEqual(t, params.Skip(), 0)
}

func Test_PagedResult_TotalPages_RoundsUp(t *testing.T) {
	tests := []struct {
		totalCount int64
		pageSize   int
		expected   int
	}{
		{10, 3, 4},
		{2, 10, 1},
		{10, 5, 2},
		{0, 10, 0},
		{11, 1, 11},
	}

	for _, tt := range tests {
		result := NewPagedResult[int](nil, tt.totalCount, NewPaginationParams(1, tt.pageSize))
		assert.Equal(t, tt.expected, result.TotalPages(), "total %d size %d", tt.totalCount, tt.pageSize)
	}
}

func Test_PagedResult_SinglePage_HasNoNextOrPrevious(t *testing.T) {
	result := NewPagedResult([]int{1, 2}, 2, NewPaginationParams(1, 10))

	assert.Equal(t, 1, result.TotalPages())
	assert.False(t, result.HasNextPage())
	assert.False(t, result.HasPreviousPage())
}

func Test_PagedResult_NavigationFlags_FollowPageNumber(t *testing.T) {
	firstPage := NewPagedResult[int](nil, 10, NewPaginationParams(1, 5))
	assert.True(t, firstPage.HasNextPage())
	assert.False(t, firstPage.HasPreviousPage())

	secondPage := NewPagedResult[int](nil, 10, NewPaginationParams(2, 5))
	assert.False(t, secondPage.HasNextPage())
	assert.True(t, secondPage.HasPreviousPage())
}

func Test_PagedResult_MarshalJSON_IncludesDerivedFields(t *testing.T) {
	result := NewPagedResult([]string{"a"}, 7, NewPaginationParams(2, 3))

	data, err := json.Marshal(result)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.Equal(t, float64(7), decoded["totalCount"])
	assert.Equal(t, float64(3), decoded["totalPages"])
	assert.Equal(t, true, decoded["hasNextPage"])
	assert.Equal(t, true, decoded["hasPreviousPage"])
	assert.Equal(t, []any{"a"}, decoded["items"])
}

func Test_NewPagedResult_WithNilItems_SerializesEmptyArray(t *testing.T) {
	data, err := json.Marshal(NewPagedResult[int](nil, 0, NewPaginationParams(1, 10)))
	require.NoError(t, err)

	assert.Contains(t, string(data), `"items":[]`)
}
