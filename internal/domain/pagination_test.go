package domain

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPaginationParams_Bounds(t *testing.T) {
	tests := []struct {
		name      string
		params    PaginationParams
		total     int
		wantStart int
		wantEnd   int
	}{
		{name: "first page", params: PaginationParams{Page: 1, PageSize: 2}, total: 5, wantStart: 0, wantEnd: 2},
		{name: "last partial page", params: PaginationParams{Page: 3, PageSize: 2}, total: 5, wantStart: 4, wantEnd: 5},
		{name: "past the end", params: PaginationParams{Page: 9, PageSize: 2}, total: 5, wantStart: 5, wantEnd: 5},
		{name: "zero page size returns everything", params: PaginationParams{Page: 1, PageSize: 0}, total: 5, wantStart: 0, wantEnd: 5},
		{name: "page beyond int range saturates", params: PaginationParams{Page: 100_000_000_000_000_000, PageSize: 100}, total: 3, wantStart: 3, wantEnd: 3},
		{name: "max page", params: PaginationParams{Page: math.MaxInt, PageSize: math.MaxInt}, total: 3, wantStart: 3, wantEnd: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end := tt.params.Bounds(tt.total)
			assert.Equal(t, tt.wantStart, start)
			assert.Equal(t, tt.wantEnd, end)
		})
	}
}

func TestPaginationParams_OffsetNeverNegative(t *testing.T) {
	assert.Equal(t, math.MaxInt, PaginationParams{Page: 100_000_000_000_000_000, PageSize: 100}.Offset())
	assert.Equal(t, 0, PaginationParams{Page: 0, PageSize: 100}.Offset())
	assert.Equal(t, 0, PaginationParams{Page: 3, PageSize: -1}.Offset())
	assert.Equal(t, 40, PaginationParams{Page: 3, PageSize: 20}.Offset())
}
