package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskhub/taskhub/internal/domain"
)

func TestPaginate(t *testing.T) {
	t.Parallel()

	items := make([]int, 23)
	for i := range items {
		items[i] = i
	}

	tests := []struct {
		name           string
		items          []int
		page, pageSize int
		wantLen        int
		wantTotal      int
		wantFirst      int // first element of the slice, ignored when wantLen == 0
	}{
		{"empty collection yields one empty page", nil, 5, 10, 0, 1, 0},
		{"first page", items, 1, 10, 10, 3, 0},
		{"middle page", items, 2, 10, 10, 3, 10},
		{"last partial page", items, 3, 10, 3, 3, 20},
		{"page beyond end clamps to last", items, 10, 10, 3, 3, 20},
		{"page below one clamps to first", items, 0, 10, 10, 3, 0},
		{"page size one", items, 23, 1, 1, 23, 22},
		{"exact multiple", items[:20], 2, 10, 10, 2, 10},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			slice, total := domain.Paginate(tt.items, tt.page, tt.pageSize)

			assert.Equal(t, tt.wantTotal, total)
			require.Len(t, slice, tt.wantLen)
			if tt.wantLen > 0 {
				assert.Equal(t, tt.wantFirst, slice[0])
			}
		})
	}
}

func TestPaginate_DegenServerPageSize(t *testing.T) {
	t.Parallel()

	// A non-positive page size is treated as 1 rather than dividing by zero.
	slice, total := domain.Paginate([]string{"a", "b"}, 1, 0)
	assert.Equal(t, []string{"a"}, slice)
	assert.Equal(t, 2, total)
}

func TestClampPage(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 1, domain.ClampPage(0, 5))
	assert.Equal(t, 1, domain.ClampPage(-3, 5))
	assert.Equal(t, 3, domain.ClampPage(3, 5))
	assert.Equal(t, 5, domain.ClampPage(9, 5))
}
