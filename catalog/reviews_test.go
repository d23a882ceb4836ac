package catalog

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func makeReviews(n int) []Review {
	out := make([]Review, n)
	for i := range out {
		out[i] = Review{ID: fmt.Sprintf("r%d", i)}
	}
	return out
}

func ids(rs []Review) []string {
	out := make([]string, len(rs))
	for i, r := range rs {
		out[i] = r.ID
	}
	return out
}

func TestPageReviews(t *testing.T) {
	tests := []struct {
		name      string
		n, page   int
		perPage   int
		wantIDs   []string
		wantPage  int
		wantPages int
		wantNext  int
		wantPrev  int
	}{
		{"first page", 7, 0, 3, []string{"r0", "r1", "r2"}, 0, 3, 1, 2},
		{"partial last page", 7, 2, 3, []string{"r6"}, 2, 3, 0, 1},
		{"page past end clamps", 7, 9, 3, []string{"r6"}, 2, 3, 0, 1},
		{"negative page clamps", 7, -1, 3, []string{"r0", "r1", "r2"}, 0, 3, 1, 2},
		{"default page size", 4, 1, 0, []string{"r3"}, 1, 2, 0, 0},
		{"single page", 2, 0, 3, []string{"r0", "r1"}, 0, 1, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PageReviews(makeReviews(tt.n), tt.page, tt.perPage)
			assert.Equal(t, tt.wantIDs, ids(got.Reviews))
			assert.Equal(t, tt.wantPage, got.Page)
			assert.Equal(t, tt.wantPages, got.Pages)
			assert.Equal(t, tt.wantNext, got.Next)
			assert.Equal(t, tt.wantPrev, got.Prev)
		})
	}
}

func TestPageReviews_Empty(t *testing.T) {
	got := PageReviews(nil, 3, 3)
	assert.Empty(t, got.Reviews)
	assert.NotNil(t, got.Reviews)
	assert.Zero(t, got.Pages)
}
