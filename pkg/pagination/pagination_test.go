package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPaginate(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}

	page := Paginate(items, &PaginationParams{Page: 2, PerPage: 2})
	assert.Equal(t, []int{3, 4}, page.Items)
	assert.Equal(t, int64(5), page.Pagination.Total)
	assert.Equal(t, 3, page.Pagination.TotalPages)
	assert.True(t, page.Pagination.HasNext)
	assert.True(t, page.Pagination.HasPrev)

	last := Paginate(items, &PaginationParams{Page: 3, PerPage: 2})
	assert.Equal(t, []int{5}, last.Items)
	assert.False(t, last.Pagination.HasNext)
}

func TestPaginate_PastTheEnd(t *testing.T) {
	page := Paginate([]string{"a"}, &PaginationParams{Page: 4, PerPage: 10})
	assert.Empty(t, page.Items)
	assert.NotNil(t, page.Items)
	assert.Equal(t, int64(1), page.Pagination.Total)
}

func TestPaginate_Defaults(t *testing.T) {
	items := make([]int, 40)
	page := Paginate(items, nil)
	assert.Len(t, page.Items, DefaultPerPage)
	assert.Equal(t, 1, page.Pagination.CurrentPage)
}

func TestValidate_ClampsParams(t *testing.T) {
	p := &PaginationParams{Page: -3, PerPage: 1000}
	p.Validate()
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, MaxPerPage, p.PerPage)

	p = &PaginationParams{Page: 2, PerPage: 0}
	p.Validate()
	assert.Equal(t, DefaultPerPage, p.PerPage)
	assert.Equal(t, DefaultPerPage, p.Offset())
}
