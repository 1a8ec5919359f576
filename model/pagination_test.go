package model_test

import (
	"math"
	"testing"

	"github.com/effective-security/tendem-mcp/model"
	"github.com/stretchr/testify/assert"
)

func Test_PageCount(t *testing.T) {
	for size := model.MinPageSize; size <= model.MaxPageSize; size++ {
		for total := 0; total <= 250; total++ {
			pages := model.PageCount(total, size)
			exp := total / size
			if total%size != 0 {
				exp++
			}
			assert.Equal(t, exp, pages, "total=%d size=%d", total, size)
			assert.Equal(t, total == 0, pages == 0, "total=%d size=%d", total, size)
		}
	}
	assert.Equal(t, 0, model.PageCount(10, 0))
	assert.Equal(t, 0, model.PageCount(-1, 10))

	// totals near the int range do not wrap
	assert.Equal(t, math.MaxInt/10+1, model.PageCount(math.MaxInt, 10))
	assert.Equal(t, 1, model.PageCount(math.MaxInt, math.MaxInt))
	assert.Equal(t, math.MaxInt, model.PageCount(math.MaxInt, 1))

	p := model.Pagination{Total: math.MaxInt, PageSize: 100, Pages: 1}
	assert.True(t, p.Normalize())
	assert.Equal(t, math.MaxInt/100+1, p.Pages)
}

func Test_Pagination_Normalize(t *testing.T) {
	p := model.Pagination{Total: 21, PageNumber: 0, PageSize: 10, Pages: 2}
	assert.True(t, p.Normalize())
	assert.Equal(t, 3, p.Pages)
	assert.False(t, p.Normalize())

	assert.Equal(t, model.Pagination{Total: 0, PageNumber: 3, PageSize: 5, Pages: 0}, model.NewPagination(0, 3, 5))
	assert.True(t, model.NewPagination(0, 0, 5).IsPastEnd())
	assert.False(t, model.NewPagination(6, 1, 5).IsPastEnd())
	assert.True(t, model.NewPagination(6, 2, 5).IsPastEnd())
}

func Test_Paginate(t *testing.T) {
	items := []int{1, 2, 3, 4, 5, 6, 7}

	page, p := model.Paginate(items, 0, 3)
	assert.Equal(t, []int{1, 2, 3}, page)
	assert.Equal(t, model.Pagination{Total: 7, PageNumber: 0, PageSize: 3, Pages: 3}, p)

	page, _ = model.Paginate(items, 2, 3)
	assert.Equal(t, []int{7}, page)

	page, p = model.Paginate(items, 5, 3)
	assert.NotNil(t, page)
	assert.Empty(t, page)
	assert.Equal(t, 3, p.Pages)

	page, _ = model.Paginate([]int(nil), 0, 10)
	assert.NotNil(t, page)
	assert.Empty(t, page)

	page, _ = model.Paginate(items, -1, 3)
	assert.Empty(t, page)

	// large page numbers and sizes do not overflow the offsets
	page, p = model.Paginate([]int{1, 2, 3}, math.MaxInt/2+1, 2)
	assert.NotNil(t, page)
	assert.Empty(t, page)
	assert.Equal(t, 2, p.Pages)

	page, _ = model.Paginate(items, math.MaxInt, math.MaxInt)
	assert.Empty(t, page)

	page, p = model.Paginate(items, 0, math.MaxInt)
	assert.Equal(t, items, page)
	assert.Equal(t, 1, p.Pages)
}
