package utils

import (
	"fmt"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type article struct {
	ID    uint `gorm:"primaryKey"`
	Title string
}

func newPaginateDB(t *testing.T, rows int) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&article{}))

	for i := 1; i <= rows; i++ {
		require.NoError(t, db.Create(&article{Title: fmt.Sprintf("article %d", i)}).Error)
	}
	return db
}

func TestPaginateFirstPage(t *testing.T) {
	db := newPaginateDB(t, 25)

	var out []article
	page, err := Paginate(db.Model(&article{}).Order("id ASC"), 1, 10, &out)
	require.NoError(t, err)

	assert.Len(t, out, 10)
	assert.Equal(t, int64(25), page.Total)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 10, page.Limit)
	assert.Equal(t, 3, page.TotalPages)
	assert.Equal(t, "article 1", out[0].Title)
}

func TestPaginateLastPartialPage(t *testing.T) {
	db := newPaginateDB(t, 25)

	var out []article
	page, err := Paginate(db.Model(&article{}).Order("id ASC"), 3, 10, &out)
	require.NoError(t, err)

	assert.Len(t, out, 5)
	assert.Equal(t, 3, page.TotalPages)
	assert.Equal(t, "article 21", out[0].Title)
}

func TestPaginateBeyondLastPage(t *testing.T) {
	db := newPaginateDB(t, 5)

	var out []article
	page, err := Paginate(db.Model(&article{}).Order("id ASC"), 9, 10, &out)
	require.NoError(t, err)

	assert.Empty(t, out)
	assert.Equal(t, int64(5), page.Total)
	assert.Equal(t, 9, page.Page)
	assert.Equal(t, 1, page.TotalPages)
}

func TestPaginateEmptyTable(t *testing.T) {
	db := newPaginateDB(t, 0)

	var out []article
	page, err := Paginate(db.Model(&article{}), 1, 10, &out)
	require.NoError(t, err)

	assert.Empty(t, out)
	assert.Equal(t, int64(0), page.Total)
	assert.Equal(t, 0, page.TotalPages)
}

func TestPageParams(t *testing.T) {
	cases := []struct {
		name      string
		query     string
		wantPage  int
		wantLimit int
	}{
		{"defaults", "", 1, 10},
		{"explicit", "page=3&limit=25", 3, 25},
		{"non numeric", "page=abc&limit=xyz", 1, 10},
		{"non positive", "page=0&limit=-5", 1, 10},
		{"limit capped", "page=2&limit=1000", 2, 10},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ctx, _ := gin.CreateTestContext(httptest.NewRecorder())
			ctx.Request = httptest.NewRequest("GET", "/?"+tc.query, nil)

			page, limit := PageParams(ctx)
			assert.Equal(t, tc.wantPage, page)
			assert.Equal(t, tc.wantLimit, limit)
		})
	}
}
