package util

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func paginationFor(t *testing.T, query string) (page, limit, offset int) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/items"+query, nil)
	return Pagination(c)
}

func TestPagination(t *testing.T) {
	cases := []struct {
		query  string
		page   int
		limit  int
		offset int
	}{
		{"", 1, 10, 0},
		{"?page=2&limit=5", 2, 5, 5},
		{"?page=3", 3, 10, 20},
		{"?limit=25", 1, 25, 0},
		// bad input falls back to defaults
		{"?page=0", 1, 10, 0},
		{"?page=-4", 1, 10, 0},
		{"?page=abc&limit=xyz", 1, 10, 0},
		{"?limit=0", 1, 10, 0},
		// limit is capped
		{"?limit=9999", 1, 100, 0},
	}
	for _, tc := range cases {
		page, limit, offset := paginationFor(t, tc.query)
		if page != tc.page || limit != tc.limit || offset != tc.offset {
			t.Errorf("%q: got page=%d limit=%d offset=%d, want %d/%d/%d",
				tc.query, page, limit, offset, tc.page, tc.limit, tc.offset)
		}
	}
}
