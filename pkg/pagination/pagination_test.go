package pagination

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func parseQuery(query string) Params {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/items?"+query, nil)
	return Parse(c)
}

func TestParse(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  Params
	}{
		{"defaults", "", Params{Skip: 0, Limit: 100}},
		{"explicit", "skip=20&limit=10", Params{Skip: 20, Limit: 10}},
		{"negative skip", "skip=-5", Params{Skip: 0, Limit: 100}},
		{"zero limit", "limit=0", Params{Skip: 0, Limit: 100}},
		{"clamped limit", "limit=5000", Params{Skip: 0, Limit: 1000}},
		{"garbage", "skip=abc&limit=xyz", Params{Skip: 0, Limit: 100}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parseQuery(tt.query))
		})
	}
}
