package pagination

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

const (
	DefaultSkip  = 0
	DefaultLimit = 100
	MaxLimit     = 1000
	MinLimit     = 1
)

// Params holds validated skip/limit query parameters
type Params struct {
	Skip  int
	Limit int
}

// Parse extracts skip/limit from the query string, falling back to defaults
// for missing or malformed values and clamping limit to MaxLimit.
func Parse(c *gin.Context) Params {
	skip, err := strconv.Atoi(c.DefaultQuery("skip", strconv.Itoa(DefaultSkip)))
	if err != nil || skip < 0 {
		skip = DefaultSkip
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(DefaultLimit)))
	if err != nil || limit < MinLimit {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	return Params{Skip: skip, Limit: limit}
}
