package middleware

import (
	"errors"
	"net/http"
	"strings"

	"bff/internal/signing"
	"bff/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// AllowList names the routes served without a request signature.
type AllowList struct {
	Exact    []string
	Prefixes []string
}

// DefaultAllowList covers liveness, the scrape endpoint and the docs UI.
func DefaultAllowList() AllowList {
	return AllowList{
		Exact:    []string{"/health", "/metrics"},
		Prefixes: []string{"/swagger/"},
	}
}

func (a AllowList) Allows(path string) bool {
	for _, p := range a.Exact {
		if path == p {
			return true
		}
	}
	for _, p := range a.Prefixes {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}

// Signature rejects requests whose x-signature / x-timestamp pair does not
// verify against the shared secret.
func Signature(v *signing.Verifier, allow AllowList, log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if allow.Allows(c.Request.URL.Path) {
			c.Next()
			return
		}

		if err := v.VerifyRequest(c.Request); err != nil {
			status, reason := rejection(err)
			log.WithFields(logrus.Fields{
				"method": c.Request.Method,
				"path":   c.Request.URL.Path,
				"reason": reason,
			}).Warn("request signature rejected")
			c.AbortWithStatusJSON(status, response.Detail(reason))
			return
		}

		c.Next()
	}
}

func rejection(err error) (int, string) {
	var (
		authErr  *signing.AuthError
		tooLarge *http.MaxBytesError
	)
	switch {
	case errors.As(err, &authErr):
		return http.StatusUnauthorized, authErr.Reason
	case errors.As(err, &tooLarge):
		return http.StatusRequestEntityTooLarge, "Request body too large"
	default:
		return http.StatusBadRequest, "Invalid request body"
	}
}
