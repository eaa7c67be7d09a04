package handler

import (
	"errors"
	"net/http"

	"bff/internal/service"
	"bff/internal/signing"
	"bff/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// writeError maps a service error onto its HTTP status. Unknown errors are
// logged and reported as a generic 500 so storage details never leak.
func writeError(c *gin.Context, log logrus.FieldLogger, err error) {
	var (
		authErr       *signing.AuthError
		notFoundErr   *service.NotFoundError
		conflictErr   *service.ConflictError
		validationErr *service.ValidationError
	)
	switch {
	case errors.As(err, &authErr):
		c.JSON(http.StatusUnauthorized, response.Detail(authErr.Reason))
	case errors.As(err, &notFoundErr):
		c.JSON(http.StatusNotFound, response.Detail(notFoundErr.Error()))
	case errors.As(err, &conflictErr):
		c.JSON(http.StatusBadRequest, response.Detail(conflictErr.Error()))
	case errors.As(err, &validationErr):
		c.JSON(http.StatusUnprocessableEntity, response.Detail(validationErr.Error()))
	default:
		_ = c.Error(err)
		log.WithError(err).WithFields(logrus.Fields{
			"method": c.Request.Method,
			"path":   c.FullPath(),
		}).Error("unhandled request error")
		c.JSON(http.StatusInternalServerError, response.Detail("Internal server error"))
	}
}

// parseUUID reads a path parameter as a UUID, writing a 422 when it is malformed.
func parseUUID(c *gin.Context, param string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(param))
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, response.Detail("Invalid UUID: "+param))
		return uuid.Nil, false
	}
	return id, true
}

// bindJSON decodes the request body, writing a 422 when it does not validate.
func bindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		c.JSON(http.StatusUnprocessableEntity, response.Detail("Invalid request payload: "+err.Error()))
		return false
	}
	return true
}
