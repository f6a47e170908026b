package httpserver

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"webhost-storefront/internal/domain"
)

// writeError maps service errors onto status codes and {"error": msg}.
// Unclassified errors are logged and reported as 500 without detail.
func writeError(c *gin.Context, logger logrus.FieldLogger, err error) {
	status, msg := classify(err)
	if status >= http.StatusInternalServerError {
		logger.WithError(err).WithFields(logrus.Fields{
			"method": c.Request.Method,
			"path":   c.FullPath(),
		}).Error("http: request failed")
	}
	c.AbortWithStatusJSON(status, gin.H{"error": msg})
}

func classify(err error) (int, string) {
	var validation *domain.ValidationError
	if errors.As(err, &validation) {
		return http.StatusBadRequest, validation.Msg
	}

	status, fallback := http.StatusInternalServerError, "internal server error"
	switch {
	case errors.Is(err, domain.ErrInvalidInput), errors.Is(err, domain.ErrAlreadyExists):
		status, fallback = http.StatusBadRequest, "invalid request"
	case errors.Is(err, domain.ErrNotFound):
		status, fallback = http.StatusNotFound, "not found"
	case errors.Is(err, domain.ErrUnauthorized):
		status, fallback = http.StatusUnauthorized, "unauthorized"
	case errors.Is(err, domain.ErrForbidden):
		status, fallback = http.StatusForbidden, "forbidden"
	case errors.Is(err, domain.ErrUpstream):
		return http.StatusBadGateway, "upstream service unavailable"
	default:
		return status, fallback
	}

	var statusErr *domain.StatusError
	if errors.As(err, &statusErr) {
		return status, statusErr.Msg
	}
	return status, fallback
}

func badRequest(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": msg})
}
