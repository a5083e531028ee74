package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lingobridge/lingobridge-backend/internal/apierr"
	"github.com/lingobridge/lingobridge-backend/internal/logger"
)

// respondError maps the service error taxonomy to HTTP. Client errors are
// surfaced verbatim; anything else is an opaque 500 so store internals never
// leak to the caller.
func respondError(c *gin.Context, log *logger.Logger, err error) {
	var ae *apierr.Error
	if errors.As(err, &ae) && ae.Status >= http.StatusBadRequest && ae.Status < http.StatusInternalServerError {
		c.JSON(ae.Status, gin.H{"message": ae.Error()})
		return
	}
	log.Error("Request failed", "error", err)
	c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal Server Error"})
}
