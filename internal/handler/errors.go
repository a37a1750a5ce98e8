package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/zevliandragovets/EcoBankWebsite/internal/service"
	"github.com/zevliandragovets/EcoBankWebsite/pkg/response"

	"github.com/gin-gonic/gin"
)

// writeServiceError maps service errors to HTTP responses. Caller errors
// surface with their own message; anything else is a system fault and is
// reported generically, never with backend detail.
func writeServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrUnauthenticated):
		c.JSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, err.Error()))
	case errors.Is(err, service.ErrForbidden):
		c.JSON(http.StatusForbidden, response.Error(http.StatusForbidden, err.Error()))
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, err.Error()))
	case service.IsCallerError(err):
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
	default:
		log.Printf("internal error on %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, "Internal server error"))
	}
}
