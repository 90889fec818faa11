package api

import (
	"context"
	"errors"
	"net/http"

	"hallbook/internal/db"

	"github.com/gin-gonic/gin"
)

// RespondStoreError writes the response for store-level failures and
// reports whether err was one. Retryable failures carry Retry-After.
func RespondStoreError(c *gin.Context, err error) bool {
	switch {
	case errors.Is(err, db.ErrTimeout):
		c.JSON(http.StatusGatewayTimeout, ErrorResponse{Error: "the database did not answer in time"})
	case errors.Is(err, db.ErrSerializationConflict):
		c.Header("Retry-After", "1")
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "too much contention, please retry"})
	case errors.Is(err, db.ErrStoreUnavailable):
		c.Header("Retry-After", "1")
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "the database is unavailable"})
	case errors.Is(err, context.Canceled):
		// 499: the client went away, nobody reads the body.
		c.Status(499)
	default:
		return false
	}
	return true
}
