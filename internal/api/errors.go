package api

import (
	"errors"
	"log"
	"net/http"

	"feedtagger/internal/poller"

	"github.com/gin-gonic/gin"
)

// ValidationError is malformed client input. It is reported as 400 and
// never mutates state.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func respondError(c *gin.Context, err error) {
	var validationErr *ValidationError
	var maxBytesErr *http.MaxBytesError

	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request",
			"message": validationErr.Message,
		})
	case errors.As(err, &maxBytesErr):
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{
			"error":   "Request too large",
			"message": "Request body exceeds maximum allowed size",
		})
	case errors.Is(err, poller.ErrRunInProgress):
		c.JSON(http.StatusConflict, gin.H{
			"error":   "Conflict",
			"message": err.Error(),
		})
	default:
		log.Printf("Request %s %s failed: %v", c.Request.Method, c.Request.URL.Path, err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Internal server error",
			"message": err.Error(),
		})
	}
}
