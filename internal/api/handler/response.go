package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"devicesim/internal/domain"
)

// APIResponse is the standard API response wrapper
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
	Meta    *Meta       `json:"meta,omitempty"`
}

// Meta contains pagination metadata
type Meta struct {
	Total  int64 `json:"total"`
	Limit  int   `json:"limit"`
	Offset int   `json:"offset"`
}

// RespondOK sends a successful response with data
func RespondOK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, APIResponse{
		Success: true,
		Data:    data,
	})
}

// RespondCreated sends a 201 response with data
func RespondCreated(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, APIResponse{
		Success: true,
		Data:    data,
	})
}

// RespondWithMeta sends a successful response with pagination metadata
func RespondWithMeta(c *gin.Context, data interface{}, total int64, limit, offset int) {
	c.JSON(http.StatusOK, APIResponse{
		Success: true,
		Data:    data,
		Meta: &Meta{
			Total:  total,
			Limit:  limit,
			Offset: offset,
		},
	})
}

// RespondError sends an error response
func RespondError(c *gin.Context, status int, message string) {
	c.JSON(status, APIResponse{
		Success: false,
		Error:   message,
	})
}

// RespondBadRequest sends a 400 error response
func RespondBadRequest(c *gin.Context, message string) {
	RespondError(c, http.StatusBadRequest, message)
}

// RespondNotFound sends a 404 error response
func RespondNotFound(c *gin.Context, message string) {
	RespondError(c, http.StatusNotFound, message)
}

// RespondInternalError sends a 500 error response
func RespondInternalError(c *gin.Context, message string) {
	RespondError(c, http.StatusInternalServerError, message)
}

// RespondPoolError maps a pool/startup domain error to the HTTP status it
// warrants and sends data alongside it (the pool/population handlers need
// this because domain.ErrPopulationIncomplete carries a genuinely partial
// StartupResult worth returning, not just an error message): an absent
// port (domain.ErrUnknownPortRange) is a 404, a device cap hit
// (domain.ErrPoolExhausted) is a 503 since the caller can retry once
// capacity frees up, and a population that fell short of its 0.8 success
// threshold (domain.ErrPopulationIncomplete) is a 207 reporting the
// partial result rather than a hard failure. Anything else falls back to
// a 500. A nil err sends data as a plain 200.
func RespondPoolError(c *gin.Context, data interface{}, err error) {
	if err == nil {
		RespondOK(c, data)
		return
	}

	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrUnknownPortRange):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrPoolExhausted):
		status = http.StatusServiceUnavailable
	case errors.Is(err, domain.ErrPopulationIncomplete):
		status = http.StatusMultiStatus
	}

	c.JSON(status, APIResponse{
		Success: false,
		Data:    data,
		Error:   err.Error(),
	})
}
