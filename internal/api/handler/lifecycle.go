package handler

import (
	"net/http"
	"strconv"
	"time"

	"devicesim/internal/domain"
	"devicesim/internal/service"

	"github.com/gin-gonic/gin"
)

// LifecycleHandler handles device lifecycle audit-trail HTTP requests.
type LifecycleHandler struct {
	lifecycleService *service.LifecycleEventService
}

// NewLifecycleHandler creates a new lifecycle handler.
func NewLifecycleHandler(lifecycleService *service.LifecycleEventService) *LifecycleHandler {
	return &LifecycleHandler{lifecycleService: lifecycleService}
}

// List returns lifecycle events matching the query filter, paginated.
func (h *LifecycleHandler) List(c *gin.Context) {
	filter := domain.LifecycleEventFilter{
		Kind:   domain.LifecycleEventKind(c.Query("kind")),
		Limit:  50,
		Offset: 0,
	}

	if portStr := c.Query("port"); portStr != "" {
		if p, err := strconv.Atoi(portStr); err == nil {
			port := domain.Port(p)
			filter.Port = &port
		}
	}
	if limit, err := strconv.Atoi(c.Query("limit")); err == nil && limit > 0 {
		filter.Limit = limit
	}
	if offset, err := strconv.Atoi(c.Query("offset")); err == nil && offset >= 0 {
		filter.Offset = offset
	}
	if startStr := c.Query("start"); startStr != "" {
		if t, err := time.Parse(time.RFC3339, startStr); err == nil {
			filter.StartTime = &t
		}
	}
	if endStr := c.Query("end"); endStr != "" {
		if t, err := time.Parse(time.RFC3339, endStr); err == nil {
			filter.EndTime = &t
		}
	}

	events, total, err := h.lifecycleService.GetAll(c.Request.Context(), filter)
	if err != nil {
		RespondInternalError(c, err.Error())
		return
	}
	RespondWithMeta(c, events, total, filter.Limit, filter.Offset)
}

// Cleanup deletes lifecycle events older than the given number of days
// (default 30).
func (h *LifecycleHandler) Cleanup(c *gin.Context) {
	days := 30
	if daysStr := c.Query("days"); daysStr != "" {
		if d, err := strconv.Atoi(daysStr); err == nil && d > 0 {
			days = d
		}
	}

	deleted, err := h.lifecycleService.DeleteOlderThan(c.Request.Context(), time.Duration(days)*24*time.Hour)
	if err != nil {
		RespondInternalError(c, err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"deleted": deleted,
	})
}
