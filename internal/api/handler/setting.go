package handler

import (
	"net/http"

	"devicesim/internal/service"

	"github.com/gin-gonic/gin"
)

// SettingHandler handles runtime setting override HTTP requests.
type SettingHandler struct {
	settingService *service.SettingService
}

// NewSettingHandler creates a new setting handler.
func NewSettingHandler(settingService *service.SettingService) *SettingHandler {
	return &SettingHandler{settingService: settingService}
}

// List returns all settings.
func (h *SettingHandler) List(c *gin.Context) {
	settings, err := h.settingService.GetAll(c.Request.Context())
	if err != nil {
		RespondInternalError(c, err.Error())
		return
	}

	settingsMap := make(map[string]string, len(settings))
	for _, s := range settings {
		settingsMap[s.Key] = s.Value
	}
	RespondOK(c, settingsMap)
}

// Get returns a setting by key.
func (h *SettingHandler) Get(c *gin.Context) {
	key := c.Param("key")

	value, err := h.settingService.Get(c.Request.Context(), key)
	if err != nil {
		RespondInternalError(c, err.Error())
		return
	}
	if value == "" {
		RespondNotFound(c, "setting not found")
		return
	}
	RespondOK(c, gin.H{"key": key, "value": value})
}

// Set creates or updates a setting.
func (h *SettingHandler) Set(c *gin.Context) {
	key := c.Param("key")

	var req struct {
		Value string `json:"value" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondBadRequest(c, err.Error())
		return
	}

	if err := h.settingService.Set(c.Request.Context(), key, req.Value); err != nil {
		RespondInternalError(c, err.Error())
		return
	}
	RespondOK(c, gin.H{"key": key, "value": req.Value})
}

// Delete deletes a setting.
func (h *SettingHandler) Delete(c *gin.Context) {
	key := c.Param("key")

	if err := h.settingService.Delete(c.Request.Context(), key); err != nil {
		RespondInternalError(c, err.Error())
		return
	}
	c.JSON(http.StatusNoContent, nil)
}
