package handler

import (
	"net/http"

	"devicesim/internal/domain"
	"devicesim/internal/service"

	"github.com/gin-gonic/gin"
)

// ProfileHandler handles behavior-profile catalog HTTP requests.
type ProfileHandler struct {
	profileService *service.ProfileService
}

// NewProfileHandler creates a new profile handler.
func NewProfileHandler(profileService *service.ProfileService) *ProfileHandler {
	return &ProfileHandler{profileService: profileService}
}

// List returns every persisted behavior-profile catalog entry.
func (h *ProfileHandler) List(c *gin.Context) {
	profiles, err := h.profileService.GetAll(c.Request.Context())
	if err != nil {
		RespondInternalError(c, err.Error())
		return
	}
	RespondOK(c, profiles)
}

// Get returns the catalog entry for a device type.
func (h *ProfileHandler) Get(c *gin.Context) {
	deviceType := domain.DeviceType(c.Param("deviceType"))

	profile, err := h.profileService.GetByDeviceType(c.Request.Context(), deviceType)
	if err != nil {
		RespondNotFound(c, "profile not found")
		return
	}
	RespondOK(c, profile)
}

// Upsert creates or overwrites the catalog entry for a device type.
func (h *ProfileHandler) Upsert(c *gin.Context) {
	deviceType := domain.DeviceType(c.Param("deviceType"))

	var body struct {
		Catalog domain.BehaviorProfile `json:"catalog" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		RespondBadRequest(c, err.Error())
		return
	}

	record := &domain.BehaviorProfileRecord{
		DeviceType: deviceType,
		Catalog:    domain.BehaviorProfileJSON(body.Catalog),
		IsBuiltin:  false,
	}
	if err := h.profileService.Upsert(c.Request.Context(), record); err != nil {
		RespondInternalError(c, err.Error())
		return
	}
	RespondOK(c, record)
}

// Delete removes the persisted catalog entry for a device type.
func (h *ProfileHandler) Delete(c *gin.Context) {
	deviceType := domain.DeviceType(c.Param("deviceType"))

	if err := h.profileService.Delete(c.Request.Context(), deviceType); err != nil {
		RespondNotFound(c, "profile not found")
		return
	}
	c.JSON(http.StatusNoContent, nil)
}
