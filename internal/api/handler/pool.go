package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"devicesim/internal/domain"
	"devicesim/internal/pool"
	"devicesim/internal/startup"

	"github.com/gin-gonic/gin"
)

// PoolHandler handles device-pool and population HTTP requests. It fronts
// the lazy pool directly for stats and single-device lookups, and the
// startup manager for bulk population control.
type PoolHandler struct {
	devicePool *pool.LazyDevicePool
	startup    *startup.Manager
}

// NewPoolHandler creates a new pool handler.
func NewPoolHandler(devicePool *pool.LazyDevicePool, startupManager *startup.Manager) *PoolHandler {
	return &PoolHandler{devicePool: devicePool, startup: startupManager}
}

// Stats returns the pool's current counters.
func (h *PoolHandler) Stats(c *gin.Context) {
	RespondOK(c, h.devicePool.GetStats())
}

// GetDevice materializes (or returns the existing) device actor for port
// and reports its identity snapshot.
func (h *PoolHandler) GetDevice(c *gin.Context) {
	port, err := parsePort(c.Param("port"))
	if err != nil {
		RespondBadRequest(c, err.Error())
		return
	}

	device, err := h.devicePool.GetOrCreateDevice(c.Request.Context(), port)
	if err != nil {
		RespondPoolError(c, nil, err)
		return
	}

	info, err := device.GetInfo(c.Request.Context())
	if err != nil {
		RespondInternalError(c, err.Error())
		return
	}

	RespondOK(c, info)
}

// ShutdownDevice evicts a single device by port.
func (h *PoolHandler) ShutdownDevice(c *gin.Context) {
	port, err := parsePort(c.Param("port"))
	if err != nil {
		RespondBadRequest(c, err.Error())
		return
	}
	h.devicePool.ShutdownDevice(port)
	c.JSON(http.StatusNoContent, nil)
}

// startPopulationRequest is one (device_type, count) entry in a bulk
// population request, plus the port range to carve it out of.
type startPopulationRequest struct {
	Specs []struct {
		DeviceType domain.DeviceType `json:"device_type" binding:"required"`
		Count      int               `json:"count" binding:"required,min=1"`
	} `json:"specs" binding:"required,min=1,dive"`
	PortRangeStart int `json:"port_range_start"`
	PortRangeEnd   int `json:"port_range_end"`
}

// StartPopulation bulk-materializes a device population per the supplied
// (device_type, count) specs.
func (h *PoolHandler) StartPopulation(c *gin.Context) {
	var req startPopulationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondBadRequest(c, err.Error())
		return
	}

	specs := make([]startup.Spec, 0, len(req.Specs))
	for _, s := range req.Specs {
		specs = append(specs, startup.Spec{DeviceType: s.DeviceType, Count: s.Count})
	}

	opts := startup.Options{}
	if req.PortRangeStart > 0 && req.PortRangeEnd > req.PortRangeStart {
		opts.PortRange = domain.PortRange{Start: domain.Port(req.PortRangeStart), End: domain.Port(req.PortRangeEnd)}
	}

	result, err := h.startup.StartDevicePopulation(c.Request.Context(), specs, opts)
	RespondPoolError(c, result, err)
}

// StartMix bulk-materializes a named builtin device mix (e.g.
// "cable_network").
func (h *PoolHandler) StartMix(c *gin.Context) {
	name := c.Param("name")
	result, err := h.startup.StartDeviceMix(c.Request.Context(), name, startup.Options{})
	RespondPoolError(c, result, err)
}

// StopPopulation shuts down every active device.
func (h *PoolHandler) StopPopulation(c *gin.Context) {
	h.startup.ShutdownDevicePopulation()
	c.JSON(http.StatusNoContent, nil)
}

// Status reports the current population's startup bookkeeping.
func (h *PoolHandler) Status(c *gin.Context) {
	status := h.startup.GetStartupStatus()
	RespondOK(c, gin.H{
		"active_devices": status.ActiveDevices,
		"started_at":      time.Unix(0, status.StartedAt).UTC(),
		"last_error":      errString(status.LastError),
	})
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

func parsePort(raw string) (domain.Port, error) {
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.New("invalid port")
	}
	return domain.Port(n), nil
}
