package handler

import (
	"net/http"
	"sort"

	"fleettrack/internal/registry"
	"fleettrack/internal/report"
	"fleettrack/internal/status"
	"fleettrack/pkg/utils"

	"github.com/gin-gonic/gin"
)

// DeviceEntry is one row of the device list: the preferred display fields
// joined with the derived status and whatever indicators the latest position
// carries.
type DeviceEntry struct {
	ID         int64                `json:"id"`
	Primary    string               `json:"primary"`
	Secondary  string               `json:"secondary,omitempty"`
	Category   string               `json:"category,omitempty"`
	Disabled   bool                 `json:"disabled,omitempty"`
	Status     status.DerivedStatus `json:"status"`
	Indicators []status.Indicator   `json:"indicators,omitempty"`
}

type DeviceHandler struct {
	registry    *registry.Store
	classifier  *status.Classifier
	synthesizer *report.Synthesizer
}

func NewDeviceHandler(reg *registry.Store, classifier *status.Classifier, synthesizer *report.Synthesizer) *DeviceHandler {
	return &DeviceHandler{
		registry:    reg,
		classifier:  classifier,
		synthesizer: synthesizer,
	}
}

func (h *DeviceHandler) RegisterRoutes(router *gin.RouterGroup) {
	devices := router.Group("/devices")
	{
		devices.GET("", h.ListDevices)
		devices.GET("/:id/status", h.GetDeviceStatus)
	}
}

// ListDevices renders the device list in name order with per-device derived
// status, recomputed from the registry on every call.
func (h *DeviceHandler) ListDevices(c *gin.Context) {
	devices := h.registry.Devices()
	sort.Slice(devices, func(i, j int) bool { return devices[i].Name < devices[j].Name })

	entries := make([]DeviceEntry, 0, len(devices))
	for _, device := range devices {
		position := h.registry.Position(device.ID)
		entries = append(entries, DeviceEntry{
			ID:         device.ID,
			Primary:    h.synthesizer.DevicePrimary(device.ID),
			Secondary:  h.synthesizer.DeviceSecondary(device.ID),
			Category:   device.Category,
			Disabled:   device.Disabled,
			Status:     h.classifier.Classify(device, position),
			Indicators: h.classifier.Indicators(position),
		})
	}

	utils.SuccessResponse(c, http.StatusOK, "Devices retrieved successfully", entries)
}

// GetDeviceStatus renders the derived status for one device.
func (h *DeviceHandler) GetDeviceStatus(c *gin.Context) {
	var params struct {
		ID int64 `uri:"id" binding:"required"`
	}
	if err := c.ShouldBindUri(&params); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid device ID")
		return
	}

	device := h.registry.Device(params.ID)
	if device == nil {
		utils.ErrorResponse(c, http.StatusNotFound, "Device not found")
		return
	}
	position := h.registry.Position(params.ID)

	utils.SuccessResponse(c, http.StatusOK, "Device status retrieved successfully", DeviceEntry{
		ID:         device.ID,
		Primary:    h.synthesizer.DevicePrimary(device.ID),
		Secondary:  h.synthesizer.DeviceSecondary(device.ID),
		Category:   device.Category,
		Disabled:   device.Disabled,
		Status:     h.classifier.Classify(device, position),
		Indicators: h.classifier.Indicators(position),
	})
}
