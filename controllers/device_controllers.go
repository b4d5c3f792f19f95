package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/floor-service/services"
	"github.com/yeremiapane/floor-service/utils"
	"gorm.io/gorm"
)

type DeviceController struct {
	Registry *services.DeviceRegistry
}

func NewDeviceController(db *gorm.DB) *DeviceController {
	return &DeviceController{Registry: services.NewDeviceRegistry(db)}
}

// GetAllDevices -> staff lihat semua, customer hanya miliknya
func (dc *DeviceController) GetAllDevices(c *gin.Context) {
	p, ok := mustPrincipal(c)
	if !ok {
		return
	}
	devices, err := dc.Registry.ListDevices(c.Request.Context(), p)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of devices", devices)
}

// RegisterDevice binds a device to the caller and makes it the active one.
func (dc *DeviceController) RegisterDevice(c *gin.Context) {
	p, ok := mustPrincipal(c)
	if !ok {
		return
	}

	var body struct {
		DeviceID   string `json:"device_id"`
		DeviceType string `json:"device_type"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		bindError(c, err)
		return
	}

	device, created, err := dc.Registry.RegisterDevice(c.Request.Context(), p, body.DeviceID, body.DeviceType)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	if created {
		utils.RespondJSON(c, http.StatusCreated, "Device registered", device)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Device re-activated", device)
}

// DeactivateDevice switches off one of the caller's devices.
func (dc *DeviceController) DeactivateDevice(c *gin.Context) {
	p, ok := mustPrincipal(c)
	if !ok {
		return
	}
	id, ok := uintParam(c, "device_id", "Device")
	if !ok {
		return
	}
	device, err := dc.Registry.DeactivateDevice(c.Request.Context(), p, id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Device deactivated", device)
}
