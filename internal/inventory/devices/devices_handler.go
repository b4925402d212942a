package devices

import (
	"errors"
	"net/http"

	"sklad/internal/repository"
	custom_error "sklad/pkg/errors"
	"sklad/pkg/roles"
	"sklad/pkg/security"

	"github.com/gin-gonic/gin"
)

type CreateDeviceRequest struct {
	Abbreviation string `json:"abbreviation" binding:"required"`
	Name         string `json:"name" binding:"required"`
	Location     string `json:"location" binding:"required"`
	Type         string `json:"type" binding:"required"`
}

type DevicesHandler struct {
	Repository *DeviceRepository
}

func NewHandler(r *DeviceRepository) *DevicesHandler {
	return &DevicesHandler{Repository: r}
}

func RegisterRoutes(router *gin.Engine, r *repository.Repository) {
	handler := NewHandler(NewRepository(r))

	authorized := router.Group("/api", security.JWTMiddleware())
	authorized.GET("/devices", security.Authorize(roles.User), handler.GetDevices)
	authorized.POST("/devices", security.Authorize(roles.Admin), handler.CreateDevice)
}

func (h *DevicesHandler) GetDevices(c *gin.Context) {
	deviceList, err := h.Repository.GetDevices()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not obtain list of devices", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, deviceList)
}

func (h *DevicesHandler) CreateDevice(c *gin.Context) {
	var req CreateDeviceRequest
	if err := c.BindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
		return
	}

	device, err := h.Repository.PersistDevice(req)
	if err != nil {
		var validation *custom_error.ValidationError
		if errors.As(err, &validation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Validation failed", "field": validation.Field, "details": validation.Message})
			return
		}
		var duplicate *custom_error.DuplicateIdentifierError
		if errors.As(err, &duplicate) {
			c.JSON(http.StatusConflict, gin.H{"error": "Device abbreviation already exists", "details": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create device", "details": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, device)
}
