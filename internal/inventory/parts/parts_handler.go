package parts

import (
	"errors"
	"net/http"
	"strconv"

	"sklad/internal/repository"
	custom_error "sklad/pkg/errors"
	"sklad/pkg/models"
	"sklad/pkg/roles"
	"sklad/pkg/security"

	"github.com/gin-gonic/gin"
)

// DeviceSource supplies the registered device abbreviations whose usage flag
// columns hang off every part card.
type DeviceSource interface {
	GetAbbreviations() ([]string, error)
}

type PartsHandler struct {
	Repository *PartRepository
	Devices    DeviceSource
}

func NewHandler(r *PartRepository, devices DeviceSource) *PartsHandler {
	return &PartsHandler{Repository: r, Devices: devices}
}

func RegisterRoutes(router *gin.Engine, r *repository.Repository, devices DeviceSource) {
	handler := NewHandler(NewRepository(r), devices)

	authorized := router.Group("/api", security.JWTMiddleware())
	authorized.GET("/parts", security.Authorize(roles.User), handler.GetParts)
	authorized.GET("/parts/:id", security.Authorize(roles.User), handler.GetPart)
	authorized.POST("/parts", security.Authorize(roles.Moderator), handler.CreatePart)
	authorized.PATCH("/parts/:id", security.Authorize(roles.Moderator), handler.UpdatePart)
	authorized.PUT("/parts/:id/devices", security.Authorize(roles.Moderator), handler.SetDeviceFlag)
	authorized.DELETE("/parts/:id", security.Authorize(roles.Admin), handler.DeletePart)
}

func (h *PartsHandler) GetParts(c *gin.Context) {
	conditions := repository.NewQueryBuilder()
	if location := c.Query("location"); location != "" {
		conditions.AddCondition("location", location)
	}
	if accounting := c.Query("accounting"); accounting != "" {
		conditions.AddCondition("accounting", accounting == "true")
	}
	if critical := c.Query("critical"); critical != "" {
		conditions.AddCondition("critical", critical == "true")
	}

	parts, err := h.Repository.GetPartsBy(conditions)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not obtain list of parts", "details": err.Error()})
		return
	}

	views := make([]models.PartView, 0, len(parts))
	for _, part := range parts {
		view := models.NewPartView(part)
		if c.Query("below_minimum") == "true" && !view.BelowMinimum {
			continue
		}
		views = append(views, view)
	}

	c.JSON(http.StatusOK, views)
}

func (h *PartsHandler) GetPart(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid part ID", "details": err.Error()})
		return
	}

	part, err := h.Repository.GetPart(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Unable to find part", "details": err.Error()})
		return
	}

	abbreviations, err := h.Devices.GetAbbreviations()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read devices", "details": err.Error()})
		return
	}

	flags, err := h.Repository.GetDeviceFlags(id, abbreviations)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read device flags", "details": err.Error()})
		return
	}
	part.DeviceFlags = flags

	c.JSON(http.StatusOK, models.NewPartView(*part))
}

func (h *PartsHandler) CreatePart(c *gin.Context) {
	var req CreatePartRequest
	if err := c.BindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
		return
	}

	if req.MinQuantity < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Validation failed", "field": "min_quantity", "details": "must be a non-negative integer"})
		return
	}

	part, err := h.Repository.PersistPart(req)
	if err != nil {
		var dup *custom_error.DuplicateIdentifierError
		if errors.As(err, &dup) {
			c.JSON(http.StatusConflict, gin.H{"error": "Duplicate part identifier", "details": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create part", "details": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, models.NewPartView(*part))
}

func (h *PartsHandler) UpdatePart(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid part ID", "details": err.Error()})
		return
	}

	var req PatchPartRequest
	if err := c.BindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
		return
	}

	if req.MinQuantity != nil && *req.MinQuantity < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Validation failed", "field": "min_quantity", "details": "must be a non-negative integer"})
		return
	}

	part, err := h.Repository.UpdatePartDetails(id, req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update part", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, models.NewPartView(*part))
}

func (h *PartsHandler) SetDeviceFlag(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid part ID", "details": err.Error()})
		return
	}

	var req SetDeviceFlagRequest
	if err := c.BindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
		return
	}

	abbreviations, err := h.Devices.GetAbbreviations()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read devices", "details": err.Error()})
		return
	}
	known := false
	for _, abbr := range abbreviations {
		if abbr == req.Device {
			known = true
			break
		}
	}
	if !known {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown device", "field": "device"})
		return
	}

	if err := h.Repository.SetDeviceFlag(id, req.Device, *req.Used); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to set device flag", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Device flag updated"})
}

func (h *PartsHandler) DeletePart(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid part ID", "details": err.Error()})
		return
	}

	if err := h.Repository.DeletePart(id); err != nil {
		var validation *custom_error.ValidationError
		if errors.As(err, &validation) {
			c.JSON(http.StatusConflict, gin.H{"error": "Part cannot be deleted", "field": validation.Field, "details": validation.Message})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete part", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Part deleted"})
}
