package movements

import (
	"errors"
	"net/http"

	"sklad/internal/auditlog"
	"sklad/internal/inventory/parts"
	"sklad/internal/inventory/variants"
	"sklad/internal/repository"
	custom_error "sklad/pkg/errors"
	"sklad/pkg/roles"
	"sklad/pkg/security"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type MovementsHandler struct {
	Service *Service
}

func NewHandler(s *Service) *MovementsHandler {
	return &MovementsHandler{Service: s}
}

func RegisterRoutes(router *gin.Engine, r *repository.Repository, log *zap.Logger) {
	service := NewService(
		r,
		parts.NewRepository(r),
		auditlog.NewRepository(r),
		variants.NewRepository(r),
		log,
	)
	handler := NewHandler(service)

	authorized := router.Group("/api", security.JWTMiddleware())
	authorized.POST("/movements", security.Authorize(roles.User), handler.ApplyMovement)
}

func (h *MovementsHandler) ApplyMovement(c *gin.Context) {
	session, err := security.SessionFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "No authenticated operator", "details": err.Error()})
		return
	}

	var req ApplyRequest
	if err := c.BindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
		return
	}

	result, err := h.Service.Apply(session, req)
	if err != nil {
		respondMovementError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func respondMovementError(c *gin.Context, err error) {
	var validation *custom_error.ValidationError
	if errors.As(err, &validation) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Validation failed", "field": validation.Field, "details": validation.Message})
		return
	}

	var insufficient *custom_error.InsufficientStockError
	if errors.As(err, &insufficient) {
		c.JSON(http.StatusConflict, gin.H{
			"error":     "Insufficient stock",
			"requested": insufficient.Requested,
			"available": insufficient.Available,
		})
		return
	}

	if errors.Is(err, custom_error.ErrConcurrentModification) {
		c.JSON(http.StatusConflict, gin.H{"error": "Part was modified concurrently, retry the movement"})
		return
	}

	c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to apply movement", "details": err.Error()})
}
