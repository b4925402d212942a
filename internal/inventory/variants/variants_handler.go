package variants

import (
	"errors"
	"net/http"
	"strconv"

	"sklad/internal/repository"
	custom_error "sklad/pkg/errors"
	"sklad/pkg/roles"
	"sklad/pkg/security"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type CreateVariantRequest struct {
	PartID       int             `json:"part_id" binding:"required"`
	SupplierID   int             `json:"supplier_id" binding:"required"`
	Name         string          `json:"name" binding:"required"`
	Number       string          `json:"number"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	LeadTimeDays int             `json:"lead_time_days"`
	MinOrderQty  int             `json:"min_order_qty"`
}

type UpdateVariantPriceRequest struct {
	VariantID int             `json:"-"`
	UnitPrice decimal.Decimal `json:"unit_price" binding:"required"`
}

type VariantsHandler struct {
	Repository *VariantRepository
}

func NewHandler(r *VariantRepository) *VariantsHandler {
	return &VariantsHandler{Repository: r}
}

func RegisterRoutes(router *gin.Engine, r *repository.Repository) {
	handler := NewHandler(NewRepository(r))

	authorized := router.Group("/api", security.JWTMiddleware())
	authorized.GET("/variants", security.Authorize(roles.User), handler.GetVariants)
	authorized.GET("/parts/:id/variants", security.Authorize(roles.User), handler.GetPartVariants)
	authorized.POST("/variants", security.Authorize(roles.Moderator), handler.CreateVariant)
	authorized.PATCH("/variants/:id/price", security.Authorize(roles.Moderator), handler.UpdatePrice)
}

func (h *VariantsHandler) GetVariants(c *gin.Context) {
	views, err := h.Repository.GetVariantViews()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not obtain list of variants", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, views)
}

func (h *VariantsHandler) GetPartVariants(c *gin.Context) {
	partID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid part ID", "details": err.Error()})
		return
	}

	views, err := h.Repository.GetPartVariantViews(partID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not obtain variants", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, views)
}

func (h *VariantsHandler) CreateVariant(c *gin.Context) {
	var req CreateVariantRequest
	if err := c.BindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
		return
	}

	if !req.UnitPrice.IsPositive() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Validation failed", "field": "unit_price", "details": "must be a positive decimal number"})
		return
	}

	variant, err := h.Repository.PersistVariant(req)
	if err != nil {
		var duplicate *custom_error.DuplicateVariantError
		if errors.As(err, &duplicate) {
			c.JSON(http.StatusConflict, gin.H{"error": "Variant already exists", "details": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create variant", "details": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, variant)
}

func (h *VariantsHandler) UpdatePrice(c *gin.Context) {
	variantID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid variant ID", "details": err.Error()})
		return
	}

	var req UpdateVariantPriceRequest
	if err := c.BindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
		return
	}
	req.VariantID = variantID

	if !req.UnitPrice.IsPositive() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Validation failed", "field": "unit_price", "details": "must be a positive decimal number"})
		return
	}

	variant, err := h.Repository.UpdateQuotedPrice(req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update variant price", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, variant)
}
