package suppliers

import (
	"errors"
	"net/http"
	"strconv"

	"sklad/internal/repository"
	custom_error "sklad/pkg/errors"
	"sklad/pkg/roles"
	"sklad/pkg/security"

	"github.com/gin-gonic/gin"
)

type CreateSupplierRequest struct {
	Name    string `json:"name" binding:"required"`
	Contact string `json:"contact"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
}

type PatchSupplierRequest struct {
	Name    *string `json:"name"`
	Contact *string `json:"contact"`
	Email   *string `json:"email"`
	Phone   *string `json:"phone"`
}

type SuppliersHandler struct {
	Repository *SupplierRepository
}

func NewHandler(r *SupplierRepository) *SuppliersHandler {
	return &SuppliersHandler{Repository: r}
}

func RegisterRoutes(router *gin.Engine, r *repository.Repository) {
	handler := NewHandler(NewRepository(r))

	authorized := router.Group("/api", security.JWTMiddleware())
	authorized.GET("/suppliers", security.Authorize(roles.User), handler.GetSuppliers)
	authorized.GET("/suppliers/:id", security.Authorize(roles.User), handler.GetSupplier)
	authorized.POST("/suppliers", security.Authorize(roles.Moderator), handler.CreateSupplier)
	authorized.PATCH("/suppliers/:id", security.Authorize(roles.Moderator), handler.UpdateSupplier)
}

func (h *SuppliersHandler) GetSuppliers(c *gin.Context) {
	supplierList, err := h.Repository.GetSuppliers()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not obtain list of suppliers", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, supplierList)
}

func (h *SuppliersHandler) GetSupplier(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid supplier ID", "details": err.Error()})
		return
	}

	supplier, err := h.Repository.GetSupplier(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Unable to find supplier", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, supplier)
}

func (h *SuppliersHandler) CreateSupplier(c *gin.Context) {
	var req CreateSupplierRequest
	if err := c.BindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
		return
	}

	supplier, err := h.Repository.PersistSupplier(req)
	if err != nil {
		var duplicate *custom_error.DuplicateIdentifierError
		if errors.As(err, &duplicate) {
			c.JSON(http.StatusConflict, gin.H{"error": "Supplier already exists", "details": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create supplier", "details": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, supplier)
}

func (h *SuppliersHandler) UpdateSupplier(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid supplier ID", "details": err.Error()})
		return
	}

	var req PatchSupplierRequest
	if err := c.BindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
		return
	}

	supplier, err := h.Repository.UpdateSupplier(id, req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update supplier", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, supplier)
}
