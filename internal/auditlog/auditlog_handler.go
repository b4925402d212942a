package auditlog

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"sklad/internal/repository"
	"sklad/pkg/models"
	"sklad/pkg/roles"
	"sklad/pkg/security"

	"github.com/gin-gonic/gin"
)

type AuditLogHandler struct {
	Repository *MovementRepository
}

func NewHandler(r *MovementRepository) *AuditLogHandler {
	return &AuditLogHandler{Repository: r}
}

func RegisterRoutes(router *gin.Engine, r *repository.Repository) {
	handler := NewHandler(NewRepository(r))

	authorized := router.Group("/api", security.JWTMiddleware())
	authorized.GET("/movements", security.Authorize(roles.User), handler.GetMovements)
	authorized.GET("/movements/export", security.Authorize(roles.User), handler.ExportMovements)
	authorized.GET("/parts/:id/movements", security.Authorize(roles.User), handler.GetPartMovements)
}

func (h *AuditLogHandler) GetMovements(c *gin.Context) {
	filter, err := parseFilter(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid filter", "details": err.Error()})
		return
	}

	movementList, err := h.Repository.GetMovements(filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not obtain movement history", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, movementList)
}

func (h *AuditLogHandler) GetPartMovements(c *gin.Context) {
	partID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid part ID", "details": err.Error()})
		return
	}

	movementList, err := h.Repository.GetPartMovements(partID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not obtain movement history", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, movementList)
}

// ExportMovements streams the filtered history as CSV, one line per audit
// record.
func (h *AuditLogHandler) ExportMovements(c *gin.Context) {
	filter, err := parseFilter(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid filter", "details": err.Error()})
		return
	}

	movementList, err := h.Repository.GetMovements(filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not obtain movement history", "details": err.Error()})
		return
	}

	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", `attachment; filename="movements.csv"`)

	writer := csv.NewWriter(c.Writer)
	header := []string{
		"id", "created_at", "operator", "kind", "quantity_delta", "unit_price",
		"line_total", "purchase_date", "issue_date", "order_no", "device_used",
		"note", "part_id", "part_name",
	}
	if err := writer.Write(header); err != nil {
		return
	}

	for _, m := range movementList {
		record := []string{
			strconv.Itoa(m.ID),
			m.CreatedAt.Format(time.RFC3339),
			m.Operator,
			string(m.Kind),
			strconv.Itoa(m.QuantityDelta),
			m.UnitPrice.String(),
			m.LineTotal.String(),
			m.PurchaseDate,
			m.IssueDate,
			m.OrderNo,
			m.DeviceUsed,
			m.Note,
			strconv.Itoa(m.PartID),
			m.PartName,
		}
		if err := writer.Write(record); err != nil {
			return
		}
	}
	writer.Flush()
}

func parseFilter(c *gin.Context) (ListFilter, error) {
	var filter ListFilter

	if kind := c.Query("kind"); kind != "" {
		movementKind := models.MovementKind(kind)
		if !movementKind.Valid() {
			return filter, fmt.Errorf("unknown movement kind %q", kind)
		}
		filter.Kind = movementKind
	}

	if month := c.Query("month"); month != "" {
		parsed, err := time.Parse("2006-01", month)
		if err != nil {
			return filter, fmt.Errorf("month must be in YYYY-MM format")
		}
		filter.Month = parsed
	}

	return filter, nil
}
