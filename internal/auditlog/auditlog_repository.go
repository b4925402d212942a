package auditlog

import (
	"fmt"
	"time"

	"sklad/internal/repository"
	"sklad/pkg/models"

	"github.com/doug-martin/goqu/v9"
)

var movementColumns = []interface{}{
	"id", "created_at", "operator", "kind", "quantity_delta", "unit_price",
	"line_total", "purchase_date", "issue_date", "order_no", "device_used",
	"note", "part_id", "part_name",
}

// MovementRepository owns the movements table. The write side is a single
// Append on an open transaction; no update or delete exists anywhere.
type MovementRepository struct {
	repository *repository.Repository
}

func NewRepository(r *repository.Repository) *MovementRepository {
	return &MovementRepository{repository: r}
}

// Append inserts the audit record on the caller's transaction, so the record
// commits or rolls back together with its part update.
func (r *MovementRepository) Append(tx *goqu.TxDatabase, movement models.Movement) (*models.Movement, error) {
	query := tx.Insert("movements").
		Rows(goqu.Record{
			"created_at":     movement.CreatedAt,
			"operator":       movement.Operator,
			"kind":           movement.Kind,
			"quantity_delta": movement.QuantityDelta,
			"unit_price":     movement.UnitPrice,
			"line_total":     movement.LineTotal,
			"purchase_date":  movement.PurchaseDate,
			"issue_date":     movement.IssueDate,
			"order_no":       movement.OrderNo,
			"device_used":    movement.DeviceUsed,
			"note":           movement.Note,
			"part_id":        movement.PartID,
			"part_name":      movement.PartName,
		}).
		Returning("id")

	if _, err := query.Executor().ScanVal(&movement.ID); err != nil {
		return nil, fmt.Errorf("failed to insert movement record: %w", err)
	}

	return &movement, nil
}

// ListFilter narrows the read side: by operation kind and/or by month.
type ListFilter struct {
	Kind  models.MovementKind
	Month time.Time // zero value means no month filter
}

func (r *MovementRepository) GetMovements(filter ListFilter) ([]models.Movement, error) {
	query := r.repository.GoquDBWrapper.
		Select(movementColumns...).
		From("movements").
		Order(goqu.I("id").Desc())

	if filter.Kind != "" {
		query = query.Where(goqu.Ex{"kind": filter.Kind})
	}
	if !filter.Month.IsZero() {
		start := time.Date(filter.Month.Year(), filter.Month.Month(), 1, 0, 0, 0, 0, time.UTC)
		query = query.Where(
			goqu.C("created_at").Gte(start),
			goqu.C("created_at").Lt(start.AddDate(0, 1, 0)),
		)
	}

	var movementList []models.Movement
	if err := query.Executor().ScanStructs(&movementList); err != nil {
		return nil, fmt.Errorf("unable to select movements: %w", err)
	}

	return movementList, nil
}

func (r *MovementRepository) GetPartMovements(partID int) ([]models.Movement, error) {
	var movementList []models.Movement

	query := r.repository.GoquDBWrapper.
		Select(movementColumns...).
		From("movements").
		Where(goqu.Ex{"part_id": partID}).
		Order(goqu.I("id").Desc())

	if err := query.Executor().ScanStructs(&movementList); err != nil {
		return nil, fmt.Errorf("unable to select movements for part %d: %w", partID, err)
	}

	return movementList, nil
}
