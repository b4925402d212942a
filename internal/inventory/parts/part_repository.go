package parts

import (
	"fmt"

	"sklad/internal/repository"
	custom_error "sklad/pkg/errors"
	"sklad/pkg/models"

	"github.com/doug-martin/goqu/v9"
	"github.com/doug-martin/goqu/v9/exp"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

// partColumns is the fixed column set of the parts table. Device flag
// columns are dynamic and read separately.
var partColumns = []interface{}{
	"id", "card_no", "name", "unit", "quantity", "min_quantity",
	"unit_cost", "total_cost", "location", "note", "accounting_flag", "critical_flag",
}

type PartRepository struct {
	repository *repository.Repository
}

func NewRepository(r *repository.Repository) *PartRepository {
	return &PartRepository{repository: r}
}

func (r *PartRepository) GetParts() ([]models.Part, error) {
	var parts []models.Part

	query := r.repository.GoquDBWrapper.
		Select(partColumns...).
		From("parts").
		Order(goqu.I("id").Asc())

	if err := query.Executor().ScanStructs(&parts); err != nil {
		return nil, fmt.Errorf("unable to select parts: %w", err)
	}

	return parts, nil
}

func (r *PartRepository) GetPartsBy(conditions repository.QueryBuilder) ([]models.Part, error) {
	aliases := map[string]string{
		"location":   "location",
		"accounting": "accounting_flag",
		"critical":   "critical_flag",
	}

	var parts []models.Part

	query := r.repository.GoquDBWrapper.
		Select(partColumns...).
		From("parts").
		Where(conditions.BuildConditions(aliases)).
		Order(goqu.I("id").Asc())

	if err := query.Executor().ScanStructs(&parts); err != nil {
		return nil, fmt.Errorf("unable to select parts: %w", err)
	}

	return parts, nil
}

func (r *PartRepository) GetPart(id int) (*models.Part, error) {
	var part models.Part

	query := r.repository.GoquDBWrapper.
		Select(partColumns...).
		From("parts").
		Where(goqu.Ex{"id": id})

	found, err := query.Executor().ScanStruct(&part)
	if err != nil {
		return nil, fmt.Errorf("unable to select part %d: %w", id, err)
	}
	if !found {
		return nil, fmt.Errorf("part %d not found", id)
	}

	return &part, nil
}

// GetPartForUpdate reads the part inside tx with a row lock, so that the
// validation, the recomputation and the conditional write all see the same
// snapshot and concurrent movements on the same part serialize.
func (r *PartRepository) GetPartForUpdate(tx *goqu.TxDatabase, id int) (*models.Part, error) {
	var part models.Part

	query := tx.
		Select(partColumns...).
		From("parts").
		Where(goqu.Ex{"id": id}).
		ForUpdate(exp.Wait)

	found, err := query.Executor().ScanStruct(&part)
	if err != nil {
		return nil, fmt.Errorf("unable to lock part %d: %w", id, err)
	}
	if !found {
		return nil, fmt.Errorf("part %d not found", id)
	}

	return &part, nil
}

// UpdateLedgerState writes the recomputed quantity/cost fields. The write is
// conditioned on the snapshot the computation was based on; zero rows
// affected means another movement got in between.
func (r *PartRepository) UpdateLedgerState(tx *goqu.TxDatabase, prev, next models.Part) error {
	query := tx.
		Update("parts").
		Set(goqu.Record{
			"quantity":   next.Quantity,
			"unit_cost":  next.UnitCost,
			"total_cost": next.TotalCost,
			"location":   next.Location,
			"note":       next.Note,
		}).
		Where(goqu.Ex{
			"id":        prev.ID,
			"quantity":  prev.Quantity,
			"unit_cost": prev.UnitCost,
		})

	result, err := query.Executor().Exec()
	if err != nil {
		return fmt.Errorf("failed to update part %d: %w", prev.ID, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected for part %d: %w", prev.ID, err)
	}
	if rowsAffected == 0 {
		return custom_error.ErrConcurrentModification
	}

	return nil
}

// PersistPart inserts a new part card. The sequential id and the card number
// are both MAX()+1, taken and used inside one transaction.
func (r *PartRepository) PersistPart(req CreatePartRequest) (*models.Part, error) {
	var part models.Part

	err := repository.WithTransaction(r.repository.GoquDBWrapper, func(tx *goqu.TxDatabase) error {
		nextID, err := nextValue(tx, "parts", "id")
		if err != nil {
			return err
		}
		nextCardNo, err := nextValue(tx, "parts", "card_no")
		if err != nil {
			return err
		}

		part = models.Part{
			ID:          nextID,
			CardNo:      nextCardNo,
			Name:        req.Name,
			Unit:        req.Unit,
			MinQuantity: req.MinQuantity,
			UnitCost:    decimal.Zero,
			TotalCost:   decimal.Zero,
			Location:    req.Location,
			Note:        req.Note,
			Accounting:  req.Accounting,
			Critical:    req.Critical,
		}

		query := tx.Insert("parts").Rows(goqu.Record{
			"id":              part.ID,
			"card_no":         part.CardNo,
			"name":            part.Name,
			"unit":            part.Unit,
			"quantity":        0,
			"min_quantity":    part.MinQuantity,
			"unit_cost":       part.UnitCost,
			"total_cost":      part.TotalCost,
			"location":        part.Location,
			"note":            part.Note,
			"accounting_flag": part.Accounting,
			"critical_flag":   part.Critical,
		})

		if _, err := query.Executor().Exec(); err != nil {
			if pqErr, ok := err.(*pq.Error); ok {
				return custom_error.WrapDBError("part identifier already taken", string(pqErr.Code))
			}
			return fmt.Errorf("failed to insert part record: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return &part, nil
}

// UpdatePartDetails edits the descriptive fields only. Quantity, unit cost
// and total cost are owned by the movement processor and never appear here.
func (r *PartRepository) UpdatePartDetails(id int, req PatchPartRequest) (*models.Part, error) {
	updates, err := buildUpdateFields(req)
	if err != nil {
		return nil, err
	}

	query := r.repository.GoquDBWrapper.
		Update("parts").
		Set(updates).
		Where(goqu.Ex{"id": id})

	result, err := query.Executor().Exec()
	if err != nil {
		return nil, fmt.Errorf("failed to update part: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return nil, fmt.Errorf("no rows updated")
	}

	return r.GetPart(id)
}

// DeletePart removes a part card. Only the most recently created card may go,
// and only while its quantity is exactly zero; the rule is enforced here
// against the same transaction that deletes, not left to the client.
func (r *PartRepository) DeletePart(id int) error {
	return repository.WithTransaction(r.repository.GoquDBWrapper, func(tx *goqu.TxDatabase) error {
		var maxID int
		query := tx.Select(goqu.MAX("id")).From("parts")
		if _, err := query.Executor().ScanVal(&maxID); err != nil {
			return fmt.Errorf("failed to read max part id: %w", err)
		}

		if id != maxID {
			return custom_error.NewValidationError("id", "only the most recently created part can be deleted")
		}

		deleteQuery := tx.Delete("parts").
			Where(goqu.Ex{"id": id}).
			Where(goqu.C("quantity").Eq(0))

		result, err := deleteQuery.Executor().Exec()
		if err != nil {
			return fmt.Errorf("failed to delete part %d: %w", id, err)
		}

		rowsAffected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to check rows affected: %w", err)
		}
		if rowsAffected == 0 {
			return custom_error.NewValidationError("quantity", "part must have zero quantity to be deleted")
		}

		return nil
	})
}

// GetDeviceFlags reads the per-device usage columns for one part. The column
// identifiers come from validated device abbreviations, never from request
// input.
func (r *PartRepository) GetDeviceFlags(partID int, abbreviations []string) (map[string]bool, error) {
	flags := make(map[string]bool, len(abbreviations))
	if len(abbreviations) == 0 {
		return flags, nil
	}

	cols := make([]interface{}, len(abbreviations))
	for i, abbr := range abbreviations {
		cols[i] = goqu.C(DeviceFlagColumn(abbr))
	}

	sqlStr, args, err := r.repository.GoquDBWrapper.
		Select(cols...).
		From("parts").
		Where(goqu.Ex{"id": partID}).
		Prepared(true).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("failed to build device flag query: %w", err)
	}

	row := r.repository.DB.QueryRow(sqlStr, args...)
	values := make([]int, len(abbreviations))
	scanTargets := make([]interface{}, len(abbreviations))
	for i := range values {
		scanTargets[i] = &values[i]
	}
	if err := row.Scan(scanTargets...); err != nil {
		return nil, fmt.Errorf("failed to read device flags for part %d: %w", partID, err)
	}

	for i, abbr := range abbreviations {
		flags[abbr] = values[i] != 0
	}

	return flags, nil
}

// SetDeviceFlag flips one usage flag on a part card.
func (r *PartRepository) SetDeviceFlag(partID int, abbreviation string, used bool) error {
	value := 0
	if used {
		value = 1
	}

	query := r.repository.GoquDBWrapper.
		Update("parts").
		Set(goqu.Record{DeviceFlagColumn(abbreviation): value}).
		Where(goqu.Ex{"id": partID})

	result, err := query.Executor().Exec()
	if err != nil {
		return fmt.Errorf("failed to set device flag: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("part %d not found", partID)
	}

	return nil
}

// DeviceFlagColumn derives the parts column name for a device abbreviation.
// Abbreviations are normalized to [A-Z0-9_]{1,8} before they ever get here.
func DeviceFlagColumn(abbreviation string) string {
	return "dev_" + abbreviation
}

func nextValue(tx *goqu.TxDatabase, table, column string) (int, error) {
	var current int
	query := tx.Select(goqu.COALESCE(goqu.MAX(column), 0)).From(table)
	if _, err := query.Executor().ScanVal(&current); err != nil {
		return 0, fmt.Errorf("failed to read max %s.%s: %w", table, column, err)
	}
	return current + 1, nil
}

func buildUpdateFields(req PatchPartRequest) (goqu.Record, error) {
	updates := goqu.Record{}

	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Unit != nil {
		updates["unit"] = *req.Unit
	}
	if req.MinQuantity != nil {
		updates["min_quantity"] = *req.MinQuantity
	}
	if req.Location != nil {
		updates["location"] = *req.Location
	}
	if req.Note != nil {
		updates["note"] = *req.Note
	}
	if req.Accounting != nil {
		updates["accounting_flag"] = *req.Accounting
	}
	if req.Critical != nil {
		updates["critical_flag"] = *req.Critical
	}

	if len(updates) == 0 {
		return nil, fmt.Errorf("no fields to update")
	}

	return updates, nil
}
