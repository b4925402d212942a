package variants

import (
	"fmt"

	"sklad/internal/repository"
	custom_error "sklad/pkg/errors"
	"sklad/pkg/models"

	"github.com/doug-martin/goqu/v9"
	"github.com/lib/pq"
)

type VariantRepository struct {
	repository *repository.Repository
}

func NewRepository(r *repository.Repository) *VariantRepository {
	return &VariantRepository{repository: r}
}

// Exists answers whether a variant is already registered for the pair.
func (r *VariantRepository) Exists(partID, supplierID int) (bool, error) {
	var count int

	query := r.repository.GoquDBWrapper.
		Select(goqu.COUNT("id")).
		From("variants").
		Where(goqu.Ex{"part_id": partID, "supplier_id": supplierID})

	if _, err := query.Executor().ScanVal(&count); err != nil {
		return false, fmt.Errorf("failed to check variant existence: %w", err)
	}

	return count > 0, nil
}

// PersistVariant registers a supplier's terms for a part. The existence check
// runs first so a duplicate fails without touching storage; the unique index
// on (part_id, supplier_id) backs the check against a racing insert.
func (r *VariantRepository) PersistVariant(req CreateVariantRequest) (*models.Variant, error) {
	exists, err := r.Exists(req.PartID, req.SupplierID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, &custom_error.DuplicateVariantError{PartID: req.PartID, SupplierID: req.SupplierID}
	}

	variant := models.Variant{
		PartID:       req.PartID,
		SupplierID:   req.SupplierID,
		Name:         req.Name,
		Number:       req.Number,
		UnitPrice:    req.UnitPrice,
		LeadTimeDays: req.LeadTimeDays,
		MinOrderQty:  req.MinOrderQty,
	}

	query := r.repository.GoquDBWrapper.Insert("variants").
		Rows(goqu.Record{
			"part_id":        variant.PartID,
			"supplier_id":    variant.SupplierID,
			"name":           variant.Name,
			"number":         variant.Number,
			"unit_price":     variant.UnitPrice,
			"lead_time_days": variant.LeadTimeDays,
			"min_order_qty":  variant.MinOrderQty,
		}).
		Returning("id")

	if _, err := query.Executor().ScanVal(&variant.ID); err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			if string(pqErr.Code) == "23505" {
				return nil, &custom_error.DuplicateVariantError{PartID: req.PartID, SupplierID: req.SupplierID}
			}
			return nil, custom_error.WrapDBError("variant insert rejected", string(pqErr.Code))
		}
		return nil, fmt.Errorf("failed to insert variant record: %w", err)
	}

	return &variant, nil
}

// UpdateQuotedPrice refreshes the supplier's current quote. The registry
// keeps only this one price, not a history.
func (r *VariantRepository) UpdateQuotedPrice(req UpdateVariantPriceRequest) (*models.Variant, error) {
	query := r.repository.GoquDBWrapper.
		Update("variants").
		Set(goqu.Record{"unit_price": req.UnitPrice}).
		Where(goqu.Ex{"id": req.VariantID})

	result, err := query.Executor().Exec()
	if err != nil {
		return nil, fmt.Errorf("failed to update variant price: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return nil, fmt.Errorf("variant %d not found", req.VariantID)
	}

	return r.GetVariant(req.VariantID)
}

func (r *VariantRepository) GetVariant(id int) (*models.Variant, error) {
	var variant models.Variant

	query := r.repository.GoquDBWrapper.
		Select("id", "part_id", "supplier_id", "name", "number", "unit_price", "lead_time_days", "min_order_qty").
		From("variants").
		Where(goqu.Ex{"id": id})

	found, err := query.Executor().ScanStruct(&variant)
	if err != nil {
		return nil, fmt.Errorf("unable to select variant %d: %w", id, err)
	}
	if !found {
		return nil, fmt.Errorf("variant %d not found", id)
	}

	return &variant, nil
}

// GetVariantViews lists variants joined with part and supplier names plus the
// part's derived low-stock flag, the shape the display table wants.
func (r *VariantRepository) GetVariantViews() ([]models.VariantView, error) {
	var flatVariants []models.FlatVariantRecord

	query := r.getVariantViewQuery()

	if err := query.Executor().ScanStructs(&flatVariants); err != nil {
		return nil, fmt.Errorf("unable to select variants: %w", err)
	}

	views := make([]models.VariantView, 0, len(flatVariants))
	for _, flat := range flatVariants {
		views = append(views, flat.TransformToVariantView())
	}

	return views, nil
}

func (r *VariantRepository) GetPartVariantViews(partID int) ([]models.VariantView, error) {
	var flatVariants []models.FlatVariantRecord

	query := r.getVariantViewQuery().Where(goqu.Ex{"v.part_id": partID})

	if err := query.Executor().ScanStructs(&flatVariants); err != nil {
		return nil, fmt.Errorf("unable to select variants for part %d: %w", partID, err)
	}

	views := make([]models.VariantView, 0, len(flatVariants))
	for _, flat := range flatVariants {
		views = append(views, flat.TransformToVariantView())
	}

	return views, nil
}

func (r *VariantRepository) getVariantViewQuery() *goqu.SelectDataset {
	return r.repository.GoquDBWrapper.
		Select(
			goqu.I("v.id").As("id"),
			goqu.I("v.part_id").As("part_id"),
			goqu.I("v.supplier_id").As("supplier_id"),
			goqu.I("v.name").As("name"),
			goqu.I("v.number").As("number"),
			goqu.I("v.unit_price").As("unit_price"),
			goqu.I("v.lead_time_days").As("lead_time_days"),
			goqu.I("v.min_order_qty").As("min_order_qty"),
			goqu.I("p.name").As("part_name"),
			goqu.I("p.quantity").As("part_quantity"),
			goqu.I("p.min_quantity").As("part_min_quantity"),
			goqu.I("s.name").As("supplier_name"),
		).
		From(goqu.T("variants").As("v")).
		LeftJoin(
			goqu.T("parts").As("p"),
			goqu.On(goqu.Ex{"v.part_id": goqu.I("p.id")}),
		).
		LeftJoin(
			goqu.T("suppliers").As("s"),
			goqu.On(goqu.Ex{"v.supplier_id": goqu.I("s.id")}),
		).
		Order(goqu.I("v.id").Asc())
}
