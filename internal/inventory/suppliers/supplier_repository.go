package suppliers

import (
	"fmt"

	"sklad/internal/repository"
	custom_error "sklad/pkg/errors"
	"sklad/pkg/models"

	"github.com/doug-martin/goqu/v9"
	"github.com/lib/pq"
)

type SupplierRepository struct {
	repository *repository.Repository
}

func NewRepository(r *repository.Repository) *SupplierRepository {
	return &SupplierRepository{repository: r}
}

func (r *SupplierRepository) GetSuppliers() ([]models.Supplier, error) {
	var supplierList []models.Supplier

	query := r.repository.GoquDBWrapper.
		Select("id", "name", "contact", "email", "phone").
		From("suppliers").
		Order(goqu.I("id").Asc())

	if err := query.Executor().ScanStructs(&supplierList); err != nil {
		return nil, fmt.Errorf("unable to select suppliers: %w", err)
	}

	return supplierList, nil
}

func (r *SupplierRepository) GetSupplier(id int) (*models.Supplier, error) {
	var supplier models.Supplier

	query := r.repository.GoquDBWrapper.
		Select("id", "name", "contact", "email", "phone").
		From("suppliers").
		Where(goqu.Ex{"id": id})

	found, err := query.Executor().ScanStruct(&supplier)
	if err != nil {
		return nil, fmt.Errorf("unable to select supplier %d: %w", id, err)
	}
	if !found {
		return nil, fmt.Errorf("supplier %d not found", id)
	}

	return &supplier, nil
}

func (r *SupplierRepository) PersistSupplier(req CreateSupplierRequest) (*models.Supplier, error) {
	supplier := models.Supplier{
		Name:    req.Name,
		Contact: req.Contact,
		Email:   req.Email,
		Phone:   req.Phone,
	}

	query := r.repository.GoquDBWrapper.Insert("suppliers").
		Rows(goqu.Record{
			"name":    supplier.Name,
			"contact": supplier.Contact,
			"email":   supplier.Email,
			"phone":   supplier.Phone,
		}).
		Returning("id")

	if _, err := query.Executor().ScanVal(&supplier.ID); err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			return nil, custom_error.WrapDBError("supplier name already taken", string(pqErr.Code))
		}
		return nil, fmt.Errorf("failed to insert supplier record: %w", err)
	}

	return &supplier, nil
}

// UpdateSupplier edits the contact fields. There is deliberately no delete:
// variants and movements keep referencing suppliers forever.
func (r *SupplierRepository) UpdateSupplier(id int, req PatchSupplierRequest) (*models.Supplier, error) {
	updates := goqu.Record{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Contact != nil {
		updates["contact"] = *req.Contact
	}
	if req.Email != nil {
		updates["email"] = *req.Email
	}
	if req.Phone != nil {
		updates["phone"] = *req.Phone
	}
	if len(updates) == 0 {
		return nil, fmt.Errorf("no fields to update")
	}

	query := r.repository.GoquDBWrapper.
		Update("suppliers").
		Set(updates).
		Where(goqu.Ex{"id": id})

	result, err := query.Executor().Exec()
	if err != nil {
		return nil, fmt.Errorf("failed to update supplier: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return nil, fmt.Errorf("supplier %d not found", id)
	}

	return r.GetSupplier(id)
}
