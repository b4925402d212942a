package devices

import (
	"fmt"

	"sklad/internal/inventory/parts"
	"sklad/internal/repository"
	custom_error "sklad/pkg/errors"
	"sklad/pkg/models"

	"github.com/doug-martin/goqu/v9"
	"github.com/lib/pq"
)

type DeviceRepository struct {
	repository *repository.Repository
}

func NewRepository(r *repository.Repository) *DeviceRepository {
	return &DeviceRepository{repository: r}
}

func (r *DeviceRepository) GetDevices() ([]models.Device, error) {
	var deviceList []models.Device

	query := r.repository.GoquDBWrapper.
		Select("id", "abbreviation", "name", "location", "type").
		From("devices").
		Order(goqu.I("id").Asc())

	if err := query.Executor().ScanStructs(&deviceList); err != nil {
		return nil, fmt.Errorf("unable to select devices: %w", err)
	}

	return deviceList, nil
}

// GetAbbreviations lists the registered device abbreviations, the source of
// the per-part usage flag column names.
func (r *DeviceRepository) GetAbbreviations() ([]string, error) {
	var abbreviations []string

	query := r.repository.GoquDBWrapper.
		Select("abbreviation").
		From("devices").
		Order(goqu.I("id").Asc())

	if err := query.Executor().ScanVals(&abbreviations); err != nil {
		return nil, fmt.Errorf("unable to select device abbreviations: %w", err)
	}

	return abbreviations, nil
}

// PersistDevice registers a device and, in the same transaction, adds the
// matching usage flag column to every part card. The column identifier is
// derived only from the normalized abbreviation, whose alphabet is closed to
// [A-Z0-9_]; request input never reaches the DDL statement directly.
func (r *DeviceRepository) PersistDevice(req CreateDeviceRequest) (*models.Device, error) {
	abbreviation, err := NormalizeAbbreviation(req.Abbreviation)
	if err != nil {
		return nil, err
	}

	device := models.Device{
		Abbreviation: abbreviation,
		Name:         req.Name,
		Location:     req.Location,
		Type:         req.Type,
	}

	err = repository.WithTransaction(r.repository.GoquDBWrapper, func(tx *goqu.TxDatabase) error {
		query := tx.Insert("devices").
			Rows(goqu.Record{
				"abbreviation": device.Abbreviation,
				"name":         device.Name,
				"location":     device.Location,
				"type":         device.Type,
			}).
			Returning("id")

		if _, err := query.Executor().ScanVal(&device.ID); err != nil {
			if pqErr, ok := err.(*pq.Error); ok {
				return custom_error.WrapDBError("device abbreviation already taken", string(pqErr.Code))
			}
			return fmt.Errorf("failed to insert device record: %w", err)
		}

		alter := fmt.Sprintf(
			"ALTER TABLE parts ADD COLUMN %s INTEGER NOT NULL DEFAULT 0",
			parts.DeviceFlagColumn(device.Abbreviation),
		)
		if _, err := tx.Exec(alter); err != nil {
			return fmt.Errorf("failed to add device flag column: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return &device, nil
}
