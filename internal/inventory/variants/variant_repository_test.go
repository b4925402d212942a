package variants

import (
	"errors"
	"testing"

	"sklad/internal/repository"
	custom_error "sklad/pkg/errors"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func setupRepo(t *testing.T) (*VariantRepository, sqlmock.Sqlmock) {
	db, dbMock, err := sqlmock.New()
	assert.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return NewRepository(repository.NewRepository(db)), dbMock
}

func TestExists(t *testing.T) {
	repo, dbMock := setupRepo(t)

	dbMock.ExpectQuery(`SELECT COUNT\("id"\) FROM "variants"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	exists, err := repo.Exists(1, 2)
	assert.NoError(t, err)
	assert.True(t, exists)

	dbMock.ExpectQuery(`SELECT COUNT\("id"\) FROM "variants"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	exists, err = repo.Exists(1, 3)
	assert.NoError(t, err)
	assert.False(t, exists)
}

func TestPersistVariant_RejectsDuplicatePair(t *testing.T) {
	repo, dbMock := setupRepo(t)

	dbMock.ExpectQuery(`SELECT COUNT\("id"\) FROM "variants"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	_, err := repo.PersistVariant(CreateVariantRequest{
		PartID:     1,
		SupplierID: 2,
		Name:       "Bearing 6204 ZKL",
		UnitPrice:  decimal.RequireFromString("2.80"),
	})

	var duplicate *custom_error.DuplicateVariantError
	assert.True(t, errors.As(err, &duplicate), "expected DuplicateVariantError, got %v", err)
	assert.Equal(t, 1, duplicate.PartID)
	assert.Equal(t, 2, duplicate.SupplierID)
	assert.NoError(t, dbMock.ExpectationsWereMet())
}

func TestPersistVariant_InsertsWhenPairIsNew(t *testing.T) {
	repo, dbMock := setupRepo(t)

	dbMock.ExpectQuery(`SELECT COUNT\("id"\) FROM "variants"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	dbMock.ExpectQuery(`INSERT INTO "variants" .+ RETURNING "id"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(11))

	variant, err := repo.PersistVariant(CreateVariantRequest{
		PartID:     1,
		SupplierID: 2,
		Name:       "Bearing 6204 ZKL",
		Number:     "ZKL-6204",
		UnitPrice:  decimal.RequireFromString("2.80"),
	})

	assert.NoError(t, err)
	assert.Equal(t, 11, variant.ID)
	assert.Equal(t, "ZKL-6204", variant.Number)
	assert.NoError(t, dbMock.ExpectationsWereMet())
}
