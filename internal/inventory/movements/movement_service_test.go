package movements

import (
	"errors"
	"testing"

	"sklad/internal/repository"
	custom_error "sklad/pkg/errors"
	"sklad/pkg/models"
	"sklad/pkg/security"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/doug-martin/goqu/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

type MockPartStore struct {
	mock.Mock
}

func (m *MockPartStore) GetPartForUpdate(tx *goqu.TxDatabase, id int) (*models.Part, error) {
	args := m.Called(tx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Part), args.Error(1)
}

func (m *MockPartStore) UpdateLedgerState(tx *goqu.TxDatabase, prev, next models.Part) error {
	args := m.Called(tx, prev, next)
	return args.Error(0)
}

type MockAuditStore struct {
	mock.Mock
}

func (m *MockAuditStore) Append(tx *goqu.TxDatabase, movement models.Movement) (*models.Movement, error) {
	args := m.Called(tx, movement)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Movement), args.Error(1)
}

type MockVariantChecker struct {
	mock.Mock
}

func (m *MockVariantChecker) Exists(partID, supplierID int) (bool, error) {
	args := m.Called(partID, supplierID)
	return args.Bool(0), args.Error(1)
}

func setupService(t *testing.T) (*Service, sqlmock.Sqlmock, *MockPartStore, *MockAuditStore, *MockVariantChecker) {
	db, dbMock, err := sqlmock.New()
	assert.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	parts := new(MockPartStore)
	audit := new(MockAuditStore)
	variants := new(MockVariantChecker)

	service := NewService(repository.NewRepository(db), parts, audit, variants, zap.NewNop())
	return service, dbMock, parts, audit, variants
}

func operator() security.Session {
	return security.Session{Username: "jnovak", DisplayName: "Jan Novak", Role: "user"}
}

func stockedPart() *models.Part {
	return &models.Part{
		ID:          1,
		CardNo:      1,
		Name:        "Bearing 6204",
		Unit:        "pcs",
		Quantity:    10,
		MinQuantity: 4,
		UnitCost:    d("2.00"),
		TotalCost:   d("20.0"),
		Location:    "shelf A3",
	}
}

func TestApply_ReceiveRecomputesWeightedAverage(t *testing.T) {
	service, dbMock, parts, audit, variants := setupService(t)

	dbMock.ExpectBegin()
	dbMock.ExpectCommit()

	parts.On("GetPartForUpdate", mock.Anything, 1).Return(stockedPart(), nil)
	parts.On("UpdateLedgerState", mock.Anything, mock.Anything, mock.MatchedBy(func(next models.Part) bool {
		return next.Quantity == 15 && next.UnitCost.Equal(d("2.33")) && next.TotalCost.Equal(d("35.0"))
	})).Return(nil)

	audit.On("Append", mock.Anything, mock.MatchedBy(func(mv models.Movement) bool {
		return mv.Kind == models.MovementReceive &&
			mv.QuantityDelta == 5 &&
			mv.UnitPrice.Equal(d("3.00")) &&
			mv.LineTotal.Equal(d("15.0")) &&
			mv.Operator == "Jan Novak" &&
			mv.PartName == "Bearing 6204"
	})).Return(&models.Movement{ID: 42, Kind: models.MovementReceive, QuantityDelta: 5}, nil)

	variants.On("Exists", 1, 2).Return(true, nil)

	result, err := service.Apply(operator(), validReceive())

	assert.NoError(t, err)
	assert.Equal(t, 15, result.Part.Quantity)
	assert.True(t, result.Part.UnitCost.Equal(d("2.33")))
	assert.True(t, result.Part.TotalCost.Equal(d("35.0")))
	assert.Equal(t, 42, result.Movement.ID)
	assert.Nil(t, result.VariantSuggestion)

	assert.NoError(t, dbMock.ExpectationsWereMet())
	parts.AssertExpectations(t)
	audit.AssertExpectations(t)
	variants.AssertExpectations(t)
}

func TestApply_ReceiveSuggestsMissingVariant(t *testing.T) {
	service, dbMock, parts, audit, variants := setupService(t)

	dbMock.ExpectBegin()
	dbMock.ExpectCommit()

	parts.On("GetPartForUpdate", mock.Anything, 1).Return(stockedPart(), nil)
	parts.On("UpdateLedgerState", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	audit.On("Append", mock.Anything, mock.Anything).Return(&models.Movement{ID: 7}, nil)
	variants.On("Exists", 1, 2).Return(false, nil)

	result, err := service.Apply(operator(), validReceive())

	assert.NoError(t, err)
	assert.NotNil(t, result.VariantSuggestion)
	assert.Equal(t, 1, result.VariantSuggestion.PartID)
	assert.Equal(t, 2, result.VariantSuggestion.SupplierID)
	assert.True(t, result.VariantSuggestion.SuggestedUnitPrice.Equal(d("3.00")))
}

func TestApply_ReceiveSurvivesFailedVariantCheck(t *testing.T) {
	// The movement is committed before the existence check runs; a broken
	// check must not turn a successful movement into an error.
	service, dbMock, parts, audit, variants := setupService(t)

	dbMock.ExpectBegin()
	dbMock.ExpectCommit()

	parts.On("GetPartForUpdate", mock.Anything, 1).Return(stockedPart(), nil)
	parts.On("UpdateLedgerState", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	audit.On("Append", mock.Anything, mock.Anything).Return(&models.Movement{ID: 7}, nil)
	variants.On("Exists", 1, 2).Return(false, errors.New("connection reset"))

	result, err := service.Apply(operator(), validReceive())

	assert.NoError(t, err)
	assert.NotNil(t, result)
	assert.Nil(t, result.VariantSuggestion)
}

func TestApply_IssueKeepsUnitCost(t *testing.T) {
	service, dbMock, parts, audit, variants := setupService(t)

	dbMock.ExpectBegin()
	dbMock.ExpectCommit()

	part := stockedPart()
	part.Quantity = 15
	part.UnitCost = d("2.33")
	part.TotalCost = d("35.0")

	parts.On("GetPartForUpdate", mock.Anything, 1).Return(part, nil)
	parts.On("UpdateLedgerState", mock.Anything, mock.Anything, mock.MatchedBy(func(next models.Part) bool {
		return next.Quantity == 9 && next.UnitCost.Equal(d("2.33")) && next.TotalCost.Equal(d("21.0"))
	})).Return(nil)

	audit.On("Append", mock.Anything, mock.MatchedBy(func(mv models.Movement) bool {
		return mv.Kind == models.MovementIssue &&
			mv.QuantityDelta == -6 &&
			mv.UnitPrice.Equal(d("2.33")) &&
			mv.LineTotal.Equal(d("14.0")) &&
			mv.DeviceUsed == "LATHE_1"
	})).Return(&models.Movement{ID: 43, QuantityDelta: -6}, nil)

	result, err := service.Apply(operator(), validIssue())

	assert.NoError(t, err)
	assert.Equal(t, 9, result.Part.Quantity)
	assert.True(t, result.Part.TotalCost.Equal(d("21.0")))
	assert.Nil(t, result.VariantSuggestion)

	assert.NoError(t, dbMock.ExpectationsWereMet())
	variants.AssertNotCalled(t, "Exists", mock.Anything, mock.Anything)
}

func TestApply_IssueRejectsUnderflow(t *testing.T) {
	service, dbMock, parts, audit, _ := setupService(t)

	dbMock.ExpectBegin()
	dbMock.ExpectRollback()

	part := stockedPart()
	part.Quantity = 5
	parts.On("GetPartForUpdate", mock.Anything, 1).Return(part, nil)

	_, err := service.Apply(operator(), validIssue())

	var insufficient *custom_error.InsufficientStockError
	assert.True(t, errors.As(err, &insufficient), "expected InsufficientStockError, got %v", err)
	assert.Equal(t, 6, insufficient.Requested)
	assert.Equal(t, 5, insufficient.Available)

	assert.NoError(t, dbMock.ExpectationsWereMet())
	parts.AssertNotCalled(t, "UpdateLedgerState", mock.Anything, mock.Anything, mock.Anything)
	audit.AssertNotCalled(t, "Append", mock.Anything, mock.Anything)
}

func TestApply_FailedAuditAppendRollsBackPartUpdate(t *testing.T) {
	service, dbMock, parts, audit, _ := setupService(t)

	dbMock.ExpectBegin()
	dbMock.ExpectRollback()

	parts.On("GetPartForUpdate", mock.Anything, 1).Return(stockedPart(), nil)
	parts.On("UpdateLedgerState", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	audit.On("Append", mock.Anything, mock.Anything).Return(nil, errors.New("disk full"))

	_, err := service.Apply(operator(), validReceive())

	var persistence *custom_error.PersistenceError
	assert.True(t, errors.As(err, &persistence), "expected PersistenceError, got %v", err)

	assert.NoError(t, dbMock.ExpectationsWereMet())
}

func TestApply_ConcurrentModificationSurfaces(t *testing.T) {
	service, dbMock, parts, audit, _ := setupService(t)

	dbMock.ExpectBegin()
	dbMock.ExpectRollback()

	parts.On("GetPartForUpdate", mock.Anything, 1).Return(stockedPart(), nil)
	parts.On("UpdateLedgerState", mock.Anything, mock.Anything, mock.Anything).
		Return(custom_error.ErrConcurrentModification)

	_, err := service.Apply(operator(), validReceive())

	assert.ErrorIs(t, err, custom_error.ErrConcurrentModification)
	assert.NoError(t, dbMock.ExpectationsWereMet())
	audit.AssertNotCalled(t, "Append", mock.Anything, mock.Anything)
}

func TestApply_ValidationFailureNeverOpensTransaction(t *testing.T) {
	service, dbMock, parts, _, _ := setupService(t)

	req := validReceive()
	req.UnitPrice = "abc"

	_, err := service.Apply(operator(), req)

	var validation *custom_error.ValidationError
	assert.True(t, errors.As(err, &validation))
	assert.Equal(t, "unit_price", validation.Field)

	assert.NoError(t, dbMock.ExpectationsWereMet())
	parts.AssertNotCalled(t, "GetPartForUpdate", mock.Anything, mock.Anything)
}
