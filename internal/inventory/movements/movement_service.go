package movements

import (
	"fmt"
	"time"

	"sklad/internal/repository"
	custom_error "sklad/pkg/errors"
	"sklad/pkg/models"
	"sklad/pkg/security"

	"github.com/doug-martin/goqu/v9"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// PartStore is the slice of the parts repository the processor needs: a
// locked snapshot read and the conditional ledger write, both on the same
// transaction.
type PartStore interface {
	GetPartForUpdate(tx *goqu.TxDatabase, id int) (*models.Part, error)
	UpdateLedgerState(tx *goqu.TxDatabase, prev, next models.Part) error
}

// AuditStore appends the paired audit record inside the movement transaction.
type AuditStore interface {
	Append(tx *goqu.TxDatabase, movement models.Movement) (*models.Movement, error)
}

// VariantChecker answers whether a (part, supplier) variant already exists.
type VariantChecker interface {
	Exists(partID, supplierID int) (bool, error)
}

type Service struct {
	r        *repository.Repository
	parts    PartStore
	audit    AuditStore
	variants VariantChecker
	log      *zap.Logger
}

func NewService(r *repository.Repository, parts PartStore, audit AuditStore, variants VariantChecker, log *zap.Logger) *Service {
	return &Service{
		r:        r,
		parts:    parts,
		audit:    audit,
		variants: variants,
		log:      log,
	}
}

// Apply validates and applies one movement: recomputes the part's ledger
// state and appends the audit record, both inside a single transaction.
// Either both writes commit or neither does.
func (s *Service) Apply(session security.Session, req ApplyRequest) (*MovementResult, error) {
	price, err := validate(req)
	if err != nil {
		return nil, err
	}

	var (
		updated models.Part
		written *models.Movement
	)

	err = repository.WithTransaction(s.r.GoquDBWrapper, func(tx *goqu.TxDatabase) error {
		part, err := s.parts.GetPartForUpdate(tx, req.PartID)
		if err != nil {
			return err
		}

		movement := models.Movement{
			CreatedAt: time.Now(),
			Operator:  session.DisplayName,
			Kind:      req.Kind,
			Note:      req.Note,
			PartID:    part.ID,
			PartName:  part.Name,
		}

		switch req.Kind {
		case models.MovementReceive:
			newQty, newCost, newTotal := receiveState(part.Quantity, part.UnitCost, req.QuantityChange, price)
			updated = part.WithLedgerState(newQty, newCost, newTotal, req.Location, req.Note)

			movement.QuantityDelta = req.QuantityChange
			movement.UnitPrice = price
			movement.LineTotal = lineTotal(req.QuantityChange, price)
			movement.PurchaseDate = req.PurchaseDate
			movement.OrderNo = req.OrderNo

		case models.MovementIssue:
			if req.QuantityChange > part.Quantity {
				return &custom_error.InsufficientStockError{
					PartID:    part.ID,
					Requested: req.QuantityChange,
					Available: part.Quantity,
				}
			}

			newQty, newTotal := issueState(part.Quantity, part.UnitCost, req.QuantityChange)
			updated = part.WithLedgerState(newQty, part.UnitCost, newTotal, req.Location, req.Note)

			movement.QuantityDelta = -req.QuantityChange
			movement.UnitPrice = part.UnitCost
			movement.LineTotal = lineTotal(req.QuantityChange, part.UnitCost)
			movement.IssueDate = req.IssueDate
			movement.DeviceUsed = req.DeviceUsed
		}

		if err := s.parts.UpdateLedgerState(tx, *part, updated); err != nil {
			return err
		}

		written, err = s.audit.Append(tx, movement)
		if err != nil {
			return &custom_error.PersistenceError{Op: "audit append", Err: err}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("movement applied",
		zap.Int("part_id", updated.ID),
		zap.String("kind", string(req.Kind)),
		zap.Int("quantity_delta", written.QuantityDelta),
		zap.String("operator", session.Username),
	)

	result := &MovementResult{
		Part:     models.NewPartView(updated),
		Movement: *written,
	}

	if req.Kind == models.MovementReceive {
		result.VariantSuggestion, err = s.suggestVariant(req.PartID, req.SupplierID, price)
		if err != nil {
			// The movement is committed; a failed existence check must not
			// look like a failed movement.
			s.log.Warn("variant existence check failed", zap.Error(err))
		}
	}

	return result, nil
}

// suggestVariant checks whether this receipt introduced a supplier the part
// has no variant for yet, carrying the just-used price as a default.
func (s *Service) suggestVariant(partID, supplierID int, price decimal.Decimal) (*VariantSuggestion, error) {
	exists, err := s.variants.Exists(partID, supplierID)
	if err != nil {
		return nil, fmt.Errorf("failed to check variant existence: %w", err)
	}
	if exists {
		return nil, nil
	}

	return &VariantSuggestion{
		PartID:             partID,
		SupplierID:         supplierID,
		SuggestedUnitPrice: price,
	}, nil
}
