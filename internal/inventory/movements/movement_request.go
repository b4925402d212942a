package movements

import (
	"sklad/pkg/models"

	"github.com/shopspring/decimal"
)

// ApplyRequest describes one receive or issue against a part.
// QuantityChange is the magnitude; the direction comes from Kind. UnitPrice
// arrives as a string so that a malformed number surfaces as a field-level
// validation failure instead of a bind error.
type ApplyRequest struct {
	PartID         int                 `json:"part_id" binding:"required"`
	Kind           models.MovementKind `json:"kind" binding:"required"`
	QuantityChange int                 `json:"quantity_change"`
	UnitPrice      string              `json:"unit_price,omitempty"`
	SupplierID     int                 `json:"supplier_id,omitempty"`
	OrderNo        string              `json:"order_no,omitempty"`
	PurchaseDate   string              `json:"purchase_date,omitempty"`
	IssueDate      string              `json:"issue_date,omitempty"`
	DeviceUsed     string              `json:"device_used,omitempty"`
	Location       string              `json:"location"`
	Note           string              `json:"note,omitempty"`
}

// VariantSuggestion signals that a receipt introduced a supplier the part has
// no variant for. Advisory only: the movement is already committed and a
// failure to create the variant rolls nothing back.
type VariantSuggestion struct {
	PartID             int             `json:"part_id"`
	SupplierID         int             `json:"supplier_id"`
	SuggestedUnitPrice decimal.Decimal `json:"suggested_unit_price"`
}

// MovementResult returns the updated part and the written audit record for
// display confirmation.
type MovementResult struct {
	Part              models.PartView    `json:"part"`
	Movement          models.Movement    `json:"movement"`
	VariantSuggestion *VariantSuggestion `json:"variant_suggestion,omitempty"`
}
