package movements

import (
	"regexp"
	"time"

	custom_error "sklad/pkg/errors"
	"sklad/pkg/models"

	"github.com/shopspring/decimal"
)

var dateFormat = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// validate checks the request before anything touches storage. Every failure
// names the offending field.
func validate(req ApplyRequest) (decimal.Decimal, error) {
	if !req.Kind.Valid() {
		return decimal.Zero, custom_error.NewValidationError("kind", "must be RECEIVE or ISSUE")
	}

	if req.QuantityChange <= 0 {
		return decimal.Zero, custom_error.NewValidationError("quantity_change", "must be a positive integer")
	}

	if req.Location == "" {
		return decimal.Zero, custom_error.NewValidationError("location", "is mandatory")
	}

	switch req.Kind {
	case models.MovementReceive:
		return validateReceive(req)
	case models.MovementIssue:
		return decimal.Zero, validateIssue(req)
	}

	return decimal.Zero, nil
}

func validateReceive(req ApplyRequest) (decimal.Decimal, error) {
	if req.SupplierID <= 0 {
		return decimal.Zero, custom_error.NewValidationError("supplier_id", "is mandatory for a receive")
	}
	if req.OrderNo == "" {
		return decimal.Zero, custom_error.NewValidationError("order_no", "is mandatory for a receive")
	}
	if err := validateDate("purchase_date", req.PurchaseDate); err != nil {
		return decimal.Zero, err
	}

	price, err := decimal.NewFromString(req.UnitPrice)
	if err != nil {
		return decimal.Zero, custom_error.NewValidationError("unit_price", "is not a valid decimal number")
	}
	if !price.IsPositive() {
		return decimal.Zero, custom_error.NewValidationError("unit_price", "must be a positive decimal number")
	}

	return price, nil
}

func validateIssue(req ApplyRequest) error {
	if req.DeviceUsed == "" {
		return custom_error.NewValidationError("device_used", "is mandatory for an issue")
	}
	return validateDate("issue_date", req.IssueDate)
}

func validateDate(field, value string) error {
	if value == "" {
		return custom_error.NewValidationError(field, "is mandatory")
	}
	if !dateFormat.MatchString(value) {
		return custom_error.NewValidationError(field, "must be in YYYY-MM-DD format")
	}
	if _, err := time.Parse("2006-01-02", value); err != nil {
		return custom_error.NewValidationError(field, "is not a valid calendar date")
	}
	return nil
}
