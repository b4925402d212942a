package models

import (
	"github.com/shopspring/decimal"
)

// Part is one stocked item card. Quantity, unit cost and total cost are
// mutated only by the movement processor; everything else through part edits.
type Part struct {
	ID          int             `json:"id" db:"id"`
	CardNo      int             `json:"card_no" db:"card_no"`
	Name        string          `json:"name" db:"name"`
	Unit        string          `json:"unit" db:"unit"`
	Quantity    int             `json:"quantity" db:"quantity"`
	MinQuantity int             `json:"min_quantity" db:"min_quantity"`
	UnitCost    decimal.Decimal `json:"unit_cost" db:"unit_cost"`
	TotalCost   decimal.Decimal `json:"total_cost" db:"total_cost"`
	Location    string          `json:"location" db:"location"`
	Note        string          `json:"note" db:"note"`
	Accounting  bool            `json:"accounting" db:"accounting_flag"`
	Critical    bool            `json:"critical" db:"critical_flag"`
	DeviceFlags map[string]bool `json:"device_flags,omitempty" db:"-"`
}

// BelowMinimum reports whether the part has fallen under its configured
// minimum. Strictly below: a part sitting exactly at the minimum is not
// flagged. Always computed from the live fields, never persisted.
func (p Part) BelowMinimum() bool {
	return p.Quantity < p.MinQuantity
}

// WithLedgerState returns a copy of the part with the ledger-owned fields
// replaced. The receiver is left untouched.
func (p Part) WithLedgerState(quantity int, unitCost, totalCost decimal.Decimal, location, note string) Part {
	next := p
	next.Quantity = quantity
	next.UnitCost = unitCost
	next.TotalCost = totalCost
	if location != "" {
		next.Location = location
	}
	if note != "" {
		next.Note = note
	}
	return next
}

// PartView is a Part as served to the presentation collaborator, with the
// derived low-stock flag attached.
type PartView struct {
	Part
	BelowMinimum bool `json:"below_minimum"`
}

func NewPartView(p Part) PartView {
	return PartView{Part: p, BelowMinimum: p.BelowMinimum()}
}
