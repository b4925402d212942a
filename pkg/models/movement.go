package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type MovementKind string

const (
	MovementReceive MovementKind = "RECEIVE"
	MovementIssue   MovementKind = "ISSUE"
)

func (k MovementKind) Valid() bool {
	return k == MovementReceive || k == MovementIssue
}

// Movement is one audit-trail line. Rows are insert-only: there is no update
// or delete path once a movement has been written.
//
// QuantityDelta is signed (positive on receive, negative on issue).
// LineTotal is the value moved by this transaction, which on an issue is a
// different number from the part's remaining total value.
type Movement struct {
	ID            int             `json:"id" db:"id"`
	CreatedAt     time.Time       `json:"created_at" db:"created_at"`
	Operator      string          `json:"operator" db:"operator"`
	Kind          MovementKind    `json:"kind" db:"kind"`
	QuantityDelta int             `json:"quantity_delta" db:"quantity_delta"`
	UnitPrice     decimal.Decimal `json:"unit_price" db:"unit_price"`
	LineTotal     decimal.Decimal `json:"line_total" db:"line_total"`
	PurchaseDate  string          `json:"purchase_date,omitempty" db:"purchase_date"`
	IssueDate     string          `json:"issue_date,omitempty" db:"issue_date"`
	OrderNo       string          `json:"order_no,omitempty" db:"order_no"`
	DeviceUsed    string          `json:"device_used,omitempty" db:"device_used"`
	Note          string          `json:"note,omitempty" db:"note"`
	PartID        int             `json:"part_id" db:"part_id"`
	PartName      string          `json:"part_name" db:"part_name"`
}
