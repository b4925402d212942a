package models

import "github.com/shopspring/decimal"

// Variant holds one supplier's purchasing terms for a part. The pair
// (part_id, supplier_id) is unique across the registry. UnitPrice is the
// current quoted price, not a price history.
type Variant struct {
	ID           int             `json:"id" db:"id"`
	PartID       int             `json:"part_id" db:"part_id"`
	SupplierID   int             `json:"supplier_id" db:"supplier_id"`
	Name         string          `json:"name" db:"name"`
	Number       string          `json:"number" db:"number"`
	UnitPrice    decimal.Decimal `json:"unit_price" db:"unit_price"`
	LeadTimeDays int             `json:"lead_time_days" db:"lead_time_days"`
	MinOrderQty  int             `json:"min_order_qty" db:"min_order_qty"`
}

// VariantView joins in the display names of the owning part and supplier
// plus the part's derived low-stock flag.
type VariantView struct {
	Variant
	PartName     string `json:"part_name"`
	SupplierName string `json:"supplier_name"`
	BelowMinimum bool   `json:"below_minimum"`
}

// FlatVariantRecord is the joined row shape scanned from storage.
type FlatVariantRecord struct {
	ID           int             `db:"id"`
	PartID       int             `db:"part_id"`
	SupplierID   int             `db:"supplier_id"`
	Name         string          `db:"name"`
	Number       string          `db:"number"`
	UnitPrice    decimal.Decimal `db:"unit_price"`
	LeadTimeDays int             `db:"lead_time_days"`
	MinOrderQty  int             `db:"min_order_qty"`
	PartName     string          `db:"part_name"`
	PartQuantity int             `db:"part_quantity"`
	PartMinimum  int             `db:"part_min_quantity"`
	SupplierName string          `db:"supplier_name"`
}

func (f FlatVariantRecord) TransformToVariantView() VariantView {
	return VariantView{
		Variant: Variant{
			ID:           f.ID,
			PartID:       f.PartID,
			SupplierID:   f.SupplierID,
			Name:         f.Name,
			Number:       f.Number,
			UnitPrice:    f.UnitPrice,
			LeadTimeDays: f.LeadTimeDays,
			MinOrderQty:  f.MinOrderQty,
		},
		PartName:     f.PartName,
		SupplierName: f.SupplierName,
		BelowMinimum: f.PartQuantity < f.PartMinimum,
	}
}
