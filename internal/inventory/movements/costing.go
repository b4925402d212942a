package movements

import "github.com/shopspring/decimal"

// Monetary rounding follows the accounting convention of the ledger: totals
// carry 1 decimal place, unit costs 2, both banker's rounding. The receive
// total is rounded before the division that yields the new unit cost.
const (
	totalScale    = 1
	unitCostScale = 2
)

// receiveState blends incoming stock into the weighted average. The new unit
// cost always lies between the old cost and the received price.
func receiveState(quantity int, unitCost decimal.Decimal, qtyChange int, price decimal.Decimal) (newQty int, newCost, newTotal decimal.Decimal) {
	oldValue := unitCost.Mul(decimal.NewFromInt(int64(quantity)))
	addedValue := price.Mul(decimal.NewFromInt(int64(qtyChange)))

	newQty = quantity + qtyChange
	newTotal = oldValue.Add(addedValue).RoundBank(totalScale)
	newCost = newTotal.Div(decimal.NewFromInt(int64(newQty))).RoundBank(unitCostScale)
	return newQty, newCost, newTotal
}

// issueState consumes stock at the existing average cost; the unit cost is
// deliberately not recomputed on the way out.
func issueState(quantity int, unitCost decimal.Decimal, qtyChange int) (newQty int, newTotal decimal.Decimal) {
	newQty = quantity - qtyChange
	newTotal = unitCost.Mul(decimal.NewFromInt(int64(newQty))).RoundBank(totalScale)
	return newQty, newTotal
}

// lineTotal values the moved stock itself. For an issue this is a different
// number from the part's remaining total: the part keeps what is left, the
// audit line records what moved.
func lineTotal(qtyChange int, unitPrice decimal.Decimal) decimal.Decimal {
	return unitPrice.Mul(decimal.NewFromInt(int64(qtyChange))).RoundBank(totalScale)
}
