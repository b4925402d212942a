package movements

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func d(s string) decimal.Decimal {
	v, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return v
}

func TestReceiveState_WeightedAverage(t *testing.T) {
	// 10 pieces at 2.00 on hand, receive 5 at 3.00
	newQty, newCost, newTotal := receiveState(10, d("2.00"), 5, d("3.00"))

	assert.Equal(t, 15, newQty)
	assert.True(t, newTotal.Equal(d("35.0")), "total: %s", newTotal)
	assert.True(t, newCost.Equal(d("2.33")), "cost: %s", newCost)
}

func TestReceiveState_FirstReceiptIntoEmptyPart(t *testing.T) {
	newQty, newCost, newTotal := receiveState(0, decimal.Zero, 4, d("12.50"))

	assert.Equal(t, 4, newQty)
	assert.True(t, newTotal.Equal(d("50.0")), "total: %s", newTotal)
	assert.True(t, newCost.Equal(d("12.50")), "cost: %s", newCost)
}

func TestReceiveState_CostStaysBetweenOldAndNew(t *testing.T) {
	tests := []struct {
		name      string
		quantity  int
		unitCost  string
		qtyChange int
		price     string
	}{
		{"cheaper receipt pulls cost down", 100, "5.00", 50, "2.00"},
		{"pricier receipt pushes cost up", 20, "1.10", 80, "9.90"},
		{"same price leaves cost alone", 7, "3.30", 7, "3.30"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, newCost, _ := receiveState(tt.quantity, d(tt.unitCost), tt.qtyChange, d(tt.price))

			lo, hi := d(tt.unitCost), d(tt.price)
			if lo.GreaterThan(hi) {
				lo, hi = hi, lo
			}
			assert.True(t, newCost.GreaterThanOrEqual(lo), "cost %s below %s", newCost, lo)
			assert.True(t, newCost.LessThanOrEqual(hi), "cost %s above %s", newCost, hi)
		})
	}
}

func TestReceiveState_BankersRoundingOnTotal(t *testing.T) {
	// 1 at 0.10 plus 1 at 0.05 gives 0.15, halfway between 0.1 and 0.2;
	// halves round to the even neighbour, so 0.2.
	_, _, newTotal := receiveState(1, d("0.10"), 1, d("0.05"))
	assert.True(t, newTotal.Equal(d("0.2")), "total: %s", newTotal)

	// 0.25 sits halfway too and lands on the even 0.2.
	_, _, evenTotal := receiveState(1, d("0.10"), 1, d("0.15"))
	assert.True(t, evenTotal.Equal(d("0.2")), "total: %s", evenTotal)
}

func TestIssueState_CostIsNotRecomputed(t *testing.T) {
	// Continues the receive example: 15 on hand at 2.33, issue 6.
	newQty, newTotal := issueState(15, d("2.33"), 6)

	assert.Equal(t, 9, newQty)
	assert.True(t, newTotal.Equal(d("21.0")), "total: %s", newTotal)
}

func TestIssueState_DrainToZero(t *testing.T) {
	newQty, newTotal := issueState(9, d("2.33"), 9)

	assert.Equal(t, 0, newQty)
	assert.True(t, newTotal.IsZero(), "total: %s", newTotal)
}

func TestLineTotal_ValuesTheMovedStock(t *testing.T) {
	// The audit line for issuing 6 at 2.33 records 14.0, not the part's
	// remaining 21.0.
	assert.True(t, lineTotal(6, d("2.33")).Equal(d("14.0")))
	assert.True(t, lineTotal(5, d("3.00")).Equal(d("15.0")))
}
