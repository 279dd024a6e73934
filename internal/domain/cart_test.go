package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func blackTee(qty int) CartLine {
	return CartLine{
		ProductID: 7,
		Title:     "Oversize Tee",
		UnitPrice: 45000,
		Color:     "Black",
		Size:      "L",
		Quantity:  qty,
	}
}

func TestAddLine_MergesSameVariant(t *testing.T) {
	cart := NewCart(1)

	cart.AddLine(blackTee(1), 1)
	cart.AddLine(blackTee(1), 2)

	require.Len(t, cart.Lines, 1)
	assert.Equal(t, 3, cart.Lines[0].Quantity)
	assert.Equal(t, 3, cart.ItemCount())
}

func TestAddLine_DistinctVariantsStaySeparate(t *testing.T) {
	cart := NewCart(1)

	black := blackTee(1)
	white := blackTee(1)
	white.Color = "White"
	otherSize := blackTee(1)
	otherSize.Size = "M"

	cart.AddLine(black, 1)
	cart.AddLine(white, 1)
	cart.AddLine(otherSize, 1)

	require.Len(t, cart.Lines, 3)
	assert.Equal(t, 3, cart.ItemCount())
}

func TestAddLine_RejectsNonPositivePrice(t *testing.T) {
	cart := NewCart(1)

	free := blackTee(1)
	free.UnitPrice = 0

	cart.AddLine(free, 1)

	assert.True(t, cart.IsEmpty())
}

func TestAddLine_ClampsNonPositiveQuantity(t *testing.T) {
	cart := NewCart(1)

	cart.AddLine(blackTee(0), 0)
	cart.AddLine(blackTee(0), -3)

	require.Len(t, cart.Lines, 1)
	assert.Equal(t, 2, cart.Lines[0].Quantity)
}

func TestRemoveLine_AbsentKeyIsNoop(t *testing.T) {
	cart := NewCart(1)
	cart.AddLine(blackTee(1), 1)

	cart.RemoveLine("999|Red|XS")

	assert.Len(t, cart.Lines, 1)
}

func TestSetQuantity_ZeroRemovesLine(t *testing.T) {
	cart := NewCart(1)
	line := blackTee(2)
	cart.AddLine(line, 2)

	cart.SetQuantity(line.Key(), 0)

	assert.True(t, cart.IsEmpty())
}

func TestSetQuantity_Overwrites(t *testing.T) {
	cart := NewCart(1)
	line := blackTee(2)
	cart.AddLine(line, 2)

	cart.SetQuantity(line.Key(), 5)

	require.Len(t, cart.Lines, 1)
	assert.Equal(t, 5, cart.Lines[0].Quantity)
}

func TestTotals_EmptyCartShipsNothing(t *testing.T) {
	cart := NewCart(1)

	totals := cart.Totals(100000, 5000)

	assert.Equal(t, int64(0), totals.Subtotal)
	assert.Equal(t, int64(0), totals.Shipping)
	assert.Equal(t, int64(0), totals.GrandTotal)
}

func TestTotals_BelowThresholdAddsFee(t *testing.T) {
	cart := NewCart(1)
	cart.AddLine(blackTee(1), 1) // 450.00

	totals := cart.Totals(100000, 5000)

	assert.Equal(t, int64(45000), totals.Subtotal)
	assert.Equal(t, int64(5000), totals.Shipping)
	assert.Equal(t, int64(50000), totals.GrandTotal)
}

func TestTotals_AtThresholdShipsFree(t *testing.T) {
	cart := NewCart(1)

	line := blackTee(1)
	line.UnitPrice = 100000
	cart.AddLine(line, 1)

	totals := cart.Totals(100000, 5000)

	assert.Equal(t, int64(0), totals.Shipping)
	assert.Equal(t, int64(100000), totals.GrandTotal)
}

func TestTotals_OneKurusBelowThresholdStillCharges(t *testing.T) {
	cart := NewCart(1)

	line := blackTee(1)
	line.UnitPrice = 99999
	cart.AddLine(line, 1)

	totals := cart.Totals(100000, 5000)

	assert.Equal(t, int64(5000), totals.Shipping)
}

// Two black tees plus one white at 450.00 each: subtotal 1350.00 clears
// a 1000.00 free-shipping threshold.
func TestTotals_MixedVariantsOverThreshold(t *testing.T) {
	cart := NewCart(1)

	cart.AddLine(blackTee(2), 2)
	white := blackTee(1)
	white.Color = "White"
	cart.AddLine(white, 1)

	totals := cart.Totals(100000, 5000)

	assert.Equal(t, int64(135000), totals.Subtotal)
	assert.Equal(t, int64(0), totals.Shipping)
	assert.Equal(t, int64(135000), totals.GrandTotal)
}

func TestTotals_IsPure(t *testing.T) {
	cart := NewCart(1)
	cart.AddLine(blackTee(1), 1)

	first := cart.Totals(100000, 5000)
	second := cart.Totals(100000, 5000)

	assert.Equal(t, first, second)
	assert.Len(t, cart.Lines, 1)
}
