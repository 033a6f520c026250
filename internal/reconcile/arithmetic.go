package reconcile

import (
	"github.com/shopspring/decimal"

	"scratch-tracker/internal/models"
)

// SoldCount computes how many tickets came off a book between two counter
// readings. Books are torn off counting down from bookSize-1 to 0, so a
// reading numerically behind the previous one means tickets were sold, and a
// reading ahead of it means the clerk finished the book and started a fresh
// one mid-shift.
//
// The rules apply strictly in order:
//  1. previous reading is the nil sentinel (-1): the book is already closed
//  2. previous reading missing or bookSize unusable: count nothing
//  3. current reading missing: nothing counted yet
//  4. current reading is -1: the whole remainder of the book sold
//  5. no movement
//  6. normal forward consumption within the book
//  7. rollover into a new book
func SoldCount(prev, current models.OptionalInt, bookSize int) int {
	if prev.Valid && prev.Int == models.NilBookNumber {
		return 0
	}
	if !prev.Valid || bookSize <= 0 {
		return 0
	}
	if !current.Valid {
		return 0
	}
	if current.Int == models.NilBookNumber {
		return prev.Int + 1
	}
	if current.Int == prev.Int {
		return 0
	}
	if current.Int < prev.Int {
		return prev.Int - current.Int
	}
	return (prev.Int + 1) + ((bookSize - 1) - current.Int)
}

// LineRevenue is soldCount x price, never negative.
func LineRevenue(soldCount int, price decimal.Decimal) decimal.Decimal {
	if soldCount <= 0 {
		return decimal.Zero
	}
	revenue := price.Mul(decimal.NewFromInt(int64(soldCount)))
	if revenue.IsNegative() {
		return decimal.Zero
	}
	return revenue
}

// ExpectedCash is the drawer total a shift should end with. Online cashes and
// instant cashes are payouts and therefore subtracted.
func ExpectedCash(onlineSales, onlineCashes, instantCashes, totalScratchSales decimal.Decimal) decimal.Decimal {
	return onlineSales.Sub(onlineCashes).Sub(instantCashes).Add(totalScratchSales)
}

// Difference is actual minus expected: positive is a surplus, negative a
// shortage.
func Difference(actualCash, expectedCash decimal.Decimal) decimal.Decimal {
	return actualCash.Sub(expectedCash)
}

// FormatCurrencySigned renders "$12.34" or "-$12.34", sign before the symbol.
func FormatCurrencySigned(amount decimal.Decimal) string {
	if amount.IsNegative() {
		return "-$" + amount.Neg().StringFixed(2)
	}
	return "$" + amount.StringFixed(2)
}
