package reconcile_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scratch-tracker/internal/models"
	"scratch-tracker/internal/reconcile"
)

func testConfigs() map[string]models.Ticket {
	return map[string]models.Ticket{
		"t-crossword": {ID: "t-crossword", Name: "Crossword", Price: decimal.NewFromInt(3), BookSize: 60},
		"t-easy123":   {ID: "t-easy123", Name: "Easy As 123", Price: decimal.NewFromInt(2), BookSize: 150},
	}
}

func TestReconcileShiftTotals(t *testing.T) {
	readings := []reconcile.Reading{
		{TicketID: "t-easy123", Prev: models.Int(149), Current: models.Int(140)}, // 9 sold x $2
		{TicketID: "t-crossword", Prev: models.Int(5), Current: models.Int(2)},   // 3 sold x $3
	}
	inputs := reconcile.ShiftInputs{
		OnlineSales:   decimal.NewFromInt(100),
		OnlineCashes:  decimal.NewFromInt(10),
		InstantCashes: decimal.NewFromInt(5),
		ActualCash:    decimal.NewFromInt(130),
	}

	result, err := reconcile.ReconcileShift(readings, testConfigs(), inputs)
	require.NoError(t, err)
	require.Len(t, result.Lines, 2)

	assert.Equal(t, 9, result.Lines[0].SoldCount)
	assert.True(t, decimal.NewFromInt(18).Equal(result.Lines[0].TotalAmount))
	assert.Equal(t, 3, result.Lines[1].SoldCount)
	assert.True(t, decimal.NewFromInt(9).Equal(result.Lines[1].TotalAmount))

	assert.True(t, decimal.NewFromInt(27).Equal(result.TotalScratchSales))
	assert.True(t, result.ExpectedScratchCash.Equal(result.TotalScratchSales))
	// 100 - 10 - 5 + 27
	assert.True(t, decimal.NewFromInt(112).Equal(result.TotalExpectedCash))
	// 130 - 112
	assert.True(t, decimal.NewFromInt(18).Equal(result.Difference))

	require.Len(t, result.StateUpdates, 2)
	assert.Equal(t, reconcile.StateUpdate{TicketID: "t-easy123", LastNumber: 140}, result.StateUpdates[0])
	assert.Equal(t, reconcile.StateUpdate{TicketID: "t-crossword", LastNumber: 2}, result.StateUpdates[1])
}

func TestReconcileShiftUnknownTicket(t *testing.T) {
	readings := []reconcile.Reading{
		{TicketID: "t-easy123", Prev: models.Int(149), Current: models.Int(140)},
		{TicketID: "t-nope", Prev: models.Int(10), Current: models.Int(5)},
	}

	result, err := reconcile.ReconcileShift(readings, testConfigs(), reconcile.ShiftInputs{})
	require.Error(t, err)
	// No partial result on error
	assert.Nil(t, result)

	var unknownErr *reconcile.UnknownTicketError
	require.ErrorAs(t, err, &unknownErr)
	assert.Equal(t, "t-nope", unknownErr.TicketID)
}

func TestReconcileShiftOutOfRangeReading(t *testing.T) {
	// currentNum 100 cannot exist on the 60-ticket crossword book
	readings := []reconcile.Reading{
		{TicketID: "t-crossword", Prev: models.Int(5), Current: models.Int(100)},
	}

	result, err := reconcile.ReconcileShift(readings, testConfigs(), reconcile.ShiftInputs{})
	require.Error(t, err)
	assert.Nil(t, result)

	var rangeErr *reconcile.OutOfRangeReadingError
	require.ErrorAs(t, err, &rangeErr)
	assert.Equal(t, "t-crossword", rangeErr.TicketID)
	assert.Equal(t, 100, rangeErr.Value)
	assert.Equal(t, 60, rangeErr.BookSize)

	// A prev below the close-out sentinel is equally invalid
	readings = []reconcile.Reading{
		{TicketID: "t-crossword", Prev: models.Int(-2), Current: models.Int(5)},
	}
	_, err = reconcile.ReconcileShift(readings, testConfigs(), reconcile.ShiftInputs{})
	require.ErrorAs(t, err, &rangeErr)
	assert.Equal(t, -2, rangeErr.Value)

	// The close-out sentinel itself stays accepted
	readings = []reconcile.Reading{
		{TicketID: "t-crossword", Prev: models.Int(5), Current: models.Int(-1)},
	}
	_, err = reconcile.ReconcileShift(readings, testConfigs(), reconcile.ShiftInputs{})
	require.NoError(t, err)
}

func TestReconcileShiftBlankCurrentReading(t *testing.T) {
	readings := []reconcile.Reading{
		{TicketID: "t-crossword", Prev: models.Int(5), Current: models.OptionalInt{}},
	}

	result, err := reconcile.ReconcileShift(readings, testConfigs(), reconcile.ShiftInputs{})
	require.NoError(t, err)
	require.Len(t, result.Lines, 1)

	assert.Equal(t, 0, result.Lines[0].SoldCount)
	assert.Equal(t, 5, result.Lines[0].CurrentNum)
	// Blank readings must not produce state update candidates
	assert.Empty(t, result.StateUpdates)
}

func TestReconcileShiftIdempotent(t *testing.T) {
	readings := []reconcile.Reading{
		{TicketID: "t-easy123", Prev: models.Int(149), Current: models.Int(-1)},
	}
	inputs := reconcile.ShiftInputs{ActualCash: decimal.NewFromInt(300)}

	first, err := reconcile.ReconcileShift(readings, testConfigs(), inputs)
	require.NoError(t, err)
	second, err := reconcile.ReconcileShift(readings, testConfigs(), inputs)
	require.NoError(t, err)

	assert.Equal(t, first.Lines, second.Lines)
	assert.True(t, first.TotalScratchSales.Equal(second.TotalScratchSales))
	assert.True(t, first.Difference.Equal(second.Difference))
	assert.Equal(t, first.StateUpdates, second.StateUpdates)
}

func TestDailyTotals(t *testing.T) {
	shiftA := &models.ShiftData{
		TotalScratchSales: decimal.NewFromInt(18),
		TotalExpectedCash: decimal.NewFromInt(118),
		ActualCash:        decimal.NewFromInt(120),
		Difference:        decimal.NewFromInt(2),
	}
	shiftB := &models.ShiftData{
		TotalScratchSales: decimal.NewFromInt(20),
		TotalExpectedCash: decimal.NewFromInt(70),
		ActualCash:        decimal.NewFromInt(65),
		Difference:        decimal.NewFromInt(-5),
	}

	totals := reconcile.DailyTotals(shiftA, shiftB)
	assert.True(t, decimal.NewFromInt(38).Equal(totals.TotalSales))
	assert.True(t, decimal.NewFromInt(188).Equal(totals.TotalExpectedCash))
	assert.True(t, decimal.NewFromInt(185).Equal(totals.TotalActualCash))
	assert.True(t, decimal.NewFromInt(-3).Equal(totals.TotalDifference))
}

func TestDailyTotalsMissingShift(t *testing.T) {
	shiftA := &models.ShiftData{
		TotalScratchSales: decimal.NewFromInt(18),
		TotalExpectedCash: decimal.NewFromInt(118),
		ActualCash:        decimal.NewFromInt(120),
		Difference:        decimal.NewFromInt(2),
	}

	totals := reconcile.DailyTotals(shiftA, nil)
	assert.True(t, decimal.NewFromInt(18).Equal(totals.TotalSales))
	assert.True(t, decimal.NewFromInt(120).Equal(totals.TotalActualCash))

	empty := reconcile.DailyTotals(nil, nil)
	assert.True(t, decimal.Zero.Equal(empty.TotalSales))
	assert.True(t, decimal.Zero.Equal(empty.TotalDifference))
}
