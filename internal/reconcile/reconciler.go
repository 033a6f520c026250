package reconcile

import (
	"fmt"

	"github.com/shopspring/decimal"

	"scratch-tracker/internal/models"
)

// UnknownTicketError aborts reconciliation when a reading references a ticket
// that is not in the configuration snapshot. Dropping the row silently would
// corrupt the shift totals.
type UnknownTicketError struct {
	TicketID string
}

func (e *UnknownTicketError) Error() string {
	return fmt.Sprintf("reading references unknown ticket %q", e.TicketID)
}

// OutOfRangeReadingError aborts reconciliation when a counter reading falls
// outside the book's valid positions. Letting it through would store a
// negative sold count and poison the running counter.
type OutOfRangeReadingError struct {
	TicketID string
	Value    int
	BookSize int
}

func (e *OutOfRangeReadingError) Error() string {
	return fmt.Sprintf("reading %d for ticket %q is outside the valid range [%d, %d]",
		e.Value, e.TicketID, models.NilBookNumber, e.BookSize-1)
}

// checkRange validates a counter reading against the book. NilBookNumber marks
// a freshly opened book and is always in range. A non-positive book size never
// reaches arithmetic, so it is not range-checked here.
func checkRange(ticketID string, reading models.OptionalInt, bookSize int) error {
	if !reading.Valid || bookSize <= 0 {
		return nil
	}
	if reading.Int < models.NilBookNumber || reading.Int > bookSize-1 {
		return &OutOfRangeReadingError{TicketID: ticketID, Value: reading.Int, BookSize: bookSize}
	}
	return nil
}

// Reading is one raw counter reading for a shift.
type Reading struct {
	TicketID string
	Prev     models.OptionalInt
	Current  models.OptionalInt
}

// ShiftInputs are the non-ticket cash figures entered for a shift. Absent
// fields arrive already defaulted to zero by the request layer.
type ShiftInputs struct {
	OnlineSales   decimal.Decimal
	OnlineCashes  decimal.Decimal
	InstantCashes decimal.Decimal
	ActualCash    decimal.Decimal
}

// Line is one fully derived ticket row of a shift.
type Line struct {
	TicketID    string
	PrevNum     int
	CurrentNum  int
	SoldCount   int
	TotalAmount decimal.Decimal
}

// StateUpdate is a TicketState upsert candidate. Whether it is committed is
// the caller's closing-shift policy, not this package's concern.
type StateUpdate struct {
	TicketID   string
	LastNumber int
}

// ShiftResult is everything derived from one shift's readings.
type ShiftResult struct {
	Lines               []Line
	TotalScratchSales   decimal.Decimal
	ExpectedScratchCash decimal.Decimal
	TotalExpectedCash   decimal.Decimal
	Difference          decimal.Decimal
	StateUpdates        []StateUpdate
}

// ReconcileShift turns one shift's raw readings plus the ticket configuration
// snapshot into a complete shift result. It is pure: identical inputs yield
// identical output, and on error no partial result is returned.
func ReconcileShift(readings []Reading, configs map[string]models.Ticket, inputs ShiftInputs) (*ShiftResult, error) {
	result := &ShiftResult{
		Lines:             make([]Line, 0, len(readings)),
		TotalScratchSales: decimal.Zero,
	}

	for _, reading := range readings {
		cfg, ok := configs[reading.TicketID]
		if !ok {
			return nil, &UnknownTicketError{TicketID: reading.TicketID}
		}
		if err := checkRange(reading.TicketID, reading.Prev, cfg.BookSize); err != nil {
			return nil, err
		}
		if err := checkRange(reading.TicketID, reading.Current, cfg.BookSize); err != nil {
			return nil, err
		}

		sold := SoldCount(reading.Prev, reading.Current, cfg.BookSize)
		amount := LineRevenue(sold, cfg.Price)

		line := Line{
			TicketID:    reading.TicketID,
			PrevNum:     reading.Prev.Int,
			SoldCount:   sold,
			TotalAmount: amount,
		}

		if reading.Current.Valid {
			line.CurrentNum = reading.Current.Int
			result.StateUpdates = append(result.StateUpdates, StateUpdate{
				TicketID:   reading.TicketID,
				LastNumber: reading.Current.Int,
			})
		} else {
			// An unreported closing reading keeps the counter where it was
			// and must never produce a state update.
			line.CurrentNum = reading.Prev.Int
		}

		result.Lines = append(result.Lines, line)
		result.TotalScratchSales = result.TotalScratchSales.Add(amount)
	}

	result.ExpectedScratchCash = result.TotalScratchSales
	result.TotalExpectedCash = ExpectedCash(inputs.OnlineSales, inputs.OnlineCashes, inputs.InstantCashes, result.TotalScratchSales)
	result.Difference = Difference(inputs.ActualCash, result.TotalExpectedCash)

	return result, nil
}

// DayTotals aggregates the two shifts of a report. A missing shift record
// contributes zero.
type DayTotals struct {
	TotalSales        decimal.Decimal `json:"totalSales"`
	TotalExpectedCash decimal.Decimal `json:"totalExpectedCash"`
	TotalActualCash   decimal.Decimal `json:"totalActualCash"`
	TotalDifference   decimal.Decimal `json:"totalDifference"`
}

func DailyTotals(shiftA, shiftB *models.ShiftData) DayTotals {
	totals := DayTotals{
		TotalSales:        decimal.Zero,
		TotalExpectedCash: decimal.Zero,
		TotalActualCash:   decimal.Zero,
		TotalDifference:   decimal.Zero,
	}
	for _, shift := range []*models.ShiftData{shiftA, shiftB} {
		if shift == nil {
			continue
		}
		totals.TotalSales = totals.TotalSales.Add(shift.TotalScratchSales)
		totals.TotalExpectedCash = totals.TotalExpectedCash.Add(shift.TotalExpectedCash)
		totals.TotalActualCash = totals.TotalActualCash.Add(shift.ActualCash)
		totals.TotalDifference = totals.TotalDifference.Add(shift.Difference)
	}
	return totals
}
