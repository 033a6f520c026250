package models

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"
)

const (
	ShiftA = "A"
	// ShiftB is the closing shift; only its counters update TicketState.
	ShiftB = "B"

	// ReportDateLayout is the calendar-day key a report is unique on.
	ReportDateLayout = "2006-01-02"
)

type DailyReport struct {
	bun.BaseModel `bun:"table:daily_reports"`

	ID        string    `bun:"id,pk" json:"id"`
	Date      string    `bun:"date,notnull,unique" json:"date"`
	CreatedAt time.Time `bun:"created_at,notnull" json:"createdAt"`
	UpdatedAt time.Time `bun:"updated_at,notnull" json:"updatedAt"`

	ShiftData []*ShiftData `bun:"rel:has-many,join:id=report_id" json:"shiftData"`
}

type ShiftData struct {
	bun.BaseModel `bun:"table:shift_data"`

	ID                  string          `bun:"id,pk" json:"id"`
	ReportID            string          `bun:"report_id,notnull" json:"reportId"`
	ShiftType           string          `bun:"shift_type,notnull" json:"shiftType"`
	PersonName          string          `bun:"person_name,nullzero" json:"personName,omitempty"`
	OnlineSales         decimal.Decimal `bun:"online_sales,notnull,type:numeric" json:"onlineSales"`
	OnlineCashes        decimal.Decimal `bun:"online_cashes,notnull,type:numeric" json:"onlineCashes"`
	InstantCashes       decimal.Decimal `bun:"instant_cashes,notnull,type:numeric" json:"instantCashes"`
	ActualCash          decimal.Decimal `bun:"actual_cash,notnull,type:numeric" json:"actualCash"`
	TotalScratchSales   decimal.Decimal `bun:"total_scratch_sales,notnull,type:numeric" json:"totalScratchSales"`
	ExpectedScratchCash decimal.Decimal `bun:"expected_scratch_cash,notnull,type:numeric" json:"expectedScratchCash"`
	TotalExpectedCash   decimal.Decimal `bun:"total_expected_cash,notnull,type:numeric" json:"totalExpectedCash"`
	Difference          decimal.Decimal `bun:"difference,notnull,type:numeric" json:"difference"`
	DataEntered         bool            `bun:"data_entered,notnull" json:"dataEntered"`

	TicketDetails []*TicketDetail `bun:"rel:has-many,join:id=shift_data_id" json:"ticketDetails"`
}

// TicketDetail is one ticket row of a finalized shift. Sold count and amount
// are derived values, never edited independently.
type TicketDetail struct {
	bun.BaseModel `bun:"table:ticket_details"`

	ID          string          `bun:"id,pk" json:"id"`
	ShiftDataID string          `bun:"shift_data_id,notnull" json:"shiftDataId"`
	TicketID    string          `bun:"ticket_id,notnull" json:"ticketId"`
	PrevNum     int             `bun:"prev_num,notnull" json:"prevNum"`
	CurrentNum  int             `bun:"current_num,notnull" json:"currentNum"`
	SoldCount   int             `bun:"sold_count,notnull" json:"soldCount"`
	TotalAmount decimal.Decimal `bun:"total_amount,notnull,type:numeric" json:"totalAmount"`

	Ticket *Ticket `bun:"rel:belongs-to,join:ticket_id=id" json:"ticket,omitempty"`
}

// ReadingRequest is one raw counter reading submitted for a shift.
type ReadingRequest struct {
	TicketID   string      `json:"ticketId"`
	PrevNum    OptionalInt `json:"prevNum"`
	CurrentNum OptionalInt `json:"currentNum"`
}

// ShiftRequest carries everything the clerk enters for one shift.
type ShiftRequest struct {
	PersonName    string           `json:"personName"`
	OnlineSales   OptionalMoney    `json:"onlineSales"`
	OnlineCashes  OptionalMoney    `json:"onlineCashes"`
	InstantCashes OptionalMoney    `json:"instantCashes"`
	ActualCash    OptionalMoney    `json:"actualCash"`
	TicketDetails []ReadingRequest `json:"ticketDetails"`
}

// ReportRequest creates or replaces one daily report. Both shifts are always
// submitted together; editing a report swaps both atomically.
type ReportRequest struct {
	Date   string       `json:"date"`
	ShiftA ShiftRequest `json:"shiftA"`
	ShiftB ShiftRequest `json:"shiftB"`
}
