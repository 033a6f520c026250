package models

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"
)

// NilBookNumber is the sentinel counter value meaning the book was fully
// sold out / closed with no partial count recorded.
const NilBookNumber = -1

type Ticket struct {
	bun.BaseModel `bun:"table:tickets"`

	ID         string          `bun:"id,pk" json:"id"`
	Name       string          `bun:"name,notnull" json:"name"`
	Price      decimal.Decimal `bun:"price,notnull,type:numeric" json:"price"`
	BookSize   int             `bun:"book_size,notnull" json:"bookSize"`
	OrderIndex int             `bun:"order_index,notnull" json:"orderIndex"`
	CreatedAt  time.Time       `bun:"created_at,notnull" json:"createdAt"`

	State *TicketState `bun:"rel:has-one,join:id=ticket_id" json:"ticketState,omitempty"`
}

// TicketState is the running last-known counter for one ticket. It is a read
// model seeded when tickets are created and rewritten only by the closing
// shift of a saved report.
type TicketState struct {
	bun.BaseModel `bun:"table:ticket_states"`

	TicketID   string `bun:"ticket_id,pk" json:"ticketId"`
	LastNumber int    `bun:"last_number,notnull" json:"lastNumber"`

	Ticket *Ticket `bun:"rel:belongs-to,join:ticket_id=id" json:"ticket,omitempty"`
}

// TicketUpdateRequest is one row of a full ticket-list replacement.
type TicketUpdateRequest struct {
	Name     string        `json:"name"`
	Price    OptionalMoney `json:"price"`
	BookSize OptionalInt   `json:"bookSize"`
	// Initial optionally overrides the fresh state counter; it defaults to
	// bookSize-1 (a brand-new book).
	Initial OptionalInt `json:"initial"`
}

// StateUpsertRequest sets one ticket's running counter directly.
type StateUpsertRequest struct {
	TicketID   string      `json:"ticketId"`
	LastNumber OptionalInt `json:"lastNumber"`
}
