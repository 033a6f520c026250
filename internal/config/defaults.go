package config

// TicketSeed describes one default ticket product. The list below mirrors the
// games the shop stocks on day one; it is handed to the tickets service at
// wiring time so seeding stays an explicit startup step.
type TicketSeed struct {
	Name     string
	Price    float64
	BookSize int
}

func DefaultTickets() []TicketSeed {
	return []TicketSeed{
		{Name: "Pocket Change", Price: 1, BookSize: 200},
		{Name: "Easy As 123", Price: 2, BookSize: 150},
		{Name: "Big Money Spectacular", Price: 2, BookSize: 150},
		{Name: "Stacks of Green", Price: 2, BookSize: 150},
		{Name: "Electric 8's", Price: 2, BookSize: 100},
		{Name: "Loteria", Price: 3, BookSize: 100},
		{Name: "Win for Life", Price: 3, BookSize: 100},
		{Name: "Crossword", Price: 3, BookSize: 60},
		{Name: "Wild Poker", Price: 5, BookSize: 60},
		{Name: "Bingo Times 10", Price: 5, BookSize: 60},
		{Name: "Loteria Grande", Price: 5, BookSize: 60},
		{Name: "Super Crossword", Price: 5, BookSize: 60},
		{Name: "Money Rush", Price: 5, BookSize: 60},
		{Name: "Cash 4-Ever", Price: 5, BookSize: 60},
		{Name: "UNO", Price: 5, BookSize: 60},
		{Name: "Wild$IDE", Price: 5, BookSize: 60},
		{Name: "Neon 9s", Price: 10, BookSize: 30},
		{Name: "Shore Things", Price: 10, BookSize: 30},
		{Name: "50,000 Jumbo Bucks", Price: 10, BookSize: 30},
		{Name: "500.00 Lion's Share", Price: 10, BookSize: 30},
		{Name: "Mega Hots 7's", Price: 20, BookSize: 20},
		{Name: "Crossword Bonanza", Price: 20, BookSize: 20},
		{Name: "Crossword Extreme", Price: 30, BookSize: 20},
		{Name: "Millionaire Maker", Price: 25, BookSize: 20},
		{Name: "Quarter Million Cash", Price: 20, BookSize: 20},
		{Name: "100X Cash Blitz", Price: 20, BookSize: 20},
		{Name: "5,000,000 Fortune", Price: 30, BookSize: 20},
		{Name: "Colossal Crossword", Price: 30, BookSize: 20},
	}
}
