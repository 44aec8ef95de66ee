package entity

import "time"

// Event is a bookable event with a finite ticket pool. AvailableTickets is
// mutated only through the inventory; it stays within [0, TotalTickets].
type Event struct {
	EventID          string    `json:"event_id" db:"event_id"`
	Title            string    `json:"title" db:"title"`
	Description      string    `json:"description" db:"description"`
	Location         string    `json:"location" db:"location"`
	StartTime        time.Time `json:"start_time" db:"start_time"`
	PriceAmount      int64     `json:"price_amount" db:"price_amount"`
	PriceCurrency    string    `json:"price_currency" db:"price_currency"`
	TotalTickets     int       `json:"total_tickets" db:"total_tickets"`
	AvailableTickets int       `json:"available_tickets" db:"available_tickets"`
}
