package models

import "time"

// Slot — бронируемое временное окно на площадке.
// CurrentPlayers меняется только транзакциями бронирования/отмены,
// никогда арифметикой на стороне клиента.
type Slot struct {
	ID             int       `json:"id" db:"id"`
	VenueID        int       `json:"venue_id" db:"venue_id"`
	Date           time.Time `json:"date" db:"date"`
	DayOfWeek      string    `json:"day_of_week" db:"day_of_week"`
	StartTime      string    `json:"start_time" db:"start_time"`
	EndTime        string    `json:"end_time" db:"end_time"`
	MaxPlayers     int       `json:"max_players" db:"max_players"`
	CurrentPlayers int       `json:"current_players" db:"current_players"`
	Completed      bool      `json:"completed" db:"completed"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`

	Venue *Venue `json:"venue,omitempty" db:"-"`
}
