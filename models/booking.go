package models

import "time"

// BookingStatus соответствует ENUM booking_status в БД.
type BookingStatus string

const (
	BookingConfirmed BookingStatus = "confirmed"
	BookingCancelled BookingStatus = "cancelled"
)

// Booking связывает пользователя со слотом и его площадкой.
// UserName денормализовано для списков администратора.
type Booking struct {
	ID        int           `json:"id" db:"id"`
	UserID    int           `json:"user_id" db:"user_id"`
	SlotID    int           `json:"slot_id" db:"slot_id"`
	VenueID   int           `json:"venue_id" db:"venue_id"`
	Status    BookingStatus `json:"status" db:"status"`
	CheckedIn bool          `json:"checked_in" db:"checked_in"`
	UserName  string        `json:"user_name" db:"user_name"`
	CreatedAt time.Time     `json:"created_at" db:"created_at"`

	Slot  *Slot  `json:"slot,omitempty" db:"-"`
	Venue *Venue `json:"venue,omitempty" db:"-"`
}
