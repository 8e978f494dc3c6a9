package models

import "time"

// PaymentConfig — пакет монет площадки: сколько стоит SlotCount монет.
type PaymentConfig struct {
	ID          int       `json:"id" db:"id"`
	VenueID     int       `json:"venue_id" db:"venue_id"`
	SlotCount   int       `json:"slot_count" db:"slot_count"`
	AmountCents int       `json:"amount_cents" db:"amount_cents"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}
