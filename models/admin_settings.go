package models

// AdminSettings — политика бронирования площадки.
type AdminSettings struct {
	ID                       int  `json:"id" db:"id"`
	VenueID                  int  `json:"venue_id" db:"venue_id"`
	AdminID                  int  `json:"admin_id" db:"admin_id"`
	AllowBookingWithoutCoins bool `json:"allow_booking_without_coins" db:"allow_booking_without_coins"`
}
