package models

type DashboardStats struct {
	VenuesTotal       int `json:"venues_total"`
	UpcomingSlots     int `json:"upcoming_slots"`
	ConfirmedBookings int `json:"confirmed_bookings"`
	DistinctPlayers   int `json:"distinct_players"`
}
