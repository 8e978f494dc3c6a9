package handlers

import (
	"net/http"

	"github.com/courtbook/booking-system/middleware"
	"github.com/courtbook/booking-system/services"
)

type SettingsHandler struct {
	settingsService services.AdminSettingsService
}

func NewSettingsHandler(ss services.AdminSettingsService) *SettingsHandler {
	return &SettingsHandler{
		settingsService: ss,
	}
}

func (h *SettingsHandler) GetSettings(w http.ResponseWriter, r *http.Request) {
	adminID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "failed to identify current user")
		return
	}

	venueID, err := getIDFromURL(r, "venueID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	settings, err := h.settingsService.GetSettings(r.Context(), adminID, venueID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{"settings": settings}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *SettingsHandler) UpsertSettings(w http.ResponseWriter, r *http.Request) {
	adminID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "failed to identify current user")
		return
	}

	venueID, err := getIDFromURL(r, "venueID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input struct {
		AllowBookingWithoutCoins bool `json:"allow_booking_without_coins"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	settings, err := h.settingsService.UpsertSettings(r.Context(), adminID, venueID, input.AllowBookingWithoutCoins)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{"settings": settings}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
