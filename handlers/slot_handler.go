package handlers

import (
	"net/http"

	"github.com/courtbook/booking-system/middleware"
	"github.com/courtbook/booking-system/services"
)

type SlotHandler struct {
	slotService services.SlotService
}

func NewSlotHandler(ss services.SlotService) *SlotHandler {
	return &SlotHandler{
		slotService: ss,
	}
}

// ListSlots отдаёт слоты площадки; ?historical=true переключает
// на прошедшие слоты.
func (h *SlotHandler) ListSlots(w http.ResponseWriter, r *http.Request) {
	venueID, err := getIDFromURL(r, "venueID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	historical := r.URL.Query().Get("historical") == "true"

	slots, err := h.slotService.ListSlots(r.Context(), venueID, historical)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{"slots": slots}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *SlotHandler) GetSlotByID(w http.ResponseWriter, r *http.Request) {
	slotID, err := getIDFromURL(r, "slotID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	slot, err := h.slotService.GetSlotByID(r.Context(), slotID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{"slot": slot}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *SlotHandler) CreateSlot(w http.ResponseWriter, r *http.Request) {
	adminID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "failed to identify current user")
		return
	}

	var input services.CreateSlotInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	slot, err := h.slotService.CreateSlot(r.Context(), adminID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{"slot": slot}
	if err := writeJSON(w, http.StatusCreated, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *SlotHandler) UpdateSlot(w http.ResponseWriter, r *http.Request) {
	adminID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "failed to identify current user")
		return
	}

	slotID, err := getIDFromURL(r, "slotID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.UpdateSlotInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	slot, err := h.slotService.UpdateSlot(r.Context(), adminID, slotID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{"slot": slot}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *SlotHandler) DeleteSlot(w http.ResponseWriter, r *http.Request) {
	adminID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "failed to identify current user")
		return
	}

	slotID, err := getIDFromURL(r, "slotID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.slotService.DeleteSlot(r.Context(), adminID, slotID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
