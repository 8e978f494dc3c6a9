package services

import (
	"context"
	"testing"

	"github.com/courtbook/booking-system/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetSettings_MissingRowDefaultsToCoinRequired(t *testing.T) {
	venues := newFakeVenueRepo(&models.Venue{ID: 1, AdminID: 50, Name: "A", CourtCount: 2})
	svc := NewAdminSettingsService(newFakeSettingsRepo(), venues)

	settings, err := svc.GetSettings(context.Background(), 50, 1)
	require.NoError(t, err)

	assert.Equal(t, 1, settings.VenueID)
	assert.False(t, settings.AllowBookingWithoutCoins)
}

func TestUpsertSettings_OwnerOnly(t *testing.T) {
	venues := newFakeVenueRepo(&models.Venue{ID: 1, AdminID: 50, Name: "A", CourtCount: 2})
	settingsRepo := newFakeSettingsRepo()
	svc := NewAdminSettingsService(settingsRepo, venues)

	_, err := svc.UpsertSettings(context.Background(), 51, 1, true)
	assert.ErrorIs(t, err, ErrVenueNotOwned)
	assert.Empty(t, settingsRepo.byVenue)

	settings, err := svc.UpsertSettings(context.Background(), 50, 1, true)
	require.NoError(t, err)
	assert.True(t, settings.AllowBookingWithoutCoins)

	// Повторный upsert переключает политику обратно.
	settings, err = svc.UpsertSettings(context.Background(), 50, 1, false)
	require.NoError(t, err)
	assert.False(t, settings.AllowBookingWithoutCoins)
}

func TestGetSettings_UnknownVenue(t *testing.T) {
	svc := NewAdminSettingsService(newFakeSettingsRepo(), newFakeVenueRepo())

	_, err := svc.GetSettings(context.Background(), 50, 999)
	assert.ErrorIs(t, err, ErrVenueNotFound)
}
