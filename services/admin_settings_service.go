package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/courtbook/booking-system/models"
	"github.com/courtbook/booking-system/repositories"
)

type AdminSettingsService interface {
	GetSettings(ctx context.Context, adminID, venueID int) (*models.AdminSettings, error)
	UpsertSettings(ctx context.Context, adminID, venueID int, allowBookingWithoutCoins bool) (*models.AdminSettings, error)
}

type adminSettingsService struct {
	settingsRepo repositories.AdminSettingsRepository
	venueRepo    repositories.VenueRepository
}

func NewAdminSettingsService(settingsRepo repositories.AdminSettingsRepository, venueRepo repositories.VenueRepository) AdminSettingsService {
	return &adminSettingsService{
		settingsRepo: settingsRepo,
		venueRepo:    venueRepo,
	}
}

// GetSettings: отсутствие записи не ошибка, а политика по умолчанию.
func (s *adminSettingsService) GetSettings(ctx context.Context, adminID, venueID int) (*models.AdminSettings, error) {
	venue, err := s.getOwnedVenue(ctx, adminID, venueID)
	if err != nil {
		return nil, err
	}

	settings, err := s.settingsRepo.GetByVenue(ctx, venueID)
	if err != nil {
		if errors.Is(err, repositories.ErrAdminSettingsNotFound) {
			return &models.AdminSettings{
				VenueID:                  venueID,
				AdminID:                  venue.AdminID,
				AllowBookingWithoutCoins: false,
			}, nil
		}
		return nil, err
	}
	return settings, nil
}

func (s *adminSettingsService) UpsertSettings(ctx context.Context, adminID, venueID int, allowBookingWithoutCoins bool) (*models.AdminSettings, error) {
	if _, err := s.getOwnedVenue(ctx, adminID, venueID); err != nil {
		return nil, err
	}

	settings := &models.AdminSettings{
		VenueID:                  venueID,
		AdminID:                  adminID,
		AllowBookingWithoutCoins: allowBookingWithoutCoins,
	}
	if err := s.settingsRepo.Upsert(ctx, settings); err != nil {
		return nil, fmt.Errorf("failed to upsert admin settings: %w", err)
	}
	return settings, nil
}

func (s *adminSettingsService) getOwnedVenue(ctx context.Context, adminID, venueID int) (*models.Venue, error) {
	venue, err := s.venueRepo.GetByID(ctx, venueID)
	if err != nil {
		if errors.Is(err, repositories.ErrVenueNotFound) {
			return nil, ErrVenueNotFound
		}
		return nil, err
	}
	if venue.AdminID != adminID {
		return nil, ErrVenueNotOwned
	}
	return venue, nil
}
