package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/courtbook/booking-system/models"
	"github.com/courtbook/booking-system/repositories"
	"github.com/courtbook/booking-system/storage"
	"github.com/google/uuid"
)

type VenueService interface {
	ListVenues(ctx context.Context) ([]models.Venue, error)
	ListOwnVenues(ctx context.Context, adminID int) ([]models.Venue, error)
	GetVenueByID(ctx context.Context, id int) (*models.Venue, error)
	CreateVenue(ctx context.Context, adminID int, input CreateVenueInput) (*models.Venue, error)
	UpdateVenue(ctx context.Context, adminID, venueID int, input UpdateVenueInput) (*models.Venue, error)
	DeleteVenue(ctx context.Context, adminID, venueID int) error
	UploadVenueImage(ctx context.Context, adminID, venueID int, contentType string, file io.Reader) (*models.Venue, error)
}

type CreateVenueInput struct {
	Name       string `json:"name"`
	Address    string `json:"address"`
	City       string `json:"city"`
	State      string `json:"state"`
	Zip        string `json:"zip"`
	CourtCount int    `json:"court_count"`
}

type UpdateVenueInput struct {
	Name       *string `json:"name"`
	Address    *string `json:"address"`
	City       *string `json:"city"`
	State      *string `json:"state"`
	Zip        *string `json:"zip"`
	CourtCount *int    `json:"court_count"`
}

type venueService struct {
	venueRepo repositories.VenueRepository
	uploader  storage.FileUploader
}

func NewVenueService(venueRepo repositories.VenueRepository, uploader storage.FileUploader) VenueService {
	return &venueService{
		venueRepo: venueRepo,
		uploader:  uploader,
	}
}

// ListVenues доступен всем, включая анонимных пользователей.
func (s *venueService) ListVenues(ctx context.Context) ([]models.Venue, error) {
	venues, err := s.venueRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	populateVenueListImageURLs(venues, s.uploader)
	return venues, nil
}

// ListOwnVenues отдаёт только площадки с admin_id вызывающего.
func (s *venueService) ListOwnVenues(ctx context.Context, adminID int) ([]models.Venue, error) {
	venues, err := s.venueRepo.ListByAdmin(ctx, adminID)
	if err != nil {
		return nil, err
	}
	populateVenueListImageURLs(venues, s.uploader)
	return venues, nil
}

func (s *venueService) GetVenueByID(ctx context.Context, id int) (*models.Venue, error) {
	venue, err := s.venueRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrVenueNotFound) {
			return nil, ErrVenueNotFound
		}
		return nil, err
	}
	populateVenueImageURL(venue, s.uploader)
	return venue, nil
}

func (s *venueService) CreateVenue(ctx context.Context, adminID int, input CreateVenueInput) (*models.Venue, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrVenueNameRequired
	}
	if input.CourtCount <= 0 {
		return nil, ErrVenueCourtsInvalid
	}

	venue := &models.Venue{
		AdminID:    adminID,
		Name:       name,
		Address:    strings.TrimSpace(input.Address),
		City:       strings.TrimSpace(input.City),
		State:      strings.TrimSpace(input.State),
		Zip:        strings.TrimSpace(input.Zip),
		CourtCount: input.CourtCount,
	}

	if err := s.venueRepo.Create(ctx, venue); err != nil {
		return nil, fmt.Errorf("failed to create venue: %w", err)
	}
	return venue, nil
}

func (s *venueService) UpdateVenue(ctx context.Context, adminID, venueID int, input UpdateVenueInput) (*models.Venue, error) {
	venue, err := s.getOwnedVenue(ctx, adminID, venueID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, ErrVenueNameRequired
		}
		venue.Name = name
	}
	if input.Address != nil {
		venue.Address = strings.TrimSpace(*input.Address)
	}
	if input.City != nil {
		venue.City = strings.TrimSpace(*input.City)
	}
	if input.State != nil {
		venue.State = strings.TrimSpace(*input.State)
	}
	if input.Zip != nil {
		venue.Zip = strings.TrimSpace(*input.Zip)
	}
	if input.CourtCount != nil {
		if *input.CourtCount <= 0 {
			return nil, ErrVenueCourtsInvalid
		}
		venue.CourtCount = *input.CourtCount
	}

	if err := s.venueRepo.Update(ctx, venue); err != nil {
		return nil, fmt.Errorf("failed to update venue: %w", err)
	}
	populateVenueImageURL(venue, s.uploader)
	return venue, nil
}

func (s *venueService) DeleteVenue(ctx context.Context, adminID, venueID int) error {
	venue, err := s.getOwnedVenue(ctx, adminID, venueID)
	if err != nil {
		return err
	}

	if err := s.venueRepo.Delete(ctx, venueID); err != nil {
		return fmt.Errorf("failed to delete venue: %w", err)
	}

	// Картинка в хранилище необязательна для консистентности:
	// её потеря не ломает данные.
	if venue.ImageKey != nil && *venue.ImageKey != "" && s.uploader != nil {
		_ = s.uploader.Delete(ctx, *venue.ImageKey)
	}
	return nil
}

func (s *venueService) UploadVenueImage(ctx context.Context, adminID, venueID int, contentType string, file io.Reader) (*models.Venue, error) {
	venue, err := s.getOwnedVenue(ctx, adminID, venueID)
	if err != nil {
		return nil, err
	}
	if s.uploader == nil {
		return nil, errors.New("file uploader is not configured")
	}

	ext, err := GetExtensionFromContentType(contentType)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidationFailed, err)
	}

	key := fmt.Sprintf("venues/%d/%s%s", venueID, uuid.NewString(), ext)
	if _, err := s.uploader.Upload(ctx, key, contentType, file); err != nil {
		return nil, fmt.Errorf("failed to upload venue image: %w", err)
	}

	oldKey := venue.ImageKey
	if err := s.venueRepo.UpdateImageKey(ctx, venueID, &key); err != nil {
		return nil, fmt.Errorf("failed to store venue image key: %w", err)
	}
	if oldKey != nil && *oldKey != "" {
		_ = s.uploader.Delete(ctx, *oldKey)
	}

	venue.ImageKey = &key
	populateVenueImageURL(venue, s.uploader)
	return venue, nil
}

// getOwnedVenue загружает площадку и сверяет admin_id ДО любой записи.
// Чужая площадка означает отказ без единого запроса на изменение.
func (s *venueService) getOwnedVenue(ctx context.Context, adminID, venueID int) (*models.Venue, error) {
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
