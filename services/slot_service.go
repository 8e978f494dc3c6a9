package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/courtbook/booking-system/models"
	"github.com/courtbook/booking-system/repositories"
)

type SlotService interface {
	ListSlots(ctx context.Context, venueID int, historical bool) ([]models.Slot, error)
	GetSlotByID(ctx context.Context, id int) (*models.Slot, error)
	CreateSlot(ctx context.Context, adminID int, input CreateSlotInput) (*models.Slot, error)
	UpdateSlot(ctx context.Context, adminID, slotID int, input UpdateSlotInput) (*models.Slot, error)
	DeleteSlot(ctx context.Context, adminID, slotID int) error
	CompletePastSlots(ctx context.Context) error
}

type CreateSlotInput struct {
	VenueID    int       `json:"venue_id"`
	Date       time.Time `json:"date"`
	StartTime  string    `json:"start_time"`
	EndTime    string    `json:"end_time"`
	MaxPlayers int       `json:"max_players"`
}

type UpdateSlotInput struct {
	Date       *time.Time `json:"date"`
	StartTime  *string    `json:"start_time"`
	EndTime    *string    `json:"end_time"`
	MaxPlayers *int       `json:"max_players"`
}

type slotService struct {
	slotRepo  repositories.SlotRepository
	venueRepo repositories.VenueRepository
	logger    *slog.Logger
}

func NewSlotService(slotRepo repositories.SlotRepository, venueRepo repositories.VenueRepository, logger *slog.Logger) SlotService {
	return &slotService{
		slotRepo:  slotRepo,
		venueRepo: venueRepo,
		logger:    logger,
	}
}

func (s *slotService) ListSlots(ctx context.Context, venueID int, historical bool) ([]models.Slot, error) {
	if _, err := s.venueRepo.GetByID(ctx, venueID); err != nil {
		if errors.Is(err, repositories.ErrVenueNotFound) {
			return nil, ErrVenueNotFound
		}
		return nil, err
	}
	return s.slotRepo.ListByVenue(ctx, venueID, historical)
}

func (s *slotService) GetSlotByID(ctx context.Context, id int) (*models.Slot, error) {
	slot, err := s.slotRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrSlotNotFound) {
			return nil, ErrSlotNotFound
		}
		return nil, err
	}
	return slot, nil
}

// CreateSlot требует владения площадкой. Исторически изменения слотов
// не проверяли владельца вовсе, изменения площадок проверяли; здесь обе
// ветки приведены к строгой проверке.
func (s *slotService) CreateSlot(ctx context.Context, adminID int, input CreateSlotInput) (*models.Slot, error) {
	if err := s.requireVenueOwnership(ctx, adminID, input.VenueID); err != nil {
		return nil, err
	}
	if input.Date.IsZero() {
		return nil, ErrSlotDateRequired
	}
	if input.MaxPlayers <= 0 {
		return nil, ErrSlotCapacityInvalid
	}
	if input.StartTime == "" || input.EndTime == "" || input.EndTime <= input.StartTime {
		return nil, ErrSlotTimeInvalid
	}

	slot := &models.Slot{
		VenueID:    input.VenueID,
		Date:       input.Date,
		DayOfWeek:  input.Date.Weekday().String(),
		StartTime:  input.StartTime,
		EndTime:    input.EndTime,
		MaxPlayers: input.MaxPlayers,
	}

	if err := s.slotRepo.Create(ctx, slot); err != nil {
		return nil, fmt.Errorf("failed to create slot: %w", err)
	}
	return slot, nil
}

func (s *slotService) UpdateSlot(ctx context.Context, adminID, slotID int, input UpdateSlotInput) (*models.Slot, error) {
	slot, err := s.getOwnedSlot(ctx, adminID, slotID)
	if err != nil {
		return nil, err
	}

	if input.Date != nil {
		if input.Date.IsZero() {
			return nil, ErrSlotDateRequired
		}
		slot.Date = *input.Date
		slot.DayOfWeek = input.Date.Weekday().String()
	}
	if input.StartTime != nil {
		slot.StartTime = *input.StartTime
	}
	if input.EndTime != nil {
		slot.EndTime = *input.EndTime
	}
	if slot.StartTime == "" || slot.EndTime == "" || slot.EndTime <= slot.StartTime {
		return nil, ErrSlotTimeInvalid
	}
	if input.MaxPlayers != nil {
		if *input.MaxPlayers <= 0 || *input.MaxPlayers < slot.CurrentPlayers {
			return nil, ErrSlotCapacityInvalid
		}
		slot.MaxPlayers = *input.MaxPlayers
	}

	if err := s.slotRepo.Update(ctx, slot); err != nil {
		return nil, fmt.Errorf("failed to update slot: %w", err)
	}
	return slot, nil
}

func (s *slotService) DeleteSlot(ctx context.Context, adminID, slotID int) error {
	if _, err := s.getOwnedSlot(ctx, adminID, slotID); err != nil {
		return err
	}
	if err := s.slotRepo.Delete(ctx, slotID); err != nil {
		return fmt.Errorf("failed to delete slot: %w", err)
	}
	return nil
}

// CompletePastSlots вызывается планировщиком из main.
func (s *slotService) CompletePastSlots(ctx context.Context) error {
	marked, err := s.slotRepo.MarkCompletedBefore(ctx, time.Now())
	if err != nil {
		return fmt.Errorf("failed to mark past slots completed: %w", err)
	}
	if marked > 0 && s.logger != nil {
		s.logger.InfoContext(ctx, "marked past slots completed", slog.Int64("count", marked))
	}
	return nil
}

func (s *slotService) getOwnedSlot(ctx context.Context, adminID, slotID int) (*models.Slot, error) {
	slot, err := s.slotRepo.GetByID(ctx, slotID)
	if err != nil {
		if errors.Is(err, repositories.ErrSlotNotFound) {
			return nil, ErrSlotNotFound
		}
		return nil, err
	}
	if err := s.requireVenueOwnership(ctx, adminID, slot.VenueID); err != nil {
		return nil, err
	}
	return slot, nil
}

func (s *slotService) requireVenueOwnership(ctx context.Context, adminID, venueID int) error {
	venue, err := s.venueRepo.GetByID(ctx, venueID)
	if err != nil {
		if errors.Is(err, repositories.ErrVenueNotFound) {
			return ErrVenueNotFound
		}
		return err
	}
	if venue.AdminID != adminID {
		return ErrVenueNotOwned
	}
	return nil
}
