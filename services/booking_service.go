package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/courtbook/booking-system/live"
	"github.com/courtbook/booking-system/models"
	"github.com/courtbook/booking-system/repositories"
)

type BookingService interface {
	// BookSlot создаёт бронирование, занимает место в слоте и списывает
	// монету (если политика площадки этого требует) одной транзакцией.
	BookSlot(ctx context.Context, userID, slotID int) (*models.Booking, error)
	// CancelBooking отменяет бронирование владельца или администратора
	// площадки; монета возвращается, если слот ещё не прошёл.
	CancelBooking(ctx context.Context, requesterID int, requesterRole models.UserRole, bookingID int) error
	CheckIn(ctx context.Context, adminID, bookingID int) (*models.Booking, error)
	ListUserBookings(ctx context.Context, userID int) ([]models.Booking, error)
	ListVenueBookings(ctx context.Context, adminID, venueID int) ([]models.Booking, error)
}

type bookingService struct {
	db           *sql.DB
	bookingRepo  repositories.BookingRepository
	slotRepo     repositories.SlotRepository
	userRepo     repositories.UserRepository
	venueRepo    repositories.VenueRepository
	settingsRepo repositories.AdminSettingsRepository
	hub          *live.Hub
	emailService *EmailService
	logger       *slog.Logger
}

func NewBookingService(
	db *sql.DB,
	bookingRepo repositories.BookingRepository,
	slotRepo repositories.SlotRepository,
	userRepo repositories.UserRepository,
	venueRepo repositories.VenueRepository,
	settingsRepo repositories.AdminSettingsRepository,
	hub *live.Hub,
	emailService *EmailService,
	logger *slog.Logger,
) BookingService {
	return &bookingService{
		db:           db,
		bookingRepo:  bookingRepo,
		slotRepo:     slotRepo,
		userRepo:     userRepo,
		venueRepo:    venueRepo,
		settingsRepo: settingsRepo,
		hub:          hub,
		emailService: emailService,
		logger:       logger,
	}
}

func (s *bookingService) BookSlot(ctx context.Context, userID, slotID int) (*models.Booking, error) {
	slot, err := s.slotRepo.GetByID(ctx, slotID)
	if err != nil {
		if errors.Is(err, repositories.ErrSlotNotFound) {
			return nil, ErrSlotNotFound
		}
		return nil, err
	}
	if slot.Completed || dateHasPassed(slot.Date, time.Now()) {
		return nil, ErrSlotAlreadyPassed
	}

	venue, err := s.venueRepo.GetByID(ctx, slot.VenueID)
	if err != nil {
		if errors.Is(err, repositories.ErrVenueNotFound) {
			return nil, ErrVenueNotFound
		}
		return nil, err
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	existing, err := s.bookingRepo.FindActiveByUserAndSlot(ctx, userID, slotID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrAlreadyBooked
	}

	allowWithoutCoins, err := s.allowBookingWithoutCoins(ctx, slot.VenueID)
	if err != nil {
		return nil, err
	}

	// Отказ ДО открытия транзакции: ни одной записи в БД.
	if !allowWithoutCoins && user.SlotCoins <= 0 {
		return nil, ErrInsufficientCoins
	}

	booking := &models.Booking{
		UserID:   userID,
		SlotID:   slotID,
		VenueID:  slot.VenueID,
		Status:   models.BookingConfirmed,
		UserName: user.Name,
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin booking transaction: %w", err)
	}

	err = func() error {
		if incErr := s.slotRepo.IncrementPlayers(ctx, tx, slotID); incErr != nil {
			if errors.Is(incErr, repositories.ErrSlotCapacity) {
				return ErrSlotFull
			}
			return incErr
		}
		if createErr := s.bookingRepo.Create(ctx, tx, booking); createErr != nil {
			if errors.Is(createErr, repositories.ErrBookingDuplicate) {
				return ErrAlreadyBooked
			}
			return createErr
		}
		if !allowWithoutCoins {
			if coinErr := s.userRepo.AdjustCoins(ctx, tx, userID, -1); coinErr != nil {
				if errors.Is(coinErr, repositories.ErrCoinBalanceLow) {
					return ErrInsufficientCoins
				}
				return coinErr
			}
		}
		return nil
	}()
	if err != nil {
		if rbErr := tx.Rollback(); rbErr != nil && s.logger != nil {
			s.logger.ErrorContext(ctx, "failed to rollback booking transaction", slog.Any("error", rbErr))
		}
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit booking transaction: %w", err)
	}

	slot.CurrentPlayers++
	s.broadcastSlotUpdate(slot)

	if s.emailService != nil {
		// Письмо не на критическом пути: сбой логируется и не
		// откатывает бронирование.
		go func(email string, data BookingEmailData) {
			if sendErr := s.emailService.SendBookingConfirmationEmail(email, data); sendErr != nil && s.logger != nil {
				s.logger.Error("failed to send booking confirmation email", slog.Any("error", sendErr))
			}
		}(user.Email, BookingEmailData{
			UserName:  user.Name,
			VenueName: venue.Name,
			Date:      slot.Date.Format("2006-01-02"),
			StartTime: slot.StartTime,
			EndTime:   slot.EndTime,
		})
	}

	return booking, nil
}

func (s *bookingService) CancelBooking(ctx context.Context, requesterID int, requesterRole models.UserRole, bookingID int) error {
	booking, err := s.bookingRepo.GetWithSlot(ctx, bookingID)
	if err != nil {
		if errors.Is(err, repositories.ErrBookingNotFound) {
			return ErrBookingNotFound
		}
		return err
	}
	if booking.Status == models.BookingCancelled {
		return ErrBookingAlreadyCancelled
	}

	if err := s.authorizeCancellation(ctx, requesterID, requesterRole, booking); err != nil {
		return err
	}

	// Монета возвращается за слот сегодня или позже; за прошедший — нет.
	refundCoin := !dateHasPassed(booking.Slot.Date, time.Now())

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin cancellation transaction: %w", err)
	}

	err = func() error {
		// Гард по статусу внутри транзакции: два конкурентных запроса на
		// отмену не спишут место и не вернут монету дважды.
		if updErr := s.bookingRepo.MarkCancelled(ctx, tx, bookingID); updErr != nil {
			if errors.Is(updErr, repositories.ErrBookingNotActive) {
				return ErrBookingAlreadyCancelled
			}
			if errors.Is(updErr, repositories.ErrBookingNotFound) {
				return ErrBookingNotFound
			}
			return updErr
		}
		if decErr := s.slotRepo.DecrementPlayers(ctx, tx, booking.SlotID); decErr != nil {
			return decErr
		}
		if refundCoin {
			if coinErr := s.userRepo.AdjustCoins(ctx, tx, booking.UserID, 1); coinErr != nil {
				return coinErr
			}
		}
		return nil
	}()
	if err != nil {
		if rbErr := tx.Rollback(); rbErr != nil && s.logger != nil {
			s.logger.ErrorContext(ctx, "failed to rollback cancellation transaction", slog.Any("error", rbErr))
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit cancellation transaction: %w", err)
	}

	if booking.Slot.CurrentPlayers > 0 {
		booking.Slot.CurrentPlayers--
	}
	s.broadcastSlotUpdate(booking.Slot)
	return nil
}

func (s *bookingService) CheckIn(ctx context.Context, adminID, bookingID int) (*models.Booking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, repositories.ErrBookingNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	if err := s.requireVenueOwnership(ctx, adminID, booking.VenueID); err != nil {
		return nil, err
	}

	if err := s.bookingRepo.SetCheckedIn(ctx, bookingID, true); err != nil {
		return nil, fmt.Errorf("failed to check in booking: %w", err)
	}
	booking.CheckedIn = true
	return booking, nil
}

func (s *bookingService) ListUserBookings(ctx context.Context, userID int) ([]models.Booking, error) {
	return s.bookingRepo.ListByUser(ctx, userID)
}

func (s *bookingService) ListVenueBookings(ctx context.Context, adminID, venueID int) ([]models.Booking, error) {
	if err := s.requireVenueOwnership(ctx, adminID, venueID); err != nil {
		return nil, err
	}
	return s.bookingRepo.ListByVenue(ctx, venueID)
}

// allowBookingWithoutCoins: отсутствие записи настроек означает
// политику по умолчанию — монета обязательна.
func (s *bookingService) allowBookingWithoutCoins(ctx context.Context, venueID int) (bool, error) {
	settings, err := s.settingsRepo.GetByVenue(ctx, venueID)
	if err != nil {
		if errors.Is(err, repositories.ErrAdminSettingsNotFound) {
			return false, nil
		}
		return false, err
	}
	return settings.AllowBookingWithoutCoins, nil
}

func (s *bookingService) authorizeCancellation(ctx context.Context, requesterID int, requesterRole models.UserRole, booking *models.Booking) error {
	if booking.UserID == requesterID {
		return nil
	}
	if requesterRole == models.RoleAdmin {
		return s.requireVenueOwnership(ctx, requesterID, booking.VenueID)
	}
	return ErrForbiddenOperation
}

func (s *bookingService) requireVenueOwnership(ctx context.Context, adminID, venueID int) error {
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

func (s *bookingService) broadcastSlotUpdate(slot *models.Slot) {
	if s.hub == nil || slot == nil {
		return
	}
	s.hub.BroadcastToRoom(strconv.Itoa(slot.VenueID), live.Message{
		Type: live.MessageSlotUpdated,
		Payload: map[string]interface{}{
			"slot_id":         slot.ID,
			"venue_id":        slot.VenueID,
			"current_players": slot.CurrentPlayers,
			"max_players":     slot.MaxPlayers,
		},
		RoomID: strconv.Itoa(slot.VenueID),
	})
}
