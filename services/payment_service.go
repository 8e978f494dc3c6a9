package services

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/courtbook/booking-system/models"
	"github.com/courtbook/booking-system/payments"
	"github.com/courtbook/booking-system/repositories"
	"github.com/google/uuid"
)

type PaymentService interface {
	ListConfigs(ctx context.Context, venueID int) ([]models.PaymentConfig, error)
	CreateConfig(ctx context.Context, adminID int, input PaymentConfigInput) (*models.PaymentConfig, error)
	UpdateConfig(ctx context.Context, adminID, configID int, input PaymentConfigInput) (*models.PaymentConfig, error)
	DeleteConfig(ctx context.Context, adminID, configID int) error
	// CreateCheckout возвращает URL платёжного шлюза для редиректа.
	CreateCheckout(ctx context.Context, userID, configID int) (string, error)
	// HandleWebhook сверяет HMAC-подпись и зачисляет монеты покупателю.
	HandleWebhook(ctx context.Context, body []byte, signature string) error
}

type PaymentConfigInput struct {
	VenueID     int `json:"venue_id"`
	SlotCount   int `json:"slot_count"`
	AmountCents int `json:"amount_cents"`
}

// WebhookEvent — payload, который шлёт платёжный шлюз после оплаты.
type WebhookEvent struct {
	Reference string `json:"reference"`
	UserID    int    `json:"user_id"`
	ConfigID  int    `json:"config_id"`
	Status    string `json:"status"`
}

type paymentService struct {
	configRepo     repositories.PaymentConfigRepository
	venueRepo      repositories.VenueRepository
	userRepo       repositories.UserRepository
	checkoutClient payments.CheckoutClient
	webhookSecret  string
	publicURL      string
	logger         *slog.Logger
}

func NewPaymentService(
	configRepo repositories.PaymentConfigRepository,
	venueRepo repositories.VenueRepository,
	userRepo repositories.UserRepository,
	checkoutClient payments.CheckoutClient,
	webhookSecret string,
	publicURL string,
	logger *slog.Logger,
) PaymentService {
	return &paymentService{
		configRepo:     configRepo,
		venueRepo:      venueRepo,
		userRepo:       userRepo,
		checkoutClient: checkoutClient,
		webhookSecret:  webhookSecret,
		publicURL:      publicURL,
		logger:         logger,
	}
}

func (s *paymentService) ListConfigs(ctx context.Context, venueID int) ([]models.PaymentConfig, error) {
	return s.configRepo.ListByVenue(ctx, venueID)
}

func (s *paymentService) CreateConfig(ctx context.Context, adminID int, input PaymentConfigInput) (*models.PaymentConfig, error) {
	if err := s.requireVenueOwnership(ctx, adminID, input.VenueID); err != nil {
		return nil, err
	}
	if input.SlotCount <= 0 {
		return nil, ErrPaymentCountInvalid
	}
	if input.AmountCents <= 0 {
		return nil, ErrPaymentAmountInvalid
	}

	config := &models.PaymentConfig{
		VenueID:     input.VenueID,
		SlotCount:   input.SlotCount,
		AmountCents: input.AmountCents,
	}
	if err := s.configRepo.Create(ctx, config); err != nil {
		return nil, fmt.Errorf("failed to create payment config: %w", err)
	}
	return config, nil
}

func (s *paymentService) UpdateConfig(ctx context.Context, adminID, configID int, input PaymentConfigInput) (*models.PaymentConfig, error) {
	config, err := s.getOwnedConfig(ctx, adminID, configID)
	if err != nil {
		return nil, err
	}
	if input.SlotCount <= 0 {
		return nil, ErrPaymentCountInvalid
	}
	if input.AmountCents <= 0 {
		return nil, ErrPaymentAmountInvalid
	}

	config.SlotCount = input.SlotCount
	config.AmountCents = input.AmountCents
	if err := s.configRepo.Update(ctx, config); err != nil {
		return nil, fmt.Errorf("failed to update payment config: %w", err)
	}
	return config, nil
}

func (s *paymentService) DeleteConfig(ctx context.Context, adminID, configID int) error {
	if _, err := s.getOwnedConfig(ctx, adminID, configID); err != nil {
		return err
	}
	if err := s.configRepo.Delete(ctx, configID); err != nil {
		return fmt.Errorf("failed to delete payment config: %w", err)
	}
	return nil
}

func (s *paymentService) CreateCheckout(ctx context.Context, userID, configID int) (string, error) {
	config, err := s.configRepo.GetByID(ctx, configID)
	if err != nil {
		if errors.Is(err, repositories.ErrPaymentConfigNotFound) {
			return "", ErrPaymentConfigNotFound
		}
		return "", err
	}

	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return "", ErrUserNotFound
		}
		return "", err
	}

	req := payments.CheckoutRequest{
		Reference:   uuid.NewString(),
		UserID:      userID,
		ConfigID:    config.ID,
		SlotCount:   config.SlotCount,
		AmountCents: config.AmountCents,
		SuccessURL:  s.publicURL + "/payments/success",
		CancelURL:   s.publicURL + "/payments/cancel",
	}

	redirectURL, err := s.checkoutClient.CreateCheckoutSession(ctx, req)
	if err != nil {
		if s.logger != nil {
			s.logger.ErrorContext(ctx, "checkout session creation failed", slog.Any("error", err))
		}
		return "", ErrCheckoutFailed
	}
	return redirectURL, nil
}

func (s *paymentService) HandleWebhook(ctx context.Context, body []byte, signature string) error {
	if !s.verifySignature(body, signature) {
		return ErrWebhookSignatureInvalid
	}

	var event WebhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return fmt.Errorf("%w: %v", ErrValidationFailed, err)
	}
	if event.Status != "paid" {
		// Шлюз ретранслирует и незавершённые статусы; монеты
		// зачисляются только за оплаченные.
		return nil
	}

	config, err := s.configRepo.GetByID(ctx, event.ConfigID)
	if err != nil {
		if errors.Is(err, repositories.ErrPaymentConfigNotFound) {
			return ErrPaymentConfigNotFound
		}
		return err
	}

	if err := s.userRepo.AdjustCoins(ctx, nil, event.UserID, config.SlotCount); err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	if s.logger != nil {
		s.logger.InfoContext(ctx, "slot coins credited",
			slog.Int("user_id", event.UserID),
			slog.Int("coins", config.SlotCount),
			slog.String("reference", event.Reference),
		)
	}
	return nil
}

func (s *paymentService) verifySignature(body []byte, signature string) bool {
	mac := hmac.New(sha256.New, []byte(s.webhookSecret))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}

func (s *paymentService) getOwnedConfig(ctx context.Context, adminID, configID int) (*models.PaymentConfig, error) {
	config, err := s.configRepo.GetByID(ctx, configID)
	if err != nil {
		if errors.Is(err, repositories.ErrPaymentConfigNotFound) {
			return nil, ErrPaymentConfigNotFound
		}
		return nil, err
	}
	if err := s.requireVenueOwnership(ctx, adminID, config.VenueID); err != nil {
		return nil, err
	}
	return config, nil
}

func (s *paymentService) requireVenueOwnership(ctx context.Context, adminID, venueID int) error {
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
