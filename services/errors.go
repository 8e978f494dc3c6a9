package services

import "errors"

// Общие ошибки, используемые в разных сервисах и маппинге HTTP.
var (
	// Ошибки валидации и бизнес-правил
	ErrValidationFailed      = errors.New("validation failed")
	ErrPasswordTooShort      = errors.New("password is too short")
	ErrVenueNameRequired     = errors.New("venue name is required")
	ErrVenueCourtsInvalid    = errors.New("venue court count must be positive")
	ErrSlotCapacityInvalid   = errors.New("slot max players must be positive")
	ErrSlotTimeInvalid       = errors.New("slot end time must be after start time")
	ErrSlotDateRequired      = errors.New("slot date is required")
	ErrPaymentAmountInvalid  = errors.New("payment amount must be positive")
	ErrPaymentCountInvalid   = errors.New("payment slot count must be positive")
	ErrCoinAdjustmentInvalid = errors.New("coin adjustment would make the balance negative")

	// Правила бронирования
	ErrInsufficientCoins       = errors.New("insufficient slot coins to book")
	ErrSlotFull                = errors.New("slot is already at full capacity")
	ErrSlotAlreadyPassed       = errors.New("slot date has already passed")
	ErrAlreadyBooked           = errors.New("slot is already booked by this user")
	ErrBookingAlreadyCancelled = errors.New("booking is already cancelled")

	// Ошибки аутентификации и авторизации
	ErrAuthInvalidCredentials = errors.New("invalid email or password")
	ErrAuthEmailTaken         = errors.New("email is already taken")
	ErrForbiddenOperation     = errors.New("operation not allowed for the current user")
	ErrVenueNotOwned          = errors.New("venue is not owned by the current admin")

	// Ошибки, специфичные для сущностей
	ErrUserNotFound          = errors.New("user not found")
	ErrVenueNotFound         = errors.New("venue not found")
	ErrSlotNotFound          = errors.New("slot not found")
	ErrBookingNotFound       = errors.New("booking not found")
	ErrPaymentConfigNotFound = errors.New("payment config not found")

	// Платёжный шлюз
	ErrCheckoutFailed          = errors.New("failed to create checkout session")
	ErrWebhookSignatureInvalid = errors.New("webhook signature is invalid")
)
