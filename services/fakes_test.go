package services

import (
	"context"
	"time"

	"github.com/courtbook/booking-system/models"
	"github.com/courtbook/booking-system/payments"
	"github.com/courtbook/booking-system/repositories"
)

// Фейковые репозитории держат состояние в памяти и считают записи,
// чтобы тесты могли проверить отсутствие побочных эффектов при отказе.

type fakeUserRepo struct {
	users       map[int]*models.User
	adjustCalls int
}

func newFakeUserRepo(users ...*models.User) *fakeUserRepo {
	r := &fakeUserRepo{users: make(map[int]*models.User)}
	for _, u := range users {
		r.users[u.ID] = u
	}
	return r
}

func (r *fakeUserRepo) Create(ctx context.Context, user *models.User) error {
	user.ID = len(r.users) + 1
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id int) (*models.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, repositories.ErrUserNotFound
	}
	return user, nil
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

func (r *fakeUserRepo) UpdateProfile(ctx context.Context, user *models.User) error {
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) UpdateRole(ctx context.Context, id int, role models.UserRole) error {
	user, ok := r.users[id]
	if !ok {
		return repositories.ErrUserNotFound
	}
	user.Role = role
	return nil
}

func (r *fakeUserRepo) AdjustCoins(ctx context.Context, exec repositories.SQLExecutor, userID, delta int) error {
	user, ok := r.users[userID]
	if !ok {
		return repositories.ErrUserNotFound
	}
	if user.SlotCoins+delta < 0 {
		return repositories.ErrCoinBalanceLow
	}
	user.SlotCoins += delta
	r.adjustCalls++
	return nil
}

func (r *fakeUserRepo) List(ctx context.Context, filter repositories.UserFilter) ([]models.User, error) {
	var out []models.User
	for _, u := range r.users {
		out = append(out, *u)
	}
	return out, nil
}

type fakeVenueRepo struct {
	venues      map[int]*models.Venue
	updateCalls int
	deleteCalls int
}

func newFakeVenueRepo(venues ...*models.Venue) *fakeVenueRepo {
	r := &fakeVenueRepo{venues: make(map[int]*models.Venue)}
	for _, v := range venues {
		r.venues[v.ID] = v
	}
	return r
}

func (r *fakeVenueRepo) Create(ctx context.Context, venue *models.Venue) error {
	venue.ID = len(r.venues) + 1
	r.venues[venue.ID] = venue
	return nil
}

func (r *fakeVenueRepo) GetByID(ctx context.Context, id int) (*models.Venue, error) {
	venue, ok := r.venues[id]
	if !ok {
		return nil, repositories.ErrVenueNotFound
	}
	copied := *venue
	return &copied, nil
}

func (r *fakeVenueRepo) ListAll(ctx context.Context) ([]models.Venue, error) {
	var out []models.Venue
	for _, v := range r.venues {
		out = append(out, *v)
	}
	return out, nil
}

func (r *fakeVenueRepo) ListByAdmin(ctx context.Context, adminID int) ([]models.Venue, error) {
	var out []models.Venue
	for _, v := range r.venues {
		if v.AdminID == adminID {
			out = append(out, *v)
		}
	}
	return out, nil
}

func (r *fakeVenueRepo) Update(ctx context.Context, venue *models.Venue) error {
	if _, ok := r.venues[venue.ID]; !ok {
		return repositories.ErrVenueNotFound
	}
	r.venues[venue.ID] = venue
	r.updateCalls++
	return nil
}

func (r *fakeVenueRepo) UpdateImageKey(ctx context.Context, id int, imageKey *string) error {
	venue, ok := r.venues[id]
	if !ok {
		return repositories.ErrVenueNotFound
	}
	venue.ImageKey = imageKey
	return nil
}

func (r *fakeVenueRepo) Delete(ctx context.Context, id int) error {
	if _, ok := r.venues[id]; !ok {
		return repositories.ErrVenueNotFound
	}
	delete(r.venues, id)
	r.deleteCalls++
	return nil
}

func (r *fakeVenueRepo) CountByAdmin(ctx context.Context, adminID int) (int, error) {
	count := 0
	for _, v := range r.venues {
		if v.AdminID == adminID {
			count++
		}
	}
	return count, nil
}

type fakeSlotRepo struct {
	slots          map[int]*models.Slot
	incrementCalls int
	decrementCalls int
	updateCalls    int
	deleteCalls    int
}

func newFakeSlotRepo(slots ...*models.Slot) *fakeSlotRepo {
	r := &fakeSlotRepo{slots: make(map[int]*models.Slot)}
	for _, s := range slots {
		r.slots[s.ID] = s
	}
	return r
}

func (r *fakeSlotRepo) Create(ctx context.Context, slot *models.Slot) error {
	slot.ID = len(r.slots) + 1
	r.slots[slot.ID] = slot
	return nil
}

func (r *fakeSlotRepo) GetByID(ctx context.Context, id int) (*models.Slot, error) {
	slot, ok := r.slots[id]
	if !ok {
		return nil, repositories.ErrSlotNotFound
	}
	copied := *slot
	return &copied, nil
}

func (r *fakeSlotRepo) ListByVenue(ctx context.Context, venueID int, historical bool) ([]models.Slot, error) {
	var out []models.Slot
	for _, s := range r.slots {
		if s.VenueID == venueID {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (r *fakeSlotRepo) Update(ctx context.Context, slot *models.Slot) error {
	if _, ok := r.slots[slot.ID]; !ok {
		return repositories.ErrSlotNotFound
	}
	r.slots[slot.ID] = slot
	r.updateCalls++
	return nil
}

func (r *fakeSlotRepo) Delete(ctx context.Context, id int) error {
	if _, ok := r.slots[id]; !ok {
		return repositories.ErrSlotNotFound
	}
	delete(r.slots, id)
	r.deleteCalls++
	return nil
}

func (r *fakeSlotRepo) IncrementPlayers(ctx context.Context, exec repositories.SQLExecutor, slotID int) error {
	slot, ok := r.slots[slotID]
	if !ok {
		return repositories.ErrSlotNotFound
	}
	if slot.CurrentPlayers >= slot.MaxPlayers {
		return repositories.ErrSlotCapacity
	}
	slot.CurrentPlayers++
	r.incrementCalls++
	return nil
}

func (r *fakeSlotRepo) DecrementPlayers(ctx context.Context, exec repositories.SQLExecutor, slotID int) error {
	slot, ok := r.slots[slotID]
	if !ok {
		return nil
	}
	if slot.CurrentPlayers > 0 {
		slot.CurrentPlayers--
	}
	r.decrementCalls++
	return nil
}

func (r *fakeSlotRepo) MarkCompletedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	var marked int64
	for _, s := range r.slots {
		if !s.Completed && s.Date.Before(cutoff) {
			s.Completed = true
			marked++
		}
	}
	return marked, nil
}

func (r *fakeSlotRepo) CountUpcomingByAdmin(ctx context.Context, adminID int) (int, error) {
	return 0, nil
}

type fakeBookingRepo struct {
	bookings    map[int]*models.Booking
	nextID      int
	createCalls int
	statusCalls int
}

func newFakeBookingRepo(bookings ...*models.Booking) *fakeBookingRepo {
	r := &fakeBookingRepo{bookings: make(map[int]*models.Booking), nextID: 1}
	for _, b := range bookings {
		r.bookings[b.ID] = b
		if b.ID >= r.nextID {
			r.nextID = b.ID + 1
		}
	}
	return r
}

func (r *fakeBookingRepo) Create(ctx context.Context, exec repositories.SQLExecutor, booking *models.Booking) error {
	booking.ID = r.nextID
	r.nextID++
	r.bookings[booking.ID] = booking
	r.createCalls++
	return nil
}

func (r *fakeBookingRepo) GetByID(ctx context.Context, id int) (*models.Booking, error) {
	booking, ok := r.bookings[id]
	if !ok {
		return nil, repositories.ErrBookingNotFound
	}
	return booking, nil
}

func (r *fakeBookingRepo) GetWithSlot(ctx context.Context, id int) (*models.Booking, error) {
	return r.GetByID(ctx, id)
}

func (r *fakeBookingRepo) FindActiveByUserAndSlot(ctx context.Context, userID, slotID int) (*models.Booking, error) {
	for _, b := range r.bookings {
		if b.UserID == userID && b.SlotID == slotID && b.Status == models.BookingConfirmed {
			return b, nil
		}
	}
	return nil, nil
}

func (r *fakeBookingRepo) ListByUser(ctx context.Context, userID int) ([]models.Booking, error) {
	var out []models.Booking
	for _, b := range r.bookings {
		if b.UserID == userID {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (r *fakeBookingRepo) ListByVenue(ctx context.Context, venueID int) ([]models.Booking, error) {
	var out []models.Booking
	for _, b := range r.bookings {
		if b.VenueID == venueID {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (r *fakeBookingRepo) MarkCancelled(ctx context.Context, exec repositories.SQLExecutor, id int) error {
	booking, ok := r.bookings[id]
	if !ok {
		return repositories.ErrBookingNotFound
	}
	if booking.Status != models.BookingConfirmed {
		return repositories.ErrBookingNotActive
	}
	booking.Status = models.BookingCancelled
	r.statusCalls++
	return nil
}

func (r *fakeBookingRepo) SetCheckedIn(ctx context.Context, id int, checkedIn bool) error {
	booking, ok := r.bookings[id]
	if !ok {
		return repositories.ErrBookingNotFound
	}
	booking.CheckedIn = checkedIn
	return nil
}

func (r *fakeBookingRepo) CountConfirmedByAdmin(ctx context.Context, adminID int) (int, error) {
	return 0, nil
}

func (r *fakeBookingRepo) CountDistinctPlayersByAdmin(ctx context.Context, adminID int) (int, error) {
	return 0, nil
}

type fakeSettingsRepo struct {
	byVenue map[int]*models.AdminSettings
}

func newFakeSettingsRepo(settings ...*models.AdminSettings) *fakeSettingsRepo {
	r := &fakeSettingsRepo{byVenue: make(map[int]*models.AdminSettings)}
	for _, s := range settings {
		r.byVenue[s.VenueID] = s
	}
	return r
}

func (r *fakeSettingsRepo) GetByVenue(ctx context.Context, venueID int) (*models.AdminSettings, error) {
	settings, ok := r.byVenue[venueID]
	if !ok {
		return nil, repositories.ErrAdminSettingsNotFound
	}
	return settings, nil
}

func (r *fakeSettingsRepo) Upsert(ctx context.Context, settings *models.AdminSettings) error {
	r.byVenue[settings.VenueID] = settings
	return nil
}

type fakePaymentConfigRepo struct {
	configs map[int]*models.PaymentConfig
}

func newFakePaymentConfigRepo(configs ...*models.PaymentConfig) *fakePaymentConfigRepo {
	r := &fakePaymentConfigRepo{configs: make(map[int]*models.PaymentConfig)}
	for _, c := range configs {
		r.configs[c.ID] = c
	}
	return r
}

func (r *fakePaymentConfigRepo) Create(ctx context.Context, config *models.PaymentConfig) error {
	config.ID = len(r.configs) + 1
	r.configs[config.ID] = config
	return nil
}

func (r *fakePaymentConfigRepo) GetByID(ctx context.Context, id int) (*models.PaymentConfig, error) {
	config, ok := r.configs[id]
	if !ok {
		return nil, repositories.ErrPaymentConfigNotFound
	}
	return config, nil
}

func (r *fakePaymentConfigRepo) ListByVenue(ctx context.Context, venueID int) ([]models.PaymentConfig, error) {
	var out []models.PaymentConfig
	for _, c := range r.configs {
		if c.VenueID == venueID {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (r *fakePaymentConfigRepo) Update(ctx context.Context, config *models.PaymentConfig) error {
	if _, ok := r.configs[config.ID]; !ok {
		return repositories.ErrPaymentConfigNotFound
	}
	r.configs[config.ID] = config
	return nil
}

func (r *fakePaymentConfigRepo) Delete(ctx context.Context, id int) error {
	if _, ok := r.configs[id]; !ok {
		return repositories.ErrPaymentConfigNotFound
	}
	delete(r.configs, id)
	return nil
}

type fakeCheckoutClient struct {
	lastRequest payments.CheckoutRequest
	redirectURL string
	err         error
}

func (c *fakeCheckoutClient) CreateCheckoutSession(ctx context.Context, req payments.CheckoutRequest) (string, error) {
	c.lastRequest = req
	if c.err != nil {
		return "", c.err
	}
	return c.redirectURL, nil
}
