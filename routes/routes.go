package routes

import (
	"github.com/courtbook/booking-system/handlers"
	"github.com/courtbook/booking-system/middleware"
	"github.com/courtbook/booking-system/models"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware" // Alias to avoid conflict
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"
)

type Handlers struct {
	Auth      *handlers.AuthHandler
	User      *handlers.UserHandler
	Venue     *handlers.VenueHandler
	Slot      *handlers.SlotHandler
	Booking   *handlers.BookingHandler
	Settings  *handlers.SettingsHandler
	Payment   *handlers.PaymentHandler
	Dashboard *handlers.DashboardHandler
	WebSocket *handlers.WebSocketHandler
}

func SetupRoutes(router *chi.Mux, h Handlers, jwtSecret string, loginLimiter *middleware.RateLimiter) {
	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)

	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	router.Get("/swagger/*", httpSwagger.WrapHandler)

	authenticate := middleware.Authenticate([]byte(jwtSecret))
	adminOnly := middleware.RequireRole(models.RoleAdmin)

	router.Post("/auth/register", h.Auth.Register)
	router.With(loginLimiter.Limit).Post("/auth/login", h.Auth.Login)

	// Платёжный шлюз аутентифицируется подписью, а не JWT.
	router.Post("/payments/webhook", h.Payment.HandleWebhook)

	router.Route("/venues", func(r chi.Router) {
		// Публичные маршруты: списки площадок и слотов доступны без входа.
		r.Get("/", h.Venue.ListVenues)
		r.Get("/{venueID}", h.Venue.GetVenueByID)
		r.Get("/{venueID}/slots", h.Slot.ListSlots)
		r.Get("/{venueID}/payment-configs", h.Payment.ListConfigs)

		r.Group(func(r chi.Router) {
			r.Use(authenticate)
			r.Use(adminOnly)

			r.Post("/", h.Venue.CreateVenue)
			r.Get("/mine", h.Venue.ListOwnVenues)
			r.Put("/{venueID}", h.Venue.UpdateVenue)
			r.Delete("/{venueID}", h.Venue.DeleteVenue)
			r.Post("/{venueID}/image", h.Venue.UploadVenueImage)

			r.Get("/{venueID}/bookings", h.Booking.ListVenueBookings)
			r.Get("/{venueID}/settings", h.Settings.GetSettings)
			r.Put("/{venueID}/settings", h.Settings.UpsertSettings)
		})
	})

	router.Route("/slots", func(r chi.Router) {
		r.Get("/{slotID}", h.Slot.GetSlotByID)

		r.Group(func(r chi.Router) {
			r.Use(authenticate)
			r.Use(adminOnly)

			r.Post("/", h.Slot.CreateSlot)
			r.Put("/{slotID}", h.Slot.UpdateSlot)
			r.Delete("/{slotID}", h.Slot.DeleteSlot)
		})
	})

	router.Route("/bookings", func(r chi.Router) {
		r.Use(authenticate)

		r.Post("/", h.Booking.BookSlot)
		r.Get("/my", h.Booking.ListMyBookings)
		r.Post("/{bookingID}/cancel", h.Booking.CancelBooking)

		r.With(adminOnly).Post("/{bookingID}/check-in", h.Booking.CheckIn)
	})

	router.Route("/users", func(r chi.Router) {
		r.Use(authenticate)

		r.Get("/me", h.User.GetProfile)
		r.Put("/me", h.User.UpdateProfile)

		r.Group(func(r chi.Router) {
			r.Use(adminOnly)

			r.Get("/", h.User.ListUsers)
			r.Post("/{userID}/coins", h.User.AdjustCoins)
			r.Post("/{userID}/promote", h.User.PromoteToAdmin)
		})
	})

	router.Route("/payments", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(authenticate)

			r.Post("/checkout", h.Payment.CreateCheckout)

			r.Group(func(r chi.Router) {
				r.Use(adminOnly)

				r.Post("/configs", h.Payment.CreateConfig)
				r.Put("/configs/{configID}", h.Payment.UpdateConfig)
				r.Delete("/configs/{configID}", h.Payment.DeleteConfig)
			})
		})
	})

	router.Route("/dashboard", func(r chi.Router) {
		r.Use(authenticate)
		r.Use(adminOnly)

		r.Get("/stats", h.Dashboard.GetStats)
	})

	router.Get("/ws/venues/{venueID}", h.WebSocket.ServeWs)
}
