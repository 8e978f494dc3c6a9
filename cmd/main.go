package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/courtbook/booking-system/config"
	"github.com/courtbook/booking-system/db"
	"github.com/courtbook/booking-system/handlers"
	"github.com/courtbook/booking-system/live"
	"github.com/courtbook/booking-system/middleware"
	"github.com/courtbook/booking-system/payments"
	"github.com/courtbook/booking-system/repositories"
	api "github.com/courtbook/booking-system/routes"
	"github.com/courtbook/booking-system/services"
	"github.com/courtbook/booking-system/storage"
	"github.com/go-chi/chi/v5"
	_ "github.com/lib/pq"
	"golang.org/x/time/rate"
)

const schedulerInterval = 5 * time.Minute // How often past slots get swept

func main() {
	// Настройка логгера
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	// Загрузка конфигурации
	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("configuration loaded", slog.Int("port", cfg.ServerPort))

	// Подключение к базе данных
	dbConn, err := db.Connect(cfg.DatabaseURL, 5*time.Second)
	if err != nil {
		logger.Error("failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := dbConn.Close(); err != nil {
			logger.Error("failed to close database connection", slog.Any("error", err))
		} else {
			logger.Info("database connection closed")
		}
	}()
	logger.Info("database connection established")

	// Инициализация загрузчика файлов (Cloudflare R2)
	cloudflareUploader, err := storage.NewCloudflareR2Uploader(storage.CloudflareR2UploaderConfig{
		AccountID:       cfg.R2AccountID,
		AccessKeyID:     cfg.R2AccessKeyID,
		SecretAccessKey: cfg.R2SecretAccessKey,
		BucketName:      cfg.R2BucketName,
		PublicBaseURL:   cfg.R2PublicBaseURL,
	})
	if err != nil {
		logger.Error("failed to initialize Cloudflare R2 uploader", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("Cloudflare R2 uploader initialized")

	// Клиент платёжного шлюза
	checkoutClient, err := payments.NewHTTPCheckoutClient(payments.HTTPCheckoutClientConfig{
		GatewayURL: cfg.PaymentGatewayURL,
		APIKey:     cfg.PaymentAPIKey,
	})
	if err != nil {
		logger.Error("failed to initialize payment gateway client", slog.Any("error", err))
		os.Exit(1)
	}

	// Инициализация WebSocket Hub
	wsHub := live.NewHub()
	go wsHub.Run()
	logger.Info("WebSocket Hub started")

	// Инициализация репозиториев
	userRepo := repositories.NewPostgresUserRepository(dbConn)
	venueRepo := repositories.NewPostgresVenueRepository(dbConn)
	slotRepo := repositories.NewPostgresSlotRepository(dbConn)
	bookingRepo := repositories.NewPostgresBookingRepository(dbConn)
	settingsRepo := repositories.NewPostgresAdminSettingsRepository(dbConn)
	paymentConfigRepo := repositories.NewPostgresPaymentConfigRepository(dbConn)
	logger.Info("Repositories initialized")

	// Инициализация сервисов
	emailService := services.NewEmailService(cfg)
	authService := services.NewAuthService(userRepo)
	userService := services.NewUserService(userRepo)
	venueService := services.NewVenueService(venueRepo, cloudflareUploader)
	slotService := services.NewSlotService(slotRepo, venueRepo, logger)
	settingsService := services.NewAdminSettingsService(settingsRepo, venueRepo)
	dashboardService := services.NewDashboardService(venueRepo, slotRepo, bookingRepo)
	bookingService := services.NewBookingService(
		dbConn, // For booking/cancellation transactions
		bookingRepo,
		slotRepo,
		userRepo,
		venueRepo,
		settingsRepo,
		wsHub,
		emailService,
		logger,
	)
	paymentService := services.NewPaymentService(
		paymentConfigRepo,
		venueRepo,
		userRepo,
		checkoutClient,
		cfg.PaymentWebhookSecret,
		cfg.PublicURL,
		logger,
	)
	logger.Info("Services initialized")

	// Запуск планировщика закрытия прошедших слотов
	go func() {
		ticker := time.NewTicker(schedulerInterval)
		defer ticker.Stop()
		logger.Info("Past slot sweeper started", slog.Duration("interval", schedulerInterval))

		// Run once immediately at startup, then on ticker
		if err := slotService.CompletePastSlots(context.Background()); err != nil {
			logger.Error("Sweeper: initial run failed", slog.Any("error", err))
		}

		for range ticker.C {
			if err := slotService.CompletePastSlots(context.Background()); err != nil {
				logger.Error("Sweeper: periodic run failed", slog.Any("error", err))
			}
		}
	}()

	// Инициализация обработчиков HTTP
	h := api.Handlers{
		Auth:      handlers.NewAuthHandler(authService, emailService, cfg.JWTSecretKey),
		User:      handlers.NewUserHandler(userService),
		Venue:     handlers.NewVenueHandler(venueService),
		Slot:      handlers.NewSlotHandler(slotService),
		Booking:   handlers.NewBookingHandler(bookingService),
		Settings:  handlers.NewSettingsHandler(settingsService),
		Payment:   handlers.NewPaymentHandler(paymentService),
		Dashboard: handlers.NewDashboardHandler(dashboardService),
		WebSocket: handlers.NewWebSocketHandler(wsHub, venueService),
	}
	logger.Info("HTTP handlers initialized")

	// Ограничитель на вход: 5 попыток в минуту с одного IP, всплеск до 10.
	loginLimiter := middleware.NewRateLimiter(rate.Every(12*time.Second), 10)

	// Настройка маршрутизатора
	router := chi.NewRouter()
	api.SetupRoutes(router, h, cfg.JWTSecretKey, loginLimiter)
	logger.Info("Routes configured")

	// Настройка и запуск HTTP-сервера
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("starting server", slog.String("address", server.Addr))
		serverErrors <- server.ListenAndServe()
	}()

	// Ожидание сигнала завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", slog.Any("error", err))
			os.Exit(1)
		} else {
			logger.Info("server stopped gracefully")
		}
	case sig := <-quit:
		logger.Info("shutdown signal received", slog.String("signal", sig.String()))
		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancelShutdown()

		logger.Info("shutting down server", slog.Duration("timeout", 15*time.Second))
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", slog.Any("error", err))
			if closeErr := server.Close(); closeErr != nil {
				logger.Error("failed to force close server", slog.Any("error", closeErr))
			}
			os.Exit(1)
		} else {
			logger.Info("server shutdown complete")
		}
	}
	logger.Info("application exited")
}
