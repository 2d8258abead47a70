package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	changeReservationStatusHandler "github.com/m04kA/SMC-PetBookingService/internal/api/handlers/change_reservation_status"
	createOfferingHandler "github.com/m04kA/SMC-PetBookingService/internal/api/handlers/create_offering"
	createReservationHandler "github.com/m04kA/SMC-PetBookingService/internal/api/handlers/create_reservation"
	getAvailabilityHandler "github.com/m04kA/SMC-PetBookingService/internal/api/handlers/get_availability"
	getNotificationsHandler "github.com/m04kA/SMC-PetBookingService/internal/api/handlers/get_notifications"
	getOfferingHandler "github.com/m04kA/SMC-PetBookingService/internal/api/handlers/get_offering"
	getProviderOfferingsHandler "github.com/m04kA/SMC-PetBookingService/internal/api/handlers/get_provider_offerings"
	getReservationHandler "github.com/m04kA/SMC-PetBookingService/internal/api/handlers/get_reservation"
	getUserReservationsHandler "github.com/m04kA/SMC-PetBookingService/internal/api/handlers/get_user_reservations"
	markNotificationReadHandler "github.com/m04kA/SMC-PetBookingService/internal/api/handlers/mark_notification_read"
	setOfferingStatusHandler "github.com/m04kA/SMC-PetBookingService/internal/api/handlers/set_offering_status"
	"github.com/m04kA/SMC-PetBookingService/internal/api/middleware"
	"github.com/m04kA/SMC-PetBookingService/internal/config"
	petServiceClient "github.com/m04kA/SMC-PetBookingService/internal/integrations/petservice"
	userServiceClient "github.com/m04kA/SMC-PetBookingService/internal/integrations/userservice"
	notificationsService "github.com/m04kA/SMC-PetBookingService/internal/service/notifications"
	offeringsService "github.com/m04kA/SMC-PetBookingService/internal/service/offerings"
	reservationsService "github.com/m04kA/SMC-PetBookingService/internal/service/reservations"
	changeStatusUC "github.com/m04kA/SMC-PetBookingService/internal/usecase/change_status"
	createReservationUC "github.com/m04kA/SMC-PetBookingService/internal/usecase/create_reservation"
	"github.com/m04kA/SMC-PetBookingService/pkg/keylock"
	"github.com/m04kA/SMC-PetBookingService/pkg/logger"
	"github.com/m04kA/SMC-PetBookingService/pkg/metrics"
	"github.com/m04kA/SMC-PetBookingService/pkg/redislock"
)

// locker общий контракт локальной и Redis блокировки
type locker interface {
	Lock(ctx context.Context, key string) (func(), error)
}

func runServe(ctx context.Context, configPath string) error {
	// Загружаем конфигурацию
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// Инициализируем логгер
	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Close()

	log.Info("Starting SMC-PetBookingService...")
	log.Info("Configuration loaded from %s", configPath)

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Хранилище: PostgreSQL или in-memory
	store, err := openStorage(ctx, cfg, metricsCollector, log)
	if err != nil {
		return err
	}
	defer store.close()
	log.Info("Storage initialized (driver=%s)", cfg.Database.Driver)

	// Блокировки офферов и бронирований
	var lock locker
	if cfg.Locking.Backend == config.LockRedis {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Locking.RedisAddr,
			Password: cfg.Locking.RedisPassword,
			DB:       cfg.Locking.RedisDB,
		})
		defer redisClient.Close()

		if err := redisClient.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("ping redis: %w", err)
		}
		lock = redislock.New(redisClient, cfg.Locking.TTL())
		log.Info("Using Redis locks (addr=%s, ttl=%s)", cfg.Locking.RedisAddr, cfg.Locking.TTL())
	} else {
		lock = keylock.New()
		log.Info("Using in-process locks")
	}

	// Инициализируем интеграционных клиентов
	userClient := userServiceClient.NewClient(
		cfg.UserService.URL,
		time.Duration(cfg.UserService.Timeout)*time.Second,
		log,
	)
	petClient := petServiceClient.NewClient(
		cfg.PetService.URL,
		time.Duration(cfg.PetService.Timeout)*time.Second,
		log,
	)
	log.Info("Integration clients initialized (UserService=%s timeout=%ds, PetService=%s timeout=%ds)",
		cfg.UserService.URL, cfg.UserService.Timeout, cfg.PetService.URL, cfg.PetService.Timeout)

	// Инициализируем сервисы
	offeringSvc := offeringsService.NewService(store.offerings, log)
	reservationSvc := reservationsService.NewService(store.reservations, log)
	notificationSvc := notificationsService.NewService(store.notifications, log)

	// Инициализируем use cases
	createReservationUseCase := createReservationUC.NewUseCase(
		store.offerings,
		store.reservations,
		store.notifications,
		userClient,
		petClient,
		store.txManager,
		lock,
		metricsCollector,
		log,
	)
	changeStatusUseCase := changeStatusUC.NewUseCase(
		store.reservations,
		store.offerings,
		store.notifications,
		store.txManager,
		lock,
		metricsCollector,
		log,
	)

	// Инициализируем handlers
	createOffering := createOfferingHandler.NewHandler(offeringSvc, log)
	getOffering := getOfferingHandler.NewHandler(offeringSvc, log)
	getProviderOfferings := getProviderOfferingsHandler.NewHandler(offeringSvc, log)
	setOfferingStatus := setOfferingStatusHandler.NewHandler(offeringSvc, log)
	getAvailability := getAvailabilityHandler.NewHandler(offeringSvc, log)
	createReservation := createReservationHandler.NewHandler(createReservationUseCase, log)
	changeReservationStatus := changeReservationStatusHandler.NewHandler(changeStatusUseCase, log)
	getReservation := getReservationHandler.NewHandler(reservationSvc, log)
	getUserReservations := getUserReservationsHandler.NewHandler(reservationSvc, log)
	getNotifications := getNotificationsHandler.NewHandler(notificationSvc, log)
	markNotificationRead := markNotificationReadHandler.NewHandler(notificationSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logging(log))
	r.Use(middleware.CORS(cfg.HTTP.CORSOrigins))

	if cfg.HTTP.RateLimitRPS > 0 {
		r.Use(middleware.NewRateLimiter(cfg.HTTP.RateLimitRPS, cfg.HTTP.RateLimitBurst).Middleware)
		log.Info("Rate limiting enabled (rps=%.1f, burst=%d)", cfg.HTTP.RateLimitRPS, cfg.HTTP.RateLimitBurst)
	}

	// Добавляем metrics middleware и endpoint (публичный, без аутентификации)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	// Карточка оффера и каталог провайдера
	api.HandleFunc("/offerings/{offeringId}", getOffering.Handle).Methods(http.MethodGet)
	api.HandleFunc("/providers/{providerId}/offerings", getProviderOfferings.Handle).Methods(http.MethodGet)

	// Доступность слотов или периода
	api.HandleFunc("/offerings/{offeringId}/availability", getAvailability.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Офферы провайдера ---
	protected.HandleFunc("/offerings", createOffering.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/offerings/{offeringId}/status", setOfferingStatus.Handle).Methods(http.MethodPatch)

	// --- Бронирования ---
	protected.HandleFunc("/reservations", createReservation.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/reservations/{reservationId}", getReservation.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/reservations/{reservationId}/status", changeReservationStatus.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/users/{userId}/reservations", getUserReservations.Handle).Methods(http.MethodGet)

	// --- Уведомления ---
	protected.HandleFunc("/users/{userId}/notifications", getNotifications.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/notifications/{notificationId}/read", markNotificationRead.Handle).Methods(http.MethodPatch)

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Ожидаем сигнал завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-quit:
	case err := <-serverErr:
		return fmt.Errorf("server failed: %w", err)
	}

	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	log.Info("Server stopped gracefully")
	return nil
}
