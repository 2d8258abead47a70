package main

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"github.com/m04kA/SMC-PetBookingService/internal/config"
	"github.com/m04kA/SMC-PetBookingService/internal/infra/migrations"
	"github.com/m04kA/SMC-PetBookingService/internal/infra/storage/memory"
	notificationRepo "github.com/m04kA/SMC-PetBookingService/internal/infra/storage/notification"
	offeringRepo "github.com/m04kA/SMC-PetBookingService/internal/infra/storage/offering"
	reservationRepo "github.com/m04kA/SMC-PetBookingService/internal/infra/storage/reservation"
	notificationsService "github.com/m04kA/SMC-PetBookingService/internal/service/notifications"
	offeringsService "github.com/m04kA/SMC-PetBookingService/internal/service/offerings"
	reservationsService "github.com/m04kA/SMC-PetBookingService/internal/service/reservations"
	changeStatusUC "github.com/m04kA/SMC-PetBookingService/internal/usecase/change_status"
	createReservationUC "github.com/m04kA/SMC-PetBookingService/internal/usecase/create_reservation"
	"github.com/m04kA/SMC-PetBookingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-PetBookingService/pkg/logger"
	"github.com/m04kA/SMC-PetBookingService/pkg/metrics"
	"github.com/m04kA/SMC-PetBookingService/pkg/txmanager"
)

// Репозитории нужны и сервисам, и use cases, поэтому объединяем их контракты
type offeringStore interface {
	offeringsService.OfferingRepository
	createReservationUC.OfferingRepository
}

type reservationStore interface {
	reservationsService.ReservationRepository
	createReservationUC.ReservationRepository
	changeStatusUC.ReservationRepository
}

type notificationStore interface {
	notificationsService.NotificationRepository
	createReservationUC.NotificationRepository
}

type txManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// storage хранилище, выбранное драйвером из конфигурации
type storage struct {
	offerings     offeringStore
	reservations  reservationStore
	notifications notificationStore
	txManager     txManager
	close         func()
}

func openStorage(ctx context.Context, cfg *config.Config, m *metrics.Metrics, log *logger.Logger) (*storage, error) {
	if cfg.Database.Driver == config.DriverMemory {
		log.Warn("Using in-memory storage, data will be lost on restart")
		store := memory.NewStore()
		return &storage{
			offerings:     memory.NewOfferingRepository(store),
			reservations:  memory.NewReservationRepository(store),
			notifications: memory.NewNotificationRepository(store),
			txManager:     store,
			close:         func() {},
		}, nil
	}

	db, err := openPostgres(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	// Сбор статистики пула останавливается при закрытии хранилища
	stopMetricsCh := make(chan struct{})
	wrappedDB := dbmetrics.WrapWithDefault(db, m, stopMetricsCh)

	if err := migrations.Up(ctx, wrappedDB, log); err != nil {
		close(stopMetricsCh)
		_ = db.Close()
		return nil, err
	}

	return &storage{
		offerings:     offeringRepo.NewRepository(wrappedDB),
		reservations:  reservationRepo.NewRepository(wrappedDB),
		notifications: notificationRepo.NewRepository(wrappedDB),
		txManager:     txmanager.NewTransactionManager(wrappedDB).WithMaxAttempts(cfg.Database.TxMaxAttempts),
		close: func() {
			close(stopMetricsCh)
			_ = db.Close()
		},
	}, nil
}

func openPostgres(ctx context.Context, cfg config.DatabaseConfig) (*sql.DB, error) {
	db, err := sql.Open("postgres", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Настраиваем connection pool
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetime) * time.Second)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return db, nil
}
