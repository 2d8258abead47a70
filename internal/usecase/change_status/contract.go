package change_status

import (
	"context"
	"time"

	"github.com/m04kA/SMC-PetBookingService/internal/domain"
)

// ReservationRepository интерфейс репозитория бронирований
type ReservationRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Reservation, error)
	UpdateStatus(ctx context.Context, r *domain.Reservation) error
}

// OfferingRepository интерфейс репозитория офферов
type OfferingRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Offering, error)
	SaveLedger(ctx context.Context, o *domain.Offering) error
}

// NotificationRepository интерфейс репозитория уведомлений
type NotificationRepository interface {
	Create(ctx context.Context, n *domain.Notification) (*domain.Notification, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// Locker блокировка по ключу (локальная или распределенная)
type Locker interface {
	Lock(ctx context.Context, key string) (func(), error)
}

// Metrics бизнес-метрики бронирований
type Metrics interface {
	StatusChanged(status string)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время в UTC
func (p *RealTimeProvider) Now() time.Time {
	return time.Now().UTC()
}
