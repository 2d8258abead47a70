package create_reservation

import (
	"context"
	"time"

	"github.com/m04kA/SMC-PetBookingService/internal/domain"
	"github.com/m04kA/SMC-PetBookingService/internal/integrations/petservice"
	"github.com/m04kA/SMC-PetBookingService/internal/integrations/userservice"
)

// OfferingRepository интерфейс репозитория офферов
type OfferingRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Offering, error)
	SaveLedger(ctx context.Context, o *domain.Offering) error
}

// ReservationRepository интерфейс репозитория бронирований
type ReservationRepository interface {
	Create(ctx context.Context, r *domain.Reservation) (*domain.Reservation, error)
}

// NotificationRepository интерфейс репозитория уведомлений
type NotificationRepository interface {
	Create(ctx context.Context, n *domain.Notification) (*domain.Notification, error)
}

// UserServiceClient интерфейс клиента для UserService
type UserServiceClient interface {
	GetUser(ctx context.Context, userID int64) (*userservice.User, error)
}

// PetServiceClient интерфейс клиента для PetService
type PetServiceClient interface {
	GetPet(ctx context.Context, petID int64) (*petservice.Pet, error)
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
	ReservationCreated(kind string)
	ReservationConflict(kind string)
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
