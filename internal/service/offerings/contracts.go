package offerings

import (
	"context"
	"time"

	"github.com/m04kA/SMC-PetBookingService/internal/domain"
)

// OfferingRepository интерфейс репозитория офферов
type OfferingRepository interface {
	Create(ctx context.Context, o *domain.Offering) (*domain.Offering, error)
	GetByID(ctx context.Context, id int64) (*domain.Offering, error)
	ListByProvider(ctx context.Context, providerID int64, activeOnly bool) ([]*domain.Offering, error)
	UpdateStatus(ctx context.Context, id int64, status domain.OfferingStatus) error
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
