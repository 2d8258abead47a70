package get_provider_offerings

import (
	"context"

	"github.com/m04kA/SMC-PetBookingService/internal/service/offerings/models"
)

type OfferingService interface {
	ListByProvider(ctx context.Context, providerID int64, activeOnly bool) (*models.OfferingListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
