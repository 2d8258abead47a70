package get_availability

import (
	"context"

	"github.com/m04kA/SMC-PetBookingService/internal/service/offerings/models"
)

type OfferingService interface {
	GetAvailability(ctx context.Context, id int64, date string, endDate *string) (*models.AvailabilityResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
