package get_offering

import (
	"context"

	"github.com/m04kA/SMC-PetBookingService/internal/service/offerings/models"
)

type OfferingService interface {
	GetByID(ctx context.Context, id int64) (*models.OfferingResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
