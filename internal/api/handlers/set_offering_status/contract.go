package set_offering_status

import (
	"context"

	"github.com/m04kA/SMC-PetBookingService/internal/service/offerings/models"
)

type OfferingService interface {
	SetStatus(ctx context.Context, id, callerID int64, req *models.SetStatusRequest) (*models.OfferingResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
