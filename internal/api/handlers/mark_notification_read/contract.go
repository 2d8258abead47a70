package mark_notification_read

import (
	"context"

	"github.com/m04kA/SMC-PetBookingService/internal/service/notifications/models"
)

type NotificationService interface {
	MarkRead(ctx context.Context, notificationID, callerID int64) (*models.NotificationResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
