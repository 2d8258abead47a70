package change_status

import (
	"fmt"

	"github.com/m04kA/SMC-PetBookingService/internal/domain"
)

// validateRequest проверяет идентификаторы и значение статуса
func validateRequest(req *Request) (domain.ReservationStatus, error) {
	if req.ReservationID <= 0 {
		return "", fmt.Errorf("%w: reservationID must be positive", ErrInvalidInput)
	}

	if req.ActorID <= 0 {
		return "", fmt.Errorf("%w: actorID must be positive", ErrInvalidInput)
	}

	status, err := domain.ParseReservationStatus(req.Status)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	return status, nil
}
