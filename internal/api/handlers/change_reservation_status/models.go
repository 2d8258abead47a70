package change_reservation_status

import (
	changeStatus "github.com/m04kA/SMC-PetBookingService/internal/usecase/change_status"
)

// ChangeStatusRequest HTTP request model
type ChangeStatusRequest struct {
	Status string  `json:"status"` // "accepted" | "rejected" | "cancelled" | "completed"
	Reason *string `json:"reason,omitempty"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *ChangeStatusRequest) ToUseCaseRequest(reservationID, actorID int64) *changeStatus.Request {
	return &changeStatus.Request{
		ReservationID: reservationID,
		ActorID:       actorID,
		Status:        r.Status,
		Reason:        r.Reason,
	}
}
