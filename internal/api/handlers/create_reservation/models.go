package create_reservation

import (
	createReservation "github.com/m04kA/SMC-PetBookingService/internal/usecase/create_reservation"
)

// CreateReservationRequest HTTP request model
type CreateReservationRequest struct {
	OfferingID   int64          `json:"offeringId"`
	OfferingKind *string        `json:"offeringKind,omitempty"` // "slot" | "range"
	PetID        int64          `json:"petId"`
	StartDate    string         `json:"startDate"`           // "16/01/2024"
	EndDate      *string        `json:"endDate,omitempty"`   // "18/01/2024"
	StartTime    *string        `json:"startTime,omitempty"` // "10:30"
	Note         *string        `json:"note,omitempty"`
	Contact      ContactRequest `json:"contact"`
}

// ContactRequest контактные данные заказчика
type ContactRequest struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Email string `json:"email"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
// Заказчик всегда вызывающий пользователь, тело его не задает
func (r *CreateReservationRequest) ToUseCaseRequest(requesterID int64) *createReservation.Request {
	return &createReservation.Request{
		RequesterID:  requesterID,
		OfferingID:   r.OfferingID,
		OfferingKind: r.OfferingKind,
		PetID:        r.PetID,
		StartDate:    r.StartDate,
		EndDate:      r.EndDate,
		StartTime:    r.StartTime,
		Note:         r.Note,
		Contact: createReservation.Contact{
			Name:  r.Contact.Name,
			Phone: r.Contact.Phone,
			Email: r.Contact.Email,
		},
	}
}
