package models

import (
	"time"

	"github.com/m04kA/SMC-PetBookingService/internal/domain"
)

// Request модели

// ListReservationsRequest запрос на получение бронирований пользователя
type ListReservationsRequest struct {
	UserID   int64   // чьи бронирования
	CallerID int64   // кто спрашивает
	Role     string  // requester | provider
	Status   *string // фильтр по статусу (опционально)
}

// Response модели

// ContactResponse контактные данные на момент бронирования
type ContactResponse struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Email string `json:"email"`
}

// ReservationResponse DTO бронирования для отображения
type ReservationResponse struct {
	ID              int64           `json:"id"`
	RequesterID     int64           `json:"requesterId"`
	ProviderID      int64           `json:"providerId"`
	OfferingID      int64           `json:"offeringId"`
	OfferingKind    string          `json:"offeringKind"`
	ServiceType     string          `json:"serviceType"`
	OfferingName    string          `json:"offeringName"`
	PetID           int64           `json:"petId"`
	PetName         string          `json:"petName"`
	StartDate       string          `json:"startDate"` // "16/01/2024"
	EndDate         string          `json:"endDate"`
	StartTime       *string         `json:"startTime,omitempty"` // "10:00", только для слотов
	DurationMinutes *int            `json:"durationMinutes,omitempty"`
	DayCount        int             `json:"dayCount"`
	UnitPrice       float64         `json:"unitPrice"`
	TotalPrice      float64         `json:"totalPrice"`
	Note            *string         `json:"note,omitempty"`
	Contact         ContactResponse `json:"contact"`
	Status          string          `json:"status"`
	StatusReason    *string         `json:"statusReason,omitempty"`
	CancelledBy     *string         `json:"cancelledBy,omitempty"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

// ReservationListResponse ответ со списком бронирований
type ReservationListResponse struct {
	Reservations []ReservationResponse `json:"reservations"`
}

// Методы конвертации

// FromDomainReservation конвертирует domain модель в DTO
func FromDomainReservation(r *domain.Reservation) *ReservationResponse {
	if r == nil {
		return nil
	}

	resp := &ReservationResponse{
		ID:           r.ID,
		RequesterID:  r.RequesterID,
		ProviderID:   r.ProviderID,
		OfferingID:   r.OfferingID,
		OfferingKind: string(r.OfferingKind),
		ServiceType:  string(r.ServiceType),
		OfferingName: r.OfferingName,
		PetID:        r.PetID,
		PetName:      r.PetName,
		StartDate:    domain.FormatDate(r.StartDate),
		EndDate:      domain.FormatDate(r.EndDate),
		DayCount:     r.DayCount(),
		UnitPrice:    r.UnitPrice,
		TotalPrice:   r.TotalPrice(),
		Note:         r.Note,
		Contact: ContactResponse{
			Name:  r.Contact.Name,
			Phone: r.Contact.Phone,
			Email: r.Contact.Email,
		},
		Status:       string(r.Status),
		StatusReason: r.StatusReason,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}

	if r.OfferingKind == domain.KindSlot {
		startTime := r.StartTime.String()
		duration := r.DurationMinutes
		resp.StartTime = &startTime
		resp.DurationMinutes = &duration
	}
	if r.CancelledBy != nil {
		by := string(*r.CancelledBy)
		resp.CancelledBy = &by
	}

	return resp
}

// FromDomainReservationList конвертирует список domain моделей в DTO
func FromDomainReservationList(list []*domain.Reservation) *ReservationListResponse {
	resp := &ReservationListResponse{
		Reservations: make([]ReservationResponse, 0, len(list)),
	}
	for _, r := range list {
		if item := FromDomainReservation(r); item != nil {
			resp.Reservations = append(resp.Reservations, *item)
		}
	}
	return resp
}
