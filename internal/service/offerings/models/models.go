package models

import (
	"time"

	"github.com/m04kA/SMC-PetBookingService/internal/domain"
)

// Request модели

// ContactRequest контактные данные провайдера
type ContactRequest struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Email string `json:"email"`
}

// CreateOfferingRequest запрос на публикацию оффера
// Для слотовых офферов времена задаются либо списком availableTimes,
// либо интервалом openTime/closeTime, который нарезается по slotDurationMinutes.
type CreateOfferingRequest struct {
	ServiceType         string         `json:"serviceType"` // veterinary | walking | caregiving
	Name                string         `json:"name"`
	Price               float64        `json:"price"` // за слот или за сутки
	Description         *string        `json:"description,omitempty"`
	Contact             ContactRequest `json:"contact"`
	AcceptedSpecies     []string       `json:"acceptedSpecies,omitempty"`
	SlotDurationMinutes *int           `json:"slotDurationMinutes,omitempty"`
	AvailableWeekdays   []string       `json:"availableWeekdays,omitempty"` // "tuesday", "tue"
	AvailableTimes      []string       `json:"availableTimes,omitempty"`    // "10:00"
	OpenTime            *string        `json:"openTime,omitempty"`
	CloseTime           *string        `json:"closeTime,omitempty"`
	Status              *string        `json:"status,omitempty"` // по умолчанию active
}

// SetStatusRequest запрос на включение/выключение оффера
type SetStatusRequest struct {
	Status string `json:"status"`
}

// Response модели

// ContactResponse контактные данные провайдера
type ContactResponse struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Email string `json:"email"`
}

// OfferingResponse DTO оффера
type OfferingResponse struct {
	ID                  int64           `json:"id"`
	ProviderID          int64           `json:"providerId"`
	ServiceType         string          `json:"serviceType"`
	Kind                string          `json:"kind"`
	Name                string          `json:"name"`
	Price               float64         `json:"price"`
	Description         *string         `json:"description,omitempty"`
	Contact             ContactResponse `json:"contact"`
	AcceptedSpecies     []string        `json:"acceptedSpecies"`
	Status              string          `json:"status"`
	SlotDurationMinutes *int            `json:"slotDurationMinutes,omitempty"`
	AvailableWeekdays   []string        `json:"availableWeekdays"`
	AvailableTimes      []string        `json:"availableTimes,omitempty"`
	CreatedAt           time.Time       `json:"createdAt"`
	UpdatedAt           time.Time       `json:"updatedAt"`
}

// OfferingListResponse ответ со списком офферов провайдера
type OfferingListResponse struct {
	Offerings []OfferingResponse `json:"offerings"`
}

// SlotAvailability доступность одного слота
type SlotAvailability struct {
	StartTime       string `json:"startTime"`
	DurationMinutes int    `json:"durationMinutes"`
	Available       bool   `json:"available"`
}

// BookedRange занятый диапазон дат
type BookedRange struct {
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
}

// AvailabilityResponse доступность оффера на дату или диапазон дат
type AvailabilityResponse struct {
	OfferingID   int64              `json:"offeringId"`
	Kind         string             `json:"kind"`
	Date         string             `json:"date"`
	EndDate      string             `json:"endDate,omitempty"`
	Slots        []SlotAvailability `json:"slots,omitempty"`
	Available    *bool              `json:"available,omitempty"`
	DayCount     int                `json:"dayCount,omitempty"`
	BookedRanges []BookedRange      `json:"bookedRanges,omitempty"`
}

// Методы конвертации

// FromDomainOffering конвертирует domain модель в DTO (без журнала бронирований)
func FromDomainOffering(o *domain.Offering) *OfferingResponse {
	if o == nil {
		return nil
	}

	resp := &OfferingResponse{
		ID:          o.ID,
		ProviderID:  o.ProviderID,
		ServiceType: string(o.ServiceType),
		Kind:        string(o.Kind),
		Name:        o.Name,
		Price:       o.Price,
		Description: o.Description,
		Contact: ContactResponse{
			Name:  o.Contact.Name,
			Phone: o.Contact.Phone,
			Email: o.Contact.Email,
		},
		AcceptedSpecies:   append([]string{}, o.AcceptedSpecies...),
		Status:            string(o.Status),
		AvailableWeekdays: make([]string, 0, len(o.AvailableWeekdays)),
		CreatedAt:         o.CreatedAt,
		UpdatedAt:         o.UpdatedAt,
	}

	for _, d := range o.AvailableWeekdays {
		resp.AvailableWeekdays = append(resp.AvailableWeekdays, domain.WeekdayName(d))
	}

	if o.Kind == domain.KindSlot {
		duration := o.SlotDurationMinutes
		resp.SlotDurationMinutes = &duration
		resp.AvailableTimes = make([]string, 0, len(o.AvailableTimes))
		for _, t := range o.AvailableTimes {
			resp.AvailableTimes = append(resp.AvailableTimes, t.String())
		}
	}

	return resp
}

// FromDomainOfferingList конвертирует список офферов
func FromDomainOfferingList(list []*domain.Offering) *OfferingListResponse {
	resp := &OfferingListResponse{Offerings: make([]OfferingResponse, 0, len(list))}
	for _, o := range list {
		resp.Offerings = append(resp.Offerings, *FromDomainOffering(o))
	}
	return resp
}

// FromBookingUnits конвертирует занятые диапазоны
func FromBookingUnits(units []domain.BookingUnit) []BookedRange {
	out := make([]BookedRange, 0, len(units))
	for _, u := range units {
		out = append(out, BookedRange{
			StartDate: domain.FormatDate(u.StartDate),
			EndDate:   domain.FormatDate(u.EndDate),
		})
	}
	return out
}
