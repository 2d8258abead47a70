package create_reservation

import (
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/SMC-PetBookingService/internal/domain"
	"github.com/m04kA/SMC-PetBookingService/pkg/ptr"
	"github.com/m04kA/SMC-PetBookingService/pkg/types"
)

// parsedRequest запрос после проверки формата
type parsedRequest struct {
	startDate time.Time
	endDate   *time.Time
	startTime *types.TimeString
	kind      *domain.OfferingKind
	note      *string
	contact   domain.Contact
}

// validateRequest проверяет наличие обязательных полей и длины строк
func validateRequest(req *Request) error {
	if req.RequesterID <= 0 {
		return fmt.Errorf("%w: requesterID must be positive", ErrInvalidInput)
	}

	if req.OfferingID <= 0 {
		return fmt.Errorf("%w: offeringID must be positive", ErrInvalidInput)
	}

	if req.PetID <= 0 {
		return fmt.Errorf("%w: petID must be positive", ErrInvalidInput)
	}

	if strings.TrimSpace(req.StartDate) == "" {
		return fmt.Errorf("%w: startDate is required", ErrInvalidInput)
	}

	if kind := strings.TrimSpace(ptr.Value(req.OfferingKind)); kind != "" && !domain.OfferingKind(kind).IsValid() {
		return fmt.Errorf("%w: offeringKind must be %q or %q", ErrInvalidInput, domain.KindSlot, domain.KindRange)
	}

	contact := normalizeContact(req.Contact)
	if !contact.IsComplete() {
		return fmt.Errorf("%w: contact name, phone and email are required", ErrInvalidInput)
	}
	for _, field := range []string{contact.Name, contact.Phone, contact.Email} {
		if len(field) > domain.MaxContactFieldLength {
			return fmt.Errorf("%w: contact fields must be at most %d characters", ErrInvalidInput, domain.MaxContactFieldLength)
		}
	}

	if req.Note != nil && len(strings.TrimSpace(*req.Note)) > domain.MaxNoteLength {
		return fmt.Errorf("%w: note must be at most %d characters", ErrInvalidInput, domain.MaxNoteLength)
	}

	return nil
}

// parseRequest разбирает даты (строго DD/MM/YYYY) и время суток
func parseRequest(req *Request) (*parsedRequest, error) {
	parsed := &parsedRequest{contact: normalizeContact(req.Contact)}

	start, err := domain.ParseDate(req.StartDate)
	if err != nil {
		return nil, fmt.Errorf("%w: startDate: %v", ErrInvalidInput, err)
	}
	parsed.startDate = start

	if req.EndDate != nil && strings.TrimSpace(*req.EndDate) != "" {
		end, err := domain.ParseDate(*req.EndDate)
		if err != nil {
			return nil, fmt.Errorf("%w: endDate: %v", ErrInvalidInput, err)
		}
		parsed.endDate = &end
	}

	if req.StartTime != nil && strings.TrimSpace(*req.StartTime) != "" {
		t, err := types.NewTimeStringFromString(strings.TrimSpace(*req.StartTime))
		if err != nil {
			return nil, fmt.Errorf("%w: startTime: %v", ErrInvalidInput, err)
		}
		parsed.startTime = &t
	}

	if kind := strings.TrimSpace(ptr.Value(req.OfferingKind)); kind != "" {
		parsed.kind = ptr.Ptr(domain.OfferingKind(kind))
	}

	if note := strings.TrimSpace(ptr.Value(req.Note)); note != "" {
		parsed.note = &note
	}

	return parsed, nil
}

// buildUnit строит единицу бронирования по типу оффера
// Время суток обязательно для слотов и запрещено для диапазонов
func buildUnit(offering *domain.Offering, p *parsedRequest) (domain.BookingUnit, error) {
	switch offering.Kind {
	case domain.KindSlot:
		if p.startTime == nil {
			return domain.BookingUnit{}, fmt.Errorf("%w: startTime is required for %s offerings", ErrInvalidInput, offering.ServiceType)
		}
		if p.endDate != nil && !domain.SameDay(*p.endDate, p.startDate) {
			return domain.BookingUnit{}, fmt.Errorf("%w: slot bookings cover a single date", ErrInvalidInput)
		}
		return offering.SlotUnit(p.startDate, *p.startTime), nil
	case domain.KindRange:
		if p.startTime != nil {
			return domain.BookingUnit{}, fmt.Errorf("%w: startTime is not used for %s offerings", ErrInvalidInput, offering.ServiceType)
		}
		end := p.startDate
		if p.endDate != nil {
			end = *p.endDate
		}
		return offering.RangeUnit(p.startDate, end), nil
	default:
		return domain.BookingUnit{}, fmt.Errorf("%w: unknown offering kind %q", ErrInternal, offering.Kind)
	}
}

func normalizeContact(c Contact) domain.Contact {
	return domain.Contact{
		Name:  strings.TrimSpace(c.Name),
		Phone: strings.TrimSpace(c.Phone),
		Email: strings.TrimSpace(c.Email),
	}
}
