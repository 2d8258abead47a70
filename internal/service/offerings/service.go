package offerings

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/SMC-PetBookingService/internal/domain"
	offeringRepo "github.com/m04kA/SMC-PetBookingService/internal/infra/storage/offering"
	"github.com/m04kA/SMC-PetBookingService/internal/service/offerings/models"
	"github.com/m04kA/SMC-PetBookingService/pkg/types"
)

// Service сервис управления офферами провайдеров
type Service struct {
	repo         OfferingRepository
	timeProvider TimeProvider
	logger       Logger
}

// NewService создает новый экземпляр сервиса офферов
func NewService(repo OfferingRepository, logger Logger) *Service {
	return &Service{
		repo:         repo,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Create публикует оффер от имени провайдера (провайдер = вызывающий)
func (s *Service) Create(ctx context.Context, providerID int64, req *models.CreateOfferingRequest) (*models.OfferingResponse, error) {
	s.logger.Info("CreateOffering: provider=%d, serviceType=%s, name=%q", providerID, req.ServiceType, req.Name)

	offering, err := buildOffering(providerID, req)
	if err != nil {
		s.logger.Warn("CreateOffering: invalid request from provider=%d: %v", providerID, err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if err := offering.Validate(); err != nil {
		s.logger.Warn("CreateOffering: validation failed for provider=%d: %v", providerID, err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	now := s.timeProvider.Now()
	offering.CreatedAt = now
	offering.UpdatedAt = now

	created, err := s.repo.Create(ctx, offering)
	if err != nil {
		s.logger.Error("CreateOffering: repository error for provider=%d: %v", providerID, err)
		return nil, fmt.Errorf("%w: Create - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("CreateOffering: created offering id=%d (%s) for provider=%d", created.ID, created.Kind, providerID)
	return models.FromDomainOffering(created), nil
}

// GetByID получает оффер по ID
func (s *Service) GetByID(ctx context.Context, id int64) (*models.OfferingResponse, error) {
	offering, err := s.get(ctx, id, "GetOffering")
	if err != nil {
		return nil, err
	}
	return models.FromDomainOffering(offering), nil
}

// ListByProvider получает офферы провайдера
func (s *Service) ListByProvider(ctx context.Context, providerID int64, activeOnly bool) (*models.OfferingListResponse, error) {
	s.logger.Info("ListOfferings: provider=%d, activeOnly=%t", providerID, activeOnly)

	list, err := s.repo.ListByProvider(ctx, providerID, activeOnly)
	if err != nil {
		s.logger.Error("ListOfferings: repository error for provider=%d: %v", providerID, err)
		return nil, fmt.Errorf("%w: ListByProvider - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainOfferingList(list), nil
}

// SetStatus включает или выключает приём новых бронирований
// Менять статус может только провайдер-владелец; существующие бронирования не затрагиваются
func (s *Service) SetStatus(ctx context.Context, id, callerID int64, req *models.SetStatusRequest) (*models.OfferingResponse, error) {
	s.logger.Info("SetOfferingStatus: offering=%d, caller=%d, status=%s", id, callerID, req.Status)

	offering, err := s.get(ctx, id, "SetOfferingStatus")
	if err != nil {
		return nil, err
	}

	if offering.ProviderID != callerID {
		s.logger.Warn("SetOfferingStatus: caller=%d is not the owner of offering=%d", callerID, id)
		return nil, ErrAccessDenied
	}

	status := domain.OfferingStatus(strings.ToLower(strings.TrimSpace(req.Status)))
	if err := offering.SetStatus(status); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		if errors.Is(err, offeringRepo.ErrOfferingNotFound) {
			return nil, ErrOfferingNotFound
		}
		s.logger.Error("SetOfferingStatus: repository error for offering=%d: %v", id, err)
		return nil, fmt.Errorf("%w: SetStatus - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("SetOfferingStatus: offering=%d is now %s", id, status)
	return models.FromDomainOffering(offering), nil
}

// GetAvailability возвращает доступность оффера
// Слоты: каждое объявленное время на дату с признаком доступности, дата должна попадать на рабочий день.
// Диапазоны: свободен ли диапазон [date, endDate] и какие бронирования его пересекают.
func (s *Service) GetAvailability(ctx context.Context, id int64, date string, endDate *string) (*models.AvailabilityResponse, error) {
	s.logger.Info("GetAvailability: offering=%d, date=%s", id, date)

	// 1. Парсим даты
	start, err := domain.ParseDate(date)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	end := start
	if endDate != nil && strings.TrimSpace(*endDate) != "" {
		end, err = domain.ParseDate(*endDate)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
	}

	// 2. Загружаем оффер вместе с журналом
	offering, err := s.get(ctx, id, "GetAvailability")
	if err != nil {
		return nil, err
	}

	now := s.timeProvider.Now()
	resp := &models.AvailabilityResponse{
		OfferingID: offering.ID,
		Kind:       string(offering.Kind),
		Date:       domain.FormatDate(start),
	}

	// 3. Считаем доступность по типу оффера
	switch offering.Kind {
	case domain.KindSlot:
		if !domain.SameDay(start, end) {
			return nil, fmt.Errorf("%w: slot availability is queried for a single date", ErrInvalidInput)
		}
		if !offering.ServesWeekday(start.Weekday()) {
			s.logger.Warn("GetAvailability: offering=%d does not work on %s", id, start.Weekday())
			return nil, fmt.Errorf("%w: offering is not available on %s", ErrInvalidInput, domain.WeekdayName(start.Weekday()))
		}

		resp.Slots = make([]models.SlotAvailability, 0, len(offering.AvailableTimes))
		for _, t := range offering.AvailableTimes {
			unit := offering.SlotUnit(start, t)
			resp.Slots = append(resp.Slots, models.SlotAvailability{
				StartTime:       t.String(),
				DurationMinutes: unit.DurationMinutes,
				Available:       offering.IsActive() && !unit.StartsBefore(now) && offering.IsAvailable(unit),
			})
		}
	case domain.KindRange:
		unit := offering.RangeUnit(start, end)
		if err := offering.CheckBookable(unit); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}

		available := offering.IsActive() && !unit.StartsBefore(now) && offering.IsAvailable(unit)
		resp.EndDate = domain.FormatDate(end)
		resp.Available = &available
		resp.DayCount = domain.DaysInclusive(start, end)
		resp.BookedRanges = models.FromBookingUnits(offering.BookedOn(start, end))
	default:
		s.logger.Error("GetAvailability: offering=%d has unknown kind %q", id, offering.Kind)
		return nil, fmt.Errorf("%w: unknown offering kind %q", ErrInternal, offering.Kind)
	}

	return resp, nil
}

func (s *Service) get(ctx context.Context, id int64, op string) (*domain.Offering, error) {
	offering, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, offeringRepo.ErrOfferingNotFound) {
			s.logger.Warn("%s: offering id=%d not found", op, id)
			return nil, ErrOfferingNotFound
		}
		s.logger.Error("%s: repository error for offering id=%d: %v", op, id, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}
	return offering, nil
}

// buildOffering собирает domain модель из запроса; бизнес-проверки делает Offering.Validate
func buildOffering(providerID int64, req *models.CreateOfferingRequest) (*domain.Offering, error) {
	serviceType := domain.ServiceType(strings.ToLower(strings.TrimSpace(req.ServiceType)))
	kind, ok := serviceType.Kind()
	if !ok {
		return nil, fmt.Errorf("%w: unknown service type %q", domain.ErrValidation, req.ServiceType)
	}

	status := domain.OfferingActive
	if req.Status != nil {
		status = domain.OfferingStatus(strings.ToLower(strings.TrimSpace(*req.Status)))
	}

	offering := &domain.Offering{
		ProviderID:  providerID,
		ServiceType: serviceType,
		Kind:        kind,
		Name:        strings.TrimSpace(req.Name),
		Price:       req.Price,
		Description: req.Description,
		Contact: domain.Contact{
			Name:  strings.TrimSpace(req.Contact.Name),
			Phone: strings.TrimSpace(req.Contact.Phone),
			Email: strings.TrimSpace(req.Contact.Email),
		},
		AcceptedSpecies:   make([]string, 0, len(req.AcceptedSpecies)),
		Status:            status,
		AvailableWeekdays: make([]time.Weekday, 0, len(req.AvailableWeekdays)),
	}

	for _, sp := range req.AcceptedSpecies {
		if sp = strings.ToLower(strings.TrimSpace(sp)); sp != "" {
			offering.AcceptedSpecies = append(offering.AcceptedSpecies, sp)
		}
	}

	for _, name := range req.AvailableWeekdays {
		d, err := domain.ParseWeekday(name)
		if err != nil {
			return nil, err
		}
		offering.AvailableWeekdays = append(offering.AvailableWeekdays, d)
	}

	if kind == domain.KindRange {
		if req.SlotDurationMinutes != nil || len(req.AvailableTimes) > 0 || req.OpenTime != nil || req.CloseTime != nil {
			return nil, fmt.Errorf("%w: range offerings have no times of day or slot duration", domain.ErrValidation)
		}
		return offering, nil
	}

	offering.SlotDurationMinutes = domain.DefaultSlotDurationMinutes
	if req.SlotDurationMinutes != nil {
		offering.SlotDurationMinutes = *req.SlotDurationMinutes
	}

	switch {
	case len(req.AvailableTimes) > 0 && (req.OpenTime != nil || req.CloseTime != nil):
		return nil, fmt.Errorf("%w: use either availableTimes or openTime/closeTime", domain.ErrValidation)
	case len(req.AvailableTimes) > 0:
		offering.AvailableTimes = make([]types.TimeString, 0, len(req.AvailableTimes))
		for _, raw := range req.AvailableTimes {
			t, err := types.NewTimeStringFromString(strings.TrimSpace(raw))
			if err != nil {
				return nil, fmt.Errorf("%w: available time: %v", domain.ErrValidation, err)
			}
			offering.AvailableTimes = append(offering.AvailableTimes, t)
		}
	case req.OpenTime != nil && req.CloseTime != nil:
		times, err := domain.GenerateSlotTimes(
			types.TimeString(strings.TrimSpace(*req.OpenTime)),
			types.TimeString(strings.TrimSpace(*req.CloseTime)),
			offering.SlotDurationMinutes,
		)
		if err != nil {
			return nil, err
		}
		offering.AvailableTimes = times
	default:
		return nil, fmt.Errorf("%w: slot offerings need availableTimes or openTime and closeTime", domain.ErrValidation)
	}

	return offering, nil
}
