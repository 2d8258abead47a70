package create_reservation

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-PetBookingService/internal/domain"
	offeringRepo "github.com/m04kA/SMC-PetBookingService/internal/infra/storage/offering"
	petClient "github.com/m04kA/SMC-PetBookingService/internal/integrations/petservice"
	userClient "github.com/m04kA/SMC-PetBookingService/internal/integrations/userservice"
	"github.com/m04kA/SMC-PetBookingService/internal/service/notifications"
	"github.com/m04kA/SMC-PetBookingService/internal/service/reservations/models"
)

// UseCase use case для создания бронирования
type UseCase struct {
	offeringRepo     OfferingRepository
	reservationRepo  ReservationRepository
	notificationRepo NotificationRepository
	userClient       UserServiceClient
	petClient        PetServiceClient
	txManager        TransactionManager
	locker           Locker
	metrics          Metrics
	timeProvider     TimeProvider
	logger           Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	offeringRepo OfferingRepository,
	reservationRepo ReservationRepository,
	notificationRepo NotificationRepository,
	userClient UserServiceClient,
	petClient PetServiceClient,
	txManager TransactionManager,
	locker Locker,
	metrics Metrics,
	logger Logger,
) *UseCase {
	return &UseCase{
		offeringRepo:     offeringRepo,
		reservationRepo:  reservationRepo,
		notificationRepo: notificationRepo,
		userClient:       userClient,
		petClient:        petClient,
		txManager:        txManager,
		locker:           locker,
		metrics:          metrics,
		timeProvider:     &RealTimeProvider{},
		logger:           logger,
	}
}

// Execute выполняет use case создания бронирования
// Проверка доступности и запись в журнал оффера выполняются под блокировкой оффера
// в одной сериализуемой транзакции: при любой ошибке ничего не сохраняется.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*models.ReservationResponse, error) {
	uc.logger.Info("CreateReservation: requester=%d, offering=%d, pet=%d, startDate=%s",
		req.RequesterID, req.OfferingID, req.PetID, req.StartDate)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateReservation: validation failed: %v", err)
		return nil, err
	}

	// 2. Строгий разбор дат и времени
	parsed, err := parseRequest(req)
	if err != nil {
		uc.logger.Warn("CreateReservation: parse failed: %v", err)
		return nil, err
	}

	// 3. Блокировка оффера на время проверки и резервирования
	unlock, err := uc.locker.Lock(ctx, offeringLockKey(req.OfferingID))
	if err != nil {
		uc.logger.Error("CreateReservation: failed to lock offering=%d: %v", req.OfferingID, err)
		return nil, fmt.Errorf("%w: failed to lock offering: %v", ErrInternal, err)
	}
	defer unlock()

	// 4. Получаем заказчика и питомца
	if _, err := uc.userClient.GetUser(ctx, req.RequesterID); err != nil {
		if errors.Is(err, userClient.ErrUserNotFound) {
			uc.logger.Warn("CreateReservation: user id=%d not found", req.RequesterID)
			return nil, ErrUserNotFound
		}
		uc.logger.Error("CreateReservation: failed to get user id=%d: %v", req.RequesterID, err)
		return nil, fmt.Errorf("%w: failed to get user: %v", ErrInternal, err)
	}

	pet, err := uc.petClient.GetPet(ctx, req.PetID)
	if err != nil {
		if errors.Is(err, petClient.ErrPetNotFound) {
			uc.logger.Warn("CreateReservation: pet id=%d not found", req.PetID)
			return nil, ErrPetNotFound
		}
		uc.logger.Error("CreateReservation: failed to get pet id=%d: %v", req.PetID, err)
		return nil, fmt.Errorf("%w: failed to get pet: %v", ErrInternal, err)
	}

	if pet.OwnerID != req.RequesterID {
		uc.logger.Warn("CreateReservation: pet id=%d belongs to user=%d, not to requester=%d",
			pet.ID, pet.OwnerID, req.RequesterID)
		return nil, ErrPetNotOwned
	}

	now := uc.timeProvider.Now()
	var result *domain.Reservation

	// 5. Проверка и резервирование в сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 5.1. Загружаем оффер с журналом (FOR UPDATE)
		offering, err := uc.offeringRepo.GetByID(txCtx, req.OfferingID)
		if err != nil {
			if errors.Is(err, offeringRepo.ErrOfferingNotFound) {
				uc.logger.Warn("CreateReservation: offering id=%d not found", req.OfferingID)
				return ErrOfferingNotFound
			}
			uc.logger.Error("CreateReservation: failed to get offering id=%d: %v", req.OfferingID, err)
			return fmt.Errorf("%w: failed to get offering: %w", ErrInternal, err)
		}

		// 5.2. Бизнес-проверки оффера
		if parsed.kind != nil && *parsed.kind != offering.Kind {
			uc.logger.Warn("CreateReservation: offering id=%d is %q, request expects %q",
				offering.ID, offering.Kind, *parsed.kind)
			return fmt.Errorf("%w: offering %d is a %s offering, not %s",
				ErrInvalidInput, offering.ID, offering.Kind, *parsed.kind)
		}

		if offering.ProviderID == req.RequesterID {
			uc.logger.Warn("CreateReservation: provider=%d tried to book own offering id=%d",
				req.RequesterID, offering.ID)
			return fmt.Errorf("%w: providers cannot book their own offerings", ErrInvalidInput)
		}

		if !offering.IsActive() {
			uc.logger.Warn("CreateReservation: offering id=%d is inactive", offering.ID)
			return ErrOfferingInactive
		}

		if !offering.Accepts(pet.Species) {
			uc.logger.Warn("CreateReservation: offering id=%d does not accept species %q", offering.ID, pet.Species)
			return fmt.Errorf("%w: %s", ErrSpeciesNotAccepted, pet.Species)
		}

		unit, err := buildUnit(offering, parsed)
		if err != nil {
			return err
		}

		if err := offering.CheckBookable(unit); err != nil {
			uc.logger.Warn("CreateReservation: unit is not bookable on offering id=%d: %v", offering.ID, err)
			return fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}

		if unit.StartsBefore(now) {
			uc.logger.Warn("CreateReservation: requested %s on offering id=%d has already started",
				domain.FormatDate(unit.StartDate), offering.ID)
			return ErrDateInPast
		}

		// 5.3. Проверяем доступность и резервируем
		if !offering.IsAvailable(unit) {
			uc.metrics.ReservationConflict(string(offering.Kind))
			uc.logger.Warn("CreateReservation: offering id=%d is already booked for %s",
				offering.ID, domain.FormatDate(unit.StartDate))
			return ErrSlotNotAvailable
		}

		if err := offering.Reserve(unit); err != nil {
			uc.metrics.ReservationConflict(string(offering.Kind))
			return fmt.Errorf("%w: %v", ErrSlotNotAvailable, err)
		}

		// 5.4. Создаем бронирование с денормализацией данных оффера и питомца
		reservation := &domain.Reservation{
			RequesterID:     req.RequesterID,
			ProviderID:      offering.ProviderID,
			OfferingID:      offering.ID,
			OfferingKind:    offering.Kind,
			ServiceType:     offering.ServiceType,
			OfferingName:    offering.Name,
			UnitPrice:       offering.Price,
			PetID:           pet.ID,
			PetName:         pet.Name,
			StartDate:       unit.StartDate,
			EndDate:         unit.EndDate,
			StartTime:       unit.StartTime,
			DurationMinutes: unit.DurationMinutes,
			Note:            parsed.note,
			Contact:         parsed.contact,
			Status:          domain.StatusPending,
			CreatedAt:       now,
			UpdatedAt:       now,
		}

		created, err := uc.reservationRepo.Create(txCtx, reservation)
		if err != nil {
			uc.logger.Error("CreateReservation: failed to create reservation: %v", err)
			return fmt.Errorf("%w: failed to create reservation: %w", ErrInternal, err)
		}

		// 5.5. Сохраняем журнал (оптимистичная проверка версии, конфликт повторяется менеджером)
		if err := uc.offeringRepo.SaveLedger(txCtx, offering); err != nil {
			uc.logger.Warn("CreateReservation: failed to save ledger of offering id=%d: %v", offering.ID, err)
			return fmt.Errorf("%w: failed to save ledger: %w", ErrInternal, err)
		}

		// 5.6. Уведомляем провайдера о новой заявке
		msg, err := notifications.BuildMessage(created, domain.NotificationCreated)
		if err != nil {
			return fmt.Errorf("%w: failed to build notification: %v", ErrInternal, err)
		}
		if _, err := uc.notificationRepo.Create(txCtx, msg.ToNotification(created.ID, now)); err != nil {
			uc.logger.Error("CreateReservation: failed to store notification: %v", err)
			return fmt.Errorf("%w: failed to store notification: %w", ErrInternal, err)
		}

		result = created
		return nil
	})

	if err != nil {
		return nil, err
	}

	uc.metrics.ReservationCreated(string(result.OfferingKind))
	uc.logger.Info("CreateReservation: successfully created reservation id=%d on offering=%d",
		result.ID, result.OfferingID)

	return models.FromDomainReservation(result), nil
}

func offeringLockKey(id int64) string {
	return fmt.Sprintf("offering:%d", id)
}
