package change_status

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-PetBookingService/internal/domain"
	reservationRepo "github.com/m04kA/SMC-PetBookingService/internal/infra/storage/reservation"
	"github.com/m04kA/SMC-PetBookingService/internal/service/notifications"
	"github.com/m04kA/SMC-PetBookingService/internal/service/reservations/models"
)

// UseCase use case смены статуса бронирования
type UseCase struct {
	reservationRepo  ReservationRepository
	offeringRepo     OfferingRepository
	notificationRepo NotificationRepository
	txManager        TransactionManager
	locker           Locker
	metrics          Metrics
	timeProvider     TimeProvider
	logger           Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	reservationRepo ReservationRepository,
	offeringRepo OfferingRepository,
	notificationRepo NotificationRepository,
	txManager TransactionManager,
	locker Locker,
	metrics Metrics,
	logger Logger,
) *UseCase {
	return &UseCase{
		reservationRepo:  reservationRepo,
		offeringRepo:     offeringRepo,
		notificationRepo: notificationRepo,
		txManager:        txManager,
		locker:           locker,
		metrics:          metrics,
		timeProvider:     &RealTimeProvider{},
		logger:           logger,
	}
}

// Execute выполняет переход статуса от имени участника бронирования
// Отказ и отмена освобождают слот или диапазон в журнале оффера;
// о переходе уведомляется ровно один участник.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*models.ReservationResponse, error) {
	uc.logger.Info("ChangeStatus: reservation=%d, actor=%d, status=%s", req.ReservationID, req.ActorID, req.Status)

	// 1. Валидация входных данных
	target, err := validateRequest(req)
	if err != nil {
		uc.logger.Warn("ChangeStatus: validation failed: %v", err)
		return nil, err
	}

	// 2. Блокировка бронирования
	unlock, err := uc.locker.Lock(ctx, reservationLockKey(req.ReservationID))
	if err != nil {
		uc.logger.Error("ChangeStatus: failed to lock reservation=%d: %v", req.ReservationID, err)
		return nil, fmt.Errorf("%w: failed to lock reservation: %v", ErrInternal, err)
	}
	defer unlock()

	now := uc.timeProvider.Now()
	var result *domain.Reservation

	// 3. Переход и его последствия в одной транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 3.1. Загружаем бронирование (FOR UPDATE)
		reservation, err := uc.reservationRepo.GetByID(txCtx, req.ReservationID)
		if err != nil {
			if errors.Is(err, reservationRepo.ErrReservationNotFound) {
				uc.logger.Warn("ChangeStatus: reservation id=%d not found", req.ReservationID)
				return ErrReservationNotFound
			}
			uc.logger.Error("ChangeStatus: failed to get reservation id=%d: %v", req.ReservationID, err)
			return fmt.Errorf("%w: failed to get reservation: %w", ErrInternal, err)
		}

		// 3.2. Определяем сторону вызывающего
		actor, err := reservation.PartyOf(req.ActorID)
		if err != nil {
			uc.logger.Warn("ChangeStatus: user=%d is not a party to reservation id=%d", req.ActorID, reservation.ID)
			return fmt.Errorf("%w: %v", ErrAccessDenied, err)
		}

		// 3.3. Применяем переход
		effect, err := reservation.Transition(target, actor, req.Reason, now)
		if err != nil {
			uc.logger.Warn("ChangeStatus: %s cannot move reservation id=%d from %s to %s: %v",
				actor, reservation.ID, reservation.Status, target, err)
			return mapTransitionError(err)
		}

		// 3.4. Освобождаем журнал оффера
		if effect.Release {
			if err := uc.release(txCtx, reservation); err != nil {
				return err
			}
		}

		// 3.5. Сохраняем бронирование
		if err := uc.reservationRepo.UpdateStatus(txCtx, reservation); err != nil {
			uc.logger.Error("ChangeStatus: failed to update reservation id=%d: %v", reservation.ID, err)
			return fmt.Errorf("%w: failed to update reservation: %w", ErrInternal, err)
		}

		// 3.6. Уведомляем другую сторону
		if effect.Notify != nil {
			msg, err := notifications.BuildMessage(reservation, *effect.Notify)
			if err != nil {
				return fmt.Errorf("%w: failed to build notification: %v", ErrInternal, err)
			}
			if _, err := uc.notificationRepo.Create(txCtx, msg.ToNotification(reservation.ID, now)); err != nil {
				uc.logger.Error("ChangeStatus: failed to store notification: %v", err)
				return fmt.Errorf("%w: failed to store notification: %w", ErrInternal, err)
			}
		}

		result = reservation
		return nil
	})

	if err != nil {
		return nil, err
	}

	uc.metrics.StatusChanged(string(result.Status))
	uc.logger.Info("ChangeStatus: reservation id=%d is now %s", result.ID, result.Status)

	return models.FromDomainReservation(result), nil
}

// release удаляет единицу бронирования из журнала оффера и сохраняет журнал
func (uc *UseCase) release(ctx context.Context, reservation *domain.Reservation) error {
	offering, err := uc.offeringRepo.GetByID(ctx, reservation.OfferingID)
	if err != nil {
		uc.logger.Error("ChangeStatus: failed to get offering id=%d: %v", reservation.OfferingID, err)
		return fmt.Errorf("%w: failed to get offering: %w", ErrInternal, err)
	}

	if !offering.Release(reservation.Unit()) {
		// журнал уже не содержит записи: сохранять нечего
		uc.logger.Warn("ChangeStatus: reservation id=%d was not in the ledger of offering id=%d",
			reservation.ID, offering.ID)
		return nil
	}

	if err := uc.offeringRepo.SaveLedger(ctx, offering); err != nil {
		uc.logger.Warn("ChangeStatus: failed to save ledger of offering id=%d: %v", offering.ID, err)
		return fmt.Errorf("%w: failed to save ledger: %w", ErrInternal, err)
	}

	return nil
}

func mapTransitionError(err error) error {
	switch {
	case errors.Is(err, domain.ErrAuthorization):
		return fmt.Errorf("%w: %v", ErrAccessDenied, err)
	case errors.Is(err, domain.ErrValidation):
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	default:
		return fmt.Errorf("%w: %v", ErrInvalidTransition, err)
	}
}

func reservationLockKey(id int64) string {
	return fmt.Sprintf("reservation:%d", id)
}
