package reservations

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-PetBookingService/internal/domain"
	reservationRepo "github.com/m04kA/SMC-PetBookingService/internal/infra/storage/reservation"
	"github.com/m04kA/SMC-PetBookingService/internal/service/reservations/models"
)

// Роли пользователя в списке бронирований
const (
	RoleRequester = "requester"
	RoleProvider  = "provider"
)

// Service сервис чтения бронирований
type Service struct {
	reservationRepo ReservationRepository
	logger          Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(reservationRepo ReservationRepository, logger Logger) *Service {
	return &Service{
		reservationRepo: reservationRepo,
		logger:          logger,
	}
}

// GetByID получает бронирование по ID
// Видеть бронирование могут только заказчик и провайдер
func (s *Service) GetByID(ctx context.Context, id int64, userID int64) (*models.ReservationResponse, error) {
	s.logger.Info("GetReservation: fetching reservation id=%d for user=%d", id, userID)

	res, err := s.reservationRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, reservationRepo.ErrReservationNotFound) {
			s.logger.Warn("GetReservation: reservation id=%d not found", id)
			return nil, ErrReservationNotFound
		}
		s.logger.Error("GetReservation: repository error for reservation id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	if _, err := res.PartyOf(userID); err != nil {
		s.logger.Warn("GetReservation: access denied for user=%d to reservation id=%d", userID, id)
		return nil, fmt.Errorf("%w: %v", ErrAccessDenied, err)
	}

	return models.FromDomainReservation(res), nil
}

// List получает бронирования пользователя как заказчика или как провайдера
// Опционально фильтрует по статусу
func (s *Service) List(ctx context.Context, req *models.ListReservationsRequest) (*models.ReservationListResponse, error) {
	s.logger.Info("ListReservations: user=%d, role=%s, status=%v", req.UserID, req.Role, req.Status)

	if req.UserID != req.CallerID {
		s.logger.Warn("ListReservations: caller=%d tried to list reservations of user=%d", req.CallerID, req.UserID)
		return nil, ErrAccessDenied
	}

	filter := domain.ReservationsFilter{}
	switch req.Role {
	case RoleRequester, "":
		filter.RequesterID = &req.UserID
	case RoleProvider:
		filter.ProviderID = &req.UserID
	default:
		return nil, fmt.Errorf("%w: unknown role %q", ErrInvalidInput, req.Role)
	}

	if req.Status != nil {
		status, err := domain.ParseReservationStatus(*req.Status)
		if err != nil {
			s.logger.Warn("ListReservations: invalid status=%s for user=%d", *req.Status, req.UserID)
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		filter.Status = &status
	}

	list, err := s.reservationRepo.List(ctx, filter)
	if err != nil {
		s.logger.Error("ListReservations: repository error for user=%d: %v", req.UserID, err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("ListReservations: fetched %d reservations for user=%d", len(list), req.UserID)
	return models.FromDomainReservationList(list), nil
}
