package notifications

import (
	"context"
	"errors"
	"fmt"

	notificationRepo "github.com/m04kA/SMC-PetBookingService/internal/infra/storage/notification"
	"github.com/m04kA/SMC-PetBookingService/internal/service/notifications/models"
)

// Service сервис чтения уведомлений пользователя
type Service struct {
	repo         NotificationRepository
	timeProvider TimeProvider
	logger       Logger
}

// NewService создает новый экземпляр сервиса уведомлений
func NewService(repo NotificationRepository, logger Logger) *Service {
	return &Service{
		repo:         repo,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// List возвращает уведомления пользователя; вызывающий может читать только свои
func (s *Service) List(ctx context.Context, userID, callerID int64, unreadOnly bool) (*models.NotificationListResponse, error) {
	s.logger.Info("ListNotifications: user=%d, caller=%d, unreadOnly=%t", userID, callerID, unreadOnly)

	if userID != callerID {
		s.logger.Warn("ListNotifications: caller=%d tried to read notifications of user=%d", callerID, userID)
		return nil, ErrAccessDenied
	}

	list, err := s.repo.ListByUser(ctx, userID, unreadOnly)
	if err != nil {
		s.logger.Error("ListNotifications: repository error for user=%d: %v", userID, err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainNotificationList(list), nil
}

// MarkRead отмечает уведомление прочитанным; повторный вызов ничего не меняет
func (s *Service) MarkRead(ctx context.Context, notificationID, callerID int64) (*models.NotificationResponse, error) {
	s.logger.Info("MarkRead: notification id=%d by user=%d", notificationID, callerID)

	n, err := s.repo.GetByID(ctx, notificationID)
	if err != nil {
		if errors.Is(err, notificationRepo.ErrNotificationNotFound) {
			s.logger.Warn("MarkRead: notification id=%d not found", notificationID)
			return nil, ErrNotificationNotFound
		}
		s.logger.Error("MarkRead: repository error for notification id=%d: %v", notificationID, err)
		return nil, fmt.Errorf("%w: MarkRead - repository error: %v", ErrInternal, err)
	}

	if n.UserID != callerID {
		s.logger.Warn("MarkRead: user=%d is not the owner of notification id=%d", callerID, notificationID)
		return nil, ErrAccessDenied
	}

	if !n.Read {
		n.MarkRead(s.timeProvider.Now())
		if err := s.repo.MarkRead(ctx, n); err != nil {
			s.logger.Error("MarkRead: failed to save notification id=%d: %v", notificationID, err)
			return nil, fmt.Errorf("%w: MarkRead - repository error: %v", ErrInternal, err)
		}
	}

	resp := models.FromDomainNotification(n)
	return &resp, nil
}
