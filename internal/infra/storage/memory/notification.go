package memory

import (
	"context"
	"sort"

	"github.com/m04kA/SMC-PetBookingService/internal/domain"
	notificationRepo "github.com/m04kA/SMC-PetBookingService/internal/infra/storage/notification"
)

// NotificationRepository in-memory аналог notification.Repository
type NotificationRepository struct {
	store *Store
}

// NewNotificationRepository создает репозиторий уведомлений поверх хранилища
func NewNotificationRepository(store *Store) *NotificationRepository {
	return &NotificationRepository{store: store}
}

// Create добавляет уведомление
func (r *NotificationRepository) Create(ctx context.Context, n *domain.Notification) (*domain.Notification, error) {
	defer r.store.acquire(ctx)()

	r.store.nextNotificationID++
	n.ID = r.store.nextNotificationID
	if n.CreatedAt.IsZero() {
		n.CreatedAt = r.store.now()
	}

	r.store.notifications[n.ID] = cloneNotification(n)
	return n, nil
}

// GetByID возвращает копию уведомления
func (r *NotificationRepository) GetByID(ctx context.Context, id int64) (*domain.Notification, error) {
	defer r.store.acquire(ctx)()

	n, ok := r.store.notifications[id]
	if !ok {
		return nil, notificationRepo.ErrNotificationNotFound
	}
	return cloneNotification(n), nil
}

// ListByUser возвращает уведомления пользователя, новые первыми
func (r *NotificationRepository) ListByUser(ctx context.Context, userID int64, unreadOnly bool) ([]*domain.Notification, error) {
	defer r.store.acquire(ctx)()

	out := make([]*domain.Notification, 0)
	for _, n := range r.store.notifications {
		if n.UserID != userID || (unreadOnly && n.Read) {
			continue
		}
		out = append(out, cloneNotification(n))
	}

	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

// MarkRead сохраняет флаг прочтения
func (r *NotificationRepository) MarkRead(ctx context.Context, n *domain.Notification) error {
	defer r.store.acquire(ctx)()

	stored, ok := r.store.notifications[n.ID]
	if !ok {
		return notificationRepo.ErrNotificationNotFound
	}

	updated := cloneNotification(n)
	stored.Read = updated.Read
	stored.ReadAt = updated.ReadAt
	return nil
}
