package models

import (
	"time"

	"github.com/m04kA/SMC-PetBookingService/internal/domain"
)

// NotificationResponse уведомление для отображения
type NotificationResponse struct {
	ID            int64      `json:"id"`
	ReservationID int64      `json:"reservationId"`
	Kind          string     `json:"kind"`
	Message       string     `json:"message"`
	Read          bool       `json:"read"`
	ReadAt        *time.Time `json:"readAt,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
}

// NotificationListResponse список уведомлений
type NotificationListResponse struct {
	Notifications []NotificationResponse `json:"notifications"`
	Unread        int                    `json:"unread"`
}

// FromDomainNotification конвертирует доменное уведомление в response
func FromDomainNotification(n *domain.Notification) NotificationResponse {
	return NotificationResponse{
		ID:            n.ID,
		ReservationID: n.ReservationID,
		Kind:          string(n.Kind),
		Message:       n.Message,
		Read:          n.Read,
		ReadAt:        n.ReadAt,
		CreatedAt:     n.CreatedAt,
	}
}

// FromDomainNotificationList конвертирует список уведомлений
func FromDomainNotificationList(list []*domain.Notification) *NotificationListResponse {
	resp := &NotificationListResponse{Notifications: make([]NotificationResponse, 0, len(list))}
	for _, n := range list {
		if !n.Read {
			resp.Unread++
		}
		resp.Notifications = append(resp.Notifications, FromDomainNotification(n))
	}
	return resp
}
