package domain

import "time"

// NotificationKind is the reservation event a notification reports
type NotificationKind string

const (
	NotificationCreated              NotificationKind = "created"
	NotificationConfirmed            NotificationKind = "confirmed"
	NotificationRejected             NotificationKind = "rejected"
	NotificationCancelledByProvider  NotificationKind = "cancelled_by_provider"
	NotificationCancelledByRequester NotificationKind = "cancelled_by_requester"
)

// Recipient returns the side of the reservation a notification of this kind goes to
func (k NotificationKind) Recipient() (Party, bool) {
	switch k {
	case NotificationCreated, NotificationCancelledByRequester:
		return PartyProvider, true
	case NotificationConfirmed, NotificationRejected, NotificationCancelledByProvider:
		return PartyRequester, true
	default:
		return "", false
	}
}

// Notification is a message appended to exactly one user's list
type Notification struct {
	ID            int64
	UserID        int64
	ReservationID int64
	Kind          NotificationKind
	Message       string
	Read          bool
	ReadAt        *time.Time
	CreatedAt     time.Time
}

// MarkRead flips the read flag; repeated calls keep the first read time
func (n *Notification) MarkRead(now time.Time) {
	if n.Read {
		return
	}
	n.Read = true
	n.ReadAt = &now
}
