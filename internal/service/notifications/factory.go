package notifications

import (
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/SMC-PetBookingService/internal/domain"
)

// Message готовое уведомление и его получатель; доставку выполняет вызывающий
type Message struct {
	RecipientID int64
	Recipient   domain.Party
	Kind        domain.NotificationKind
	Text        string
}

// ToNotification превращает сообщение в запись для списка получателя
func (m Message) ToNotification(reservationID int64, now time.Time) *domain.Notification {
	return &domain.Notification{
		UserID:        m.RecipientID,
		ReservationID: reservationID,
		Kind:          m.Kind,
		Message:       m.Text,
		CreatedAt:     now,
	}
}

// BuildMessage формирует текст уведомления о событии бронирования.
// Текст зависит от типа услуги и события; для слотов указывается дата,
// время и длительность, для диапазонов даты и число дней.
func BuildMessage(r *domain.Reservation, kind domain.NotificationKind) (Message, error) {
	recipient, ok := kind.Recipient()
	if !ok {
		return Message{}, fmt.Errorf("%w: unknown notification kind %q", ErrInvalidInput, kind)
	}

	recipientID := r.RequesterID
	if recipient == domain.PartyProvider {
		recipientID = r.ProviderID
	}

	subject := fmt.Sprintf("%s %q %s", serviceNoun(r.ServiceType), r.OfferingName, when(r))
	pet := r.PetName
	if pet == "" {
		pet = fmt.Sprintf("pet #%d", r.PetID)
	}

	var text string
	switch kind {
	case domain.NotificationCreated:
		text = fmt.Sprintf("New booking request for %s: %s.", pet, subject)
	case domain.NotificationConfirmed:
		text = fmt.Sprintf("Your booking for %s is confirmed: %s.", pet, subject)
	case domain.NotificationRejected:
		text = fmt.Sprintf("Your booking for %s was rejected: %s.", pet, subject)
	case domain.NotificationCancelledByProvider:
		text = fmt.Sprintf("The provider cancelled your booking for %s: %s.", pet, subject)
	case domain.NotificationCancelledByRequester:
		text = fmt.Sprintf("The owner of %s cancelled the booking: %s.", pet, subject)
	}

	if kind != domain.NotificationCreated && kind != domain.NotificationConfirmed && r.StatusReason != nil {
		if reason := strings.TrimSpace(*r.StatusReason); reason != "" {
			text += " Reason: " + reason
		}
	}

	return Message{
		RecipientID: recipientID,
		Recipient:   recipient,
		Kind:        kind,
		Text:        text,
	}, nil
}

func serviceNoun(s domain.ServiceType) string {
	switch s {
	case domain.ServiceVeterinary:
		return "veterinary appointment"
	case domain.ServiceWalking:
		return "walk"
	case domain.ServiceCaregiving:
		return "boarding stay"
	default:
		return "service"
	}
}

func when(r *domain.Reservation) string {
	if r.OfferingKind == domain.KindSlot {
		return fmt.Sprintf("on %s at %s (%d min)", domain.FormatDate(r.StartDate), r.StartTime, r.DurationMinutes)
	}
	days := r.DayCount()
	unit := "days"
	if days == 1 {
		unit = "day"
	}
	return fmt.Sprintf("from %s to %s (%d %s)", domain.FormatDate(r.StartDate), domain.FormatDate(r.EndDate), days, unit)
}
