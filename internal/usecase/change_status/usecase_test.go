package change_status

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-PetBookingService/internal/domain"
	"github.com/m04kA/SMC-PetBookingService/internal/infra/storage/memory"
	"github.com/m04kA/SMC-PetBookingService/pkg/keylock"
	"github.com/m04kA/SMC-PetBookingService/pkg/logger"
	"github.com/m04kA/SMC-PetBookingService/pkg/metrics"
	"github.com/m04kA/SMC-PetBookingService/pkg/ptr"
	"github.com/m04kA/SMC-PetBookingService/pkg/types"
)

type fixedTime struct{ t time.Time }

func (f fixedTime) Now() time.Time { return f.t }

type env struct {
	uc            *UseCase
	offerings     *memory.OfferingRepository
	reservations  *memory.ReservationRepository
	notifications *memory.NotificationRepository
	offering      *domain.Offering
}

func newEnv(t *testing.T, now time.Time) *env {
	t.Helper()
	store := memory.NewStore()
	e := &env{
		offerings:     memory.NewOfferingRepository(store),
		reservations:  memory.NewReservationRepository(store),
		notifications: memory.NewNotificationRepository(store),
	}

	offering, err := e.offerings.Create(context.Background(), &domain.Offering{
		ProviderID:          100,
		ServiceType:         domain.ServiceWalking,
		Kind:                domain.KindSlot,
		Name:                "Morning walk",
		Price:               15,
		Contact:             domain.Contact{Name: "Walker", Phone: "+100", Email: "walker@example.com"},
		Status:              domain.OfferingActive,
		SlotDurationMinutes: 60,
	})
	require.NoError(t, err)
	e.offering = offering

	m := metrics.NewWithRegisterer("petbooking", prometheus.NewRegistry())
	e.uc = NewUseCase(e.reservations, e.offerings, e.notifications, store, keylock.New(), m, logger.NewNop())
	e.uc.timeProvider = fixedTime{t: now}
	return e
}

// book резервирует слот в журнале и создает бронирование в статусе pending
func (e *env) book(t *testing.T, date time.Time, at string) *domain.Reservation {
	t.Helper()
	ctx := context.Background()

	offering, err := e.offerings.GetByID(ctx, e.offering.ID)
	require.NoError(t, err)
	unit := offering.SlotUnit(date, types.TimeString(at))
	require.NoError(t, offering.Reserve(unit))
	require.NoError(t, e.offerings.SaveLedger(ctx, offering))

	res, err := e.reservations.Create(ctx, &domain.Reservation{
		RequesterID:     1,
		ProviderID:      offering.ProviderID,
		OfferingID:      offering.ID,
		OfferingKind:    offering.Kind,
		ServiceType:     offering.ServiceType,
		OfferingName:    offering.Name,
		UnitPrice:       offering.Price,
		PetID:           10,
		PetName:         "Rex",
		StartDate:       unit.StartDate,
		EndDate:         unit.EndDate,
		StartTime:       unit.StartTime,
		DurationMinutes: unit.DurationMinutes,
		Contact:         domain.Contact{Name: "Ivan", Phone: "+1", Email: "ivan@example.com"},
		Status:          domain.StatusPending,
	})
	require.NoError(t, err)
	return res
}

func (e *env) ledger(t *testing.T) []domain.BookingUnit {
	t.Helper()
	offering, err := e.offerings.GetByID(context.Background(), e.offering.ID)
	require.NoError(t, err)
	return offering.Ledger
}

func (e *env) inbox(t *testing.T, userID int64) []*domain.Notification {
	t.Helper()
	list, err := e.notifications.ListByUser(context.Background(), userID, false)
	require.NoError(t, err)
	return list
}

var (
	jan10 = time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC)
	jan16 = time.Date(2024, 1, 16, 0, 0, 0, 0, time.UTC)
)

func TestExecute_AcceptAndComplete(t *testing.T) {
	e := newEnv(t, jan10)
	ctx := context.Background()
	res := e.book(t, jan16, "10:00")

	resp, err := e.uc.Execute(ctx, &Request{ReservationID: res.ID, ActorID: 100, Status: "accepted"})
	require.NoError(t, err)
	assert.Equal(t, "accepted", resp.Status)
	assert.Len(t, e.ledger(t), 1)

	inbox := e.inbox(t, 1)
	require.Len(t, inbox, 1)
	assert.Equal(t, domain.NotificationConfirmed, inbox[0].Kind)

	resp, err = e.uc.Execute(ctx, &Request{ReservationID: res.ID, ActorID: 100, Status: "completed"})
	require.NoError(t, err)
	assert.Equal(t, "completed", resp.Status)
	assert.Len(t, e.ledger(t), 1)
	assert.Len(t, e.inbox(t, 1), 1)

	_, err = e.uc.Execute(ctx, &Request{ReservationID: res.ID, ActorID: 1, Status: "cancelled"})
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestExecute_RejectReleasesSlot(t *testing.T) {
	e := newEnv(t, jan10)
	ctx := context.Background()
	res := e.book(t, jan16, "10:00")

	resp, err := e.uc.Execute(ctx, &Request{
		ReservationID: res.ID,
		ActorID:       100,
		Status:        "rejected",
		Reason:        ptr.Ptr("  fully booked  "),
	})
	require.NoError(t, err)
	assert.Equal(t, "rejected", resp.Status)
	require.NotNil(t, resp.StatusReason)
	assert.Equal(t, "fully booked", *resp.StatusReason)
	assert.Empty(t, e.ledger(t))

	inbox := e.inbox(t, 1)
	require.Len(t, inbox, 1)
	assert.Equal(t, domain.NotificationRejected, inbox[0].Kind)
	assert.Contains(t, inbox[0].Message, "fully booked")

	// освобожденный слот снова можно забронировать
	again := e.book(t, jan16, "10:00")
	assert.NotEqual(t, res.ID, again.ID)
	assert.Len(t, e.ledger(t), 1)
}

func TestExecute_CancelByEitherParty(t *testing.T) {
	e := newEnv(t, jan10)
	ctx := context.Background()

	byRequester := e.book(t, jan16, "10:00")
	resp, err := e.uc.Execute(ctx, &Request{ReservationID: byRequester.ID, ActorID: 1, Status: "cancelled"})
	require.NoError(t, err)
	require.NotNil(t, resp.CancelledBy)
	assert.Equal(t, "requester", *resp.CancelledBy)

	providerInbox := e.inbox(t, 100)
	require.Len(t, providerInbox, 1)
	assert.Equal(t, domain.NotificationCancelledByRequester, providerInbox[0].Kind)

	byProvider := e.book(t, jan16, "12:00")
	_, err = e.uc.Execute(ctx, &Request{ReservationID: byProvider.ID, ActorID: 100, Status: "accepted"})
	require.NoError(t, err)
	resp, err = e.uc.Execute(ctx, &Request{ReservationID: byProvider.ID, ActorID: 100, Status: "cancelled"})
	require.NoError(t, err)
	assert.Equal(t, "provider", *resp.CancelledBy)

	requesterInbox := e.inbox(t, 1)
	require.Len(t, requesterInbox, 2)
	assert.Equal(t, domain.NotificationCancelledByProvider, requesterInbox[0].Kind)

	assert.Empty(t, e.ledger(t))
}

func TestExecute_CancelAfterStartFails(t *testing.T) {
	e := newEnv(t, time.Date(2024, 1, 17, 8, 0, 0, 0, time.UTC))
	res := e.book(t, jan16, "10:00")

	_, err := e.uc.Execute(context.Background(), &Request{ReservationID: res.ID, ActorID: 1, Status: "cancelled"})
	assert.ErrorIs(t, err, ErrInvalidTransition)

	stored, err := e.reservations.GetByID(context.Background(), res.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, stored.Status)
	assert.Len(t, e.ledger(t), 1)
	assert.Empty(t, e.inbox(t, 100))
}

func TestExecute_CancelSameDayAfterSlotFails(t *testing.T) {
	e := newEnv(t, time.Date(2024, 1, 16, 18, 0, 0, 0, time.UTC))
	ran := e.book(t, jan16, "10:00")
	upcoming := e.book(t, jan16, "19:00")
	ctx := context.Background()

	_, err := e.uc.Execute(ctx, &Request{ReservationID: ran.ID, ActorID: 1, Status: "cancelled"})
	assert.ErrorIs(t, err, ErrInvalidTransition)

	_, err = e.uc.Execute(ctx, &Request{ReservationID: upcoming.ID, ActorID: 1, Status: "cancelled"})
	require.NoError(t, err)
	assert.Len(t, e.ledger(t), 1)
}

func TestExecute_Errors(t *testing.T) {
	e := newEnv(t, jan10)
	ctx := context.Background()
	res := e.book(t, jan16, "10:00")

	tests := []struct {
		name    string
		req     *Request
		wantErr error
	}{
		{"unknown status", &Request{ReservationID: res.ID, ActorID: 100, Status: "paused"}, ErrInvalidInput},
		{"bad reservation id", &Request{ReservationID: 0, ActorID: 100, Status: "accepted"}, ErrInvalidInput},
		{"unknown reservation", &Request{ReservationID: 999, ActorID: 100, Status: "accepted"}, ErrReservationNotFound},
		{"stranger", &Request{ReservationID: res.ID, ActorID: 55, Status: "accepted"}, ErrAccessDenied},
		{"requester accepts", &Request{ReservationID: res.ID, ActorID: 1, Status: "accepted"}, ErrAccessDenied},
		{"back to pending", &Request{ReservationID: res.ID, ActorID: 100, Status: "pending"}, ErrInvalidTransition},
		{"complete pending", &Request{ReservationID: res.ID, ActorID: 100, Status: "completed"}, ErrInvalidTransition},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.uc.Execute(ctx, tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	stored, err := e.reservations.GetByID(ctx, res.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, stored.Status)
	assert.Empty(t, e.inbox(t, 1))
}
