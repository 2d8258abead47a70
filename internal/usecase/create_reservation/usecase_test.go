package create_reservation

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-PetBookingService/internal/domain"
	"github.com/m04kA/SMC-PetBookingService/internal/infra/storage/memory"
	"github.com/m04kA/SMC-PetBookingService/internal/integrations/petservice"
	"github.com/m04kA/SMC-PetBookingService/internal/integrations/userservice"
	"github.com/m04kA/SMC-PetBookingService/pkg/keylock"
	"github.com/m04kA/SMC-PetBookingService/pkg/logger"
	"github.com/m04kA/SMC-PetBookingService/pkg/metrics"
	"github.com/m04kA/SMC-PetBookingService/pkg/ptr"
)

type fakeUsers map[int64]*userservice.User

func (f fakeUsers) GetUser(_ context.Context, id int64) (*userservice.User, error) {
	if u, ok := f[id]; ok {
		return u, nil
	}
	return nil, userservice.ErrUserNotFound
}

type fakePets map[int64]*petservice.Pet

func (f fakePets) GetPet(_ context.Context, id int64) (*petservice.Pet, error) {
	if p, ok := f[id]; ok {
		return p, nil
	}
	return nil, petservice.ErrPetNotFound
}

type fixedTime struct{ t time.Time }

func (f fixedTime) Now() time.Time { return f.t }

type env struct {
	uc            *UseCase
	offerings     *memory.OfferingRepository
	reservations  *memory.ReservationRepository
	notifications *memory.NotificationRepository
	metrics       *metrics.Metrics
	vetID         int64
	stayID        int64
}

// newEnv: "сейчас" среда 10/01/2024 09:00, ветеринар работает по вторникам 10:00-20:00
func newEnv(t *testing.T) *env {
	t.Helper()
	ctx := context.Background()

	store := memory.NewStore()
	e := &env{
		offerings:     memory.NewOfferingRepository(store),
		reservations:  memory.NewReservationRepository(store),
		notifications: memory.NewNotificationRepository(store),
		metrics:       metrics.NewWithRegisterer("petbooking", prometheus.NewRegistry()),
	}

	times, err := domain.GenerateSlotTimes("10:00", "20:00", 30)
	require.NoError(t, err)

	vet, err := e.offerings.Create(ctx, &domain.Offering{
		ProviderID:          100,
		ServiceType:         domain.ServiceVeterinary,
		Kind:                domain.KindSlot,
		Name:                "Vaccination",
		Price:               40,
		Contact:             domain.Contact{Name: "Clinic", Phone: "+100", Email: "clinic@example.com"},
		AcceptedSpecies:     []string{"dog", "cat"},
		Status:              domain.OfferingActive,
		SlotDurationMinutes: 30,
		AvailableWeekdays:   []time.Weekday{time.Tuesday},
		AvailableTimes:      times,
	})
	require.NoError(t, err)
	e.vetID = vet.ID

	stay, err := e.offerings.Create(ctx, &domain.Offering{
		ProviderID:  200,
		ServiceType: domain.ServiceCaregiving,
		Kind:        domain.KindRange,
		Name:        "Home boarding",
		Price:       25,
		Contact:     domain.Contact{Name: "Anna", Phone: "+200", Email: "anna@example.com"},
		Status:      domain.OfferingActive,
	})
	require.NoError(t, err)
	e.stayID = stay.ID

	users := fakeUsers{
		1:   {ID: 1, Name: "Ivan"},
		2:   {ID: 2, Name: "Olga"},
		100: {ID: 100, Name: "Clinic owner"},
	}
	pets := fakePets{
		10: {ID: 10, OwnerID: 1, Name: "Rex", Species: "dog"},
		11: {ID: 11, OwnerID: 1, Name: "Bob", Species: "hamster"},
		20: {ID: 20, OwnerID: 2, Name: "Luna", Species: "Cat"},
		30: {ID: 30, OwnerID: 100, Name: "Max", Species: "dog"},
	}

	e.uc = NewUseCase(e.offerings, e.reservations, e.notifications, users, pets, store, keylock.New(), e.metrics, logger.NewNop())
	e.uc.timeProvider = fixedTime{t: time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC)}
	return e
}

func slotRequest(e *env, requester, pet int64, date, at string) *Request {
	return &Request{
		RequesterID: requester,
		OfferingID:  e.vetID,
		PetID:       pet,
		StartDate:   date,
		StartTime:   ptr.Ptr(at),
		Contact:     Contact{Name: "Ivan", Phone: "+1", Email: "ivan@example.com"},
	}
}

func rangeRequest(e *env, requester, pet int64, from, to string) *Request {
	return &Request{
		RequesterID: requester,
		OfferingID:  e.stayID,
		PetID:       pet,
		StartDate:   from,
		EndDate:     ptr.Ptr(to),
		Contact:     Contact{Name: "Ivan", Phone: "+1", Email: "ivan@example.com"},
	}
}

func (e *env) count(t *testing.T) (int, int) {
	t.Helper()
	ctx := context.Background()
	list, err := e.reservations.List(ctx, domain.ReservationsFilter{})
	require.NoError(t, err)
	n1, err := e.notifications.ListByUser(ctx, 100, false)
	require.NoError(t, err)
	n2, err := e.notifications.ListByUser(ctx, 200, false)
	require.NoError(t, err)
	return len(list), len(n1) + len(n2)
}

func TestExecute_SlotScenario(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	resp, err := e.uc.Execute(ctx, slotRequest(e, 1, 10, "16/01/2024", "10:30"))
	require.NoError(t, err)
	assert.Equal(t, "pending", resp.Status)
	assert.Equal(t, int64(100), resp.ProviderID)
	assert.Equal(t, "Rex", resp.PetName)
	assert.Equal(t, "16/01/2024", resp.StartDate)
	assert.Equal(t, "16/01/2024", resp.EndDate)
	require.NotNil(t, resp.StartTime)
	assert.Equal(t, "10:30", *resp.StartTime)
	require.NotNil(t, resp.DurationMinutes)
	assert.Equal(t, 30, *resp.DurationMinutes)
	assert.Equal(t, 1, resp.DayCount)
	assert.Equal(t, 40.0, resp.TotalPrice)

	// соседние слоты не пересекаются
	_, err = e.uc.Execute(ctx, slotRequest(e, 2, 20, "16/01/2024", "10:00"))
	require.NoError(t, err)
	_, err = e.uc.Execute(ctx, slotRequest(e, 2, 20, "16/01/2024", "11:00"))
	require.NoError(t, err)

	_, err = e.uc.Execute(ctx, slotRequest(e, 2, 20, "16/01/2024", "10:30"))
	assert.ErrorIs(t, err, ErrSlotNotAvailable)

	// тот же слот через неделю свободен
	_, err = e.uc.Execute(ctx, slotRequest(e, 2, 20, "23/01/2024", "10:30"))
	require.NoError(t, err)

	assert.Equal(t, 4.0, testutil.ToFloat64(e.metrics.ReservationsCreated.WithLabelValues("petbooking", "slot")))
	assert.Equal(t, 1.0, testutil.ToFloat64(e.metrics.ReservationConflicts.WithLabelValues("petbooking", "slot")))

	offering, err := e.offerings.GetByID(ctx, e.vetID)
	require.NoError(t, err)
	assert.Len(t, offering.Ledger, 4)

	notes, err := e.notifications.ListByUser(ctx, 100, false)
	require.NoError(t, err)
	require.Len(t, notes, 4)
	assert.Equal(t, domain.NotificationCreated, notes[len(notes)-1].Kind)
	assert.Contains(t, notes[len(notes)-1].Message, "Rex")
	assert.Contains(t, notes[len(notes)-1].Message, "16/01/2024")
}

func TestExecute_RangeScenario(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	resp, err := e.uc.Execute(ctx, rangeRequest(e, 1, 10, "10/01/2024", "12/01/2024"))
	require.NoError(t, err)
	assert.Equal(t, 3, resp.DayCount)
	assert.Equal(t, 75.0, resp.TotalPrice)
	assert.Nil(t, resp.StartTime)

	// день передачи питомца занят
	_, err = e.uc.Execute(ctx, rangeRequest(e, 2, 20, "12/01/2024", "14/01/2024"))
	assert.ErrorIs(t, err, ErrSlotNotAvailable)

	_, err = e.uc.Execute(ctx, rangeRequest(e, 2, 20, "13/01/2024", "14/01/2024"))
	require.NoError(t, err)

	// без конечной даты бронируется один день
	single, err := e.uc.Execute(ctx, &Request{
		RequesterID: 1,
		OfferingID:  e.stayID,
		PetID:       10,
		StartDate:   "20/01/2024",
		Contact:     Contact{Name: "Ivan", Phone: "+1", Email: "ivan@example.com"},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, single.DayCount)
}

func TestExecute_OfferingKindMatches(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	slot := slotRequest(e, 1, 10, "16/01/2024", "10:30")
	slot.OfferingKind = ptr.Ptr("slot")
	resp, err := e.uc.Execute(ctx, slot)
	require.NoError(t, err)
	assert.Equal(t, "slot", resp.OfferingKind)

	stay := rangeRequest(e, 1, 10, "12/01/2024", "14/01/2024")
	stay.OfferingKind = ptr.Ptr(" range ")
	resp, err = e.uc.Execute(ctx, stay)
	require.NoError(t, err)
	assert.Equal(t, "range", resp.OfferingKind)

	// пустое значение не проверяется
	empty := rangeRequest(e, 2, 20, "20/01/2024", "21/01/2024")
	empty.OfferingKind = ptr.Ptr("")
	_, err = e.uc.Execute(ctx, empty)
	require.NoError(t, err)
}

func TestExecute_FailureLeavesNothingBehind(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	_, err := e.uc.Execute(ctx, rangeRequest(e, 1, 10, "10/01/2024", "12/01/2024"))
	require.NoError(t, err)
	reservationsBefore, notificationsBefore := e.count(t)

	_, err = e.uc.Execute(ctx, rangeRequest(e, 2, 20, "11/01/2024", "11/01/2024"))
	require.ErrorIs(t, err, ErrSlotNotAvailable)

	reservationsAfter, notificationsAfter := e.count(t)
	assert.Equal(t, reservationsBefore, reservationsAfter)
	assert.Equal(t, notificationsBefore, notificationsAfter)

	offering, err := e.offerings.GetByID(ctx, e.stayID)
	require.NoError(t, err)
	assert.Len(t, offering.Ledger, 1)
}

func TestExecute_ConcurrentIdenticalRequests(t *testing.T) {
	e := newEnv(t)

	const workers = 10
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
		conflicts int
	)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := e.uc.Execute(context.Background(), slotRequest(e, 1, 10, "16/01/2024", "10:30"))

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				successes++
			case errors.Is(err, ErrSlotNotAvailable):
				conflicts++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, successes)
	assert.Equal(t, workers-1, conflicts)

	reservations, _ := e.count(t)
	assert.Equal(t, 1, reservations)
}

func TestExecute_Errors(t *testing.T) {
	tests := []struct {
		name    string
		request func(e *env) *Request
		setup   func(t *testing.T, e *env)
		wantErr error
	}{
		{
			name:    "missing contact",
			request: func(e *env) *Request { r := slotRequest(e, 1, 10, "16/01/2024", "10:30"); r.Contact.Phone = " "; return r },
			wantErr: ErrInvalidInput,
		},
		{
			name:    "iso date",
			request: func(e *env) *Request { return slotRequest(e, 1, 10, "2024-01-16", "10:30") },
			wantErr: ErrInvalidInput,
		},
		{
			name:    "bad time",
			request: func(e *env) *Request { return slotRequest(e, 1, 10, "16/01/2024", "25:00") },
			wantErr: ErrInvalidInput,
		},
		{
			name: "note too long",
			request: func(e *env) *Request {
				r := slotRequest(e, 1, 10, "16/01/2024", "10:30")
				r.Note = ptr.Ptr(strings.Repeat("x", domain.MaxNoteLength+1))
				return r
			},
			wantErr: ErrInvalidInput,
		},
		{
			name: "unknown offering kind",
			request: func(e *env) *Request {
				r := slotRequest(e, 1, 10, "16/01/2024", "10:30")
				r.OfferingKind = ptr.Ptr("hourly")
				return r
			},
			wantErr: ErrInvalidInput,
		},
		{
			name: "slot request on range offering",
			request: func(e *env) *Request {
				r := rangeRequest(e, 1, 10, "12/01/2024", "14/01/2024")
				r.OfferingKind = ptr.Ptr("slot")
				return r
			},
			wantErr: ErrInvalidInput,
		},
		{
			name: "range request on slot offering",
			request: func(e *env) *Request {
				r := slotRequest(e, 1, 10, "16/01/2024", "10:30")
				r.OfferingKind = ptr.Ptr("range")
				return r
			},
			wantErr: ErrInvalidInput,
		},
		{
			name:    "provider books own offering",
			request: func(e *env) *Request { return slotRequest(e, 100, 30, "16/01/2024", "10:30") },
			wantErr: ErrInvalidInput,
		},
		{
			name:    "unknown user",
			request: func(e *env) *Request { return slotRequest(e, 99, 10, "16/01/2024", "10:30") },
			wantErr: ErrUserNotFound,
		},
		{
			name:    "unknown pet",
			request: func(e *env) *Request { return slotRequest(e, 1, 99, "16/01/2024", "10:30") },
			wantErr: ErrPetNotFound,
		},
		{
			name:    "pet of another user",
			request: func(e *env) *Request { return slotRequest(e, 1, 20, "16/01/2024", "10:30") },
			wantErr: ErrPetNotOwned,
		},
		{
			name:    "unknown offering",
			request: func(e *env) *Request { r := slotRequest(e, 1, 10, "16/01/2024", "10:30"); r.OfferingID = 999; return r },
			wantErr: ErrOfferingNotFound,
		},
		{
			name:    "species not accepted",
			request: func(e *env) *Request { return slotRequest(e, 1, 11, "16/01/2024", "10:30") },
			wantErr: ErrSpeciesNotAccepted,
		},
		{
			name:    "not a working day",
			request: func(e *env) *Request { return slotRequest(e, 1, 10, "17/01/2024", "10:30") },
			wantErr: ErrInvalidInput,
		},
		{
			name:    "time not offered",
			request: func(e *env) *Request { return slotRequest(e, 1, 10, "16/01/2024", "10:15") },
			wantErr: ErrInvalidInput,
		},
		{
			name:    "slot without time",
			request: func(e *env) *Request { r := slotRequest(e, 1, 10, "16/01/2024", "10:30"); r.StartTime = nil; return r },
			wantErr: ErrInvalidInput,
		},
		{
			name: "slot across two dates",
			request: func(e *env) *Request {
				r := slotRequest(e, 1, 10, "16/01/2024", "10:30")
				r.EndDate = ptr.Ptr("17/01/2024")
				return r
			},
			wantErr: ErrInvalidInput,
		},
		{
			name: "range with time",
			request: func(e *env) *Request {
				r := rangeRequest(e, 1, 10, "12/01/2024", "14/01/2024")
				r.StartTime = ptr.Ptr("10:00")
				return r
			},
			wantErr: ErrInvalidInput,
		},
		{
			name:    "range ends before start",
			request: func(e *env) *Request { return rangeRequest(e, 1, 10, "14/01/2024", "12/01/2024") },
			wantErr: ErrInvalidInput,
		},
		{
			name:    "past slot",
			request: func(e *env) *Request { return slotRequest(e, 1, 10, "09/01/2024", "10:30") },
			wantErr: ErrDateInPast,
		},
		{
			name:    "past range",
			request: func(e *env) *Request { return rangeRequest(e, 1, 10, "08/01/2024", "12/01/2024") },
			wantErr: ErrDateInPast,
		},
		{
			name:    "inactive offering",
			request: func(e *env) *Request { return slotRequest(e, 1, 10, "16/01/2024", "10:30") },
			setup: func(t *testing.T, e *env) {
				require.NoError(t, e.offerings.UpdateStatus(context.Background(), e.vetID, domain.OfferingInactive))
			},
			wantErr: ErrOfferingInactive,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newEnv(t)
			if tt.setup != nil {
				tt.setup(t, e)
			}

			resp, err := e.uc.Execute(context.Background(), tt.request(e))
			assert.Nil(t, resp)
			assert.ErrorIs(t, err, tt.wantErr)

			reservations, notifications := e.count(t)
			assert.Zero(t, reservations)
			assert.Zero(t, notifications)
		})
	}
}
