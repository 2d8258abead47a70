package offerings

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-PetBookingService/internal/domain"
	"github.com/m04kA/SMC-PetBookingService/internal/infra/storage/memory"
	"github.com/m04kA/SMC-PetBookingService/internal/service/offerings/models"
	"github.com/m04kA/SMC-PetBookingService/pkg/logger"
	"github.com/m04kA/SMC-PetBookingService/pkg/ptr"
)

type fixedTime struct{ t time.Time }

func (f fixedTime) Now() time.Time { return f.t }

func newTestService() (*Service, *memory.OfferingRepository) {
	repo := memory.NewOfferingRepository(memory.NewStore())
	svc := NewService(repo, logger.NewNop())
	svc.timeProvider = fixedTime{t: time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC)}
	return svc, repo
}

func vetRequest() *models.CreateOfferingRequest {
	return &models.CreateOfferingRequest{
		ServiceType:       "veterinary",
		Name:              "Vaccination",
		Price:             40,
		Contact:           models.ContactRequest{Name: "Clinic", Phone: "+100", Email: "clinic@example.com"},
		AcceptedSpecies:   []string{"Dog", " cat "},
		AvailableWeekdays: []string{"tuesday"},
		OpenTime:          ptr.Ptr("10:00"),
		CloseTime:         ptr.Ptr("20:00"),
	}
}

func caregiverRequest() *models.CreateOfferingRequest {
	return &models.CreateOfferingRequest{
		ServiceType: "caregiving",
		Name:        "Home boarding",
		Price:       25,
		Contact:     models.ContactRequest{Name: "Anna", Phone: "+200", Email: "anna@example.com"},
	}
}

func reserve(t *testing.T, repo *memory.OfferingRepository, id int64, unit func(o *domain.Offering) domain.BookingUnit) {
	t.Helper()
	ctx := context.Background()
	o, err := repo.GetByID(ctx, id)
	require.NoError(t, err)
	require.NoError(t, o.Reserve(unit(o)))
	require.NoError(t, repo.SaveLedger(ctx, o))
}

func TestService_CreateSlotOffering(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	resp, err := svc.Create(ctx, 100, vetRequest())
	require.NoError(t, err)

	assert.Equal(t, int64(100), resp.ProviderID)
	assert.Equal(t, "slot", resp.Kind)
	assert.Equal(t, "active", resp.Status)
	assert.Equal(t, []string{"dog", "cat"}, resp.AcceptedSpecies)
	assert.Equal(t, []string{"tuesday"}, resp.AvailableWeekdays)
	require.NotNil(t, resp.SlotDurationMinutes)
	assert.Equal(t, 30, *resp.SlotDurationMinutes)
	require.Len(t, resp.AvailableTimes, 20)
	assert.Equal(t, "10:00", resp.AvailableTimes[0])
	assert.Equal(t, "19:30", resp.AvailableTimes[19])

	got, err := svc.GetByID(ctx, resp.ID)
	require.NoError(t, err)
	assert.Equal(t, resp.AvailableTimes, got.AvailableTimes)
}

func TestService_CreateRangeOffering(t *testing.T) {
	svc, _ := newTestService()

	resp, err := svc.Create(context.Background(), 200, caregiverRequest())
	require.NoError(t, err)

	assert.Equal(t, "range", resp.Kind)
	assert.Nil(t, resp.SlotDurationMinutes)
	assert.Empty(t, resp.AvailableTimes)
}

func TestService_CreateValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(r *models.CreateOfferingRequest)
	}{
		{"unknown service type", func(r *models.CreateOfferingRequest) { r.ServiceType = "grooming" }},
		{"both time sources", func(r *models.CreateOfferingRequest) { r.AvailableTimes = []string{"10:00"} }},
		{"no time source", func(r *models.CreateOfferingRequest) { r.OpenTime, r.CloseTime = nil, nil }},
		{"bad weekday", func(r *models.CreateOfferingRequest) { r.AvailableWeekdays = []string{"someday"} }},
		{"duplicate weekday", func(r *models.CreateOfferingRequest) { r.AvailableWeekdays = []string{"tue", "Tuesday"} }},
		{"close before open", func(r *models.CreateOfferingRequest) { r.CloseTime = ptr.Ptr("09:00") }},
		{"bad explicit time", func(r *models.CreateOfferingRequest) {
			r.OpenTime, r.CloseTime = nil, nil
			r.AvailableTimes = []string{"9:00"}
		}},
		{"unsorted explicit times", func(r *models.CreateOfferingRequest) {
			r.OpenTime, r.CloseTime = nil, nil
			r.AvailableTimes = []string{"11:00", "10:00"}
		}},
		{"missing contact", func(r *models.CreateOfferingRequest) { r.Contact.Email = "" }},
		{"negative price", func(r *models.CreateOfferingRequest) { r.Price = -1 }},
		{"unknown status", func(r *models.CreateOfferingRequest) { r.Status = ptr.Ptr("paused") }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := newTestService()
			req := vetRequest()
			tt.mutate(req)

			_, err := svc.Create(context.Background(), 100, req)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}

	t.Run("range with times", func(t *testing.T) {
		svc, _ := newTestService()
		req := caregiverRequest()
		req.SlotDurationMinutes = ptr.Ptr(60)

		_, err := svc.Create(context.Background(), 200, req)
		assert.ErrorIs(t, err, ErrInvalidInput)
	})
}

func TestService_ListAndSetStatus(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	vet, err := svc.Create(ctx, 100, vetRequest())
	require.NoError(t, err)
	_, err = svc.Create(ctx, 100, caregiverRequest())
	require.NoError(t, err)

	_, err = svc.SetStatus(ctx, vet.ID, 999, &models.SetStatusRequest{Status: "inactive"})
	assert.ErrorIs(t, err, ErrAccessDenied)

	_, err = svc.SetStatus(ctx, vet.ID, 100, &models.SetStatusRequest{Status: "paused"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	updated, err := svc.SetStatus(ctx, vet.ID, 100, &models.SetStatusRequest{Status: "Inactive"})
	require.NoError(t, err)
	assert.Equal(t, "inactive", updated.Status)

	all, err := svc.ListByProvider(ctx, 100, false)
	require.NoError(t, err)
	assert.Len(t, all.Offerings, 2)

	active, err := svc.ListByProvider(ctx, 100, true)
	require.NoError(t, err)
	require.Len(t, active.Offerings, 1)
	assert.Equal(t, "range", active.Offerings[0].Kind)

	_, err = svc.SetStatus(ctx, 12345, 100, &models.SetStatusRequest{Status: "active"})
	assert.ErrorIs(t, err, ErrOfferingNotFound)
}

func TestService_SlotAvailability(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()

	vet, err := svc.Create(ctx, 100, vetRequest())
	require.NoError(t, err)

	tuesday := time.Date(2024, 1, 16, 0, 0, 0, 0, time.UTC)
	reserve(t, repo, vet.ID, func(o *domain.Offering) domain.BookingUnit { return o.SlotUnit(tuesday, "10:30") })

	resp, err := svc.GetAvailability(ctx, vet.ID, "16/01/2024", nil)
	require.NoError(t, err)
	require.Len(t, resp.Slots, 20)
	assert.Equal(t, "slot", resp.Kind)
	assert.True(t, resp.Slots[0].Available)
	assert.Equal(t, "10:30", resp.Slots[1].StartTime)
	assert.False(t, resp.Slots[1].Available)
	assert.True(t, resp.Slots[2].Available)
	assert.Nil(t, resp.Available)

	// среда не рабочий день
	_, err = svc.GetAvailability(ctx, vet.ID, "17/01/2024", nil)
	assert.ErrorIs(t, err, ErrInvalidInput)

	// прошедшая дата: все слоты недоступны
	past, err := svc.GetAvailability(ctx, vet.ID, "09/01/2024", nil)
	require.NoError(t, err)
	for _, slot := range past.Slots {
		assert.False(t, slot.Available, slot.StartTime)
	}

	_, err = svc.GetAvailability(ctx, vet.ID, "2024-01-16", nil)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.GetAvailability(ctx, 777, "16/01/2024", nil)
	assert.ErrorIs(t, err, ErrOfferingNotFound)
}

func TestService_RangeAvailability(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()

	stay, err := svc.Create(ctx, 200, caregiverRequest())
	require.NoError(t, err)

	from := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 1, 12, 0, 0, 0, 0, time.UTC)
	reserve(t, repo, stay.ID, func(o *domain.Offering) domain.BookingUnit { return o.RangeUnit(from, to) })

	busy, err := svc.GetAvailability(ctx, stay.ID, "12/01/2024", ptr.Ptr("14/01/2024"))
	require.NoError(t, err)
	require.NotNil(t, busy.Available)
	assert.False(t, *busy.Available)
	assert.Equal(t, 3, busy.DayCount)
	assert.Equal(t, []models.BookedRange{{StartDate: "10/01/2024", EndDate: "12/01/2024"}}, busy.BookedRanges)

	free, err := svc.GetAvailability(ctx, stay.ID, "13/01/2024", ptr.Ptr("14/01/2024"))
	require.NoError(t, err)
	require.NotNil(t, free.Available)
	assert.True(t, *free.Available)
	assert.Empty(t, free.BookedRanges)

	_, err = svc.GetAvailability(ctx, stay.ID, "14/01/2024", ptr.Ptr("13/01/2024"))
	assert.ErrorIs(t, err, ErrInvalidInput)
}
