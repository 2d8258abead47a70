package memory

import (
	"context"
	"sort"

	"github.com/m04kA/SMC-PetBookingService/internal/domain"
	reservationRepo "github.com/m04kA/SMC-PetBookingService/internal/infra/storage/reservation"
)

// ReservationRepository in-memory аналог reservation.Repository
type ReservationRepository struct {
	store *Store
}

// NewReservationRepository создает репозиторий бронирований поверх хранилища
func NewReservationRepository(store *Store) *ReservationRepository {
	return &ReservationRepository{store: store}
}

// Create сохраняет новое бронирование
func (r *ReservationRepository) Create(ctx context.Context, res *domain.Reservation) (*domain.Reservation, error) {
	defer r.store.acquire(ctx)()

	r.store.nextReservationID++
	res.ID = r.store.nextReservationID

	// время задает вызывающий; часы хранилища только по умолчанию
	if res.CreatedAt.IsZero() {
		res.CreatedAt = r.store.now()
	}
	if res.UpdatedAt.IsZero() {
		res.UpdatedAt = res.CreatedAt
	}

	r.store.reservations[res.ID] = cloneReservation(res)
	return res, nil
}

// GetByID возвращает копию бронирования
func (r *ReservationRepository) GetByID(ctx context.Context, id int64) (*domain.Reservation, error) {
	defer r.store.acquire(ctx)()

	res, ok := r.store.reservations[id]
	if !ok {
		return nil, reservationRepo.ErrReservationNotFound
	}
	return cloneReservation(res), nil
}

// List фильтрует бронирования в том же порядке, что и Postgres репозиторий
func (r *ReservationRepository) List(ctx context.Context, filter domain.ReservationsFilter) ([]*domain.Reservation, error) {
	defer r.store.acquire(ctx)()

	out := make([]*domain.Reservation, 0)
	for _, res := range r.store.reservations {
		if filter.RequesterID != nil && res.RequesterID != *filter.RequesterID {
			continue
		}
		if filter.ProviderID != nil && res.ProviderID != *filter.ProviderID {
			continue
		}
		if filter.OfferingID != nil && res.OfferingID != *filter.OfferingID {
			continue
		}
		if filter.Status != nil && res.Status != *filter.Status {
			continue
		}
		out = append(out, cloneReservation(res))
	}

	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if !a.StartDate.Equal(b.StartDate) {
			return a.StartDate.After(b.StartDate)
		}
		if a.StartTime != b.StartTime {
			return a.StartTime.IsAfter(b.StartTime)
		}
		return a.ID > b.ID
	})
	return out, nil
}

// UpdateStatus сохраняет результат перехода статуса
func (r *ReservationRepository) UpdateStatus(ctx context.Context, res *domain.Reservation) error {
	defer r.store.acquire(ctx)()

	stored, ok := r.store.reservations[res.ID]
	if !ok {
		return reservationRepo.ErrReservationNotFound
	}

	updated := cloneReservation(res)
	stored.Status = updated.Status
	stored.StatusReason = updated.StatusReason
	stored.CancelledBy = updated.CancelledBy
	stored.UpdatedAt = updated.UpdatedAt
	return nil
}
