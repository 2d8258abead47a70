package memory

import (
	"context"
	"sync"
	"time"

	"github.com/m04kA/SMC-PetBookingService/internal/domain"
)

type txKey struct{}

// Store общее in-memory хранилище офферов, бронирований и уведомлений.
// Используется при database.driver = "memory" и в тестах use case'ов.
// Транзакции сериализуются одним мьютексом: внутри транзакции репозитории
// работают без собственной блокировки, при ошибке состояние откатывается.
type Store struct {
	mu sync.Mutex

	offerings     map[int64]*domain.Offering
	reservations  map[int64]*domain.Reservation
	notifications map[int64]*domain.Notification

	nextOfferingID     int64
	nextReservationID  int64
	nextNotificationID int64

	now func() time.Time
}

// NewStore создает пустое хранилище
func NewStore() *Store {
	return &Store{
		offerings:     make(map[int64]*domain.Offering),
		reservations:  make(map[int64]*domain.Reservation),
		notifications: make(map[int64]*domain.Notification),
		now:           func() time.Time { return time.Now().UTC() },
	}
}

// Do выполняет fn в транзакции
func (s *Store) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return s.run(ctx, fn)
}

// DoSerializable выполняет fn в транзакции; все транзакции хранилища сериализуемы
func (s *Store) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return s.run(ctx, fn)
}

// DoReadOnly выполняет fn в транзакции только для чтения
func (s *Store) DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	return s.run(ctx, fn)
}

func (s *Store) run(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	// Вложенный вызов переиспользует внешнюю транзакцию
	if inTx(ctx) {
		return fn(ctx)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	snap := s.snapshot()
	defer func() {
		if p := recover(); p != nil {
			s.restore(snap)
			panic(p)
		}
		if err != nil {
			s.restore(snap)
		}
	}()

	return fn(context.WithValue(ctx, txKey{}, true))
}

// acquire блокирует хранилище для одиночной операции вне транзакции
func (s *Store) acquire(ctx context.Context) func() {
	if inTx(ctx) {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

func inTx(ctx context.Context) bool {
	v, _ := ctx.Value(txKey{}).(bool)
	return v
}

type snapshot struct {
	offerings     map[int64]*domain.Offering
	reservations  map[int64]*domain.Reservation
	notifications map[int64]*domain.Notification

	nextOfferingID     int64
	nextReservationID  int64
	nextNotificationID int64
}

func (s *Store) snapshot() snapshot {
	snap := snapshot{
		offerings:          make(map[int64]*domain.Offering, len(s.offerings)),
		reservations:       make(map[int64]*domain.Reservation, len(s.reservations)),
		notifications:      make(map[int64]*domain.Notification, len(s.notifications)),
		nextOfferingID:     s.nextOfferingID,
		nextReservationID:  s.nextReservationID,
		nextNotificationID: s.nextNotificationID,
	}
	for id, o := range s.offerings {
		snap.offerings[id] = cloneOffering(o)
	}
	for id, r := range s.reservations {
		snap.reservations[id] = cloneReservation(r)
	}
	for id, n := range s.notifications {
		snap.notifications[id] = cloneNotification(n)
	}
	return snap
}

func (s *Store) restore(snap snapshot) {
	s.offerings = snap.offerings
	s.reservations = snap.reservations
	s.notifications = snap.notifications
	s.nextOfferingID = snap.nextOfferingID
	s.nextReservationID = snap.nextReservationID
	s.nextNotificationID = snap.nextNotificationID
}

func cloneOffering(o *domain.Offering) *domain.Offering {
	c := *o
	if o.Description != nil {
		d := *o.Description
		c.Description = &d
	}
	c.AcceptedSpecies = append([]string(nil), o.AcceptedSpecies...)
	c.AvailableWeekdays = append([]time.Weekday(nil), o.AvailableWeekdays...)
	c.AvailableTimes = append(c.AvailableTimes[:0:0], o.AvailableTimes...)
	c.Ledger = append(make([]domain.BookingUnit, 0, len(o.Ledger)), o.Ledger...)
	return &c
}

func cloneReservation(r *domain.Reservation) *domain.Reservation {
	c := *r
	if r.Note != nil {
		v := *r.Note
		c.Note = &v
	}
	if r.StatusReason != nil {
		v := *r.StatusReason
		c.StatusReason = &v
	}
	if r.CancelledBy != nil {
		v := *r.CancelledBy
		c.CancelledBy = &v
	}
	return &c
}

func cloneNotification(n *domain.Notification) *domain.Notification {
	c := *n
	if n.ReadAt != nil {
		v := *n.ReadAt
		c.ReadAt = &v
	}
	return &c
}
