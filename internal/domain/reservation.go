package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/SMC-PetBookingService/pkg/types"
)

// ReservationStatus represents the lifecycle state of a reservation
type ReservationStatus string

const (
	StatusPending   ReservationStatus = "pending"
	StatusAccepted  ReservationStatus = "accepted"
	StatusRejected  ReservationStatus = "rejected"
	StatusCancelled ReservationStatus = "cancelled"
	StatusCompleted ReservationStatus = "completed"
)

// ParseReservationStatus returns the status for a known value
func ParseReservationStatus(s string) (ReservationStatus, error) {
	status := ReservationStatus(strings.ToLower(strings.TrimSpace(s)))
	switch status {
	case StatusPending, StatusAccepted, StatusRejected, StatusCancelled, StatusCompleted:
		return status, nil
	default:
		return "", fmt.Errorf("%w: unknown reservation status %q", ErrValidation, s)
	}
}

// IsTerminal returns true for states that allow no further transitions
func (s ReservationStatus) IsTerminal() bool {
	return s == StatusRejected || s == StatusCancelled || s == StatusCompleted
}

// HoldsLedger returns true while the reservation occupies its unit on the offering
func (s ReservationStatus) HoldsLedger() bool {
	return s == StatusPending || s == StatusAccepted
}

// Party is a side of a reservation
type Party string

const (
	PartyRequester Party = "requester"
	PartyProvider  Party = "provider"
)

// Reservation is a requester's booking against an offering
type Reservation struct {
	ID          int64
	RequesterID int64
	ProviderID  int64
	OfferingID  int64

	// Denormalized offering data
	OfferingKind OfferingKind
	ServiceType  ServiceType
	OfferingName string
	UnitPrice    float64

	PetID   int64
	PetName string

	StartDate       time.Time
	EndDate         time.Time
	StartTime       types.TimeString // slot offerings only
	DurationMinutes int              // slot offerings only

	Note    *string
	Contact Contact

	Status       ReservationStatus
	StatusReason *string
	CancelledBy  *Party

	CreatedAt time.Time
	UpdatedAt time.Time
}

// DayCount is 1 for slot reservations and the inclusive day span for range ones
func (r *Reservation) DayCount() int {
	if r.OfferingKind == KindSlot {
		return 1
	}
	return DaysInclusive(r.StartDate, r.EndDate)
}

// TotalPrice is unit price multiplied by day count
func (r *Reservation) TotalPrice() float64 {
	return r.UnitPrice * float64(r.DayCount())
}

// Unit returns the ledger unit the reservation holds on its offering
func (r *Reservation) Unit() BookingUnit {
	if r.OfferingKind == KindSlot {
		return BookingUnit{
			StartDate:       DateOnly(r.StartDate),
			EndDate:         DateOnly(r.StartDate),
			StartTime:       r.StartTime,
			DurationMinutes: r.DurationMinutes,
		}
	}
	return BookingUnit{StartDate: DateOnly(r.StartDate), EndDate: DateOnly(r.EndDate)}
}

// PartyOf returns the side the user is on, or ErrAuthorization
func (r *Reservation) PartyOf(userID int64) (Party, error) {
	switch userID {
	case r.RequesterID:
		return PartyRequester, nil
	case r.ProviderID:
		return PartyProvider, nil
	default:
		return "", fmt.Errorf("%w: user %d is not a party to reservation %d", ErrAuthorization, userID, r.ID)
	}
}

// TransitionEffect lists the side effects the caller has to carry out
type TransitionEffect struct {
	Release bool
	Notify  *NotificationKind
}

type transitionRule struct {
	from    []ReservationStatus
	actors  []Party
	release bool
}

var transitions = map[ReservationStatus]transitionRule{
	StatusAccepted: {
		from:   []ReservationStatus{StatusPending},
		actors: []Party{PartyProvider},
	},
	StatusRejected: {
		from:    []ReservationStatus{StatusPending},
		actors:  []Party{PartyProvider},
		release: true,
	},
	StatusCancelled: {
		from:    []ReservationStatus{StatusPending, StatusAccepted},
		actors:  []Party{PartyRequester, PartyProvider},
		release: true,
	},
	StatusCompleted: {
		from:   []ReservationStatus{StatusAccepted},
		actors: []Party{PartyProvider},
	},
}

// Transition moves the reservation to a new status on behalf of actor.
// The reservation is only mutated when the transition is allowed.
func (r *Reservation) Transition(to ReservationStatus, actor Party, reason *string, now time.Time) (TransitionEffect, error) {
	rule, ok := transitions[to]
	if !ok {
		return TransitionEffect{}, fmt.Errorf("%w: cannot move reservation to %s", ErrInvalidTransition, to)
	}
	if r.Status.IsTerminal() {
		return TransitionEffect{}, fmt.Errorf("%w: reservation is already %s", ErrInvalidTransition, r.Status)
	}
	if !containsStatus(rule.from, r.Status) {
		return TransitionEffect{}, fmt.Errorf("%w: %s -> %s is not allowed", ErrInvalidTransition, r.Status, to)
	}
	if !containsParty(rule.actors, actor) {
		return TransitionEffect{}, fmt.Errorf("%w: %s cannot move reservation to %s", ErrAuthorization, actor, to)
	}
	// A slot has started once its start time passed; a stay starts at midnight of its first day.
	if to == StatusCancelled && r.Unit().StartsBefore(now) {
		return TransitionEffect{}, fmt.Errorf("%w: reservation started on %s and can no longer be cancelled",
			ErrInvalidTransition, r.Unit().describe(r.OfferingKind))
	}
	if reason != nil {
		trimmed := strings.TrimSpace(*reason)
		if len(trimmed) > MaxReasonLength {
			return TransitionEffect{}, fmt.Errorf("%w: reason must be at most %d characters", ErrValidation, MaxReasonLength)
		}
		if trimmed == "" {
			reason = nil
		} else {
			reason = &trimmed
		}
	}

	effect := TransitionEffect{Release: rule.release && r.Status.HoldsLedger()}
	switch to {
	case StatusAccepted:
		effect.Notify = notificationKind(NotificationConfirmed)
	case StatusRejected:
		effect.Notify = notificationKind(NotificationRejected)
	case StatusCancelled:
		if actor == PartyProvider {
			effect.Notify = notificationKind(NotificationCancelledByProvider)
		} else {
			effect.Notify = notificationKind(NotificationCancelledByRequester)
		}
		by := actor
		r.CancelledBy = &by
	}

	r.Status = to
	if to == StatusRejected || to == StatusCancelled {
		r.StatusReason = reason
	}
	r.UpdatedAt = now
	return effect, nil
}

func containsStatus(list []ReservationStatus, s ReservationStatus) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func containsParty(list []Party, p Party) bool {
	for _, v := range list {
		if v == p {
			return true
		}
	}
	return false
}

func notificationKind(k NotificationKind) *NotificationKind {
	return &k
}

// ReservationsFilter narrows reservation listings
type ReservationsFilter struct {
	RequesterID *int64
	ProviderID  *int64
	OfferingID  *int64
	Status      *ReservationStatus
}
