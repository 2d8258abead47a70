package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/SMC-PetBookingService/pkg/types"
)

// OfferingKind is the bookable-capacity variant of an offering
type OfferingKind string

const (
	// KindSlot discrete day+time slots of fixed duration (veterinary, walking)
	KindSlot OfferingKind = "slot"
	// KindRange inclusive spans of calendar days (caregiving)
	KindRange OfferingKind = "range"
)

// IsValid returns true for a known kind
func (k OfferingKind) IsValid() bool {
	return k == KindSlot || k == KindRange
}

// ServiceType is what the provider actually does
type ServiceType string

const (
	ServiceVeterinary ServiceType = "veterinary"
	ServiceWalking    ServiceType = "walking"
	ServiceCaregiving ServiceType = "caregiving"
)

// Kind returns the offering kind the service type is booked with
func (s ServiceType) Kind() (OfferingKind, bool) {
	switch s {
	case ServiceVeterinary, ServiceWalking:
		return KindSlot, true
	case ServiceCaregiving:
		return KindRange, true
	default:
		return "", false
	}
}

// OfferingStatus controls whether new reservations are accepted
type OfferingStatus string

const (
	OfferingActive   OfferingStatus = "active"
	OfferingInactive OfferingStatus = "inactive"
)

// Contact is a name/phone/email triple
type Contact struct {
	Name  string
	Phone string
	Email string
}

// IsComplete returns true when every field is filled
func (c Contact) IsComplete() bool {
	return strings.TrimSpace(c.Name) != "" &&
		strings.TrimSpace(c.Phone) != "" &&
		strings.TrimSpace(c.Email) != ""
}

// BookingUnit is one bookable unit of an offering.
// Slot units have StartDate == EndDate plus StartTime and DurationMinutes;
// range units only carry the inclusive dates.
type BookingUnit struct {
	StartDate       time.Time
	EndDate         time.Time
	StartTime       types.TimeString
	DurationMinutes int
}

// Offering is a bookable service published by a provider together with its
// ledger of already booked units. Veterinary, walking and caregiving
// offerings share this type; behaviour is dispatched on Kind.
type Offering struct {
	ID              int64
	ProviderID      int64
	ServiceType     ServiceType
	Kind            OfferingKind
	Name            string
	Price           float64
	Description     *string
	Contact         Contact
	AcceptedSpecies []string
	Status          OfferingStatus

	// Slot variant; weekdays are informational for range offerings
	SlotDurationMinutes int
	AvailableWeekdays   []time.Weekday
	AvailableTimes      []types.TimeString

	Ledger        []BookingUnit
	LedgerVersion int64

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Validate checks an offering before it is published
func (o *Offering) Validate() error {
	kind, ok := o.ServiceType.Kind()
	if !ok {
		return fmt.Errorf("%w: unknown service type %q", ErrValidation, o.ServiceType)
	}
	if o.Kind != kind {
		return fmt.Errorf("%w: service type %s is booked as %s, not %s", ErrValidation, o.ServiceType, kind, o.Kind)
	}
	if o.ProviderID <= 0 {
		return fmt.Errorf("%w: providerID must be positive", ErrValidation)
	}
	if name := strings.TrimSpace(o.Name); name == "" || len(name) > MaxNameLength {
		return fmt.Errorf("%w: name is required and must be at most %d characters", ErrValidation, MaxNameLength)
	}
	if o.Price < 0 {
		return fmt.Errorf("%w: price must not be negative", ErrValidation)
	}
	if !o.Contact.IsComplete() {
		return fmt.Errorf("%w: contact name, phone and email are required", ErrValidation)
	}
	if o.Status != OfferingActive && o.Status != OfferingInactive {
		return fmt.Errorf("%w: unknown offering status %q", ErrValidation, o.Status)
	}

	seenDays := make(map[time.Weekday]bool, len(o.AvailableWeekdays))
	for _, d := range o.AvailableWeekdays {
		if d < time.Sunday || d > time.Saturday {
			return fmt.Errorf("%w: invalid weekday %d", ErrValidation, d)
		}
		if seenDays[d] {
			return fmt.Errorf("%w: duplicate weekday %s", ErrValidation, d)
		}
		seenDays[d] = true
	}

	if o.Kind == KindRange {
		if len(o.AvailableTimes) > 0 || o.SlotDurationMinutes != 0 {
			return fmt.Errorf("%w: range offerings have no times of day or slot duration", ErrValidation)
		}
		return nil
	}

	if o.SlotDurationMinutes < MinSlotDurationMinutes || o.SlotDurationMinutes > MaxSlotDurationMinutes {
		return fmt.Errorf("%w: slot duration must be between %d and %d minutes",
			ErrValidation, MinSlotDurationMinutes, MaxSlotDurationMinutes)
	}
	var prev types.TimeString
	for i, t := range o.AvailableTimes {
		if err := t.Validate(); err != nil {
			return fmt.Errorf("%w: available time: %v", ErrValidation, err)
		}
		if _, err := t.AddMinutes(o.SlotDurationMinutes); err != nil {
			return fmt.Errorf("%w: slot at %s runs past midnight", ErrValidation, t)
		}
		if i > 0 && !prev.IsBefore(t) {
			return fmt.Errorf("%w: available times must be strictly increasing", ErrValidation)
		}
		prev = t
	}
	return nil
}

// IsActive returns true if the offering accepts new reservations
func (o *Offering) IsActive() bool {
	return o.Status == OfferingActive
}

// SetStatus toggles the offering between active and inactive.
// Existing reservations are not touched.
func (o *Offering) SetStatus(status OfferingStatus) error {
	if status != OfferingActive && status != OfferingInactive {
		return fmt.Errorf("%w: unknown offering status %q", ErrValidation, status)
	}
	o.Status = status
	return nil
}

// Accepts reports whether a pet of the given species can be booked.
// An empty list accepts every species.
func (o *Offering) Accepts(species string) bool {
	if len(o.AcceptedSpecies) == 0 {
		return true
	}
	for _, s := range o.AcceptedSpecies {
		if strings.EqualFold(strings.TrimSpace(s), strings.TrimSpace(species)) {
			return true
		}
	}
	return false
}

// SlotUnit builds a slot unit with the offering's slot duration
func (o *Offering) SlotUnit(date time.Time, start types.TimeString) BookingUnit {
	d := DateOnly(date)
	return BookingUnit{StartDate: d, EndDate: d, StartTime: start, DurationMinutes: o.SlotDurationMinutes}
}

// RangeUnit builds an inclusive day-range unit
func (o *Offering) RangeUnit(start, end time.Time) BookingUnit {
	return BookingUnit{StartDate: DateOnly(start), EndDate: DateOnly(end)}
}

// CheckBookable verifies the unit fits the offering's declared schedule.
func (o *Offering) CheckBookable(u BookingUnit) error {
	switch o.Kind {
	case KindSlot:
		if !SameDay(u.StartDate, u.EndDate) {
			return fmt.Errorf("%w: slot bookings cover a single date", ErrValidation)
		}
		if u.StartTime.IsZero() {
			return fmt.Errorf("%w: time of day is required", ErrValidation)
		}
		if err := u.StartTime.Validate(); err != nil {
			return fmt.Errorf("%w: %v", ErrValidation, err)
		}
		if u.DurationMinutes != o.SlotDurationMinutes {
			return fmt.Errorf("%w: slot duration must be %d minutes", ErrValidation, o.SlotDurationMinutes)
		}
		if !o.ServesWeekday(u.StartDate.Weekday()) {
			return fmt.Errorf("%w: not available on %s", ErrValidation, u.StartDate.Weekday())
		}
		if !o.servesTime(u.StartTime) {
			return fmt.Errorf("%w: %s is not an offered time", ErrValidation, u.StartTime)
		}
		return nil
	case KindRange:
		if !u.StartTime.IsZero() {
			return fmt.Errorf("%w: time of day is not used for range bookings", ErrValidation)
		}
		days := DaysInclusive(u.StartDate, u.EndDate)
		if days == 0 {
			return fmt.Errorf("%w: end date is before start date", ErrValidation)
		}
		if days > MaxRangeDays {
			return fmt.Errorf("%w: range is longer than %d days", ErrValidation, MaxRangeDays)
		}
		return nil
	default:
		return fmt.Errorf("%w: unknown offering kind %q", ErrValidation, o.Kind)
	}
}

// IsAvailable reports whether no ledger entry overlaps the unit
func (o *Offering) IsAvailable(u BookingUnit) bool {
	for _, booked := range o.Ledger {
		if o.overlaps(booked, u) {
			return false
		}
	}
	return true
}

// Reserve records the unit in the ledger.
// Availability is re-checked here rather than trusted from an earlier read.
func (o *Offering) Reserve(u BookingUnit) error {
	if !o.IsAvailable(u) {
		return fmt.Errorf("%w: %s", ErrConflict, u.describe(o.Kind))
	}
	o.Ledger = append(o.Ledger, u)
	return nil
}

// Release removes a previously reserved unit; returns false if it was not present
func (o *Offering) Release(u BookingUnit) bool {
	for i, booked := range o.Ledger {
		if o.sameUnit(booked, u) {
			o.Ledger = append(o.Ledger[:i], o.Ledger[i+1:]...)
			return true
		}
	}
	return false
}

// BookedOn returns ledger entries touching the given inclusive date span
func (o *Offering) BookedOn(from, to time.Time) []BookingUnit {
	out := make([]BookingUnit, 0)
	for _, booked := range o.Ledger {
		if RangesOverlap(booked.StartDate, booked.EndDate, from, to) {
			out = append(out, booked)
		}
	}
	return out
}

func (o *Offering) overlaps(a, b BookingUnit) bool {
	switch o.Kind {
	case KindSlot:
		return SameDay(a.StartDate, b.StartDate) &&
			SlotsOverlap(a.StartTime, a.DurationMinutes, b.StartTime, b.DurationMinutes)
	case KindRange:
		return RangesOverlap(a.StartDate, a.EndDate, b.StartDate, b.EndDate)
	default:
		return true
	}
}

func (o *Offering) sameUnit(a, b BookingUnit) bool {
	switch o.Kind {
	case KindSlot:
		return SameDay(a.StartDate, b.StartDate) && a.StartTime == b.StartTime
	default:
		return SameDay(a.StartDate, b.StartDate) && SameDay(a.EndDate, b.EndDate)
	}
}

// ServesWeekday reports whether the offering works on d; no declared weekdays means every day
func (o *Offering) ServesWeekday(d time.Weekday) bool {
	if len(o.AvailableWeekdays) == 0 {
		return true
	}
	for _, w := range o.AvailableWeekdays {
		if w == d {
			return true
		}
	}
	return false
}

func (o *Offering) servesTime(t types.TimeString) bool {
	if len(o.AvailableTimes) == 0 {
		return true
	}
	for _, at := range o.AvailableTimes {
		if at == t {
			return true
		}
	}
	return false
}

// StartsBefore reports whether the unit has already begun at now.
// Range units begin at midnight of their first day, so a stay starting today is still bookable.
func (u BookingUnit) StartsBefore(now time.Time) bool {
	if IsBeforeDay(u.StartDate, now) {
		return true
	}
	if IsBeforeDay(now, u.StartDate) || u.StartTime.IsZero() {
		return false
	}
	return u.StartTime.Minutes() <= now.Hour()*60+now.Minute()
}

func (u BookingUnit) describe(kind OfferingKind) string {
	if kind == KindSlot {
		return fmt.Sprintf("%s %s (%d min)", FormatDate(u.StartDate), u.StartTime, u.DurationMinutes)
	}
	return fmt.Sprintf("%s - %s", FormatDate(u.StartDate), FormatDate(u.EndDate))
}

// GenerateSlotTimes lists slot start times from open with a fixed step of
// duration, keeping only slots that end no later than close.
func GenerateSlotTimes(open, close types.TimeString, duration int) ([]types.TimeString, error) {
	if err := open.Validate(); err != nil {
		return nil, fmt.Errorf("%w: open time: %v", ErrValidation, err)
	}
	if err := close.Validate(); err != nil && close != "24:00" {
		return nil, fmt.Errorf("%w: close time: %v", ErrValidation, err)
	}
	if duration < MinSlotDurationMinutes || duration > MaxSlotDurationMinutes {
		return nil, fmt.Errorf("%w: slot duration must be between %d and %d minutes",
			ErrValidation, MinSlotDurationMinutes, MaxSlotDurationMinutes)
	}
	if !open.IsBefore(close) {
		return nil, fmt.Errorf("%w: open time must be before close time", ErrValidation)
	}

	slots := make([]types.TimeString, 0)
	current := open
	for current.IsBefore(close) {
		end, err := current.AddMinutes(duration)
		if err != nil || end.IsAfter(close) {
			break
		}
		slots = append(slots, current)
		if end == "24:00" {
			break
		}
		current = end
	}
	return slots, nil
}
