package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/m04kA/SMC-PetBookingService/pkg/types"
)

func date(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := ParseDate(s)
	if err != nil {
		t.Fatalf("parse %q: %v", s, err)
	}
	return d
}

func TestSlotsOverlap(t *testing.T) {
	tests := []struct {
		name   string
		aStart types.TimeString
		aDur   int
		bStart types.TimeString
		bDur   int
		want   bool
	}{
		{name: "back to back", aStart: "10:00", aDur: 30, bStart: "10:30", bDur: 30, want: false},
		{name: "back to back reversed", aStart: "10:30", aDur: 30, bStart: "10:00", bDur: 30, want: false},
		{name: "identical", aStart: "10:00", aDur: 30, bStart: "10:00", bDur: 30, want: true},
		{name: "partial", aStart: "10:00", aDur: 45, bStart: "10:30", bDur: 30, want: true},
		{name: "contained", aStart: "09:00", aDur: 120, bStart: "10:00", bDur: 15, want: true},
		{name: "disjoint", aStart: "08:00", aDur: 30, bStart: "12:00", bDur: 30, want: false},
		{name: "invalid time", aStart: "25:00", aDur: 30, bStart: "10:00", bDur: 30, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SlotsOverlap(tt.aStart, tt.aDur, tt.bStart, tt.bDur))
		})
	}
}

func TestRangesOverlap(t *testing.T) {
	tests := []struct {
		name         string
		aStart, aEnd string
		bStart, bEnd string
		want         bool
	}{
		{name: "shared handover day", aStart: "10/01/2024", aEnd: "12/01/2024", bStart: "12/01/2024", bEnd: "14/01/2024", want: true},
		{name: "next day", aStart: "10/01/2024", aEnd: "12/01/2024", bStart: "13/01/2024", bEnd: "14/01/2024", want: false},
		{name: "before", aStart: "10/01/2024", aEnd: "12/01/2024", bStart: "05/01/2024", bEnd: "09/01/2024", want: false},
		{name: "ends on start day", aStart: "10/01/2024", aEnd: "12/01/2024", bStart: "08/01/2024", bEnd: "10/01/2024", want: true},
		{name: "inside", aStart: "01/01/2024", aEnd: "31/01/2024", bStart: "10/01/2024", bEnd: "10/01/2024", want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RangesOverlap(date(t, tt.aStart), date(t, tt.aEnd), date(t, tt.bStart), date(t, tt.bEnd))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseDate(t *testing.T) {
	valid := []string{"16/01/2024", "29/02/2024", "31/12/2025"}
	for _, s := range valid {
		d, err := ParseDate(s)
		assert.NoError(t, err, s)
		assert.Equal(t, s, FormatDate(d))
	}

	invalid := []string{"", "2024-01-16", "1/1/2024", "32/01/2024", "29/02/2023", "16/01/24", "16-01-2024", "01/16/2024"}
	for _, s := range invalid {
		_, err := ParseDate(s)
		assert.ErrorIs(t, err, ErrValidation, s)
	}
}

func TestDaysInclusive(t *testing.T) {
	assert.Equal(t, 3, DaysInclusive(date(t, "10/01/2024"), date(t, "12/01/2024")))
	assert.Equal(t, 1, DaysInclusive(date(t, "10/01/2024"), date(t, "10/01/2024")))
	assert.Equal(t, 0, DaysInclusive(date(t, "12/01/2024"), date(t, "10/01/2024")))
	assert.Equal(t, 2, DaysInclusive(date(t, "29/02/2024"), date(t, "01/03/2024")))
}

func TestParseWeekday(t *testing.T) {
	for in, want := range map[string]time.Weekday{"Tuesday": time.Tuesday, "sun": time.Sunday, " FRI ": time.Friday} {
		got, err := ParseWeekday(in)
		assert.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseWeekday("tues")
	assert.ErrorIs(t, err, ErrValidation)
	_, err = ParseWeekday("")
	assert.ErrorIs(t, err, ErrValidation)

	assert.Equal(t, "tuesday", WeekdayName(time.Tuesday))
}
