package domain

// Default configuration values
const (
	DefaultSlotDurationMinutes = 30
)

// Business validation constants
const (
	MinSlotDurationMinutes = 5
	MaxSlotDurationMinutes = 480 // 8 hours
	MaxNameLength          = 200
	MaxNoteLength          = 500
	MaxReasonLength        = 500
	MaxContactFieldLength  = 200
	MaxRangeDays           = 366
)

// Date and time formats exchanged with clients
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "02/01/2006" // DD/MM/YYYY
)
