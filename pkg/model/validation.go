package model

// Booking snapshot sources.
const (
	SourceDatabase = "database"
	SourceCalendar = "calendar"
)

// ExistingBooking is a read-only snapshot of a previously accepted hire,
// normalized from either the database or the external calendar. It is
// built fresh per validation call and never mutated by the validator.
type ExistingBooking struct {
	ID              string `json:"id"`
	Date            string `json:"date"`
	EndDate         string `json:"end_date,omitempty"`
	StartTime       string `json:"start_time"`
	EndTime         string `json:"end_time"`
	Overnight       bool   `json:"overnight"`
	Castle          string `json:"castle"`
	Status          string `json:"status"`
	Source          string `json:"source"`
	CalendarEventID string `json:"calendar_event_id,omitempty"`
}

// IsActive reports whether this booking can still block a slot.
func (b ExistingBooking) IsActive() bool {
	return IsActiveStatus(b.Status)
}

// CandidateBooking is the booking request being validated, not yet
// persisted. Prices are set server-side; anything the client sent is
// overwritten before validation.
type CandidateBooking struct {
	CustomerName  string  `json:"customer_name" validate:"required"`
	CustomerEmail string  `json:"customer_email" validate:"required,email"`
	CustomerPhone string  `json:"customer_phone" validate:"required"`
	Address       string  `json:"address" validate:"required"`
	Postcode      string  `json:"postcode"`
	Date          string  `json:"date" validate:"required,valid_hire_date"`
	EndDate       string  `json:"end_date,omitempty" validate:"omitempty,valid_hire_date"`
	StartTime     string  `json:"start_time" validate:"required,valid_clock_time"`
	EndTime       string  `json:"end_time" validate:"required,valid_clock_time"`
	Overnight     bool    `json:"overnight"`
	Castle        string  `json:"castle" validate:"required"`
	Notes         string  `json:"notes,omitempty"`
	TotalPrice    float64 `json:"total_price,omitempty"`
	Deposit       float64 `json:"deposit,omitempty"`
}

// Conflict types.
const (
	ConflictSameCastle = "same_castle"
)

// Conflict records one colliding active booking for the same castle.
type Conflict struct {
	Type      string `json:"type"`
	BookingID string `json:"booking_id"`
	Castle    string `json:"castle"`
	Date      string `json:"date"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Message   string `json:"message"`
}

// Warning codes.
const (
	WarnShortNotice  = "short_notice"
	WarnFarAdvance   = "far_advance"
	WarnOutsideHours = "outside_hours"
)

// Warning is a non-blocking advisory. Warnings never affect IsValid.
type Warning struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Slot is a candidate alternative when the requested one conflicts.
type Slot struct {
	Date      string `json:"date"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

// ValidationResult is the full outcome of validating one candidate
// against a snapshot of existing bookings.
type ValidationResult struct {
	IsValid     bool              `json:"is_valid"`
	Errors      map[string]string `json:"errors,omitempty"`
	Conflicts   []Conflict        `json:"conflicts,omitempty"`
	Warnings    []Warning         `json:"warnings,omitempty"`
	Suggestions []Slot            `json:"suggestions,omitempty"`
}
