package model

import "time"

// Booking statuses. Cancelled and expired bookings are excluded from
// conflict consideration; everything else counts as active.
const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusCancelled = "cancelled"
	StatusCompleted = "completed"
	StatusExpired   = "expired"
)

// IsActiveStatus reports whether a booking in the given status can still
// block a slot.
func IsActiveStatus(status string) bool {
	return status != StatusCancelled && status != StatusExpired
}

// CostLine is an ad hoc extra charged on top of the base hire price
// (generator hire, late collection, and so on).
type CostLine struct {
	Label  string  `json:"label" bson:"label" validate:"required,min=2,max=100"`
	Amount float64 `json:"amount" bson:"amount" validate:"gte=0"`
}

type Booking struct {
	ID            string     `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	CastleID      string     `json:"castle_id" bson:"castle_id" validate:"required,mongodb"`
	CastleName    string     `json:"castle_name" bson:"castle_name" validate:"required,min=2,max=100"`
	CustomerName  string     `json:"customer_name" bson:"customer_name" validate:"required,min=2,max=100"`
	CustomerEmail string     `json:"customer_email" bson:"customer_email" validate:"required,email"`
	CustomerPhone string     `json:"customer_phone" bson:"customer_phone" validate:"required,min=7,max=20"`
	Address       string     `json:"address" bson:"address" validate:"required,min=5,max=200"`
	Postcode      string     `json:"postcode" bson:"postcode" validate:"omitempty,min=5,max=8"`
	Date          string     `json:"date" bson:"date" validate:"required,datetime=2006-01-02"`
	EndDate       string     `json:"end_date,omitempty" bson:"end_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	StartTime     string     `json:"start_time" bson:"start_time" validate:"required"`
	EndTime       string     `json:"end_time" bson:"end_time" validate:"required"`
	Overnight     bool       `json:"overnight" bson:"overnight"`
	StartAt       time.Time  `json:"start_at" bson:"start_at"`
	EndAt         time.Time  `json:"end_at" bson:"end_at"`
	Status        string     `json:"status" bson:"status" validate:"required,oneof=pending confirmed cancelled completed expired"`
	TotalPrice    float64    `json:"total_price" bson:"total_price" validate:"gte=0"`
	Deposit       float64    `json:"deposit" bson:"deposit" validate:"gte=0"`
	ExtraCosts    []CostLine `json:"extra_costs,omitempty" bson:"extra_costs,omitempty" validate:"omitempty,dive"`
	Notes         string     `json:"notes,omitempty" bson:"notes,omitempty" validate:"omitempty,max=2000"`

	CalendarEventID string     `json:"calendar_event_id,omitempty" bson:"calendar_event_id,omitempty"`
	ManageToken     string     `json:"manage_token,omitempty" bson:"manage_token,omitempty"`
	DepositPaidAt   *time.Time `json:"deposit_paid_at,omitempty" bson:"deposit_paid_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at" bson:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at" bson:"updated_at"`
}

// BookingUpdate carries the admin-editable subset of a booking. Nil/empty
// fields are left untouched on merge.
type BookingUpdate struct {
	CustomerName  string      `json:"customer_name,omitempty" validate:"omitempty,min=2,max=100"`
	CustomerEmail string      `json:"customer_email,omitempty" validate:"omitempty,email"`
	CustomerPhone string      `json:"customer_phone,omitempty" validate:"omitempty,min=7,max=20"`
	Address       string      `json:"address,omitempty" validate:"omitempty,min=5,max=200"`
	Postcode      string      `json:"postcode,omitempty" validate:"omitempty,min=5,max=8"`
	Date          string      `json:"date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	EndDate       *string     `json:"end_date,omitempty" validate:"omitempty"`
	StartTime     string      `json:"start_time,omitempty" validate:"omitempty"`
	EndTime       string      `json:"end_time,omitempty" validate:"omitempty"`
	Overnight     *bool       `json:"overnight,omitempty"`
	Status        string      `json:"status,omitempty" validate:"omitempty,oneof=pending confirmed cancelled completed expired"`
	ExtraCosts    *[]CostLine `json:"extra_costs,omitempty" validate:"omitempty,dive"`
	Notes         *string     `json:"notes,omitempty" validate:"omitempty,max=2000"`
}
