package model

import "time"

// Booking event types published on the bookings topic.
const (
	EventBookingCreated         = "booking.created"
	EventBookingConfirmed       = "booking.confirmed"
	EventBookingCancelled       = "booking.cancelled"
	EventBookingPaymentReceived = "booking.payment_received"
)

// BookingEvent is the payload published to Kafka whenever a booking
// changes state. The notifier turns these into customer emails.
type BookingEvent struct {
	Type          string    `json:"type"`
	BookingID     string    `json:"booking_id"`
	CastleName    string    `json:"castle_name"`
	CustomerName  string    `json:"customer_name"`
	CustomerEmail string    `json:"customer_email"`
	Date          string    `json:"date"`
	StartTime     string    `json:"start_time"`
	EndTime       string    `json:"end_time"`
	TotalPrice    float64   `json:"total_price"`
	Deposit       float64   `json:"deposit"`
	ManageToken   string    `json:"manage_token,omitempty"`
	OccurredAt    time.Time `json:"occurred_at"`
}
