package model

import "time"

// BookingLock is an advisory lock taken while a booking for a given
// castle/slot is being created. The unique _id insert is what finally
// arbitrates two requests racing for the same slot; the validator itself
// provides no atomicity.
type BookingLock struct {
	ID        string    `bson:"_id" json:"id"`
	ExpiresAt time.Time `bson:"expires_at" json:"expires_at"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
