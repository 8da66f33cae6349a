package testutil

import (
	"time"

	"castlehire/pkg/model"
)

// CastleBuilder assembles castle documents for direct Mongo inserts.
type CastleBuilder struct {
	castle model.Castle
}

func NewCastleBuilder() *CastleBuilder {
	return &CastleBuilder{
		castle: model.Castle{
			Name:      "Jungle Adventure",
			Slug:      "jungle-adventure",
			Theme:     "jungle",
			BasePrice: 80,
			Capacity:  8,
			Active:    true,
			CreatedAt: time.Now().UTC(),
			UpdatedAt: time.Now().UTC(),
		},
	}
}

func (b *CastleBuilder) WithName(name string) *CastleBuilder {
	b.castle.Name = name
	return b
}

func (b *CastleBuilder) WithSlug(slug string) *CastleBuilder {
	b.castle.Slug = slug
	return b
}

func (b *CastleBuilder) WithBasePrice(price float64) *CastleBuilder {
	b.castle.BasePrice = price
	return b
}

func (b *CastleBuilder) Inactive() *CastleBuilder {
	b.castle.Active = false
	return b
}

func (b *CastleBuilder) Build() model.Castle {
	return b.castle
}

// BookingBuilder assembles booking candidates for the public API.
type BookingBuilder struct {
	candidate model.CandidateBooking
}

func NewBookingBuilder() *BookingBuilder {
	// Far enough out to clear the minimum-notice rule, weekday so every
	// fixture castle is available.
	date := time.Now().AddDate(0, 0, 14)
	for date.Weekday() == time.Saturday || date.Weekday() == time.Sunday {
		date = date.AddDate(0, 0, 1)
	}

	return &BookingBuilder{
		candidate: model.CandidateBooking{
			CustomerName:  "Priya Shah",
			CustomerEmail: "priya@example.com",
			CustomerPhone: "+447700900123",
			Address:       "14 Meadow Lane, Leeds",
			Postcode:      "LS1 4AB",
			Date:          date.Format("2006-01-02"),
			StartTime:     "10:00",
			EndTime:       "14:00",
			Castle:        "Jungle Adventure",
		},
	}
}

func (b *BookingBuilder) WithCastle(castle string) *BookingBuilder {
	b.candidate.Castle = castle
	return b
}

func (b *BookingBuilder) WithCustomer(name, email string) *BookingBuilder {
	b.candidate.CustomerName = name
	b.candidate.CustomerEmail = email
	return b
}

func (b *BookingBuilder) WithDate(date string) *BookingBuilder {
	b.candidate.Date = date
	return b
}

func (b *BookingBuilder) WithWindow(start, end string) *BookingBuilder {
	b.candidate.StartTime = start
	b.candidate.EndTime = end
	return b
}

func (b *BookingBuilder) Overnight() *BookingBuilder {
	b.candidate.Overnight = true
	return b
}

func (b *BookingBuilder) Build() model.CandidateBooking {
	return b.candidate
}
