package models

import (
	"time"
)

const (
	BookingStatusConfirmed = "confirmed"
	// PlaceholderBookingCount stands in for a real booking tally on the event page.
	PlaceholderBookingCount = 10
)

type BookingRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type Booking struct {
	EventSlug string    `json:"event_slug"`
	Email     string    `json:"email"`
	Status    string    `json:"status"` // only "confirmed" for now
	BookedAt  time.Time `json:"booked_at"`
}
