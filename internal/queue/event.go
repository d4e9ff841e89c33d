// Package queue defines message payloads exchanged over the message broker.
package queue

import (
	"time"

	"github.com/iliyamo/movie-show-booking/internal/model"
)

// DefaultBookingQueue is the queue confirmed bookings are published to.
const DefaultBookingQueue = "booking.confirmed"

// BookingConfirmedEvent is published when a booking is accepted into the
// ledger.  It carries the full booking so downstream consumers can log,
// notify or run analytics without calling back into the service.
type BookingConfirmedEvent struct {
	Ref         string `json:"ref"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	ShowID      int    `json:"show_id"`
	ShowTitle   string `json:"show_title"`
	ShowTime    string `json:"show_time"`
	Date        string `json:"date"`
	Seats       int    `json:"seats"`
	Total       int    `json:"total"`
	ConfirmedAt string `json:"confirmed_at"`
}

// NewBookingConfirmedEvent builds the event payload for b.
func NewBookingConfirmedEvent(b model.Booking) BookingConfirmedEvent {
	return BookingConfirmedEvent{
		Ref:         b.Ref,
		Name:        b.Name,
		Email:       b.Email,
		ShowID:      b.ShowID,
		ShowTitle:   b.Show,
		ShowTime:    b.Time,
		Date:        b.Date,
		Seats:       b.Seats,
		Total:       b.Total,
		ConfirmedAt: b.BookedAt.UTC().Format(time.RFC3339),
	}
}
