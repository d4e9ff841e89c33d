package model

import "time"

// Booking is a confirmed reservation for a show.  It is created exactly
// once when a submission is accepted and is never mutated afterwards.
// The show title and time are copied from the catalog entry so that the
// record stays readable on its own.
//
// Fields:
//
//	Ref      – confirmation reference, unique within the process.
//	Name     – name supplied by the customer.
//	Email    – email supplied by the customer (not format checked).
//	Seats    – number of seats, always within 1..10.
//	Date     – requested date as submitted (not parsed).
//	ShowID   – catalog id of the booked show.
//	Show     – show title at booking time.
//	Time     – show time label at booking time.
//	Total    – Seats multiplied by the show price.
//	BookedAt – UTC time the booking was accepted.
type Booking struct {
	Ref      string    `json:"ref"`
	Name     string    `json:"name"`
	Email    string    `json:"email"`
	Seats    int       `json:"seats"`
	Date     string    `json:"date"`
	ShowID   int       `json:"show_id"`
	Show     string    `json:"show"`
	Time     string    `json:"time"`
	Total    int       `json:"total"`
	BookedAt time.Time `json:"booked_at"`
}
