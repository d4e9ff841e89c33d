// Package service implements the booking workflow: validating a submitted
// form, building the booking record, recording it in the ledger and
// announcing it to downstream consumers.
package service

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/iliyamo/movie-show-booking/internal/metrics"
	"github.com/iliyamo/movie-show-booking/internal/model"
	"github.com/iliyamo/movie-show-booking/internal/queue"
	"github.com/iliyamo/movie-show-booking/internal/repository"
)

// Seat limits for a single booking, inclusive.
const (
	MinSeats = 1
	MaxSeats = 10
)

var (
	// ErrMissingField is returned when any form field is absent or empty.
	ErrMissingField = errors.New("missing field")
	// ErrInvalidSeatCount is returned when seats is not an integer in
	// [MinSeats, MaxSeats].
	ErrInvalidSeatCount = errors.New("invalid seat count")
)

// Reasons shown to the customer when a submission is rejected.
const (
	ReasonMissingField     = "Please fill in all fields"
	ReasonInvalidSeatCount = "Seats must be a number between 1 and 10"
)

// SubmissionState describes where a booking submission stands.  A
// rejected submission goes back to awaiting input; an accepted one is
// final.
type SubmissionState string

const (
	StateAwaitingInput SubmissionState = "awaiting_input"
	StateRejected      SubmissionState = "rejected"
	StateAccepted      SubmissionState = "accepted"
)

// ValidationError is a rejected submission.  It wraps ErrMissingField or
// ErrInvalidSeatCount and carries the customer-facing reason.
type ValidationError struct {
	Err    error
	Field  string
	Reason string
}

func (e *ValidationError) Error() string { return e.Err.Error() + ": " + e.Field }
func (e *ValidationError) Unwrap() error { return e.Err }

// BookingForm holds the raw submitted values.  All fields are strings so
// that binding never fails on a malformed seat count.
type BookingForm struct {
	Name  string `form:"name" json:"name"`
	Email string `form:"email" json:"email"`
	Seats string `form:"seats" json:"seats"`
	Date  string `form:"date" json:"date"`
}

// BookingInput is a validated form.
type BookingInput struct {
	Name  string
	Email string
	Seats int
	Date  string
}

// ValidateBooking checks presence of every field and the seat range.
// Email and date are only required to be non-empty.
func ValidateBooking(f BookingForm) (BookingInput, error) {
	for _, field := range []struct{ name, value string }{
		{"name", f.Name},
		{"email", f.Email},
		{"seats", f.Seats},
		{"date", f.Date},
	} {
		if field.value == "" {
			return BookingInput{}, &ValidationError{Err: ErrMissingField, Field: field.name, Reason: ReasonMissingField}
		}
	}
	seats, err := strconv.Atoi(strings.TrimSpace(f.Seats))
	if err != nil || seats < MinSeats || seats > MaxSeats {
		return BookingInput{}, &ValidationError{Err: ErrInvalidSeatCount, Field: "seats", Reason: ReasonInvalidSeatCount}
	}
	return BookingInput{Name: f.Name, Email: f.Email, Seats: seats, Date: f.Date}, nil
}

// NewBooking builds the booking record for a validated input.  It does
// not touch the ledger.
func NewBooking(in BookingInput, show model.Show, ref string, bookedAt time.Time) model.Booking {
	return model.Booking{
		Ref:      ref,
		Name:     in.Name,
		Email:    in.Email,
		Seats:    in.Seats,
		Date:     in.Date,
		ShowID:   show.ID,
		Show:     show.Title,
		Time:     show.Time,
		Total:    in.Seats * show.Price,
		BookedAt: bookedAt.UTC(),
	}
}

// ShowFinder looks shows up by id.
type ShowFinder interface {
	Find(id int) (model.Show, error)
}

// BookingStore is the append-only booking record.
type BookingStore interface {
	Append(b model.Booking) error
	List() []model.Booking
	Len() int
}

// EventPublisher announces confirmed bookings.
type EventPublisher interface {
	PublishBookingConfirmed(ctx context.Context, ev queue.BookingConfirmedEvent) error
}

// BookingService ties the catalog, the ledger and the reference generator
// together.  It owns no global state: everything it touches is injected.
type BookingService struct {
	catalog   ShowFinder
	ledger    BookingStore
	refs      RefGenerator
	publisher EventPublisher // optional
	log       logrus.FieldLogger
	now       func() time.Time
}

// NewBookingService wires a BookingService.  catalog, ledger and refs are
// required; publisher may be nil when events are disabled.
func NewBookingService(catalog ShowFinder, ledger BookingStore, refs RefGenerator, publisher EventPublisher, log logrus.FieldLogger) *BookingService {
	if catalog == nil || ledger == nil || refs == nil {
		panic("nil dependency passed to NewBookingService")
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &BookingService{
		catalog:   catalog,
		ledger:    ledger,
		refs:      refs,
		publisher: publisher,
		log:       log,
		now:       time.Now,
	}
}

// Show returns the catalog entry for id.
func (s *BookingService) Show(id int) (model.Show, error) {
	return s.catalog.Find(id)
}

// Submit runs one booking submission for showID.  On success the booking
// has been appended to the ledger and is returned.  Rejections return a
// *ValidationError or repository.ErrShowNotFound and leave the ledger
// untouched.
func (s *BookingService) Submit(ctx context.Context, showID int, form BookingForm) (model.Booking, error) {
	show, err := s.catalog.Find(showID)
	if err != nil {
		if errors.Is(err, repository.ErrShowNotFound) {
			metrics.RecordBooking(metrics.OutcomeShowNotFound)
		} else {
			metrics.RecordBooking(metrics.OutcomeError)
		}
		return model.Booking{}, err
	}

	in, err := ValidateBooking(form)
	if err != nil {
		switch {
		case errors.Is(err, ErrMissingField):
			metrics.RecordBooking(metrics.OutcomeMissingField)
		case errors.Is(err, ErrInvalidSeatCount):
			metrics.RecordBooking(metrics.OutcomeInvalidSeatCount)
		}
		return model.Booking{}, err
	}

	b := NewBooking(in, show, s.refs.Next(), s.now())
	if err := s.ledger.Append(b); err != nil {
		metrics.RecordBooking(metrics.OutcomeError)
		return model.Booking{}, err
	}
	metrics.RecordBooking(metrics.OutcomeAccepted)
	metrics.SetLedgerSize(s.ledger.Len())

	s.log.WithFields(logrus.Fields{
		"ref":     b.Ref,
		"show_id": b.ShowID,
		"seats":   b.Seats,
		"total":   b.Total,
	}).Info("booking accepted")

	if s.publisher != nil {
		// the booking is already recorded; a broker outage must not undo it
		if err := s.publisher.PublishBookingConfirmed(ctx, queue.NewBookingConfirmedEvent(b)); err != nil {
			s.log.WithError(err).WithField("ref", b.Ref).Warn("publish booking.confirmed failed")
		}
	}
	return b, nil
}

// Bookings returns every recorded booking in insertion order.
func (s *BookingService) Bookings() []model.Booking {
	return s.ledger.List()
}
