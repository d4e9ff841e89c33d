package repository

import (
	"sync"

	"github.com/iliyamo/movie-show-booking/internal/model"
)

// BookingLedger is the append-only record of every booking accepted
// during the process lifetime.  Appends are serialized by a mutex so
// concurrent requests cannot lose updates; readers get a copy of the
// slice.  Nothing is persisted: a restart starts with an empty ledger.
type BookingLedger struct {
	mu       sync.RWMutex
	bookings []model.Booking
	refs     map[string]struct{}
}

// NewBookingLedger returns an empty ledger.
func NewBookingLedger() *BookingLedger {
	return &BookingLedger{refs: make(map[string]struct{})}
}

// Append adds b to the end of the ledger.  It fails only when a booking
// with the same reference has already been recorded.
func (l *BookingLedger) Append(b model.Booking) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.refs[b.Ref]; ok {
		return ErrDuplicateRef
	}
	l.refs[b.Ref] = struct{}{}
	l.bookings = append(l.bookings, b)
	return nil
}

// List returns all bookings in insertion order.  The returned slice is a
// copy and may be modified by the caller without affecting the ledger.
func (l *BookingLedger) List() []model.Booking {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]model.Booking, len(l.bookings))
	copy(out, l.bookings)
	return out
}

// Len reports the number of recorded bookings.
func (l *BookingLedger) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.bookings)
}
