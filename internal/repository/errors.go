// Package repository holds the in-memory stores owned by the booking
// service: the static show catalog and the append-only booking ledger.
// The sentinel errors below let handlers tell lookup failures apart from
// other outcomes with errors.Is.
package repository

import "errors"

// ErrShowNotFound is returned when a show id is not part of the catalog.
// Handlers should redirect the caller back to the catalog view.
var ErrShowNotFound = errors.New("show not found")

// ErrDuplicateRef is returned when a booking with the same reference is
// already present in the ledger.
var ErrDuplicateRef = errors.New("duplicate booking reference")
