package scheduling

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound reports a lookup for an appointment that does not exist.
var ErrNotFound = errors.New("appointment not found")

// ValidationError reports missing or malformed booking input. Surfaced
// inline, never retried.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// PastSlotError reports an attempt to book a slot at or before the current
// time. It means the caller's view of availability is stale.
type PastSlotError struct {
	Slot time.Time
}

func (e *PastSlotError) Error() string {
	return fmt.Sprintf("slot %s is in the past", e.Slot.Format(time.RFC3339))
}

// ConflictError reports an overlap with an existing appointment for the
// same professional.
type ConflictError struct {
	ProfessionalID uuid.UUID
	ExistingID     uuid.UUID
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("professional %s already has appointment %s in that interval", e.ProfessionalID, e.ExistingID)
}

// StoreError wraps a failure from the relational store.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store: %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

func storeErr(op string, err error) error {
	return &StoreError{Op: op, Err: err}
}
