package store

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("record already exists")
)

// InsufficientInventoryError reports a reserve attempt that exceeded the
// ticket type's live availability.
type InsufficientInventoryError struct {
	TicketTypeID string
	Available    int
	Requested    int
}

func (e *InsufficientInventoryError) Error() string {
	return fmt.Sprintf("insufficient inventory for ticket type %s: available %d, requested %d",
		e.TicketTypeID, e.Available, e.Requested)
}

// ReleaseOverflowError reports a release that would push available_quantity
// past total_quantity. This is a consistency violation (double release),
// never a recoverable condition.
type ReleaseOverflowError struct {
	TicketTypeID string
	Released     int
}

func (e *ReleaseOverflowError) Error() string {
	return fmt.Sprintf("release of %d tickets for type %s exceeds total quantity",
		e.Released, e.TicketTypeID)
}
