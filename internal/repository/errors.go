package repository

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned by lookups for an id absent from the local snapshot.
	ErrNotFound = errors.New("entity not found")
	// ErrUnknownCollection is returned for collection names other than Drivers, Dispatchers, Loads.
	ErrUnknownCollection = errors.New("unknown collection")
	// ErrLoadFailed wraps the first fetch failure of LoadAll.
	ErrLoadFailed = errors.New("initial load failed")
	// ErrReconcileFailed is returned when the refetch after a failed write also fails.
	ErrReconcileFailed = errors.New("reconciliation failed")
)

// PreconditionError rejects a mutation before any remote call is made.
type PreconditionError struct {
	Collection string
	ID         string
	Reason     string
}

func (e *PreconditionError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("%s/%s: %s", e.Collection, e.ID, e.Reason)
	}
	return fmt.Sprintf("%s: %s", e.Collection, e.Reason)
}
