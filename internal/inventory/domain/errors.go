package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrStoreUnavailable indicates the item store could not be reached.
	// The caller decides whether to retry; nothing in the engine does.
	ErrStoreUnavailable = errors.New("inventory store unavailable")

	// ErrItemNotFound indicates an update or delete referenced a missing id
	ErrItemNotFound = errors.New("inventory item not found")
)

// ValidationError rejects invalid input before any store write
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// PartialDecayError reports a decay batch in which one or more per-item
// updates failed. The batch still completed for the remaining items;
// Mutated counts the successful updates and FailedIDs names the rest.
// Skipped items retain their previous UpdatedAt, so the next pass
// retries their decay naturally.
type PartialDecayError struct {
	Mutated   int
	FailedIDs []string
}

func (e *PartialDecayError) Error() string {
	return fmt.Sprintf("decay applied to %d items, %d updates failed: %s",
		e.Mutated, len(e.FailedIDs), strings.Join(e.FailedIDs, ", "))
}
