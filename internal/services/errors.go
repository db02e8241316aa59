package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// Sentinel errors classifying every failure a service can report.
// Handlers map them to HTTP statuses with errors.Is; the wrapped
// message carries the user-facing detail.
var (
	// ErrValidation is a bad field value: non-positive amount or
	// cooking time, duplicate ingredient/tag references, reserved
	// username, malformed image payload.
	ErrValidation = errors.New("validation failed")
	// ErrNotFound is a missing recipe, user, or relation.
	ErrNotFound = errors.New("not found")
	// ErrConflict is a uniqueness violation: duplicate favorite,
	// cart item, subscription, username, or email.
	ErrConflict = errors.New("conflict")
	// ErrForbidden is a non-author mutating a recipe. The resource's
	// existence is not concealed.
	ErrForbidden = errors.New("forbidden")
)

// translateStoreError classifies storage errors into the sentinel
// taxonomy. Duplicate-key errors come from the composite unique
// indexes, which makes the conflict classification race-safe.
func translateStoreError(err error, notFoundMsg, conflictMsg string) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("%w: %s", ErrNotFound, notFoundMsg)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%w: %s", ErrConflict, conflictMsg)
	}
	return err
}
