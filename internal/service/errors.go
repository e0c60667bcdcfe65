package service

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// Error kinds. Match with errors.Is; every DomainError unwraps to one of them.
var (
	ErrNotFound           = errors.New("not found")
	ErrInvalidOverride    = errors.New("invalid override")
	ErrDuplicateDeduction = errors.New("duplicate deduction")
	ErrStorageFailure     = errors.New("storage failure")
	ErrInvalidInput       = errors.New("invalid input")
)

// DomainError is a typed failure with a short machine-readable reason such as
// "booking_not_found" or "negative_quantity".
type DomainError struct {
	Kind   error
	Reason string
	Err    error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Reason, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Reason)
}

func (e *DomainError) Unwrap() []error {
	if e.Err != nil {
		return []error{e.Kind, e.Err}
	}
	return []error{e.Kind}
}

func newErr(kind error, reason string) error {
	return &DomainError{Kind: kind, Reason: reason}
}

func notFound(what string) error {
	return newErr(ErrNotFound, what+"_not_found")
}

func storageErr(err error) error {
	return &DomainError{Kind: ErrStorageFailure, Reason: "storage_failure", Err: err}
}

// fromStorage maps a repository error: record-not-found becomes a NotFound for
// what, domain errors pass through and anything else is a storage failure.
func fromStorage(err error, what string) error {
	if err == nil {
		return nil
	}
	var de *DomainError
	if errors.As(err, &de) {
		return err
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound(what)
	}
	return storageErr(err)
}

// Reason extracts the machine-readable reason, or "" for foreign errors.
func Reason(err error) string {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Reason
	}
	return ""
}
