package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("conflict")
	ErrInvalid  = errors.New("invalid input")
	ErrStorage  = errors.New("storage failure")
)

// EntityError ties one of the sentinels above to the entity (and optional id)
// it is about, so handlers can surface "Habitación 101 no encontrada"-style
// details while still matching with errors.Is.
type EntityError struct {
	Kind   error
	Entity string
	Detail string
	Cause  error
}

func (e *EntityError) Error() string {
	msg := e.Entity + " " + e.Kind.Error()
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *EntityError) Is(target error) bool { return target == e.Kind }

func (e *EntityError) Unwrap() error { return e.Cause }

func NotFound(entity string) error {
	return &EntityError{Kind: ErrNotFound, Entity: entity}
}

func NotFoundID(entity string, id any) error {
	return &EntityError{Kind: ErrNotFound, Entity: entity, Detail: fmt.Sprint(id)}
}

func Conflict(entity, detail string, cause error) error {
	return &EntityError{Kind: ErrConflict, Entity: entity, Detail: detail, Cause: cause}
}

func Invalid(entity, detail string) error {
	return &EntityError{Kind: ErrInvalid, Entity: entity, Detail: detail}
}

// Storage marks an unexpected store fault on a read path.
func Storage(entity string, cause error) error {
	return &EntityError{Kind: ErrStorage, Entity: entity, Cause: cause}
}

// IsDomain reports whether err already carries one of the domain kinds.
func IsDomain(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, ErrConflict) ||
		errors.Is(err, ErrInvalid) || errors.Is(err, ErrStorage)
}
