// Package apperr defines the caller-visible error taxonomy of the engine.
//
// Every error type unwraps to one of the sentinels below so callers can
// branch with errors.Is without knowing the concrete type:
//
//	if errors.Is(err, apperr.ErrUnknownEntity) { ... }
package apperr

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidEvent           = errors.New("invalid event")
	ErrUnknownEntity          = errors.New("unknown entity")
	ErrConcurrentModification = errors.New("concurrent modification")
	ErrConfiguration          = errors.New("configuration error")
	ErrCorruptStream          = errors.New("corrupt event stream")
)

// InvalidEventError reports a malformed or out-of-range event or submission.
type InvalidEventError struct {
	Field  string
	Reason string
}

func (e *InvalidEventError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("invalid event: %s", e.Reason)
	}
	return fmt.Sprintf("invalid event: %s: %s", e.Field, e.Reason)
}

func (e *InvalidEventError) Unwrap() error { return ErrInvalidEvent }

// Invalid is shorthand for building an InvalidEventError.
func Invalid(field, format string, args ...any) error {
	return &InvalidEventError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// UnknownEntityError reports a learner, item, set or course that does not exist.
type UnknownEntityError struct {
	Kind string // "learner", "item", "set", "course", "membership"
	ID   string
}

func (e *UnknownEntityError) Error() string {
	return fmt.Sprintf("unknown %s %q", e.Kind, e.ID)
}

func (e *UnknownEntityError) Unwrap() error { return ErrUnknownEntity }

// Unknown is shorthand for building an UnknownEntityError.
func Unknown(kind, id string) error {
	return &UnknownEntityError{Kind: kind, ID: id}
}

// ConcurrentModificationError reports a conditional write whose expected
// last-seen event id no longer matches the stored one.
type ConcurrentModificationError struct {
	Key      string
	Expected int64
	Actual   int64
}

func (e *ConcurrentModificationError) Error() string {
	return fmt.Sprintf("concurrent modification of %s: expected last event %d, found %d",
		e.Key, e.Expected, e.Actual)
}

func (e *ConcurrentModificationError) Unwrap() error { return ErrConcurrentModification }

// ConfigurationError reports a content item missing a parameter the engine
// needs, such as its initial learning interval or reward points.
type ConfigurationError struct {
	Entity string
	Param  string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error: %s is missing %s", e.Entity, e.Param)
}

func (e *ConfigurationError) Unwrap() error { return ErrConfiguration }

// CorruptStreamError reports an event that cannot be folded into derived
// state. Recomputation for the key stops; the event is never skipped.
type CorruptStreamError struct {
	Key     string
	EventID int64
	Reason  string
}

func (e *CorruptStreamError) Error() string {
	return fmt.Sprintf("corrupt event stream %s at event %d: %s", e.Key, e.EventID, e.Reason)
}

func (e *CorruptStreamError) Unwrap() error { return ErrCorruptStream }

// Class returns a short label for the taxonomy class of err, or "internal"
// for errors outside it.
func Class(err error) string {
	switch {
	case errors.Is(err, ErrInvalidEvent):
		return "invalid_event"
	case errors.Is(err, ErrUnknownEntity):
		return "unknown_entity"
	case errors.Is(err, ErrConcurrentModification):
		return "concurrent_modification"
	case errors.Is(err, ErrConfiguration):
		return "configuration"
	case errors.Is(err, ErrCorruptStream):
		return "corrupt_stream"
	default:
		return "internal"
	}
}
