package apperr

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorsUnwrapToSentinels(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"invalid", Invalid("timestamp", "in the future by %s", "5m"), ErrInvalidEvent},
		{"unknown", Unknown("item", "quiz-9"), ErrUnknownEntity},
		{"concurrent", &ConcurrentModificationError{Key: "k", Expected: 1, Actual: 2}, ErrConcurrentModification},
		{"configuration", &ConfigurationError{Entity: "item fc-1", Param: "initial learning interval"}, ErrConfiguration},
		{"corrupt", &CorruptStreamError{Key: "k", EventID: 3, Reason: "bad"}, ErrCorruptStream},
	}

	for _, tt := range tests {
		wrapped := fmt.Errorf("layer: %w", tt.err)
		if !errors.Is(wrapped, tt.want) {
			t.Errorf("%s: errors.Is(%v, %v) = false", tt.name, wrapped, tt.want)
		}
	}
}

func TestInvalidEventError_Message(t *testing.T) {
	err := Invalid("correctness", "must be within [0,1], got %.2f", 1.5)
	want := "invalid event: correctness: must be within [0,1], got 1.50"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}

	var iee *InvalidEventError
	if !errors.As(err, &iee) || iee.Field != "correctness" {
		t.Errorf("errors.As did not recover the field: %+v", iee)
	}
}

func TestUnknownEntityError_Message(t *testing.T) {
	err := Unknown("learner", "ghost")
	if err.Error() != `unknown learner "ghost"` {
		t.Errorf("Error() = %q", err.Error())
	}
}

func TestClass(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{Invalid("kind", "unknown"), "invalid_event"},
		{fmt.Errorf("wrap: %w", Unknown("course", "c")), "unknown_entity"},
		{&ConcurrentModificationError{}, "concurrent_modification"},
		{&ConfigurationError{}, "configuration"},
		{&CorruptStreamError{}, "corrupt_stream"},
		{errors.New("disk full"), "internal"},
	}
	for _, tt := range tests {
		if got := Class(tt.err); got != tt.want {
			t.Errorf("Class(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}
