package domain

import (
	"errors"
	"fmt"
)

// ErrUnsupportedFormat is returned when a format has a declared layout but no parser.
var ErrUnsupportedFormat = errors.New("best-track format not supported")

// ParseError reports a field that failed type coercion.
// Header failures carry Line; observation failures carry ID and Row.
type ParseError struct {
	Line  int    // 0-based file line, -1 when not known
	ID    string // storm code, empty for header failures
	Row   int    // 0-based row within the storm's record range
	Field string
	Value string
	Err   error
}

func (e *ParseError) Error() string {
	var msg string
	if e.ID != "" {
		msg = fmt.Sprintf("storm %s row %d: field %s", e.ID, e.Row, e.Field)
	} else {
		msg = fmt.Sprintf("line %d: field %s", e.Line, e.Field)
	}
	if e.Value != "" {
		msg += fmt.Sprintf(" (%q)", e.Value)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ParseError) Unwrap() error { return e.Err }

// UnknownStormError is returned when a storm code is not in the index.
type UnknownStormError struct {
	ID string
}

func (e *UnknownStormError) Error() string {
	return fmt.Sprintf("storm %s not found in index", e.ID)
}

// DuplicateStormError is returned by a strict index build when a storm code repeats.
type DuplicateStormError struct {
	ID        string
	FirstLine int
	Line      int
}

func (e *DuplicateStormError) Error() string {
	return fmt.Sprintf("storm %s repeated on line %d (first seen on line %d)", e.ID, e.Line, e.FirstLine)
}
