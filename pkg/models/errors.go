package models

import (
	"errors"
	"fmt"
)

// ErrorKind classifies failures surfaced by note operations.
type ErrorKind string

const (
	KindNotFound      ErrorKind = "NotFound"
	KindAlreadyExists ErrorKind = "AlreadyExists"
	KindInvalidInput  ErrorKind = "InvalidInput"
	KindIOFailure     ErrorKind = "IOFailure"
	KindNoProject     ErrorKind = "NoProject"
)

// Error is a classified error. Two errors match under errors.Is when their
// kinds are equal, so the sentinels below can be used for checks.
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *Error) Error() string {
	switch {
	case e.Message != "" && e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	case e.Message != "":
		return e.Message
	case e.Err != nil:
		return e.Err.Error()
	}
	return string(e.Kind)
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

var (
	ErrNotFound      = &Error{Kind: KindNotFound}
	ErrAlreadyExists = &Error{Kind: KindAlreadyExists}
	ErrInvalidInput  = &Error{Kind: KindInvalidInput}
	ErrIOFailure     = &Error{Kind: KindIOFailure}
	ErrNoProject     = &Error{Kind: KindNoProject, Message: "no project selected"}
)

func NotFoundf(format string, args ...any) error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

func AlreadyExistsf(format string, args ...any) error {
	return &Error{Kind: KindAlreadyExists, Message: fmt.Sprintf(format, args...)}
}

func InvalidInputf(format string, args ...any) error {
	return &Error{Kind: KindInvalidInput, Message: fmt.Sprintf(format, args...)}
}

// IOFailure wraps a lower level error with a message.
func IOFailure(err error, format string, args ...any) error {
	return &Error{Kind: KindIOFailure, Message: fmt.Sprintf(format, args...), Err: err}
}

// KindOf returns the kind of the first classified error in err's chain.
// Unclassified errors are treated as I/O failures.
func KindOf(err error) ErrorKind {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindIOFailure
}
