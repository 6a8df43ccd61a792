package models

// ResultKind tags a Result as a success or an error.
type ResultKind string

const (
	ResultSuccess ResultKind = "Success"
	ResultError   ResultKind = "Error"
)

// Result is the envelope every service operation returns. Exactly one of
// Value or Error is meaningful, depending on Kind.
type Result[T any] struct {
	Kind      ResultKind `json:"kind"`
	Value     T          `json:"value,omitempty"`
	Error     string     `json:"error,omitempty"`
	ErrorKind ErrorKind  `json:"errorKind,omitempty"`

	err error
}

// Ok wraps a value as a successful result.
func Ok[T any](v T) Result[T] {
	return Result[T]{Kind: ResultSuccess, Value: v}
}

// Fail wraps err as an error result, classifying it with KindOf.
func Fail[T any](err error) Result[T] {
	return Result[T]{
		Kind:      ResultError,
		Error:     err.Error(),
		ErrorKind: KindOf(err),
		err:       err,
	}
}

// OK reports whether the result is a success.
func (r Result[T]) OK() bool { return r.Kind == ResultSuccess }

// Err returns the underlying error of a failed result, or nil.
func (r Result[T]) Err() error {
	if r.Kind == ResultSuccess {
		return nil
	}
	if r.err != nil {
		return r.err
	}
	return &Error{Kind: r.ErrorKind, Message: r.Error}
}

// Unwrap returns the value and error as a Go pair.
func (r Result[T]) Unwrap() (T, error) {
	return r.Value, r.Err()
}
