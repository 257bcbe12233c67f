package api

import (
	"errors"
	"fmt"
)

// ErrNotOK is the only failure the data functions report to callers.
//
//nolint:staticcheck // user-facing message, rendered verbatim by the views
var ErrNotOK = errors.New("Network response was not ok")

// FetchError carries the cause of a failed fetch for logging. Its message is
// always ErrNotOK's so callers cannot tell a timeout from a 404 or a bad body.
type FetchError struct {
	Op         string // "GetTodos", "GetTodosByID"
	URL        string
	StatusCode int // 0 when no response was received
	Cause      error
}

func (e *FetchError) Error() string { return ErrNotOK.Error() }

// Unwrap exposes both ErrNotOK and the cause to errors.Is / errors.As.
func (e *FetchError) Unwrap() []error {
	if e.Cause == nil {
		return []error{ErrNotOK}
	}
	return []error{ErrNotOK, e.Cause}
}

// Detail describes the underlying failure; meant for logs, not for views.
func (e *FetchError) Detail() string {
	switch {
	case e.StatusCode != 0 && e.Cause != nil:
		return fmt.Sprintf("%s %s: status %d: %v", e.Op, e.URL, e.StatusCode, e.Cause)
	case e.Cause != nil:
		return fmt.Sprintf("%s %s: %v", e.Op, e.URL, e.Cause)
	default:
		return fmt.Sprintf("%s %s", e.Op, e.URL)
	}
}
