package sheep

import "errors"

// The extraction pipeline fails with exactly one of these kinds so callers
// can branch on the failure class instead of matching message text.

// ErrEmptyResult means the source returned a well-formed payload whose
// announcement list is empty.
var ErrEmptyResult = errors.New("announcement list is empty")

// ErrNoValidEntries means no entry in the list carried all required fields.
var ErrNoValidEntries = errors.New("no announcement has all required fields")

// FetchError wraps a transport-level failure: connect error, timeout,
// non-2xx status, or a body read error.
type FetchError struct {
	Err error
}

func (e *FetchError) Error() string { return "fetch announcements: " + e.Err.Error() }
func (e *FetchError) Unwrap() error { return e.Err }

// FormatError means the payload was not the expected JSON shape.
// Snippet carries a truncated view of what actually came back.
type FormatError struct {
	Reason  string
	Snippet string
}

func (e *FormatError) Error() string {
	if e.Snippet == "" {
		return "unexpected payload: " + e.Reason
	}
	return "unexpected payload: " + e.Reason + " (got: " + e.Snippet + ")"
}
