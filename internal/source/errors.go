package source

import (
	"errors"
	"fmt"
)

// FetchError reports that the source system did not return a usable page of
// name changes. Nothing must be submitted or persisted after it.
type FetchError struct {
	// StatusCode is the HTTP status, 0 when no response was received.
	StatusCode int
	// Message is the error message reported by the API, if any.
	Message string
	// Err is the underlying transport or decoding error, if any.
	Err error
}

func (e *FetchError) Error() string {
	switch {
	case e.Err != nil && e.StatusCode != 0:
		return fmt.Sprintf("fetch name changes: status %d: %v", e.StatusCode, e.Err)
	case e.Err != nil:
		return fmt.Sprintf("fetch name changes: %v", e.Err)
	default:
		return fmt.Sprintf("fetch name changes: status %d: %s", e.StatusCode, e.Message)
	}
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// IsFetchError returns true if err is or wraps a *FetchError.
func IsFetchError(err error) bool {
	var fe *FetchError
	return errors.As(err, &fe)
}
