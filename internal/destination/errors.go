package destination

import (
	"errors"
	"fmt"
)

// RejectedError reports a bulk submission answered with a status other than
// 201 or 400. The submitted records must not be persisted, so they are sent
// again on the next run.
type RejectedError struct {
	StatusCode int
	Body       string
}

func (e *RejectedError) Error() string {
	return fmt.Sprintf("submit name changes: unexpected status %d: %s", e.StatusCode, e.Body)
}

// IsRejectedError returns true if err is or wraps a *RejectedError.
func IsRejectedError(err error) bool {
	var re *RejectedError
	return errors.As(err, &re)
}
