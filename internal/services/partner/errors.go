package partner

import (
	"errors"
	"fmt"
)

// Error wraps any failure from the partner system, including timeouts and
// cancellations. It is always classified as transient, never as a permanent
// transaction failure.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("partner %s failed: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsPartnerError reports whether err originated in the partner system.
func IsPartnerError(err error) bool {
	var pe *Error
	return errors.As(err, &pe)
}
