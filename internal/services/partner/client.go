// Package partner wraps the external system that mirrors internal money
// movement in the real world. Its failures are always transient from the
// core's point of view; retries happen out of band.
package partner

import (
	"context"

	"finch/internal/models"
)

// Client executes the real-world side of a transfer. Implementations must
// honor ctx cancellation and return a *Error for any failure so the caller
// can classify it as retryable.
type Client interface {
	ExecuteInternalTransfer(ctx context.Context, tx *models.Transaction) error
}
