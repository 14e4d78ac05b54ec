package investment

import "errors"

// ErrBatchFailed signals that a leg of a fan-out batch failed validation.
// Legs processed before the failing one may already have moved money, so the
// caller must unwind the batch; the fan-out itself does not.
var ErrBatchFailed = errors.New("transaction batch failed")

// ErrMovementTypeNotAllowed rejects fan-out requests whose transaction type
// is neither HOLD nor TRANSFER_FROM_HOLD.
var ErrMovementTypeNotAllowed = errors.New("movement type not allowed")

// ErrMissingOriginatorSubwallet rejects TRANSFER_FROM_HOLD fan-outs that do
// not say which held subwallet the funds leave from.
var ErrMissingOriginatorSubwallet = errors.New("originator subwallet type is required")
