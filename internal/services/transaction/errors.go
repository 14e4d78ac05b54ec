package transaction

import "errors"

// Validation errors are precondition violations found during validate().
// They permanently fail the transaction and are never retried.
var (
	ErrExternalTransactionNotAllowed = errors.New("external transaction not allowed")
	ErrInsufficientFunds             = errors.New("insufficient funds")
	ErrHoldNotAllowed                = errors.New("hold not allowed")
	ErrTransferNotAllowed            = errors.New("transfer not allowed")
	ErrTransferFromHoldNotAllowed    = errors.New("transfer from hold not allowed")

	ErrUnsupportedType = errors.New("unsupported transaction type")
)

var validationErrors = []error{
	ErrExternalTransactionNotAllowed,
	ErrInsufficientFunds,
	ErrHoldNotAllowed,
	ErrTransferNotAllowed,
	ErrTransferFromHoldNotAllowed,
}

// IsValidationError reports whether err belongs to the validation family.
func IsValidationError(err error) bool {
	for _, target := range validationErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
