package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTransactionStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		name    string
		from    TransactionStatus
		to      TransactionStatus
		allowed bool
	}{
		{"creating to processing", StatusCreating, StatusProcessing, true},
		{"creating to transient", StatusCreating, StatusTransientError, true},
		{"creating to completed", StatusCreating, StatusCompleted, false},
		{"processing to completed", StatusProcessing, StatusCompleted, true},
		{"processing to failed", StatusProcessing, StatusFailed, true},
		{"processing to transient", StatusProcessing, StatusTransientError, true},
		{"processing self", StatusProcessing, StatusProcessing, true},
		{"completed is terminal", StatusCompleted, StatusProcessing, false},
		{"completed to failed", StatusCompleted, StatusFailed, false},
		{"completed self", StatusCompleted, StatusCompleted, true},
		{"failed is terminal", StatusFailed, StatusProcessing, false},
		{"failed to completed", StatusFailed, StatusCompleted, false},
		{"failed self", StatusFailed, StatusFailed, true},
		{"transient to completed", StatusTransientError, StatusCompleted, true},
		{"transient to failed", StatusTransientError, StatusFailed, true},
		{"transient to processing", StatusTransientError, StatusProcessing, false},
		{"transient self", StatusTransientError, StatusTransientError, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.allowed, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestTransactionStatus_Terminal(t *testing.T) {
	assert.True(t, StatusCompleted.Terminal())
	assert.True(t, StatusFailed.Terminal())
	assert.False(t, StatusProcessing.Terminal())
	assert.False(t, StatusTransientError.Terminal())
	assert.False(t, StatusCreating.Terminal())
}
