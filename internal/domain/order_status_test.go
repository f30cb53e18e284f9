package domain_test

import (
	"testing"

	"github.com/caicai-studio/atelier/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToOrderStatus(t *testing.T) {
	tests := []struct {
		input     string
		wantError bool
	}{
		{input: "pending"},
		{input: "in_process"},
		{input: "finalized"},
		{input: "rejected"},
		{input: "shipped", wantError: true},
		{input: "", wantError: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			status, err := domain.ToOrderStatus(tt.input)
			if tt.wantError {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, domain.OrderStatus(tt.input), status)
		})
	}
}

func TestOrderStatusCanTransitionTo(t *testing.T) {
	tests := []struct {
		name   string
		from   domain.OrderStatus
		target domain.OrderStatus
		want   bool
	}{
		{name: "pending to in_process", from: domain.OrderStatusPending, target: domain.OrderStatusInProcess, want: true},
		{name: "pending to rejected", from: domain.OrderStatusPending, target: domain.OrderStatusRejected, want: true},
		{name: "pending to finalized", from: domain.OrderStatusPending, target: domain.OrderStatusFinalized, want: false},
		{name: "in_process to finalized", from: domain.OrderStatusInProcess, target: domain.OrderStatusFinalized, want: true},
		{name: "in_process to pending", from: domain.OrderStatusInProcess, target: domain.OrderStatusPending, want: false},
		{name: "rejected to rejected", from: domain.OrderStatusRejected, target: domain.OrderStatusRejected, want: true},
		{name: "rejected to in_process", from: domain.OrderStatusRejected, target: domain.OrderStatusInProcess, want: false},
		{name: "finalized to rejected", from: domain.OrderStatusFinalized, target: domain.OrderStatusRejected, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.from.CanTransitionTo(tt.target))
		})
	}
}

func TestOrderStatusTerminal(t *testing.T) {
	assert.True(t, domain.OrderStatusFinalized.Terminal())

	// rejected is sticky but not terminal, the reason may still be overwritten
	assert.False(t, domain.OrderStatusRejected.Terminal())
	assert.False(t, domain.OrderStatusPending.Terminal())
	assert.False(t, domain.OrderStatusInProcess.Terminal())
}
