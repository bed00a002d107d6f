package asaas

import (
	"testing"

	"github.com/abarbosa/coursepay/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestMapStatus(t *testing.T) {
	tests := []struct {
		raw      string
		expected string
	}{
		{"PENDING", domain.StatusPending},
		{"AWAITING_RISK_ANALYSIS", domain.StatusPending},
		{"RECEIVED", domain.StatusConfirmed},
		{"CONFIRMED", domain.StatusConfirmed},
		{"RECEIVED_IN_CASH", domain.StatusConfirmed},
		{"OVERDUE", domain.StatusOverdue},
		{"REFUNDED", domain.StatusRefunded},
		{"REFUND_REQUESTED", domain.StatusRefundRequested},
		{"CHARGEBACK_REQUESTED", domain.StatusChargeback},
		{"CHARGEBACK_DISPUTE", domain.StatusChargeback},
		{"AWAITING_CHARGEBACK_REVERSAL", domain.StatusChargeback},
		{"DUNNING_REQUESTED", domain.StatusDunning},
		{"DUNNING_RECEIVED", domain.StatusDunning},
		{"SOME_FUTURE_STATUS", domain.StatusUnknown},
		{"", domain.StatusUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.expected, MapStatus(tt.raw))
		})
	}
}

func TestIsConfirmationEvent(t *testing.T) {
	assert.True(t, IsConfirmationEvent(PaymentConfirmedEvent))
	assert.True(t, IsConfirmationEvent(PaymentReceivedEvent))
	assert.False(t, IsConfirmationEvent(PaymentCreatedEvent))
	assert.False(t, IsConfirmationEvent(PaymentRefundedEvent))
	assert.False(t, IsConfirmationEvent(""))
}

func TestParseReference(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected Reference
		ok       bool
	}{
		{
			name:     "Round trip",
			raw:      EncodeReference(Reference{UserID: "u1", CourseID: "c1", CourseSlug: "slug"}),
			expected: Reference{UserID: "u1", CourseID: "c1", CourseSlug: "slug"},
			ok:       true,
		},
		{
			name:     "Missing course id",
			raw:      `{"userId":"u1"}`,
			expected: Reference{},
			ok:       false,
		},
		{
			name:     "Not json",
			raw:      "order-42",
			expected: Reference{},
			ok:       false,
		},
		{
			name:     "Empty",
			raw:      "",
			expected: Reference{},
			ok:       false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ref, ok := ParseReference(tt.raw)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.expected, ref)
		})
	}
}

func TestCentsConversion(t *testing.T) {
	assert.Equal(t, 267.30, CentsToValue(26730))
	assert.Equal(t, int64(26730), ValueToCents(267.30))
	assert.Equal(t, int64(26730), ValueToCents(267.299999999))
}
