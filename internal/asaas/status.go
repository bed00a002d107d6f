package asaas

import (
	"encoding/json"

	"github.com/abarbosa/coursepay/internal/domain"
)

// Webhook event types. Only the confirmation events may activate an
// entitlement; PAYMENT_CREATED never grants access.
const (
	PaymentCreatedEvent   = "PAYMENT_CREATED"
	PaymentConfirmedEvent = "PAYMENT_CONFIRMED"
	PaymentReceivedEvent  = "PAYMENT_RECEIVED"
	PaymentOverdueEvent   = "PAYMENT_OVERDUE"
	PaymentRefundedEvent  = "PAYMENT_REFUNDED"
)

func IsConfirmationEvent(event string) bool {
	return event == PaymentConfirmedEvent || event == PaymentReceivedEvent
}

var statusMap = map[string]string{
	"PENDING":                      domain.StatusPending,
	"AWAITING_RISK_ANALYSIS":       domain.StatusPending,
	"RECEIVED":                     domain.StatusConfirmed,
	"CONFIRMED":                    domain.StatusConfirmed,
	"RECEIVED_IN_CASH":             domain.StatusConfirmed,
	"OVERDUE":                      domain.StatusOverdue,
	"REFUNDED":                     domain.StatusRefunded,
	"REFUND_REQUESTED":             domain.StatusRefundRequested,
	"CHARGEBACK_REQUESTED":         domain.StatusChargeback,
	"CHARGEBACK_DISPUTE":           domain.StatusChargeback,
	"AWAITING_CHARGEBACK_REVERSAL": domain.StatusChargeback,
	"DUNNING_REQUESTED":            domain.StatusDunning,
	"DUNNING_RECEIVED":             domain.StatusDunning,
}

// MapStatus translates the processor status vocabulary into the internal
// one. The processor vocabulary is open; unrecognized values map to unknown.
func MapStatus(asaasStatus string) string {
	if s, ok := statusMap[asaasStatus]; ok {
		return s
	}
	return domain.StatusUnknown
}

// Reference is the opaque reference string set at checkout time and round-
// tripped through the processor so async callbacks can be correlated back
// to a user and course.
type Reference struct {
	UserID     string `json:"userId"`
	CourseID   string `json:"courseId"`
	CourseSlug string `json:"courseSlug,omitempty"`
}

func EncodeReference(ref Reference) string {
	b, _ := json.Marshal(ref)
	return string(b)
}

// ParseReference decodes an externalReference. Failure is non-fatal for the
// caller; it only matters when no local payment record supplies the pair.
func ParseReference(raw string) (Reference, bool) {
	var ref Reference
	if err := json.Unmarshal([]byte(raw), &ref); err != nil {
		return Reference{}, false
	}
	if ref.UserID == "" || ref.CourseID == "" {
		return Reference{}, false
	}
	return ref, true
}
