package domain

import "time"

// Internal payment statuses. The processor vocabulary is open-ended, so
// anything unrecognized maps to StatusUnknown instead of failing.
const (
	StatusPending         string = "pending"
	StatusConfirmed       string = "confirmed"
	StatusOverdue         string = "overdue"
	StatusRefunded        string = "refunded"
	StatusRefundRequested string = "refund_requested"
	StatusChargeback      string = "chargeback"
	StatusDunning         string = "dunning"
	StatusUnknown         string = "unknown"
)

const (
	EntitlementActive   string = "active"
	EntitlementInactive string = "inactive"
)

// Billing types as the processor names them.
const (
	BillingTypePix    string = "PIX"
	BillingTypeBoleto string = "BOLETO"
	BillingTypeCard   string = "CREDIT_CARD"
)

type User struct {
	ID           string    `db:"id"`
	Email        string    `db:"email"`
	Name         string    `db:"name"`
	PasswordHash string    `db:"password_hash"`
	CreatedAt    time.Time `db:"created_at"`
}

type Course struct {
	ID         string `db:"id"`
	Slug       string `db:"slug"`
	Title      string `db:"title"`
	PriceCents int64  `db:"price_cents"`
}

type Payment struct {
	ID              int       `db:"id"`
	UserID          string    `db:"user_id"`
	CourseID        string    `db:"course_id"`
	AsaasPaymentID  string    `db:"asaas_payment_id"`
	AsaasCustomerID string    `db:"asaas_customer_id"`
	Status          string    `db:"status"`
	ValueCents      int64     `db:"value_cents"`
	BillingType     string    `db:"billing_type"`
	CreatedAt       time.Time `db:"created_at"`
}

type Entitlement struct {
	ID          int        `db:"id"`
	UserID      string     `db:"user_id"`
	CourseID    string     `db:"course_id"`
	Status      string     `db:"status"`
	ActivatedAt time.Time  `db:"activated_at"`
	ExpiresAt   *time.Time `db:"expires_at"`
	CreatedAt   time.Time  `db:"created_at"`
}

// Valid reports whether the entitlement currently grants access.
// A nil ExpiresAt means lifetime access.
func (e *Entitlement) Valid(now time.Time) bool {
	if e.Status != EntitlementActive {
		return false
	}
	return e.ExpiresAt == nil || e.ExpiresAt.After(now)
}
