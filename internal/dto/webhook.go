package dto

// WebhookPaymentDTO is the payment object embedded in a processor callback.
// Value is in currency units; it is converted to minor units at the boundary.
type WebhookPaymentDTO struct {
	ID                string  `json:"id" example:"pay_4jz5h0q8x2m1"`
	Customer          string  `json:"customer" example:"cus_000005219613"`
	BillingType       string  `json:"billingType" example:"PIX"`
	Value             float64 `json:"value" example:"267.30"`
	Status            string  `json:"status" example:"CONFIRMED"`
	ExternalReference string  `json:"externalReference,omitempty"`
	ConfirmedDate     string  `json:"confirmedDate,omitempty" example:"2025-01-02"`
}

type WebhookEventDTO struct {
	Event   string            `json:"event" example:"PAYMENT_CONFIRMED"`
	Payment WebhookPaymentDTO `json:"payment"`
}

type WebhookResponseDTO struct {
	Status  string `json:"status" example:"ok"`
	Message string `json:"message,omitempty" example:"Already processed"`
}
