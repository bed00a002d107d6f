package dto

type PaymentStatusResponseDTO struct {
	ID           string  `json:"id" example:"pay_4jz5h0q8x2m1"`
	Value        float64 `json:"value" example:"267.30"`
	Status       string  `json:"status" example:"CONFIRMED"`
	PaymentURL   string  `json:"paymentUrl,omitempty"`
	PixQRCode    string  `json:"pixQrCode,omitempty"`
	PixCopyPaste string  `json:"pixCopyPaste,omitempty"`
	PixExpiresAt string  `json:"pixExpiresAt,omitempty" example:"2025-01-02 23:59:59"`
}
