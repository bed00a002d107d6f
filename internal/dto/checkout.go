package dto

type CheckoutRequestDTO struct {
	Name          string `json:"name" validate:"required,min=3,max=100" example:"Maria Silva"`
	Email         string `json:"email" validate:"required,email" example:"maria@example.com"`
	CPF           string `json:"cpf" validate:"required" example:"529.982.247-25"`
	PaymentMethod string `json:"paymentMethod" validate:"omitempty,oneof=pix boleto card" example:"pix"`
}

type CheckoutResponseDTO struct {
	PaymentID    string `json:"paymentId" example:"pay_4jz5h0q8x2m1"`
	PaymentURL   string `json:"paymentUrl,omitempty" example:"https://www.asaas.com/i/4jz5h0q8x2m1"`
	BankSlipURL  string `json:"bankSlipUrl,omitempty"`
	PixQRCode    string `json:"pixQrCode,omitempty"`
	PixCopyPaste string `json:"pixCopyPaste,omitempty"`
	Status       string `json:"status" example:"PENDING"`
	BillingType  string `json:"billingType" example:"PIX"`
}
