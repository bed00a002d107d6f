package asaas

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/url"

	"github.com/abarbosa/coursepay/pkg/clients"
	"go.uber.org/zap"
)

var (
	ErrChargeNotFound = errors.New("charge not found")
	ErrAPIKeyMissing  = errors.New("asaas api key is not configured")
)

type Customer struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	CpfCnpj string `json:"cpfCnpj,omitempty"`
}

type Charge struct {
	ID                string  `json:"id"`
	Customer          string  `json:"customer"`
	BillingType       string  `json:"billingType"`
	Value             float64 `json:"value"`
	DueDate           string  `json:"dueDate"`
	Description       string  `json:"description,omitempty"`
	ExternalReference string  `json:"externalReference,omitempty"`
	InvoiceURL        string  `json:"invoiceUrl,omitempty"`
	BankSlipURL       string  `json:"bankSlipUrl,omitempty"`
	Status            string  `json:"status"`
}

type PixQRCode struct {
	EncodedImage   string `json:"encodedImage"`
	Payload        string `json:"payload"`
	ExpirationDate string `json:"expirationDate"`
}

type apiError struct {
	Errors []struct {
		Code        string `json:"code"`
		Description string `json:"description"`
	} `json:"errors"`
}

// ClientI is the processor surface the checkout, webhook and sweeper paths
// consume.
type ClientI interface {
	FindOrCreateCustomer(name, email, cpfCnpj string) (*Customer, error)
	CreateCharge(charge *Charge) (*Charge, error)
	GetCharge(chargeID string) (*Charge, error)
	GetPixQRCode(chargeID string) (*PixQRCode, error)
}

type Client struct {
	baseURL string
	apiKey  string
	client  clients.HTTPClientI
}

func NewClient(baseURL, apiKey string, client clients.HTTPClientI) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  client,
	}
}

func (c *Client) headers() http.Header {
	h := http.Header{}
	h.Set("Content-Type", "application/json")
	h.Set("access_token", c.apiKey)
	return h
}

// FindOrCreateCustomer looks the customer up by email first and creates one
// on a miss.
func (c *Client) FindOrCreateCustomer(name, email, cpfCnpj string) (*Customer, error) {
	if c.apiKey == "" {
		return nil, ErrAPIKeyMissing
	}

	searchURL := c.baseURL + "/customers?email=" + url.QueryEscape(email)
	status, body, _, err := c.client.Get(searchURL, c.headers())
	if err != nil {
		return nil, fmt.Errorf("customer search failed: %w", err)
	}
	if status != http.StatusOK {
		return nil, c.asAPIError("customer search", status, body)
	}

	var search struct {
		Data []Customer `json:"data"`
	}
	if err := json.Unmarshal(body, &search); err != nil {
		return nil, fmt.Errorf("can't parse customer search response: %w", err)
	}
	if len(search.Data) > 0 {
		return &search.Data[0], nil
	}

	payload, err := json.Marshal(map[string]any{
		"name":                 name,
		"email":                email,
		"cpfCnpj":              cpfCnpj,
		"notificationDisabled": false,
	})
	if err != nil {
		return nil, err
	}

	status, body, err = c.client.Post(c.baseURL+"/customers", c.headers(), payload)
	if err != nil {
		return nil, fmt.Errorf("customer creation failed: %w", err)
	}
	if status != http.StatusOK && status != http.StatusCreated {
		return nil, c.asAPIError("customer creation", status, body)
	}

	var customer Customer
	if err := json.Unmarshal(body, &customer); err != nil {
		return nil, fmt.Errorf("can't parse customer response: %w", err)
	}
	zap.L().Info("customer created", zap.String("customer_id", customer.ID))
	return &customer, nil
}

func (c *Client) CreateCharge(charge *Charge) (*Charge, error) {
	if c.apiKey == "" {
		return nil, ErrAPIKeyMissing
	}

	payload, err := json.Marshal(charge)
	if err != nil {
		return nil, err
	}

	status, body, err := c.client.Post(c.baseURL+"/payments", c.headers(), payload)
	if err != nil {
		return nil, fmt.Errorf("charge creation failed: %w", err)
	}
	if status != http.StatusOK && status != http.StatusCreated {
		return nil, c.asAPIError("charge creation", status, body)
	}

	var created Charge
	if err := json.Unmarshal(body, &created); err != nil {
		return nil, fmt.Errorf("can't parse charge response: %w", err)
	}
	zap.L().Info("charge created",
		zap.String("charge_id", created.ID),
		zap.String("billing_type", created.BillingType),
	)
	return &created, nil
}

func (c *Client) GetCharge(chargeID string) (*Charge, error) {
	if c.apiKey == "" {
		return nil, ErrAPIKeyMissing
	}

	status, body, _, err := c.client.Get(c.baseURL+"/payments/"+url.PathEscape(chargeID), c.headers())
	if err != nil {
		return nil, fmt.Errorf("charge lookup failed: %w", err)
	}
	if status == http.StatusNotFound {
		return nil, ErrChargeNotFound
	}
	if status != http.StatusOK {
		return nil, c.asAPIError("charge lookup", status, body)
	}

	var charge Charge
	if err := json.Unmarshal(body, &charge); err != nil {
		return nil, fmt.Errorf("can't parse charge response: %w", err)
	}
	return &charge, nil
}

// GetPixQRCode fetches the scannable code for an instant-transfer charge.
// The code may not be available immediately after creation.
func (c *Client) GetPixQRCode(chargeID string) (*PixQRCode, error) {
	if c.apiKey == "" {
		return nil, ErrAPIKeyMissing
	}

	status, body, _, err := c.client.Get(c.baseURL+"/payments/"+url.PathEscape(chargeID)+"/pixQrCode", c.headers())
	if err != nil {
		return nil, fmt.Errorf("pix qr code lookup failed: %w", err)
	}
	if status != http.StatusOK {
		return nil, c.asAPIError("pix qr code lookup", status, body)
	}

	var qr PixQRCode
	if err := json.Unmarshal(body, &qr); err != nil {
		return nil, fmt.Errorf("can't parse pix qr code response: %w", err)
	}
	return &qr, nil
}

// asAPIError logs the processor's error detail and returns a generic error;
// processor internals are never surfaced to callers.
func (c *Client) asAPIError(op string, status int, body []byte) error {
	var apiErr apiError
	detail := ""
	if err := json.Unmarshal(body, &apiErr); err == nil && len(apiErr.Errors) > 0 {
		detail = apiErr.Errors[0].Description
	}
	zap.L().Error("asaas api error",
		zap.String("op", op),
		zap.Int("status", status),
		zap.String("detail", detail),
	)
	return fmt.Errorf("asaas %s: unexpected status %d", op, status)
}

// CentsToValue converts integer minor units to the reais float the
// processor API speaks.
func CentsToValue(cents int64) float64 {
	return float64(cents) / 100
}

// ValueToCents converts a processor reais value back to integer minor units.
func ValueToCents(value float64) int64 {
	return int64(math.Round(value * 100))
}
