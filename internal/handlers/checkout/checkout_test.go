package checkout

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/abarbosa/coursepay/internal/dto"
	"github.com/abarbosa/coursepay/internal/service/checkoutservice"
	"github.com/abarbosa/coursepay/pkg/ratelimit"
	"github.com/stretchr/testify/assert"
	gomock "go.uber.org/mock/gomock"
)

func NewMock(t *testing.T) (*CheckoutHandler, *MockService) {
	ctrl := gomock.NewController(t)
	service := NewMockService(ctrl)
	handler := New(service, ratelimit.NewMemoryLimiter())
	defer ctrl.Finish()
	return handler, service
}

func requestBody(t *testing.T, req dto.CheckoutRequestDTO) *bytes.Buffer {
	data, err := json.Marshal(req)
	assert.NoError(t, err)
	return bytes.NewBuffer(data)
}

func validRequest() dto.CheckoutRequestDTO {
	return dto.CheckoutRequestDTO{
		Name:          "Maria Silva",
		Email:         "Maria@Example.com",
		CPF:           "529.982.247-25",
		PaymentMethod: "pix",
	}
}

func TestCheckoutHandler(t *testing.T) {
	tests := []struct {
		name          string
		request       dto.CheckoutRequestDTO
		prepareMock   func(service *MockService)
		expectedCode  int
		expectedError string
	}{
		{
			name:    "Successful checkout",
			request: validRequest(),
			prepareMock: func(service *MockService) {
				service.EXPECT().
					ProcessCheckout(gomock.Any(), checkoutservice.CheckoutInput{
						Name:          "Maria Silva",
						Email:         "maria@example.com",
						CPF:           "52998224725",
						PaymentMethod: "pix",
					}).
					Return(&checkoutservice.CheckoutResult{
						PaymentID:   "pay_1",
						PaymentURL:  "https://inv",
						Status:      "PENDING",
						BillingType: "PIX",
					}, nil)
			},
			expectedCode: http.StatusOK,
		},
		{
			name:    "Missing tax id accepted",
			request: dto.CheckoutRequestDTO{Name: "Maria Silva", Email: "maria@example.com", PaymentMethod: "pix"},
			prepareMock: func(service *MockService) {
				service.EXPECT().
					ProcessCheckout(gomock.Any(), checkoutservice.CheckoutInput{
						Name:          "Maria Silva",
						Email:         "maria@example.com",
						CPF:           "",
						PaymentMethod: "pix",
					}).
					Return(&checkoutservice.CheckoutResult{PaymentID: "pay_1", BillingType: "PIX"}, nil)
			},
			expectedCode: http.StatusOK,
		},
		{
			name:    "Short legal name accepted",
			request: dto.CheckoutRequestDTO{Name: "Yu", Email: "yu@example.com", CPF: "52998224725", PaymentMethod: "pix"},
			prepareMock: func(service *MockService) {
				service.EXPECT().
					ProcessCheckout(gomock.Any(), gomock.Any()).
					Return(&checkoutservice.CheckoutResult{PaymentID: "pay_1"}, nil)
			},
			expectedCode: http.StatusOK,
		},
		{
			name:          "Missing name",
			request:       dto.CheckoutRequestDTO{Name: "   ", Email: "jo@example.com", CPF: "52998224725"},
			prepareMock:   func(service *MockService) {},
			expectedCode:  http.StatusBadRequest,
			expectedError: "Invalid name",
		},
		{
			name:          "Invalid email",
			request:       dto.CheckoutRequestDTO{Name: "Maria Silva", Email: "not-an-email", CPF: "52998224725"},
			prepareMock:   func(service *MockService) {},
			expectedCode:  http.StatusBadRequest,
			expectedError: "Invalid email",
		},
		{
			name:          "Invalid tax id",
			request:       dto.CheckoutRequestDTO{Name: "Maria Silva", Email: "maria@example.com", CPF: "12345678900"},
			prepareMock:   func(service *MockService) {},
			expectedCode:  http.StatusBadRequest,
			expectedError: "Invalid CPF",
		},
		{
			name:    "Course not found",
			request: validRequest(),
			prepareMock: func(service *MockService) {
				service.EXPECT().
					ProcessCheckout(gomock.Any(), gomock.Any()).
					Return(nil, checkoutservice.ErrCourseNotFound)
			},
			expectedCode:  http.StatusNotFound,
			expectedError: "Course not found",
		},
		{
			name:    "Processor failure",
			request: validRequest(),
			prepareMock: func(service *MockService) {
				service.EXPECT().
					ProcessCheckout(gomock.Any(), gomock.Any()).
					Return(nil, checkoutservice.ErrProcessor)
			},
			expectedCode:  http.StatusInternalServerError,
			expectedError: "Error processing checkout",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler, service := NewMock(t)
			tt.prepareMock(service)

			req := httptest.NewRequest(http.MethodPost, "/api/checkout", requestBody(t, tt.request))
			w := httptest.NewRecorder()
			handler.Checkout(w, req)

			assert.Equal(t, tt.expectedCode, w.Code)
			if tt.expectedError != "" {
				var resp map[string]string
				assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
				assert.Equal(t, tt.expectedError, resp["error"])
			}
		})
	}
}

func TestCheckoutHandler_InvalidBody(t *testing.T) {
	handler, _ := NewMock(t)

	req := httptest.NewRequest(http.MethodPost, "/api/checkout", bytes.NewBufferString("{not json"))
	w := httptest.NewRecorder()
	handler.Checkout(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCheckoutHandler_SanitizesMarkup(t *testing.T) {
	handler, service := NewMock(t)

	service.EXPECT().
		ProcessCheckout(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ any, input checkoutservice.CheckoutInput) (*checkoutservice.CheckoutResult, error) {
			assert.Equal(t, "Mariascript Silva", input.Name)
			return &checkoutservice.CheckoutResult{PaymentID: "pay_1"}, nil
		})

	request := validRequest()
	request.Name = "Maria<script> Silva"
	req := httptest.NewRequest(http.MethodPost, "/api/checkout", requestBody(t, request))
	w := httptest.NewRecorder()
	handler.Checkout(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCheckoutHandler_EmailThrottle(t *testing.T) {
	handler, service := NewMock(t)

	service.EXPECT().
		ProcessCheckout(gomock.Any(), gomock.Any()).
		Return(&checkoutservice.CheckoutResult{PaymentID: "pay_1"}, nil)

	first := httptest.NewRequest(http.MethodPost, "/api/checkout", requestBody(t, validRequest()))
	w := httptest.NewRecorder()
	handler.Checkout(w, first)
	assert.Equal(t, http.StatusOK, w.Code)

	// Same email again inside the cooldown window.
	second := httptest.NewRequest(http.MethodPost, "/api/checkout", requestBody(t, validRequest()))
	w = httptest.NewRecorder()
	handler.Checkout(w, second)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
}

func TestCheckoutHandler_IPThrottle(t *testing.T) {
	handler, _ := NewMock(t)

	// httptest requests share one remote address; burn the window with
	// malformed bodies, the limiter counts them before validation.
	for i := 0; i < ipLimit; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/checkout", bytes.NewBufferString(fmt.Sprintf("{bad %d", i)))
		w := httptest.NewRecorder()
		handler.Checkout(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/checkout", requestBody(t, validRequest()))
	w := httptest.NewRecorder()
	handler.Checkout(w, req)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
}

func TestCheckoutHandler_DefaultsToPix(t *testing.T) {
	handler, service := NewMock(t)

	service.EXPECT().
		ProcessCheckout(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ any, input checkoutservice.CheckoutInput) (*checkoutservice.CheckoutResult, error) {
			assert.Equal(t, "", input.PaymentMethod)
			return &checkoutservice.CheckoutResult{PaymentID: "pay_1", BillingType: "PIX"}, nil
		})

	request := validRequest()
	request.PaymentMethod = ""
	req := httptest.NewRequest(http.MethodPost, "/api/checkout", requestBody(t, request))
	w := httptest.NewRecorder()
	handler.Checkout(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp dto.CheckoutResponseDTO
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "PIX", resp.BillingType)
}
