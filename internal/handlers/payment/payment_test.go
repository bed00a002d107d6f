package payment

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/abarbosa/coursepay/internal/dto"
	"github.com/abarbosa/coursepay/internal/service/checkoutservice"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	gomock "go.uber.org/mock/gomock"
)

func NewMock(t *testing.T) (chi.Router, *MockService) {
	ctrl := gomock.NewController(t)
	service := NewMockService(ctrl)
	handler := New(service)
	router := chi.NewRouter()
	router.Get("/api/payments/{id}", handler.GetPayment)
	defer ctrl.Finish()
	return router, service
}

func TestGetPayment(t *testing.T) {
	tests := []struct {
		name         string
		prepareMock  func(service *MockService)
		expectedCode int
		check        func(t *testing.T, body []byte)
	}{
		{
			name: "Successful fetch",
			prepareMock: func(service *MockService) {
				service.EXPECT().
					GetChargeStatus(gomock.Any(), "pay_1").
					Return(&checkoutservice.ChargeStatus{
						ID:           "pay_1",
						ValueCents:   26730,
						Status:       "CONFIRMED",
						PaymentURL:   "https://inv",
						PixCopyPaste: "copy",
					}, nil)
			},
			expectedCode: http.StatusOK,
			check: func(t *testing.T, body []byte) {
				var resp dto.PaymentStatusResponseDTO
				assert.NoError(t, json.Unmarshal(body, &resp))
				assert.Equal(t, "pay_1", resp.ID)
				assert.InDelta(t, 267.30, resp.Value, 0.001)
				assert.Equal(t, "CONFIRMED", resp.Status)
				assert.Equal(t, "copy", resp.PixCopyPaste)
			},
		},
		{
			name: "Charge not found",
			prepareMock: func(service *MockService) {
				service.EXPECT().
					GetChargeStatus(gomock.Any(), "pay_1").
					Return(nil, checkoutservice.ErrChargeNotFound)
			},
			expectedCode: http.StatusNotFound,
		},
		{
			name: "Processor failure",
			prepareMock: func(service *MockService) {
				service.EXPECT().
					GetChargeStatus(gomock.Any(), "pay_1").
					Return(nil, errors.New("api error"))
			},
			expectedCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, service := NewMock(t)
			tt.prepareMock(service)

			req := httptest.NewRequest(http.MethodGet, "/api/payments/pay_1", nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedCode, w.Code)
			if tt.check != nil {
				tt.check(t, w.Body.Bytes())
			}
		})
	}
}
