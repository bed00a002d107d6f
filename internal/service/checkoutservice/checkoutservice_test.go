package checkoutservice

import (
	"context"
	"errors"
	"testing"

	"github.com/abarbosa/coursepay/internal/asaas"
	"github.com/abarbosa/coursepay/internal/domain"
	userrepo "github.com/abarbosa/coursepay/internal/repo/user-repo"
	"github.com/abarbosa/coursepay/pkg/auth"
	"github.com/stretchr/testify/assert"
	gomock "go.uber.org/mock/gomock"
)

type mocks struct {
	users     *MockUserRepo
	courses   *MockCourseRepo
	payments  *MockPaymentRepo
	processor *asaas.MockClientI
	hash      *auth.MockHashServiceInterface
	jwt       *auth.MockJWTServiceInterface
	recovery  *MockRecoverySender
}

func NewMock(t *testing.T) (*Service, *mocks) {
	ctrl := gomock.NewController(t)
	m := &mocks{
		users:     NewMockUserRepo(ctrl),
		courses:   NewMockCourseRepo(ctrl),
		payments:  NewMockPaymentRepo(ctrl),
		processor: asaas.NewMockClientI(ctrl),
		hash:      auth.NewMockHashServiceInterface(ctrl),
		jwt:       auth.NewMockJWTServiceInterface(ctrl),
		recovery:  NewMockRecoverySender(ctrl),
	}
	service := New(m.users, m.courses, m.payments, m.processor, m.hash, m.jwt, m.recovery, "tiktok-shop-do-zero", "https://example.com")
	defer ctrl.Finish()
	return service, m
}

var testCourse = &domain.Course{
	ID:         "c1",
	Slug:       "tiktok-shop-do-zero",
	Title:      "TikTok Shop do Zero",
	PriceCents: 29700,
}

func checkoutInput() CheckoutInput {
	return CheckoutInput{
		Name:          "Maria Silva",
		Email:         "maria@example.com",
		CPF:           "52998224725",
		PaymentMethod: "pix",
	}
}

func TestProcessCheckout_PixAppliesDiscount(t *testing.T) {
	service, m := NewMock(t)

	m.courses.EXPECT().FindBySlug(gomock.Any(), "tiktok-shop-do-zero").Return(testCourse, nil)
	m.users.EXPECT().FindByEmail(gomock.Any(), "maria@example.com").
		Return(&domain.User{ID: "u1", Email: "maria@example.com"}, nil)
	m.processor.EXPECT().FindOrCreateCustomer("Maria Silva", "maria@example.com", "52998224725").
		Return(&asaas.Customer{ID: "cus_1"}, nil)
	m.processor.EXPECT().CreateCharge(gomock.Any()).DoAndReturn(
		func(charge *asaas.Charge) (*asaas.Charge, error) {
			assert.Equal(t, "cus_1", charge.Customer)
			assert.Equal(t, domain.BillingTypePix, charge.BillingType)
			assert.InDelta(t, 267.30, charge.Value, 0.001)
			ref, ok := asaas.ParseReference(charge.ExternalReference)
			assert.True(t, ok)
			assert.Equal(t, "u1", ref.UserID)
			assert.Equal(t, "c1", ref.CourseID)
			return &asaas.Charge{ID: "pay_1", Status: "PENDING", InvoiceURL: "https://inv", BillingType: domain.BillingTypePix}, nil
		})
	m.payments.EXPECT().Save(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, p *domain.Payment) error {
			assert.Equal(t, int64(26730), p.ValueCents)
			assert.Equal(t, domain.StatusPending, p.Status)
			assert.Equal(t, "pay_1", p.AsaasPaymentID)
			return nil
		})
	m.processor.EXPECT().GetPixQRCode("pay_1").
		Return(&asaas.PixQRCode{EncodedImage: "img", Payload: "copy-paste"}, nil)

	result, err := service.ProcessCheckout(context.Background(), checkoutInput())
	assert.NoError(t, err)
	assert.Equal(t, "pay_1", result.PaymentID)
	assert.Equal(t, "img", result.PixQRCode)
	assert.Equal(t, "copy-paste", result.PixCopyPaste)
	assert.Equal(t, domain.BillingTypePix, result.BillingType)
}

func TestProcessCheckout_BoletoFullPrice(t *testing.T) {
	service, m := NewMock(t)

	m.courses.EXPECT().FindBySlug(gomock.Any(), "tiktok-shop-do-zero").Return(testCourse, nil)
	m.users.EXPECT().FindByEmail(gomock.Any(), "maria@example.com").
		Return(&domain.User{ID: "u1"}, nil)
	m.processor.EXPECT().FindOrCreateCustomer(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(&asaas.Customer{ID: "cus_1"}, nil)
	m.processor.EXPECT().CreateCharge(gomock.Any()).DoAndReturn(
		func(charge *asaas.Charge) (*asaas.Charge, error) {
			assert.Equal(t, domain.BillingTypeBoleto, charge.BillingType)
			assert.InDelta(t, 297.00, charge.Value, 0.001)
			return &asaas.Charge{ID: "pay_2", Status: "PENDING", BankSlipURL: "https://slip"}, nil
		})
	m.payments.EXPECT().Save(gomock.Any(), gomock.Any()).Return(nil)

	input := checkoutInput()
	input.PaymentMethod = "boleto"

	result, err := service.ProcessCheckout(context.Background(), input)
	assert.NoError(t, err)
	assert.Equal(t, "https://slip", result.BankSlipURL)
	assert.Empty(t, result.PixQRCode)
}

func TestProcessCheckout_NewUserGetsPlaceholderCredential(t *testing.T) {
	service, m := NewMock(t)

	m.courses.EXPECT().FindBySlug(gomock.Any(), gomock.Any()).Return(testCourse, nil)
	m.users.EXPECT().FindByEmail(gomock.Any(), "maria@example.com").Return(nil, nil)
	m.hash.EXPECT().RandomPassword().Return("random-secret", nil)
	m.hash.EXPECT().HashPassword("random-secret").Return("hashed", nil)
	m.users.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, u *domain.User) (*domain.User, error) {
			assert.Equal(t, "hashed", u.PasswordHash)
			created := *u
			created.ID = "u-new"
			return &created, nil
		})
	m.jwt.EXPECT().GenerateRecoveryToken("maria@example.com", gomock.Any()).Return("token", nil)
	m.recovery.EXPECT().
		SendRecoveryLink(gomock.Any(), "maria@example.com", "https://example.com/reset?token=token").
		Return(nil)
	m.processor.EXPECT().FindOrCreateCustomer(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(&asaas.Customer{ID: "cus_1"}, nil)
	m.processor.EXPECT().CreateCharge(gomock.Any()).
		Return(&asaas.Charge{ID: "pay_3", Status: "PENDING"}, nil)
	m.payments.EXPECT().Save(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, p *domain.Payment) error {
			assert.Equal(t, "u-new", p.UserID)
			return nil
		})
	m.processor.EXPECT().GetPixQRCode("pay_3").Return(nil, errors.New("not ready"))

	result, err := service.ProcessCheckout(context.Background(), checkoutInput())
	assert.NoError(t, err)
	assert.Equal(t, "pay_3", result.PaymentID)
	assert.Empty(t, result.PixQRCode)
}

func TestProcessCheckout_RecoveryDeliveryFailureTolerated(t *testing.T) {
	service, m := NewMock(t)

	m.courses.EXPECT().FindBySlug(gomock.Any(), gomock.Any()).Return(testCourse, nil)
	m.users.EXPECT().FindByEmail(gomock.Any(), "maria@example.com").Return(nil, nil)
	m.hash.EXPECT().RandomPassword().Return("random-secret", nil)
	m.hash.EXPECT().HashPassword("random-secret").Return("hashed", nil)
	m.users.EXPECT().Create(gomock.Any(), gomock.Any()).
		Return(&domain.User{ID: "u-new", Email: "maria@example.com"}, nil)
	m.jwt.EXPECT().GenerateRecoveryToken("maria@example.com", gomock.Any()).Return("token", nil)
	// The relay being down must not block the purchase.
	m.recovery.EXPECT().SendRecoveryLink(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(errors.New("relay down"))
	m.processor.EXPECT().FindOrCreateCustomer(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(&asaas.Customer{ID: "cus_1"}, nil)
	m.processor.EXPECT().CreateCharge(gomock.Any()).
		Return(&asaas.Charge{ID: "pay_6", Status: "PENDING"}, nil)
	m.payments.EXPECT().Save(gomock.Any(), gomock.Any()).Return(nil)
	m.processor.EXPECT().GetPixQRCode("pay_6").Return(&asaas.PixQRCode{}, nil)

	result, err := service.ProcessCheckout(context.Background(), checkoutInput())
	assert.NoError(t, err)
	assert.Equal(t, "pay_6", result.PaymentID)
}

func TestProcessCheckout_UserCreationRaceRecovered(t *testing.T) {
	service, m := NewMock(t)

	m.courses.EXPECT().FindBySlug(gomock.Any(), gomock.Any()).Return(testCourse, nil)
	m.users.EXPECT().FindByEmail(gomock.Any(), "maria@example.com").Return(nil, nil)
	m.hash.EXPECT().RandomPassword().Return("random-secret", nil)
	m.hash.EXPECT().HashPassword("random-secret").Return("hashed", nil)
	m.users.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil, userrepo.ErrUserExists)
	// The concurrent checkout created the account first.
	m.users.EXPECT().FindByEmail(gomock.Any(), "maria@example.com").
		Return(&domain.User{ID: "u-race"}, nil)
	m.processor.EXPECT().FindOrCreateCustomer(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(&asaas.Customer{ID: "cus_1"}, nil)
	m.processor.EXPECT().CreateCharge(gomock.Any()).
		Return(&asaas.Charge{ID: "pay_4", Status: "PENDING"}, nil)
	m.payments.EXPECT().Save(gomock.Any(), gomock.Any()).Return(nil)
	m.processor.EXPECT().GetPixQRCode("pay_4").Return(&asaas.PixQRCode{}, nil)

	result, err := service.ProcessCheckout(context.Background(), checkoutInput())
	assert.NoError(t, err)
	assert.Equal(t, "pay_4", result.PaymentID)
}

func TestProcessCheckout_LocalInsertFailureTolerated(t *testing.T) {
	service, m := NewMock(t)

	m.courses.EXPECT().FindBySlug(gomock.Any(), gomock.Any()).Return(testCourse, nil)
	m.users.EXPECT().FindByEmail(gomock.Any(), gomock.Any()).Return(&domain.User{ID: "u1"}, nil)
	m.processor.EXPECT().FindOrCreateCustomer(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(&asaas.Customer{ID: "cus_1"}, nil)
	m.processor.EXPECT().CreateCharge(gomock.Any()).
		Return(&asaas.Charge{ID: "pay_5", Status: "PENDING"}, nil)
	m.payments.EXPECT().Save(gomock.Any(), gomock.Any()).Return(errors.New("db down"))
	m.processor.EXPECT().GetPixQRCode("pay_5").Return(&asaas.PixQRCode{}, nil)

	// The charge already exists at the processor; the customer must still
	// get the payment link.
	result, err := service.ProcessCheckout(context.Background(), checkoutInput())
	assert.NoError(t, err)
	assert.Equal(t, "pay_5", result.PaymentID)
}

func TestProcessCheckout_Errors(t *testing.T) {
	tests := []struct {
		name        string
		prepareMock func(m *mocks)
		wantErr     error
	}{
		{
			name: "Course missing",
			prepareMock: func(m *mocks) {
				m.courses.EXPECT().FindBySlug(gomock.Any(), gomock.Any()).Return(nil, nil)
			},
			wantErr: ErrCourseNotFound,
		},
		{
			name: "Customer resolution fails",
			prepareMock: func(m *mocks) {
				m.courses.EXPECT().FindBySlug(gomock.Any(), gomock.Any()).Return(testCourse, nil)
				m.users.EXPECT().FindByEmail(gomock.Any(), gomock.Any()).Return(&domain.User{ID: "u1"}, nil)
				m.processor.EXPECT().FindOrCreateCustomer(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil, errors.New("api error"))
			},
			wantErr: ErrProcessor,
		},
		{
			name: "Charge creation fails",
			prepareMock: func(m *mocks) {
				m.courses.EXPECT().FindBySlug(gomock.Any(), gomock.Any()).Return(testCourse, nil)
				m.users.EXPECT().FindByEmail(gomock.Any(), gomock.Any()).Return(&domain.User{ID: "u1"}, nil)
				m.processor.EXPECT().FindOrCreateCustomer(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(&asaas.Customer{ID: "cus_1"}, nil)
				m.processor.EXPECT().CreateCharge(gomock.Any()).Return(nil, errors.New("api error"))
			},
			wantErr: ErrProcessor,
		},
		{
			name: "Duplicate recovery finds nothing",
			prepareMock: func(m *mocks) {
				m.courses.EXPECT().FindBySlug(gomock.Any(), gomock.Any()).Return(testCourse, nil)
				m.users.EXPECT().FindByEmail(gomock.Any(), gomock.Any()).Return(nil, nil)
				m.hash.EXPECT().RandomPassword().Return("random-secret", nil)
				m.hash.EXPECT().HashPassword("random-secret").Return("hashed", nil)
				m.users.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil, userrepo.ErrUserExists)
				m.users.EXPECT().FindByEmail(gomock.Any(), gomock.Any()).Return(nil, nil)
			},
			wantErr: ErrUserResolution,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, m := NewMock(t)
			tt.prepareMock(m)

			result, err := service.ProcessCheckout(context.Background(), checkoutInput())
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, result)
		})
	}
}

func TestGetChargeStatus(t *testing.T) {
	tests := []struct {
		name        string
		prepareMock func(m *mocks)
		wantErr     error
		check       func(t *testing.T, status *ChargeStatus)
	}{
		{
			name: "Pix charge with qr code",
			prepareMock: func(m *mocks) {
				m.processor.EXPECT().GetCharge("pay_1").Return(&asaas.Charge{
					ID: "pay_1", Value: 267.30, Status: "CONFIRMED",
					BillingType: domain.BillingTypePix, InvoiceURL: "https://inv",
				}, nil)
				m.processor.EXPECT().GetPixQRCode("pay_1").
					Return(&asaas.PixQRCode{EncodedImage: "img", Payload: "copy", ExpirationDate: "2025-01-02 00:00:00"}, nil)
			},
			check: func(t *testing.T, status *ChargeStatus) {
				assert.Equal(t, int64(26730), status.ValueCents)
				assert.Equal(t, "CONFIRMED", status.Status)
				assert.Equal(t, "copy", status.PixCopyPaste)
			},
		},
		{
			name: "Charge not found",
			prepareMock: func(m *mocks) {
				m.processor.EXPECT().GetCharge("pay_1").Return(nil, asaas.ErrChargeNotFound)
			},
			wantErr: ErrChargeNotFound,
		},
		{
			name: "Processor failure",
			prepareMock: func(m *mocks) {
				m.processor.EXPECT().GetCharge("pay_1").Return(nil, errors.New("api error"))
			},
			wantErr: ErrProcessor,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, m := NewMock(t)
			tt.prepareMock(m)

			status, err := service.GetChargeStatus(context.Background(), "pay_1")
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, status)
				return
			}
			assert.NoError(t, err)
			tt.check(t, status)
		})
	}
}

func TestChargeAmountCents(t *testing.T) {
	tests := []struct {
		name        string
		priceCents  int64
		billingType string
		want        int64
	}{
		{"Pix discount", 29700, domain.BillingTypePix, 26730},
		{"Boleto full price", 29700, domain.BillingTypeBoleto, 29700},
		{"Card full price", 29700, domain.BillingTypeCard, 29700},
		{"Pix rounds to nearest cent", 10001, domain.BillingTypePix, 9001},
		{"Zero price", 0, domain.BillingTypePix, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ChargeAmountCents(tt.priceCents, tt.billingType))
		})
	}
}
