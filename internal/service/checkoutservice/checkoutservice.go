package checkoutservice

import (
	"context"
	"errors"
	"math"
	"net/url"
	"time"

	"github.com/abarbosa/coursepay/internal/asaas"
	"github.com/abarbosa/coursepay/internal/domain"
	userrepo "github.com/abarbosa/coursepay/internal/repo/user-repo"
	"github.com/abarbosa/coursepay/pkg/auth"
	"go.uber.org/zap"
)

type UserRepo interface {
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
}

type CourseRepo interface {
	FindBySlug(ctx context.Context, slug string) (*domain.Course, error)
}

type PaymentRepo interface {
	Save(ctx context.Context, payment *domain.Payment) error
}

// RecoverySender delivers the password-set link to a freshly created
// account. Best-effort: a failed delivery never fails the checkout, the
// customer can request a reset later.
type RecoverySender interface {
	SendRecoveryLink(ctx context.Context, email, link string) error
}

var (
	ErrCourseNotFound = errors.New("course not found")
	ErrUserResolution = errors.New("can't resolve user account")
	ErrChargeNotFound = errors.New("charge not found")
	ErrProcessor      = errors.New("payment processor error")
)

// Instant-transfer payments get a fixed discount off the base price.
const pixDiscount = 0.10

const recoveryTokenTTL = time.Hour

var billingTypeMap = map[string]string{
	"pix":    domain.BillingTypePix,
	"boleto": domain.BillingTypeBoleto,
	"card":   domain.BillingTypeCard,
}

type CheckoutInput struct {
	Name          string
	Email         string
	CPF           string
	PaymentMethod string
}

type CheckoutResult struct {
	PaymentID    string
	PaymentURL   string
	BankSlipURL  string
	PixQRCode    string
	PixCopyPaste string
	Status       string
	BillingType  string
}

type ChargeStatus struct {
	ID           string
	ValueCents   int64
	Status       string
	PaymentURL   string
	PixQRCode    string
	PixCopyPaste string
	PixExpiresAt string
}

type Service struct {
	userRepo    UserRepo
	courseRepo  CourseRepo
	paymentRepo PaymentRepo
	processor   asaas.ClientI
	hashService auth.HashServiceInterface
	jwtService  auth.JWTServiceInterface
	recovery    RecoverySender
	courseSlug  string
	appURL      string
}

func New(
	userRepo UserRepo,
	courseRepo CourseRepo,
	paymentRepo PaymentRepo,
	processor asaas.ClientI,
	hashService auth.HashServiceInterface,
	jwtService auth.JWTServiceInterface,
	recovery RecoverySender,
	courseSlug string,
	appURL string,
) *Service {
	return &Service{
		userRepo:    userRepo,
		courseRepo:  courseRepo,
		paymentRepo: paymentRepo,
		processor:   processor,
		hashService: hashService,
		jwtService:  jwtService,
		recovery:    recovery,
		courseSlug:  courseSlug,
		appURL:      appURL,
	}
}

// ProcessCheckout creates a charge at the processor and a matching local
// pending payment. Input is expected sanitized and validated by the handler.
func (s *Service) ProcessCheckout(ctx context.Context, input CheckoutInput) (*CheckoutResult, error) {
	course, err := s.courseRepo.FindBySlug(ctx, s.courseSlug)
	if err != nil {
		return nil, err
	}
	if course == nil {
		zap.L().Error("course not found", zap.String("slug", s.courseSlug))
		return nil, ErrCourseNotFound
	}

	user, err := s.resolveUser(ctx, input.Name, input.Email)
	if err != nil {
		return nil, err
	}

	billingType, ok := billingTypeMap[input.PaymentMethod]
	if !ok {
		billingType = domain.BillingTypePix
	}
	amountCents := ChargeAmountCents(course.PriceCents, billingType)

	customer, err := s.processor.FindOrCreateCustomer(input.Name, input.Email, input.CPF)
	if err != nil {
		zap.L().Error("can't resolve processor customer", zap.Error(err))
		return nil, ErrProcessor
	}

	charge, err := s.processor.CreateCharge(&asaas.Charge{
		Customer:    customer.ID,
		BillingType: billingType,
		Value:       asaas.CentsToValue(amountCents),
		DueDate:     time.Now().AddDate(0, 0, 1).Format("2006-01-02"),
		Description: course.Title,
		ExternalReference: asaas.EncodeReference(asaas.Reference{
			UserID:     user.ID,
			CourseID:   course.ID,
			CourseSlug: course.Slug,
		}),
	})
	if err != nil {
		zap.L().Error("can't create charge", zap.Error(err))
		return nil, ErrProcessor
	}

	// The processor-side charge is the source of truth; if the local insert
	// fails the webhook path reconciles the record later.
	err = s.paymentRepo.Save(ctx, &domain.Payment{
		UserID:          user.ID,
		CourseID:        course.ID,
		AsaasPaymentID:  charge.ID,
		AsaasCustomerID: customer.ID,
		Status:          domain.StatusPending,
		ValueCents:      amountCents,
		BillingType:     billingType,
		CreatedAt:       time.Now(),
	})
	if err != nil {
		zap.L().Error("can't save local payment record",
			zap.String("charge_id", charge.ID),
			zap.Error(err),
		)
	}

	result := &CheckoutResult{
		PaymentID:   charge.ID,
		PaymentURL:  charge.InvoiceURL,
		BankSlipURL: charge.BankSlipURL,
		Status:      charge.Status,
		BillingType: billingType,
	}

	if billingType == domain.BillingTypePix {
		qr, err := s.processor.GetPixQRCode(charge.ID)
		if err != nil {
			// The code may not be available right after creation.
			zap.L().Info("pix qr code not yet available", zap.String("charge_id", charge.ID))
		} else {
			result.PixQRCode = qr.EncodedImage
			result.PixCopyPaste = qr.Payload
		}
	}

	zap.L().Info("checkout created",
		zap.String("charge_id", charge.ID),
		zap.String("user_id", user.ID),
		zap.String("course_slug", course.Slug),
		zap.Int64("value_cents", amountCents),
		zap.String("billing_type", billingType),
	)
	return result, nil
}

// resolveUser finds the account for an email or creates one with an
// unusable placeholder credential. A concurrent duplicate creation is
// recovered by re-querying.
func (s *Service) resolveUser(ctx context.Context, name, email string) (*domain.User, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user != nil {
		return user, nil
	}

	password, err := s.hashService.RandomPassword()
	if err != nil {
		return nil, err
	}
	hash, err := s.hashService.HashPassword(password)
	if err != nil {
		return nil, err
	}

	user, err = s.userRepo.Create(ctx, &domain.User{
		Email:        email,
		Name:         name,
		PasswordHash: hash,
	})
	if err != nil {
		if errors.Is(err, userrepo.ErrUserExists) {
			user, err = s.userRepo.FindByEmail(ctx, email)
			if err != nil {
				return nil, err
			}
			if user == nil {
				zap.L().Error("duplicate user creation recovery failed", zap.String("email_hash", "redacted"))
				return nil, ErrUserResolution
			}
			return user, nil
		}
		return nil, err
	}

	s.sendRecoveryLink(ctx, email)

	return user, nil
}

// sendRecoveryLink builds the password-set link for a new account and hands
// it to the delivery channel. The token never reaches the logs.
func (s *Service) sendRecoveryLink(ctx context.Context, email string) {
	token, err := s.jwtService.GenerateRecoveryToken(email, time.Now().Add(recoveryTokenTTL))
	if err != nil {
		zap.L().Error("can't generate password recovery token", zap.Error(err))
		return
	}

	link := s.appURL + "/reset?token=" + url.QueryEscape(token)
	if s.recovery == nil {
		zap.L().Warn("no recovery link delivery configured")
		return
	}
	if err := s.recovery.SendRecoveryLink(ctx, email, link); err != nil {
		zap.L().Error("can't deliver password recovery link", zap.Error(err))
		return
	}
	zap.L().Info("password recovery link sent to new user")
}

// GetChargeStatus proxies the current state of a charge from the processor,
// attaching instant-transfer payment data when available.
func (s *Service) GetChargeStatus(ctx context.Context, chargeID string) (*ChargeStatus, error) {
	charge, err := s.processor.GetCharge(chargeID)
	if err != nil {
		if errors.Is(err, asaas.ErrChargeNotFound) {
			return nil, ErrChargeNotFound
		}
		zap.L().Error("can't fetch charge", zap.Error(err))
		return nil, ErrProcessor
	}

	status := &ChargeStatus{
		ID:         charge.ID,
		ValueCents: asaas.ValueToCents(charge.Value),
		Status:     charge.Status,
		PaymentURL: charge.InvoiceURL,
	}

	if charge.BillingType == domain.BillingTypePix {
		if qr, err := s.processor.GetPixQRCode(chargeID); err == nil {
			status.PixQRCode = qr.EncodedImage
			status.PixCopyPaste = qr.Payload
			status.PixExpiresAt = qr.ExpirationDate
		}
	}

	return status, nil
}

// ChargeAmountCents computes the amount in minor units for a billing type,
// applying the instant-transfer discount rounded to the nearest cent.
func ChargeAmountCents(priceCents int64, billingType string) int64 {
	if billingType == domain.BillingTypePix {
		return int64(math.Round(float64(priceCents) * (1 - pixDiscount)))
	}
	return priceCents
}
