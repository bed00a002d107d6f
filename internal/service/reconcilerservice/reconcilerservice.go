package reconcilerservice

import (
	"context"
	"errors"
	"time"

	"github.com/abarbosa/coursepay/internal/asaas"
	"github.com/abarbosa/coursepay/internal/domain"
	paymentrepo "github.com/abarbosa/coursepay/internal/repo/payment-repo"
	"go.uber.org/zap"
)

type PaymentRepo interface {
	FindByAsaasID(ctx context.Context, asaasPaymentID string) (*domain.Payment, error)
	Save(ctx context.Context, payment *domain.Payment) error
	UpdateStatus(ctx context.Context, id int, status string) error
}

type EntitlementRepo interface {
	FindByUserAndCourse(ctx context.Context, userID, courseID string) (*domain.Entitlement, error)
	Upsert(ctx context.Context, entitlement *domain.Entitlement) error
	Deactivate(ctx context.Context, userID, courseID string) error
}

type UserRepo interface {
	FindByID(ctx context.Context, id string) (*domain.User, error)
}

type CourseRepo interface {
	FindByID(ctx context.Context, id string) (*domain.Course, error)
}

// Notifier alerts an operational channel about a new activation.
// Best-effort: failures never fail the reconciliation.
type Notifier interface {
	NotifyEnrollment(ctx context.Context, studentName, courseTitle string) error
}

// Event is a normalized inbound processor callback.
type Event struct {
	Type              string
	AsaasPaymentID    string
	AsaasCustomerID   string
	BillingType       string
	ValueCents        int64
	RawStatus         string
	ExternalReference string
}

type Result struct {
	AlreadyProcessed bool
	Status           string
}

type Service struct {
	paymentRepo     PaymentRepo
	entitlementRepo EntitlementRepo
	userRepo        UserRepo
	courseRepo      CourseRepo
	notifier        Notifier
}

func New(paymentRepo PaymentRepo, entitlementRepo EntitlementRepo, userRepo UserRepo, courseRepo CourseRepo, notifier Notifier) *Service {
	return &Service{
		paymentRepo:     paymentRepo,
		entitlementRepo: entitlementRepo,
		userRepo:        userRepo,
		courseRepo:      courseRepo,
		notifier:        notifier,
	}
}

// downgradesStatus reports whether writing next over current would move a
// settled payment back into an unsettled state. Statuses only move forward:
// once a record left pending it can never return there off a late or
// replayed event.
func downgradesStatus(current, next string) bool {
	if next != domain.StatusPending && next != domain.StatusUnknown {
		return false
	}
	return current != domain.StatusPending && current != domain.StatusUnknown
}

// ProcessEvent applies one processor event to the stored payment and
// entitlement state exactly once per distinct transition. Redeliveries and
// reordering are absorbed by the status-equality check, the monotonic status
// guard and the unique constraint on the external charge id.
func (s *Service) ProcessEvent(ctx context.Context, event Event) (*Result, error) {
	newStatus := asaas.MapStatus(event.RawStatus)

	existing, err := s.paymentRepo.FindByAsaasID(ctx, event.AsaasPaymentID)
	if err != nil {
		return nil, err
	}

	userID, courseID := s.resolvePair(existing, event.ExternalReference)

	if existing != nil && existing.Status == newStatus {
		// A refund notification can repeat the terminal status; the
		// deactivation still has to run and is idempotent by nature.
		if event.Type == asaas.PaymentRefundedEvent && userID != "" {
			if err := s.entitlementRepo.Deactivate(ctx, userID, courseID); err != nil {
				return nil, err
			}
		}
		zap.L().Info("webhook skipped (idempotent)",
			zap.String("charge_id", event.AsaasPaymentID),
			zap.String("status", newStatus),
		)
		return &Result{AlreadyProcessed: true, Status: newStatus}, nil
	}

	switch {
	case existing != nil:
		if downgradesStatus(existing.Status, newStatus) {
			zap.L().Info("webhook skipped (stale status)",
				zap.String("charge_id", event.AsaasPaymentID),
				zap.String("stored", existing.Status),
				zap.String("incoming", newStatus),
			)
			return &Result{AlreadyProcessed: true, Status: existing.Status}, nil
		}
		if err := s.paymentRepo.UpdateStatus(ctx, existing.ID, newStatus); err != nil {
			return nil, err
		}
	case userID != "":
		// The webhook arrived before (or instead of) the checkout-time
		// local insert.
		if err := s.lazyCreatePayment(ctx, event, newStatus, userID, courseID); err != nil {
			return nil, err
		}
	default:
		// Not correlatable; acknowledge so the processor does not retry an
		// unfixable event forever.
		zap.L().Warn("webhook event not correlatable",
			zap.String("event", event.Type),
			zap.String("charge_id", event.AsaasPaymentID),
		)
		return &Result{Status: newStatus}, nil
	}

	// Activation is gated on the event type, never on the status value:
	// a created event must not grant access even if its status says
	// confirmed.
	if asaas.IsConfirmationEvent(event.Type) && userID != "" {
		if err := s.activate(ctx, userID, courseID); err != nil {
			return nil, err
		}
	}

	if event.Type == asaas.PaymentRefundedEvent && userID != "" {
		if err := s.entitlementRepo.Deactivate(ctx, userID, courseID); err != nil {
			return nil, err
		}
		zap.L().Info("entitlement deactivated (refund)",
			zap.String("user_id", userID),
			zap.String("course_id", courseID),
		)
	}

	return &Result{Status: newStatus}, nil
}

func (s *Service) resolvePair(existing *domain.Payment, externalReference string) (string, string) {
	if existing != nil {
		return existing.UserID, existing.CourseID
	}
	if externalReference == "" {
		return "", ""
	}
	ref, ok := asaas.ParseReference(externalReference)
	if !ok {
		zap.L().Warn("can't parse external reference")
		return "", ""
	}
	return ref.UserID, ref.CourseID
}

func (s *Service) lazyCreatePayment(ctx context.Context, event Event, status, userID, courseID string) error {
	err := s.paymentRepo.Save(ctx, &domain.Payment{
		UserID:          userID,
		CourseID:        courseID,
		AsaasPaymentID:  event.AsaasPaymentID,
		AsaasCustomerID: event.AsaasCustomerID,
		Status:          status,
		ValueCents:      event.ValueCents,
		BillingType:     event.BillingType,
		CreatedAt:       time.Now(),
	})
	if err == nil {
		return nil
	}
	if !errors.Is(err, paymentrepo.ErrPaymentExists) {
		return err
	}

	// Lost the insert race against a concurrent delivery; the record now
	// exists, so proceed as an update.
	existing, err := s.paymentRepo.FindByAsaasID(ctx, event.AsaasPaymentID)
	if err != nil {
		return err
	}
	if existing != nil && existing.Status != status && !downgradesStatus(existing.Status, status) {
		return s.paymentRepo.UpdateStatus(ctx, existing.ID, status)
	}
	return nil
}

func (s *Service) activate(ctx context.Context, userID, courseID string) error {
	existing, err := s.entitlementRepo.FindByUserAndCourse(ctx, userID, courseID)
	if err != nil {
		return err
	}

	entitlement := &domain.Entitlement{
		UserID:      userID,
		CourseID:    courseID,
		Status:      domain.EntitlementActive,
		ActivatedAt: time.Now(),
	}
	if existing != nil {
		// Reactivation keeps the stored expiration; lifetime access stays a
		// nil expiration and is never derived from a duration here.
		entitlement.ExpiresAt = existing.ExpiresAt
	}

	if err := s.entitlementRepo.Upsert(ctx, entitlement); err != nil {
		return err
	}
	zap.L().Info("entitlement activated",
		zap.String("user_id", userID),
		zap.String("course_id", courseID),
	)

	s.notifyEnrollment(ctx, userID, courseID)
	return nil
}

func (s *Service) notifyEnrollment(ctx context.Context, userID, courseID string) {
	if s.notifier == nil {
		return
	}

	studentName := userID
	if user, err := s.userRepo.FindByID(ctx, userID); err == nil && user != nil && user.Name != "" {
		studentName = user.Name
	}
	courseTitle := courseID
	if course, err := s.courseRepo.FindByID(ctx, courseID); err == nil && course != nil {
		courseTitle = course.Title
	}

	if err := s.notifier.NotifyEnrollment(ctx, studentName, courseTitle); err != nil {
		zap.L().Warn("enrollment notification failed", zap.Error(err))
	}
}
