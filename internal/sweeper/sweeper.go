package sweeper

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/abarbosa/coursepay/internal/asaas"
	"github.com/abarbosa/coursepay/internal/config"
	"github.com/abarbosa/coursepay/internal/domain"
	"github.com/abarbosa/coursepay/internal/service/reconcilerservice"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Webhook delivery is at-least-once but not guaranteed; payments stuck in
// pending are re-polled against the processor and fed through the same
// reconciliation path as a live callback.

const staleAge = 10 * time.Minute

type PaymentRepo interface {
	FindStalePending(ctx context.Context, olderThan time.Duration, limit uint32) ([]domain.Payment, error)
}

type Reconciler interface {
	ProcessEvent(ctx context.Context, event reconcilerservice.Event) (*reconcilerservice.Result, error)
}

type Processor interface {
	GetCharge(chargeID string) (*asaas.Charge, error)
}

type Service struct {
	paymentRepo   PaymentRepo
	reconciler    Reconciler
	processor     Processor
	limit         uint32
	workerPool    WorkerPoolI
	sweepInterval time.Duration

	inflight sync.Map
}

func New(cfg *config.Config, paymentRepo PaymentRepo, reconciler Reconciler, processor Processor) *Service {
	return &Service{
		paymentRepo:   paymentRepo,
		reconciler:    reconciler,
		processor:     processor,
		limit:         1000,
		workerPool:    NewWorkerPool(10),
		sweepInterval: cfg.SweepInterval,
	}
}

func (s *Service) Start(ctx context.Context) {
	zap.L().Info("Sweeper started", zap.Duration("interval", s.sweepInterval))
	go s.run(ctx)
}

func (s *Service) run(ctx context.Context) {
	ticker := time.NewTicker(s.sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			zap.L().Info("Context canceled, stopping sweeper")
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

func (s *Service) sweep(ctx context.Context) {
	payments, err := s.paymentRepo.FindStalePending(ctx, staleAge, s.limit)
	if err != nil {
		zap.L().Error("Failed to fetch stale pending payments", zap.Error(err))
		return
	}

	var g errgroup.Group
	for _, payment := range payments {
		payment := payment

		if _, loaded := s.inflight.LoadOrStore(payment.AsaasPaymentID, struct{}{}); loaded {
			continue
		}

		g.Go(func() error {
			err := s.workerPool.AddTask(ctx, func() error {
				defer s.inflight.Delete(payment.AsaasPaymentID)
				return s.syncPayment(ctx, payment)
			})
			if err != nil {
				s.inflight.Delete(payment.AsaasPaymentID)
				return err
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		zap.L().Error("Error sweeping payments", zap.Error(err))
	}
}

func (s *Service) syncPayment(ctx context.Context, payment domain.Payment) error {
	charge, err := s.processor.GetCharge(payment.AsaasPaymentID)
	if err != nil {
		if errors.Is(err, asaas.ErrChargeNotFound) {
			zap.L().Warn("Charge missing at processor", zap.String("charge_id", payment.AsaasPaymentID))
			return nil
		}
		return err
	}

	eventType, ok := eventTypeFor(charge.Status)
	if !ok {
		return nil
	}

	zap.L().Info("Syncing stale payment",
		zap.String("charge_id", payment.AsaasPaymentID),
		zap.String("processor_status", charge.Status),
	)
	_, err = s.reconciler.ProcessEvent(ctx, reconcilerservice.Event{
		Type:              eventType,
		AsaasPaymentID:    charge.ID,
		AsaasCustomerID:   payment.AsaasCustomerID,
		BillingType:       payment.BillingType,
		ValueCents:        asaas.ValueToCents(charge.Value),
		RawStatus:         charge.Status,
		ExternalReference: charge.ExternalReference,
	})
	return err
}

// eventTypeFor synthesizes the event type a webhook would have carried for
// the polled status. Confirmation types are only produced for genuinely paid
// statuses; anything still pending or unrecognized is left alone.
func eventTypeFor(rawStatus string) (string, bool) {
	switch asaas.MapStatus(rawStatus) {
	case domain.StatusConfirmed:
		return asaas.PaymentConfirmedEvent, true
	case domain.StatusRefunded:
		return asaas.PaymentRefundedEvent, true
	case domain.StatusOverdue:
		return asaas.PaymentOverdueEvent, true
	default:
		return "", false
	}
}
