package service

import (
	"github.com/abarbosa/coursepay/internal/asaas"
	"github.com/abarbosa/coursepay/internal/config"
	"github.com/abarbosa/coursepay/internal/handlers/checkout"
	"github.com/abarbosa/coursepay/internal/handlers/payment"
	"github.com/abarbosa/coursepay/internal/handlers/webhook"
	"github.com/abarbosa/coursepay/internal/repo"
	"github.com/abarbosa/coursepay/internal/service/checkoutservice"
	"github.com/abarbosa/coursepay/internal/service/reconcilerservice"
	pkgauth "github.com/abarbosa/coursepay/pkg/auth"
)

type Services struct {
	CheckoutService   checkout.Service
	ReconcilerService webhook.Service
	PaymentService    payment.Service
}

func New(cfg *config.Config, repo *repo.Repositories, processor asaas.ClientI, notifier reconcilerservice.Notifier, recovery checkoutservice.RecoverySender) *Services {
	checkoutService := checkoutservice.New(
		repo.UserRepo,
		repo.CourseRepo,
		repo.PaymentRepo,
		processor,
		&pkgauth.HashService{},
		pkgauth.NewJWTService(cfg.JWTSecret),
		recovery,
		cfg.CourseSlug,
		cfg.AppURL,
	)
	reconcilerService := reconcilerservice.New(
		repo.PaymentRepo,
		repo.EntitlementRepo,
		repo.UserRepo,
		repo.CourseRepo,
		notifier,
	)

	return &Services{
		CheckoutService:   checkoutService,
		ReconcilerService: reconcilerService,
		PaymentService:    checkoutService,
	}
}
