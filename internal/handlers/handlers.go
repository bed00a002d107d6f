package handlers

import (
	"net/http"

	_ "github.com/abarbosa/coursepay/docs"
	checkouthandlers "github.com/abarbosa/coursepay/internal/handlers/checkout"
	paymenthandlers "github.com/abarbosa/coursepay/internal/handlers/payment"
	webhookhandlers "github.com/abarbosa/coursepay/internal/handlers/webhook"
	"github.com/abarbosa/coursepay/internal/service"
	"github.com/abarbosa/coursepay/pkg/ratelimit"
	"github.com/abarbosa/coursepay/pkg/webhookauth"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"
)

type CheckoutHandler interface {
	Checkout(w http.ResponseWriter, r *http.Request)
}

type WebhookHandler interface {
	HandleAsaas(w http.ResponseWriter, r *http.Request)
}

type PaymentHandler interface {
	GetPayment(w http.ResponseWriter, r *http.Request)
}

type Handlers struct {
	CheckoutHandler CheckoutHandler
	WebhookHandler  WebhookHandler
	PaymentHandler  PaymentHandler
}

func New(s *service.Services, verifier *webhookauth.Verifier, limiter ratelimit.Limiter) *Handlers {
	return &Handlers{
		CheckoutHandler: checkouthandlers.New(s.CheckoutService, limiter),
		WebhookHandler:  webhookhandlers.New(s.ReconcilerService, verifier, limiter),
		PaymentHandler:  paymenthandlers.New(s.PaymentService),
	}
}

func (h *Handlers) InitRoutes(r chi.Router) chi.Router {
	r.Use(
		middleware.RealIP,
		middleware.Recoverer,
		middleware.Logger,
	)
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("doc.json"),
	))
	r.Route("/api", func(r chi.Router) {
		r.Post("/checkout", h.CheckoutHandler.Checkout)
		r.Post("/webhooks/asaas", h.WebhookHandler.HandleAsaas)
		r.Get("/payments/{id}", h.PaymentHandler.GetPayment)
	})

	return r
}
