package webhook

import (
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/abarbosa/coursepay/internal/asaas"
	"github.com/abarbosa/coursepay/internal/dto"
	"github.com/abarbosa/coursepay/internal/service/reconcilerservice"
	"github.com/abarbosa/coursepay/pkg/ratelimit"
	"github.com/abarbosa/coursepay/pkg/utils"
	"go.uber.org/zap"
)

type Service interface {
	ProcessEvent(ctx context.Context, event reconcilerservice.Event) (*reconcilerservice.Result, error)
}

type Verifier interface {
	Verify(body []byte, header http.Header) bool
}

const (
	ipLimit  = 100
	ipWindow = time.Minute

	maxBodySize = 1 << 20
)

type WebhookHandler struct {
	reconciler Service
	verifier   Verifier
	limiter    ratelimit.Limiter
}

func New(reconciler Service, verifier Verifier, limiter ratelimit.Limiter) *WebhookHandler {
	return &WebhookHandler{
		reconciler: reconciler,
		verifier:   verifier,
		limiter:    limiter,
	}
}

// HandleAsaas godoc
//
//	@Summary		Receive a payment processor callback
//	@Description	Authenticate and apply an Asaas payment event
//	@Tags			Webhooks
//	@Accept			json
//	@Produce		json
//	@Param			request	body		dto.WebhookEventDTO	true	"Webhook event body"
//	@Success		200		{object}	dto.WebhookResponseDTO
//	@Failure		400		{object}	utils.Response	"Invalid payload"
//	@Failure		401		{object}	utils.Response	"Unauthorized"
//	@Failure		429		{object}	utils.Response	"Too many requests"
//	@Failure		500		{object}	utils.Response	"Internal server error"
//	@Router			/api/webhooks/asaas [post]
func (h *WebhookHandler) HandleAsaas(w http.ResponseWriter, r *http.Request) {
	if !h.limiter.Allow("webhook:ip:"+clientIP(r), ipLimit, ipWindow) {
		utils.RespondWithError(w, http.StatusTooManyRequests, "Too many requests")
		return
	}

	// Signature verification needs the raw bytes exactly as sent.
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize))
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Can't read request body")
		return
	}

	if !h.verifier.Verify(body, r.Header) {
		zap.L().Warn("webhook authentication failed", zap.String("ip", clientIP(r)))
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var event dto.WebhookEventDTO
	if err := json.Unmarshal(body, &event); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	if event.Event == "" || event.Payment.ID == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid payload")
		return
	}

	result, err := h.reconciler.ProcessEvent(r.Context(), reconcilerservice.Event{
		Type:              event.Event,
		AsaasPaymentID:    event.Payment.ID,
		AsaasCustomerID:   event.Payment.Customer,
		BillingType:       event.Payment.BillingType,
		ValueCents:        asaas.ValueToCents(event.Payment.Value),
		RawStatus:         event.Payment.Status,
		ExternalReference: event.Payment.ExternalReference,
	})
	if err != nil {
		// A 5xx makes the processor redeliver; the event is applied
		// idempotently on retry.
		utils.RespondWithError(w, http.StatusInternalServerError, "Error processing event")
		return
	}

	resp := dto.WebhookResponseDTO{Status: "ok"}
	if result.AlreadyProcessed {
		resp.Message = "Already processed"
	}
	utils.RespondWithJSON(w, http.StatusOK, resp)
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
