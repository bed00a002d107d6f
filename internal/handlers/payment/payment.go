package payment

import (
	"context"
	"errors"
	"net/http"

	"github.com/abarbosa/coursepay/internal/asaas"
	"github.com/abarbosa/coursepay/internal/dto"
	"github.com/abarbosa/coursepay/internal/service/checkoutservice"
	"github.com/abarbosa/coursepay/pkg/utils"
	"github.com/go-chi/chi/v5"
)

type Service interface {
	GetChargeStatus(ctx context.Context, chargeID string) (*checkoutservice.ChargeStatus, error)
}

type PaymentHandler struct {
	checkoutService Service
}

func New(checkoutService Service) *PaymentHandler {
	return &PaymentHandler{
		checkoutService: checkoutService,
	}
}

// GetPayment godoc
//
//	@Summary		Get charge status
//	@Description	Proxy the current state of a charge from the payment processor
//	@Tags			Payments
//	@Produce		json
//	@Param			id	path		string	true	"Charge id"
//	@Success		200	{object}	dto.PaymentStatusResponseDTO
//	@Failure		400	{object}	utils.Response	"Missing charge id"
//	@Failure		404	{object}	utils.Response	"Charge not found"
//	@Failure		500	{object}	utils.Response	"Internal server error"
//	@Router			/api/payments/{id} [get]
func (h *PaymentHandler) GetPayment(w http.ResponseWriter, r *http.Request) {
	chargeID := chi.URLParam(r, "id")
	if chargeID == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Missing charge id")
		return
	}

	status, err := h.checkoutService.GetChargeStatus(r.Context(), chargeID)
	if err != nil {
		if errors.Is(err, checkoutservice.ErrChargeNotFound) {
			utils.RespondWithError(w, http.StatusNotFound, "Charge not found")
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Error fetching charge")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, dto.PaymentStatusResponseDTO{
		ID:           status.ID,
		Value:        asaas.CentsToValue(status.ValueCents),
		Status:       status.Status,
		PaymentURL:   status.PaymentURL,
		PixQRCode:    status.PixQRCode,
		PixCopyPaste: status.PixCopyPaste,
		PixExpiresAt: status.PixExpiresAt,
	})
}
