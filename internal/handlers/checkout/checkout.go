package checkout

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/abarbosa/coursepay/internal/dto"
	"github.com/abarbosa/coursepay/internal/service/checkoutservice"
	"github.com/abarbosa/coursepay/pkg/ratelimit"
	"github.com/abarbosa/coursepay/pkg/utils"
	"github.com/abarbosa/coursepay/pkg/validate"
)

type Service interface {
	ProcessCheckout(ctx context.Context, input checkoutservice.CheckoutInput) (*checkoutservice.CheckoutResult, error)
}

const (
	ipLimit     = 10
	ipWindow    = time.Minute
	emailLimit  = 1
	emailWindow = 5 * time.Second
)

type CheckoutHandler struct {
	checkoutService Service
	limiter         ratelimit.Limiter
}

func New(checkoutService Service, limiter ratelimit.Limiter) *CheckoutHandler {
	return &CheckoutHandler{
		checkoutService: checkoutService,
		limiter:         limiter,
	}
}

// Checkout godoc
//
//	@Summary		Start a checkout
//	@Description	Create a payment charge for the course and resolve the customer account
//	@Tags			Checkout
//	@Accept			json
//	@Produce		json
//	@Param			request	body		dto.CheckoutRequestDTO	true	"Checkout request body"
//	@Success		200		{object}	dto.CheckoutResponseDTO
//	@Failure		400		{object}	utils.Response	"Invalid request body"
//	@Failure		404		{object}	utils.Response	"Course not found"
//	@Failure		429		{object}	utils.Response	"Too many requests"
//	@Failure		500		{object}	utils.Response	"Internal server error"
//	@Router			/api/checkout [post]
func (h *CheckoutHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	if !h.limiter.Allow("checkout:ip:"+clientIP(r), ipLimit, ipWindow) {
		utils.RespondWithError(w, http.StatusTooManyRequests, "Too many requests. Please try again in a moment")
		return
	}

	var req dto.CheckoutRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	name := validate.SanitizeInput(req.Name)
	email := strings.ToLower(validate.SanitizeInput(req.Email))
	cpf := validate.StripCPF(validate.SanitizeInput(req.CPF))
	method := strings.ToLower(validate.SanitizeInput(req.PaymentMethod))

	if name == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid name")
		return
	}
	if !validate.IsValidEmail(email) {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid email")
		return
	}
	// The tax id is optional; the processor asks for it only on some
	// billing types.
	if cpf != "" && !validate.IsValidCPF(cpf) {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid CPF")
		return
	}

	if !h.limiter.Allow("checkout:email:"+email, emailLimit, emailWindow) {
		utils.RespondWithError(w, http.StatusTooManyRequests, "Please wait before trying again")
		return
	}

	result, err := h.checkoutService.ProcessCheckout(r.Context(), checkoutservice.CheckoutInput{
		Name:          name,
		Email:         email,
		CPF:           cpf,
		PaymentMethod: method,
	})
	if err != nil {
		switch {
		case errors.Is(err, checkoutservice.ErrCourseNotFound):
			utils.RespondWithError(w, http.StatusNotFound, "Course not found")
		default:
			utils.RespondWithError(w, http.StatusInternalServerError, "Error processing checkout")
		}
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, dto.CheckoutResponseDTO{
		PaymentID:    result.PaymentID,
		PaymentURL:   result.PaymentURL,
		BankSlipURL:  result.BankSlipURL,
		PixQRCode:    result.PixQRCode,
		PixCopyPaste: result.PixCopyPaste,
		Status:       result.Status,
		BillingType:  result.BillingType,
	})
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
