package webhook

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/pixledger/pixpay/internal/domain"
	"github.com/pixledger/pixpay/internal/dto"
	"github.com/pixledger/pixpay/internal/service/webhookservice"
	"github.com/pixledger/pixpay/pkg/signature"
	"github.com/pixledger/pixpay/pkg/utils"
)

type Service interface {
	ProcessDepositEvent(ctx context.Context, event domain.ProviderEvent) (*webhookservice.Result, error)
	ProcessCheckoutEvent(ctx context.Context, event domain.ProviderEvent) (*webhookservice.Result, error)
}

type WebhookHandler struct {
	webhookService Service
	secret         string
}

func New(webhookService Service, secret string) *WebhookHandler {
	return &WebhookHandler{
		webhookService: webhookService,
		secret:         secret,
	}
}

// HandlePix godoc
//
//	@Summary		Provider deposit callback
//	@Description	Receive a PIX charge status callback, verify its HMAC signature and apply approved payments to the referenced deposit exactly once.
//	@Tags			Webhooks
//	@Accept			json
//	@Produce		json
//	@Param			x-signature	header		string						true	"Hex HMAC-SHA256 of the raw body"
//	@Param			request		body		dto.WebhookPayload			true	"Provider callback payload"
//	@Success		200			{object}	dto.WebhookSuccessResponse	"Event applied or acknowledged"
//	@Failure		400			{object}	utils.Response				"Malformed payload or unknown deposit"
//	@Failure		401			{object}	utils.Response				"Missing or invalid signature"
//	@Failure		500			{object}	utils.Response				"Internal server error"
//	@Router			/api/v1/webhooks/pix [post]
func (h *WebhookHandler) HandlePix(w http.ResponseWriter, r *http.Request) {
	event, ok := h.authenticate(w, r)
	if !ok {
		return
	}

	result, err := h.webhookService.ProcessDepositEvent(r.Context(), event)
	if err != nil {
		if errors.Is(err, webhookservice.ErrDepositNotFound) {
			utils.RespondWithError(w, http.StatusBadRequest, "unknown deposit")
			return
		}
		zap.L().Error("failed to process deposit event",
			zap.String("reference", event.Reference), zap.Error(err))
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	respond(w, result)
}

// HandleCheckout godoc
//
//	@Summary		Provider checkout sale callback
//	@Description	Receive a checkout sale callback and record the approved payment for the checkout owner.
//	@Tags			Webhooks
//	@Accept			json
//	@Produce		json
//	@Param			x-signature	header		string						true	"Hex HMAC-SHA256 of the raw body"
//	@Param			request		body		dto.WebhookPayload			true	"Provider callback payload"
//	@Success		200			{object}	dto.WebhookSuccessResponse	"Event applied or acknowledged"
//	@Failure		400			{object}	utils.Response				"Malformed payload or unknown checkout"
//	@Failure		401			{object}	utils.Response				"Missing or invalid signature"
//	@Failure		500			{object}	utils.Response				"Internal server error"
//	@Router			/api/v1/webhooks/checkout [post]
func (h *WebhookHandler) HandleCheckout(w http.ResponseWriter, r *http.Request) {
	event, ok := h.authenticate(w, r)
	if !ok {
		return
	}

	result, err := h.webhookService.ProcessCheckoutEvent(r.Context(), event)
	if err != nil {
		switch {
		case errors.Is(err, webhookservice.ErrCheckoutNotFound):
			utils.RespondWithError(w, http.StatusBadRequest, "unknown checkout")
		case errors.Is(err, webhookservice.ErrMissingAmount):
			utils.RespondWithError(w, http.StatusBadRequest, "missing amount")
		default:
			zap.L().Error("failed to process checkout event",
				zap.String("reference", event.Reference), zap.Error(err))
			utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}
	respond(w, result)
}

// authenticate verifies the signature over the raw body before anything
// is parsed, then normalizes the payload. Unsigned callbacks are rejected,
// never trusted.
func (h *WebhookHandler) authenticate(w http.ResponseWriter, r *http.Request) (domain.ProviderEvent, bool) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return domain.ProviderEvent{}, false
	}

	sig := r.Header.Get("x-signature")
	if sig == "" {
		sig = r.Header.Get("signature")
	}
	if !signature.Verify(body, sig, h.secret) {
		utils.RespondWithError(w, http.StatusUnauthorized, "invalid signature")
		return domain.ProviderEvent{}, false
	}

	var payload dto.WebhookPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return domain.ProviderEvent{}, false
	}

	event, err := payload.Normalize()
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return domain.ProviderEvent{}, false
	}
	return event, true
}

func respond(w http.ResponseWriter, result *webhookservice.Result) {
	switch result.Outcome {
	case webhookservice.OutcomeApplied:
		utils.RespondWithJSON(w, http.StatusOK, dto.WebhookSuccessResponse{
			Success:       true,
			DepositID:     result.DepositID,
			TransactionID: result.TransactionID,
			NetAmount:     result.NetAmount,
		})
	case webhookservice.OutcomeDuplicate:
		utils.RespondWithJSON(w, http.StatusOK, dto.WebhookSuccessResponse{
			Success:   true,
			DepositID: result.DepositID,
		})
	default:
		utils.RespondWithJSON(w, http.StatusOK, "ok")
	}
}
