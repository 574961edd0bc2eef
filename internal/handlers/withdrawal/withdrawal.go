package withdrawal

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/pixledger/pixpay/internal/domain"
	"github.com/pixledger/pixpay/internal/dto"
	"github.com/pixledger/pixpay/internal/middleware"
	"github.com/pixledger/pixpay/internal/service/withdrawalservice"
	"github.com/pixledger/pixpay/pkg/utils"
	"github.com/pixledger/pixpay/pkg/validate"
)

type Service interface {
	Request(ctx context.Context, userID int, amount decimal.Decimal, pixKeyType, pixKey string) (*domain.Withdrawal, *domain.Transaction, error)
	Approve(ctx context.Context, withdrawalID int) (*domain.Withdrawal, error)
	Reject(ctx context.Context, withdrawalID int) (*domain.Withdrawal, error)
	GetWithdrawals(ctx context.Context, userID int) ([]domain.Withdrawal, error)
}

type WithdrawalHandler struct {
	withdrawalService Service
}

func New(withdrawalService Service) *WithdrawalHandler {
	return &WithdrawalHandler{
		withdrawalService: withdrawalService,
	}
}

// CreateWithdrawal godoc
//
//	@Summary		Request a PIX withdrawal
//	@Description	Record a withdrawal request against the merchant balance. Funds leave the balance only when an operator approves the request.
//	@Tags			Withdrawals
//	@Security		ApiKeyAuth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		dto.CreateWithdrawalRequestDTO	true	"Withdrawal payload"
//	@Success		201		{object}	dto.CreateWithdrawalResponseDTO	"Recorded withdrawal request"
//	@Failure		400		{object}	utils.Response					"Invalid payload or insufficient balance"
//	@Failure		401		{object}	utils.Response					"Invalid API key"
//	@Failure		429		{object}	utils.Response					"Rate limit exceeded"
//	@Failure		500		{object}	utils.Response					"Internal server error"
//	@Router			/api/v1/withdrawals [post]
func (h *WithdrawalHandler) CreateWithdrawal(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value(middleware.UserIDKey).(int)

	var req dto.CreateWithdrawalRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	withdrawal, transaction, err := h.withdrawalService.Request(r.Context(), userID, req.Amount, req.PixKeyType, req.PixKey)
	if err != nil {
		switch {
		case errors.Is(err, withdrawalservice.ErrInvalidAmount),
			errors.Is(err, withdrawalservice.ErrInvalidPixKey),
			errors.Is(err, withdrawalservice.ErrInsufficientBalance):
			utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		default:
			utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}

	utils.RespondWithJSON(w, http.StatusCreated, dto.CreateWithdrawalResponseDTO{
		Success:       true,
		WithdrawalID:  withdrawal.ID,
		TransactionID: transaction.ID,
		Amount:        withdrawal.Amount,
		Status:        withdrawal.Status,
	})
}

// GetWithdrawals godoc
//
//	@Summary		Get withdrawal history
//	@Tags			Withdrawals
//	@Security		ApiKeyAuth
//	@Produce		json
//	@Success		200	{array}		dto.GetWithdrawalsResponseDTO	"Withdrawal history"
//	@Failure		401	{object}	utils.Response					"Invalid API key"
//	@Failure		500	{object}	utils.Response					"Internal server error"
//	@Router			/api/v1/withdrawals [get]
func (h *WithdrawalHandler) GetWithdrawals(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value(middleware.UserIDKey).(int)

	withdrawals, err := h.withdrawalService.GetWithdrawals(r.Context(), userID)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch withdrawals")
		return
	}

	response := make([]dto.GetWithdrawalsResponseDTO, 0, len(withdrawals))
	for _, withdrawal := range withdrawals {
		response = append(response, dto.GetWithdrawalsResponseDTO{
			WithdrawalID: withdrawal.ID,
			Amount:       withdrawal.Amount,
			PixKeyType:   withdrawal.PixKeyType,
			PixKey:       withdrawal.PixKey,
			Status:       withdrawal.Status,
			RequestDate:  withdrawal.RequestDate,
		})
	}
	utils.RespondWithJSON(w, http.StatusOK, response)
}

// Approve godoc
//
//	@Summary		Approve a withdrawal
//	@Description	Debit the merchant balance and move the withdrawal to its terminal approved state. A withdrawal already decided responds with a conflict.
//	@Tags			Admin
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		dto.WithdrawalDecisionRequestDTO	true	"Withdrawal to approve"
//	@Success		200		{object}	dto.WithdrawalDecisionResponseDTO	"Withdrawal approved"
//	@Failure		400		{object}	utils.Response						"Invalid payload or insufficient balance"
//	@Failure		401		{object}	utils.Response						"Not authorized"
//	@Failure		404		{object}	utils.Response						"Withdrawal not found"
//	@Failure		409		{object}	utils.Response						"Withdrawal already decided"
//	@Failure		500		{object}	utils.Response						"Internal server error"
//	@Router			/api/v1/admin/withdrawals/approve [post]
func (h *WithdrawalHandler) Approve(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, h.withdrawalService.Approve)
}

// Reject godoc
//
//	@Summary		Reject a withdrawal
//	@Description	Move the withdrawal to its terminal rejected state and cancel the pending transaction. The balance is not touched.
//	@Tags			Admin
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		dto.WithdrawalDecisionRequestDTO	true	"Withdrawal to reject"
//	@Success		200		{object}	dto.WithdrawalDecisionResponseDTO	"Withdrawal rejected"
//	@Failure		401		{object}	utils.Response						"Not authorized"
//	@Failure		404		{object}	utils.Response						"Withdrawal not found"
//	@Failure		409		{object}	utils.Response						"Withdrawal already decided"
//	@Failure		500		{object}	utils.Response						"Internal server error"
//	@Router			/api/v1/admin/withdrawals/reject [post]
func (h *WithdrawalHandler) Reject(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, h.withdrawalService.Reject)
}

func (h *WithdrawalHandler) decide(w http.ResponseWriter, r *http.Request, decision func(context.Context, int) (*domain.Withdrawal, error)) {
	var req dto.WithdrawalDecisionRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	withdrawal, err := decision(r.Context(), req.WithdrawalID)
	if err != nil {
		switch {
		case errors.Is(err, withdrawalservice.ErrWithdrawalNotFound):
			utils.RespondWithError(w, http.StatusNotFound, err.Error())
		case errors.Is(err, withdrawalservice.ErrWithdrawalDecided):
			utils.RespondWithError(w, http.StatusConflict, err.Error())
		case errors.Is(err, withdrawalservice.ErrInsufficientBalance):
			utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		default:
			utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, dto.WithdrawalDecisionResponseDTO{
		Success:      true,
		WithdrawalID: withdrawal.ID,
	})
}
