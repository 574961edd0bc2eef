package deposit

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/pixledger/pixpay/internal/domain"
	"github.com/pixledger/pixpay/internal/dto"
	"github.com/pixledger/pixpay/internal/middleware"
	"github.com/pixledger/pixpay/internal/service/depositservice"
	"github.com/pixledger/pixpay/pkg/utils"
	"github.com/pixledger/pixpay/pkg/validate"
)

type Service interface {
	Create(ctx context.Context, userID int, amount decimal.Decimal, description string) (*domain.Deposit, *domain.Transaction, error)
	GetBalance(ctx context.Context, userID int) (decimal.Decimal, error)
	GetTransactions(ctx context.Context, userID int) ([]domain.Transaction, error)
}

type DepositHandler struct {
	depositService Service
}

func New(depositService Service) *DepositHandler {
	return &DepositHandler{
		depositService: depositService,
	}
}

// CreateDeposit godoc
//
//	@Summary		Create a PIX deposit charge
//	@Description	Create a waiting deposit with its pending transaction and QR image. The balance is credited when the provider confirms the payment.
//	@Tags			Deposits
//	@Security		ApiKeyAuth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		dto.CreateDepositRequestDTO		true	"Deposit payload"
//	@Success		201		{object}	dto.CreateDepositResponseDTO	"Created deposit with QR image"
//	@Failure		400		{object}	utils.Response					"Invalid payload"
//	@Failure		401		{object}	utils.Response					"Invalid API key"
//	@Failure		429		{object}	utils.Response					"Rate limit exceeded"
//	@Failure		500		{object}	utils.Response					"Internal server error"
//	@Router			/api/v1/deposits [post]
func (h *DepositHandler) CreateDeposit(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value(middleware.UserIDKey).(int)

	var req dto.CreateDepositRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	deposit, transaction, err := h.depositService.Create(r.Context(), userID, req.Amount, req.Description)
	if err != nil {
		if errors.Is(err, depositservice.ErrInvalidAmount) {
			utils.RespondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	utils.RespondWithJSON(w, http.StatusCreated, dto.CreateDepositResponseDTO{
		Success:       true,
		DepositID:     deposit.ID,
		TransactionID: transaction.ID,
		Amount:        deposit.Amount,
		Status:        deposit.Status,
		QRCode:        deposit.QRCode,
	})
}

// GetBalance godoc
//
//	@Summary		Get merchant balance
//	@Tags			Balance
//	@Security		ApiKeyAuth
//	@Produce		json
//	@Success		200	{object}	dto.BalanceResponseDTO	"Current available balance"
//	@Failure		401	{object}	utils.Response			"Invalid API key"
//	@Failure		500	{object}	utils.Response			"Internal server error"
//	@Router			/api/v1/balance [get]
func (h *DepositHandler) GetBalance(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value(middleware.UserIDKey).(int)

	balance, err := h.depositService.GetBalance(r.Context(), userID)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dto.BalanceResponseDTO{
		Success: true,
		Balance: balance,
	})
}

// GetTransactions godoc
//
//	@Summary		Get merchant statement
//	@Description	List the merchant's transactions, newest first.
//	@Tags			Balance
//	@Security		ApiKeyAuth
//	@Produce		json
//	@Success		200	{array}		dto.GetTransactionsResponseDTO	"Transaction statement"
//	@Failure		401	{object}	utils.Response					"Invalid API key"
//	@Failure		500	{object}	utils.Response					"Internal server error"
//	@Router			/api/v1/transactions [get]
func (h *DepositHandler) GetTransactions(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value(middleware.UserIDKey).(int)

	transactions, err := h.depositService.GetTransactions(r.Context(), userID)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch transactions")
		return
	}

	response := make([]dto.GetTransactionsResponseDTO, 0, len(transactions))
	for _, transaction := range transactions {
		response = append(response, dto.GetTransactionsResponseDTO{
			Code:        transaction.Code,
			Type:        transaction.Type,
			Amount:      transaction.Amount,
			Status:      transaction.Status,
			Description: transaction.Description,
			CreatedAt:   transaction.CreatedAt,
		})
	}
	utils.RespondWithJSON(w, http.StatusOK, response)
}
