package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

type CreateDepositRequestDTO struct {
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description" validate:"max=255"`
}

type CreateDepositResponseDTO struct {
	Success       bool            `json:"success"`
	DepositID     int             `json:"deposit_id"`
	TransactionID int             `json:"transaction_id"`
	Amount        decimal.Decimal `json:"amount"`
	Status        string          `json:"status"`
	QRCode        string          `json:"qr_code"`
}

type GetTransactionsResponseDTO struct {
	Code        string          `json:"code"`
	Type        string          `json:"type"`
	Amount      decimal.Decimal `json:"amount"`
	Status      string          `json:"status"`
	Description string          `json:"description"`
	CreatedAt   time.Time       `json:"created_at"`
}

type BalanceResponseDTO struct {
	Success bool            `json:"success"`
	Balance decimal.Decimal `json:"balance"`
}
