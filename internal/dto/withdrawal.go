package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

type CreateWithdrawalRequestDTO struct {
	Amount     decimal.Decimal `json:"amount"`
	PixKeyType string          `json:"pix_key_type" validate:"required,oneof=email phone document random"`
	PixKey     string          `json:"pix_key"      validate:"required,max=140"`
}

type CreateWithdrawalResponseDTO struct {
	Success       bool            `json:"success"`
	WithdrawalID  int             `json:"withdrawal_id"`
	TransactionID int             `json:"transaction_id"`
	Amount        decimal.Decimal `json:"amount"`
	Status        string          `json:"status"`
}

type WithdrawalDecisionRequestDTO struct {
	WithdrawalID int `json:"withdrawalId" validate:"required,gt=0"`
}

type WithdrawalDecisionResponseDTO struct {
	Success      bool `json:"success"`
	WithdrawalID int  `json:"withdrawal_id"`
}

type GetWithdrawalsResponseDTO struct {
	WithdrawalID int             `json:"withdrawal_id"`
	Amount       decimal.Decimal `json:"amount"`
	PixKeyType   string          `json:"pix_key_type"`
	PixKey       string          `json:"pix_key"`
	Status       string          `json:"status"`
	RequestDate  time.Time       `json:"request_date"`
}
