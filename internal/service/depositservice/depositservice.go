package depositservice

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/skip2/go-qrcode"
	"go.uber.org/zap"

	"github.com/pixledger/pixpay/internal/domain"
	"github.com/pixledger/pixpay/internal/pg"
	"github.com/pixledger/pixpay/pkg/validate"
)

type DepositRepo interface {
	Create(ctx context.Context, deposit *domain.Deposit) (*domain.Deposit, error)
	SetQRCode(ctx context.Context, id int, qrCode string) error
}

type TransactionRepo interface {
	Create(ctx context.Context, transaction *domain.Transaction) (*domain.Transaction, error)
	GetByUserID(ctx context.Context, userID int) ([]domain.Transaction, error)
}

type BalanceRepo interface {
	GetUserBalance(ctx context.Context, userID int) (*domain.Balance, error)
}

var ErrInvalidAmount = errors.New("deposit amount must be positive")

const qrImageSize = 256

type Service struct {
	depositRepo     DepositRepo
	transactionRepo TransactionRepo
	balanceRepo     BalanceRepo
	txManager       pg.TXManager
}

func New(
	depositRepo DepositRepo,
	transactionRepo TransactionRepo,
	balanceRepo BalanceRepo,
	txManager pg.TXManager,
) *Service {
	return &Service{
		depositRepo:     depositRepo,
		transactionRepo: transactionRepo,
		balanceRepo:     balanceRepo,
		txManager:       txManager,
	}
}

// Create records a waiting deposit with its pending transaction and a QR
// image for the PIX charge. The balance is only credited later, when the
// provider callback confirms the payment.
func (s *Service) Create(ctx context.Context, userID int, amount decimal.Decimal, description string) (*domain.Deposit, *domain.Transaction, error) {
	if !amount.IsPositive() {
		return nil, nil, ErrInvalidAmount
	}

	var deposit *domain.Deposit
	var transaction *domain.Transaction
	err := s.txManager.Begin(ctx, func(ctx context.Context) error {
		var err error
		deposit, err = s.depositRepo.Create(ctx, &domain.Deposit{
			UserID: userID,
			Amount: amount,
			Status: domain.DepositStatusWaiting,
		})
		if err != nil {
			return err
		}

		code, err := validate.NewTransactionCode()
		if err != nil {
			return err
		}
		if description == "" {
			description = fmt.Sprintf("PIX deposit deposit_%d", deposit.ID)
		}
		transaction, err = s.transactionRepo.Create(ctx, &domain.Transaction{
			Code:          code,
			UserID:        userID,
			Type:          domain.TransactionTypeDeposit,
			Amount:        amount,
			Status:        domain.TransactionStatusPending,
			Description:   description,
			ReferenceType: domain.TransactionTypeDeposit,
			ReferenceID:   deposit.ID,
		})
		if err != nil {
			return err
		}

		qrImage, err := renderQRCode(deposit.ID, amount)
		if err != nil {
			return err
		}
		if err := s.depositRepo.SetQRCode(ctx, deposit.ID, qrImage); err != nil {
			return err
		}
		deposit.QRCode = qrImage
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	zap.L().Info("deposit created",
		zap.Int("depositID", deposit.ID),
		zap.String("amount", amount.String()))
	return deposit, transaction, nil
}

func (s *Service) GetBalance(ctx context.Context, userID int) (decimal.Decimal, error) {
	balance, err := s.balanceRepo.GetUserBalance(ctx, userID)
	if err != nil {
		return decimal.Zero, err
	}
	if balance == nil {
		return decimal.Zero, nil
	}
	return balance.Amount, nil
}

func (s *Service) GetTransactions(ctx context.Context, userID int) ([]domain.Transaction, error) {
	transactions, err := s.transactionRepo.GetByUserID(ctx, userID)
	if err != nil {
		zap.L().Error("failed to fetch transactions", zap.Error(err))
		return nil, err
	}
	return transactions, nil
}

// renderQRCode encodes the PIX copy-paste payload for a deposit into a
// base64 PNG suitable for inlining in a JSON response.
func renderQRCode(depositID int, amount decimal.Decimal) (string, error) {
	payload := fmt.Sprintf("pixpay://charge/deposit_%d?amount=%s", depositID, amount.StringFixed(2))
	png, err := qrcode.Encode(payload, qrcode.Medium, qrImageSize)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(png), nil
}
