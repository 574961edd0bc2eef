package withdrawalservice

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/pixledger/pixpay/internal/domain"
	"github.com/pixledger/pixpay/internal/notify"
	"github.com/pixledger/pixpay/internal/pg"
	"github.com/pixledger/pixpay/pkg/fee"
	"github.com/pixledger/pixpay/pkg/validate"
)

type WithdrawalRepo interface {
	Create(ctx context.Context, withdrawal *domain.Withdrawal) (*domain.Withdrawal, error)
	GetByID(ctx context.Context, id int) (*domain.Withdrawal, error)
	Transition(ctx context.Context, id int, from, to string) (bool, error)
	GetByUserID(ctx context.Context, userID int) ([]domain.Withdrawal, error)
}

type TransactionRepo interface {
	Create(ctx context.Context, transaction *domain.Transaction) (*domain.Transaction, error)
	TransitionByReference(ctx context.Context, refType string, refID int, from, to string) (int, error)
}

type BalanceRepo interface {
	GetUserBalance(ctx context.Context, userID int) (*domain.Balance, error)
	Debit(ctx context.Context, userID int, amount decimal.Decimal) (bool, error)
}

type SettingsRepo interface {
	GetByUserID(ctx context.Context, userID int) (*domain.Settings, error)
}

type Notifier interface {
	Dispatch(ctx context.Context, userID int, event string, payload any)
}

var (
	ErrInvalidAmount       = errors.New("withdrawal amount must be positive")
	ErrInvalidPixKey       = errors.New("invalid pix key")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrWithdrawalNotFound  = errors.New("withdrawal not found")
	// ErrWithdrawalDecided: the withdrawal already reached a terminal state.
	// Callers get a conflict, never a silent no-op, so races are visible.
	ErrWithdrawalDecided = errors.New("withdrawal already decided")
)

type Service struct {
	withdrawalRepo  WithdrawalRepo
	transactionRepo TransactionRepo
	balanceRepo     BalanceRepo
	settingsRepo    SettingsRepo
	notifier        Notifier
	txManager       pg.TXManager
	fees            domain.FeePolicy
}

func New(
	withdrawalRepo WithdrawalRepo,
	transactionRepo TransactionRepo,
	balanceRepo BalanceRepo,
	settingsRepo SettingsRepo,
	notifier Notifier,
	txManager pg.TXManager,
	fees domain.FeePolicy,
) *Service {
	return &Service{
		withdrawalRepo:  withdrawalRepo,
		transactionRepo: transactionRepo,
		balanceRepo:     balanceRepo,
		settingsRepo:    settingsRepo,
		notifier:        notifier,
		txManager:       txManager,
		fees:            fees,
	}
}

// Request records a withdrawal in requested state with its pending
// transaction. No balance is touched until approval.
func (s *Service) Request(ctx context.Context, userID int, amount decimal.Decimal, pixKeyType, pixKey string) (*domain.Withdrawal, *domain.Transaction, error) {
	if !amount.IsPositive() {
		return nil, nil, ErrInvalidAmount
	}
	if err := validate.PixKey(pixKeyType, pixKey); err != nil {
		return nil, nil, fmt.Errorf("%w: %s", ErrInvalidPixKey, err)
	}

	balance, err := s.balanceRepo.GetUserBalance(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	if balance == nil || balance.Amount.LessThan(amount) {
		return nil, nil, ErrInsufficientBalance
	}

	settings, err := s.settingsRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	percent := s.fees.WithdrawalPercent
	if settings != nil {
		percent = settings.WithdrawalFeePercent
	}
	breakdown, err := fee.Calculate(amount, percent, decimal.Zero)
	if err != nil {
		return nil, nil, err
	}

	var withdrawal *domain.Withdrawal
	var transaction *domain.Transaction
	err = s.txManager.Begin(ctx, func(ctx context.Context) error {
		withdrawal, err = s.withdrawalRepo.Create(ctx, &domain.Withdrawal{
			UserID:     userID,
			Amount:     amount,
			PixKeyType: pixKeyType,
			PixKey:     pixKey,
			Status:     domain.WithdrawalStatusRequested,
		})
		if err != nil {
			return err
		}

		code, err := validate.NewTransactionCode()
		if err != nil {
			return err
		}
		transaction, err = s.transactionRepo.Create(ctx, &domain.Transaction{
			Code:   code,
			UserID: userID,
			Type:   domain.TransactionTypeWithdrawal,
			Amount: amount,
			Status: domain.TransactionStatusPending,
			Description: fmt.Sprintf("PIX withdrawal to %s key: gross %s, percent fee %s, payout %s",
				pixKeyType, breakdown.Gross, breakdown.PercentFee, breakdown.Net),
			ReferenceType: domain.TransactionTypeWithdrawal,
			ReferenceID:   withdrawal.ID,
		})
		return err
	})
	if err != nil {
		return nil, nil, err
	}

	return withdrawal, transaction, nil
}

// Approve debits the balance and advances both state machines in one DB
// transaction. The status guard on the withdrawal update decides races:
// the loser of two concurrent approvals gets ErrWithdrawalDecided and no
// second debit happens.
func (s *Service) Approve(ctx context.Context, withdrawalID int) (*domain.Withdrawal, error) {
	withdrawal, err := s.withdrawalRepo.GetByID(ctx, withdrawalID)
	if err != nil {
		return nil, err
	}
	if withdrawal == nil {
		return nil, ErrWithdrawalNotFound
	}
	if withdrawal.Status != domain.WithdrawalStatusRequested {
		return nil, ErrWithdrawalDecided
	}

	err = s.txManager.Begin(ctx, func(ctx context.Context) error {
		moved, err := s.withdrawalRepo.Transition(ctx, withdrawal.ID,
			domain.WithdrawalStatusRequested, domain.WithdrawalStatusApproved)
		if err != nil {
			return err
		}
		if !moved {
			return ErrWithdrawalDecided
		}

		debited, err := s.balanceRepo.Debit(ctx, withdrawal.UserID, withdrawal.Amount)
		if err != nil {
			return err
		}
		if !debited {
			return ErrInsufficientBalance
		}

		transactionID, err := s.transactionRepo.TransitionByReference(ctx,
			domain.TransactionTypeWithdrawal, withdrawal.ID,
			domain.TransactionStatusPending, domain.TransactionStatusApproved)
		if err != nil {
			return err
		}
		if transactionID == 0 {
			return fmt.Errorf("no pending transaction for withdrawal %d", withdrawal.ID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	withdrawal.Status = domain.WithdrawalStatusApproved
	zap.L().Info("withdrawal approved",
		zap.Int("withdrawalID", withdrawal.ID),
		zap.String("amount", withdrawal.Amount.String()))
	s.notifier.Dispatch(ctx, withdrawal.UserID, notify.EventWithdrawalApproved, map[string]any{
		"withdrawalId": withdrawal.ID,
		"amount":       withdrawal.Amount,
	})
	return withdrawal, nil
}

// Reject moves the withdrawal to its terminal rejected state and cancels
// the pending transaction. The balance is never touched.
func (s *Service) Reject(ctx context.Context, withdrawalID int) (*domain.Withdrawal, error) {
	withdrawal, err := s.withdrawalRepo.GetByID(ctx, withdrawalID)
	if err != nil {
		return nil, err
	}
	if withdrawal == nil {
		return nil, ErrWithdrawalNotFound
	}
	if withdrawal.Status != domain.WithdrawalStatusRequested {
		return nil, ErrWithdrawalDecided
	}

	err = s.txManager.Begin(ctx, func(ctx context.Context) error {
		moved, err := s.withdrawalRepo.Transition(ctx, withdrawal.ID,
			domain.WithdrawalStatusRequested, domain.WithdrawalStatusRejected)
		if err != nil {
			return err
		}
		if !moved {
			return ErrWithdrawalDecided
		}

		_, err = s.transactionRepo.TransitionByReference(ctx,
			domain.TransactionTypeWithdrawal, withdrawal.ID,
			domain.TransactionStatusPending, domain.TransactionStatusCancelled)
		return err
	})
	if err != nil {
		return nil, err
	}

	withdrawal.Status = domain.WithdrawalStatusRejected
	s.notifier.Dispatch(ctx, withdrawal.UserID, notify.EventWithdrawalRejected, map[string]any{
		"withdrawalId": withdrawal.ID,
		"amount":       withdrawal.Amount,
	})
	return withdrawal, nil
}

func (s *Service) GetWithdrawals(ctx context.Context, userID int) ([]domain.Withdrawal, error) {
	withdrawals, err := s.withdrawalRepo.GetByUserID(ctx, userID)
	if err != nil {
		zap.L().Error("failed to fetch withdrawals", zap.Error(err))
		return nil, err
	}
	return withdrawals, nil
}
