package webhookservice

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/pixledger/pixpay/internal/domain"
	"github.com/pixledger/pixpay/internal/notify"
	"github.com/pixledger/pixpay/internal/pg"
	"github.com/pixledger/pixpay/pkg/fee"
	"github.com/pixledger/pixpay/pkg/validate"
)

// Provider tag recorded with every idempotency claim.
const provider = "pix"

type DepositRepo interface {
	GetByID(ctx context.Context, id int) (*domain.Deposit, error)
	Transition(ctx context.Context, id int, from, to string) (bool, error)
}

type CheckoutRepo interface {
	GetByID(ctx context.Context, id int) (*domain.Checkout, error)
}

type TransactionRepo interface {
	Create(ctx context.Context, transaction *domain.Transaction) (*domain.Transaction, error)
	TransitionByReference(ctx context.Context, refType string, refID int, from, to string) (int, error)
	SetAmountAndDescription(ctx context.Context, id int, transaction *domain.Transaction) error
}

type BalanceRepo interface {
	Credit(ctx context.Context, userID int, amount decimal.Decimal) error
}

type SettingsRepo interface {
	GetByUserID(ctx context.Context, userID int) (*domain.Settings, error)
}

type EventRepo interface {
	Claim(ctx context.Context, provider, externalRef string) (bool, error)
}

type Notifier interface {
	Dispatch(ctx context.Context, userID int, event string, payload any)
}

var (
	ErrDepositNotFound  = errors.New("deposit not found")
	ErrCheckoutNotFound = errors.New("checkout not found")
	ErrMissingAmount    = errors.New("checkout event carries no amount")

	// errAlreadyProcessed aborts the transaction body when another delivery
	// holds the claim; it never leaves the service.
	errAlreadyProcessed = errors.New("event already processed")
)

// Outcome tells the ingress handler how to acknowledge the provider.
type Outcome int

const (
	// OutcomeApplied: balance credited, state machines advanced.
	OutcomeApplied Outcome = iota
	// OutcomeDuplicate: another delivery already applied this event.
	OutcomeDuplicate
	// OutcomeAcknowledged: non-approved status, nothing to do.
	OutcomeAcknowledged
	// OutcomeIgnored: reference belongs to a different handler.
	OutcomeIgnored
)

type Result struct {
	Outcome       Outcome
	DepositID     int
	TransactionID int
	NetAmount     decimal.Decimal
}

type Service struct {
	depositRepo     DepositRepo
	checkoutRepo    CheckoutRepo
	transactionRepo TransactionRepo
	balanceRepo     BalanceRepo
	settingsRepo    SettingsRepo
	eventRepo       EventRepo
	notifier        Notifier
	txManager       pg.TXManager
	fees            domain.FeePolicy
}

func New(
	depositRepo DepositRepo,
	checkoutRepo CheckoutRepo,
	transactionRepo TransactionRepo,
	balanceRepo BalanceRepo,
	settingsRepo SettingsRepo,
	eventRepo EventRepo,
	notifier Notifier,
	txManager pg.TXManager,
	fees domain.FeePolicy,
) *Service {
	return &Service{
		depositRepo:     depositRepo,
		checkoutRepo:    checkoutRepo,
		transactionRepo: transactionRepo,
		balanceRepo:     balanceRepo,
		settingsRepo:    settingsRepo,
		eventRepo:       eventRepo,
		notifier:        notifier,
		txManager:       txManager,
		fees:            fees,
	}
}

// ProcessDepositEvent applies a normalized provider event to a deposit.
// The idempotency claim, both state transitions and the balance credit
// commit or roll back as one unit, so a failed attempt does not burn the
// event reference.
func (s *Service) ProcessDepositEvent(ctx context.Context, event domain.ProviderEvent) (*Result, error) {
	depositID, ok := parseDepositRef(event.Reference)
	if !ok {
		return &Result{Outcome: OutcomeIgnored}, nil
	}

	if !event.Approved() {
		return &Result{Outcome: OutcomeAcknowledged}, nil
	}

	deposit, err := s.depositRepo.GetByID(ctx, depositID)
	if err != nil {
		return nil, err
	}
	if deposit == nil {
		return nil, ErrDepositNotFound
	}
	if deposit.Status != domain.DepositStatusWaiting {
		return &Result{Outcome: OutcomeDuplicate, DepositID: deposit.ID}, nil
	}

	if event.HasAmount && !event.Amount.Equal(deposit.Amount) {
		zap.L().Warn("provider amount differs from deposit amount",
			zap.Int("depositID", deposit.ID),
			zap.String("provider", event.Amount.String()),
			zap.String("deposit", deposit.Amount.String()))
	}

	breakdown, err := s.depositFees(ctx, deposit)
	if err != nil {
		return nil, err
	}

	result := &Result{Outcome: OutcomeApplied, DepositID: deposit.ID, NetAmount: breakdown.Net}
	err = s.txManager.Begin(ctx, func(ctx context.Context) error {
		claimed, err := s.eventRepo.Claim(ctx, provider, event.Reference)
		if err != nil {
			return err
		}
		if !claimed {
			return errAlreadyProcessed
		}

		moved, err := s.depositRepo.Transition(ctx, deposit.ID, domain.DepositStatusWaiting, domain.DepositStatusCompleted)
		if err != nil {
			return err
		}
		if !moved {
			return errAlreadyProcessed
		}

		transactionID, err := s.transactionRepo.TransitionByReference(ctx,
			domain.TransactionTypeDeposit, deposit.ID,
			domain.TransactionStatusPending, domain.TransactionStatusApproved)
		if err != nil {
			return err
		}
		if transactionID == 0 {
			return fmt.Errorf("no pending transaction for deposit %d", deposit.ID)
		}
		result.TransactionID = transactionID

		err = s.transactionRepo.SetAmountAndDescription(ctx, transactionID, &domain.Transaction{
			Amount:      breakdown.Net,
			Description: auditText("PIX deposit", breakdown),
		})
		if err != nil {
			return err
		}

		return s.balanceRepo.Credit(ctx, deposit.UserID, breakdown.Net)
	})
	if err != nil {
		if errors.Is(err, errAlreadyProcessed) {
			return &Result{Outcome: OutcomeDuplicate, DepositID: deposit.ID}, nil
		}
		return nil, err
	}

	zap.L().Info("deposit credited",
		zap.Int("depositID", result.DepositID),
		zap.Int("transactionID", result.TransactionID),
		zap.String("net", result.NetAmount.String()))
	s.notifier.Dispatch(ctx, deposit.UserID, notify.EventDepositCompleted, map[string]any{
		"depositId":     result.DepositID,
		"transactionId": result.TransactionID,
		"netAmount":     result.NetAmount,
	})
	return result, nil
}

// ProcessCheckoutEvent applies a checkout sale. Unlike deposits there is no
// pending transaction to advance; an approved payment transaction is
// created together with the credit.
func (s *Service) ProcessCheckoutEvent(ctx context.Context, event domain.ProviderEvent) (*Result, error) {
	checkoutID, ok := parseCheckoutRef(event.Reference)
	if !ok {
		return &Result{Outcome: OutcomeIgnored}, nil
	}

	if !event.Approved() {
		return &Result{Outcome: OutcomeAcknowledged}, nil
	}
	if !event.HasAmount {
		return nil, ErrMissingAmount
	}

	checkout, err := s.checkoutRepo.GetByID(ctx, checkoutID)
	if err != nil {
		return nil, err
	}
	if checkout == nil {
		return nil, ErrCheckoutNotFound
	}

	settings, err := s.settingsRepo.GetByUserID(ctx, checkout.UserID)
	if err != nil {
		return nil, err
	}
	percent := s.fees.DepositPercent
	if settings != nil {
		percent = settings.DepositFeePercent
	}
	breakdown, err := fee.Calculate(event.Amount, percent, s.fees.Fixed)
	if err != nil {
		return nil, err
	}

	result := &Result{Outcome: OutcomeApplied, NetAmount: breakdown.Net}
	err = s.txManager.Begin(ctx, func(ctx context.Context) error {
		claimed, err := s.eventRepo.Claim(ctx, provider, event.Reference)
		if err != nil {
			return err
		}
		if !claimed {
			return errAlreadyProcessed
		}

		code, err := validate.NewTransactionCode()
		if err != nil {
			return err
		}
		transaction, err := s.transactionRepo.Create(ctx, &domain.Transaction{
			Code:          code,
			UserID:        checkout.UserID,
			Type:          domain.TransactionTypePayment,
			Amount:        breakdown.Net,
			Status:        domain.TransactionStatusApproved,
			Description:   auditText("Checkout sale", breakdown),
			ReferenceType: "checkout",
			ReferenceID:   checkout.ID,
		})
		if err != nil {
			return err
		}
		result.TransactionID = transaction.ID

		return s.balanceRepo.Credit(ctx, checkout.UserID, breakdown.Net)
	})
	if err != nil {
		if errors.Is(err, errAlreadyProcessed) {
			return &Result{Outcome: OutcomeDuplicate}, nil
		}
		return nil, err
	}

	zap.L().Info("checkout sale credited",
		zap.Int("checkoutID", checkout.ID),
		zap.Int("transactionID", result.TransactionID),
		zap.String("net", result.NetAmount.String()))
	s.notifier.Dispatch(ctx, checkout.UserID, notify.EventCheckoutPaid, map[string]any{
		"checkoutId":    checkout.ID,
		"transactionId": result.TransactionID,
		"netAmount":     result.NetAmount,
	})
	return result, nil
}

func (s *Service) depositFees(ctx context.Context, deposit *domain.Deposit) (fee.Breakdown, error) {
	settings, err := s.settingsRepo.GetByUserID(ctx, deposit.UserID)
	if err != nil {
		return fee.Breakdown{}, err
	}
	percent := s.fees.DepositPercent
	if settings != nil {
		percent = settings.DepositFeePercent
	}
	return fee.Calculate(deposit.Amount, percent, s.fees.Fixed)
}

func auditText(kind string, b fee.Breakdown) string {
	return fmt.Sprintf("%s: gross %s, percent fee %s, fixed fee %s, net %s",
		kind, b.Gross, b.PercentFee, b.FixedFee, b.Net)
}

func parseDepositRef(ref string) (int, bool) {
	rest, found := strings.CutPrefix(ref, "deposit_")
	if !found {
		return 0, false
	}
	id, err := strconv.Atoi(rest)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// parseCheckoutRef understands checkout_<checkoutId>_<timestamp>.
func parseCheckoutRef(ref string) (int, bool) {
	rest, found := strings.CutPrefix(ref, "checkout_")
	if !found {
		return 0, false
	}
	parts := strings.SplitN(rest, "_", 2)
	if len(parts) != 2 {
		return 0, false
	}
	id, err := strconv.Atoi(parts[0])
	if err != nil || id <= 0 {
		return 0, false
	}
	if _, err := strconv.ParseInt(parts[1], 10, 64); err != nil {
		return 0, false
	}
	return id, true
}
