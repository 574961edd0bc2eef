package reconciler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/pixledger/pixpay/internal/config"
	"github.com/pixledger/pixpay/internal/domain"
	"github.com/pixledger/pixpay/internal/notify"
	"github.com/pixledger/pixpay/internal/pg"
	"github.com/pixledger/pixpay/internal/service/webhookservice"
	"github.com/pixledger/pixpay/pkg/clients"
	"github.com/pixledger/pixpay/pkg/workerpool"
)

var processingDeposits sync.Map

// Response is the provider's charge status body.
type Response struct {
	Status string           `json:"status"`
	Amount *decimal.Decimal `json:"amount,omitempty"`
}

type DepositRepo interface {
	FindStaleWaiting(ctx context.Context, cutoff time.Time, limit int) ([]domain.Deposit, error)
	Transition(ctx context.Context, id int, from, to string) (bool, error)
}

type TransactionRepo interface {
	TransitionByReference(ctx context.Context, refType string, refID int, from, to string) (int, error)
}

type EventProcessor interface {
	ProcessDepositEvent(ctx context.Context, event domain.ProviderEvent) (*webhookservice.Result, error)
}

type Notifier interface {
	Dispatch(ctx context.Context, userID int, event string, payload any)
}

// Service sweeps deposits stuck in waiting. Charges the provider reports
// as paid go through the same processing path a webhook delivery takes,
// so the idempotency claim still decides who applies the credit. Charges
// past their TTL are expired.
type Service struct {
	url             string
	depositRepo     DepositRepo
	transactionRepo TransactionRepo
	events          EventProcessor
	notifier        Notifier
	txManager       pg.TXManager
	client          clients.HTTPClientI
	workerPool      workerpool.WorkerPoolI
	limit           int
	staleAfter      time.Duration
	depositTTL      time.Duration
	sweepInterval   time.Duration
}

func New(cfg *config.Config, depositRepo DepositRepo, transactionRepo TransactionRepo, events EventProcessor, notifier Notifier, txManager pg.TXManager, client clients.HTTPClientI) *Service {
	return &Service{
		url:             cfg.ProviderAddress,
		depositRepo:     depositRepo,
		transactionRepo: transactionRepo,
		events:          events,
		notifier:        notifier,
		txManager:       txManager,
		client:          client,
		workerPool:      workerpool.NewWorkerPool(10),
		limit:           1000,
		staleAfter:      time.Minute * 2,
		depositTTL:      cfg.DepositTTL,
		sweepInterval:   time.Minute,
	}
}

func (s *Service) Start(ctx context.Context) {
	zap.L().Info("Reconciler started")
	go s.run(ctx)
}

func (s *Service) run(ctx context.Context) {
	ticker := time.NewTicker(s.sweepInterval)
	defer ticker.Stop()
	defer s.workerPool.Close()

	for {
		select {
		case <-ctx.Done():
			zap.L().Info("Context canceled, stopping reconciler")
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

func (s *Service) sweep(ctx context.Context) {
	deposits, err := s.depositRepo.FindStaleWaiting(ctx, time.Now().Add(-s.staleAfter), s.limit)
	if err != nil {
		zap.L().Error("Failed to fetch stale deposits", zap.Error(err))
		return
	}

	var g errgroup.Group
	for _, deposit := range deposits {
		deposit := deposit

		if _, loaded := processingDeposits.LoadOrStore(deposit.ID, struct{}{}); loaded {
			continue
		}

		g.Go(func() error {
			err := s.workerPool.AddTask(ctx, func() error {
				defer processingDeposits.Delete(deposit.ID)
				return s.reconcile(ctx, deposit)
			})
			if err != nil {
				processingDeposits.Delete(deposit.ID)
				return err
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		zap.L().Error("Error reconciling deposits", zap.Error(err))
	}
}

// reconcile checks one charge with the provider and either applies the
// payment or expires the deposit.
func (s *Service) reconcile(ctx context.Context, deposit domain.Deposit) error {
	reference := fmt.Sprintf("deposit_%d", deposit.ID)
	url := s.url + "/v1/charges/" + reference

	statusCode, respBody, _, err := s.client.Get(url, nil)
	if err != nil {
		return fmt.Errorf("failed to query charge %s: %w", reference, err)
	}

	switch statusCode {
	case http.StatusOK:
		var response Response
		if err := json.Unmarshal(respBody, &response); err != nil {
			return fmt.Errorf("failed to parse charge %s: %w", reference, err)
		}

		event := domain.ProviderEvent{Status: response.Status, Reference: reference}
		if response.Amount != nil {
			event.Amount = *response.Amount
			event.HasAmount = true
		}
		if event.Approved() {
			result, err := s.events.ProcessDepositEvent(ctx, event)
			if err != nil {
				return fmt.Errorf("failed to apply reconciled charge %s: %w", reference, err)
			}
			if result.Outcome == webhookservice.OutcomeApplied {
				zap.L().Info("Reconciled missed payment",
					zap.Int("depositID", deposit.ID),
					zap.String("netAmount", result.NetAmount.String()))
			}
			return nil
		}
	case http.StatusNotFound, http.StatusNoContent:
		zap.L().Warn("Charge unknown to provider", zap.String("reference", reference))
	default:
		return fmt.Errorf("unexpected status %d for charge %s", statusCode, reference)
	}

	if time.Since(deposit.CreatedAt) > s.depositTTL {
		return s.expire(ctx, deposit)
	}
	return nil
}

// expire moves an unpaid charge past its TTL to the terminal expired
// state, cancelling the pending transaction with it. The status guard
// makes a concurrent webhook win over expiry, never the other way around.
func (s *Service) expire(ctx context.Context, deposit domain.Deposit) error {
	var expired bool
	err := s.txManager.Begin(ctx, func(ctx context.Context) error {
		moved, err := s.depositRepo.Transition(ctx, deposit.ID,
			domain.DepositStatusWaiting, domain.DepositStatusExpired)
		if err != nil {
			return err
		}
		if !moved {
			return nil
		}

		_, err = s.transactionRepo.TransitionByReference(ctx,
			domain.TransactionTypeDeposit, deposit.ID,
			domain.TransactionStatusPending, domain.TransactionStatusCancelled)
		if err != nil {
			return err
		}

		expired = true
		zap.L().Info("Deposit expired", zap.Int("depositID", deposit.ID))
		return nil
	})
	if err != nil {
		return err
	}

	if expired {
		s.notifier.Dispatch(ctx, deposit.UserID, notify.EventDepositExpired, map[string]any{
			"depositId": deposit.ID,
			"amount":    deposit.Amount,
		})
	}
	return nil
}
