package reconciler

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	gomock "go.uber.org/mock/gomock"

	"github.com/pixledger/pixpay/internal/config"
	"github.com/pixledger/pixpay/internal/domain"
	"github.com/pixledger/pixpay/internal/pg"
	"github.com/pixledger/pixpay/internal/service/webhookservice"
	"github.com/pixledger/pixpay/pkg/clients"
	"github.com/pixledger/pixpay/pkg/workerpool"
)

type syncPool struct{}

func (syncPool) AddTask(_ context.Context, task workerpool.Task) error { return task() }
func (syncPool) Close()                                                {}

type mocks struct {
	deposits     *MockDepositRepo
	transactions *MockTransactionRepo
	events       *MockEventProcessor
	notifier     *MockNotifier
	txManager    *pg.MockTXManager
	client       *clients.MockHTTPClientI
}

func NewMock(t *testing.T) (*Service, *mocks) {
	ctrl := gomock.NewController(t)
	m := &mocks{
		deposits:     NewMockDepositRepo(ctrl),
		transactions: NewMockTransactionRepo(ctrl),
		events:       NewMockEventProcessor(ctrl),
		notifier:     NewMockNotifier(ctrl),
		txManager:    pg.NewMockTXManager(ctrl),
		client:       clients.NewMockHTTPClientI(ctrl),
	}
	m.notifier.EXPECT().Dispatch(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).AnyTimes()
	cfg := &config.Config{ProviderAddress: "http://provider", DepositTTL: time.Minute * 30}
	service := New(cfg, m.deposits, m.transactions, m.events, m.notifier, m.txManager, m.client)
	service.workerPool.Close()
	service.workerPool = syncPool{}
	return service, m
}

func inTx(m *mocks) {
	m.txManager.EXPECT().
		Begin(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, fn func(context.Context) error) error {
			return fn(ctx)
		})
}

func staleDeposit(age time.Duration) domain.Deposit {
	return domain.Deposit{
		ID:        42,
		UserID:    1,
		Amount:    decimal.NewFromInt(1000),
		Status:    domain.DepositStatusWaiting,
		CreatedAt: time.Now().Add(-age),
	}
}

func TestReconcile(t *testing.T) {
	amount := decimal.NewFromInt(1000)

	t.Run("paid charge goes through the webhook path", func(t *testing.T) {
		service, m := NewMock(t)
		m.client.EXPECT().Get("http://provider/v1/charges/deposit_42", nil).
			Return(200, []byte(`{"status":"paid","amount":1000}`), nil, nil)
		m.events.EXPECT().ProcessDepositEvent(gomock.Any(), domain.ProviderEvent{
			Status:    "paid",
			Reference: "deposit_42",
			Amount:    amount,
			HasAmount: true,
		}).Return(&webhookservice.Result{Outcome: webhookservice.OutcomeApplied, DepositID: 42}, nil)

		assert.NoError(t, service.reconcile(context.Background(), staleDeposit(time.Minute*5)))
	})

	t.Run("still pending within ttl stays waiting", func(t *testing.T) {
		service, m := NewMock(t)
		m.client.EXPECT().Get("http://provider/v1/charges/deposit_42", nil).
			Return(200, []byte(`{"status":"pending"}`), nil, nil)

		assert.NoError(t, service.reconcile(context.Background(), staleDeposit(time.Minute*5)))
	})

	t.Run("unpaid charge past ttl is expired", func(t *testing.T) {
		service, m := NewMock(t)
		m.client.EXPECT().Get("http://provider/v1/charges/deposit_42", nil).
			Return(200, []byte(`{"status":"pending"}`), nil, nil)
		inTx(m)
		m.deposits.EXPECT().
			Transition(gomock.Any(), 42, domain.DepositStatusWaiting, domain.DepositStatusExpired).
			Return(true, nil)
		m.transactions.EXPECT().
			TransitionByReference(gomock.Any(), domain.TransactionTypeDeposit, 42,
				domain.TransactionStatusPending, domain.TransactionStatusCancelled).
			Return(99, nil)

		assert.NoError(t, service.reconcile(context.Background(), staleDeposit(time.Hour)))
	})

	t.Run("expiry loses the race against a concurrent webhook", func(t *testing.T) {
		service, m := NewMock(t)
		m.client.EXPECT().Get("http://provider/v1/charges/deposit_42", nil).
			Return(404, nil, nil, nil)
		inTx(m)
		m.deposits.EXPECT().
			Transition(gomock.Any(), 42, domain.DepositStatusWaiting, domain.DepositStatusExpired).
			Return(false, nil)

		assert.NoError(t, service.reconcile(context.Background(), staleDeposit(time.Hour)))
	})

	t.Run("provider failure surfaces as an error", func(t *testing.T) {
		service, m := NewMock(t)
		m.client.EXPECT().Get("http://provider/v1/charges/deposit_42", nil).
			Return(0, nil, nil, assert.AnError)

		assert.Error(t, service.reconcile(context.Background(), staleDeposit(time.Hour)))
	})
}

func TestSweep(t *testing.T) {
	service, m := NewMock(t)
	deposit := staleDeposit(time.Minute * 5)
	m.deposits.EXPECT().FindStaleWaiting(gomock.Any(), gomock.Any(), 1000).
		Return([]domain.Deposit{deposit}, nil)
	m.client.EXPECT().Get("http://provider/v1/charges/deposit_42", nil).
		Return(200, []byte(`{"status":"paid","amount":1000}`), nil, nil)
	m.events.EXPECT().ProcessDepositEvent(gomock.Any(), gomock.Any()).
		Return(&webhookservice.Result{Outcome: webhookservice.OutcomeApplied, DepositID: 42}, nil)

	service.sweep(context.Background())
}

type closablePool struct {
	syncPool
	closed chan struct{}
}

func (p *closablePool) Close() { close(p.closed) }

func TestRunClosesWorkerPool(t *testing.T) {
	service, _ := NewMock(t)
	pool := &closablePool{closed: make(chan struct{})}
	service.workerPool = pool

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	service.Start(ctx)

	select {
	case <-pool.closed:
	case <-time.After(time.Second):
		t.Fatal("worker pool was not closed on shutdown")
	}
}
