package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/pixledger/pixpay/internal/domain"
	"github.com/pixledger/pixpay/pkg/clients"
	"github.com/pixledger/pixpay/pkg/signature"
	"github.com/pixledger/pixpay/pkg/workerpool"
)

const maxRetries = 3

var retryInterval = time.Second * 1

const (
	EventDepositCompleted   = "deposit.completed"
	EventDepositExpired     = "deposit.expired"
	EventCheckoutPaid       = "checkout.paid"
	EventWithdrawalApproved = "withdrawal.approved"
	EventWithdrawalRejected = "withdrawal.rejected"
)

type RegistrationRepo interface {
	GetByUserID(ctx context.Context, userID int) (*domain.WebhookRegistration, error)
}

type message struct {
	Event     string `json:"event"`
	Data      any    `json:"data"`
	Timestamp int64  `json:"timestamp"`
}

// Dispatcher delivers platform events to merchant-registered callback
// URLs. Delivery is best effort off the request path; a merchant outage
// never fails the operation that produced the event.
type Dispatcher struct {
	registrationRepo RegistrationRepo
	client           clients.HTTPClientI
	workerPool       workerpool.WorkerPoolI
}

func New(registrationRepo RegistrationRepo, client clients.HTTPClientI) *Dispatcher {
	return &Dispatcher{
		registrationRepo: registrationRepo,
		client:           client,
		workerPool:       workerpool.NewWorkerPool(10),
	}
}

// Dispatch queues one notification for the merchant. Merchants without a
// registered URL are skipped silently.
func (d *Dispatcher) Dispatch(ctx context.Context, userID int, event string, payload any) {
	registration, err := d.registrationRepo.GetByUserID(ctx, userID)
	if err != nil {
		zap.L().Error("failed to look up webhook registration",
			zap.Int("userID", userID), zap.Error(err))
		return
	}
	if registration == nil {
		return
	}

	body, err := json.Marshal(message{
		Event:     event,
		Data:      payload,
		Timestamp: time.Now().Unix(),
	})
	if err != nil {
		zap.L().Error("failed to encode notification", zap.String("event", event), zap.Error(err))
		return
	}

	if err := d.workerPool.AddTask(ctx, func() error {
		return d.deliver(registration.URL, registration.Secret, event, body)
	}); err != nil {
		zap.L().Warn("notification dropped", zap.String("event", event), zap.Error(err))
	}
}

// deliver posts the signed body, retrying transient failures. The merchant
// validates the same HMAC scheme the platform requires inbound.
func (d *Dispatcher) deliver(url, secret, event string, body []byte) error {
	headers := http.Header{}
	headers.Set("Content-Type", "application/json")
	headers.Set("x-signature", signature.Sign(body, secret))

	var statusCode int
	var err error
	for attempt := 1; attempt <= maxRetries; attempt++ {
		statusCode, _, err = d.client.Post(url, headers, body)
		if err == nil && statusCode < http.StatusInternalServerError {
			break
		}
		if attempt < maxRetries {
			time.Sleep(retryInterval * time.Duration(attempt))
		}
	}
	if err != nil {
		return fmt.Errorf("failed to deliver %s to %s after %d retries: %w", event, url, maxRetries, err)
	}
	if statusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("merchant endpoint %s answered %d for %s", url, statusCode, event)
	}

	zap.L().Info("notification delivered", zap.String("event", event), zap.String("url", url))
	return nil
}

func (d *Dispatcher) Close() {
	d.workerPool.Close()
}
