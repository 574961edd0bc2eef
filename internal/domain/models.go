package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	DepositStatusWaiting   = "waiting"
	DepositStatusCompleted = "completed"
	DepositStatusExpired   = "expired"

	TransactionStatusPending   = "pending"
	TransactionStatusApproved  = "approved"
	TransactionStatusCancelled = "cancelled"
	TransactionStatusRefunded  = "refunded"

	TransactionTypeDeposit    = "deposit"
	TransactionTypeWithdrawal = "withdrawal"
	TransactionTypePayment    = "payment"
	TransactionTypeRefund     = "refund"

	WithdrawalStatusRequested = "requested"
	WithdrawalStatusApproved  = "approved"
	WithdrawalStatusRejected  = "rejected"

	APIKeyStatusActive  = "active"
	APIKeyStatusRevoked = "revoked"
)

const (
	PixKeyTypeEmail    = "email"
	PixKeyTypePhone    = "phone"
	PixKeyTypeDocument = "document"
	PixKeyTypeRandom   = "random"
)

type Deposit struct {
	ID        int             `db:"id"`
	UserID    int             `db:"user_id"`
	Amount    decimal.Decimal `db:"amount"`
	Status    string          `db:"status"`
	QRCode    string          `db:"qr_code"`
	CreatedAt time.Time       `db:"created_at"`
}

type Transaction struct {
	ID            int             `db:"id"`
	Code          string          `db:"code"`
	UserID        int             `db:"user_id"`
	Type          string          `db:"type"`
	Amount        decimal.Decimal `db:"amount"`
	Status        string          `db:"status"`
	Description   string          `db:"description"`
	ReferenceType string          `db:"reference_type"`
	ReferenceID   int             `db:"reference_id"`
	CreatedAt     time.Time       `db:"created_at"`
	UpdatedAt     time.Time       `db:"updated_at"`
}

type Withdrawal struct {
	ID          int             `db:"id"`
	UserID      int             `db:"user_id"`
	Amount      decimal.Decimal `db:"amount"`
	PixKeyType  string          `db:"pix_key_type"`
	PixKey      string          `db:"pix_key"`
	Status      string          `db:"status"`
	RequestDate time.Time       `db:"request_date"`
}

type Balance struct {
	ID     int             `db:"id"`
	UserID int             `db:"user_id"`
	Amount decimal.Decimal `db:"amount"`
}

type Settings struct {
	UserID               int             `db:"user_id"`
	DepositFeePercent    decimal.Decimal `db:"deposit_fee_percent"`
	WithdrawalFeePercent decimal.Decimal `db:"withdrawal_fee_percent"`
}

type APIKey struct {
	ID         int        `db:"id"`
	UserID     int        `db:"user_id"`
	KeyPrefix  string     `db:"key_prefix"`
	KeyHash    string     `db:"key_hash"`
	Status     string     `db:"status"`
	LastUsedAt *time.Time `db:"last_used_at"`
	CreatedAt  time.Time  `db:"created_at"`
}

// Checkout is a hosted payment page owned by a merchant. Sales against it
// arrive as checkout_<id>_<timestamp> webhook references.
type Checkout struct {
	ID          int       `db:"id"`
	UserID      int       `db:"user_id"`
	Description string    `db:"description"`
	CreatedAt   time.Time `db:"created_at"`
}

// WebhookEvent is the durable idempotency claim for a provider callback.
// A row existing for (provider, external_ref) means the event has already
// been applied, or is being applied by a concurrent request.
type WebhookEvent struct {
	ID          int       `db:"id"`
	Provider    string    `db:"provider"`
	ExternalRef string    `db:"external_ref"`
	ReceivedAt  time.Time `db:"received_at"`
}

// WebhookRegistration is a merchant-registered callback URL for outbound
// notifications.
type WebhookRegistration struct {
	ID        int       `db:"id"`
	UserID    int       `db:"user_id"`
	URL       string    `db:"url"`
	Secret    string    `db:"secret"`
	CreatedAt time.Time `db:"created_at"`
}

// FeePolicy holds the platform-wide fee defaults; per-merchant Settings
// override the percentages.
type FeePolicy struct {
	DepositPercent    decimal.Decimal
	WithdrawalPercent decimal.Decimal
	Fixed             decimal.Decimal
}

// ProviderEvent is the normalized form of a provider webhook payload. All
// code past the ingress boundary consumes only this shape.
type ProviderEvent struct {
	Status    string
	Reference string
	Amount    decimal.Decimal
	HasAmount bool
}

// Approved reports whether the provider status means the charge settled.
// The provider is not consistent about the value it sends.
func (e ProviderEvent) Approved() bool {
	switch e.Status {
	case "approved", "Compra Aprovada", "paid":
		return true
	}
	return false
}
