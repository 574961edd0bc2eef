package dto

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/pixledger/pixpay/internal/domain"
)

// FieldError names the payload field that failed schema validation.
type FieldError struct {
	Field  string
	Reason string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("invalid field %q: %s", e.Field, e.Reason)
}

// WebhookPayload mirrors the provider's loosely-typed callback body. The
// same information arrives either top-level or nested under data, and the
// reference field name varies between externalRef and externalId.
type WebhookPayload struct {
	Status      string              `json:"status"`
	ExternalRef string              `json:"externalRef"`
	ExternalID  string              `json:"externalId"`
	Amount      *decimal.Decimal    `json:"amount"`
	Data        *WebhookPayloadData `json:"data"`
}

type WebhookPayloadData struct {
	Status      string           `json:"status"`
	ExternalRef string           `json:"externalRef"`
	ExternalID  string           `json:"externalId"`
	Amount      *decimal.Decimal `json:"amount"`
}

// Normalize collapses the payload variants into a single ProviderEvent.
// Everything downstream of the ingress consumes only the normalized form.
func (p *WebhookPayload) Normalize() (domain.ProviderEvent, error) {
	status := p.Status
	if status == "" && p.Data != nil {
		status = p.Data.Status
	}
	if status == "" {
		return domain.ProviderEvent{}, &FieldError{Field: "status", Reason: "missing"}
	}

	ref := p.ExternalRef
	if ref == "" && p.Data != nil {
		ref = p.Data.ExternalRef
	}
	if ref == "" {
		ref = p.ExternalID
	}
	if ref == "" && p.Data != nil {
		ref = p.Data.ExternalID
	}
	if ref == "" {
		return domain.ProviderEvent{}, &FieldError{Field: "externalRef", Reason: "missing"}
	}

	amount := p.Amount
	if amount == nil && p.Data != nil {
		amount = p.Data.Amount
	}

	event := domain.ProviderEvent{
		Status:    status,
		Reference: ref,
	}
	if amount != nil {
		if !amount.IsPositive() {
			return domain.ProviderEvent{}, &FieldError{Field: "amount", Reason: "must be a positive number"}
		}
		event.Amount = *amount
		event.HasAmount = true
	}

	return event, nil
}

type WebhookSuccessResponse struct {
	Success       bool            `json:"success"`
	DepositID     int             `json:"depositId"`
	TransactionID int             `json:"transactionId"`
	NetAmount     decimal.Decimal `json:"netAmount"`
}
