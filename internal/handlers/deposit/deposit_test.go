package deposit

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	gomock "go.uber.org/mock/gomock"

	"github.com/pixledger/pixpay/internal/domain"
	"github.com/pixledger/pixpay/internal/middleware"
	"github.com/pixledger/pixpay/internal/service/depositservice"
)

func newRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, bytes.NewBufferString(body))
	ctx := context.WithValue(req.Context(), middleware.UserIDKey, 1)
	return req.WithContext(ctx)
}

func TestCreateDeposit(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		prepareMock    func(m *MockService)
		expectedStatus int
	}{
		{
			name:           "malformed body",
			body:           `{not json`,
			prepareMock:    func(m *MockService) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "non-positive amount",
			body: `{"amount":0}`,
			prepareMock: func(m *MockService) {
				m.EXPECT().Create(gomock.Any(), 1, gomock.Any(), "").
					Return(nil, nil, depositservice.ErrInvalidAmount)
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "deposit created",
			body: `{"amount":1000,"description":"order 5512"}`,
			prepareMock: func(m *MockService) {
				m.EXPECT().Create(gomock.Any(), 1, gomock.Any(), "order 5512").
					Return(
						&domain.Deposit{ID: 42, Amount: decimal.NewFromInt(1000), Status: domain.DepositStatusWaiting, QRCode: "aW1hZ2U="},
						&domain.Transaction{ID: 99},
						nil,
					)
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name: "storage failure",
			body: `{"amount":1000}`,
			prepareMock: func(m *MockService) {
				m.EXPECT().Create(gomock.Any(), 1, gomock.Any(), "").
					Return(nil, nil, errors.New("connection refused"))
			},
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			service := NewMockService(ctrl)
			tt.prepareMock(service)
			handler := New(service)

			rec := httptest.NewRecorder()
			handler.CreateDeposit(rec, newRequest(http.MethodPost, "/api/v1/deposits", tt.body))

			assert.Equal(t, tt.expectedStatus, rec.Code)
			if tt.expectedStatus == http.StatusCreated {
				assert.Contains(t, rec.Body.String(), `"qr_code":"aW1hZ2U="`)
			}
		})
	}
}

func TestGetBalance(t *testing.T) {
	ctrl := gomock.NewController(t)
	service := NewMockService(ctrl)
	service.EXPECT().GetBalance(gomock.Any(), 1).Return(decimal.RequireFromString("948.60"), nil)
	handler := New(service)

	rec := httptest.NewRecorder()
	handler.GetBalance(rec, newRequest(http.MethodGet, "/api/v1/balance", ""))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true,"balance":948.6}`, rec.Body.String())
}

func TestGetTransactions(t *testing.T) {
	ctrl := gomock.NewController(t)
	service := NewMockService(ctrl)
	service.EXPECT().GetTransactions(gomock.Any(), 1).Return([]domain.Transaction{
		{
			Code:      "TX-123456789012",
			Type:      domain.TransactionTypeDeposit,
			Amount:    decimal.NewFromInt(1000),
			Status:    domain.TransactionStatusApproved,
			CreatedAt: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
		},
	}, nil)
	handler := New(service)

	rec := httptest.NewRecorder()
	handler.GetTransactions(rec, newRequest(http.MethodGet, "/api/v1/transactions", ""))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "TX-123456789012")
}
