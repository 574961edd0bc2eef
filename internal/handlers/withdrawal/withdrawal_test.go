package withdrawal

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	gomock "go.uber.org/mock/gomock"

	"github.com/pixledger/pixpay/internal/domain"
	"github.com/pixledger/pixpay/internal/middleware"
	"github.com/pixledger/pixpay/internal/service/withdrawalservice"
)

func newRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, bytes.NewBufferString(body))
	ctx := context.WithValue(req.Context(), middleware.UserIDKey, 1)
	return req.WithContext(ctx)
}

func TestCreateWithdrawal(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		prepareMock    func(m *MockService)
		expectedStatus int
	}{
		{
			name:           "unknown pix key type fails validation",
			body:           `{"amount":200,"pix_key_type":"cpf","pix_key":"123"}`,
			prepareMock:    func(m *MockService) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "malformed pix key for its type",
			body: `{"amount":200,"pix_key_type":"email","pix_key":"not-an-email"}`,
			prepareMock: func(m *MockService) {
				m.EXPECT().Request(gomock.Any(), 1, gomock.Any(), "email", "not-an-email").
					Return(nil, nil, fmt.Errorf("%w: bad email", withdrawalservice.ErrInvalidPixKey))
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "insufficient balance",
			body: `{"amount":200,"pix_key_type":"email","pix_key":"merchant@example.com"}`,
			prepareMock: func(m *MockService) {
				m.EXPECT().Request(gomock.Any(), 1, gomock.Any(), "email", "merchant@example.com").
					Return(nil, nil, withdrawalservice.ErrInsufficientBalance)
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "withdrawal recorded",
			body: `{"amount":200,"pix_key_type":"email","pix_key":"merchant@example.com"}`,
			prepareMock: func(m *MockService) {
				m.EXPECT().Request(gomock.Any(), 1, gomock.Any(), "email", "merchant@example.com").
					Return(
						&domain.Withdrawal{ID: 7, Amount: decimal.NewFromInt(200), Status: domain.WithdrawalStatusRequested},
						&domain.Transaction{ID: 99},
						nil,
					)
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name: "storage failure",
			body: `{"amount":200,"pix_key_type":"email","pix_key":"merchant@example.com"}`,
			prepareMock: func(m *MockService) {
				m.EXPECT().Request(gomock.Any(), 1, gomock.Any(), "email", "merchant@example.com").
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
			handler.CreateWithdrawal(rec, newRequest(http.MethodPost, "/api/v1/withdrawals", tt.body))

			assert.Equal(t, tt.expectedStatus, rec.Code)
		})
	}
}

func TestApprove(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		prepareMock    func(m *MockService)
		expectedStatus int
	}{
		{
			name:           "missing withdrawal id",
			body:           `{}`,
			prepareMock:    func(m *MockService) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "unknown withdrawal",
			body: `{"withdrawalId":7}`,
			prepareMock: func(m *MockService) {
				m.EXPECT().Approve(gomock.Any(), 7).Return(nil, withdrawalservice.ErrWithdrawalNotFound)
			},
			expectedStatus: http.StatusNotFound,
		},
		{
			name: "already decided responds with conflict",
			body: `{"withdrawalId":7}`,
			prepareMock: func(m *MockService) {
				m.EXPECT().Approve(gomock.Any(), 7).Return(nil, withdrawalservice.ErrWithdrawalDecided)
			},
			expectedStatus: http.StatusConflict,
		},
		{
			name: "insufficient balance at approval time",
			body: `{"withdrawalId":7}`,
			prepareMock: func(m *MockService) {
				m.EXPECT().Approve(gomock.Any(), 7).Return(nil, withdrawalservice.ErrInsufficientBalance)
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "approved",
			body: `{"withdrawalId":7}`,
			prepareMock: func(m *MockService) {
				m.EXPECT().Approve(gomock.Any(), 7).
					Return(&domain.Withdrawal{ID: 7, Status: domain.WithdrawalStatusApproved}, nil)
			},
			expectedStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			service := NewMockService(ctrl)
			tt.prepareMock(service)
			handler := New(service)

			rec := httptest.NewRecorder()
			handler.Approve(rec, newRequest(http.MethodPost, "/api/v1/admin/withdrawals/approve", tt.body))

			assert.Equal(t, tt.expectedStatus, rec.Code)
		})
	}
}

func TestReject(t *testing.T) {
	t.Run("rejected", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		service := NewMockService(ctrl)
		service.EXPECT().Reject(gomock.Any(), 7).
			Return(&domain.Withdrawal{ID: 7, Status: domain.WithdrawalStatusRejected}, nil)
		handler := New(service)

		rec := httptest.NewRecorder()
		handler.Reject(rec, newRequest(http.MethodPost, "/api/v1/admin/withdrawals/reject", `{"withdrawalId":7}`))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"success":true,"withdrawal_id":7}`, rec.Body.String())
	})

	t.Run("conflict on decided withdrawal", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		service := NewMockService(ctrl)
		service.EXPECT().Reject(gomock.Any(), 7).Return(nil, withdrawalservice.ErrWithdrawalDecided)
		handler := New(service)

		rec := httptest.NewRecorder()
		handler.Reject(rec, newRequest(http.MethodPost, "/api/v1/admin/withdrawals/reject", `{"withdrawalId":7}`))

		assert.Equal(t, http.StatusConflict, rec.Code)
	})
}

func TestGetWithdrawals(t *testing.T) {
	ctrl := gomock.NewController(t)
	service := NewMockService(ctrl)
	service.EXPECT().GetWithdrawals(gomock.Any(), 1).Return([]domain.Withdrawal{
		{ID: 7, Amount: decimal.NewFromInt(200), PixKeyType: domain.PixKeyTypeEmail, Status: domain.WithdrawalStatusRequested},
	}, nil)
	handler := New(service)

	rec := httptest.NewRecorder()
	handler.GetWithdrawals(rec, newRequest(http.MethodGet, "/api/v1/withdrawals", ""))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"withdrawal_id":7`)
}
