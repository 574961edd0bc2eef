package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	gomock "go.uber.org/mock/gomock"

	_ "github.com/pixledger/pixpay/docs"
	"github.com/pixledger/pixpay/internal/middleware"
	"github.com/pixledger/pixpay/internal/service"
	"github.com/pixledger/pixpay/pkg/auth"
)

func TestNew(t *testing.T) {
	h := New(&service.Services{}, "secret")
	assert.NotNil(t, h, "Handlers should not be nil")
}

func TestInitRoutes(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockWebhookHandler := NewMockWebhookHandler(ctrl)
	mockDepositHandler := NewMockDepositHandler(ctrl)
	mockWithdrawalHandler := NewMockWithdrawalHandler(ctrl)
	mockAPIKeyHandler := NewMockAPIKeyHandler(ctrl)

	mockWebhookHandler.EXPECT().HandlePix(gomock.Any(), gomock.Any()).AnyTimes()
	mockWebhookHandler.EXPECT().HandleCheckout(gomock.Any(), gomock.Any()).AnyTimes()
	mockDepositHandler.EXPECT().CreateDeposit(gomock.Any(), gomock.Any()).AnyTimes()
	mockDepositHandler.EXPECT().GetBalance(gomock.Any(), gomock.Any()).AnyTimes()
	mockDepositHandler.EXPECT().GetTransactions(gomock.Any(), gomock.Any()).AnyTimes()
	mockWithdrawalHandler.EXPECT().CreateWithdrawal(gomock.Any(), gomock.Any()).AnyTimes()
	mockWithdrawalHandler.EXPECT().GetWithdrawals(gomock.Any(), gomock.Any()).AnyTimes()
	mockWithdrawalHandler.EXPECT().Approve(gomock.Any(), gomock.Any()).AnyTimes()
	mockWithdrawalHandler.EXPECT().Reject(gomock.Any(), gomock.Any()).AnyTimes()
	mockAPIKeyHandler.EXPECT().Issue(gomock.Any(), gomock.Any()).AnyTimes()
	mockAPIKeyHandler.EXPECT().Revoke(gomock.Any(), gomock.Any()).AnyTimes()

	h := &Handlers{
		WebhookHandler:    mockWebhookHandler,
		DepositHandler:    mockDepositHandler,
		WithdrawalHandler: mockWithdrawalHandler,
		APIKeyHandler:     mockAPIKeyHandler,
	}

	mockKeys := middleware.NewMockAuthenticator(ctrl)
	mockLimiter := middleware.NewMockRateLimiter(ctrl)
	apiKeyAuth := middleware.APIKey(mockKeys, mockLimiter)
	adminAuth := middleware.AdminJWT(auth.NewJWTService("test-secret"))

	router := chi.NewRouter()
	h.InitRoutes(router, apiKeyAuth, adminAuth)

	tests := []struct {
		method string
		url    string
		status int
	}{
		{"POST", "/api/v1/webhooks/pix", http.StatusOK},
		{"POST", "/api/v1/webhooks/checkout", http.StatusOK},
		{"POST", "/api/v1/deposits", http.StatusUnauthorized},
		{"GET", "/api/v1/balance", http.StatusUnauthorized},
		{"GET", "/api/v1/transactions", http.StatusUnauthorized},
		{"POST", "/api/v1/withdrawals", http.StatusUnauthorized},
		{"GET", "/api/v1/withdrawals", http.StatusUnauthorized},
		{"POST", "/api/v1/admin/withdrawals/approve", http.StatusUnauthorized},
		{"POST", "/api/v1/admin/withdrawals/reject", http.StatusUnauthorized},
		{"POST", "/api/v1/admin/api-keys", http.StatusUnauthorized},
		{"POST", "/api/v1/admin/api-keys/revoke", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.url, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.url, nil)
			rec := httptest.NewRecorder()

			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.status, rec.Code)
		})
	}
}
