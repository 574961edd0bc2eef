package service

import (
	"testing"

	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	gomock "go.uber.org/mock/gomock"

	"github.com/pixledger/pixpay/internal/domain"
	"github.com/pixledger/pixpay/internal/notify"
	"github.com/pixledger/pixpay/internal/pg"
	"github.com/pixledger/pixpay/internal/repo"
	"github.com/pixledger/pixpay/pkg/clients"
)

func TestNew(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockDB, err := pgxmock.NewPool()
	assert.NoError(t, err)
	t.Cleanup(mockDB.Close)

	repos := repo.New(mockDB)
	notifier := notify.New(repos.RegistrationRepo, clients.NewHTTPClient())
	t.Cleanup(notifier.Close)

	fees := domain.FeePolicy{
		DepositPercent:    decimal.RequireFromString("4.99"),
		WithdrawalPercent: decimal.Zero,
		Fixed:             decimal.RequireFromString("1.50"),
	}
	services := New(repos, notifier, pg.NewMockTXManager(ctrl), fees)

	assert.NotNil(t, services.WebhookService)
	assert.NotNil(t, services.DepositService)
	assert.NotNil(t, services.WithdrawalService)
	assert.NotNil(t, services.APIKeyService)
}
