package repo

import (
	"testing"

	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"

	apikeyrepo "github.com/pixledger/pixpay/internal/repo/apikey-repo"
	balancerepo "github.com/pixledger/pixpay/internal/repo/balance-repo"
	checkoutrepo "github.com/pixledger/pixpay/internal/repo/checkout-repo"
	depositrepo "github.com/pixledger/pixpay/internal/repo/deposit-repo"
	eventrepo "github.com/pixledger/pixpay/internal/repo/event-repo"
	registrationrepo "github.com/pixledger/pixpay/internal/repo/registration-repo"
	settingsrepo "github.com/pixledger/pixpay/internal/repo/settings-repo"
	transactionrepo "github.com/pixledger/pixpay/internal/repo/transaction-repo"
	withdrawalrepo "github.com/pixledger/pixpay/internal/repo/withdrawal-repo"
)

func NewMock(t *testing.T) (*Repositories, pgxmock.PgxPoolIface) {
	mockDB, err := pgxmock.NewPool()
	assert.NoError(t, err)
	repo := New(mockDB)
	t.Cleanup(mockDB.Close)

	return repo, mockDB
}

func TestNew(t *testing.T) {
	repo, mock := NewMock(t)

	assert.IsType(t, &depositrepo.Repository{}, repo.DepositRepo)
	assert.IsType(t, &checkoutrepo.Repository{}, repo.CheckoutRepo)
	assert.IsType(t, &transactionrepo.Repository{}, repo.TransactionRepo)
	assert.IsType(t, &balancerepo.Repository{}, repo.BalanceRepo)
	assert.IsType(t, &withdrawalrepo.Repository{}, repo.WithdrawalRepo)
	assert.IsType(t, &settingsrepo.Repository{}, repo.SettingsRepo)
	assert.IsType(t, &eventrepo.Repository{}, repo.EventRepo)
	assert.IsType(t, &apikeyrepo.Repository{}, repo.APIKeyRepo)
	assert.IsType(t, &registrationrepo.Repository{}, repo.RegistrationRepo)

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("there were unmet expectations: %v", err)
	}
}
