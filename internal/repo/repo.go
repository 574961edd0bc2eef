package repo

import (
	"github.com/pixledger/pixpay/internal/pg"
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

type Repositories struct {
	DepositRepo      *depositrepo.Repository
	CheckoutRepo     *checkoutrepo.Repository
	TransactionRepo  *transactionrepo.Repository
	BalanceRepo      *balancerepo.Repository
	WithdrawalRepo   *withdrawalrepo.Repository
	SettingsRepo     *settingsrepo.Repository
	EventRepo        *eventrepo.Repository
	APIKeyRepo       *apikeyrepo.Repository
	RegistrationRepo *registrationrepo.Repository
}

func New(conn pg.Database) *Repositories {
	return &Repositories{
		DepositRepo:      depositrepo.New(conn),
		CheckoutRepo:     checkoutrepo.New(conn),
		TransactionRepo:  transactionrepo.New(conn),
		BalanceRepo:      balancerepo.New(conn),
		WithdrawalRepo:   withdrawalrepo.New(conn),
		SettingsRepo:     settingsrepo.New(conn),
		EventRepo:        eventrepo.New(conn),
		APIKeyRepo:       apikeyrepo.New(conn),
		RegistrationRepo: registrationrepo.New(conn),
	}
}
