package service

import (
	"github.com/pixledger/pixpay/internal/domain"
	"github.com/pixledger/pixpay/internal/notify"
	"github.com/pixledger/pixpay/internal/pg"
	"github.com/pixledger/pixpay/internal/repo"
	apikeyservice "github.com/pixledger/pixpay/internal/service/apikeyservice"
	depositservice "github.com/pixledger/pixpay/internal/service/depositservice"
	webhookservice "github.com/pixledger/pixpay/internal/service/webhookservice"
	withdrawalservice "github.com/pixledger/pixpay/internal/service/withdrawalservice"
	pkgauth "github.com/pixledger/pixpay/pkg/auth"
)

type Services struct {
	WebhookService    *webhookservice.Service
	DepositService    *depositservice.Service
	WithdrawalService *withdrawalservice.Service
	APIKeyService     *apikeyservice.Service
}

func New(repo *repo.Repositories, notifier *notify.Dispatcher, txManager pg.TXManager, fees domain.FeePolicy) *Services {
	webhookService := webhookservice.New(
		repo.DepositRepo, repo.CheckoutRepo, repo.TransactionRepo,
		repo.BalanceRepo, repo.SettingsRepo, repo.EventRepo, notifier,
		txManager, fees,
	)
	depositService := depositservice.New(repo.DepositRepo, repo.TransactionRepo, repo.BalanceRepo, txManager)
	withdrawalService := withdrawalservice.New(
		repo.WithdrawalRepo, repo.TransactionRepo, repo.BalanceRepo, repo.SettingsRepo,
		notifier, txManager, fees,
	)
	apiKeyService := apikeyservice.New(repo.APIKeyRepo, &pkgauth.APIKeyService{})

	return &Services{
		WebhookService:    webhookService,
		DepositService:    depositService,
		WithdrawalService: withdrawalService,
		APIKeyService:     apiKeyService,
	}
}
