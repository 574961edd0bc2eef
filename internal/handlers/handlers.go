package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/pixledger/pixpay/docs"
	apikeyhandlers "github.com/pixledger/pixpay/internal/handlers/apikey"
	deposithandlers "github.com/pixledger/pixpay/internal/handlers/deposit"
	webhookhandlers "github.com/pixledger/pixpay/internal/handlers/webhook"
	withdrawalhandlers "github.com/pixledger/pixpay/internal/handlers/withdrawal"
	"github.com/pixledger/pixpay/internal/service"
)

type WebhookHandler interface {
	HandlePix(w http.ResponseWriter, r *http.Request)
	HandleCheckout(w http.ResponseWriter, r *http.Request)
}

type DepositHandler interface {
	CreateDeposit(w http.ResponseWriter, r *http.Request)
	GetBalance(w http.ResponseWriter, r *http.Request)
	GetTransactions(w http.ResponseWriter, r *http.Request)
}

type WithdrawalHandler interface {
	CreateWithdrawal(w http.ResponseWriter, r *http.Request)
	GetWithdrawals(w http.ResponseWriter, r *http.Request)
	Approve(w http.ResponseWriter, r *http.Request)
	Reject(w http.ResponseWriter, r *http.Request)
}

type APIKeyHandler interface {
	Issue(w http.ResponseWriter, r *http.Request)
	Revoke(w http.ResponseWriter, r *http.Request)
}

type Handlers struct {
	WebhookHandler    WebhookHandler
	DepositHandler    DepositHandler
	WithdrawalHandler WithdrawalHandler
	APIKeyHandler     APIKeyHandler
}

func New(s *service.Services, webhookSecret string) *Handlers {
	return &Handlers{
		WebhookHandler:    webhookhandlers.New(s.WebhookService, webhookSecret),
		DepositHandler:    deposithandlers.New(s.DepositService),
		WithdrawalHandler: withdrawalhandlers.New(s.WithdrawalService),
		APIKeyHandler:     apikeyhandlers.New(s.APIKeyService),
	}
}

// InitRoutes mounts the three surfaces: unauthenticated provider
// callbacks, API-key gated merchant endpoints and the JWT gated
// back office.
func (h *Handlers) InitRoutes(r chi.Router, apiKeyAuth, adminAuth func(http.Handler) http.Handler) chi.Router {
	r.Use(
		chimiddleware.RealIP,
		chimiddleware.Recoverer,
		chimiddleware.Logger,
	)
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("doc.json"),
	))
	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/webhooks", func(r chi.Router) {
			r.Post("/pix", h.WebhookHandler.HandlePix)
			r.Post("/checkout", h.WebhookHandler.HandleCheckout)
		})

		r.Group(func(r chi.Router) {
			r.Use(apiKeyAuth)
			r.Post("/deposits", h.DepositHandler.CreateDeposit)
			r.Get("/balance", h.DepositHandler.GetBalance)
			r.Get("/transactions", h.DepositHandler.GetTransactions)
			r.Post("/withdrawals", h.WithdrawalHandler.CreateWithdrawal)
			r.Get("/withdrawals", h.WithdrawalHandler.GetWithdrawals)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(adminAuth)
			r.Post("/withdrawals/approve", h.WithdrawalHandler.Approve)
			r.Post("/withdrawals/reject", h.WithdrawalHandler.Reject)
			r.Post("/api-keys", h.APIKeyHandler.Issue)
			r.Post("/api-keys/revoke", h.APIKeyHandler.Revoke)
		})
	})

	return r
}
