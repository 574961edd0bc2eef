package app

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-redis/redis/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/pixledger/pixpay/internal/config"
	"github.com/pixledger/pixpay/internal/domain"
	"github.com/pixledger/pixpay/internal/handlers"
	"github.com/pixledger/pixpay/internal/middleware"
	"github.com/pixledger/pixpay/internal/notify"
	"github.com/pixledger/pixpay/internal/pg"
	"github.com/pixledger/pixpay/internal/reconciler"
	"github.com/pixledger/pixpay/internal/repo"
	"github.com/pixledger/pixpay/internal/service"
	"github.com/pixledger/pixpay/pkg/auth"
	"github.com/pixledger/pixpay/pkg/clients"
	"github.com/pixledger/pixpay/pkg/logger"
	"github.com/pixledger/pixpay/pkg/ratelimit"
)

type ApplicationI interface {
	Start(ctx context.Context) error
	Wait(ctx context.Context, cancel context.CancelFunc) error
}

type Application struct {
	cfg      *config.Config
	api      *handlers.Handlers
	srv      *service.Services
	repo     *repo.Repositories
	recon    *reconciler.Service
	notifier *notify.Dispatcher

	errCh chan error
	wg    sync.WaitGroup
	ready bool
}

func New() *Application {
	return &Application{
		errCh: make(chan error),
	}
}

func (a *Application) Start(ctx context.Context) error {
	cfg := config.New()

	err := logger.InitLogger(cfg)
	if err != nil {
		return fmt.Errorf("can't init logger: %w", err)
	}

	fees, err := feePolicy(cfg)
	if err != nil {
		zap.L().Error("fee config invalid: ", zap.Error(err))
		return fmt.Errorf("can't parse fee config: %w", err)
	}

	pool, err := getPgxpool(ctx, cfg)
	if err != nil {
		zap.L().Error("build pgx pool failed: ", zap.Error(err))
		return fmt.Errorf("can't build pgx pool: %w", err)
	}
	if err := pg.RunMigrations(pool); err != nil {
		zap.L().Error("migrations failed: ", zap.Error(err))
		return fmt.Errorf("can't run migrations: %w", err)
	}
	txManager := pg.NewTXManager(pool)
	conn := pg.New(pool)

	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	if err := rdb.Ping(ctx).Err(); err != nil {
		zap.L().Error("redis ping failed: ", zap.Error(err))
		return fmt.Errorf("can't connect to redis: %w", err)
	}
	limiter := ratelimit.New(rdb, cfg.RateLimitRequests, cfg.RateLimitWindow)

	a.cfg = cfg
	a.repo = repo.New(conn)
	a.notifier = notify.New(a.repo.RegistrationRepo, clients.NewHTTPClient())
	a.srv = service.New(a.repo, a.notifier, txManager, fees)
	a.api = handlers.New(a.srv, cfg.WebhookSecret)
	a.recon = reconciler.New(cfg, a.repo.DepositRepo, a.repo.TransactionRepo,
		a.srv.WebhookService, a.notifier, txManager, clients.NewHTTPClient())

	apiKeyAuth := middleware.APIKey(a.srv.APIKeyService, limiter)
	adminAuth := middleware.AdminJWT(auth.NewJWTService(cfg.AdminJWTSecret))

	if err = a.startHTTPServer(ctx, apiKeyAuth, adminAuth); err != nil {
		return fmt.Errorf("can't start http server: %w", err)
	}

	a.startReconciler(ctx)

	a.ready = true
	zap.L().Info("all systems started successfully")
	return nil
}

func feePolicy(cfg *config.Config) (domain.FeePolicy, error) {
	depositPercent, err := decimal.NewFromString(cfg.DepositFeePercent)
	if err != nil {
		return domain.FeePolicy{}, fmt.Errorf("deposit fee percent: %w", err)
	}
	withdrawalPercent, err := decimal.NewFromString(cfg.WithdrawalFeePercent)
	if err != nil {
		return domain.FeePolicy{}, fmt.Errorf("withdrawal fee percent: %w", err)
	}
	fixed, err := decimal.NewFromString(cfg.FixedFee)
	if err != nil {
		return domain.FeePolicy{}, fmt.Errorf("fixed fee: %w", err)
	}
	return domain.FeePolicy{
		DepositPercent:    depositPercent,
		WithdrawalPercent: withdrawalPercent,
		Fixed:             fixed,
	}, nil
}

func getPgxpool(ctx context.Context, cfg *config.Config) (*pgxpool.Pool, error) {
	cfgpool, err := pgxpool.ParseConfig(cfg.Database)
	if err != nil {
		return nil, err
	}
	dbpool, err := pgxpool.NewWithConfig(ctx, cfgpool)
	if err != nil {
		return nil, err
	}
	if err = dbpool.Ping(ctx); err != nil {
		return nil, err
	}
	return dbpool, nil
}

func (a *Application) startHTTPServer(ctx context.Context, apiKeyAuth, adminAuth func(http.Handler) http.Handler) error {
	router := chi.NewRouter()
	a.api.InitRoutes(router, apiKeyAuth, adminAuth)
	server := http.Server{
		Addr:    a.cfg.Address,
		Handler: router,
	}
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		<-ctx.Done()

		sCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		server.Shutdown(sCtx)
		a.notifier.Close()
	}()

	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		zap.L().Info("starting http server on port", zap.String("port", a.cfg.Address))
		if err := server.ListenAndServe(); err != nil {
			a.errCh <- fmt.Errorf("http server exited with error: %w", err)
		}
	}()

	return nil
}

func (a *Application) startReconciler(ctx context.Context) {
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		a.recon.Start(ctx)
	}()
}

func (a *Application) Wait(ctx context.Context, cancel context.CancelFunc) error {
	var appErr error

	var wg sync.WaitGroup
	wg.Add(1)

	go func() {
		defer wg.Done()

		for err := range a.errCh {
			cancel()
			zap.L().Error(err.Error())
			appErr = err
		}
	}()

	<-ctx.Done()
	a.wg.Wait()
	close(a.errCh)
	wg.Wait()

	return appErr
}
