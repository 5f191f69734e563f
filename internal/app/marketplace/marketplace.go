// Package marketplace собирает HTTP-приложение маркетплейса.
package marketplace

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/codevault/internal/cache"
	"github.com/magabrotheeeer/codevault/internal/config"
	"github.com/magabrotheeeer/codevault/internal/lib/jwt"
	"github.com/magabrotheeeer/codevault/internal/lib/metrics"
	"github.com/magabrotheeeer/codevault/internal/lib/ordernumber"
	librabbitmq "github.com/magabrotheeeer/codevault/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/codevault/internal/lib/sl"
	"github.com/magabrotheeeer/codevault/internal/migrations"
	"github.com/magabrotheeeer/codevault/internal/paymentprovider"
	"github.com/magabrotheeeer/codevault/internal/rabbitmq"
	authservice "github.com/magabrotheeeer/codevault/internal/services/auth"
	contactservice "github.com/magabrotheeeer/codevault/internal/services/contact"
	orderservice "github.com/magabrotheeeer/codevault/internal/services/order"
	paymentservice "github.com/magabrotheeeer/codevault/internal/services/payment"
	productservice "github.com/magabrotheeeer/codevault/internal/services/product"
	reviewservice "github.com/magabrotheeeer/codevault/internal/services/review"
	statsservice "github.com/magabrotheeeer/codevault/internal/services/stats"
	userservice "github.com/magabrotheeeer/codevault/internal/services/user"
	"github.com/magabrotheeeer/codevault/internal/storage/repository"
)

const shutdownTimeout = 15 * time.Second

// App HTTP-сервер маркетплейса и ресурсы, которые он закрывает при остановке.
type App struct {
	server    *http.Server
	logger    *slog.Logger
	db        *repository.Storage
	cache     *cache.Cache
	publisher *librabbitmq.Publisher
	amqpConn  *amqp.Connection
}

// New подключает хранилище, кэш и брокер, создаёт сервисы и регистрирует маршруты.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = repository.CheckDatabaseReady(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err = migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		_ = db.Close()
		return nil, err
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	secret, fallback := cfg.JWTSecret()
	if fallback {
		logger.Warn("JWT_SECRET is not set, using the built-in fallback secret")
	}
	jwtMaker := jwt.NewJWTMaker(secret, cfg.TokenTTL)

	var (
		events    paymentservice.EventPublisher = librabbitmq.Nop{}
		publisher *librabbitmq.Publisher
		amqpConn  *amqp.Connection
	)
	if cfg.RabbitMQURL != "" {
		conn, err := rabbitmq.Connect(ctx, cfg.RabbitMQURL, cfg.RabbitMQMaxRetries, cfg.RabbitMQRetryDelay)
		if err != nil {
			_ = cacheRedis.Close()
			_ = db.Close()
			return nil, err
		}
		ch, err := rabbitmq.SetupChannel(conn, rabbitmq.ExchangePayments, rabbitmq.GetReconcileQueues())
		if err != nil {
			_ = conn.Close()
			_ = cacheRedis.Close()
			_ = db.Close()
			return nil, err
		}
		amqpConn = conn
		publisher = librabbitmq.NewPublisher(ch, rabbitmq.ExchangePayments)
		events = publisher
	} else {
		logger.Warn("rabbitmq url is not set, reconciliation events are discarded")
	}

	numbers := ordernumber.New()

	authService := authservice.New(logger, db, jwtMaker, cacheRedis, m, authservice.Options{
		AllowedSignupRoles: cfg.AllowedSignupRoles,
		KeepTokenOnLogout:  cfg.KeepTokenOnLogout,
	})
	paymentService := paymentservice.New(logger, db, paymentprovider.NewClient(cfg.Cashfree), events, numbers, m,
		paymentservice.Options{
			Currency:          cfg.Currency,
			FrontendURL:       cfg.FrontendURL,
			StrictAmountCheck: cfg.StrictAmountCheck,
		})
	statsService := statsservice.New(db)

	svc := services{
		auth:    authService,
		payment: paymentService,
		product: productservice.New(db, cacheRedis, logger),
		order:   orderservice.New(logger, db, numbers),
		review:  reviewservice.New(db),
		contact: contactservice.New(logger, db),
		user:    userservice.New(logger, db),
		stats:   statsService,
	}

	if err := ensureDefaultAdmin(ctx, authService, cfg.DefaultAdmin); err != nil {
		logger.Error("failed to ensure default admin", sl.Err(err))
	}

	router := chi.NewRouter()
	RegisterRoutes(router, logger, cfg, reg, svc)

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server:    srv,
		logger:    logger,
		db:        db,
		cache:     cacheRedis,
		publisher: publisher,
		amqpConn:  amqpConn,
	}, nil
}

func ensureDefaultAdmin(ctx context.Context, auth *authservice.Service, admin config.DefaultAdmin) error {
	var phone *string
	if admin.Phone != "" {
		phone = &admin.Phone
	}
	return auth.EnsureAdmin(ctx, admin.Email, admin.Password, admin.FullName, phone)
}

// Run обслуживает запросы до отмены ctx, затем останавливает сервер и закрывает ресурсы.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		a.close()
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		a.close()
		return err
	}
}

func (a *App) close() {
	if a.publisher != nil {
		if err := a.publisher.Close(); err != nil {
			a.logger.Error("failed to close rabbitmq publisher", sl.Err(err))
		}
	}
	if a.amqpConn != nil {
		if err := a.amqpConn.Close(); err != nil {
			a.logger.Error("failed to close rabbitmq connection", sl.Err(err))
		}
	}
	if err := a.cache.Close(); err != nil {
		a.logger.Error("failed to close redis", sl.Err(err))
	}
	if err := a.db.Close(); err != nil {
		a.logger.Error("failed to close database", sl.Err(err))
	}
}
