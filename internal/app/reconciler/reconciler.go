// Package reconciler запускает воркер, который доводит до конца заказы,
// не сохранённые или не завершённые во время обработки HTTP-запроса.
package reconciler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/codevault/internal/config"
	"github.com/magabrotheeeer/codevault/internal/lib/metrics"
	"github.com/magabrotheeeer/codevault/internal/lib/ordernumber"
	librabbitmq "github.com/magabrotheeeer/codevault/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/codevault/internal/lib/sl"
	"github.com/magabrotheeeer/codevault/internal/paymentprovider"
	"github.com/magabrotheeeer/codevault/internal/rabbitmq"
	paymentservice "github.com/magabrotheeeer/codevault/internal/services/payment"
	"github.com/magabrotheeeer/codevault/internal/storage/repository"
)

// QueueReconcile очередь событий сверки.
const QueueReconcile = "payments.reconcile"

const shutdownTimeout = 10 * time.Second

type App struct {
	conn          *amqp.Connection
	ch            *amqp.Channel
	publisher     *librabbitmq.Publisher
	db            *repository.Storage
	reconciler    *paymentservice.Reconciler
	sweeper       *paymentservice.Sweeper
	metricsServer *http.Server
	logger        *slog.Logger
}

func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	if cfg.RabbitMQURL == "" {
		return nil, errors.New("reconciler: rabbitmq url is required")
	}
	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = repository.CheckDatabaseReady(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	conn, err := rabbitmq.Connect(ctx, cfg.RabbitMQURL, cfg.RabbitMQMaxRetries, cfg.RabbitMQRetryDelay)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	ch, err := rabbitmq.SetupChannel(conn, rabbitmq.ExchangePayments, rabbitmq.GetReconcileQueues())
	if err != nil {
		_ = conn.Close()
		_ = db.Close()
		return nil, err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	app := &App{
		conn:       conn,
		ch:         ch,
		db:         db,
		reconciler: paymentservice.NewReconciler(logger, db),
		logger:     logger,
	}
	if cfg.MetricsAddress != "" {
		app.metricsServer = newMetricsServer(cfg.MetricsAddress, reg)
	}

	if cfg.SweepInterval > 0 {
		pubCh, err := conn.Channel()
		if err != nil {
			app.close()
			return nil, err
		}
		app.publisher = librabbitmq.NewPublisher(pubCh, rabbitmq.ExchangePayments)
		verifier := paymentservice.New(logger, db, paymentprovider.NewClient(cfg.Cashfree), app.publisher,
			ordernumber.New(), metrics.New(reg), paymentservice.Options{
				Currency:          cfg.Currency,
				FrontendURL:       cfg.FrontendURL,
				StrictAmountCheck: cfg.StrictAmountCheck,
			})
		app.sweeper = paymentservice.NewSweeper(logger, db, verifier, cfg.SweepInterval, cfg.SweepAge)
	}

	return app, nil
}

// newMetricsServer отдаёт счётчики воркера по /metrics.
func newMetricsServer(addr string, reg *prometheus.Registry) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	return &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
}

func (a *App) Run(ctx context.Context) error {
	consumer, err := rabbitmq.ConsumerMessage(ctx, a.logger, a.ch, QueueReconcile, a.reconciler.Handle)
	if err != nil {
		a.logger.Error("failed to start reconcile consumer", sl.Err(err))
		a.close()
		return err
	}

	if a.metricsServer != nil {
		go func() {
			a.logger.Info("metrics server starting on", slog.String("address", a.metricsServer.Addr))
			if err := a.metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				a.logger.Error("metrics server failed", sl.Err(err))
			}
		}()
	}

	sweeperDone := make(chan struct{})
	go func() {
		defer close(sweeperDone)
		if a.sweeper != nil {
			a.sweeper.Run(ctx)
		}
	}()

	<-ctx.Done()
	a.logger.Info("reconciler shutting down gracefully")

	consumer.Wait()
	<-sweeperDone

	if a.metricsServer != nil {
		timeoutCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := a.metricsServer.Shutdown(timeoutCtx); err != nil {
			a.logger.Error("failed to shut down metrics server", sl.Err(err))
		}
	}
	a.close()
	return nil
}

func (a *App) close() {
	if a.publisher != nil {
		if err := a.publisher.Close(); err != nil {
			a.logger.Error("failed to close publisher", sl.Err(err))
		}
	}
	if err := a.ch.Close(); err != nil {
		a.logger.Error("failed to close channel", sl.Err(err))
	}
	if err := a.conn.Close(); err != nil {
		a.logger.Error("failed to close connection", sl.Err(err))
	}
	if err := a.db.Close(); err != nil {
		a.logger.Error("failed to close database", sl.Err(err))
	}
}
