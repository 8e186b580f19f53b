package app

import (
	"context"
	"os/signal"
	"syscall"

	"go-payroll/internal/mail"
	"go-payroll/internal/messaging/kafka"
	"go-payroll/internal/messaging/kafka/producer"
	"go-payroll/internal/notification"
	"go-payroll/internal/shared/config"
	"go-payroll/internal/shared/connection"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// RunWorker drives the notification dispatcher and, when a broker is
// configured, the outbox relay until SIGINT or SIGTERM.
func RunWorker(cfg *config.Config, logger *zap.Logger) error {
	logger = logger.Named("app.worker")

	infra, err := connect(cfg, logger)
	if err != nil {
		return err
	}
	defer infra.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	dispatcher := notification.NewDispatcher(
		notification.NewRepository(infra.gormDB),
		mail.New(cfg.Mail, logger),
		notification.DispatcherConfig{
			Interval:    cfg.Dispatch.Interval,
			Institution: cfg.Mail.Institution,
			Lease:       notification.NewRedisLease(infra.rdb, notification.DispatchLeaseKey, cfg.Dispatch.LeaseTTL),
		},
		logger,
	)

	var connectRelay func() (runner, func(), error)
	if cfg.KafkaBroker != "" {
		connectRelay = func() (runner, func(), error) {
			writer, err := connection.ConnectKafkaWithRetry(cfg.KafkaBroker, cfg.Database.MaxRetries, logger)
			if err != nil {
				return nil, nil, err
			}
			outboxRepo := kafka.NewOutboxRepository(infra.sqlDB)
			relay := func(ctx context.Context) error {
				return producer.ProcessOutboxEvents(ctx, outboxRepo, writer, logger, cfg.Dispatch.OutboxPollInterval)
			}
			return relay, func() { _ = writer.Close() }, nil
		}
	} else {
		logger.Warn("KAFKA_BROKER not set, outbox relay disabled")
	}

	err = runWorkers(ctx, dispatcher.Run, connectRelay)
	logger.Info("worker shutting down")
	return err
}

type runner func(ctx context.Context) error

// runWorkers connects the relay, when there is one, before anything starts,
// then runs the dispatcher and the relay until both return.
func runWorkers(ctx context.Context, dispatch runner, connectRelay func() (runner, func(), error)) error {
	var relay runner
	if connectRelay != nil {
		r, closeRelay, err := connectRelay()
		if err != nil {
			return err
		}
		defer closeRelay()
		relay = r
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return dispatch(ctx)
	})
	if relay != nil {
		g.Go(func() error {
			return relay(ctx)
		})
	}
	return g.Wait()
}
