package notification

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	DefaultDispatchInterval = 5 * time.Second
	DefaultBatchSize        = 500
)

type DispatcherConfig struct {
	Interval    time.Duration
	Institution string
	BatchSize   int
	Lease       Lease
}

type DispatchSummary struct {
	Fetched int
	Sent    int
	Failed  int
	Skipped int
	Errored int
}

type Dispatcher struct {
	repo   Repository
	mailer Mailer
	cfg    DispatcherConfig
	now    func() time.Time
	logger *zap.Logger
}

func NewDispatcher(repo Repository, mailer Mailer, cfg DispatcherConfig, logger ...*zap.Logger) *Dispatcher {
	l := zap.L().Named("notification.dispatcher")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("notification.dispatcher")
	}
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultDispatchInterval
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = DefaultBatchSize
	}
	return &Dispatcher{
		repo:   repo,
		mailer: mailer,
		cfg:    cfg,
		now:    func() time.Time { return time.Now().UTC() },
		logger: l,
	}
}

// Run dispatches until ctx is done. The next run is scheduled only after the
// previous one has returned, so runs never overlap.
func (d *Dispatcher) Run(ctx context.Context) error {
	d.logger.Info("notification dispatcher started", zap.Duration("interval", d.cfg.Interval))

	timer := time.NewTimer(d.cfg.Interval)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			d.logger.Info("notification dispatcher stopped")
			return nil
		case <-timer.C:
			if _, err := d.DispatchPending(ctx); err != nil {
				d.logger.Error("dispatch run failed", zap.Error(err))
			}
			timer.Reset(d.cfg.Interval)
		}
	}
}

// ErrLeaseLost stops a run whose dispatch lease expired or was taken over.
var ErrLeaseLost = errors.New("dispatch lease lost")

// DispatchPending sends every undelivered notification, reading the backlog
// in pages of BatchSize. A page that has been loaded runs to completion even
// if ctx is cancelled; no further page is read after cancellation.
func (d *Dispatcher) DispatchPending(ctx context.Context) (DispatchSummary, error) {
	var summary DispatchSummary

	if d.cfg.Lease != nil {
		acquired, err := d.cfg.Lease.Acquire(ctx)
		if err != nil {
			return summary, err
		}
		if !acquired {
			d.logger.Debug("dispatch lease held elsewhere, skipping run")
			return summary, nil
		}
		defer func() {
			if err := d.cfg.Lease.Release(context.WithoutCancel(ctx)); err != nil {
				d.logger.Warn("release dispatch lease failed", zap.Error(err))
			}
		}()
	}

	err := d.dispatchPages(ctx, &summary)
	if summary.Fetched > 0 {
		d.logger.Info("dispatch run finished",
			zap.Int("fetched", summary.Fetched),
			zap.Int("sent", summary.Sent),
			zap.Int("failed", summary.Failed),
			zap.Int("skipped", summary.Skipped),
			zap.Int("errored", summary.Errored),
		)
	}
	return summary, err
}

func (d *Dispatcher) dispatchPages(ctx context.Context, summary *DispatchSummary) error {
	runCtx := context.WithoutCancel(ctx)

	var cursor *DeliveryCursor
	for {
		page, err := d.repo.FindUndelivered(ctx, cursor, d.cfg.BatchSize)
		if err != nil {
			return err
		}
		summary.Fetched += len(page)

		for _, item := range page {
			switch d.deliver(runCtx, item) {
			case outcomeSent:
				summary.Sent++
			case outcomeFailed:
				summary.Failed++
			case outcomeSkipped:
				summary.Skipped++
			default:
				summary.Errored++
			}
			if err := d.extendLease(runCtx); err != nil {
				return err
			}
		}

		if len(page) < d.cfg.BatchSize || ctx.Err() != nil {
			return nil
		}
		cursor = page[len(page)-1].Cursor()
	}
}

func (d *Dispatcher) extendLease(ctx context.Context) error {
	if d.cfg.Lease == nil {
		return nil
	}
	held, err := d.cfg.Lease.Extend(ctx)
	if err != nil {
		d.logger.Error("extend dispatch lease failed, stopping run", zap.Error(err))
		return err
	}
	if !held {
		d.logger.Warn("dispatch lease lost, stopping run")
		return ErrLeaseLost
	}
	return nil
}

type outcome int

const (
	outcomeErrored outcome = iota
	outcomeSent
	outcomeFailed
	outcomeSkipped
)

func (d *Dispatcher) deliver(ctx context.Context, item PendingDelivery) outcome {
	id := item.ID.String()
	log := d.logger.With(
		zap.String("notification_id", id),
		zap.String("employee_id", item.EmployeeID.String()),
	)

	if strings.TrimSpace(item.Email) == "" {
		log.Warn("employee has no email address, skipping notification")
		return outcomeSkipped
	}

	msg := Message{
		To:            item.Email,
		RecipientName: item.FullName,
		Subject:       SubjectSalaryPayment,
		TemplateID:    TemplateSalaryPayment,
		Variables:     d.templateVariables(item),
	}

	err := d.mailer.Send(ctx, msg)
	if err == nil {
		if err := d.repo.MarkSent(ctx, id, d.now()); err != nil {
			log.Error("mark notification sent failed", zap.Error(err))
			return outcomeErrored
		}
		log.Info("notification sent")
		return outcomeSent
	}

	var deliveryErr *DeliveryError
	if errors.As(err, &deliveryErr) {
		log.Warn("notification delivery failed", zap.Error(err))
		if err := d.repo.MarkFailed(ctx, id); err != nil {
			log.Error("mark notification failed failed", zap.Error(err))
			return outcomeErrored
		}
		return outcomeFailed
	}

	log.Error("unexpected error sending notification", zap.Error(err))
	return outcomeErrored
}

func (d *Dispatcher) templateVariables(item PendingDelivery) map[string]any {
	amount := AmountNotAvailable
	if item.NetSalary.Valid {
		amount = item.NetSalary.Decimal.StringFixed(2)
	}
	monthName := ""
	if item.Month >= 1 && item.Month <= 12 {
		monthName = time.Month(item.Month).String()
	}
	return map[string]any{
		"messageContent":   item.MessageContent,
		"notificationDate": item.CreatedAt.Format("2006-01-02"),
		"firstName":        item.FirstName,
		"month":            monthName,
		"year":             strconv.Itoa(item.Year),
		"institution":      d.cfg.Institution,
		"amount":           amount,
	}
}
