package payslip

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"go-payroll/internal/deduction"
	"go-payroll/internal/employee"
	"go-payroll/internal/events"
	"go-payroll/internal/messaging/kafka"
	"go-payroll/internal/notification"
	paysliperrors "go-payroll/internal/payslip/errors"
	"go-payroll/internal/shared/contextutil"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Notifier queues the approval notification. Failures never undo an approval.
type Notifier interface {
	Enqueue(ctx context.Context, req notification.EnqueueRequest) (notification.NotificationResponse, error)
}

//go:generate mockgen -source=payslip_service.go -destination=mock/payslip_service_mock.go -package=mock
type Service interface {
	Generate(ctx context.Context, month, year int) ([]PayslipResponse, error)
	Approve(ctx context.Context, id string, approver string) (PayslipResponse, error)
	ApproveAll(ctx context.Context, month, year int, approver string) ([]PayslipResponse, error)
	GetByID(ctx context.Context, id string) (PayslipResponse, error)
	GetByEmployee(ctx context.Context, employeeID string) ([]PayslipResponse, error)
	GetByPeriod(ctx context.Context, month, year int) ([]PayslipResponse, error)
	GetForEmployeePeriod(ctx context.Context, employeeID string, month, year int) (PayslipResponse, error)
	RenderPDF(ctx context.Context, id string) ([]byte, string, error)
}

type service struct {
	db         *sql.DB
	repo       Repository
	employees  employee.Repository
	deductions deduction.Repository
	notifier   Notifier
	outbox     kafka.OutboxRepository
	now        func() time.Time
	logger     *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	employees employee.Repository,
	deductions deduction.Repository,
	notifier Notifier,
	outbox kafka.OutboxRepository,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("payslip.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("payslip.service")
	}
	return &service{
		db:         db,
		repo:       repo,
		employees:  employees,
		deductions: deductions,
		notifier:   notifier,
		outbox:     outbox,
		now:        func() time.Time { return time.Now().UTC() },
		logger:     l,
	}
}

func validPeriod(month, year int) bool {
	return month >= 1 && month <= 12 && year >= 1900 && year <= 9999
}

// Generate creates one PENDING payslip per active employment that has none for
// the period. The whole batch runs in one transaction against a single
// snapshot of the deduction catalog; any failure rolls everything back.
func (s *service) Generate(ctx context.Context, month, year int) ([]PayslipResponse, error) {
	if !validPeriod(month, year) {
		return nil, paysliperrors.ErrInvalidPeriod
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("generate payslips begin tx failed", zap.Error(err))
		return nil, paysliperrors.ErrGenerationFailed.WithCause(err)
	}
	defer tx.Rollback()

	rates, err := s.loadRates(ctx, tx)
	if err != nil {
		if errors.Is(err, paysliperrors.ErrMissingRate) {
			s.logger.Error("payslip generation aborted, deduction catalog incomplete",
				append(contextutil.LoggerFields(ctx),
					zap.Int("month", month),
					zap.Int("year", year),
					zap.Error(err),
				)...,
			)
			return nil, err
		}
		return nil, paysliperrors.ErrGenerationFailed.WithCause(err)
	}

	employments, err := s.employees.WithTx(tx).FindActiveEmployments(ctx)
	if err != nil {
		s.logger.Error("load active employments failed", zap.Error(err))
		return nil, paysliperrors.ErrGenerationFailed.WithCause(err)
	}

	qtx := s.repo.WithTx(tx)
	created := make([]Payslip, 0, len(employments))
	skipped := 0

	for _, emp := range employments {
		exists, err := qtx.ExistsForPeriod(ctx, emp.EmployeeID, month, year)
		if err != nil {
			return nil, paysliperrors.ErrGenerationFailed.WithCause(err)
		}
		if exists {
			skipped++
			continue
		}

		p := newPayslip(emp.EmployeeID, month, year, Compute(emp.BaseSalary, rates))
		inserted, err := qtx.CreateIfAbsent(ctx, p)
		if err != nil {
			s.logger.Error("create payslip failed",
				zap.String("employee_id", emp.EmployeeID.String()),
				zap.Error(err),
			)
			return nil, paysliperrors.ErrGenerationFailed.WithCause(err)
		}
		if !inserted {
			// a concurrent run won the unique constraint
			skipped++
			continue
		}

		p.EmployeeCode = emp.EmployeeCode
		p.EmployeeName = emp.EmployeeName
		created = append(created, *p)
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("generate payslips commit failed", zap.Error(err))
		return nil, paysliperrors.ErrGenerationFailed.WithCause(err)
	}

	s.logger.Info("payslips generated",
		append(contextutil.LoggerFields(ctx),
			zap.Int("month", month),
			zap.Int("year", year),
			zap.Int("created", len(created)),
			zap.Int("skipped", skipped),
		)...,
	)

	return mapToResponses(created), nil
}

func (s *service) loadRates(ctx context.Context, tx *sql.Tx) (RateSet, error) {
	catalog, err := s.deductions.WithTx(tx).FindAll(ctx)
	if err != nil {
		return RateSet{}, err
	}

	rates := make(map[string]decimal.Decimal, len(catalog))
	for _, d := range catalog {
		rates[d.Code] = d.Percentage
	}
	return NewRateSet(rates)
}

func (s *service) Approve(ctx context.Context, id string, approver string) (PayslipResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return PayslipResponse{}, paysliperrors.ErrInvalidPayslipID
	}
	approver = strings.TrimSpace(approver)
	if approver == "" {
		return PayslipResponse{}, paysliperrors.ErrApproverRequired
	}

	p, transitioned, err := s.approveOne(ctx, id, approver)
	if err != nil {
		return PayslipResponse{}, err
	}
	if transitioned {
		s.notify(ctx, p)
	}
	return mapToResponse(*p), nil
}

// ApproveAll approves every PENDING payslip of the period independently. It
// only fails when there were pending payslips and none could be approved.
func (s *service) ApproveAll(ctx context.Context, month, year int, approver string) ([]PayslipResponse, error) {
	if !validPeriod(month, year) {
		return nil, paysliperrors.ErrInvalidPeriod
	}
	approver = strings.TrimSpace(approver)
	if approver == "" {
		return nil, paysliperrors.ErrApproverRequired
	}

	ids, err := s.repo.FindPendingIDsByPeriod(ctx, month, year)
	if err != nil {
		return nil, err
	}

	approved := make([]Payslip, 0, len(ids))
	var lastErr error
	for _, id := range ids {
		p, transitioned, err := s.approveOne(ctx, id.String(), approver)
		if err != nil {
			lastErr = err
			s.logger.Warn("approve payslip in batch failed",
				append(contextutil.LoggerFields(ctx),
					zap.String("payslip_id", id.String()),
					zap.Int("month", month),
					zap.Int("year", year),
					zap.Error(err),
				)...,
			)
			continue
		}
		if !transitioned {
			continue
		}
		s.notify(ctx, p)
		approved = append(approved, *p)
	}

	if len(ids) > 0 && len(approved) == 0 && lastErr != nil {
		return nil, paysliperrors.ErrApproveAllFailed.WithCause(lastErr)
	}

	s.logger.Info("payslips approved for period",
		append(contextutil.LoggerFields(ctx),
			zap.Int("month", month),
			zap.Int("year", year),
			zap.Int("pending", len(ids)),
			zap.Int("approved", len(approved)),
		)...,
	)
	return mapToResponses(approved), nil
}

// approveOne moves a single payslip to PAID inside its own transaction and
// records the approval event in the outbox. transitioned is false when the
// payslip was already PAID.
func (s *service) approveOne(ctx context.Context, id string, approver string) (*Payslip, bool, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, false, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	p, err := qtx.FindByID(ctx, id)
	if err != nil {
		return nil, false, mapRepositoryError(err)
	}
	if p.Status == StatusPaid {
		return p, false, nil
	}

	approvedAt := s.now()
	updated, err := qtx.MarkPaid(ctx, id, approver, approvedAt)
	if err != nil {
		return nil, false, mapRepositoryError(err)
	}
	if !updated {
		p, err = qtx.FindByID(ctx, id)
		if err != nil {
			return nil, false, mapRepositoryError(err)
		}
		return p, false, nil
	}

	p.Status = StatusPaid
	p.ApprovedBy = &approver
	p.ApprovedAt = &approvedAt

	event, err := kafka.NewOutboxEvent(
		ctx,
		events.PayslipAggregateType,
		p.ID.String(),
		events.PayslipApprovedEventType,
		events.PayslipApprovedTopic,
		events.PayslipApprovedEvent{
			EventType:    events.PayslipApprovedEventType,
			PayslipID:    p.ID.String(),
			EmployeeID:   p.EmployeeID.String(),
			EmployeeCode: p.EmployeeCode,
			Month:        p.Month,
			Year:         p.Year,
			NetSalary:    p.NetSalary.StringFixed(2),
			ApprovedBy:   approver,
			ApprovedAt:   approvedAt,
			OccurredAt:   approvedAt,
		},
	)
	if err != nil {
		return nil, false, err
	}
	if err := s.outbox.WithTx(tx).Create(ctx, event); err != nil {
		s.logger.Error("write payslip approved event failed", zap.String("payslip_id", id), zap.Error(err))
		return nil, false, err
	}

	if err := tx.Commit(); err != nil {
		return nil, false, err
	}

	s.logger.Info("payslip approved",
		append(contextutil.LoggerFields(ctx),
			zap.String("payslip_id", id),
			zap.String("employee_id", p.EmployeeID.String()),
			zap.String("approved_by", approver),
		)...,
	)
	return p, true, nil
}

// notify runs after the approval has committed, detached from the caller's
// cancellation; errors are only logged.
func (s *service) notify(ctx context.Context, p *Payslip) {
	if s.notifier == nil {
		return
	}
	ctx = context.WithoutCancel(ctx)

	payslipID := p.ID
	_, err := s.notifier.Enqueue(ctx, notification.EnqueueRequest{
		EmployeeID:     p.EmployeeID,
		PayslipID:      &payslipID,
		MessageContent: approvalMessage(p),
		Month:          p.Month,
		Year:           p.Year,
	})
	if err != nil {
		s.logger.Warn("enqueue payslip notification failed",
			append(contextutil.LoggerFields(ctx),
				zap.String("payslip_id", p.ID.String()),
				zap.String("employee_id", p.EmployeeID.String()),
				zap.Error(err),
			)...,
		)
	}
}

func approvalMessage(p *Payslip) string {
	return fmt.Sprintf(
		"Your salary for %s %d amounting to %s has been approved for payment.",
		p.MonthName(), p.Year, p.NetSalary.StringFixed(2),
	)
}

func (s *service) GetByID(ctx context.Context, id string) (PayslipResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return PayslipResponse{}, paysliperrors.ErrInvalidPayslipID
	}

	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return PayslipResponse{}, mapRepositoryError(err)
	}
	return mapToResponse(*p), nil
}

func (s *service) GetByEmployee(ctx context.Context, employeeID string) ([]PayslipResponse, error) {
	if _, err := uuid.Parse(employeeID); err != nil {
		return nil, paysliperrors.ErrInvalidEmployeeID
	}

	exists, err := s.employees.Exists(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, paysliperrors.ErrEmployeeNotFound
	}

	payslips, err := s.repo.FindAllByEmployee(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	return mapToResponses(payslips), nil
}

func (s *service) GetByPeriod(ctx context.Context, month, year int) ([]PayslipResponse, error) {
	if !validPeriod(month, year) {
		return nil, paysliperrors.ErrInvalidPeriod
	}

	payslips, err := s.repo.FindAllByPeriod(ctx, month, year)
	if err != nil {
		return nil, err
	}
	return mapToResponses(payslips), nil
}

func (s *service) GetForEmployeePeriod(ctx context.Context, employeeID string, month, year int) (PayslipResponse, error) {
	if _, err := uuid.Parse(employeeID); err != nil {
		return PayslipResponse{}, paysliperrors.ErrInvalidEmployeeID
	}
	if !validPeriod(month, year) {
		return PayslipResponse{}, paysliperrors.ErrInvalidPeriod
	}

	p, err := s.repo.FindByEmployeeAndPeriod(ctx, employeeID, month, year)
	if err != nil {
		return PayslipResponse{}, mapRepositoryError(err)
	}
	return mapToResponse(*p), nil
}

func (s *service) RenderPDF(ctx context.Context, id string) ([]byte, string, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, "", paysliperrors.ErrInvalidPayslipID
	}

	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, "", mapRepositoryError(err)
	}

	data, err := RenderPDF(*p)
	if err != nil {
		s.logger.Error("render payslip pdf failed", zap.String("payslip_id", id), zap.Error(err))
		return nil, "", paysliperrors.ErrRenderPDF.WithCause(err)
	}
	return data, pdfFilename(*p), nil
}

func mapToResponse(p Payslip) PayslipResponse {
	resp := PayslipResponse{
		ID:                     p.ID.String(),
		EmployeeID:             p.EmployeeID.String(),
		EmployeeCode:           p.EmployeeCode,
		EmployeeName:           p.EmployeeName,
		BaseSalary:             p.BaseSalary.StringFixed(2),
		HouseAmount:            p.HouseAmount.StringFixed(2),
		TransportAmount:        p.TransportAmount.StringFixed(2),
		GrossSalary:            p.GrossSalary.StringFixed(2),
		EmployeeTaxAmount:      p.EmployeeTaxAmount.StringFixed(2),
		PensionAmount:          p.PensionAmount.StringFixed(2),
		MedicalInsuranceAmount: p.MedicalInsuranceAmount.StringFixed(2),
		OtherTaxAmount:         p.OtherTaxAmount.StringFixed(2),
		NetSalary:              p.NetSalary.StringFixed(2),
		Status:                 p.Status,
		Month:                  p.Month,
		Year:                   p.Year,
		MonthName:              p.MonthName(),
		ApprovedBy:             p.ApprovedBy,
	}
	if p.ApprovedAt != nil {
		approvedAt := p.ApprovedAt.Format(time.RFC3339)
		resp.ApprovedAt = &approvedAt
	}
	return resp
}

func mapToResponses(payslips []Payslip) []PayslipResponse {
	resp := make([]PayslipResponse, 0, len(payslips))
	for _, p := range payslips {
		resp = append(resp, mapToResponse(p))
	}
	return resp
}
