package notification

import (
	"context"
	"strings"
	"time"

	notificationerrors "go-payroll/internal/notification/errors"
	"go-payroll/internal/shared/contextutil"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

//go:generate mockgen -source=notification_service.go -destination=mock/notification_service_mock.go -package=mock
type Service interface {
	Enqueue(ctx context.Context, req EnqueueRequest) (NotificationResponse, error)
	List(ctx context.Context, status string) ([]NotificationResponse, error)
	GetByID(ctx context.Context, id string) (NotificationResponse, error)
	Resend(ctx context.Context, id string) (NotificationResponse, error)
}

type service struct {
	repo   Repository
	logger *zap.Logger
}

func NewService(repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("notification.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("notification.service")
	}
	return &service{
		repo:   repo,
		logger: l,
	}
}

func (s *service) Enqueue(ctx context.Context, req EnqueueRequest) (NotificationResponse, error) {
	if req.EmployeeID == uuid.Nil ||
		strings.TrimSpace(req.MessageContent) == "" ||
		req.Month < 1 || req.Month > 12 || req.Year < 1 {
		return NotificationResponse{}, notificationerrors.ErrInvalidEnqueueRequest
	}

	n := &Notification{
		ID:             uuid.New(),
		EmployeeID:     req.EmployeeID,
		PayslipID:      req.PayslipID,
		MessageContent: req.MessageContent,
		Month:          req.Month,
		Year:           req.Year,
		Status:         StatusPending,
		EmailSent:      false,
	}

	if err := s.repo.Create(ctx, n); err != nil {
		s.logger.Error("enqueue notification failed",
			append(contextutil.LoggerFields(ctx),
				zap.String("employee_id", req.EmployeeID.String()),
				zap.Error(err),
			)...,
		)
		return NotificationResponse{}, err
	}

	s.logger.Info("notification enqueued",
		append(contextutil.LoggerFields(ctx),
			zap.String("notification_id", n.ID.String()),
			zap.String("employee_id", n.EmployeeID.String()),
		)...,
	)
	return mapToResponse(*n), nil
}

func (s *service) List(ctx context.Context, status string) ([]NotificationResponse, error) {
	status = strings.ToUpper(strings.TrimSpace(status))
	switch status {
	case "", StatusPending, StatusSent, StatusFailed:
	default:
		return nil, notificationerrors.ErrInvalidStatusFilter
	}

	notifications, err := s.repo.FindAll(ctx, status)
	if err != nil {
		return nil, err
	}

	resp := make([]NotificationResponse, 0, len(notifications))
	for _, n := range notifications {
		resp = append(resp, mapToResponse(n))
	}
	return resp, nil
}

func (s *service) GetByID(ctx context.Context, id string) (NotificationResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return NotificationResponse{}, notificationerrors.ErrInvalidNotificationID
	}

	n, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return NotificationResponse{}, mapRepositoryError(err)
	}
	return mapToResponse(*n), nil
}

// Resend queues a fresh PENDING copy of a SENT or FAILED notification. The
// original row keeps its terminal state.
func (s *service) Resend(ctx context.Context, id string) (NotificationResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return NotificationResponse{}, notificationerrors.ErrInvalidNotificationID
	}

	original, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return NotificationResponse{}, mapRepositoryError(err)
	}
	if original.Status == StatusPending {
		return NotificationResponse{}, notificationerrors.ErrStillPending
	}

	return s.Enqueue(ctx, EnqueueRequest{
		EmployeeID:     original.EmployeeID,
		PayslipID:      original.PayslipID,
		MessageContent: original.MessageContent,
		Month:          original.Month,
		Year:           original.Year,
	})
}

func mapToResponse(n Notification) NotificationResponse {
	resp := NotificationResponse{
		ID:             n.ID.String(),
		EmployeeID:     n.EmployeeID.String(),
		MessageContent: n.MessageContent,
		Month:          n.Month,
		Year:           n.Year,
		Status:         n.Status,
		EmailSent:      n.EmailSent,
		CreatedAt:      n.CreatedAt.Format(time.RFC3339),
	}
	if n.PayslipID != nil {
		payslipID := n.PayslipID.String()
		resp.PayslipID = &payslipID
	}
	if n.SentAt != nil {
		sentAt := n.SentAt.Format(time.RFC3339)
		resp.SentAt = &sentAt
	}
	return resp
}
