package employee

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	employeeerrors "go-payroll/internal/employee/errors"
	"go-payroll/internal/shared/counter"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

//go:generate mockgen -source=employee_service.go -destination=mock/employee_service_mock.go -package=mock
type Service interface {
	Onboard(ctx context.Context, req OnboardEmployeeRequest) (EmployeeResponse, error)
	GetByID(ctx context.Context, id string) (EmployeeResponse, error)
}

type service struct {
	db      *sql.DB
	repo    Repository
	counter counter.Repository
	logger  *zap.Logger
}

func NewService(db *sql.DB, repo Repository, counter counter.Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("employee.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("employee.service")
	}
	return &service{
		db:      db,
		repo:    repo,
		counter: counter,
		logger:  l,
	}
}

// Onboard creates an employee and its employment in one transaction.
func (s *service) Onboard(ctx context.Context, req OnboardEmployeeRequest) (EmployeeResponse, error) {
	if !req.BaseSalary.IsPositive() {
		return EmployeeResponse{}, employeeerrors.ErrInvalidBaseSalary
	}
	joiningDate, err := time.Parse("2006-01-02", req.JoiningDate)
	if err != nil {
		return EmployeeResponse{}, employeeerrors.ErrInvalidJoiningDate
	}
	status := req.Status
	if status == "" {
		status = EmploymentActive
	}
	switch status {
	case EmploymentActive, EmploymentInactive, EmploymentTerminated:
	default:
		return EmployeeResponse{}, employeeerrors.ErrInvalidEmploymentStatus
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("onboard employee begin tx failed", zap.Error(err))
		return EmployeeResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	ctr := s.counter.WithTx(tx)

	empSeq, err := ctr.GetNextValue(ctx, counter.TypeEmployee)
	if err != nil {
		s.logger.Error("onboard employee generate code failed", zap.Error(err))
		return EmployeeResponse{}, err
	}
	emplSeq, err := ctr.GetNextValue(ctx, counter.TypeEmployment)
	if err != nil {
		s.logger.Error("onboard employment generate code failed", zap.Error(err))
		return EmployeeResponse{}, err
	}

	first := strings.TrimSpace(req.FirstName)
	last := strings.TrimSpace(req.LastName)
	emp := &Employee{
		ID:        uuid.New(),
		Code:      counter.FormatCode("EMP", empSeq),
		FirstName: first,
		LastName:  last,
		FullName:  strings.TrimSpace(first + " " + last),
		Email:     strings.ToLower(strings.TrimSpace(req.Email)),
	}
	if err := qtx.CreateEmployee(ctx, emp); err != nil {
		s.logger.Warn("onboard employee create failed", zap.String("email", emp.Email), zap.Error(err))
		return EmployeeResponse{}, mapRepositoryError(err)
	}

	employment := &Employment{
		ID:          uuid.New(),
		Code:        counter.FormatCode("EMPL", emplSeq),
		EmployeeID:  emp.ID,
		Department:  strings.TrimSpace(req.Department),
		Position:    strings.TrimSpace(req.Position),
		BaseSalary:  req.BaseSalary.Round(2),
		Status:      status,
		JoiningDate: joiningDate,
	}
	if err := qtx.CreateEmployment(ctx, employment); err != nil {
		s.logger.Warn("onboard employment create failed", zap.String("employee_id", emp.ID.String()), zap.Error(err))
		return EmployeeResponse{}, mapRepositoryError(err)
	}

	if err := tx.Commit(); err != nil {
		return EmployeeResponse{}, err
	}

	s.logger.Info("employee onboarded",
		zap.String("employee_id", emp.ID.String()),
		zap.String("employee_code", emp.Code),
		zap.String("status", status),
	)

	return mapToResponse(*emp, employment), nil
}

func (s *service) GetByID(ctx context.Context, id string) (EmployeeResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return EmployeeResponse{}, employeeerrors.ErrInvalidEmployeeID
	}

	emp, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return EmployeeResponse{}, mapRepositoryError(err)
	}

	employment, err := s.repo.FindEmploymentByEmployeeID(ctx, id)
	if err != nil {
		mapped := mapRepositoryError(err)
		if !errors.Is(mapped, employeeerrors.ErrEmployeeNotFound) {
			return EmployeeResponse{}, mapped
		}
		employment = nil
	}

	return mapToResponse(*emp, employment), nil
}

func mapToResponse(emp Employee, employment *Employment) EmployeeResponse {
	resp := EmployeeResponse{
		ID:       emp.ID.String(),
		Code:     emp.Code,
		FullName: emp.FullName,
		Email:    emp.Email,
	}
	if employment != nil {
		resp.Employment = &EmploymentResponse{
			ID:          employment.ID.String(),
			Code:        employment.Code,
			Department:  employment.Department,
			Position:    employment.Position,
			BaseSalary:  employment.BaseSalary.StringFixed(2),
			Status:      employment.Status,
			JoiningDate: employment.JoiningDate.Format("2006-01-02"),
		}
	}
	return resp
}
