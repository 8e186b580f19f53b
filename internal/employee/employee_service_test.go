package employee_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"go-payroll/internal/employee"
	employeeerrors "go-payroll/internal/employee/errors"
	"go-payroll/internal/shared/counter"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeRepo struct {
	createEmployeeFn   func(ctx context.Context, e *employee.Employee) error
	createEmploymentFn func(ctx context.Context, e *employee.Employment) error
	findByIDFn         func(ctx context.Context, id string) (*employee.Employee, error)
	findEmploymentFn   func(ctx context.Context, employeeID string) (*employee.Employment, error)
	existsFn           func(ctx context.Context, id string) (bool, error)
	findActiveFn       func(ctx context.Context) ([]employee.ActiveEmployment, error)
}

func (f *fakeRepo) WithTx(tx *sql.Tx) employee.Repository { return f }

func (f *fakeRepo) CreateEmployee(ctx context.Context, e *employee.Employee) error {
	return f.createEmployeeFn(ctx, e)
}

func (f *fakeRepo) CreateEmployment(ctx context.Context, e *employee.Employment) error {
	return f.createEmploymentFn(ctx, e)
}

func (f *fakeRepo) FindByID(ctx context.Context, id string) (*employee.Employee, error) {
	return f.findByIDFn(ctx, id)
}

func (f *fakeRepo) FindEmploymentByEmployeeID(ctx context.Context, employeeID string) (*employee.Employment, error) {
	return f.findEmploymentFn(ctx, employeeID)
}

func (f *fakeRepo) Exists(ctx context.Context, id string) (bool, error) {
	return f.existsFn(ctx, id)
}

func (f *fakeRepo) FindActiveEmployments(ctx context.Context) ([]employee.ActiveEmployment, error) {
	return f.findActiveFn(ctx)
}

type fakeCounter struct {
	values map[string]int64
}

func (f *fakeCounter) WithTx(tx *sql.Tx) counter.Repository { return f }

func (f *fakeCounter) GetNextValue(ctx context.Context, counterType string) (int64, error) {
	f.values[counterType]++
	return f.values[counterType], nil
}

func expectTx(t *testing.T, mock sqlmock.Sqlmock, commit bool) {
	t.Helper()
	mock.ExpectBegin()
	if commit {
		mock.ExpectCommit()
	} else {
		mock.ExpectRollback()
	}
}

func validRequest() employee.OnboardEmployeeRequest {
	return employee.OnboardEmployeeRequest{
		FirstName:   "Amina",
		LastName:    "Uwase",
		Email:       " Amina.Uwase@Example.com ",
		Department:  "Finance",
		Position:    "Accountant",
		BaseSalary:  decimal.RequireFromString("500000"),
		JoiningDate: "2023-04-01",
	}
}

func TestEmployeeService_Onboard(t *testing.T) {
	ctx := context.Background()

	t.Run("success - creates employee and active employment", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		var createdEmployee *employee.Employee
		var createdEmployment *employee.Employment
		repo := &fakeRepo{
			createEmployeeFn: func(ctx context.Context, e *employee.Employee) error {
				createdEmployee = e
				return nil
			},
			createEmploymentFn: func(ctx context.Context, e *employee.Employment) error {
				createdEmployment = e
				return nil
			},
		}
		ctr := &fakeCounter{values: map[string]int64{counter.TypeEmployee: 41}}

		expectTx(t, mock, true)
		svc := employee.NewService(db, repo, ctr)

		resp, err := svc.Onboard(ctx, validRequest())

		require.NoError(t, err)
		assert.Equal(t, "EMP-000042", resp.Code)
		assert.Equal(t, "Amina Uwase", resp.FullName)
		assert.Equal(t, "amina.uwase@example.com", resp.Email)
		require.NotNil(t, resp.Employment)
		assert.Equal(t, "EMPL-000001", resp.Employment.Code)
		assert.Equal(t, employee.EmploymentActive, resp.Employment.Status)
		assert.Equal(t, "500000.00", resp.Employment.BaseSalary)
		assert.Equal(t, createdEmployee.ID, createdEmployment.EmployeeID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("non-positive salary rejected", func(t *testing.T) {
		db, _, _ := sqlmock.New()
		defer db.Close()

		req := validRequest()
		req.BaseSalary = decimal.Zero

		_, err := employee.NewService(db, &fakeRepo{}, &fakeCounter{values: map[string]int64{}}).Onboard(ctx, req)
		assert.ErrorIs(t, err, employeeerrors.ErrInvalidBaseSalary)
	})

	t.Run("bad joining date rejected", func(t *testing.T) {
		db, _, _ := sqlmock.New()
		defer db.Close()

		req := validRequest()
		req.JoiningDate = "01/04/2023"

		_, err := employee.NewService(db, &fakeRepo{}, &fakeCounter{values: map[string]int64{}}).Onboard(ctx, req)
		assert.ErrorIs(t, err, employeeerrors.ErrInvalidJoiningDate)
	})

	t.Run("duplicate rolls back", func(t *testing.T) {
		db, mock, _ := sqlmock.New()
		defer db.Close()

		repo := &fakeRepo{
			createEmployeeFn: func(ctx context.Context, e *employee.Employee) error {
				return &pgconn.PgError{Code: "23505"}
			},
		}

		expectTx(t, mock, false)
		_, err := employee.NewService(db, repo, &fakeCounter{values: map[string]int64{}}).Onboard(ctx, validRequest())

		assert.ErrorIs(t, err, employeeerrors.ErrEmployeeAlreadyExists)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestEmployeeService_GetByID(t *testing.T) {
	ctx := context.Background()
	db, _, _ := sqlmock.New()
	defer db.Close()

	t.Run("employee without employment", func(t *testing.T) {
		id := uuid.New()
		repo := &fakeRepo{
			findByIDFn: func(ctx context.Context, got string) (*employee.Employee, error) {
				return &employee.Employee{ID: id, Code: "EMP-000001", FullName: "Jean Bosco"}, nil
			},
			findEmploymentFn: func(ctx context.Context, employeeID string) (*employee.Employment, error) {
				return nil, gorm.ErrRecordNotFound
			},
		}

		resp, err := employee.NewService(db, repo, nil).GetByID(ctx, id.String())

		require.NoError(t, err)
		assert.Equal(t, "Jean Bosco", resp.FullName)
		assert.Nil(t, resp.Employment)
	})

	t.Run("not found", func(t *testing.T) {
		repo := &fakeRepo{
			findByIDFn: func(ctx context.Context, id string) (*employee.Employee, error) {
				return nil, gorm.ErrRecordNotFound
			},
		}

		_, err := employee.NewService(db, repo, nil).GetByID(ctx, uuid.NewString())
		assert.ErrorIs(t, err, employeeerrors.ErrEmployeeNotFound)
	})

	t.Run("repository failure propagates", func(t *testing.T) {
		id := uuid.New()
		repo := &fakeRepo{
			findByIDFn: func(ctx context.Context, got string) (*employee.Employee, error) {
				return &employee.Employee{ID: id}, nil
			},
			findEmploymentFn: func(ctx context.Context, employeeID string) (*employee.Employment, error) {
				return nil, errors.New("connection reset")
			},
		}

		_, err := employee.NewService(db, repo, nil).GetByID(ctx, id.String())
		assert.EqualError(t, err, "connection reset")
	})

	t.Run("invalid id", func(t *testing.T) {
		_, err := employee.NewService(db, &fakeRepo{}, nil).GetByID(ctx, "abc")
		assert.ErrorIs(t, err, employeeerrors.ErrInvalidEmployeeID)
	})
}
