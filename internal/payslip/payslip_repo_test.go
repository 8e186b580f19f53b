package payslip_test

import (
	"context"
	"regexp"
	"testing"

	"go-payroll/internal/payslip"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setupRepoTest(t *testing.T) (payslip.Repository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{SkipDefaultTransaction: true})
	require.NoError(t, err)
	return payslip.NewRepository(gdb), mock
}

func newRepoPayslip() *payslip.Payslip {
	return &payslip.Payslip{
		ID:          uuid.New(),
		EmployeeID:  uuid.New(),
		Month:       1,
		Year:        2026,
		BaseSalary:  decimal.RequireFromString("500000"),
		GrossSalary: decimal.RequireFromString("500000"),
		NetSalary:   decimal.RequireFromString("410000"),
		Status:      payslip.StatusPending,
	}
}

var onConflictDoNothing = regexp.QuoteMeta(`INSERT INTO "payslips"`) + `.*` +
	regexp.QuoteMeta(`ON CONFLICT ("employee_id","month","year") DO NOTHING`)

func TestPayslipRepository_CreateIfAbsent(t *testing.T) {
	t.Run("new row is inserted", func(t *testing.T) {
		repo, mock := setupRepoTest(t)
		p := newRepoPayslip()

		mock.ExpectQuery(onConflictDoNothing).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(p.ID.String()))

		created, err := repo.CreateIfAbsent(context.Background(), p)
		require.NoError(t, err)
		assert.True(t, created)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("conflicting period row is skipped", func(t *testing.T) {
		repo, mock := setupRepoTest(t)

		mock.ExpectQuery(onConflictDoNothing).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		created, err := repo.CreateIfAbsent(context.Background(), newRepoPayslip())
		require.NoError(t, err)
		assert.False(t, created)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
