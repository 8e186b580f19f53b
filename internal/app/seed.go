package app

import (
	"context"
	"time"

	"go-payroll/internal/deduction"
	"go-payroll/internal/employee"
	"go-payroll/internal/shared/config"
	"go-payroll/internal/shared/counter"

	"github.com/brianvoe/gofakeit"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var departments = []string{"Finance", "Engineering", "Operations", "Sales", "Human Resources"}

// RunSeed inserts the missing default deduction rates and onboards
// employees fake ACTIVE employees.
func RunSeed(cfg *config.Config, employees int, logger *zap.Logger) error {
	logger = logger.Named("app.seed")

	infra, err := connect(cfg, logger)
	if err != nil {
		return err
	}
	defer infra.Close()

	ctx := context.Background()
	counterRepo := counter.NewRepository(infra.gormDB)

	deductionService := deduction.NewService(infra.sqlDB, deduction.NewRepository(infra.gormDB), counterRepo, infra.rdb, logger)
	inserted, err := deductionService.SeedDefaults(ctx)
	if err != nil {
		return err
	}
	logger.Info("deduction catalog seeded", zap.Int("inserted", inserted))

	if employees <= 0 {
		return nil
	}

	employeeService := employee.NewService(infra.sqlDB, employee.NewRepository(infra.gormDB), counterRepo, logger)
	gofakeit.Seed(time.Now().UnixNano())

	for i := 0; i < employees; i++ {
		req := fakeOnboardRequest()
		resp, err := employeeService.Onboard(ctx, req)
		if err != nil {
			logger.Warn("seed employee failed", zap.String("email", req.Email), zap.Error(err))
			continue
		}
		logger.Info("employee seeded", zap.String("code", resp.Code), zap.String("name", resp.FullName))
	}
	return nil
}

func fakeOnboardRequest() employee.OnboardEmployeeRequest {
	joined := time.Now().AddDate(0, -gofakeit.Number(1, 60), 0)
	return employee.OnboardEmployeeRequest{
		FirstName:   gofakeit.FirstName(),
		LastName:    gofakeit.LastName(),
		Email:       gofakeit.Email(),
		Department:  departments[gofakeit.Number(0, len(departments)-1)],
		Position:    gofakeit.JobTitle(),
		BaseSalary:  decimal.NewFromInt(int64(gofakeit.Number(150, 1500)) * 1000),
		JoiningDate: joined.Format("2006-01-02"),
		Status:      employee.EmploymentActive,
	}
}
