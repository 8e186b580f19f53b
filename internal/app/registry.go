package app

import (
	"net/http"

	"go-payroll/internal/deduction"
	"go-payroll/internal/employee"
	"go-payroll/internal/messaging/kafka"
	"go-payroll/internal/middleware"
	"go-payroll/internal/notification"
	"go-payroll/internal/payslip"
	"go-payroll/internal/shared/config"
	"go-payroll/internal/shared/counter"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

func registerModules(
	router *gin.Engine,
	cfg *config.Config,
	infra *infrastructure,
	logger *zap.Logger,
) {
	// --- Repositories ---
	counterRepo := counter.NewRepository(infra.gormDB)
	deductionRepo := deduction.NewRepository(infra.gormDB)
	employeeRepo := employee.NewRepository(infra.gormDB)
	notificationRepo := notification.NewRepository(infra.gormDB)
	outboxRepo := kafka.NewOutboxRepository(infra.sqlDB)
	payslipRepo := payslip.NewRepository(infra.gormDB)

	// --- Services ---
	deductionService := deduction.NewService(infra.sqlDB, deductionRepo, counterRepo, infra.rdb, logger)
	employeeService := employee.NewService(infra.sqlDB, employeeRepo, counterRepo, logger)
	notificationService := notification.NewService(notificationRepo, logger)
	payslipService := payslip.NewService(
		infra.sqlDB,
		payslipRepo,
		employeeRepo,
		deductionRepo,
		notificationService,
		outboxRepo,
		logger,
	)

	// --- Handlers ---
	deductionHandler := deduction.NewHandler(deductionService)
	employeeHandler := employee.NewHandler(employeeService)
	notificationHandler := notification.NewHandler(notificationService)
	payslipHandler := payslip.NewHandlerWithRedis(payslipService, infra.rdb)

	router.Use(
		middleware.RequestID(),
		middleware.RateLimitByIP(rate.Limit(50), 100),
	)
	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	auth := gin.HandlersChain{
		middleware.AuthMiddleware(cfg.JWTSecret),
		middleware.ExtractUserID(),
		middleware.ContextLogger(logger),
		middleware.RateLimitByUser(rate.Limit(10), 20),
	}

	// --- Routes Registration ---
	api := router.Group("/api/v1")
	{
		deduction.RegisterRoutes(api, deductionHandler, auth)
		employee.RegisterRoutes(api, employeeHandler, auth)
		notification.RegisterRoutes(api, notificationHandler, auth)
		payslip.RegisterRoutes(api, payslipHandler, auth, infra.rdb)
	}
}
