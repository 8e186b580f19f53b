package payslip

import (
	"go-payroll/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	auth gin.HandlersChain,
	rdb ...*redis.Client,
) {
	var redisClient *redis.Client
	if len(rdb) > 0 {
		redisClient = rdb[0]
	}

	managers := middleware.RoleMiddleware(middleware.RoleAdmin, middleware.RoleManager)
	admins := middleware.RoleMiddleware(middleware.RoleAdmin)

	payslips := r.Group("/payslips")
	payslips.Use(auth...)
	{
		payslips.GET("/me", handler.GetMine)
		payslips.GET("/me/:month/:year", handler.GetMineForPeriod)

		payslips.GET("/employee/:employeeId", managers, handler.GetByEmployee)
		payslips.GET("/period/:month/:year", managers, handler.GetByPeriod)
		payslips.GET("/:id", managers, handler.GetByID)
		payslips.GET("/:id/pdf", managers, handler.DownloadPDF)

		payslips.POST("/:id/approve", admins, handler.Approve)
		if redisClient != nil {
			payslips.POST("/generate", managers, middleware.Idempotency(redisClient), handler.Generate)
			payslips.POST("/period/:month/:year/approve", admins, middleware.Idempotency(redisClient), handler.ApproveAll)
		} else {
			payslips.POST("/generate", managers, handler.Generate)
			payslips.POST("/period/:month/:year/approve", admins, handler.ApproveAll)
		}
	}
}
