package deduction

import (
	"go-payroll/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, auth gin.HandlersChain) {
	deductions := r.Group("/deductions")
	deductions.Use(auth...)
	deductions.Use(middleware.RoleMiddleware(middleware.RoleAdmin))
	{
		deductions.GET("", handler.GetAll)
		deductions.GET("/:id", handler.GetByID)
		deductions.GET("/code/:code", handler.GetByCode)
		deductions.POST("", handler.Create)
		deductions.POST("/seed", handler.SeedDefaults)
		deductions.PUT("/:id", handler.Update)
		deductions.DELETE("/:id", handler.Delete)
	}
}
