package employee

import (
	"go-payroll/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, auth gin.HandlersChain) {
	employees := r.Group("/employees")
	employees.Use(auth...)
	{
		employees.POST("", middleware.RoleMiddleware(middleware.RoleAdmin), handler.Onboard)
		employees.GET("/:id", middleware.RoleMiddleware(middleware.RoleAdmin, middleware.RoleManager), handler.GetByID)
	}
}
