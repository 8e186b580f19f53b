package notification

import (
	"go-payroll/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, auth gin.HandlersChain) {
	notifications := r.Group("/notifications")
	notifications.Use(auth...)
	notifications.Use(middleware.RoleMiddleware(middleware.RoleAdmin, middleware.RoleManager))
	{
		notifications.GET("", handler.List)
		notifications.GET("/:id", handler.GetByID)
		notifications.POST("/:id/resend", handler.Resend)
	}
}
