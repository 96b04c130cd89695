package notification

import (
	"go-expense/internal/middleware"

	"github.com/gin-gonic/gin"
)

// Notifications are always scoped to the authenticated employee, so no RBAC
// resource check is needed beyond authentication itself.
func RegisterRoutes(r *gin.RouterGroup, handler *Handler) {
	notifications := r.Group("/notifications")
	notifications.Use(middleware.AuthMiddleware(), middleware.ExtractUserID())
	{
		notifications.GET("", handler.List)
		notifications.PUT("/:id/read", handler.MarkRead)
		notifications.PUT("/read-all", handler.MarkAllRead)
	}
}
