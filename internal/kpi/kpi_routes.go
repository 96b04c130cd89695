package kpi

import (
	"go-expense/internal/middleware"
	"go-expense/internal/rbac"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, rbacService rbac.Service) {
	group := r.Group("/kpi")
	group.Use(middleware.AuthMiddleware(), middleware.ExtractUserID())
	{
		group.GET("/supervisors/me", middleware.RBACAuthorize(rbacService, "kpi", "read"), handler.GetSupervisorSnapshot)
		group.GET("/supervisors/:supervisorId", middleware.RBACAuthorize(rbacService, "kpi", "read"), handler.GetSupervisorSnapshot)
	}
}
