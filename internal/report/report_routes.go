package report

import (
	"go-expense/internal/middleware"
	"go-expense/internal/rbac"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService rbac.Service,
	rdb *redis.Client,
) {
	reports := r.Group("/reports")
	reports.Use(middleware.AuthMiddleware(), middleware.ExtractUserID())
	{
		reports.GET("/team", middleware.RBACAuthorize(rbacService, "report", "review"), handler.ListForTeam)
		reports.GET("/employee/:employeeId", middleware.RBACAuthorize(rbacService, "report", "read"), handler.ListByEmployee)
		reports.GET("/:id", middleware.RBACAuthorize(rbacService, "report", "read"), handler.GetById)
		reports.POST("", middleware.RBACAuthorize(rbacService, "report", "create"), middleware.Idempotency(rdb), handler.Upsert)
		reports.POST("/:id/submit", middleware.RBACAuthorize(rbacService, "report", "create"), handler.Submit)
		reports.POST("/:id/approve", middleware.RBACAuthorize(rbacService, "report", "review"), handler.Approve)
		reports.POST("/:id/reject", middleware.RBACAuthorize(rbacService, "report", "review"), handler.Reject)
		reports.POST("/:id/request-revision", middleware.RBACAuthorize(rbacService, "report", "review"), handler.RequestRevision)
		reports.DELETE("/:id", middleware.RBACAuthorize(rbacService, "report", "manage"), handler.Delete)
	}
}
