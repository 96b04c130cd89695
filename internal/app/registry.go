package app

import (
	"database/sql"
	"path/filepath"

	"go-expense/internal/employee"
	"go-expense/internal/hierarchy"
	"go-expense/internal/kpi"
	"go-expense/internal/messaging/kafka"
	"go-expense/internal/notification"
	"go-expense/internal/rbac"
	"go-expense/internal/rbac/infra"
	"go-expense/internal/report"
	"go-expense/internal/shared/counter"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

func registerModules(
	router *gin.Engine,
	db *sql.DB,
	gormDB *gorm.DB,
	rdb *redis.Client,
) error {
	// --- Repositories ---
	rbacRepo := rbac.NewRepository(gormDB)
	employeeRepo := employee.NewRepository(gormDB)
	reportRepo := report.NewRepository(gormDB)
	kpiRepo := kpi.NewRepository(gormDB)
	notificationRepo := notification.NewRepository(gormDB)
	counterRepo := counter.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(db)
	directory := hierarchy.NewDirectory(gormDB)

	// --- RBAC Core ---
	enforcer, err := infra.NewEnforcer(filepath.Join("internal", "rbac", "infra", "model.conf"))
	if err != nil {
		return err
	}
	rbacService := rbac.NewService(rbacRepo, enforcer)

	// --- Services ---
	resolver := hierarchy.NewResolver(directory)
	employeeService := employee.NewServiceWithOutbox(db, employeeRepo, resolver, outboxRepo, rdb)
	reportService := report.NewServiceWithOutbox(db, reportRepo, resolver, counterRepo, outboxRepo)
	kpiService := kpi.NewService(kpiRepo, resolver)
	notificationService := notification.NewService(notificationRepo)

	// --- Handlers ---
	employeeHandler := employee.NewHandler(employeeService)
	reportHandler := report.NewHandler(reportService)
	kpiHandler := kpi.NewHandler(kpiService)
	notificationHandler := notification.NewHandler(notificationService)

	// --- Routes Registration ---
	api := router.Group("/api/v1")
	{
		employee.RegisterRoutes(api, employeeHandler, rbacService)
		report.RegisterRoutes(api, reportHandler, rbacService, rdb)
		kpi.RegisterRoutes(api, kpiHandler, rbacService)
		notification.RegisterRoutes(api, notificationHandler)
	}

	return nil
}
