package app

import (
	"database/sql"
	"path/filepath"

	"go-leave/internal/affiliate"
	"go-leave/internal/approval"
	"go-leave/internal/auth"
	"go-leave/internal/balance"
	"go-leave/internal/department"
	"go-leave/internal/employee"
	"go-leave/internal/interruption"
	"go-leave/internal/leave"
	"go-leave/internal/messaging/kafka"
	"go-leave/internal/rbac"
	"go-leave/internal/rbac/infra"
	rbachttp "go-leave/internal/rbac/rbac_http"
	"go-leave/internal/report"
	"go-leave/internal/shared/config"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func registerModules(
	router *gin.Engine,
	db *sql.DB,
	gormDB *gorm.DB,
	rdb *redis.Client,
	cfg config.Config,
	logger *zap.Logger,
) error {
	// --- Repositories ---
	rbacRepo := rbac.NewRepository(gormDB)
	affiliateRepo := affiliate.NewRepository(gormDB)
	authRepo := auth.NewRepository(gormDB)
	departmentRepo := department.NewRepository(gormDB)
	employeeRepo := employee.NewRepository(gormDB)
	leaveRepo := leave.NewRepository(gormDB)
	interruptionRepo := interruption.NewRepository(gormDB)
	balanceRepo := balance.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(db)

	// --- RBAC Core ---
	enforcer, err := infra.NewEnforcer(filepath.Join("internal", "rbac", "infra", "model.conf"))
	if err != nil {
		return err
	}
	rbacService := rbac.NewService(rbacRepo, enforcer, logger)

	// --- Approval routing ---
	resolver := employee.NewResolver(employeeRepo)
	engine := approval.NewEngine(employeeRepo, resolver, logger)

	// --- Services ---
	authService := auth.NewService(authRepo, rbacService, employeeRepo, logger)
	departmentService := department.NewService(db, departmentRepo, affiliateRepo, logger)
	employeeService := employee.NewService(db, employeeRepo, affiliateRepo, rdb, logger)
	balanceService := balance.NewService(balanceRepo, cfg, logger)
	leaveService := leave.NewService(
		db,
		leaveRepo,
		employeeRepo,
		engine,
		resolver,
		outboxRepo,
		balanceService,
		balanceService,
		cfg,
		logger,
	)
	interruptionService := interruption.NewService(
		db,
		interruptionRepo,
		leaveRepo,
		employeeRepo,
		engine,
		resolver,
		outboxRepo,
		balanceService,
		logger,
	)
	reportService := report.NewService(leaveRepo, interruptionRepo, resolver, logger)

	// --- Handlers ---
	authHandler := auth.NewHandler(authService, logger)
	departmentHandler := department.NewHandler(departmentService, logger)
	employeeHandler := employee.NewHandler(employeeService, logger)
	leaveHandler := leave.NewHandlerWithRedis(leaveService, rdb, logger)
	interruptionHandler := interruption.NewHandler(interruptionService, logger)
	balanceHandler := balance.NewHandler(balanceService, logger)
	reportHandler := report.NewHandler(reportService, logger)
	rbacHandler := rbac.NewHandler(rbacService, logger)

	// --- Routes Registration ---
	api := router.Group("/api/v1")
	{
		auth.RegisterRoutes(api, authHandler)
		department.RegisterRoutes(api, departmentHandler, rbacService)
		employee.RegisterRoutes(api, employeeHandler, rbacService, logger)
		leave.RegisterRoutes(api, leaveHandler, rbacService, rdb)
		interruption.RegisterRoutes(api, interruptionHandler, rbacService)
		balance.RegisterRoutes(api, balanceHandler, rbacService)
		report.RegisterRoutes(api, reportHandler, rbacService)
		rbachttp.RegisterRoutes(api, rbacHandler, rbacService)
	}

	return nil
}
