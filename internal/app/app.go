package app

import (
	"context"
	"os"

	"go-leave/internal/auth"
	"go-leave/internal/employee"
	"go-leave/internal/shared/config"
	"go-leave/internal/shared/connection"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func BuildApp(router *gin.Engine) error {
	logger := zap.L().Named("app")

	gormDB, err := connection.ConnectGORMWithRetry(
		os.Getenv("DB_HOST"),
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"),
		os.Getenv("DB_PORT"),
		os.Getenv("DB_SSLMODE"),
		5,
	)
	if err != nil {
		return err
	}
	logger.Info("database connection established")

	sqlDB, err := gormDB.DB()
	if err != nil {
		return err
	}

	redisClient, err := connection.ConnectRedisWithRetry(os.Getenv("REDIS_ADDR"), 5)
	if err != nil {
		return err
	}
	logger.Info("redis connection established")

	cfg := config.Load()

	if err := registerModules(router, sqlDB, gormDB, redisClient, cfg, logger); err != nil {
		return err
	}

	seedAdminUser(gormDB, logger)

	return nil
}

// seedAdminUser creates the bootstrap administrator account on first
// start. Controlled by ADMIN_EMAIL/ADMIN_PASSWORD; a failure here only
// logs, the API still serves existing accounts.
func seedAdminUser(gormDB *gorm.DB, logger *zap.Logger) {
	email := os.Getenv("ADMIN_EMAIL")
	password := os.Getenv("ADMIN_PASSWORD")
	if email == "" || password == "" {
		return
	}

	ctx := context.Background()
	authRepo := auth.NewRepository(gormDB)
	employeeRepo := employee.NewRepository(gormDB)

	if _, err := authRepo.GetByEmail(ctx, email); err == nil {
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		logger.Error("seed admin hash failed", zap.Error(err))
		return
	}

	emp := &employee.Employee{
		ID:       uuid.New(),
		FullName: "System Administrator",
		Email:    email,
		Role:     employee.RoleAdmin,
		IsActive: true,
	}
	if err := employeeRepo.Create(ctx, emp); err != nil {
		logger.Error("seed admin employee failed", zap.Error(err))
		return
	}

	empID := emp.ID
	user := &auth.User{
		ID:         uuid.New(),
		EmployeeID: &empID,
		Name:       emp.FullName,
		Email:      email,
		Password:   string(hashed),
		Role:       employee.RoleAdmin,
		IsActive:   true,
	}
	if err := authRepo.Create(ctx, user); err != nil {
		logger.Error("seed admin user failed", zap.Error(err))
		return
	}

	logger.Info("admin account seeded", zap.String("email", email))
}
