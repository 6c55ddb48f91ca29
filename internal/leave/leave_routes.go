package leave

import (
	"go-leave/internal/middleware"
	"go-leave/internal/rbac"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService rbac.Service,
	rdb ...*redis.Client,
) {
	var redisClient *redis.Client
	if len(rdb) > 0 {
		redisClient = rdb[0]
	}

	leaves := r.Group("/leaves")
	leaves.Use(middleware.AuthMiddleware(), middleware.ExtractUserID())
	{
		leaves.GET("", middleware.RBACAuthorize(rbacService, "leave", "read"), handler.GetAll)
		leaves.GET("/mine", handler.GetMine)
		leaves.GET("/pending-approvals", middleware.RBACAuthorize(rbacService, "leave", "approve"), handler.PendingApprovals)
		leaves.GET("/:id", middleware.RBACAuthorize(rbacService, "leave", "read"), handler.GetById)
		createChain := []gin.HandlerFunc{middleware.RBACAuthorize(rbacService, "leave", "create")}
		if redisClient != nil {
			createChain = append(createChain, middleware.Idempotency(redisClient))
		}
		leaves.POST("", append(createChain, handler.Create)...)
		leaves.POST("/:id/approve", middleware.RBACAuthorize(rbacService, "leave", "approve"), handler.Approve)
		leaves.POST("/:id/reject", middleware.RBACAuthorize(rbacService, "leave", "approve"), handler.Reject)
		leaves.POST("/:id/cancel", handler.Cancel)
		leaves.POST("/:id/resume", handler.RecordResume)
	}
}
