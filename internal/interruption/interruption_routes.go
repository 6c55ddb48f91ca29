package interruption

import (
	"go-leave/internal/middleware"
	"go-leave/internal/rbac"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService rbac.Service,
) {
	// Submission rides on the parent leave; decisions address the
	// interruption itself. Recall initiation goes through RBAC, the
	// remaining checks are identity-based and live in the service.
	leaves := r.Group("/leaves")
	leaves.Use(middleware.AuthMiddleware())
	{
		leaves.POST("/:id/recall", middleware.RBACAuthorize(rbacService, "leave", "interrupt"), handler.SubmitRecall)
		leaves.POST("/:id/early-return", handler.SubmitEarlyReturn)
		leaves.GET("/:id/interruptions", middleware.RBACAuthorize(rbacService, "leave", "read"), handler.GetByLeave)
	}

	interruptions := r.Group("/interruptions")
	interruptions.Use(middleware.AuthMiddleware())
	{
		interruptions.GET("/:id", middleware.RBACAuthorize(rbacService, "leave", "read"), handler.GetById)
		interruptions.POST("/:id/approve", handler.Approve)
		interruptions.POST("/:id/reject", handler.Reject)
	}
}
