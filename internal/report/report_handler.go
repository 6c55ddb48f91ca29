package report

import (
	"bytes"
	"net/http"

	"go-leave/internal/shared/apperror"
	"go-leave/internal/shared/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	service Service
	logger  *zap.Logger
}

func NewHandler(service Service, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("report.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("report.handler")
	}
	return &Handler{service: service, logger: l}
}

// LeaveAuditCSV renders the full audit trail. The CSV is assembled
// before any header goes out so a failed read still returns the normal
// error envelope.
func (h *Handler) LeaveAuditCSV(c *gin.Context) {
	var buf bytes.Buffer
	if err := h.service.WriteLeaveAudit(c.Request.Context(), &buf); err != nil {
		httpErr := apperror.ToHTTP(err)
		h.logger.Warn("audit export failed",
			zap.Int("status", httpErr.Status),
			zap.String("code", httpErr.Code),
		)
		response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="leave-audit.csv"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}
