package kpi

import (
	"net/http"

	"go-expense/internal/shared/apperror"
	"go-expense/internal/shared/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	service Service
	logger  *zap.Logger
}

func NewHandler(service Service, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("kpi.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("kpi.handler")
	}
	return &Handler{service: service, logger: l}
}

func getActorID(c *gin.Context) string {
	actorID := c.GetString("employee_id")
	if actorID == "" {
		actorID = c.GetString("user_id_validated")
	}
	return actorID
}

// GetSupervisorSnapshot serves /kpi/supervisors/:supervisorId. Without the
// path param it defaults to the caller's own metrics.
func (h *Handler) GetSupervisorSnapshot(c *gin.Context) {
	companyID := c.GetString("company_id")
	actorID := getActorID(c)

	supervisorID := c.Param("supervisorId")
	if supervisorID == "" {
		supervisorID = actorID
	}

	snapshot, err := h.service.SnapshotForSupervisor(c.Request.Context(), companyID, actorID, supervisorID)
	if err != nil {
		httpErr := apperror.ToHTTP(err)
		h.logger.Warn("kpi snapshot failed",
			zap.String("supervisor_id", supervisorID),
			zap.Int("status", httpErr.Status),
			zap.String("code", httpErr.Code),
		)
		response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
		return
	}

	response.Success(c, http.StatusOK, snapshot, nil)
}
