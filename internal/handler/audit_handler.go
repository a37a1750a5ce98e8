package handler

import (
	"net/http"

	"github.com/zevliandragovets/EcoBankWebsite/internal/middleware"
	"github.com/zevliandragovets/EcoBankWebsite/internal/service"
	"github.com/zevliandragovets/EcoBankWebsite/pkg/pagination"
	"github.com/zevliandragovets/EcoBankWebsite/pkg/response"

	"github.com/gin-gonic/gin"
)

type AuditHandler struct {
	auditService service.AuditService
}

func NewAuditHandler(auditService service.AuditService) *AuditHandler {
	return &AuditHandler{auditService: auditService}
}

func (h *AuditHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/api/audit-logs", middleware.RequireAdmin(), h.GetAuditLogs)
}

// GetAuditLogs returns the audit trail, newest first
// @Summary      List audit logs
// @Tags         audit
// @Produce      json
// @Security     BearerAuth
// @Param        page   query     int  false  "Page number"   default(1)
// @Param        limit  query     int  false  "Page size"     default(20)
// @Success      200    {object}  response.Response
// @Failure      403    {object}  response.Response
// @Router       /api/audit-logs [get]
func (h *AuditHandler) GetAuditLogs(c *gin.Context) {
	p := pagination.Parse(c)

	callerID, callerRole := middleware.Caller(c)
	logs, total, err := h.auditService.GetAuditLogs(c.Request.Context(), callerID, callerRole, p.Page, p.Limit)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, pagination.Envelope(logs, total, p)))
}
