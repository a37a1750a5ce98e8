package handler

import (
	"net/http"

	"github.com/zevliandragovets/EcoBankWebsite/internal/middleware"
	"github.com/zevliandragovets/EcoBankWebsite/internal/service"
	"github.com/zevliandragovets/EcoBankWebsite/pkg/response"

	"github.com/gin-gonic/gin"
)

type StatisticsHandler struct {
	statsService service.StatisticsService
}

func NewStatisticsHandler(statsService service.StatisticsService) *StatisticsHandler {
	return &StatisticsHandler{statsService: statsService}
}

func (h *StatisticsHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/api/statistics/dashboard", middleware.RequireAdmin(), h.Dashboard)
}

// Dashboard returns aggregate counts and completed totals for the admin view
// @Summary      Dashboard statistics
// @Tags         statistics
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response{data=service.DashboardStats}
// @Failure      403  {object}  response.Response
// @Router       /api/statistics/dashboard [get]
func (h *StatisticsHandler) Dashboard(c *gin.Context) {
	callerID, callerRole := middleware.Caller(c)
	stats, err := h.statsService.Dashboard(c.Request.Context(), callerID, callerRole)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, stats))
}
