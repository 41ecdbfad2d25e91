package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// --- GET: Dashboard summary ---
func (h *Handler) GetDashboard(c *gin.Context) {
	stats, err := h.svc.DashboardStats(actor(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
