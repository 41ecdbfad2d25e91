package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"github.com/EhaabShareef/inventory-manage/internal/errs"
	"github.com/EhaabShareef/inventory-manage/internal/models"
	"github.com/EhaabShareef/inventory-manage/internal/money"
	"github.com/EhaabShareef/inventory-manage/internal/service"
)

// --- GET: Activity trail ---
// ?users=1,2&action=ITEM_CREATED&start=2026-01-01&end=2026-02-01&page=1
func (h *Handler) GetAuditLogs(c *gin.Context) {
	filter := service.AuditLogFilter{Action: c.Query("action")}
	filter.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))

	if users := c.Query("users"); users != "" {
		for _, part := range strings.Split(users, ",") {
			if id, err := strconv.ParseUint(strings.TrimSpace(part), 10, 32); err == nil && id > 0 {
				filter.UserIDs = append(filter.UserIDs, uint(id))
			}
		}
	}

	start, err := money.ToTimestamp(c.Query("start"))
	if err != nil {
		h.fail(c, errs.NewValidation("start", "Invalid date"))
		return
	}
	filter.Start = start

	end, err := money.ToTimestamp(c.Query("end"))
	if err != nil {
		h.fail(c, errs.NewValidation("end", "Invalid date"))
		return
	}
	filter.End = end

	result, err := h.svc.ListAuditLogs(filter)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// --- GET: Filter panel metadata ---
// Users and distinct actions are independent reads; fetch them jointly.
func (h *Handler) GetAuditLogFilters(c *gin.Context) {
	var (
		users   []models.User
		actions []string
	)

	var g errgroup.Group
	g.Go(func() error {
		var err error
		users, err = h.svc.ListUsers()
		return err
	})
	g.Go(func() error {
		var err error
		actions, err = h.svc.DistinctActions()
		return err
	})
	if err := g.Wait(); err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"users": users, "actions": actions})
}
