// Package handlers is the thin HTTP boundary: bind input, call the service,
// map the error taxonomy to a status code.
package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/EhaabShareef/inventory-manage/internal/errs"
	"github.com/EhaabShareef/inventory-manage/internal/middleware"
	"github.com/EhaabShareef/inventory-manage/internal/models"
	"github.com/EhaabShareef/inventory-manage/internal/service"
)

type Handler struct {
	svc *service.Service
}

func New(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

// fail maps a service error onto the HTTP status the presentation layer
// expects. Validation failures carry the per-field message map.
func (h *Handler) fail(c *gin.Context, err error) {
	if ve, ok := errs.AsValidation(err); ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Validation failed", "errors": ve.Fields})
		return
	}

	switch {
	case errors.Is(err, errs.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	case errors.Is(err, errs.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": "Already exists"})
	case errors.Is(err, errs.ErrUnauthenticated):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
	case errors.Is(err, errs.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "You do not have permission to perform this action"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

func actor(c *gin.Context) *models.User {
	return middleware.CurrentActor(c)
}

// idParam parses the ":id" path segment.
func idParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID"})
		return 0, false
	}
	return uint(id), true
}

// pagingQuery reads ?page= and ?page_size= with 1-indexed defaults.
func pagingQuery(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", strconv.Itoa(service.DefaultPageSize)))
	return page, pageSize
}
