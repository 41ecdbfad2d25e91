package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/EhaabShareef/inventory-manage/internal/service"
)

// --- GET: List users ---
func (h *Handler) GetUsers(c *gin.Context) {
	users, err := h.svc.ListUsers()
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users})
}

// --- POST: Create user ---
func (h *Handler) CreateUser(c *gin.Context) {
	var input service.UserInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	user, err := h.svc.CreateUser(actor(c), input)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"user": user})
}

// --- PUT: Partial update ---
func (h *Handler) UpdateUser(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	var changes map[string]interface{}
	if err := c.ShouldBindJSON(&changes); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	user, err := h.svc.UpdateUser(actor(c), id, changes)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

type PasswordResetRequest struct {
	Password string `json:"password" binding:"required"`
}

// --- POST: Reset password ---
func (h *Handler) ResetPassword(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	var input PasswordResetRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	if err := h.svc.ResetPassword(actor(c), id, input.Password); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Password reset successfully"})
}

// --- DELETE: Remove user ---
func (h *Handler) DeleteUser(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	if err := h.svc.DeleteUser(actor(c), id); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "User deleted successfully"})
}
