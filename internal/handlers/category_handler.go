package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type CategoryRequest struct {
	Name string `json:"name"`
}

// --- GET: List categories (with item counts) ---
func (h *Handler) GetCategories(c *gin.Context) {
	categories, err := h.svc.ListCategories(c.Query("search"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": categories})
}

// --- POST: Create category ---
func (h *Handler) CreateCategory(c *gin.Context) {
	var input CategoryRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	category, err := h.svc.CreateCategory(actor(c), input.Name)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"category": category})
}

// --- PUT: Rename category ---
func (h *Handler) UpdateCategory(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	var input CategoryRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	category, err := h.svc.UpdateCategory(actor(c), id, input.Name)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"category": category})
}

// --- DELETE: Remove category ---
func (h *Handler) DeleteCategory(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	if err := h.svc.DeleteCategory(actor(c), id); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Category deleted successfully"})
}
