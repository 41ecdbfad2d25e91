package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/EhaabShareef/inventory-manage/internal/service"
)

// --- GET: List items ---
func (h *Handler) GetItems(c *gin.Context) {
	search := c.Query("search")
	categoryID, _ := strconv.ParseUint(c.Query("category_id"), 10, 32)
	page, pageSize := pagingQuery(c)

	result, err := h.svc.ListItems(search, uint(categoryID), page, pageSize)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// --- GET: One item ---
func (h *Handler) GetItem(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	item, err := h.svc.GetItem(id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"item": item})
}

// --- POST: Create item ---
func (h *Handler) CreateItem(c *gin.Context) {
	var input service.ItemInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	item, err := h.svc.CreateItem(actor(c), input)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"item": item})
}

// --- PUT: Partial update ---
// A map keeps the update partial: only the keys that were sent change.
func (h *Handler) UpdateItem(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	var changes map[string]interface{}
	if err := c.ShouldBindJSON(&changes); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	item, err := h.svc.UpdateItem(actor(c), id, changes)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Item updated successfully", "item": item})
}

// --- DELETE: Remove item ---
func (h *Handler) DeleteItem(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	if err := h.svc.DeleteItem(actor(c), id); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Item deleted successfully"})
}
