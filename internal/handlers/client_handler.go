package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/EhaabShareef/inventory-manage/internal/service"
)

// --- GET: List clients ---
func (h *Handler) GetClients(c *gin.Context) {
	page, pageSize := pagingQuery(c)

	result, err := h.svc.ListClients(c.Query("search"), page, pageSize)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// --- GET: One client by its unique resort name ---
func (h *Handler) GetClientByResortName(c *gin.Context) {
	client, err := h.svc.GetClientByResortName(c.Param("resortName"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"client": client})
}

// --- POST: Create client ---
func (h *Handler) CreateClient(c *gin.Context) {
	var input service.ClientInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	client, err := h.svc.CreateClient(actor(c), input)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"client": client})
}

// --- PUT: Partial update ---
func (h *Handler) UpdateClient(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	var changes map[string]interface{}
	if err := c.ShouldBindJSON(&changes); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	client, err := h.svc.UpdateClient(actor(c), id, changes)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"client": client})
}

// --- DELETE: Remove client ---
func (h *Handler) DeleteClient(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	if err := h.svc.DeleteClient(actor(c), id); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Client deleted successfully"})
}
