package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/EhaabShareef/inventory-manage/internal/service"
)

// --- GET: List quotes ---
func (h *Handler) GetQuotes(c *gin.Context) {
	page, pageSize := pagingQuery(c)

	result, err := h.svc.ListQuotes(c.Query("search"), c.Query("category"), page, pageSize)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// --- GET: One quote with joined catalog data ---
func (h *Handler) GetQuote(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	quote, err := h.svc.GetQuote(id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"quote": quote})
}

// --- POST: Create quote (header + lines, atomic) ---
func (h *Handler) CreateQuote(c *gin.Context) {
	var input service.QuoteInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	quote, err := h.svc.CreateQuote(actor(c), input)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"quote": quote})
}

// --- PUT: Full update (lines replaced wholesale) ---
func (h *Handler) UpdateQuote(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	var input service.QuoteInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	quote, err := h.svc.UpdateQuote(actor(c), id, input)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"quote": quote})
}

type StatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// --- PUT: Status only ---
func (h *Handler) UpdateQuoteStatus(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	var input StatusRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	quote, err := h.svc.UpdateStatus(actor(c), id, input.Status)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"quote": quote})
}

// --- DELETE: Remove quote and its lines ---
func (h *Handler) DeleteQuote(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	if err := h.svc.DeleteQuote(actor(c), id); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Quote deleted successfully"})
}
