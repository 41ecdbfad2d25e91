package handlers

import (
	"net/http"
	"os"

	"github.com/gin-gonic/gin"

	"github.com/EhaabShareef/inventory-manage/internal/service"
)

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// cookieMaxAge matches the token's 1-day validity window.
const cookieMaxAge = 86400

func (h *Handler) Login(c *gin.Context) {
	var input LoginRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	user, token, err := h.svc.Login(input.Username, input.Password)
	if err != nil {
		// Unknown user and wrong password look the same on purpose
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	secure := os.Getenv("GIN_MODE") == "release"
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie("token", token, cookieMaxAge, "/", "", secure, true)

	c.JSON(http.StatusOK, gin.H{
		"token":    token,
		"role":     user.Role,
		"username": user.Username,
	})
}

func (h *Handler) Logout(c *gin.Context) {
	h.svc.Logout(actor(c))

	c.SetCookie("token", "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

// Register only exists while ALLOW_REGISTRATION is enabled in .env.
func (h *Handler) Register(c *gin.Context) {
	var input service.UserInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	user, err := h.svc.Register(input)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "User created successfully", "user": user})
}
