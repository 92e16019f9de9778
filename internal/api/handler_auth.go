package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"salon-booking-backend/internal/auth"
	"salon-booking-backend/internal/mw"
)

type loginRequest struct {
	Password string `json:"password"`
}

// Login exchanges the admin password for a bearer token.
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Password == "" {
		writeError(c, auth.ErrInvalidCredential)
		return
	}

	token, err := h.auth.Login(req.Password)
	if err != nil {
		h.log.Info("admin login rejected")
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token})
}

// Me echoes the caller's role.
func (h *Handler) Me(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"role": c.GetString(mw.RoleKey)})
}
