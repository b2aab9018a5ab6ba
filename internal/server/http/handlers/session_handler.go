package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/PhamQuy48/storefront/internal/server/http/dto"
)

// SessionHandler reports the identity behind the caller's token. Tokens are
// issued elsewhere; this service only verifies them.
type SessionHandler struct{}

// NewSessionHandler creates SessionHandler instance.
func NewSessionHandler() *SessionHandler {
	return &SessionHandler{}
}

// Current handles GET /api/session.
func (h *SessionHandler) Current(c *gin.Context) {
	identity := CurrentIdentity(c)
	c.JSON(http.StatusOK, dto.SessionResponse{UserID: identity.UserID, Role: string(identity.Role)})
}
