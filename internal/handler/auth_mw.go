package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/voro-app/feed-service/internal/dto"
	"github.com/voro-app/feed-service/internal/service"
)

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
}

func (h *Handler) authMiddleware(c *gin.Context) {
	accessToken := bearerToken(c)
	if accessToken == "" {
		c.JSON(http.StatusUnauthorized, dto.NewErrorResponse(errNotAuthorized))
		c.Abort()
		return
	}

	identity, err := h.identityFromAccessToken(accessToken)
	if err != nil {
		c.JSON(http.StatusUnauthorized, dto.NewErrorResponse(errNotAuthorized))
		c.Abort()
		return
	}

	if err := h.ensureProfile(c.Request.Context(), identity); err != nil {
		c.JSON(http.StatusInternalServerError, dto.NewErrorResponse(service.ErrInternal))
		c.Abort()
		return
	}

	c.Set(identityKey, *identity)

	c.Next()
}
