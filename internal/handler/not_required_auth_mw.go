package handler

import (
	"github.com/gin-gonic/gin"
)

// notRequiredAuthMiddleware lets anonymous callers and bad tokens through
// without an identity. A valid token whose profile cannot be stored is kept
// as an identity error for the handler to report.
func (h *Handler) notRequiredAuthMiddleware(c *gin.Context) {
	accessToken := bearerToken(c)
	if accessToken == "" {
		c.Next()
		return
	}

	identity, err := h.identityFromAccessToken(accessToken)
	if err != nil {
		c.Next()
		return
	}

	if err := h.ensureProfile(c.Request.Context(), identity); err != nil {
		c.Set(identityErrorKey, err)
		c.Next()
		return
	}

	c.Set(identityKey, *identity)

	c.Next()
}
