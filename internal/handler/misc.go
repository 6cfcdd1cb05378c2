package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/voro-app/feed-service/internal/dto"
	"github.com/voro-app/feed-service/internal/model"
)

func (h *Handler) categoriesGet(c *gin.Context) {
	c.JSON(http.StatusOK, model.Categories)
}

func (h *Handler) notificationsGet(c *gin.Context) {
	c.JSON(http.StatusOK, h.hub.Recent())
}

func (h *Handler) profilesGet(c *gin.Context) {
	userID, err := uuid.Parse(strings.TrimSpace(c.Param("userID")))
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(errInvalidUserID))
		return
	}

	profile, err := h.services.Profile.FindByID(c.Request.Context(), userID)
	if err != nil {
		if err == pgx.ErrNoRows {
			c.JSON(http.StatusNotFound, dto.NewErrorResponse(errProfileNotFound))
			return
		}
		c.JSON(http.StatusInternalServerError, dto.NewErrorResponse(err))
		return
	}

	c.JSON(http.StatusOK, profile)
}

func (h *Handler) profilesGetMe(c *gin.Context) {
	identity := h.getIdentityFromRequest(c)

	profile, err := h.services.Profile.FindByID(c.Request.Context(), identity.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, dto.NewErrorResponse(err))
		return
	}

	c.JSON(http.StatusOK, profile)
}
