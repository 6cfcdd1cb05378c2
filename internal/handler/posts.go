package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/voro-app/feed-service/internal/dto"
	"github.com/voro-app/feed-service/internal/model"
	"github.com/voro-app/feed-service/internal/notify"
	"github.com/voro-app/feed-service/internal/service"
)

func (h *Handler) postsGet(c *gin.Context) {
	var input dto.GetPostsRequest
	if err := c.ShouldBindQuery(&input); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(err))
		return
	}

	kind := model.Kind(strings.ToLower(strings.TrimSpace(input.Kind)))
	if kind != "" && !kind.Valid() {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(service.ErrInvalidKind))
		return
	}

	var category string
	if strings.TrimSpace(input.Category) != "" {
		parsed, ok := model.ParseCategory(input.Category)
		if !ok {
			c.JSON(http.StatusBadRequest, dto.NewErrorResponse(service.ErrInvalidCategory))
			return
		}
		category = parsed.Title
	}

	c.JSON(http.StatusOK, dto.GetPosts{
		Posts:   h.services.Feed.Filter(kind, category),
		Loading: h.services.Feed.Loading(),
	})
}

func (h *Handler) postsRefetch(c *gin.Context) {
	if err := h.services.Feed.Load(c.Request.Context()); err != nil {
		c.JSON(http.StatusInternalServerError, dto.NewErrorResponse(err))
		return
	}

	c.JSON(http.StatusOK, dto.GetPosts{
		Posts:   h.services.Feed.Posts(),
		Loading: h.services.Feed.Loading(),
	})
}

func (h *Handler) postsCreate(c *gin.Context) {
	if err := h.getIdentityErrorFromRequest(c); err != nil {
		h.services.Notifier.Notify(notify.Error("Failed to create post"))
		c.JSON(http.StatusInternalServerError, dto.CreatePost{BasicResponse: dto.NewErrorResponse(service.ErrInternal)})
		return
	}

	identity := h.getIdentityFromRequest(c)

	var input dto.CreatePostRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(err))
		return
	}

	createdPost, err := h.services.Feed.Create(c.Request.Context(), identity, input)
	if err != nil {
		c.JSON(createStatus(err), dto.CreatePost{BasicResponse: dto.NewErrorResponse(err)})
		return
	}

	c.JSON(http.StatusCreated, dto.CreatePost{
		BasicResponse: dto.NewBasicResponse(true, ""),
		Post:          createdPost,
	})
}

func createStatus(err error) int {
	switch {
	case errors.Is(err, service.ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrEmptyCaption),
		errors.Is(err, service.ErrInvalidKind),
		errors.Is(err, service.ErrInvalidCategory):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handler) postsLike(c *gin.Context) {
	postID, err := uuid.Parse(strings.TrimSpace(c.Param("postID")))
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(errInvalidPostID))
		return
	}

	if err := h.services.Feed.Like(c.Request.Context(), postID); err != nil {
		c.JSON(http.StatusInternalServerError, dto.NewErrorResponse(err))
		return
	}

	c.JSON(http.StatusOK, dto.NewBasicResponse(true, ""))
}
