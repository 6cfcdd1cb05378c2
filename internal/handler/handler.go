package handler

import (
	"context"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/spf13/viper"
	"github.com/voro-app/feed-service/internal/model"
	"github.com/voro-app/feed-service/internal/notify"
	"github.com/voro-app/feed-service/internal/service"
	"github.com/voro-app/feed-service/pkg/utils"
)

const (
	identityKey      = "identity"
	identityErrorKey = "identity_error"
)

type Handler struct {
	services     *service.Service
	hub          *notify.Hub
	accessSecret []byte
}

func New(services *service.Service, hub *notify.Hub, accessSecret []byte) *Handler {
	return &Handler{
		services:     services,
		hub:          hub,
		accessSecret: accessSecret,
	}
}

func (h *Handler) InitRoutes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	corsConfig := cors.Config{
		AllowMethods: []string{http.MethodGet, http.MethodPost},
		AllowHeaders: []string{"Origin", "Content-Type", "Authorization"},
	}
	if origins := viper.GetStringSlice("client.origins"); len(origins) > 0 {
		corsConfig.AllowOrigins = origins
		corsConfig.AllowCredentials = true
	} else {
		corsConfig.AllowAllOrigins = true
	}
	r.Use(cors.New(corsConfig))

	v1 := r.Group("/api/v1")
	{
		posts := v1.Group("/posts")
		{
			posts.GET("", h.postsGet)
			posts.POST("", h.notRequiredAuthMiddleware, h.postsCreate)
			posts.POST("/refetch", h.postsRefetch)
			posts.POST("/:postID/like", h.postsLike)
		}

		profiles := v1.Group("/profiles")
		{
			profiles.GET("/me", h.authMiddleware, h.profilesGetMe)
			profiles.GET("/:userID", h.profilesGet)
		}

		v1.GET("/categories", h.categoriesGet)
		v1.GET("/notifications", h.notificationsGet)
	}

	return r
}

// identityFromAccessToken only fails on a bad token.
func (h *Handler) identityFromAccessToken(accessToken string) (*model.Identity, error) {
	claims, err := utils.DecodeJWT(accessToken, h.accessSecret)
	if err != nil {
		return nil, err
	}

	return identityFromClaims(claims)
}

// ensureProfile makes sure the caller has a stored profile so the feed can join it.
func (h *Handler) ensureProfile(ctx context.Context, identity *model.Identity) error {
	_, err := h.services.Profile.CreateOrGet(ctx, *identity)
	return err
}

func identityFromClaims(claims jwt.MapClaims) (*model.Identity, error) {
	subject, _ := claims["sub"].(string)
	if subject == "" {
		subject, _ = claims["id"].(string)
	}
	id, err := uuid.Parse(subject)
	if err != nil {
		return nil, errInvalidClaims
	}

	identity := &model.Identity{ID: id}
	identity.Email, _ = claims["email"].(string)

	if metadata, ok := claims["user_metadata"].(map[string]interface{}); ok {
		if fullName, ok := metadata["full_name"].(string); ok && fullName != "" {
			identity.Metadata.FullName = &fullName
		}
		if avatarURL, ok := metadata["avatar_url"].(string); ok && avatarURL != "" {
			identity.Metadata.AvatarURL = &avatarURL
		}
	}

	return identity, nil
}

func (h *Handler) getIdentityFromRequest(c *gin.Context) *model.Identity {
	value, _ := c.Get(identityKey)

	identity, ok := value.(model.Identity)
	if !ok {
		return nil
	}

	return &identity
}

// getIdentityErrorFromRequest reports a signed-in caller whose profile could not be stored.
func (h *Handler) getIdentityErrorFromRequest(c *gin.Context) error {
	value, _ := c.Get(identityErrorKey)
	err, _ := value.(error)
	return err
}
