package handler

import (
	"context"
	"strconv"
	"strings"

	"github.com/BloggingApp/comment-service/internal/model"
	"github.com/BloggingApp/comment-service/internal/service"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/spf13/viper"
)

type Handler struct {
	services *service.Service
}

func New(services *service.Service) *Handler {
	return &Handler{
		services: services,
	}
}

func (h *Handler) InitRoutes() *gin.Engine {
	r := gin.New()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{viper.GetString("client.origin")},
		AllowMethods:     []string{"POST", "GET", "PATCH", "PUT", "DELETE"},
		AllowCredentials: true,
	}))

	v1 := r.Group("/api/v1")
	{
		items := v1.Group("/items/:contentTypeID/:objectPK")
		{
			comments := items.Group("/comments")
			{
				comments.GET("", h.commentsList)
				comments.GET("/count", h.commentsCount)
				comments.POST("", h.notRequiredAuthMiddleware, h.commentsCreate)
			}

			options := items.Group("/options")
			{
				options.GET("", h.optionsGet)
				options.PUT("", h.moderatorMiddleware, h.optionsSet)
			}
		}

		comments := v1.Group("/comments/:commentID")
		{
			comments.PATCH("", h.authMiddleware, h.commentsEdit)
			comments.PATCH("/moderation", h.moderatorMiddleware, h.commentsModerate)
			comments.DELETE("", h.moderatorMiddleware, h.commentsDelete)
		}

		v1.GET("/rankings/:policy", h.rankingsTop)
	}

	return r
}

func (h *Handler) getItemRefFromRequest(c *gin.Context) (model.ItemRef, bool) {
	contentTypeIDString := strings.TrimSpace(c.Param("contentTypeID"))
	contentTypeID, err := strconv.ParseInt(contentTypeIDString, 10, 64)
	if err != nil {
		return model.ItemRef{}, false
	}

	objectPK := strings.TrimSpace(c.Param("objectPK"))
	if objectPK == "" {
		return model.ItemRef{}, false
	}

	return model.ItemRef{ContentTypeID: contentTypeID, ObjectPK: objectPK}, true
}

func (h *Handler) getUserDataFromClaims(ctx context.Context, claims jwt.MapClaims) (*model.CachedUser, error) {
	idString, ok := claims["id"].(string)
	if !ok {
		return nil, errNotAuthorized
	}
	id, err := uuid.Parse(idString)
	if err != nil {
		return nil, err
	}

	user, err := h.services.UserCache.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	return user, nil
}

func (h *Handler) getUserFromRequest(c *gin.Context) *model.CachedUser {
	userReq, _ := c.Get("cached-user")

	user, ok := userReq.(model.CachedUser)
	if !ok {
		return nil
	}

	return &user
}
