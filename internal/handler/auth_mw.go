package handler

import (
	"context"
	"net/http"
	"os"
	"strings"

	"github.com/BloggingApp/comment-service/internal/dto"
	"github.com/BloggingApp/comment-service/internal/model"
	"github.com/BloggingApp/comment-service/pkg/utils"
	"github.com/gin-gonic/gin"
)

func (h *Handler) authMiddleware(c *gin.Context) {
	accessToken, ok := bearerToken(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, dto.NewBasicResponse(false, errNotAuthorized.Error()))
		c.Abort()
		return
	}

	user, err := h.getUserDataFromAccessToken(c.Request.Context(), accessToken)
	if err != nil {
		c.JSON(http.StatusUnauthorized, dto.NewBasicResponse(false, errNotAuthorized.Error()))
		c.Abort()
		return
	}

	c.Set("cached-user", *user)

	c.Next()
}

func (h *Handler) getUserDataFromAccessToken(ctx context.Context, accessToken string) (*model.CachedUser, error) {
	claims, err := utils.DecodeJWT(accessToken, []byte(os.Getenv("ACCESS_SECRET")))
	if err != nil {
		return nil, err
	}

	user, err := h.getUserDataFromClaims(ctx, claims)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, errNotAuthorized
	}

	return user, nil
}

func bearerToken(c *gin.Context) (string, bool) {
	header := c.GetHeader("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return "", false
	}

	accessToken := strings.Split(header, " ")[1]
	if accessToken == "" {
		return "", false
	}

	return accessToken, true
}
