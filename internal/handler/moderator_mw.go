package handler

import (
	"net/http"
	"os"
	"strings"

	"github.com/BloggingApp/comment-service/internal/dto"
	"github.com/BloggingApp/comment-service/pkg/utils"
	"github.com/gin-gonic/gin"
)

func (h *Handler) moderatorMiddleware(c *gin.Context) {
	accessToken, ok := bearerToken(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, dto.NewBasicResponse(false, errNotAuthorized.Error()))
		c.Abort()
		return
	}

	claims, err := utils.DecodeJWT(accessToken, []byte(os.Getenv("ACCESS_SECRET")))
	if err != nil {
		c.JSON(http.StatusUnauthorized, dto.NewBasicResponse(false, errNotAuthorized.Error()))
		c.Abort()
		return
	}

	role, _ := claims["role"].(string)
	role = strings.ToLower(role)
	if role != "mod" && role != "admin" {
		c.JSON(http.StatusForbidden, dto.NewBasicResponse(false, "no access"))
		c.Abort()
		return
	}

	user, err := h.getUserDataFromClaims(c.Request.Context(), claims)
	if err != nil || user == nil {
		c.JSON(http.StatusInternalServerError, dto.NewBasicResponse(false, errNotAuthorized.Error()))
		c.Abort()
		return
	}

	c.Set("cached-user", *user)

	c.Next()
}
