package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/BloggingApp/comment-service/internal/dto"
	"github.com/BloggingApp/comment-service/internal/service"
	"github.com/gin-gonic/gin"
)

func (h *Handler) rankingsTop(c *gin.Context) {
	policy, err := service.ParsePolicy(strings.TrimSpace(c.Param("policy")))
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.NewBasicResponse(false, err.Error()))
		return
	}

	scope, ok := parseScope(c.DefaultQuery("scope", "global"))
	if !ok {
		c.JSON(http.StatusBadRequest, dto.NewBasicResponse(false, errInvalidScope.Error()))
		return
	}

	limit := 10
	if l := c.Query("limit"); l != "" {
		if n, err := strconv.Atoi(l); err == nil && n > 0 && n <= 100 {
			limit = n
		}
	}

	ranked, err := h.services.Rankings.Top(c.Request.Context(), policy, scope, 0, int64(limit)-1)
	if err != nil {
		c.JSON(http.StatusInternalServerError, dto.NewBasicResponse(false, err.Error()))
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": ranked})
}

func parseScope(s string) (service.Scope, bool) {
	if s == "global" {
		return service.Scope{Kind: service.ScopeGlobal}, true
	}

	kind, idString, ok := strings.Cut(s, ":")
	if !ok {
		return service.Scope{}, false
	}
	id, err := strconv.ParseInt(idString, 10, 64)
	if err != nil {
		return service.Scope{}, false
	}

	switch kind {
	case "cat":
		return service.Scope{Kind: service.ScopeCategory, ID: id}, true
	case "ct":
		return service.Scope{Kind: service.ScopeContentType, ID: id}, true
	default:
		return service.Scope{}, false
	}
}
