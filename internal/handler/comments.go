package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/BloggingApp/comment-service/internal/dto"
	"github.com/BloggingApp/comment-service/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/spf13/viper"
)

func (h *Handler) listParamsFromQuery(c *gin.Context) service.ListParams {
	params := service.ListParams{
		Reverse: c.Query("reverse") == "1",
		Flat:    c.Query("flat") == "1",
		Group:   c.Query("group") == "1",
	}
	if ids := c.QueryArray("ids"); len(ids) > 0 {
		params.IDs = ids
	}
	return params
}

func (h *Handler) commentsList(c *gin.Context) {
	ref, ok := h.getItemRefFromRequest(c)
	if !ok {
		c.JSON(http.StatusBadRequest, dto.NewBasicResponse(false, errInvalidItemRef.Error()))
		return
	}

	params := h.listParamsFromQuery(c)

	page := 1
	if p := c.Query("p"); p != "" {
		var err error
		if page, err = strconv.Atoi(p); err != nil {
			c.JSON(http.StatusBadRequest, dto.NewBasicResponse(false, errInvalidPagination.Error()))
			return
		}
	}
	pageSize := viper.GetInt("comments.paginate_by")
	if pageSize <= 0 {
		pageSize = 50
	}
	if pby := c.Query("pby"); pby != "" {
		if n, err := strconv.Atoi(pby); err == nil && n > 0 && n <= 100 {
			pageSize = n
		}
	}

	result, err := h.services.Comments.Page(c.Request.Context(), ref, page, pageSize, params)
	if err == service.ErrPageOutOfRange || err == service.ErrInvalidPagination {
		c.JSON(http.StatusNotFound, dto.NewBasicResponse(false, err.Error()))
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, dto.NewBasicResponse(false, err.Error()))
		return
	}

	if params.Group {
		c.JSON(http.StatusOK, gin.H{
			"groups":    service.GroupThreads(result.Comments),
			"page":      result.Page,
			"num_pages": result.NumPages,
			"total":     result.Total,
		})
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *Handler) commentsCount(c *gin.Context) {
	ref, ok := h.getItemRefFromRequest(c)
	if !ok {
		c.JSON(http.StatusBadRequest, dto.NewBasicResponse(false, errInvalidItemRef.Error()))
		return
	}

	count, err := h.services.Comments.Count(c.Request.Context(), ref, c.QueryArray("ids"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, dto.NewBasicResponse(false, err.Error()))
		return
	}

	c.JSON(http.StatusOK, gin.H{"count": count})
}

func (h *Handler) commentsCreate(c *gin.Context) {
	ref, ok := h.getItemRefFromRequest(c)
	if !ok {
		c.JSON(http.StatusBadRequest, dto.NewBasicResponse(false, errInvalidItemRef.Error()))
		return
	}

	var input dto.CreateCommentDto
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewBasicResponse(false, err.Error()))
		return
	}

	user := h.getUserFromRequest(c)
	if user == nil && strings.TrimSpace(input.Name) == "" {
		c.JSON(http.StatusBadRequest, dto.NewBasicResponse(false, "name is required for anonymous comments"))
		return
	}

	createdComment, err := h.services.Comments.Create(c.Request.Context(), ref, user, input)
	if err == service.ErrCommentingBlocked {
		c.JSON(http.StatusForbidden, dto.NewBasicResponse(false, err.Error()))
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, dto.NewBasicResponse(false, err.Error()))
		return
	}

	c.JSON(http.StatusOK, createdComment)
}

func (h *Handler) commentsEdit(c *gin.Context) {
	commentID, ok := h.getCommentIDFromRequest(c)
	if !ok {
		return
	}

	var input dto.EditCommentDto
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewBasicResponse(false, err.Error()))
		return
	}

	user := h.getUserFromRequest(c)

	updated, err := h.services.Comments.UpdateContent(c.Request.Context(), commentID, user, input.Content)
	if err == service.ErrCommentNotFound {
		c.JSON(http.StatusNotFound, dto.NewBasicResponse(false, err.Error()))
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, dto.NewBasicResponse(false, err.Error()))
		return
	}

	c.JSON(http.StatusOK, updated)
}

func (h *Handler) commentsModerate(c *gin.Context) {
	commentID, ok := h.getCommentIDFromRequest(c)
	if !ok {
		return
	}

	var input dto.ModerateCommentDto
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewBasicResponse(false, err.Error()))
		return
	}

	updated, err := h.services.Comments.Moderate(c.Request.Context(), commentID, *input.IsPublic, *input.IsRemoved)
	if err == service.ErrCommentNotFound {
		c.JSON(http.StatusNotFound, dto.NewBasicResponse(false, err.Error()))
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, dto.NewBasicResponse(false, err.Error()))
		return
	}

	c.JSON(http.StatusOK, updated)
}

func (h *Handler) commentsDelete(c *gin.Context) {
	commentID, ok := h.getCommentIDFromRequest(c)
	if !ok {
		return
	}

	if err := h.services.Comments.Delete(c.Request.Context(), commentID); err != nil {
		if err == service.ErrCommentNotFound {
			c.JSON(http.StatusNotFound, dto.NewBasicResponse(false, err.Error()))
			return
		}
		c.JSON(http.StatusInternalServerError, dto.NewBasicResponse(false, err.Error()))
		return
	}

	c.JSON(http.StatusOK, dto.NewBasicResponse(true, ""))
}

func (h *Handler) getCommentIDFromRequest(c *gin.Context) (int64, bool) {
	commentIDString := strings.TrimSpace(c.Param("commentID"))
	commentID, err := strconv.ParseInt(commentIDString, 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.NewBasicResponse(false, errInvalidCommentID.Error()))
		return 0, false
	}
	return commentID, true
}
