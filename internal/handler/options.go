package handler

import (
	"net/http"

	"github.com/BloggingApp/comment-service/internal/dto"
	"github.com/BloggingApp/comment-service/internal/model"
	"github.com/gin-gonic/gin"
)

func (h *Handler) optionsGet(c *gin.Context) {
	ref, ok := h.getItemRefFromRequest(c)
	if !ok {
		c.JSON(http.StatusBadRequest, dto.NewBasicResponse(false, errInvalidItemRef.Error()))
		return
	}

	opts, err := h.services.Options.ForRef(c.Request.Context(), ref)
	if err != nil {
		c.JSON(http.StatusInternalServerError, dto.NewBasicResponse(false, err.Error()))
		return
	}

	c.JSON(http.StatusOK, opts)
}

func (h *Handler) optionsSet(c *gin.Context) {
	ref, ok := h.getItemRefFromRequest(c)
	if !ok {
		c.JSON(http.StatusBadRequest, dto.NewBasicResponse(false, errInvalidItemRef.Error()))
		return
	}

	var input dto.SetCommentOptionsDto
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, dto.NewBasicResponse(false, err.Error()))
		return
	}

	opts := model.CommentOptions{
		Blocked:      input.Blocked,
		Premoderated: input.Premoderated,
	}
	if err := h.services.Options.SetForRef(c.Request.Context(), ref, opts); err != nil {
		c.JSON(http.StatusInternalServerError, dto.NewBasicResponse(false, err.Error()))
		return
	}

	c.JSON(http.StatusOK, opts)
}
