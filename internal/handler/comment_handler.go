package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/explorewithme/internal/service"
	"github.com/gin-gonic/gin"
)

type commentInput struct {
	Text string `json:"text"`
}

// CreateComment 处理 POST /users/:userId/comments/:eventId。
func (a *API) CreateComment(c *gin.Context) {
	userID, err := parseUintParam(c, "userId")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	eventID, err := parseUintParam(c, "eventId")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	var input commentInput
	if !bindJSON(c, &input, "invalid comment body") {
		return
	}

	comment, err := a.comments.Create(userID, eventID, input.Text)
	if err != nil {
		a.respondCommentError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toCommentDTO(*comment))
}

// UpdateComment 处理 PATCH /users/:userId/comments/:eventId/:commentId。
func (a *API) UpdateComment(c *gin.Context) {
	userID, eventID, commentID, ok := parseCommentPath(c)
	if !ok {
		return
	}

	var input commentInput
	if !bindJSON(c, &input, "invalid comment body") {
		return
	}

	comment, err := a.comments.Update(userID, eventID, commentID, input.Text)
	if err != nil {
		a.respondCommentError(c, err)
		return
	}

	c.JSON(http.StatusOK, toCommentDTO(*comment))
}

// DeleteComment 处理 DELETE /users/:userId/comments/:eventId/:commentId。
func (a *API) DeleteComment(c *gin.Context) {
	userID, eventID, commentID, ok := parseCommentPath(c)
	if !ok {
		return
	}

	if err := a.comments.Delete(userID, eventID, commentID); err != nil {
		a.respondCommentError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// FindCommentByID 处理 GET /comments/:commentId。
func (a *API) FindCommentByID(c *gin.Context) {
	commentID, err := parseUintParam(c, "commentId")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	comment, err := a.comments.FindByID(commentID)
	if err != nil {
		a.respondCommentError(c, err)
		return
	}

	c.JSON(http.StatusOK, toCommentDTO(*comment))
}

// FindEventComments 处理 GET /events/:eventId/comments。
func (a *API) FindEventComments(c *gin.Context) {
	eventID, err := parseUintParam(c, "eventId")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	comments, err := a.comments.FindByEvent(eventID)
	if err != nil {
		if errors.Is(err, service.ErrEventNotFound) {
			respondError(c, http.StatusNotFound, fmt.Sprintf("event %d not found", eventID))
			return
		}
		respondError(c, http.StatusInternalServerError, "failed to load comments")
		return
	}

	c.JSON(http.StatusOK, toCommentDTOs(comments))
}

// FindCommentsAdmin 处理 GET /admin/comments。
func (a *API) FindCommentsAdmin(c *gin.Context) {
	rangeStart, ok := parseTimeQuery(c, "rangeStart")
	if !ok {
		return
	}
	rangeEnd, ok := parseTimeQuery(c, "rangeEnd")
	if !ok {
		return
	}
	from, size, ok := parsePaging(c)
	if !ok {
		return
	}

	comments, err := a.comments.SearchAdmin(
		parseUintQuerySlice(c.QueryArray("users")),
		parseUintQuerySlice(c.QueryArray("events")),
		rangeStart, rangeEnd, from, size,
	)
	if err != nil {
		if errors.Is(err, service.ErrInvalidRange) {
			respondError(c, http.StatusBadRequest, err.Error())
			return
		}
		respondError(c, http.StatusInternalServerError, "failed to search comments")
		return
	}

	c.JSON(http.StatusOK, toCommentDTOs(comments))
}

// DeleteCommentAdmin 处理 DELETE /admin/comments/:commentId。
func (a *API) DeleteCommentAdmin(c *gin.Context) {
	commentID, err := parseUintParam(c, "commentId")
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := a.comments.DeleteAdmin(commentID); err != nil {
		a.respondCommentError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func parseCommentPath(c *gin.Context) (userID, eventID, commentID uint, ok bool) {
	var err error
	if userID, err = parseUintParam(c, "userId"); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return 0, 0, 0, false
	}
	if eventID, err = parseUintParam(c, "eventId"); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return 0, 0, 0, false
	}
	if commentID, err = parseUintParam(c, "commentId"); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return 0, 0, 0, false
	}
	return userID, eventID, commentID, true
}

// respondCommentError 将评论相关的业务错误映射为 HTTP 状态码。
func (a *API) respondCommentError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrEventNotFound),
		errors.Is(err, service.ErrUserNotFound),
		errors.Is(err, service.ErrCommentNotFound):
		respondError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrEventNotPublished),
		errors.Is(err, service.ErrCommentBlank):
		respondError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrCommentNotOwned):
		respondError(c, http.StatusConflict, err.Error())
	default:
		respondError(c, http.StatusInternalServerError, "comment operation failed")
	}
}
