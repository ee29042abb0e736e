package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/arklim/social-platform-publishing/internal/transport/http/middleware"
	"github.com/arklim/social-platform-publishing/internal/usecase"
)

// CommentHandler exposes comment endpoints. The public listing addresses a
// post by slug, mutations address comments and posts by ID.
type CommentHandler struct {
	comments *usecase.CommentService
	content  *usecase.ContentService
}

// NewCommentHandler constructs CommentHandler.
func NewCommentHandler(comments *usecase.CommentService, content *usecase.ContentService) *CommentHandler {
	return &CommentHandler{comments: comments, content: content}
}

// RegisterRoutes binds comment endpoints.
func (h *CommentHandler) RegisterRoutes(public, session *gin.RouterGroup) {
	public.GET("/posts/:slug/comments", h.listForPost)

	session.POST("/posts/:id/comments", h.add)
	session.PUT("/comments/:id", h.update)
	session.DELETE("/comments/:id", h.delete)
}

var commentErrorCases = []ErrorCase{
	{Err: usecase.ErrForbidden, Status: http.StatusForbidden, Message: "not allowed"},
	{Err: usecase.ErrPostNotFound, Status: http.StatusNotFound, Message: "post not found"},
	{Err: usecase.ErrPostNotPublished, Status: http.StatusUnprocessableEntity, Message: "post does not accept comments"},
	{Err: usecase.ErrCommentNotFound, Status: http.StatusNotFound, Message: "comment not found"},
}

// ListForPost godoc
// @Summary List comments on a published post
// @Tags Comments
// @Produce json
// @Param slug path string true "Post slug"
// @Param page query int false "Page number"
// @Param per_page query int false "Page size"
// @Success 200 {object} CommentListResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/v1/posts/{slug}/comments [get]
func (h *CommentHandler) listForPost(c *gin.Context) {
	view, err := h.content.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		RespondWithMappedError(c, err, commentErrorCases, http.StatusInternalServerError, "failed to list comments")
		return
	}

	page, err := h.comments.ListForPost(c.Request.Context(), view.ID, queryInt(c, "page"), queryInt(c, "per_page"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "failed to list comments"))
		return
	}

	payloads := make([]CommentPayload, 0, len(page.Items))
	for _, item := range page.Items {
		payloads = append(payloads, newCommentPayload(item))
	}

	c.JSON(http.StatusOK, CommentListResponse{
		Comments: payloads,
		Total:    page.Total,
		Pages:    page.Pages,
		Page:     page.CurrentPage,
		PerPage:  page.PerPage,
	})
}

// Add godoc
// @Summary Comment on a published post
// @Tags Comments
// @Accept json
// @Produce json
// @Param id path string true "Post ID"
// @Param request body CommentRequest true "Comment payload"
// @Success 201 {object} CommentPayload
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 422 {object} ValidationErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/v1/posts/{id}/comments [post]
func (h *CommentHandler) add(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "authentication required"))
		return
	}

	var req CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid comment payload"))
		return
	}

	comment, err := h.comments.Add(c.Request.Context(), actor, c.Param("id"), req.Content)
	if err != nil {
		RespondWithMappedError(c, err, commentErrorCases, http.StatusInternalServerError, "failed to add comment")
		return
	}

	c.JSON(http.StatusCreated, newCommentRowPayload(comment))
}

// Update godoc
// @Summary Edit an own comment
// @Description Only the comment author or an admin may edit. Absent and
// foreign comments are indistinguishable in the response.
// @Tags Comments
// @Accept json
// @Produce json
// @Param id path string true "Comment ID"
// @Param request body CommentRequest true "Comment payload"
// @Success 200 {object} CommentPayload
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 422 {object} ValidationErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/v1/comments/{id} [put]
func (h *CommentHandler) update(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "authentication required"))
		return
	}

	var req CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid comment payload"))
		return
	}

	comment, err := h.comments.Update(c.Request.Context(), actor, c.Param("id"), req.Content)
	if err != nil {
		RespondWithMappedError(c, err, commentErrorCases, http.StatusInternalServerError, "failed to update comment")
		return
	}

	c.JSON(http.StatusOK, newCommentRowPayload(comment))
}

// Delete godoc
// @Summary Delete an own comment
// @Tags Comments
// @Produce json
// @Param id path string true "Comment ID"
// @Success 200 {object} MessageResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/v1/comments/{id} [delete]
func (h *CommentHandler) delete(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "authentication required"))
		return
	}

	if err := h.comments.Delete(c.Request.Context(), actor, c.Param("id")); err != nil {
		RespondWithMappedError(c, err, commentErrorCases, http.StatusInternalServerError, "failed to delete comment")
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "comment deleted"})
}
