package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/arklim/social-platform-publishing/internal/core/domain"
	"github.com/arklim/social-platform-publishing/internal/transport/http/middleware"
	"github.com/arklim/social-platform-publishing/internal/usecase"
)

// PostHandler exposes post listing and lifecycle endpoints.
type PostHandler struct {
	content *usecase.ContentService
}

// NewPostHandler constructs PostHandler.
func NewPostHandler(content *usecase.ContentService) *PostHandler {
	return &PostHandler{content: content}
}

// RegisterRoutes binds post endpoints. Reads are public, mutations require a
// session.
func (h *PostHandler) RegisterRoutes(public, session *gin.RouterGroup) {
	public.GET("/posts", h.list)
	public.GET("/posts/popular", h.popular)
	public.GET("/posts/recent", h.recent)
	public.GET("/posts/:slug", h.getBySlug)

	session.POST("/posts", h.create)
	session.GET("/posts/mine", h.mine)
	session.PUT("/posts/:id", h.update)
	session.DELETE("/posts/:id", h.delete)
}

var postErrorCases = []ErrorCase{
	{Err: usecase.ErrForbidden, Status: http.StatusForbidden, Message: "not allowed"},
	{Err: usecase.ErrPostNotFound, Status: http.StatusNotFound, Message: "post not found"},
	{Err: usecase.ErrSlugExhausted, Status: http.StatusConflict, Message: "could not allocate a unique slug"},
}

// List godoc
// @Summary List published posts
// @Description Returns published posts newest first, optionally narrowed by
// category and a title/content search term.
// @Tags Posts
// @Produce json
// @Param page query int false "Page number"
// @Param per_page query int false "Page size"
// @Param category query string false "Category ID filter"
// @Param q query string false "Search term"
// @Success 200 {object} PostListResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/v1/posts [get]
func (h *PostHandler) list(c *gin.Context) {
	input := usecase.ListPostsInput{
		Page:       queryInt(c, "page"),
		PerPage:    queryInt(c, "per_page"),
		CategoryID: c.Query("category"),
		Search:     c.Query("q"),
	}

	page, err := h.content.ListPublished(c.Request.Context(), input)
	if err != nil {
		c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "failed to list posts"))
		return
	}

	c.JSON(http.StatusOK, newPostListResponse(page))
}

// Popular godoc
// @Summary List the most viewed published posts
// @Tags Posts
// @Produce json
// @Param limit query int false "Number of posts"
// @Success 200 {object} PostListResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/v1/posts/popular [get]
func (h *PostHandler) popular(c *gin.Context) {
	views, err := h.content.Popular(c.Request.Context(), queryInt(c, "limit"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "failed to list posts"))
		return
	}

	c.JSON(http.StatusOK, PostListResponse{Posts: newPostPayloads(views), Total: len(views)})
}

// Recent godoc
// @Summary List the most recently published posts
// @Tags Posts
// @Produce json
// @Param limit query int false "Number of posts"
// @Success 200 {object} PostListResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/v1/posts/recent [get]
func (h *PostHandler) recent(c *gin.Context) {
	views, err := h.content.Recent(c.Request.Context(), queryInt(c, "limit"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "failed to list posts"))
		return
	}

	c.JSON(http.StatusOK, PostListResponse{Posts: newPostPayloads(views), Total: len(views)})
}

// GetBySlug godoc
// @Summary Fetch a single post by slug
// @Description Returns the post and registers a view. View counting failures
// never affect the response.
// @Tags Posts
// @Produce json
// @Param slug path string true "Post slug"
// @Success 200 {object} PostPayload
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/v1/posts/{slug} [get]
func (h *PostHandler) getBySlug(c *gin.Context) {
	view, err := h.content.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		RespondWithMappedError(c, err, postErrorCases, http.StatusInternalServerError, "failed to fetch post")
		return
	}

	h.content.RegisterView(c.Request.Context(), view.ID)

	c.JSON(http.StatusOK, newPostPayload(*view))
}

// Create godoc
// @Summary Create a post
// @Description Accepts JSON or multipart form data. Multipart submissions may
// carry an image part; the slug is derived from the title and suffixed until
// unique.
// @Tags Posts
// @Accept json
// @Accept multipart/form-data
// @Produce json
// @Success 201 {object} PostResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Failure 422 {object} ValidationErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/v1/posts [post]
func (h *PostHandler) create(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "authentication required"))
		return
	}

	input, cleanup, err := bindPostInput(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid post payload"))
		return
	}
	defer cleanup()

	post, err := h.content.CreatePost(c.Request.Context(), actor, usecase.CreatePostInput(input))
	if err != nil {
		RespondWithMappedError(c, err, postErrorCases, http.StatusInternalServerError, "failed to create post")
		return
	}

	c.JSON(http.StatusCreated, PostResponse{Post: newPostSummaryPayload(post)})
}

// Mine godoc
// @Summary List the caller's posts including drafts
// @Tags Posts
// @Produce json
// @Param page query int false "Page number"
// @Param per_page query int false "Page size"
// @Success 200 {object} PostListResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/v1/posts/mine [get]
func (h *PostHandler) mine(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "authentication required"))
		return
	}

	page, err := h.content.ListByAuthor(c.Request.Context(), actor, queryInt(c, "page"), queryInt(c, "per_page"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "failed to list posts"))
		return
	}

	c.JSON(http.StatusOK, newPostListResponse(page))
}

// Update godoc
// @Summary Replace a post's content
// @Description Only the author or an admin may update a post. The slug never
// changes after creation.
// @Tags Posts
// @Accept json
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "Post ID"
// @Success 200 {object} PostResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 422 {object} ValidationErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/v1/posts/{id} [put]
func (h *PostHandler) update(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "authentication required"))
		return
	}

	input, cleanup, err := bindPostInput(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid post payload"))
		return
	}
	defer cleanup()

	post, err := h.content.UpdatePost(c.Request.Context(), actor, c.Param("id"), usecase.UpdatePostInput(input))
	if err != nil {
		RespondWithMappedError(c, err, postErrorCases, http.StatusInternalServerError, "failed to update post")
		return
	}

	c.JSON(http.StatusOK, PostResponse{Post: newPostSummaryPayload(post)})
}

// Delete godoc
// @Summary Delete a post
// @Description Removes the post, its comments, its category links, and its
// stored image. Only the author or an admin may delete it.
// @Tags Posts
// @Produce json
// @Param id path string true "Post ID"
// @Success 200 {object} MessageResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/v1/posts/{id} [delete]
func (h *PostHandler) delete(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "authentication required"))
		return
	}

	if err := h.content.DeletePost(c.Request.Context(), actor, c.Param("id")); err != nil {
		RespondWithMappedError(c, err, postErrorCases, http.StatusInternalServerError, "failed to delete post")
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "post deleted"})
}

// postInput is the transport-level shape shared by create and update. It
// converts 1:1 into the usecase inputs.
type postInput struct {
	Title       string
	Content     string
	CategoryIDs []string
	Status      domain.PostStatus
	Image       *usecase.ImageUpload
}

// bindPostInput reads a post payload from either a JSON body or a multipart
// form. The returned cleanup closes any opened file part and is always safe
// to call.
func bindPostInput(c *gin.Context) (postInput, func(), error) {
	cleanup := func() {}

	if strings.HasPrefix(c.ContentType(), "multipart/form-data") {
		if err := c.Request.ParseMultipartForm(32 << 20); err != nil {
			return postInput{}, cleanup, err
		}

		input := postInput{
			Title:       c.PostForm("title"),
			Content:     c.PostForm("content"),
			CategoryIDs: c.PostFormArray("category_ids"),
			Status:      domain.PostStatus(c.PostForm("status")),
		}

		fileHeader, err := c.FormFile("image")
		if err == nil && fileHeader != nil {
			file, openErr := fileHeader.Open()
			if openErr != nil {
				return postInput{}, cleanup, openErr
			}
			cleanup = func() { file.Close() }
			input.Image = &usecase.ImageUpload{Name: fileHeader.Filename, Data: file}
		} else if err != nil && err != http.ErrMissingFile {
			return postInput{}, cleanup, err
		}

		return input, cleanup, nil
	}

	var req PostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return postInput{}, cleanup, err
	}

	return postInput{
		Title:       req.Title,
		Content:     req.Content,
		CategoryIDs: req.CategoryIDs,
		Status:      domain.PostStatus(req.Status),
	}, cleanup, nil
}

func newPostPayloads(views []domain.PostView) []PostPayload {
	payloads := make([]PostPayload, 0, len(views))
	for _, view := range views {
		payloads = append(payloads, newPostPayload(view))
	}
	return payloads
}

func newPostListResponse(page domain.Paginated[domain.PostView]) PostListResponse {
	return PostListResponse{
		Posts:   newPostPayloads(page.Items),
		Total:   page.Total,
		Pages:   page.Pages,
		Page:    page.CurrentPage,
		PerPage: page.PerPage,
	}
}

// queryInt parses an integer query parameter, returning zero when absent or
// malformed so the services apply their defaults.
func queryInt(c *gin.Context, name string) int {
	raw := c.Query(name)
	if raw == "" {
		return 0
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0
	}
	return value
}
