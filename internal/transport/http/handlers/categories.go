package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/arklim/social-platform-publishing/internal/core/domain"
	"github.com/arklim/social-platform-publishing/internal/transport/http/middleware"
	"github.com/arklim/social-platform-publishing/internal/usecase"
)

// CategoryHandler exposes category endpoints. Listing is public, mutations
// are admin-only and enforced inside the service.
type CategoryHandler struct {
	categories *usecase.CategoryService
}

// NewCategoryHandler constructs CategoryHandler.
func NewCategoryHandler(categories *usecase.CategoryService) *CategoryHandler {
	return &CategoryHandler{categories: categories}
}

// RegisterRoutes binds category endpoints.
func (h *CategoryHandler) RegisterRoutes(public, session *gin.RouterGroup) {
	public.GET("/categories", h.list)

	session.POST("/categories", h.create)
	session.PUT("/categories/:id", h.update)
	session.DELETE("/categories/:id", h.delete)
}

var categoryErrorCases = []ErrorCase{
	{Err: usecase.ErrForbidden, Status: http.StatusForbidden, Message: "not allowed"},
	{Err: usecase.ErrCategoryNotFound, Status: http.StatusNotFound, Message: "category not found"},
}

// List godoc
// @Summary List all categories with their published post counts
// @Tags Categories
// @Produce json
// @Success 200 {object} CategoryListResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/v1/categories [get]
func (h *CategoryHandler) list(c *gin.Context) {
	summaries, err := h.categories.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "failed to list categories"))
		return
	}

	payloads := make([]CategoryPayload, 0, len(summaries))
	for _, summary := range summaries {
		payloads = append(payloads, newCategoryPayload(summary))
	}

	c.JSON(http.StatusOK, CategoryListResponse{Categories: payloads})
}

// Create godoc
// @Summary Create a category
// @Tags Categories
// @Accept json
// @Produce json
// @Param request body CategoryRequest true "Category payload"
// @Success 201 {object} CategoryPayload
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 422 {object} ValidationErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/v1/categories [post]
func (h *CategoryHandler) create(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "authentication required"))
		return
	}

	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid category payload"))
		return
	}

	category, err := h.categories.Create(c.Request.Context(), actor, req.Name, req.Description)
	if err != nil {
		RespondWithMappedError(c, err, categoryErrorCases, http.StatusInternalServerError, "failed to create category")
		return
	}

	c.JSON(http.StatusCreated, newCategoryPayload(domain.CategorySummary{Category: category}))
}

// Update godoc
// @Summary Rename or describe a category
// @Tags Categories
// @Accept json
// @Produce json
// @Param id path string true "Category ID"
// @Param request body CategoryRequest true "Category payload"
// @Success 200 {object} CategoryPayload
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 422 {object} ValidationErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/v1/categories/{id} [put]
func (h *CategoryHandler) update(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "authentication required"))
		return
	}

	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid category payload"))
		return
	}

	category, err := h.categories.Update(c.Request.Context(), actor, c.Param("id"), req.Name, req.Description)
	if err != nil {
		RespondWithMappedError(c, err, categoryErrorCases, http.StatusInternalServerError, "failed to update category")
		return
	}

	c.JSON(http.StatusOK, newCategoryPayload(domain.CategorySummary{Category: category}))
}

// Delete godoc
// @Summary Delete a category
// @Description Removes the category and its post associations. Posts survive.
// @Tags Categories
// @Produce json
// @Param id path string true "Category ID"
// @Success 200 {object} MessageResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/v1/categories/{id} [delete]
func (h *CategoryHandler) delete(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "authentication required"))
		return
	}

	if err := h.categories.Delete(c.Request.Context(), actor, c.Param("id")); err != nil {
		RespondWithMappedError(c, err, categoryErrorCases, http.StatusInternalServerError, "failed to delete category")
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "category deleted"})
}
