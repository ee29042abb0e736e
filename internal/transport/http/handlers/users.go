package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/arklim/social-platform-publishing/internal/core/domain"
	"github.com/arklim/social-platform-publishing/internal/transport/http/middleware"
	"github.com/arklim/social-platform-publishing/internal/usecase"
)

// UserHandler exposes profile self-service and admin user management.
type UserHandler struct {
	users *usecase.UserService
}

// NewUserHandler constructs UserHandler.
func NewUserHandler(users *usecase.UserService) *UserHandler {
	return &UserHandler{users: users}
}

// RegisterRoutes binds user endpoints. All of them require a session; the
// admin checks live in the service.
func (h *UserHandler) RegisterRoutes(session *gin.RouterGroup) {
	session.GET("/users/me", h.me)
	session.PATCH("/users/me", h.updateProfile)
	session.PUT("/users/me/password", h.changePassword)

	session.GET("/admin/users", h.list)
	session.PUT("/admin/users/:id/status", h.setStatus)
	session.DELETE("/admin/users/:id", h.delete)
}

var userErrorCases = []ErrorCase{
	{Err: usecase.ErrForbidden, Status: http.StatusForbidden, Message: "not allowed"},
	{Err: usecase.ErrUserNotFound, Status: http.StatusNotFound, Message: "user not found"},
	{Err: usecase.ErrSelfAction, Status: http.StatusConflict, Message: "cannot perform this action on your own account"},
	{Err: usecase.ErrInvalidCredentials, Status: http.StatusUnauthorized, Message: "current password is incorrect"},
	{Err: usecase.ErrPasswordPolicyViolation, Status: http.StatusBadRequest, Message: "password does not meet requirements"},
}

// Me godoc
// @Summary Fetch the caller's profile
// @Tags Users
// @Produce json
// @Success 200 {object} UserPayload
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/v1/users/me [get]
func (h *UserHandler) me(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "authentication required"))
		return
	}

	user, err := h.users.Profile(c.Request.Context(), actor)
	if err != nil {
		RespondWithMappedError(c, err, userErrorCases, http.StatusInternalServerError, "failed to fetch profile")
		return
	}

	c.JSON(http.StatusOK, newUserPayload(user))
}

// UpdateProfile godoc
// @Summary Update the caller's profile
// @Description Absent fields are left untouched. An empty update succeeds
// without touching storage.
// @Tags Users
// @Accept json
// @Produce json
// @Param request body ProfileUpdateRequest true "Profile changes"
// @Success 200 {object} MessageResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 422 {object} ValidationErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/v1/users/me [patch]
func (h *UserHandler) updateProfile(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "authentication required"))
		return
	}

	var req ProfileUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid profile payload"))
		return
	}

	update := domain.ProfileUpdate{
		Username: req.Username,
		Email:    req.Email,
		Bio:      req.Bio,
	}

	if err := h.users.UpdateProfile(c.Request.Context(), actor, update); err != nil {
		RespondWithMappedError(c, err, userErrorCases, http.StatusInternalServerError, "failed to update profile")
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "profile updated"})
}

// ChangePassword godoc
// @Summary Change the caller's password
// @Description Requires the current password. The new password must satisfy
// the strength policy and differ from the current one.
// @Tags Users
// @Accept json
// @Produce json
// @Param request body PasswordChangeRequest true "Password change payload"
// @Success 200 {object} MessageResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 422 {object} ValidationErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/v1/users/me/password [put]
func (h *UserHandler) changePassword(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "authentication required"))
		return
	}

	var req PasswordChangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid password payload"))
		return
	}

	err := h.users.ChangePassword(c.Request.Context(), actor, req.CurrentPassword, req.NewPassword, req.ConfirmPassword)
	if err != nil {
		RespondWithMappedError(c, err, userErrorCases, http.StatusInternalServerError, "failed to change password")
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "password changed"})
}

// List godoc
// @Summary List user accounts with post counts
// @Description Admin only.
// @Tags Admin
// @Produce json
// @Param page query int false "Page number"
// @Param per_page query int false "Page size"
// @Success 200 {object} UserListResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/v1/admin/users [get]
func (h *UserHandler) list(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "authentication required"))
		return
	}

	page, err := h.users.ListUsers(c.Request.Context(), actor, queryInt(c, "page"), queryInt(c, "per_page"))
	if err != nil {
		RespondWithMappedError(c, err, userErrorCases, http.StatusInternalServerError, "failed to list users")
		return
	}

	payloads := make([]UserSummaryPayload, 0, len(page.Items))
	for _, item := range page.Items {
		payloads = append(payloads, newUserSummaryPayload(item))
	}

	c.JSON(http.StatusOK, UserListResponse{
		Users:   payloads,
		Total:   page.Total,
		Pages:   page.Pages,
		Page:    page.CurrentPage,
		PerPage: page.PerPage,
	})
}

// SetStatus godoc
// @Summary Activate or deactivate an account
// @Description Admin only. Admins cannot change their own status.
// @Tags Admin
// @Accept json
// @Produce json
// @Param id path string true "User ID"
// @Param request body UserStatusRequest true "Status payload"
// @Success 200 {object} MessageResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/v1/admin/users/{id}/status [put]
func (h *UserHandler) setStatus(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "authentication required"))
		return
	}

	var req UserStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid status payload"))
		return
	}

	err := h.users.SetStatus(c.Request.Context(), actor, c.Param("id"), domain.UserStatus(req.Status))
	if err != nil {
		RespondWithMappedError(c, err, userErrorCases, http.StatusInternalServerError, "failed to update status")
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "status updated"})
}

// Delete godoc
// @Summary Delete a user account
// @Description Admin only. Admins cannot delete their own account.
// @Tags Admin
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} MessageResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/v1/admin/users/{id} [delete]
func (h *UserHandler) delete(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "authentication required"))
		return
	}

	if err := h.users.DeleteUser(c.Request.Context(), actor, c.Param("id")); err != nil {
		RespondWithMappedError(c, err, userErrorCases, http.StatusInternalServerError, "failed to delete user")
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "user deleted"})
}
