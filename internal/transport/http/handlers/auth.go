package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/arklim/social-platform-publishing/internal/infra/config"
	"github.com/arklim/social-platform-publishing/internal/transport/http/middleware"
	"github.com/arklim/social-platform-publishing/internal/usecase"
)

// AuthHandler exposes authentication endpoints. Sessions and remember-me
// tokens travel exclusively in HTTP-only cookies.
type AuthHandler struct {
	auth *usecase.AuthService
	cfg  config.SessionSettings
}

// NewAuthHandler constructs AuthHandler.
func NewAuthHandler(auth *usecase.AuthService, cfg config.SessionSettings) *AuthHandler {
	return &AuthHandler{auth: auth, cfg: cfg}
}

// RegisterRoutes binds authentication routes. The session group must already
// carry the session middleware.
func (h *AuthHandler) RegisterRoutes(public, session *gin.RouterGroup) {
	public.POST("/auth/register", h.register)
	public.POST("/auth/login", h.login)
	session.POST("/auth/logout", h.logout)
	session.GET("/auth/csrf", h.csrfToken)
}

// Register godoc
// @Summary Register a new user account
// @Description Creates a new user with the supplied credentials.
// @Tags Authentication
// @Accept json
// @Produce json
// @Param request body RegisterRequest true "Registration request payload"
// @Success 201 {object} RegisterResponse
// @Failure 400 {object} ErrorResponse
// @Failure 422 {object} ValidationErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/v1/auth/register [post]
func (h *AuthHandler) register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid registration payload"))
		return
	}

	user, err := h.auth.Register(c.Request.Context(), req.Username, req.Email, req.Password, req.PasswordConfirm)
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrPasswordPolicyViolation, Status: http.StatusBadRequest, Message: "password does not meet requirements"},
		}, http.StatusInternalServerError, "failed to register user")
		return
	}

	c.JSON(http.StatusCreated, RegisterResponse{
		Message: "account created",
		User:    newUserPayload(user),
	})
}

// Login godoc
// @Summary Authenticate a user
// @Description Verifies credentials and establishes a cookie session. Failed
// attempts count toward a lockout window regardless of the reason.
// @Tags Authentication
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Login request payload"
// @Success 200 {object} LoginResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 423 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/v1/auth/login [post]
func (h *AuthHandler) login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid login payload"))
		return
	}

	input := usecase.LoginInput{
		Email:    req.Email,
		Password: req.Password,
		Remember: req.Remember,
	}
	if ip := c.ClientIP(); ip != "" {
		input.IP = &ip
	}

	result, err := h.auth.Login(c.Request.Context(), input)
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrInvalidCredentials, Status: http.StatusUnauthorized, Message: "invalid credentials"},
			{Err: usecase.ErrAccountLocked, Status: http.StatusLocked, Message: "too many failed attempts, try again later"},
		}, http.StatusInternalServerError, "failed to log in")
		return
	}

	middleware.SetSessionCookie(c, h.cfg, result.Session.Key)
	if result.RememberToken != "" {
		middleware.SetRememberCookie(c, h.cfg, result.RememberToken)
	}

	c.JSON(http.StatusOK, LoginResponse{
		User:      newUserPayload(result.User),
		CSRFToken: result.Session.CSRFToken,
	})
}

// Logout godoc
// @Summary Terminate the current session
// @Description Destroys the server-side session, revokes the presented
// remember-me token, and expires both cookies.
// @Tags Authentication
// @Produce json
// @Success 200 {object} MessageResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/v1/auth/logout [post]
func (h *AuthHandler) logout(c *gin.Context) {
	sessionKey, _ := c.Cookie(h.cfg.CookieName)
	rememberToken, _ := c.Cookie(h.cfg.RememberCookie)

	if err := h.auth.Logout(c.Request.Context(), sessionKey, rememberToken); err != nil {
		c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "failed to log out"))
		return
	}

	middleware.ClearAuthCookies(c, h.cfg)

	c.JSON(http.StatusOK, MessageResponse{Message: "logged out"})
}

// CSRFToken godoc
// @Summary Fetch the CSRF token bound to the current session
// @Tags Authentication
// @Produce json
// @Success 200 {object} CSRFResponse
// @Failure 401 {object} ErrorResponse
// @Router /api/v1/auth/csrf [get]
func (h *AuthHandler) csrfToken(c *gin.Context) {
	session := middleware.GetSession(c)
	if session == nil {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "authentication required"))
		return
	}

	c.JSON(http.StatusOK, CSRFResponse{CSRFToken: session.CSRFToken})
}
