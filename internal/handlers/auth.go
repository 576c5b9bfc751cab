package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/taskflowhq/taskflow-api/internal/constants"
	"github.com/taskflowhq/taskflow-api/internal/dto"
	apierrors "github.com/taskflowhq/taskflow-api/internal/errors"
	"github.com/taskflowhq/taskflow-api/internal/middleware"
	"github.com/taskflowhq/taskflow-api/internal/services"
)

// AuthHandler coordinates authentication-related HTTP handlers.
type AuthHandler struct {
	authService *services.AuthService
	tokens      *services.TokenService

	// secureCookies mirrors production mode: cookies carry the Secure
	// flag only over HTTPS deployments.
	secureCookies bool
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService, tokens *services.TokenService, secureCookies bool) *AuthHandler {
	return &AuthHandler{
		authService:   authService,
		tokens:        tokens,
		secureCookies: secureCookies,
	}
}

// Register creates a new user. No tokens are issued here; the client
// logs in separately.
func (h *AuthHandler) Register(c *gin.Context) {
	type RegisterRequest struct {
		FirstName       string `json:"first_name"`
		LastName        string `json:"last_name"`
		Email           string `json:"email" binding:"required,email"`
		Username        string `json:"username" binding:"required,max=150"`
		Password        string `json:"password" binding:"required"`
		PasswordConfirm string `json:"password_confirm" binding:"required"`
		AgreeToTerms    bool   `json:"agree_to_terms"`
	}

	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	user, err := h.authService.Register(services.RegisterInput{
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		Email:           req.Email,
		Username:        req.Username,
		Password:        req.Password,
		PasswordConfirm: req.PasswordConfirm,
		AgreeToTerms:    req.AgreeToTerms,
	})
	if err != nil {
		respondAuthError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToUserDTO(*user))
}

// Login authenticates a user and transports the issued token pair as
// HttpOnly cookies. Token values never appear in the response body.
func (h *AuthHandler) Login(c *gin.Context) {
	type LoginRequest struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}

	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	user, err := h.authService.Login(services.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		respondAuthError(c, err)
		return
	}

	pair, err := h.tokens.IssuePair(user.ID)
	if err != nil {
		apierrors.InternalError(c, "Failed to issue tokens")
		return
	}

	h.setTokenCookies(c, pair)

	c.JSON(http.StatusOK, dto.LoginResponse{
		Detail: "login successful",
		User:   dto.ToUserDTO(*user),
	})
}

// Refresh mints a new access token from a valid refresh token, read
// from the refresh cookie with a body fallback.
func (h *AuthHandler) Refresh(c *gin.Context) {
	refreshToken, err := c.Cookie(constants.RefreshCookieName)
	if err != nil || refreshToken == "" {
		var req struct {
			Refresh string `json:"refresh"`
		}
		if err := c.ShouldBindJSON(&req); err != nil || req.Refresh == "" {
			apierrors.Unauthorized(c, "Refresh token required")
			return
		}
		refreshToken = req.Refresh
	}

	access, err := h.tokens.RefreshAccess(refreshToken)
	if err != nil {
		apierrors.Unauthorized(c, "Invalid or expired refresh token")
		return
	}

	h.setAccessCookie(c, access)

	c.JSON(http.StatusOK, gin.H{
		"detail": "token refreshed",
	})
}

// GetCurrentUser returns the authenticated user.
func (h *AuthHandler) GetCurrentUser(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	user, err := h.authService.GetUser(userID)
	if err != nil {
		respondAuthError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToUserDTO(*user))
}

// setTokenCookies attaches the token pair as HttpOnly SameSite=Lax
// cookies. The refresh cookie is path-restricted to the refresh
// endpoint; max-age always equals the token lifetime in seconds.
func (h *AuthHandler) setTokenCookies(c *gin.Context, pair *services.TokenPair) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(
		constants.AccessCookieName,
		pair.Access,
		int(h.tokens.AccessLifetime().Seconds()),
		"/",
		"",
		h.secureCookies,
		true,
	)
	c.SetCookie(
		constants.RefreshCookieName,
		pair.Refresh,
		int(h.tokens.RefreshLifetime().Seconds()),
		constants.RefreshCookiePath,
		"",
		h.secureCookies,
		true,
	)
}

func (h *AuthHandler) setAccessCookie(c *gin.Context, access string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(
		constants.AccessCookieName,
		access,
		int(h.tokens.AccessLifetime().Seconds()),
		"/",
		"",
		h.secureCookies,
		true,
	)
}

func respondAuthError(c *gin.Context, err error) {
	var validation *services.ValidationError

	switch {
	case errors.As(err, &validation):
		apierrors.ValidationFailed(c, validation.Fields)
	case errors.Is(err, services.ErrInvalidCredentials),
		errors.Is(err, services.ErrUserInactive):
		// Inactive accounts answer exactly like bad credentials.
		apierrors.InvalidCredentials(c)
	case errors.Is(err, services.ErrUserNotFound):
		apierrors.NotFound(c, err.Error())
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}
