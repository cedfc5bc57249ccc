package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mbdelmundo/thesisdesk/internal/app/models"
	"github.com/mbdelmundo/thesisdesk/internal/app/models/dto"
	"github.com/mbdelmundo/thesisdesk/internal/app/services"
	"github.com/mbdelmundo/thesisdesk/internal/middleware"
	"github.com/mbdelmundo/thesisdesk/internal/pkg/auth"
)

// AuthController handles sign-in, session and sign-out endpoints
type AuthController struct {
	authService *services.AuthService
	cookieCfg   auth.CookieConfig
}

// NewAuthController creates a new AuthController
func NewAuthController(authService *services.AuthService, cookieCfg auth.CookieConfig) *AuthController {
	return &AuthController{
		authService: authService,
		cookieCfg:   cookieCfg,
	}
}

func sessionResponse(session *models.Session) dto.SessionResponse {
	return dto.SessionResponse{
		UserID:     session.UserID,
		Email:      session.Email,
		FirstName:  session.FirstName,
		MiddleName: session.MiddleName,
		LastName:   session.LastName,
		Role:       session.Role,
		Image:      session.Image,
		ExpiresAt:  session.ExpiresAt,
	}
}

// SignIn exchanges an identity assertion for a session cookie
// @Summary Sign in with an identity assertion
// @Description Exchanges the signed assertion issued by the OAuth sign-in service for a server-side session. A first-ever sign-in provisions a STUDENT account from the provider claims.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.SignInRequest true "Signed identity assertion"
// @Success 200 {object} dto.APIResponse{data=dto.SessionResponse} "Session created"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 401 {object} dto.ErrorResponse "Invalid or expired assertion"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /auth/callback [post]
func (c *AuthController) SignIn(ctx *gin.Context) {
	var req dto.SignInRequest
	if !middleware.BindAndValidate(ctx, &req) {
		return
	}

	result, err := c.authService.SignIn(ctx, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	auth.SetSessionCookie(ctx, c.cookieCfg, result.Token)

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Success:   true,
		Data:      sessionResponse(result.Session),
		Timestamp: time.Now(),
	})
}

// GetSession returns the enriched session behind the cookie
// @Summary Get the current session
// @Description Returns the session enriched with the current directory values. Role changes apply on the next read without a fresh sign-in.
// @Tags auth
// @Produce json
// @Success 200 {object} dto.APIResponse{data=dto.SessionResponse} "Current session"
// @Failure 401 {object} dto.ErrorResponse "No valid session"
// @Router /auth/session [get]
func (c *AuthController) GetSession(ctx *gin.Context) {
	session, ok := middleware.CurrentSession(ctx)
	if !ok {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Success:   true,
		Data:      sessionResponse(session),
		Timestamp: time.Now(),
	})
}

// SignOut destroys the session and clears both cookie variants
// @Summary Sign out
// @Description Deletes the server-side session and expires the session cookies. Signing out without a session still succeeds.
// @Tags auth
// @Produce json
// @Success 200 {object} dto.APIResponse "Signed out"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /auth/signout [post]
func (c *AuthController) SignOut(ctx *gin.Context) {
	token, _ := auth.SessionTokenFromRequest(ctx)
	if err := c.authService.SignOut(ctx, token); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	auth.ClearSessionCookie(ctx, c.cookieCfg)

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(nil, "Signed out"))
}
