package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	appauth "github.com/mbdelmundo/thesisdesk/internal/app/auth"
	"github.com/mbdelmundo/thesisdesk/internal/app/models"
	"github.com/mbdelmundo/thesisdesk/internal/app/models/dto"
	"github.com/mbdelmundo/thesisdesk/internal/pkg/apperrors"
	"github.com/mbdelmundo/thesisdesk/internal/pkg/auth"
)

// Context keys set by SessionAuth
const (
	ContextKeySession  = "session"
	ContextKeyUserID   = "userID"
	ContextKeyUserRole = "userRole"
)

// SessionResolver loads and enriches the session behind a cookie token
type SessionResolver interface {
	Resolve(ctx context.Context, token string) (*models.Session, error)
}

// AuthMiddleware guards routes behind the session cookie
type AuthMiddleware struct {
	resolver SessionResolver
}

// NewAuthMiddleware creates a new AuthMiddleware
func NewAuthMiddleware(resolver SessionResolver) *AuthMiddleware {
	return &AuthMiddleware{resolver: resolver}
}

// SessionAuth validates the session cookie and stores the enriched
// session on the request context. Either cookie name is accepted.
func (m *AuthMiddleware) SessionAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := auth.SessionTokenFromRequest(c)
		if !ok {
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")
			errorDetail = errorDetail.WithDetails("Session cookie missing")
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
			return
		}

		session, err := m.resolver.Resolve(c.Request.Context(), token)
		if err != nil {
			errorCode := dto.ErrorCodeUnauthorized
			errorDetails := "Invalid session"
			if errors.Is(err, apperrors.ErrSessionExpired) {
				errorCode = dto.ErrorCodeSessionExpired
				errorDetails = "Session has expired"
			}

			errorDetail := dto.NewErrorDetail(errorCode, "Authentication required")
			errorDetail = errorDetail.WithDetails(errorDetails)
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
			return
		}

		c.Set(ContextKeySession, session)
		c.Set(ContextKeyUserID, session.UserID)
		c.Set(ContextKeyUserRole, session.Role)

		c.Next()
	}
}

// RequireRole allows the request through only when the session role is
// in the given set. SessionAuth must run first on the chain.
func (m *AuthMiddleware) RequireRole(allowed appauth.RoleSet) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get(ContextKeyUserRole)
		if !exists {
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")
			errorDetail = errorDetail.WithDetails("Session role not found")
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
			return
		}

		roleValue, ok := role.(models.Role)
		if !ok || !allowed.Contains(roleValue) {
			HandleAPIError(c, apperrors.NewForbiddenError("Access denied"))
			c.Abort()
			return
		}

		c.Next()
	}
}

// CurrentSession returns the enriched session stored by SessionAuth
func CurrentSession(c *gin.Context) (*models.Session, bool) {
	value, exists := c.Get(ContextKeySession)
	if !exists {
		return nil, false
	}
	session, ok := value.(*models.Session)
	return session, ok
}

// CurrentUserID returns the authenticated account id, empty when the
// request carries no session.
func CurrentUserID(c *gin.Context) string {
	value, exists := c.Get(ContextKeyUserID)
	if !exists {
		return ""
	}
	id, _ := value.(string)
	return id
}
