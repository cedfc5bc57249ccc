package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	appauth "github.com/mbdelmundo/thesisdesk/internal/app/auth"
	"github.com/mbdelmundo/thesisdesk/internal/app/models"
	"github.com/mbdelmundo/thesisdesk/internal/app/models/dto"
	"github.com/mbdelmundo/thesisdesk/internal/pkg/apperrors"
	"github.com/mbdelmundo/thesisdesk/internal/pkg/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeError(t *testing.T, recorder *httptest.ResponseRecorder) *dto.ErrorResponse {
	t.Helper()
	var response dto.ErrorResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))
	require.NotNil(t, response.Error)
	return &response
}

type stubResolver struct {
	session *models.Session
	err     error
}

func (s *stubResolver) Resolve(ctx context.Context, token string) (*models.Session, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.session, nil
}

func setupGuardedRouter(resolver SessionResolver, allowed appauth.RoleSet) *gin.Engine {
	gin.SetMode(gin.TestMode)
	m := NewAuthMiddleware(resolver)
	router := gin.New()
	router.GET("/guarded", m.SessionAuth(), m.RequireRole(allowed), func(c *gin.Context) {
		session, _ := CurrentSession(c)
		c.JSON(http.StatusOK, gin.H{"userId": session.UserID})
	})
	return router
}

func performRequest(router *gin.Engine, cookie *http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/guarded", nil)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	return recorder
}

func TestSessionAuthMissingCookie(t *testing.T) {
	router := setupGuardedRouter(&stubResolver{}, appauth.AnyRole())

	recorder := performRequest(router, nil)

	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	response := decodeError(t, recorder)
	assert.False(t, response.Success)
	assert.Equal(t, dto.ErrorCodeUnauthorized, response.Error.Code)
}

func TestSessionAuthExpiredSession(t *testing.T) {
	router := setupGuardedRouter(&stubResolver{err: apperrors.ErrSessionExpired}, appauth.AnyRole())

	recorder := performRequest(router, &http.Cookie{Name: auth.SessionCookieName, Value: "tok"})

	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	assert.Equal(t, dto.ErrorCodeSessionExpired, decodeError(t, recorder).Error.Code)
}

func TestSessionAuthUnknownToken(t *testing.T) {
	router := setupGuardedRouter(&stubResolver{err: apperrors.ErrSessionNotFound}, appauth.AnyRole())

	recorder := performRequest(router, &http.Cookie{Name: auth.SessionCookieName, Value: "tok"})

	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	assert.Equal(t, dto.ErrorCodeUnauthorized, decodeError(t, recorder).Error.Code)
}

func TestSessionAuthAcceptsSecureCookieVariant(t *testing.T) {
	resolver := &stubResolver{session: &models.Session{UserID: "u1", Role: models.RoleStudent}}
	router := setupGuardedRouter(resolver, appauth.AnyRole())

	recorder := performRequest(router, &http.Cookie{Name: auth.SecureSessionCookieName, Value: "tok"})

	require.Equal(t, http.StatusOK, recorder.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	assert.Equal(t, "u1", body["userId"])
}

func TestRequireRoleRejectsInsufficientRole(t *testing.T) {
	resolver := &stubResolver{session: &models.Session{UserID: "u1", Role: models.RoleStudent}}
	router := setupGuardedRouter(resolver, appauth.Staff())

	recorder := performRequest(router, &http.Cookie{Name: auth.SessionCookieName, Value: "tok"})

	assert.Equal(t, http.StatusForbidden, recorder.Code)
	assert.Equal(t, dto.ErrorCodeForbidden, decodeError(t, recorder).Error.Code)
}

func TestRequireRoleAllowsListedRole(t *testing.T) {
	resolver := &stubResolver{session: &models.Session{UserID: "staff-1", Role: models.RoleStaff}}
	router := setupGuardedRouter(resolver, appauth.Staff())

	recorder := performRequest(router, &http.Cookie{Name: auth.SessionCookieName, Value: "tok"})

	assert.Equal(t, http.StatusOK, recorder.Code)
}
