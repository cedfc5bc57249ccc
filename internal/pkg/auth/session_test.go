package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestContext(t *testing.T) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	recorder := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(recorder)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	return c, recorder
}

func TestCookieNamePerDeploymentMode(t *testing.T) {
	assert.Equal(t, SessionCookieName, CookieConfig{Secure: false}.CookieName())
	assert.Equal(t, SecureSessionCookieName, CookieConfig{Secure: true}.CookieName())
}

func TestSetSessionCookieAttributes(t *testing.T) {
	c, recorder := newTestContext(t)

	SetSessionCookie(c, CookieConfig{Secure: false, MaxAge: 3600}, "tok-1")

	cookies := recorder.Result().Cookies()
	require.Len(t, cookies, 1)
	cookie := cookies[0]
	assert.Equal(t, SessionCookieName, cookie.Name)
	assert.Equal(t, "tok-1", cookie.Value)
	assert.True(t, cookie.HttpOnly)
	assert.False(t, cookie.Secure)
	assert.Equal(t, http.SameSiteLaxMode, cookie.SameSite)
	assert.Equal(t, "/", cookie.Path)
	assert.Equal(t, 3600, cookie.MaxAge)
}

func TestClearSessionCookieExpiresBothVariants(t *testing.T) {
	c, recorder := newTestContext(t)

	ClearSessionCookie(c, CookieConfig{Secure: true})

	cookies := recorder.Result().Cookies()
	require.Len(t, cookies, 2)
	for _, cookie := range cookies {
		assert.Less(t, cookie.MaxAge, 0)
		assert.Empty(t, cookie.Value)
	}
}

func TestSessionTokenFromRequest(t *testing.T) {
	c, _ := newTestContext(t)
	_, ok := SessionTokenFromRequest(c)
	assert.False(t, ok)

	c, _ = newTestContext(t)
	c.Request.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "plain-tok"})
	token, ok := SessionTokenFromRequest(c)
	require.True(t, ok)
	assert.Equal(t, "plain-tok", token)

	c, _ = newTestContext(t)
	c.Request.AddCookie(&http.Cookie{Name: SecureSessionCookieName, Value: "secure-tok"})
	token, ok = SessionTokenFromRequest(c)
	require.True(t, ok)
	assert.Equal(t, "secure-tok", token)
}

func TestNewSessionTokenIsOpaqueAndUnique(t *testing.T) {
	first := NewSessionToken()
	second := NewSessionToken()
	assert.NotEmpty(t, first)
	assert.NotEqual(t, first, second)
}
