package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"ridelink/internal/domain/service"
	mockSvc "ridelink/internal/mocks/service"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runAuthenticate(t *testing.T, tokens *mockSvc.MockTokenService, authHeader string) (echo.Context, *httptest.ResponseRecorder, bool) {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/users/me", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	reached := false
	next := func(c echo.Context) error {
		reached = true

		return c.NoContent(http.StatusOK)
	}

	mw := NewAuthMiddleware(tokens)
	require.NoError(t, mw.Authenticate(next)(c))

	return c, rec, reached
}

func TestAuthMiddleware_Authenticate_SetsIdentity(t *testing.T) {
	userID := uuid.New()
	sessionID := uuid.NewString()

	tokens := mockSvc.NewMockTokenService(t)
	tokens.On("ValidateAccessToken", "good-token").Return(&service.Claims{
		UserID: userID,
		Roles:  []string{"passenger"},
		Type:   service.TokenTypeAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			ID: sessionID,
		},
	}, nil)

	c, _, reached := runAuthenticate(t, tokens, "Bearer good-token")

	assert.True(t, reached)
	assert.Equal(t, userID, c.Get(ContextKeyUserID))
	assert.Equal(t, []string{"passenger"}, c.Get(ContextKeyRoles))
	assert.Equal(t, sessionID, c.Get(ContextKeySessionID))
}

func TestAuthMiddleware_Authenticate_MissingHeader(t *testing.T) {
	tokens := mockSvc.NewMockTokenService(t)

	_, rec, reached := runAuthenticate(t, tokens, "")

	assert.False(t, reached)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	tokens.AssertNotCalled(t, "ValidateAccessToken")
}

func TestAuthMiddleware_Authenticate_NotBearer(t *testing.T) {
	tokens := mockSvc.NewMockTokenService(t)

	_, rec, reached := runAuthenticate(t, tokens, "Basic dXNlcjpwYXNz")

	assert.False(t, reached)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthMiddleware_Authenticate_InvalidToken(t *testing.T) {
	tokens := mockSvc.NewMockTokenService(t)
	tokens.On("ValidateAccessToken", "bad-token").Return(nil, assert.AnError)

	_, rec, reached := runAuthenticate(t, tokens, "Bearer bad-token")

	assert.False(t, reached)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthMiddleware_RequireRole(t *testing.T) {
	tokens := mockSvc.NewMockTokenService(t)
	mw := NewAuthMiddleware(tokens)

	e := echo.New()

	run := func(roles any) (*httptest.ResponseRecorder, bool) {
		req := httptest.NewRequest(http.MethodDelete, "/admin/users/x", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		if roles != nil {
			c.Set(ContextKeyRoles, roles)
		}

		reached := false
		next := func(c echo.Context) error {
			reached = true

			return c.NoContent(http.StatusOK)
		}
		require.NoError(t, mw.RequireRole("admin")(next)(c))

		return rec, reached
	}

	rec, reached := run([]string{"passenger", "admin"})
	assert.True(t, reached)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, reached = run([]string{"passenger"})
	assert.False(t, reached)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, reached = run(nil)
	assert.False(t, reached)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
