package auth

import (
	"context"
	"net/http"
	"testing"

	"github.com/Astemirdum/library-catalog/catalog/config"
	"github.com/Astemirdum/library-catalog/catalog/internal/errs"
	"github.com/Astemirdum/library-catalog/catalog/internal/model"
	"github.com/Astemirdum/library-catalog/catalog/internal/service/api"
	"github.com/Astemirdum/library-catalog/catalog/internal/service/api/apitest"
	"github.com/Astemirdum/library-catalog/catalog/internal/session"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestService_LoginToken(t *testing.T) {
	t.Parallel()
	e := echo.New()
	e.POST("/api/login/", func(c echo.Context) error {
		var req model.LoginRequest
		require.NoError(t, c.Bind(&req))
		if req.Password != "Secret1!" {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Invalid email or password."})
		}
		return c.JSON(http.StatusOK, model.LoginResponse{Message: "Login successful.", Token: "abc", IsAdmin: true, Email: req.Email})
	})
	e.POST("/api/logout/", func(c echo.Context) error {
		require.Equal(t, "Token abc", c.Request().Header.Get(echo.HeaderAuthorization))
		return c.JSON(http.StatusOK, map[string]string{"message": "Logged out"})
	})
	sess := session.New()
	svc := NewService(zap.NewNop(), apitest.NewClient(t, e, config.AuthToken, sess))
	ctx := context.Background()

	_, err := svc.Login(ctx, model.LoginRequest{Email: "admin@ubrary.io", Password: "nope"}, false)
	require.EqualError(t, err, "Invalid email or password.")
	_, ok := sess.User()
	require.False(t, ok)

	user, err := svc.Login(ctx, model.LoginRequest{Email: "admin@ubrary.io", Password: "Secret1!"}, true)
	require.NoError(t, err)
	require.True(t, user.IsAdmin)
	require.Equal(t, "abc", sess.Token())
	require.True(t, sess.Remember())

	require.NoError(t, svc.Logout(ctx))
	require.Empty(t, sess.Token())
	_, ok = sess.User()
	require.False(t, ok)

	require.ErrorIs(t, svc.Logout(ctx), errs.ErrUnauthenticated)
}

func TestService_LoginSessionFetchesRole(t *testing.T) {
	t.Parallel()
	e := echo.New()
	e.POST("/api/login/", func(c echo.Context) error {
		c.SetCookie(&http.Cookie{Name: api.CookieCSRFToken, Value: "csrf", Path: "/"})
		c.SetCookie(&http.Cookie{Name: api.CookieSessionID, Value: "sid", Path: "/"})
		return c.JSON(http.StatusOK, map[string]string{"message": "Login successful."})
	})
	e.GET("/api/user/me/", func(c echo.Context) error {
		if _, err := c.Cookie(api.CookieSessionID); err != nil {
			return c.JSON(http.StatusForbidden, map[string]string{"detail": "Authentication credentials were not provided."})
		}
		return c.JSON(http.StatusOK, model.User{ID: 1, Email: "reader@ubrary.io", IsAdmin: false, IsActive: true})
	})
	sess := session.New()
	svc := NewService(zap.NewNop(), apitest.NewClient(t, e, config.AuthSession, sess))

	user, err := svc.Login(context.Background(), model.LoginRequest{Email: " Reader@Ubrary.io ", Password: "x"}, false)
	require.NoError(t, err)
	require.Equal(t, session.User{Email: "reader@ubrary.io"}, user)
	require.Equal(t, "sid", sess.Cookie(api.CookieSessionID))
	require.Empty(t, sess.Token())
}

func TestService_PasswordReset(t *testing.T) {
	t.Parallel()
	e := echo.New()
	e.POST("/api/email-exists/", func(c echo.Context) error {
		var req struct {
			Email string `json:"email"`
		}
		require.NoError(t, c.Bind(&req))
		return c.JSON(http.StatusOK, model.EmailExistsResponse{Exists: req.Email == "reader@ubrary.io"})
	})
	e.POST("/api/password-reset-request/", func(c echo.Context) error {
		return c.JSONBlob(http.StatusOK, []byte(`{"message": "Password reset token generated", "token": "c0ffee", "uid": 17}`))
	})
	e.POST("/api/password-reset-confirm/", func(c echo.Context) error {
		var req model.PasswordResetConfirm
		require.NoError(t, c.Bind(&req))
		if req.Token != "c0ffee" || req.UID != "17" {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid or expired token"})
		}
		require.Equal(t, "Abcdef1", req.NewPassword)
		return c.JSON(http.StatusOK, map[string]string{"message": "Password has been reset successfully"})
	})
	svc := NewService(zap.NewNop(), apitest.NewClient(t, e, config.AuthToken, session.New()))
	ctx := context.Background()

	exists, err := svc.EmailExists(ctx, "reader@ubrary.io")
	require.NoError(t, err)
	require.True(t, exists)
	exists, err = svc.EmailExists(ctx, "ghost@ubrary.io")
	require.NoError(t, err)
	require.False(t, exists)

	ticket, err := svc.RequestPasswordReset(ctx, "reader@ubrary.io")
	require.NoError(t, err)
	require.Equal(t, "17", ticket.UID.String())

	resp, err := svc.ConfirmPasswordReset(ctx, model.PasswordResetConfirm{UID: ticket.UID.String(), Token: ticket.Token, NewPassword: "Abcdef1"})
	require.NoError(t, err)
	require.Equal(t, "Password has been reset successfully", resp.Message)

	_, err = svc.ConfirmPasswordReset(ctx, model.PasswordResetConfirm{UID: "17", Token: "stale", NewPassword: "Abcdef1"})
	require.EqualError(t, err, "Invalid or expired token")
}
