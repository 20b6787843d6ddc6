package user

import (
	"context"
	"net/http"
	"testing"

	"github.com/Astemirdum/library-catalog/catalog/config"
	"github.com/Astemirdum/library-catalog/catalog/internal/errs"
	"github.com/Astemirdum/library-catalog/catalog/internal/model"
	"github.com/Astemirdum/library-catalog/catalog/internal/service/api/apitest"
	"github.com/Astemirdum/library-catalog/catalog/internal/session"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func backend(t *testing.T) *echo.Echo {
	t.Helper()
	e := echo.New()
	e.GET("/api/user/me/", func(c echo.Context) error {
		require.Equal(t, "Token test-token", c.Request().Header.Get(echo.HeaderAuthorization))
		return c.JSON(http.StatusOK, model.User{ID: 7, Email: "admin@ubrary.io", IsAdmin: true, IsStaff: true, IsActive: true})
	})
	e.GET("/api/users/", func(c echo.Context) error {
		return c.JSON(http.StatusOK, []model.User{
			{ID: 7, Email: "admin@ubrary.io", IsAdmin: true, IsStaff: true, IsActive: true},
			{ID: 8, Email: "reader@ubrary.io", IsActive: true},
		})
	})
	return e
}

func TestService_Me(t *testing.T) {
	t.Parallel()
	svc := NewService(zap.NewNop(), apitest.NewClient(t, backend(t), config.AuthToken, apitest.LoggedIn("admin@ubrary.io", true)))

	me, err := svc.Me(context.Background())
	require.NoError(t, err)
	require.Equal(t, model.User{ID: 7, Email: "admin@ubrary.io", IsAdmin: true, IsStaff: true, IsActive: true}, me)
}

func TestService_List(t *testing.T) {
	t.Parallel()
	svc := NewService(zap.NewNop(), apitest.NewClient(t, backend(t), config.AuthToken, apitest.LoggedIn("admin@ubrary.io", true)))

	users, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 2)
	require.Equal(t, "reader@ubrary.io", users[1].Email)
	require.False(t, users[1].IsAdmin)
}

func TestService_LoggedOut(t *testing.T) {
	t.Parallel()
	svc := NewService(zap.NewNop(), apitest.NewClient(t, backend(t), config.AuthToken, session.New()))
	ctx := context.Background()

	_, err := svc.Me(ctx)
	require.ErrorIs(t, err, errs.ErrUnauthenticated)
	_, err = svc.List(ctx)
	require.ErrorIs(t, err, errs.ErrUnauthenticated)
}
