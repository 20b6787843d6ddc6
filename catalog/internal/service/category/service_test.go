package category

import (
	"context"
	"net/http"
	"sync/atomic"
	"testing"

	"github.com/Astemirdum/library-catalog/catalog/config"
	"github.com/Astemirdum/library-catalog/catalog/internal/errs"
	"github.com/Astemirdum/library-catalog/catalog/internal/model"
	"github.com/Astemirdum/library-catalog/catalog/internal/service/api/apitest"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestService_List(t *testing.T) {
	t.Parallel()
	var broken atomic.Bool
	e := echo.New()
	e.GET("/api/categories/", func(c echo.Context) error {
		if broken.Load() {
			return c.JSON(http.StatusInternalServerError, map[string]string{"detail": "database unavailable"})
		}
		return c.JSON(http.StatusOK, []model.Category{{ID: 1, Name: "Classics"}, {ID: 4, Name: "Romance"}})
	})
	svc := NewService(zap.NewNop(), apitest.NewClient(t, e, config.AuthToken, apitest.LoggedIn("reader@ubrary.io", false)))
	ctx := context.Background()

	got, err := svc.List(ctx)
	require.NoError(t, err)
	require.Equal(t, []model.Category{{ID: 1, Name: "Classics"}, {ID: 4, Name: "Romance"}}, got)

	broken.Store(true)
	got, err = svc.List(ctx)
	require.Nil(t, got)
	require.Equal(t, http.StatusInternalServerError, errs.StatusCode(err))
	require.Equal(t, "database unavailable", errs.Message(err))
}
