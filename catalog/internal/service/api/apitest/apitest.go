// Package apitest wires an api.Client to an in-process fake backend.
package apitest

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Astemirdum/library-catalog/catalog/config"
	"github.com/Astemirdum/library-catalog/catalog/internal/service/api"
	"github.com/Astemirdum/library-catalog/catalog/internal/session"
	"github.com/Astemirdum/library-catalog/pkg/circuit_breaker"
	"github.com/Astemirdum/library-catalog/pkg/middleware"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
)

// Config points a client at baseURL with a breaker that only opens when
// every recorded call failed.
func Config(baseURL string, mode config.AuthMode) config.API {
	return config.API{
		BaseURL:   baseURL + "/api",
		MediaURL:  baseURL + "/media/",
		AuthMode:  mode,
		CoverMode: config.CoverBase64,
		Timeout:   5 * time.Second,
		Breaker: circuit_breaker.Config{
			RecordLength:     10,
			Timeout:          time.Second,
			Percentile:       1,
			RecoveryRequests: 1,
		},
	}
}

// NewClient serves e over httptest for the lifetime of t. Requests reaching
// the fake backend are logged to t.
func NewClient(t *testing.T, e *echo.Echo, mode config.AuthMode, sess *session.Session) *api.Client {
	t.Helper()
	e.HideBanner = true
	e.Use(middleware.RequestLogger(zaptest.NewLogger(t).Named("backend")))
	srv := httptest.NewServer(e)
	t.Cleanup(srv.Close)
	client, err := api.NewClient(zap.NewNop(), Config(srv.URL, mode), sess)
	require.NoError(t, err)
	return client
}

// LoggedIn returns an in-memory session holding a token for email.
func LoggedIn(email string, admin bool) *session.Session {
	sess := session.New()
	sess.Login("test-token", session.User{Email: email, IsAdmin: admin}, false)
	return sess
}
