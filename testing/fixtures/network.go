// Package fixtures provides pre-configured test doubles for common network
// scenarios.
package fixtures

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/gaborage/netbricks/network"
	"github.com/gaborage/netbricks/testing/mocks"
)

// HealthPath is registered by NewHealthyService.
const HealthPath = "/health"

// NewHealthyService returns a NetworkService answering HealthPath with a JSON
// status document.
func NewHealthyService() *mocks.NetworkService {
	svc := mocks.NewNetworkService()
	svc.Register(HealthPath, 200, []byte(`{"status":"ok"}`), map[string][]string{
		"Content-Type": {"application/json"},
	})
	return svc
}

// NewFailingService returns a NetworkService failing every call with err.
func NewFailingService(err error) *mocks.NetworkService {
	svc := mocks.NewNetworkService()
	svc.SetError(err)
	return svc
}

// NewOfflineService returns a NetworkService that reports no connectivity.
func NewOfflineService() *mocks.NetworkService {
	return NewFailingService(network.ErrNoConnection)
}

// NewSlowService returns a healthy NetworkService that waits d per call.
func NewSlowService(d time.Duration) *mocks.NetworkService {
	svc := NewHealthyService()
	svc.SetDelay(d)
	return svc
}

// NewEchoServer starts an httptest server backed by an echo router. routes
// registers handlers; the server is closed when the test ends.
func NewEchoServer(t testing.TB, routes func(e *echo.Echo)) *httptest.Server {
	t.Helper()

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	if routes != nil {
		routes(e)
	}

	srv := httptest.NewServer(e)
	t.Cleanup(srv.Close)
	return srv
}
