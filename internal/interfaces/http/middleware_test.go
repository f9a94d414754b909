package http_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestID_SeGeneraYSeRespeta(t *testing.T) {
	s := newTestServer(t, false)

	resp, _ := s.do(t, http.MethodGet, "/health", nil, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get(fiber.HeaderXRequestID))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(fiber.HeaderXRequestID, "abc-123")
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, "abc-123", resp.Header.Get(fiber.HeaderXRequestID))
}

func TestMetrics_CuentaPeticionesConStatusFinal(t *testing.T) {
	s := newTestServer(t, false)

	resp, _ := s.do(t, http.MethodGet, "/products/", nil, "")
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, body := s.do(t, http.MethodGet, "/metrics", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "tienda_http_requests_total")
	assert.Contains(t, string(body), `status="401"`)
	assert.Contains(t, string(body), "tienda_http_request_duration_seconds")
}
