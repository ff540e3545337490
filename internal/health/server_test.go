package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockPinger struct {
	mock.Mock
}

func (m *mockPinger) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func serve(t *testing.T, s *Server, path string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))

	var body map[string]interface{}
	if rec.Header().Get("Content-Type") == "application/json" {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	}
	return rec, body
}

func TestNewServerDefaults(t *testing.T) {
	s := NewServer(Config{ServiceName: "sharpboard"})
	assert.Equal(t, DefaultPort, s.port)
	assert.False(t, s.IsReady())
}

func TestHandleHealth(t *testing.T) {
	s := NewServer(Config{ServiceName: "sharpboard", Version: "dev"})

	rec, body := serve(t, s, "/health")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "sharpboard", body["service"])
	assert.Equal(t, "dev", body["version"])
	assert.NotEmpty(t, body["timestamp"])

	rec, _ = serve(t, s, "/live")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestHandleReady(t *testing.T) {
	tests := []struct {
		name       string
		ready      bool
		pingErr    error
		wantStatus int
		wantChecks map[string]interface{}
	}{
		{
			name:       "ready and reachable",
			ready:      true,
			wantStatus: http.StatusOK,
			wantChecks: map[string]interface{}{"session": "ok", "backend": "ok"},
		},
		{
			name:       "no refresh yet",
			ready:      false,
			wantStatus: http.StatusServiceUnavailable,
			wantChecks: map[string]interface{}{"session": "not_ready", "backend": "ok"},
		},
		{
			name:       "backend down",
			ready:      true,
			pingErr:    errors.New("backend not reachable"),
			wantStatus: http.StatusServiceUnavailable,
			wantChecks: map[string]interface{}{"session": "ok", "backend": "error: backend not reachable"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pinger := new(mockPinger)
			pinger.On("Ping", mock.Anything).Return(tt.pingErr)

			s := NewServer(Config{ServiceName: "sharpboard", Backend: pinger})
			s.SetReady(tt.ready)

			rec, body := serve(t, s, "/ready")
			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantChecks, body["checks"])
			pinger.AssertExpectations(t)
		})
	}
}

func TestHandleReadyWithoutBackend(t *testing.T) {
	s := NewServer(Config{ServiceName: "sharpboard"})
	s.SetReady(true)

	rec, body := serve(t, s, "/ready")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, map[string]interface{}{"session": "ok"}, body["checks"])
}

func TestMetricsEndpoint(t *testing.T) {
	s := NewServer(Config{ServiceName: "sharpboard", MetricsPath: "/metrics"})
	rec, _ := serve(t, s, "/metrics")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "sharpboard_")

	s = NewServer(Config{ServiceName: "sharpboard"})
	rec, _ = serve(t, s, "/metrics")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestShutdownWithoutStart(t *testing.T) {
	s := NewServer(Config{})
	assert.NoError(t, s.Shutdown())
}

func TestMethodNotAllowed(t *testing.T) {
	s := NewServer(Config{ServiceName: "sharpboard"})
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/health", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestCORS(t *testing.T) {
	s := NewServer(Config{ServiceName: "sharpboard", AllowedOrigins: []string{"http://localhost:5173"}})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	assert.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "http://evil.example")
	rec = httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))

	plain := NewServer(Config{ServiceName: "sharpboard"})
	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	rec = httptest.NewRecorder()
	plain.Handler().ServeHTTP(rec, req)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}
