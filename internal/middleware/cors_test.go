package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/playmatatu/chaospool/internal/config"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func wsRouter(cfg *config.Config) *gin.Engine {
	r := gin.New()
	r.GET("/ws", WebSocketCORSCheck(cfg), func(c *gin.Context) { c.Status(http.StatusOK) })
	return r
}

func upgradeRequest(origin string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/ws", nil)
	req.Header.Set("Connection", "Upgrade")
	req.Header.Set("Upgrade", "websocket")
	if origin != "" {
		req.Header.Set("Origin", origin)
	}
	return req
}

func TestWebSocketCORSCheck(t *testing.T) {
	dev := &config.Config{Environment: "development"}
	prod := &config.Config{Environment: "production", FrontendURL: "https://pool.example.com"}

	tests := []struct {
		name   string
		cfg    *config.Config
		origin string
		want   int
	}{
		{"dev localhost", dev, "http://localhost:5173", http.StatusOK},
		{"dev loopback", dev, "http://127.0.0.1:3000", http.StatusOK},
		{"dev no origin", dev, "", http.StatusOK},
		{"dev foreign", dev, "https://evil.example.com", http.StatusForbidden},
		{"prod listed", prod, "https://playmatatu.com", http.StatusOK},
		{"prod frontend", prod, "https://pool.example.com", http.StatusOK},
		{"prod localhost", prod, "http://localhost:5173", http.StatusForbidden},
		{"prod no origin", prod, "", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			wsRouter(tt.cfg).ServeHTTP(w, upgradeRequest(tt.origin))
			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestWebSocketCORSCheckIgnoresPlainRequests(t *testing.T) {
	prod := &config.Config{Environment: "production"}
	w := httptest.NewRecorder()
	wsRouter(prod).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ws", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCORSPreflight(t *testing.T) {
	r := gin.New()
	r.Use(CORSMiddleware(&config.Config{Environment: "development"}))
	r.POST("/tables", func(c *gin.Context) { c.Status(http.StatusCreated) })

	req := httptest.NewRequest(http.MethodOptions, "/tables", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", "POST")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))
}
