package services

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggingMiddlewareRecordsRequest(t *testing.T) {
	gin.SetMode(gin.TestMode)

	svc := NewMonitoringService()
	r := gin.New()
	r.Use(svc.LoggingMiddleware())
	r.POST("/api/v1/chat", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	req, _ := http.NewRequest("POST", "/api/v1/chat", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	svc.mu.RLock()
	defer svc.mu.RUnlock()
	require.Len(t, svc.logs, 1)
	assert.Equal(t, "/api/v1/chat", svc.logs[0].Path)
	assert.Equal(t, "POST", svc.logs[0].Method)
	assert.Equal(t, http.StatusOK, svc.logs[0].StatusCode)
	assert.NotEmpty(t, svc.logs[0].RequestID)
}

func TestLoggingMiddlewareSkipsAdminTraffic(t *testing.T) {
	gin.SetMode(gin.TestMode)

	svc := NewMonitoringService()
	r := gin.New()
	r.Use(svc.LoggingMiddleware())
	r.GET("/api/v1/admin/health-status", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	r.GET("/api/v1/monitoring/logs", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	for _, path := range []string{"/api/v1/admin/health-status", "/api/v1/monitoring/logs"} {
		req, _ := http.NewRequest("GET", path, nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
	}

	svc.mu.RLock()
	defer svc.mu.RUnlock()
	assert.Empty(t, svc.logs)
}

func TestLogRequestCapsEntries(t *testing.T) {
	svc := NewMonitoringService()

	for i := 0; i < maxLogEntries+50; i++ {
		svc.LogRequest(LogEntry{Path: "/api/v1/chat", Timestamp: time.Now()})
	}

	svc.mu.RLock()
	defer svc.mu.RUnlock()
	assert.Len(t, svc.logs, maxLogEntries)
}

func TestGetDashboardDataAggregates(t *testing.T) {
	svc := NewMonitoringService()
	now := time.Now()

	svc.LogRequest(LogEntry{Timestamp: now, Path: "/api/v1/chat", Method: "POST", StatusCode: 200, ResponseTime: 40 * time.Millisecond})
	svc.LogRequest(LogEntry{Timestamp: now, Path: "/api/v1/chat", Method: "POST", StatusCode: 400, ResponseTime: 10 * time.Millisecond})
	svc.LogRequest(LogEntry{Timestamp: now, Path: "/api/v1/scan-bill", Method: "POST", StatusCode: 500, ResponseTime: 200 * time.Millisecond})
	// Old entry outside the window.
	svc.LogRequest(LogEntry{Timestamp: now.Add(-48 * time.Hour), Path: "/api/v1/chat", Method: "POST", StatusCode: 200})

	data := svc.GetDashboardData(24)

	assert.Len(t, data.RequestsOverTime, 24)
	assert.Equal(t, 2, data.Endpoints["/api/v1/chat"])
	assert.Equal(t, 1, data.Endpoints["/api/v1/scan-bill"])

	counts := make(map[string]int)
	for _, entry := range data.StatusCodes {
		counts[entry["name"].(string)] = entry["value"].(int)
	}
	assert.Equal(t, 1, counts["2xx Success"])
	assert.Equal(t, 1, counts["4xx Client Error"])
	assert.Equal(t, 1, counts["5xx Server Error"])

	require.Len(t, data.RecentErrors, 1)
	assert.Equal(t, "/api/v1/scan-bill", data.RecentErrors[0].Path)
}
