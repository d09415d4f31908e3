package middleware

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.Use(RequestLogger(logger))
	engine.GET("/probe", func(c *gin.Context) { c.Status(http.StatusTeapot) })

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	engine.ServeHTTP(rec, req)

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("expected JSON log record, got %q: %v", buf.String(), err)
	}
	if record["msg"] != "http request" {
		t.Errorf("unexpected log message %v", record["msg"])
	}
	if record["method"] != http.MethodGet {
		t.Errorf("expected method GET, got %v", record["method"])
	}
	if record["path"] != "/probe" {
		t.Errorf("expected path /probe, got %v", record["path"])
	}
	if status, _ := record["status"].(float64); int(status) != http.StatusTeapot {
		t.Errorf("expected status 418, got %v", record["status"])
	}
}
