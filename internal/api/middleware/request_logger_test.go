package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

func TestRequestLogger_WritesOneLine(t *testing.T) {
	var buf bytes.Buffer
	log := zerolog.New(&buf)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/cart", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set(SessionIDKey, "sid-1")
	c.Response().Header().Set(echo.HeaderXRequestID, "req-7")

	handler := RequestLogger(log)(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var line map[string]any
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("expected one json line, got %q: %v", buf.String(), err)
	}
	if line["level"] != "info" || line["method"] != "GET" || line["path"] != "/v1/cart" {
		t.Fatalf("unexpected line: %+v", line)
	}
	if line["status"] != float64(http.StatusOK) || line["request_id"] != "req-7" || line["session_id"] != "sid-1" {
		t.Fatalf("unexpected line: %+v", line)
	}
	if _, ok := line["latency"]; !ok {
		t.Fatalf("expected latency field: %+v", line)
	}
}

func TestRequestLogger_RendersErrorsBeforeLogging(t *testing.T) {
	var buf bytes.Buffer
	log := zerolog.New(&buf)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/cart", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := RequestLogger(log)(func(c echo.Context) error {
		return echo.NewHTTPError(http.StatusConflict, "no cart yet")
	})
	if err := handler(c); err != nil {
		t.Fatalf("error should be handled, got %v", err)
	}
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}

	var line map[string]any
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("invalid json line: %v", err)
	}
	if line["level"] != "warn" || line["status"] != float64(http.StatusConflict) {
		t.Fatalf("unexpected line: %+v", line)
	}
}
