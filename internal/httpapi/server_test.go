package httpapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

func TestParsePositiveInt(t *testing.T) {
	t.Parallel()

	if got, err := parsePositiveInt("", 50, 1, 200); err != nil || got != 50 {
		t.Fatalf("empty input: got %d, %v", got, err)
	}
	if got, err := parsePositiveInt(" 25 ", 50, 1, 200); err != nil || got != 25 {
		t.Fatalf("trimmed input: got %d, %v", got, err)
	}
	if _, err := parsePositiveInt("abc", 50, 1, 200); err == nil {
		t.Fatal("non-integer accepted")
	}
	if _, err := parsePositiveInt("0", 50, 1, 200); err == nil {
		t.Fatal("below-minimum accepted")
	}
	if _, err := parsePositiveInt("201", 50, 1, 200); err == nil {
		t.Fatal("above-maximum accepted")
	}
}

func TestResponseEnvelopes(t *testing.T) {
	t.Parallel()

	e := echo.New()

	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
	if err := success(c, map[string]any{"value": 1}); err != nil {
		t.Fatalf("success: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d, want 200", rec.Code)
	}
	var body envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.Status != "ok" || body.Error != nil {
		t.Fatalf("unexpected envelope: %+v", body)
	}

	rec = httptest.NewRecorder()
	c = e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
	if err := failValidation(c, map[string]string{"limit": "must be an integer"}); err != nil {
		t.Fatalf("failValidation: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status %d, want 400", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "must be an integer") {
		t.Fatalf("missing field detail: %s", rec.Body.String())
	}

	rec = httptest.NewRecorder()
	c = e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
	if err := failNotFound(c, "Run not found"); err != nil {
		t.Fatalf("failNotFound: %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status %d, want 404", rec.Code)
	}
}

func TestNewServerDefaults(t *testing.T) {
	t.Parallel()

	s := NewServer(nil, zerolog.Nop(), Options{})
	if s.opts.Host != "0.0.0.0" || s.opts.Port != 8090 {
		t.Fatalf("defaults: %+v", s.opts)
	}
	if s.opts.ReadTimeout <= 0 || s.opts.WriteTimeout <= 0 || s.opts.ShutdownTimeout <= 0 {
		t.Fatalf("timeouts not defaulted: %+v", s.opts)
	}
}
