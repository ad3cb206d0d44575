package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/stallcraft/stallcraft/internal/content"
	"github.com/stallcraft/stallcraft/internal/docstore"
	"github.com/stallcraft/stallcraft/internal/media"
)

func newTestContext(t *testing.T) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) Envelope {
	t.Helper()
	var env Envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	return env
}

func TestRespondSuccessEnvelope(t *testing.T) {
	t.Parallel()

	c, rec := newTestContext(t)
	if err := respond(c, http.StatusOK, "Blogs fetched successfully", []string{"a"}); err != nil {
		t.Fatalf("respond: %v", err)
	}

	env := decodeEnvelope(t, rec)
	if env.StatusCode != http.StatusOK {
		t.Fatalf("statusCode = %d", env.StatusCode)
	}
	if env.ErrorCode != "NO" {
		t.Fatalf("errorCode = %q, want NO on success", env.ErrorCode)
	}
	if env.Message != "Blogs fetched successfully" {
		t.Fatalf("message = %q", env.Message)
	}
	if env.Data == nil {
		t.Fatalf("data missing")
	}
}

func TestMapError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"not found", docstore.ErrNotFound, http.StatusNotFound, "NOT_FOUND"},
		{"wrapped not found", fmt.Errorf("get blog: %w", docstore.ErrNotFound), http.StatusNotFound, "NOT_FOUND"},
		{"validation", fmt.Errorf("%w: name is required", content.ErrValidation), http.StatusBadRequest, "BAD_REQUEST"},
		{"too large", media.ErrPayloadTooLarge, http.StatusBadRequest, "PAYLOAD_TOO_LARGE"},
		{"unsupported", media.ErrUnsupportedInput, http.StatusBadRequest, "UNSUPPORTED_MEDIA"},
		{"no media", media.ErrNoMediaProvided, http.StatusBadRequest, "BAD_REQUEST"},
		{"bad media url", media.ErrInvalidMediaURL, http.StatusBadRequest, "BAD_REQUEST"},
		{"unknown", errors.New("pool exhausted"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c, rec := newTestContext(t)
			if err := mapError(c, slog.Default(), "test op", tt.err); err != nil {
				t.Fatalf("mapError: %v", err)
			}

			env := decodeEnvelope(t, rec)
			if rec.Code != tt.wantStatus || env.StatusCode != tt.wantStatus {
				t.Fatalf("status = %d/%d, want %d", rec.Code, env.StatusCode, tt.wantStatus)
			}
			if env.ErrorCode != tt.wantCode {
				t.Fatalf("errorCode = %q, want %q", env.ErrorCode, tt.wantCode)
			}
			if env.ErrorMessage == "" {
				t.Fatalf("errorMessage must be set on failure")
			}
		})
	}
}

func TestMapErrorHidesInternalDetail(t *testing.T) {
	t.Parallel()

	c, rec := newTestContext(t)
	internal := errors.New("dial tcp 10.0.0.5:5432: connection refused")
	if err := mapError(c, slog.Default(), "list blogs", internal); err != nil {
		t.Fatalf("mapError: %v", err)
	}

	env := decodeEnvelope(t, rec)
	if env.ErrorMessage != "Internal Server Error" {
		t.Fatalf("internal detail leaked to client: %q", env.ErrorMessage)
	}
}
