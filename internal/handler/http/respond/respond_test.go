package respond

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestJSON(t *testing.T) {
	tests := []struct {
		name     string
		code     int
		data     any
		wantBody string
	}{
		{
			name:     "map payload",
			code:     http.StatusOK,
			data:     map[string]string{"status": "ok"},
			wantBody: `{"status":"ok"}`,
		},
		{
			name:     "struct payload",
			code:     http.StatusCreated,
			data:     struct{ ID int64 }{ID: 42},
			wantBody: `{"ID":42}`,
		},
		{
			name:     "nil payload writes no body",
			code:     http.StatusNoContent,
			data:     nil,
			wantBody: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			JSON(w, tt.code, tt.data)

			if w.Code != tt.code {
				t.Errorf("Code = %v, want %v", w.Code, tt.code)
			}
			if ct := w.Header().Get("Content-Type"); ct != "application/json" {
				t.Errorf("Content-Type = %v, want application/json", ct)
			}
			if body := strings.TrimSpace(w.Body.String()); body != tt.wantBody {
				t.Errorf("Body = %v, want %v", body, tt.wantBody)
			}
		})
	}
}

func TestJSON_EncodingError(t *testing.T) {
	w := httptest.NewRecorder()
	JSON(w, http.StatusOK, make(chan int))

	// Headers and status already left; only the body is missing.
	if w.Code != http.StatusOK {
		t.Errorf("Code = %v, want %v", w.Code, http.StatusOK)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %v, want application/json", ct)
	}
}

func TestError(t *testing.T) {
	w := httptest.NewRecorder()
	Error(w, http.StatusNotFound, errors.New("post not found"))

	if w.Code != http.StatusNotFound {
		t.Errorf("Code = %v, want 404", w.Code)
	}
	var body map[string]string
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body["error"] != "post not found" {
		t.Errorf("error = %v, want verbatim message", body["error"])
	}
}

func TestSafeError(t *testing.T) {
	tests := []struct {
		name    string
		code    int
		err     error
		wantMsg string
	}{
		{
			name:    "validation error echoed",
			code:    http.StatusBadRequest,
			err:     errors.New("validation error on field 'title': is required"),
			wantMsg: "validation error on field 'title': is required",
		},
		{
			name:    "unknown filter alias echoed",
			code:    http.StatusBadRequest,
			err:     errors.New(`invalid field "invalidField": unknown field`),
			wantMsg: `invalid field "invalidField": unknown field`,
		},
		{
			name:    "malformed token echoed",
			code:    http.StatusBadRequest,
			err:     errors.New("malformed page token: illegal base64 data"),
			wantMsg: "malformed page token: illegal base64 data",
		},
		{
			name:    "missing entity echoed",
			code:    http.StatusNotFound,
			err:     errors.New("entity not found"),
			wantMsg: "entity not found",
		},
		{
			name:    "overlong content echoed",
			code:    http.StatusBadRequest,
			err:     errors.New("validation error on field 'content': is too long"),
			wantMsg: "validation error on field 'content': is too long",
		},
		{
			name:    "driver error masked",
			code:    http.StatusInternalServerError,
			err:     errors.New("pq: connection refused at postgres://feed:secret123@db:5432"),
			wantMsg: "internal server error",
		},
		{
			name:    "5xx masked even with safe fragment",
			code:    http.StatusServiceUnavailable,
			err:     errors.New("store unavailable: invalid connection state"),
			wantMsg: "internal server error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			SafeError(w, tt.code, tt.err)

			if w.Code != tt.code {
				t.Errorf("Code = %v, want %v", w.Code, tt.code)
			}
			var body map[string]string
			if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
				t.Fatalf("decode response: %v", err)
			}
			if body["error"] != tt.wantMsg {
				t.Errorf("error = %q, want %q", body["error"], tt.wantMsg)
			}
		})
	}
}

func TestSafeError_NilWritesNothing(t *testing.T) {
	w := httptest.NewRecorder()
	SafeError(w, http.StatusBadRequest, nil)
	if w.Body.Len() != 0 {
		t.Errorf("expected empty body, got %q", w.Body.String())
	}
}
