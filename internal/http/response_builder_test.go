package http

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"fintrack/internal/core"
)

func TestJSONResponseBuilder_Basic(t *testing.T) {
	w := httptest.NewRecorder()

	NewJSONResponse().
		Status(http.StatusCreated).
		Header("X-Test", "1").
		Body(map[string]int{"n": 1}).
		Write(w)

	if w.Code != http.StatusCreated {
		t.Errorf("Status code = %d, want %d", w.Code, http.StatusCreated)
	}
	if got := w.Header().Get("Content-Type"); got != contentTypeJSON {
		t.Errorf("Content-Type = %q", got)
	}
	if w.Header().Get("X-Test") != "1" {
		t.Error("custom header not set")
	}
	if strings.TrimSpace(w.Body.String()) != `{"n":1}` {
		t.Errorf("Body = %q", w.Body.String())
	}
}

func TestErrorResponse_OmitsEmptyDetail(t *testing.T) {
	w := httptest.NewRecorder()
	ErrorResponse(http.StatusNotFound, "Goal not found", "").Write(w)

	if strings.TrimSpace(w.Body.String()) != `{"message":"Goal not found"}` {
		t.Errorf("Body = %q", w.Body.String())
	}
}

func TestWriteErrorStatusMapping(t *testing.T) {
	s := &Server{}
	tests := []struct {
		err    error
		status int
		body   string
	}{
		{core.Validation("bad"), http.StatusBadRequest, `{"message":"bad"}`},
		{core.Conflict("taken"), http.StatusBadRequest, `{"message":"taken"}`},
		{core.Unauthorized("who"), http.StatusUnauthorized, `{"message":"who"}`},
		{core.NotFound("gone"), http.StatusNotFound, `{"message":"gone"}`},
		{errors.New("disk full"), http.StatusInternalServerError, `{"message":"Error adding expense","error":"disk full"}`},
	}
	for _, tt := range tests {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPost, "/api/v1/expense/add", nil)
		s.writeError(w, r, "create", "Error adding expense", tt.err)

		if w.Code != tt.status {
			t.Errorf("%v: status = %d, want %d", tt.err, w.Code, tt.status)
		}
		if strings.TrimSpace(w.Body.String()) != tt.body {
			t.Errorf("%v: body = %s, want %s", tt.err, w.Body.String(), tt.body)
		}
	}
}

func TestShortErrorTruncates(t *testing.T) {
	long := errors.New(strings.Repeat("x", 500))
	got := shortError(long)
	if len([]rune(got)) != maxErrorDetail+3 {
		t.Errorf("len = %d", len([]rune(got)))
	}
}
