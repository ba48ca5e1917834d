package httputil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Commitlabs-Org/commitlabs/internal/errors"
)

func newTestPipeline() *Pipeline {
	return NewPipeline(nil)
}

func TestHandleSuccess(t *testing.T) {
	p := newTestPipeline()
	h := p.Handle(func(r *http.Request) (any, error) {
		return map[string]string{"id": "c1"}, nil
	})

	resp := httptest.NewRecorder()
	h.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/commitments/c1", nil))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if body["id"] != "c1" {
		t.Fatalf("unexpected body: %v", body)
	}
}

func TestHandleCreated(t *testing.T) {
	p := newTestPipeline()
	h := p.Handle(func(r *http.Request) (any, error) {
		return Created(map[string]string{"id": "c2"}), nil
	})

	resp := httptest.NewRecorder()
	h.ServeHTTP(resp, httptest.NewRequest(http.MethodPost, "/commitments", nil))
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.Code)
	}
}

func TestHandleClassifiedError(t *testing.T) {
	p := newTestPipeline()
	h := p.Handle(func(r *http.Request) (any, error) {
		return nil, errors.NotFound("commitment", "zzz")
	})

	resp := httptest.NewRecorder()
	h.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/commitments/zzz", nil))

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}
	var body map[string]any
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if body["code"] != string(errors.KindNotFound) {
		t.Fatalf("unexpected code: %v", body["code"])
	}
	if _, ok := body["message"].(string); !ok {
		t.Fatal("failure envelope must carry a message")
	}
	if _, present := body["details"]; present {
		t.Fatal("empty details must be omitted from the wire")
	}
}

func TestHandleUnclassifiedErrorDoesNotLeak(t *testing.T) {
	p := newTestPipeline()
	h := p.Handle(func(r *http.Request) (any, error) {
		return nil, fmt.Errorf("pq: connection refused user=admin")
	})

	resp := httptest.NewRecorder()
	h.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/commitments", nil))

	if resp.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", resp.Code)
	}
	if strings.Contains(resp.Body.String(), "connection refused") {
		t.Fatalf("internal cause leaked to client: %s", resp.Body.String())
	}
	var body map[string]any
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if body["code"] != string(errors.KindInternal) {
		t.Fatalf("unexpected code: %v", body["code"])
	}
}

func TestHandleRecoversPanic(t *testing.T) {
	p := newTestPipeline()
	h := p.Handle(func(r *http.Request) (any, error) {
		panic("boom")
	})

	resp := httptest.NewRecorder()
	h.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/commitments", nil))

	if resp.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", resp.Code)
	}
	if strings.Contains(resp.Body.String(), "boom") {
		t.Fatal("panic value leaked to client")
	}
}

func TestEnvelopeIsExactlyOneShape(t *testing.T) {
	p := newTestPipeline()
	h := p.Handle(func(r *http.Request) (any, error) {
		return nil, errors.Validation("page", "must be a positive integer")
	})

	resp := httptest.NewRecorder()
	h.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/commitments?page=x", nil))

	var body map[string]any
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	for _, key := range []string{"code", "message"} {
		if _, ok := body[key]; !ok {
			t.Fatalf("failure envelope missing %q", key)
		}
	}
	if _, ok := body["data"]; ok {
		t.Fatal("failure envelope must not carry success fields")
	}
}

func TestReadJSONRejectsUnknownFields(t *testing.T) {
	var dst struct {
		Title string `json:"title"`
	}
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"title":"x","bogus":1}`))
	if err := ReadJSON(req, &dst); err == nil {
		t.Fatal("expected error for unknown field")
	}

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"title":"x"}`))
	if err := ReadJSON(req, &dst); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dst.Title != "x" {
		t.Fatalf("decode failed: %+v", dst)
	}
}

func TestWriteErrorOmitsEmptyDetails(t *testing.T) {
	resp := httptest.NewRecorder()
	WriteError(resp, http.StatusConflict, "CONFLICT", "duplicate", nil)

	if strings.Contains(resp.Body.String(), "details") {
		t.Fatalf("expected details to be omitted: %s", resp.Body.String())
	}
	if ct := resp.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("unexpected content type %q", ct)
	}
}
