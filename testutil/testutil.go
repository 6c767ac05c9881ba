// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/krle1978/health-predictor-ai/cliparse"
)

// RecordedRequest is one request seen by the fake backend
type RecordedRequest struct {
	Method      string
	Path        string
	ContentType string
	RequestID   string
	Body        []byte

	// Set for multipart uploads
	FileField string
	Filename  string
	FileType  string
	FileData  []byte
	PartCount int
}

// JSON decodes the recorded body as a JSON object
func (r RecordedRequest) JSON(t *testing.T) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(r.Body, &out); err != nil {
		t.Fatalf("Failed to decode recorded body %q: %v", r.Body, err)
	}
	return out
}

// FakeBackend stands in for the Inference Backend
type FakeBackend struct {
	*httptest.Server

	mu       sync.Mutex
	requests []RecordedRequest
	status   int
	body     string
	hold     chan struct{}
	arrived  chan struct{}
}

// NewFakeBackend starts a backend that answers every prediction with
// {"prediction":"Positive","confidence":0.873}
func NewFakeBackend(t *testing.T) *FakeBackend {
	t.Helper()

	b := &FakeBackend{
		status: http.StatusOK,
		body:   `{"prediction":"Positive","confidence":0.873}`,
	}
	b.Server = httptest.NewServer(http.HandlerFunc(b.serve))
	t.Cleanup(b.Close)
	return b
}

// Reply sets the status and JSON-encoded body of subsequent replies
func (b *FakeBackend) Reply(status int, body any) {
	raw, _ := json.Marshal(body)
	b.ReplyRaw(status, string(raw))
}

// ReplyRaw sets the status and raw body of subsequent replies
func (b *FakeBackend) ReplyRaw(status int, body string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.status = status
	b.body = body
}

// Hold makes requests wait until the returned release func is called.
// Arrived fires once per held request.
func (b *FakeBackend) Hold() (arrived <-chan struct{}, release func()) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.hold = make(chan struct{})
	b.arrived = make(chan struct{}, 16)
	hold := b.hold
	var once sync.Once
	return b.arrived, func() { once.Do(func() { close(hold) }) }
}

// Requests returns a snapshot of recorded requests
func (b *FakeBackend) Requests() []RecordedRequest {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]RecordedRequest, len(b.requests))
	copy(out, b.requests)
	return out
}

func (b *FakeBackend) serve(w http.ResponseWriter, r *http.Request) {
	rec := RecordedRequest{
		Method:      r.Method,
		Path:        r.URL.Path,
		ContentType: r.Header.Get("Content-Type"),
		RequestID:   r.Header.Get("X-Request-ID"),
	}

	if strings.HasPrefix(rec.ContentType, "multipart/") {
		if err := r.ParseMultipartForm(32 << 20); err == nil {
			for field, files := range r.MultipartForm.File {
				rec.PartCount += len(files)
				fh := files[0]
				rec.FileField = field
				rec.Filename = fh.Filename
				rec.FileType = fh.Header.Get("Content-Type")
				if f, err := fh.Open(); err == nil {
					rec.FileData, _ = io.ReadAll(f)
					f.Close()
				}
			}
			rec.PartCount += len(r.MultipartForm.Value)
		}
	} else {
		rec.Body, _ = io.ReadAll(r.Body)
	}

	b.mu.Lock()
	b.requests = append(b.requests, rec)
	status, body, hold, arrived := b.status, b.body, b.hold, b.arrived
	b.mu.Unlock()

	if hold != nil {
		arrived <- struct{}{}
		select {
		case <-hold:
		case <-time.After(10 * time.Second):
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write([]byte(body))
}

// GetTestConfig returns a standard test configuration pointing at backendURL
func GetTestConfig(backendURL string) cliparse.Config {
	return cliparse.Config{
		Port:           3318,
		BackendURL:     backendURL,
		RequestTimeout: 5 * time.Second,
		MaxUploadBytes: 1 << 20,
		LogLevel:       "error",
	}
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
