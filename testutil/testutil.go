// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/danielhkuo/voteboard/models"
	"github.com/danielhkuo/voteboard/store"
)

// NewStore creates an ephemeral in-memory store, closed when the test ends.
func NewStore(t *testing.T) *store.Store {
	t.Helper()

	st, err := store.Open(":memory:")
	if err != nil {
		t.Fatalf("Failed to open test store: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	return st
}

// NewLogger returns a logger that discards everything, keeping test output
// readable.
func NewLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// Homeserver is a fake homeserver: a path-keyed object map behind the same
// HTTP surface the real one exposes. Public GETs, bearer-authenticated PUTs.
type Homeserver struct {
	*httptest.Server

	token string

	mu      sync.Mutex
	objects map[string][]byte
}

// NewHomeserver starts a fake homeserver accepting writes with the given
// bearer token. It shuts down when the test ends.
func NewHomeserver(t *testing.T, token string) *Homeserver {
	t.Helper()

	h := &Homeserver{
		token:   token,
		objects: make(map[string][]byte),
	}
	h.Server = httptest.NewServer(http.HandlerFunc(h.serve))
	t.Cleanup(h.Server.Close)

	return h
}

func (h *Homeserver) serve(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.mu.Lock()
		data, ok := h.objects[r.URL.Path]
		h.mu.Unlock()
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write(data)

	case http.MethodPut:
		if r.Header.Get("Authorization") != "Bearer "+h.token {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		data, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, "bad body", http.StatusBadRequest)
			return
		}
		h.mu.Lock()
		h.objects[r.URL.Path] = data
		h.mu.Unlock()
		w.WriteHeader(http.StatusCreated)

	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// Set seeds an object at path, bypassing auth.
func (h *Homeserver) Set(t *testing.T, path string, v interface{}) {
	t.Helper()

	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("Failed to marshal object for %s: %v", path, err)
	}

	h.mu.Lock()
	h.objects[path] = data
	h.mu.Unlock()
}

// SetRaw seeds raw bytes at path; useful for malformed payloads.
func (h *Homeserver) SetRaw(path string, data []byte) {
	h.mu.Lock()
	h.objects[path] = data
	h.mu.Unlock()
}

// Object returns the stored bytes at path.
func (h *Homeserver) Object(path string) ([]byte, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	data, ok := h.objects[path]
	return data, ok
}

// ObjectCount returns the number of stored objects.
func (h *Homeserver) ObjectCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.objects)
}

// Projects returns n catalogue projects with ids p1..pn.
func Projects(n int) []models.Project {
	projs := make([]models.Project, 0, n)
	for i := 1; i <= n; i++ {
		projs = append(projs, models.Project{
			ID:   fmt.Sprintf("p%d", i),
			Name: fmt.Sprintf("Project %d", i),
		})
	}
	return projs
}

// UniformScore builds a ballot score rating every slider of projectID at v.
func UniformScore(projectID string, v int, ready bool) models.BallotScore {
	return models.BallotScore{
		ProjectID: projectID,
		Scores: models.SliderScores{
			Complexity:   v,
			Creativity:   v,
			Presentation: v,
			Feedback:     v,
		},
		Readiness: ready,
	}
}

// Ballot builds a ballot for voter submitted at the given RFC 3339 time.
func Ballot(voter, submittedAt string, scores ...models.BallotScore) models.Ballot {
	return models.Ballot{
		VoterID:     voter,
		SubmittedAt: submittedAt,
		Scores:      scores,
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

// MakeRawRequest creates an HTTP test request with a literal body.
func MakeRawRequest(method, path, body string) *http.Request {
	return httptest.NewRequest(method, path, strings.NewReader(body))
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
