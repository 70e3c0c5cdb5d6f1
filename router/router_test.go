// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/danielhkuo/voteboard/bus"
	"github.com/danielhkuo/voteboard/identity"
	"github.com/danielhkuo/voteboard/leaderboard"
	"github.com/danielhkuo/voteboard/models"
	"github.com/danielhkuo/voteboard/outbox"
	"github.com/danielhkuo/voteboard/projects"
	"github.com/danielhkuo/voteboard/remote"
	"github.com/danielhkuo/voteboard/submission"
	"github.com/danielhkuo/voteboard/testutil"
)

func newTestRouter(t *testing.T) *http.ServeMux {
	t.Helper()

	logger := testutil.NewLogger()
	st := testutil.NewStore(t)
	signals := bus.New(logger)
	t.Cleanup(func() { signals.Close() })

	hs := testutil.NewHomeserver(t, "token")
	voter := identity.NewStaticProvider("alice", "token")
	client := remote.NewClient(hs.URL, "", voter, logger)

	drafts := projects.NewDrafts(st, logger)
	if err := drafts.Seed(testutil.Projects(2)); err != nil {
		t.Fatalf("Failed to seed catalogue: %v", err)
	}

	queue := outbox.NewQueue(st, signals, func(b models.Ballot) string {
		return client.BallotPath(b.VoterID)
	}, logger)
	if err := queue.RegisterSender(context.Background(), client.SendBallot); err != nil {
		t.Fatalf("Failed to register sender: %v", err)
	}

	engine := leaderboard.NewEngine(client, drafts, queue.Len, leaderboard.DefaultWeights(), logger)
	refresher := leaderboard.NewRefresher(engine, signals, time.Hour, logger)
	orchestrator := submission.NewOrchestrator(drafts, queue, signals, st, voter, logger)

	return NewRouter(Deps{
		Drafts:       drafts,
		Refresher:    refresher,
		Orchestrator: orchestrator,
		Queue:        queue,
		Signals:      signals,
	})
}

func TestHealthEndpoint(t *testing.T) {
	mux := newTestRouter(t)

	w := httptest.NewRecorder()
	mux.ServeHTTP(w, testutil.MakeRequest("GET", "/health", nil, nil))

	testutil.AssertStatus(t, w, http.StatusOK)
	if w.Body.String() != "OK" {
		t.Errorf("Expected body 'OK', got %q", w.Body.String())
	}
}

func TestRootEndpoint(t *testing.T) {
	mux := newTestRouter(t)

	w := httptest.NewRecorder()
	mux.ServeHTTP(w, testutil.MakeRequest("GET", "/", nil, nil))

	testutil.AssertStatus(t, w, http.StatusOK)
	if w.Body.String() != "voteboard API v1" {
		t.Errorf("Unexpected root body: %q", w.Body.String())
	}
}

func TestRouteExistence(t *testing.T) {
	mux := newTestRouter(t)

	tests := []struct {
		method string
		path   string
		body   interface{}
	}{
		{"GET", "/projects", nil},
		{"PUT", "/projects/p1/scores", models.UpdateScoresRequest{}},
		{"PUT", "/projects/p1/readiness", models.UpdateReadinessRequest{}},
		{"PUT", "/projects/p1/comment", models.UpdateCommentRequest{}},
		{"PUT", "/projects/p1/tags", models.UpdateTagsRequest{}},
		{"PUT", "/ranking", models.UpdateRankingRequest{}},
		{"PUT", "/own-project", models.SetOwnProjectRequest{}},
		{"GET", "/leaderboard", nil},
		{"POST", "/submit", nil},
		{"GET", "/sync/status", nil},
		{"POST", "/sync/flush", nil},
		{"POST", "/signals/online", nil},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, testutil.MakeRequest(tt.method, tt.path, tt.body, nil))

			if w.Code == http.StatusNotFound {
				t.Errorf("Route %s %s not registered", tt.method, tt.path)
			}
			if w.Code == http.StatusMethodNotAllowed {
				t.Errorf("Route %s %s rejected its own method", tt.method, tt.path)
			}
		})
	}
}

func TestMethodNotAllowed(t *testing.T) {
	mux := newTestRouter(t)

	tests := []struct {
		method string
		path   string
	}{
		{"DELETE", "/projects"},
		{"GET", "/ranking"},
		{"PUT", "/submit"},
		{"DELETE", "/leaderboard"},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, testutil.MakeRequest(tt.method, tt.path, nil, nil))
			testutil.AssertStatus(t, w, http.StatusMethodNotAllowed)
		})
	}
}

func TestPathParameterExtraction(t *testing.T) {
	mux := newTestRouter(t)

	// A known id succeeds, an unknown id maps to 404 from the handler
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, testutil.MakeRequest("PUT", "/projects/p1/readiness", models.UpdateReadinessRequest{Readiness: true}, nil))
	testutil.AssertStatus(t, w, http.StatusOK)

	w = httptest.NewRecorder()
	mux.ServeHTTP(w, testutil.MakeRequest("PUT", "/projects/ghost/readiness", models.UpdateReadinessRequest{}, nil))
	testutil.AssertStatus(t, w, http.StatusNotFound)
}
