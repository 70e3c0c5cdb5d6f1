// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"net/http"

	"github.com/danielhkuo/voteboard/bus"
	"github.com/danielhkuo/voteboard/handlers"
	"github.com/danielhkuo/voteboard/leaderboard"
	"github.com/danielhkuo/voteboard/middleware"
	"github.com/danielhkuo/voteboard/outbox"
	"github.com/danielhkuo/voteboard/projects"
	"github.com/danielhkuo/voteboard/submission"
)

// Deps bundles the core components the handlers need.
type Deps struct {
	Drafts       *projects.Drafts
	Refresher    *leaderboard.Refresher
	Orchestrator *submission.Orchestrator
	Queue        *outbox.Queue
	Signals      *bus.Bus
}

func NewRouter(deps Deps) *http.ServeMux {
	mux := http.NewServeMux()

	// Initialize handlers
	projectsHandler := handlers.NewProjectsHandler(deps.Drafts, deps.Refresher)
	leaderboardHandler := handlers.NewLeaderboardHandler(deps.Refresher)
	syncHandler := handlers.NewSyncHandler(deps.Orchestrator, deps.Queue, deps.Signals)

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Draft mutation (local, always available)
	mux.HandleFunc("GET /projects", middleware.WithLogging(projectsHandler.ListProjects))
	mux.HandleFunc("PUT /projects/{id}/scores", middleware.WithLogging(projectsHandler.UpdateScores))
	mux.HandleFunc("PUT /projects/{id}/readiness", middleware.WithLogging(projectsHandler.UpdateReadiness))
	mux.HandleFunc("PUT /projects/{id}/comment", middleware.WithLogging(projectsHandler.UpdateComment))
	mux.HandleFunc("PUT /projects/{id}/tags", middleware.WithLogging(projectsHandler.UpdateTags))
	mux.HandleFunc("PUT /ranking", middleware.WithLogging(projectsHandler.UpdateRanking))
	mux.HandleFunc("PUT /own-project", middleware.WithLogging(projectsHandler.SetOwnProject))

	// Leaderboard reads
	mux.HandleFunc("GET /leaderboard", middleware.WithLogging(leaderboardHandler.GetLeaderboard))

	// Submission and sync
	mux.HandleFunc("POST /submit", middleware.WithLogging(syncHandler.Submit))
	mux.HandleFunc("GET /sync/status", middleware.WithLogging(syncHandler.Status))
	mux.HandleFunc("POST /sync/flush", middleware.WithLogging(syncHandler.Flush))
	mux.HandleFunc("POST /signals/online", middleware.WithLogging(syncHandler.Online))

	// Root endpoint
	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("voteboard API v1"))
	})

	return mux
}
