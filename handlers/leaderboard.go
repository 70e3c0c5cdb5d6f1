// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"

	"github.com/danielhkuo/voteboard/leaderboard"
	"github.com/danielhkuo/voteboard/middleware"
	"github.com/danielhkuo/voteboard/models"
)

type LeaderboardHandler struct {
	refresher *leaderboard.Refresher
}

func NewLeaderboardHandler(refresher *leaderboard.Refresher) *LeaderboardHandler {
	return &LeaderboardHandler{refresher: refresher}
}

// GetLeaderboard handles GET /leaderboard
// Always returns the last-known-good state; a refresh failure only shows up
// in the error field, never as a blank leaderboard.
func (h *LeaderboardHandler) GetLeaderboard(w http.ResponseWriter, r *http.Request) {
	state, loading, err := h.refresher.Snapshot()

	resp := models.LeaderboardResponse{
		LeaderboardState: state,
		IsLoading:        loading,
	}
	if err != nil {
		resp.Error = err.Error()
	}
	if resp.Entries == nil {
		resp.Entries = []models.LeaderboardEntry{}
	}

	middleware.JSONResponse(w, http.StatusOK, resp)
}
