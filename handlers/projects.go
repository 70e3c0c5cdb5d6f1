// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/danielhkuo/voteboard/leaderboard"
	"github.com/danielhkuo/voteboard/middleware"
	"github.com/danielhkuo/voteboard/models"
	"github.com/danielhkuo/voteboard/projects"
)

type ProjectsHandler struct {
	drafts    *projects.Drafts
	refresher *leaderboard.Refresher
}

func NewProjectsHandler(drafts *projects.Drafts, refresher *leaderboard.Refresher) *ProjectsHandler {
	return &ProjectsHandler{drafts: drafts, refresher: refresher}
}

// ListProjects handles GET /projects
func (h *ProjectsHandler) ListProjects(w http.ResponseWriter, r *http.Request) {
	projs, err := h.drafts.Projects()
	if err != nil {
		slog.Error("failed to load draft", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Store error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.ProjectsResponse{
		Projects:     projs,
		Ranking:      h.drafts.Ranking(),
		OwnProjectID: h.drafts.OwnProjectID(),
	})
}

// UpdateScores handles PUT /projects/:id/scores
func (h *ProjectsHandler) UpdateScores(w http.ResponseWriter, r *http.Request) {
	projectID := r.PathValue("id")
	if projectID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "project id is required")
		return
	}

	var req models.UpdateScoresRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	h.apply(w, r, h.drafts.SetScores(projectID, req.Scores))
}

// UpdateReadiness handles PUT /projects/:id/readiness
func (h *ProjectsHandler) UpdateReadiness(w http.ResponseWriter, r *http.Request) {
	projectID := r.PathValue("id")
	if projectID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "project id is required")
		return
	}

	var req models.UpdateReadinessRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	h.apply(w, r, h.drafts.SetReadiness(projectID, req.Readiness))
}

// UpdateComment handles PUT /projects/:id/comment
func (h *ProjectsHandler) UpdateComment(w http.ResponseWriter, r *http.Request) {
	projectID := r.PathValue("id")
	if projectID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "project id is required")
		return
	}

	var req models.UpdateCommentRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	h.apply(w, r, h.drafts.SetComment(projectID, req.Comment))
}

// UpdateTags handles PUT /projects/:id/tags
func (h *ProjectsHandler) UpdateTags(w http.ResponseWriter, r *http.Request) {
	projectID := r.PathValue("id")
	if projectID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "project id is required")
		return
	}

	var req models.UpdateTagsRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	h.apply(w, r, h.drafts.SetTags(projectID, req.Tags))
}

// UpdateRanking handles PUT /ranking
func (h *ProjectsHandler) UpdateRanking(w http.ResponseWriter, r *http.Request) {
	var req models.UpdateRankingRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	h.apply(w, r, h.drafts.SetRanking(req.Ranking))
}

// SetOwnProject handles PUT /own-project
func (h *ProjectsHandler) SetOwnProject(w http.ResponseWriter, r *http.Request) {
	var req models.SetOwnProjectRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	h.apply(w, r, h.drafts.SetOwnProjectID(req.ProjectID))
}

// apply maps draft mutation errors onto status codes and kicks a refresh on
// success so the local preview catches up immediately.
func (h *ProjectsHandler) apply(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case err == nil:
		h.refresher.Kick()
		middleware.JSONResponse(w, http.StatusOK, map[string]string{"status": "ok"})
	case errors.Is(err, projects.ErrUnknownProject):
		middleware.ErrorResponse(w, http.StatusNotFound, err.Error())
	case errors.Is(err, projects.ErrInvalidScore):
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
	default:
		slog.Error("failed to update draft", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Store error")
	}
}
