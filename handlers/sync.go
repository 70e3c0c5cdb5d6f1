// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/danielhkuo/voteboard/bus"
	"github.com/danielhkuo/voteboard/identity"
	"github.com/danielhkuo/voteboard/middleware"
	"github.com/danielhkuo/voteboard/models"
	"github.com/danielhkuo/voteboard/outbox"
	"github.com/danielhkuo/voteboard/submission"
)

type SyncHandler struct {
	orchestrator *submission.Orchestrator
	queue        *outbox.Queue
	signals      *bus.Bus
}

func NewSyncHandler(orchestrator *submission.Orchestrator, queue *outbox.Queue, signals *bus.Bus) *SyncHandler {
	return &SyncHandler{orchestrator: orchestrator, queue: queue, signals: signals}
}

// Submit handles POST /submit
// Returns 201 when the ballot reached the homeserver, 202 when it was
// queued for later delivery.
func (h *SyncHandler) Submit(w http.ResponseWriter, r *http.Request) {
	resp, err := h.orchestrator.Submit(r.Context())
	if err != nil {
		if errors.Is(err, identity.ErrNoVoter) {
			middleware.ErrorResponse(w, http.StatusUnauthorized, "No voter identity configured")
			return
		}
		slog.Error("failed to submit ballot", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to submit ballot")
		return
	}

	status := http.StatusCreated
	if !resp.Synced {
		status = http.StatusAccepted
	}

	middleware.JSONResponse(w, status, resp)
}

// Status handles GET /sync/status
func (h *SyncHandler) Status(w http.ResponseWriter, r *http.Request) {
	middleware.JSONResponse(w, http.StatusOK, h.orchestrator.Status())
}

// Flush handles POST /sync/flush
// A partial flush is an expected state, not an API error: the response says
// how much remains.
func (h *SyncHandler) Flush(w http.ResponseWriter, r *http.Request) {
	err := h.queue.Flush(r.Context())
	switch {
	case err == nil:
		middleware.JSONResponse(w, http.StatusOK, models.FlushResponse{
			Flushed:     true,
			QueuedCount: h.queue.Len(),
		})
	case errors.Is(err, outbox.ErrNoSender):
		slog.Error("flush requested with no sender registered")
		middleware.ErrorResponse(w, http.StatusInternalServerError, "No sender registered")
	case errors.Is(err, outbox.ErrPartialFlush):
		middleware.JSONResponse(w, http.StatusOK, models.FlushResponse{
			Flushed:     false,
			QueuedCount: h.queue.Len(),
			Message:     "Some submissions could not be synced",
		})
	default:
		slog.Error("flush failed", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Flush failed")
	}
}

// Online handles POST /signals/online
// The UI reports regained connectivity here; the outbox flushes on the
// resulting signal.
func (h *SyncHandler) Online(w http.ResponseWriter, r *http.Request) {
	if err := h.signals.Publish(bus.TopicConnectivityRestored); err != nil {
		slog.Error("failed to publish connectivity signal", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to signal")
		return
	}

	middleware.JSONResponse(w, http.StatusAccepted, map[string]string{"status": "ok"})
}
