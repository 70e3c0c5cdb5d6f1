// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package submission

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/danielhkuo/voteboard/bus"
	"github.com/danielhkuo/voteboard/identity"
	"github.com/danielhkuo/voteboard/models"
	"github.com/danielhkuo/voteboard/outbox"
	"github.com/danielhkuo/voteboard/projects"
	"github.com/danielhkuo/voteboard/store"
)

// lastSubmittedKey is the durable store key for the last successful sync
// timestamp.
const lastSubmittedKey = "submission:last-submitted"

// Orchestrator glues draft mutation state, the outbox queue, and sync
// bookkeeping into the single submit operation the UI calls.
type Orchestrator struct {
	drafts  *projects.Drafts
	queue   *outbox.Queue
	signals *bus.Bus
	store   *store.Store
	voter   identity.Provider
	logger  *slog.Logger
	now     func() time.Time
}

func NewOrchestrator(drafts *projects.Drafts, queue *outbox.Queue, signals *bus.Bus, st *store.Store, voter identity.Provider, logger *slog.Logger) *Orchestrator {
	return &Orchestrator{
		drafts:  drafts,
		queue:   queue,
		signals: signals,
		store:   st,
		voter:   voter,
		logger:  logger,
		now:     time.Now,
	}
}

// Submit builds a ballot from the current draft, queues it, and attempts an
// immediate flush. A flush failure is not a submit failure: the ballot stays
// queued for the next connectivity-restored attempt and the draft keeps its
// pending flag so the UI can show the unsynced state.
//
// Re-submitting before the first sync completes is safe: the remote path is
// keyed by voter, so the latest submit overwrites the prior ballot once
// delivered.
func (o *Orchestrator) Submit(ctx context.Context) (models.SubmitResponse, error) {
	voterID, err := o.voter.VoterID()
	if err != nil {
		return models.SubmitResponse{}, fmt.Errorf("cannot submit without a voter identity: %w", err)
	}

	ballot, err := o.buildBallot(voterID)
	if err != nil {
		return models.SubmitResponse{}, err
	}

	if err := o.drafts.Persist(); err != nil {
		return models.SubmitResponse{}, err
	}

	item, err := o.queue.Enqueue(ballot)
	if err != nil {
		return models.SubmitResponse{}, err
	}

	if err := o.signals.Publish(bus.TopicBallotSubmitted); err != nil {
		o.logger.Warn("failed to publish ballot-submitted signal", "error", err)
	}

	submittedAt := o.now()
	resp := models.SubmitResponse{
		SubmittedAt: submittedAt,
		QueuedCount: o.queue.Len(),
	}

	if flushErr := o.queue.Flush(ctx); flushErr != nil {
		o.logger.Warn("submission not yet synced", "item_id", item.ID, "error", flushErr)
		resp.QueuedCount = o.queue.Len()
		resp.Message = "Ballot queued; sync pending"
		return resp, nil
	}

	if err := o.drafts.ClearPending(); err != nil {
		o.logger.Warn("failed to clear pending flag", "error", err)
	}
	if err := o.store.SetJSON(lastSubmittedKey, submittedAt); err != nil {
		o.logger.Warn("failed to record last-submitted timestamp", "error", err)
	}

	o.logger.Info("ballot submitted and synced", "voter", voterID, "scored", len(ballot.Scores))

	resp.Synced = true
	resp.QueuedCount = o.queue.Len()
	resp.Message = "Ballot submitted successfully"
	return resp, nil
}

// Status reports the current sync state for the UI banner.
func (o *Orchestrator) Status() models.SyncStatusResponse {
	resp := models.SyncStatusResponse{
		QueuedCount:    o.queue.Len(),
		PendingChanges: o.drafts.Pending(),
	}

	var last time.Time
	err := o.store.GetJSON(lastSubmittedKey, &last)
	if err == nil {
		resp.LastSubmittedAt = &last
	} else if !errors.Is(err, store.ErrNotFound) {
		o.logger.Warn("last-submitted record unreadable", "error", err)
	}

	return resp
}

// buildBallot converts the draft into the wire-format ballot, excluding the
// voter's own project when one is declared.
func (o *Orchestrator) buildBallot(voterID string) (models.Ballot, error) {
	catalogue, err := o.drafts.Projects()
	if err != nil {
		return models.Ballot{}, err
	}

	ownID := o.drafts.OwnProjectID()

	scores := make([]models.BallotScore, 0, len(catalogue))
	for _, p := range catalogue {
		if ownID != "" && p.ID == ownID {
			continue
		}
		scores = append(scores, models.BallotScore{
			ProjectID: p.ID,
			Scores:    p.Scores,
			Readiness: p.Readiness,
			Comment:   p.Comment,
			Tags:      append([]string(nil), p.UserTags...),
		})
	}

	ranking := make([]string, 0, models.MaxPopularRanking)
	for _, id := range o.drafts.Ranking() {
		if ownID != "" && id == ownID {
			continue
		}
		ranking = append(ranking, id)
	}

	return models.Ballot{
		VoterID:        voterID,
		SubmittedAt:    o.now().UTC().Format(time.RFC3339),
		Scores:         scores,
		PopularRanking: ranking,
	}, nil
}
