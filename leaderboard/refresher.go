// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package leaderboard

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/danielhkuo/voteboard/bus"
	"github.com/danielhkuo/voteboard/models"
)

// DefaultInterval is the polling cadence of the live refresh loop.
const DefaultInterval = 10 * time.Second

// Refresher keeps a leaderboard snapshot fresh. It recomputes on start, on
// a fixed interval, on explicit kicks (draft mutations), and on the
// ballot-submitted signal. Overlapping refreshes are allowed; completions
// carry a monotonic sequence number and a stale completion is discarded so
// it can never clobber a newer one.
type Refresher struct {
	engine   *Engine
	signals  *bus.Bus
	interval time.Duration
	logger   *slog.Logger

	mu        sync.Mutex
	seq       uint64 // last refresh started
	published uint64 // sequence of the published state
	state     models.LeaderboardState
	err       error
	haveState bool
}

func NewRefresher(engine *Engine, signals *bus.Bus, interval time.Duration, logger *slog.Logger) *Refresher {
	if interval <= 0 {
		interval = DefaultInterval
	}

	return &Refresher{
		engine:   engine,
		signals:  signals,
		interval: interval,
		logger:   logger,
	}
}

// Run drives the refresh loop until ctx is cancelled. It performs an
// immediate refresh, then refreshes on every tick and on every
// ballot-submitted signal.
func (r *Refresher) Run(ctx context.Context) error {
	msgs, err := r.signals.Subscribe(ctx, bus.TopicBallotSubmitted)
	if err != nil {
		return err
	}

	r.Refresh(ctx)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			r.Refresh(ctx)
		case msg, ok := <-msgs:
			if !ok {
				return nil
			}
			msg.Ack()
			r.Refresh(ctx)
		}
	}
}

// Refresh recomputes the snapshot once. On success the fresh state is
// published and any previous error cleared; on failure the previous entries
// stay so the leaderboard never blanks out on a transient fault.
func (r *Refresher) Refresh(ctx context.Context) {
	r.mu.Lock()
	r.seq++
	seq := r.seq
	r.mu.Unlock()

	state, err := r.engine.Compute(ctx)

	r.mu.Lock()
	defer r.mu.Unlock()

	// Out-of-order completion: a newer refresh already published.
	if seq <= r.published {
		return
	}
	r.published = seq

	if err != nil {
		r.logger.Warn("leaderboard refresh failed, keeping previous state", "error", err)
		r.err = err
		return
	}

	r.state = state
	r.haveState = true
	r.err = nil
}

// Kick schedules an asynchronous refresh, used when the draft catalogue
// changes. The refresh runs on a background context: it must outlive the
// request that triggered it.
func (r *Refresher) Kick() {
	go r.Refresh(context.Background())
}

// Snapshot returns the latest published state, whether a refresh is in
// flight, and the error of the last failed refresh (nil after a success).
func (r *Refresher) Snapshot() (models.LeaderboardState, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	loading := r.seq > r.published
	return r.state, loading, r.err
}

// Ready reports whether at least one refresh has published a state.
func (r *Refresher) Ready() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.haveState
}
