// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package leaderboard

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/danielhkuo/voteboard/bus"
	"github.com/danielhkuo/voteboard/models"
	"github.com/danielhkuo/voteboard/testutil"
)

// countingFetcher serves a fixed summary and counts fetches.
type countingFetcher struct {
	summary *models.Summary
	fetches atomic.Int64
}

func (f *countingFetcher) FetchSummary(ctx context.Context) *models.Summary {
	f.fetches.Add(1)
	return f.summary
}

func (f *countingFetcher) FetchAllBallots(ctx context.Context) []models.Ballot { return nil }

// gatedFetcher blocks each FetchSummary call until the test feeds its gate,
// making overlapping refreshes deterministic.
type gatedFetcher struct {
	mu    sync.Mutex
	calls int
	gates []chan *models.Summary
}

func (f *gatedFetcher) FetchSummary(ctx context.Context) *models.Summary {
	f.mu.Lock()
	gate := f.gates[f.calls]
	f.calls++
	f.mu.Unlock()
	return <-gate
}

func (f *gatedFetcher) FetchAllBallots(ctx context.Context) []models.Ballot { return nil }

func (f *gatedFetcher) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// flakySource can be switched into a failing state mid-test.
type flakySource struct {
	mu       sync.Mutex
	projects []models.Project
	err      error
}

func (s *flakySource) Projects() ([]models.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.projects, s.err
}

func (s *flakySource) setErr(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}

func summaryWithVoters(voters int) *models.Summary {
	return &models.Summary{
		GeneratedAt: "2026-08-01T12:00:00Z",
		TotalVoters: voters,
		Entries:     []models.SummaryEntry{{ProjectID: "p1", Total: 50}},
	}
}

func newTestRefresher(t *testing.T, fetcher Fetcher, source ProjectSource) (*Refresher, *bus.Bus) {
	t.Helper()

	logger := testutil.NewLogger()
	signals := bus.New(logger)
	t.Cleanup(func() { signals.Close() })

	engine := NewEngine(fetcher, source, func() int { return 0 }, DefaultWeights(), logger)
	return NewRefresher(engine, signals, time.Hour, logger), signals
}

func TestRefreshPublishesState(t *testing.T) {
	fetcher := &countingFetcher{summary: summaryWithVoters(3)}
	source := &flakySource{projects: testutil.Projects(1)}
	r, _ := newTestRefresher(t, fetcher, source)

	require.False(t, r.Ready())

	r.Refresh(context.Background())

	require.True(t, r.Ready())
	state, loading, err := r.Snapshot()
	require.NoError(t, err)
	require.False(t, loading)
	require.Equal(t, 3, state.TotalVoters)
	require.Equal(t, models.SourceRemoteSummary, state.Source)
}

func TestRefreshFailureKeepsPreviousState(t *testing.T) {
	fetcher := &countingFetcher{summary: summaryWithVoters(3)}
	source := &flakySource{projects: testutil.Projects(1)}
	r, _ := newTestRefresher(t, fetcher, source)

	r.Refresh(context.Background())
	before, _, err := r.Snapshot()
	require.NoError(t, err)

	source.setErr(errors.New("store corrupt"))
	r.Refresh(context.Background())

	after, loading, err := r.Snapshot()
	require.Error(t, err)
	require.False(t, loading)
	if diff := cmp.Diff(before.Entries, after.Entries); diff != "" {
		t.Errorf("Entries changed on failed refresh (-before +after):\n%s", diff)
	}

	// A later success clears the error
	source.setErr(nil)
	r.Refresh(context.Background())
	_, _, err = r.Snapshot()
	require.NoError(t, err)
}

func TestStaleCompletionDiscarded(t *testing.T) {
	fetcher := &gatedFetcher{gates: []chan *models.Summary{
		make(chan *models.Summary),
		make(chan *models.Summary),
	}}
	source := &flakySource{projects: testutil.Projects(1)}
	r, _ := newTestRefresher(t, fetcher, source)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() { defer wg.Done(); r.Refresh(context.Background()) }()
	require.Eventually(t, func() bool { return fetcher.callCount() == 1 }, time.Second, time.Millisecond)

	go func() { defer wg.Done(); r.Refresh(context.Background()) }()
	require.Eventually(t, func() bool { return fetcher.callCount() == 2 }, time.Second, time.Millisecond)

	_, loading, _ := r.Snapshot()
	require.True(t, loading, "in-flight refreshes should report loading")

	// The second refresh finishes first and publishes
	fetcher.gates[1] <- summaryWithVoters(9)
	require.Eventually(t, func() bool {
		state, _, _ := r.Snapshot()
		return state.TotalVoters == 9
	}, time.Second, time.Millisecond)

	// The first refresh finishes late; its result must be discarded
	fetcher.gates[0] <- summaryWithVoters(1)
	wg.Wait()

	state, loading, err := r.Snapshot()
	require.NoError(t, err)
	require.False(t, loading)
	require.Equal(t, 9, state.TotalVoters, "stale completion must not clobber the newer state")
}

func TestKickRefreshesAsynchronously(t *testing.T) {
	fetcher := &countingFetcher{summary: summaryWithVoters(2)}
	source := &flakySource{projects: testutil.Projects(1)}
	r, _ := newTestRefresher(t, fetcher, source)

	r.Kick()

	require.Eventually(t, func() bool { return r.Ready() }, time.Second, time.Millisecond)
}

func TestRunRefreshesOnBallotSignal(t *testing.T) {
	fetcher := &countingFetcher{summary: summaryWithVoters(2)}
	source := &flakySource{projects: testutil.Projects(1)}
	r, signals := newTestRefresher(t, fetcher, source)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go r.Run(ctx)

	// Initial refresh on start
	require.Eventually(t, func() bool { return fetcher.fetches.Load() >= 1 }, time.Second, time.Millisecond)

	require.NoError(t, signals.Publish(bus.TopicBallotSubmitted))
	require.Eventually(t, func() bool { return fetcher.fetches.Load() >= 2 }, time.Second, time.Millisecond)
}
