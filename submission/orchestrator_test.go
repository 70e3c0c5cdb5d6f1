// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package submission

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/danielhkuo/voteboard/bus"
	"github.com/danielhkuo/voteboard/identity"
	"github.com/danielhkuo/voteboard/models"
	"github.com/danielhkuo/voteboard/outbox"
	"github.com/danielhkuo/voteboard/projects"
	"github.com/danielhkuo/voteboard/remote"
	"github.com/danielhkuo/voteboard/store"
	"github.com/danielhkuo/voteboard/testutil"
)

const testToken = "test-session-token"

type fixture struct {
	orchestrator *Orchestrator
	drafts       *projects.Drafts
	queue        *outbox.Queue
	store        *store.Store
	homeserver   *testutil.Homeserver
}

// newFixture wires a full submission stack against a fake homeserver. Pass
// an empty voterID for the anonymous case, an empty token for the
// queued-but-unsynced case.
func newFixture(t *testing.T, voterID, token string) *fixture {
	t.Helper()

	logger := testutil.NewLogger()
	st := testutil.NewStore(t)
	signals := bus.New(logger)
	t.Cleanup(func() { signals.Close() })

	hs := testutil.NewHomeserver(t, testToken)
	voter := identity.NewStaticProvider(voterID, token)
	client := remote.NewClient(hs.URL, "", voter, logger)

	drafts := projects.NewDrafts(st, logger)
	require.NoError(t, drafts.Seed(testutil.Projects(3)))

	queue := outbox.NewQueue(st, signals, func(b models.Ballot) string {
		return client.BallotPath(b.VoterID)
	}, logger)
	require.NoError(t, queue.RegisterSender(context.Background(), client.SendBallot))

	return &fixture{
		orchestrator: NewOrchestrator(drafts, queue, signals, st, voter, logger),
		drafts:       drafts,
		queue:        queue,
		store:        st,
		homeserver:   hs,
	}
}

func TestSubmitSyncsImmediately(t *testing.T) {
	f := newFixture(t, "alice", testToken)
	require.NoError(t, f.drafts.SetScores("p1", models.SliderScores{Complexity: 8, Creativity: 7, Presentation: 6, Feedback: 9}))
	require.NoError(t, f.drafts.SetRanking([]string{"p1", "p2"}))

	resp, err := f.orchestrator.Submit(context.Background())
	require.NoError(t, err)
	require.True(t, resp.Synced)
	require.Zero(t, resp.QueuedCount)

	data, ok := f.homeserver.Object("/pub/voteboard/ballots/alice.json")
	require.True(t, ok)

	var ballot models.Ballot
	require.NoError(t, json.Unmarshal(data, &ballot))
	require.Equal(t, "alice", ballot.VoterID)
	require.Len(t, ballot.Scores, 3)
	require.Equal(t, []string{"p1", "p2"}, ballot.PopularRanking)
	require.NotEmpty(t, ballot.SubmittedAt)

	require.False(t, f.drafts.Pending(), "synced submit clears the pending flag")

	status := f.orchestrator.Status()
	require.Zero(t, status.QueuedCount)
	require.NotNil(t, status.LastSubmittedAt)
}

func TestSubmitWithoutVoter(t *testing.T) {
	f := newFixture(t, "", "")

	_, err := f.orchestrator.Submit(context.Background())
	require.ErrorIs(t, err, identity.ErrNoVoter)
	require.Zero(t, f.queue.Len(), "nothing queued without an identity")
}

func TestSubmitQueuesWhenSyncFails(t *testing.T) {
	// Known voter but no session token: delivery fails, the ballot queues.
	f := newFixture(t, "alice", "")
	require.NoError(t, f.drafts.SetReadiness("p1", true))

	resp, err := f.orchestrator.Submit(context.Background())
	require.NoError(t, err, "a failed sync is not a failed submit")
	require.False(t, resp.Synced)
	require.Equal(t, 1, resp.QueuedCount)

	require.Equal(t, 1, f.queue.Len())
	require.True(t, f.drafts.Pending(), "pending flag stays until the ballot syncs")
	require.Equal(t, 0, f.homeserver.ObjectCount())

	status := f.orchestrator.Status()
	require.Equal(t, 1, status.QueuedCount)
	require.True(t, status.PendingChanges)
	require.Nil(t, status.LastSubmittedAt)
}

func TestResubmitOverwritesRemoteBallot(t *testing.T) {
	f := newFixture(t, "alice", testToken)

	_, err := f.orchestrator.Submit(context.Background())
	require.NoError(t, err)

	require.NoError(t, f.drafts.SetScores("p2", models.SliderScores{Complexity: 10}))
	_, err = f.orchestrator.Submit(context.Background())
	require.NoError(t, err)

	// One object per voter regardless of how many times they submit
	require.Equal(t, 1, f.homeserver.ObjectCount())

	data, _ := f.homeserver.Object("/pub/voteboard/ballots/alice.json")
	var ballot models.Ballot
	require.NoError(t, json.Unmarshal(data, &ballot))
	for _, s := range ballot.Scores {
		if s.ProjectID == "p2" {
			require.Equal(t, 10, s.Scores.Complexity)
		}
	}
}

func TestSubmitExcludesOwnProject(t *testing.T) {
	f := newFixture(t, "alice", testToken)
	require.NoError(t, f.drafts.SetOwnProjectID("p2"))
	require.NoError(t, f.drafts.SetRanking([]string{"p2", "p1"}))

	_, err := f.orchestrator.Submit(context.Background())
	require.NoError(t, err)

	data, _ := f.homeserver.Object("/pub/voteboard/ballots/alice.json")
	var ballot models.Ballot
	require.NoError(t, json.Unmarshal(data, &ballot))

	require.Len(t, ballot.Scores, 2)
	for _, s := range ballot.Scores {
		require.NotEqual(t, "p2", s.ProjectID, "own project must never be scored")
	}
	require.Equal(t, []string{"p1"}, ballot.PopularRanking, "own project stripped from the ranking")
}

func TestQueuedBallotSyncsOnLaterFlush(t *testing.T) {
	f := newFixture(t, "alice", "")

	_, err := f.orchestrator.Submit(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, f.queue.Len())

	// Replace the sender with one that succeeds, then flush
	okSender := func(ctx context.Context, ballot models.Ballot, path string) error {
		f.homeserver.SetRaw(path, mustMarshal(t, ballot))
		return nil
	}
	require.NoError(t, f.queue.RegisterSender(context.Background(), okSender))
	require.NoError(t, f.queue.Flush(context.Background()))

	require.Zero(t, f.queue.Len())
	_, ok := f.homeserver.Object("/pub/voteboard/ballots/alice.json")
	require.True(t, ok)
}

func TestStatusWithUnreadableTimestamp(t *testing.T) {
	f := newFixture(t, "alice", testToken)

	require.NoError(t, f.store.Set("submission:last-submitted", []byte("{corrupt")))

	status := f.orchestrator.Status()
	require.Nil(t, status.LastSubmittedAt)
}

func mustMarshal(t *testing.T, v interface{}) []byte {
	t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return data
}
