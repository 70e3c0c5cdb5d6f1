// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package remote

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/danielhkuo/voteboard/identity"
	"github.com/danielhkuo/voteboard/models"
	"github.com/danielhkuo/voteboard/testutil"
)

const testToken = "test-session-token"

func newTestClient(t *testing.T, voterID, token string) (*Client, *testutil.Homeserver) {
	t.Helper()

	hs := testutil.NewHomeserver(t, testToken)
	session := identity.NewStaticProvider(voterID, token)
	return NewClient(hs.URL, "", session, testutil.NewLogger()), hs
}

func TestPaths(t *testing.T) {
	c, _ := newTestClient(t, "alice", testToken)

	if got := c.BallotPath("alice"); got != "/pub/voteboard/ballots/alice.json" {
		t.Errorf("Unexpected ballot path: %s", got)
	}
	if got := c.IndexPath(); got != "/pub/voteboard/ballots/index.json" {
		t.Errorf("Unexpected index path: %s", got)
	}
	if got := c.SummaryPath(); got != "/pub/voteboard/ballots/summary.json" {
		t.Errorf("Unexpected summary path: %s", got)
	}
}

func TestCustomBallotsRoot(t *testing.T) {
	session := identity.NewStaticProvider("alice", testToken)
	c := NewClient("http://example", "/pub/hack2026/votes/", session, testutil.NewLogger())

	if got := c.BallotPath("alice"); got != "/pub/hack2026/votes/alice.json" {
		t.Errorf("Unexpected ballot path: %s", got)
	}
}

func TestSendBallotWritesCanonicalPath(t *testing.T) {
	c, hs := newTestClient(t, "alice", testToken)

	ballot := testutil.Ballot("alice", "2026-08-01T10:00:00Z", testutil.UniformScore("p1", 7, true))
	require.NoError(t, c.SendBallot(context.Background(), ballot, ""))

	data, ok := hs.Object("/pub/voteboard/ballots/alice.json")
	require.True(t, ok, "ballot object should exist at the canonical path")

	var stored models.Ballot
	require.NoError(t, json.Unmarshal(data, &stored))
	require.Equal(t, "alice", stored.VoterID)
	require.Len(t, stored.Scores, 1)
	require.Equal(t, 7, stored.Scores[0].Scores.Complexity)
}

func TestSendBallotIsIdempotent(t *testing.T) {
	c, hs := newTestClient(t, "alice", testToken)

	ballot := testutil.Ballot("alice", "2026-08-01T10:00:00Z")
	require.NoError(t, c.SendBallot(context.Background(), ballot, ""))
	require.NoError(t, c.SendBallot(context.Background(), ballot, ""))

	// One object per voter; the second write replaced the first
	require.Equal(t, 1, hs.ObjectCount())
}

func TestPutRequiresSession(t *testing.T) {
	c, _ := newTestClient(t, "alice", "")

	err := c.Put(context.Background(), "/pub/voteboard/ballots/alice.json", map[string]string{})
	require.ErrorIs(t, err, identity.ErrNoSession)
}

func TestPutRejectedByHomeserver(t *testing.T) {
	// Wrong token; the homeserver refuses the write
	c, _ := newTestClient(t, "alice", "wrong-token")

	err := c.Put(context.Background(), "/pub/voteboard/ballots/alice.json", map[string]string{})
	require.Error(t, err)
}

func TestGetMissingObject(t *testing.T) {
	c, _ := newTestClient(t, "alice", testToken)

	var v map[string]string
	err := c.Get(context.Background(), "/pub/voteboard/ballots/nope.json", &v)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestFetchSummary(t *testing.T) {
	c, hs := newTestClient(t, "alice", testToken)

	hs.Set(t, "/pub/voteboard/ballots/summary.json", models.Summary{
		GeneratedAt: "2026-08-01T12:00:00Z",
		TotalVoters: 4,
		Entries: []models.SummaryEntry{
			{ProjectID: "p1", Components: models.Components{Complexity: 80}},
		},
	})

	summary := c.FetchSummary(context.Background())
	require.NotNil(t, summary)
	require.Equal(t, 4, summary.TotalVoters)
	require.Len(t, summary.Entries, 1)
}

func TestFetchSummaryAbsent(t *testing.T) {
	c, _ := newTestClient(t, "alice", testToken)

	require.Nil(t, c.FetchSummary(context.Background()))
}

func TestFetchSummaryEmptyEntries(t *testing.T) {
	c, hs := newTestClient(t, "alice", testToken)

	hs.Set(t, "/pub/voteboard/ballots/summary.json", models.Summary{TotalVoters: 2})
	require.Nil(t, c.FetchSummary(context.Background()), "entry-less summary is unusable")
}

func TestFetchSummaryMalformed(t *testing.T) {
	c, hs := newTestClient(t, "alice", testToken)

	hs.SetRaw("/pub/voteboard/ballots/summary.json", []byte("{not json"))
	require.Nil(t, c.FetchSummary(context.Background()))
}

func TestFetchAllBallots(t *testing.T) {
	c, hs := newTestClient(t, "alice", testToken)

	hs.Set(t, "/pub/voteboard/ballots/index.json", []models.Ballot{
		testutil.Ballot("alice", "2026-08-01T10:00:00Z"),
		testutil.Ballot("bob", "2026-08-01T10:05:00Z"),
	})

	ballots := c.FetchAllBallots(context.Background())
	require.Len(t, ballots, 2)
	require.Equal(t, "alice", ballots[0].VoterID)
}

func TestFetchAllBallotsAbsent(t *testing.T) {
	c, _ := newTestClient(t, "alice", testToken)

	require.Nil(t, c.FetchAllBallots(context.Background()))
}

func TestFetchUnreachableHomeserver(t *testing.T) {
	session := identity.NewStaticProvider("alice", testToken)
	c := NewClient("http://127.0.0.1:1", "", session, testutil.NewLogger())

	require.Nil(t, c.FetchSummary(context.Background()))
	require.Nil(t, c.FetchAllBallots(context.Background()))
}
