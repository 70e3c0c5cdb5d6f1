// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines the shared request, response, and domain types.

# Domain Types

The central types are Ballot (one voter's complete submission), OutboxItem
(a queued, not-yet-delivered ballot), and LeaderboardEntry/LeaderboardState
(the aggregated output). Ballot and Summary carry camelCase JSON tags because
they are written to and read from the shared homeserver namespace; other
clients of the same event read those objects.

# Source Tags

LeaderboardState.Source records provenance:

  - SourceRemoteSummary: a precomputed summary object was used directly
  - SourceBallots: raw ballots were fetched and aggregated on the fly
  - SourceLocal: no remote data existed; the state is a local-only preview

Consumers must treat SourceLocal as indicative only: its voter count is an
estimate and popularity is always zero.
*/
package models
