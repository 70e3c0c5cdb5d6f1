// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package remote is the homeserver storage client.

The homeserver exposes a per-event key-value namespace over HTTP: public
GETs, session-authenticated PUTs. Three well-known objects live under the
ballots root:

	<root>/<voterId>.json  one ballot per voter, last write wins
	<root>/index.json      optional array of all submitted ballots
	<root>/summary.json    optional precomputed leaderboard summary

SendBallot is the delivery function the outbox queue retries: it fails while
the session is absent (identity.ErrNoSession) or the homeserver rejects the
write, and both failures leave the queued item in place.

FetchSummary and FetchAllBallots never return errors. Absence of either
remote artifact is the normal state early in an event, so fetch failures of
any kind (404, network, malformed JSON) are logged at debug level and
reported as "nothing there"; the aggregation engine then falls back to the
next data source.
*/
package remote
