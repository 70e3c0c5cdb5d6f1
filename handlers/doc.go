// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains the HTTP request handlers.

Handlers are thin: they parse and validate the request, call into the core
(draft mutations, the submit orchestrator, the refresher snapshot), and map
core errors onto status codes. All scoring, queueing and aggregation logic
lives in the core packages.

Handler groups:

  - ProjectsHandler: draft mutations (scores, readiness, comments, tags,
    ranking, own-project declaration)
  - LeaderboardHandler: leaderboard snapshot reads
  - SyncHandler: submit, sync status, manual flush, connectivity signal

Each handler takes its dependencies via constructor injection.
*/
package handlers
