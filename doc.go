// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the Voteboard companion service.

Voteboard collects per-voter project scores at a hackathon and keeps a
ranked, weighted leaderboard usable even while the backing homeserver is
unreachable: submissions queue in a durable local outbox and sync when
connectivity returns.

# Starting the Server

The service needs a homeserver URL, and a voter identity if it should
submit ballots:

	HOMESERVER_URL=https://homeserver.example VOTER_ID=... SESSION_TOKEN=... go run .

Or with flags:

	go run . -s https://homeserver.example -f projects.json

# Configuration

Required settings:

  - HOMESERVER_URL (-s): homeserver base URL

Optional settings:

  - PORT (-p): server port (default: 3325)
  - DATA_PATH (-d): local store path (default: data/voteboard.db)
  - VOTER_ID, SESSION_TOKEN: voter identity; without them the service is
    read-only and queues submissions
  - POLL_INTERVAL (-i): leaderboard refresh interval in seconds (default: 10)
  - PROJECTS_FILE (-f): catalogue seed file
  - BALLOTS_ROOT (--ballots-root): remote namespace prefix

# Architecture

The server uses a handler-based architecture with dependency injection:

  - outbox: durable FIFO of pending ballot submissions
  - remote: homeserver storage client (sender + fetchers)
  - leaderboard: aggregation engine and live refresh loop
  - submission: the submit orchestration
  - projects: local draft catalogue
  - identity: voter id and session capability
  - store: sqlite-backed local key-value store
  - bus: in-process signals (ballot-submitted, connectivity-restored)
  - handlers, router, middleware, models, cliparse: the HTTP shell

See package documentation for each component.
*/
package main
