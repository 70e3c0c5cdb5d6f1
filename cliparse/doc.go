// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles configuration parsing.

Flags take precedence, environment variables fill the gaps, and the few
settings with sensible defaults get them last:

	voteboard -s https://homeserver.example -f projects.json
	HOMESERVER_URL=... VOTER_ID=... SESSION_TOKEN=... voteboard

Required: the homeserver base URL. The voter identity and session token are
optional; without them the service still serves the leaderboard (reads are
public) and queues submissions for later delivery.
*/
package cliparse
