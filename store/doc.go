// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package store provides the durable local key-value store.

The store is the service's stand-in for browser localStorage: a small,
per-device, restart-surviving namespace addressed by string keys. It backs
the outbox queue, the editable project draft, and submission bookkeeping.

Values are opaque blobs; GetJSON/SetJSON add the JSON round-trip that every
current caller wants:

	s, err := store.Open(cfg.DataPath)
	err = s.SetJSON("projects:draft", projects)
	err = s.GetJSON("projects:draft", &projects)

A missing key returns ErrNotFound, which callers are expected to treat as
"first run" rather than a fault.
*/
package store
