// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package outbox implements the durable ballot submission queue.

The queue is the write-side heart of offline tolerance: every submission is
appended here first, persisted through the local store, and only removed
after the remote sender durably accepts it.

# Delivery Semantics

Flush walks the queue in FIFO order and awaits each delivery before moving
on; there is no concurrent fan-out, both to preserve ordering and to avoid
flooding the homeserver after a long offline stretch. A failing item is kept
and skipped past, so there is no head-of-line blocking; the caller learns
about leftovers through ErrPartialFlush at the end of the pass.

The sender is an injected dependency (see Sender and RegisterSender), not a
package-level global. Registering the first sender also subscribes the queue
to the connectivity-restored signal so delivery resumes without anyone
calling Flush by hand.

# Failure Handling

Three distinct failure classes, handled differently:

  - no sender registered: Flush fails immediately with ErrNoSender and the
    queue is untouched (a wiring bug, not a runtime condition)
  - a single delivery fails: logged, item stays queued, pass continues
  - the local store cannot be written: propagated from Enqueue - losing the
    durability guarantee is not recoverable locally

A corrupt persisted queue record is discarded and the queue reset to empty.
*/
package outbox
