// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package submission orchestrates the submit flow.

One call ties the pieces together: snapshot the draft into a ballot
(excluding the voter's own project), persist the draft, enqueue the ballot,
raise the ballot-submitted signal, and try to flush the outbox right away.

Only a successful flush clears the draft's pending flag and records the
last-submitted timestamp; anything short of that leaves the ballot queued
and the pending state visible to the UI.
*/
package submission
