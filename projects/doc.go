// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package projects manages the local project draft.

The draft is the voter's in-progress ballot state layered over the seeded
project catalogue: slider scores, readiness flags, comments, voter-entered
tags, and the popular ranking. It persists through the durable store on
every mutation, so a restart never loses unsubmitted work.

Mutations set a pending flag that the UI surfaces as "unsynced changes";
the submission orchestrator clears it once a flush succeeds.
*/
package projects
