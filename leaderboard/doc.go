// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package leaderboard implements the aggregation engine and live refresh loop.

# Source Selection

Every computation pass selects one of three modes, in strict priority order
by data availability:

 1. remote-summary: a precomputed summary object exists and is adopted
    directly; catalogue projects the summary missed are unioned in with
    zero components.
 2. ballots: raw ballots exist; they are deduplicated to one per voter,
    accumulated, and normalized on the fly.
 3. local: nothing remote exists yet; the voter's own draft is previewed.

# Normalization

Slider components average over the voters that scored the project and scale
from 0..10 to 0..100. Readiness is the share of voters that marked the
project ready. Popularity converts each voter's ordered preference list to
Borda-count points (position i of n projects earns n-i points) and divides
by the maximum attainable, voters x projectCount. The AI component passes
through from static project metadata. The weighted total uses Weights, with
DefaultWeights as the fixed scoring policy.

# Refresh Loop

Refresher recomputes on an interval and on application signals, publishing
each fresh state atomically. Completions are sequence-tagged: a slow fetch
finishing after a newer one is discarded, and a failed refresh keeps the
previous entries visible with the error surfaced alongside.
*/
package leaderboard
