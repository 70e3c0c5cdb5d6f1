// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package leaderboard

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"github.com/danielhkuo/voteboard/models"
)

// Fetcher retrieves remote aggregation inputs. Both methods report absence
// (nil/empty) rather than errors; see package remote.
type Fetcher interface {
	FetchSummary(ctx context.Context) *models.Summary
	FetchAllBallots(ctx context.Context) []models.Ballot
}

// ProjectSource yields the current draft catalogue.
type ProjectSource interface {
	Projects() ([]models.Project, error)
}

// Engine computes leaderboard snapshots. Three modes, in strict priority
// order by data availability: a precomputed remote summary, on-the-fly
// aggregation of raw ballots, and a local-only preview of the voter's own
// draft.
type Engine struct {
	fetcher Fetcher
	source  ProjectSource
	queued  func() int
	weights Weights
	logger  *slog.Logger
	now     func() time.Time
}

func NewEngine(fetcher Fetcher, source ProjectSource, queued func() int, weights Weights, logger *slog.Logger) *Engine {
	return &Engine{
		fetcher: fetcher,
		source:  source,
		queued:  queued,
		weights: weights,
		logger:  logger,
		now:     time.Now,
	}
}

// Compute produces a complete snapshot from the best available source.
// Every pass rebuilds all entries from scratch; nothing is mutated
// incrementally.
func (e *Engine) Compute(ctx context.Context) (models.LeaderboardState, error) {
	catalogue, err := e.source.Projects()
	if err != nil {
		return models.LeaderboardState{}, err
	}

	if summary := e.fetcher.FetchSummary(ctx); summary != nil {
		return e.fromSummary(summary, catalogue), nil
	}

	if ballots := e.fetcher.FetchAllBallots(ctx); len(ballots) > 0 {
		return e.fromBallots(ballots, catalogue), nil
	}

	return e.fromLocal(catalogue), nil
}

// fromSummary adopts the precomputed entries as-is and unions in any
// catalogue project the summary missed, with all-zero components and the
// AI score from static metadata.
func (e *Engine) fromSummary(summary *models.Summary, catalogue []models.Project) models.LeaderboardState {
	names := make(map[string]string, len(catalogue))
	for _, p := range catalogue {
		names[p.ID] = p.Name
	}

	entries := make([]models.LeaderboardEntry, 0, len(summary.Entries)+len(catalogue))
	seen := make(map[string]bool, len(summary.Entries))
	for _, se := range summary.Entries {
		name := se.ProjectName
		if name == "" {
			name = names[se.ProjectID]
		}
		entries = append(entries, models.LeaderboardEntry{
			ProjectID:   se.ProjectID,
			ProjectName: name,
			Total:       se.Total,
			Components:  se.Components,
		})
		seen[se.ProjectID] = true
	}

	for _, p := range catalogue {
		if seen[p.ID] {
			continue
		}
		comp := models.Components{AI: aiScore(p)}
		entries = append(entries, models.LeaderboardEntry{
			ProjectID:   p.ID,
			ProjectName: p.Name,
			Total:       e.weights.Total(comp),
			Components:  comp,
		})
	}

	sortEntries(entries)

	generated := e.now()
	if t, err := time.Parse(time.RFC3339, summary.GeneratedAt); err == nil {
		generated = t
	}

	return models.LeaderboardState{
		Entries:     entries,
		TotalVoters: summary.TotalVoters,
		GeneratedAt: generated,
		Source:      models.SourceRemoteSummary,
	}
}

// fromBallots deduplicates to one ballot per voter, accumulates per-project
// component sums and Borda popularity points, and normalizes everything to
// the 0..100 scale.
func (e *Engine) fromBallots(ballots []models.Ballot, catalogue []models.Project) models.LeaderboardState {
	deduped := dedupeBallots(ballots)
	voters := len(deduped)
	n := len(catalogue)

	type acc struct {
		complexity   int
		creativity   int
		presentation int
		feedback     int
		count        int
		readySum     int
		readyCount   int
		popPoints    float64
	}
	accs := make(map[string]*acc, n)
	for _, p := range catalogue {
		accs[p.ID] = &acc{}
	}

	for _, b := range deduped {
		for _, s := range b.Scores {
			// Unknown project ids are ignored, never a crash.
			a, ok := accs[s.ProjectID]
			if !ok {
				continue
			}
			a.complexity += s.Scores.Complexity
			a.creativity += s.Scores.Creativity
			a.presentation += s.Scores.Presentation
			a.feedback += s.Scores.Feedback
			a.count++
			if s.Readiness {
				a.readySum++
			}
			a.readyCount++
		}

		// Borda count: position i earns max(n-i, 0) points.
		for i, pid := range b.PopularRanking {
			a, ok := accs[pid]
			if !ok {
				continue
			}
			if pts := float64(n - i); pts > 0 {
				a.popPoints += pts
			}
		}
	}

	entries := make([]models.LeaderboardEntry, 0, n)
	for _, p := range catalogue {
		a := accs[p.ID]
		comp := models.Components{
			Complexity:   avg10(a.complexity, a.count),
			Creativity:   avg10(a.creativity, a.count),
			Presentation: avg10(a.presentation, a.count),
			Feedback:     avg10(a.feedback, a.count),
			Readiness:    ratio100(a.readySum, a.readyCount),
			Popular:      popularity(a.popPoints, voters, n),
			AI:           aiScore(p),
		}
		entries = append(entries, models.LeaderboardEntry{
			ProjectID:   p.ID,
			ProjectName: p.Name,
			Total:       e.weights.Total(comp),
			Components:  comp,
		})
	}

	sortEntries(entries)

	return models.LeaderboardState{
		Entries:     entries,
		TotalVoters: voters,
		GeneratedAt: e.now(),
		Source:      models.SourceBallots,
	}
}

// fromLocal previews the voter's own draft before any remote data exists:
// sliders scaled to 0..100, readiness 0/100, popularity forced to zero
// because no aggregate ranking data exists yet. The voter count is an
// estimate; consumers must treat SourceLocal as indicative only.
func (e *Engine) fromLocal(catalogue []models.Project) models.LeaderboardState {
	entries := make([]models.LeaderboardEntry, 0, len(catalogue))
	for _, p := range catalogue {
		comp := models.Components{
			Complexity:   float64(p.Scores.Complexity) * 10,
			Creativity:   float64(p.Scores.Creativity) * 10,
			Presentation: float64(p.Scores.Presentation) * 10,
			Feedback:     float64(p.Scores.Feedback) * 10,
			AI:           aiScore(p),
		}
		if p.Readiness {
			comp.Readiness = 100
		}
		entries = append(entries, models.LeaderboardEntry{
			ProjectID:   p.ID,
			ProjectName: p.Name,
			Total:       e.weights.Total(comp),
			Components:  comp,
		})
	}

	sortEntries(entries)

	voters := e.queued() + 1
	if voters < 1 {
		voters = 1
	}

	return models.LeaderboardState{
		Entries:     entries,
		TotalVoters: voters,
		GeneratedAt: e.now(),
		Source:      models.SourceLocal,
	}
}

// dedupeBallots keeps exactly one ballot per distinct voter: the one with
// the latest parseable submittedAt. Unparseable timestamps lose ties;
// identical timestamps resolve to the last ballot in input order.
func dedupeBallots(ballots []models.Ballot) []models.Ballot {
	type pick struct {
		idx      int
		at       time.Time
		parsable bool
	}

	picks := make(map[string]*pick)
	out := make([]models.Ballot, 0, len(ballots))

	for _, b := range ballots {
		at, err := time.Parse(time.RFC3339, b.SubmittedAt)
		parsable := err == nil

		p, exists := picks[b.VoterID]
		if !exists {
			out = append(out, b)
			picks[b.VoterID] = &pick{idx: len(out) - 1, at: at, parsable: parsable}
			continue
		}

		if !parsable {
			continue
		}
		if !p.parsable || !at.Before(p.at) {
			out[p.idx] = b
			p.at = at
			p.parsable = true
		}
	}

	return out
}

// sortEntries orders by descending total. The sort must be stable: ties
// keep encounter order.
func sortEntries(entries []models.LeaderboardEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Total > entries[j].Total
	})
}

// avg10 maps a 0..10 slider average onto the 0..100 scale. Absent data
// yields 0, never a division by zero.
func avg10(sum, count int) float64 {
	if count == 0 {
		return 0
	}
	return float64(sum) / float64(count) * 10
}

func ratio100(sum, count int) float64 {
	if count == 0 {
		return 0
	}
	return float64(sum) / float64(count) * 100
}

func popularity(points float64, voters, projectCount int) float64 {
	if voters == 0 || projectCount == 0 {
		return 0
	}
	return points / float64(voters*projectCount) * 100
}

func aiScore(p models.Project) float64 {
	if p.AIScore == nil {
		return 0
	}
	return *p.AIScore
}
