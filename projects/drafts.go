// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package projects

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/danielhkuo/voteboard/models"
	"github.com/danielhkuo/voteboard/store"
)

// Durable store keys. Stable across restarts.
const (
	draftKey = "projects:draft"
	ownKey   = "projects:own-id"
)

var (
	// ErrUnknownProject is returned for mutations of ids not in the catalogue.
	ErrUnknownProject = errors.New("projects: unknown project id")

	// ErrInvalidScore is returned when a slider value is outside 0..10.
	ErrInvalidScore = errors.New("projects: score out of range")
)

// draft is the persisted shape of the voter's in-progress ballot state.
type draft struct {
	Projects []models.Project `json:"projects"`
	Ranking  []string         `json:"ranking"`
	Pending  bool             `json:"pending"`
}

// Drafts owns the seeded project catalogue and the voter's editable draft
// on top of it: slider scores, readiness, comments, tags, and the popular
// ranking. Every mutation is persisted synchronously and marks the draft as
// having unsynced changes.
type Drafts struct {
	store  *store.Store
	logger *slog.Logger

	mu sync.Mutex
}

func NewDrafts(st *store.Store, logger *slog.Logger) *Drafts {
	return &Drafts{store: st, logger: logger}
}

// Seed installs catalogue projects that are not yet part of the draft.
// Existing draft entries keep their edits; project identity is stable across
// sessions, so seeding is idempotent.
func (d *Drafts) Seed(catalogue []models.Project) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	cur := d.load()
	known := make(map[string]bool, len(cur.Projects))
	for _, p := range cur.Projects {
		known[p.ID] = true
	}

	added := 0
	for _, p := range catalogue {
		if p.ID == "" || known[p.ID] {
			continue
		}
		cur.Projects = append(cur.Projects, p)
		known[p.ID] = true
		added++
	}

	if added == 0 {
		return nil
	}

	d.logger.Info("catalogue seeded", "added", added, "total", len(cur.Projects))
	return d.save(cur)
}

// Projects returns a snapshot copy of the draft catalogue.
func (d *Drafts) Projects() ([]models.Project, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	cur := d.load()
	out := make([]models.Project, len(cur.Projects))
	copy(out, cur.Projects)
	return out, nil
}

// Ranking returns the voter's popular ranking, most-preferred first.
func (d *Drafts) Ranking() []string {
	d.mu.Lock()
	defer d.mu.Unlock()

	cur := d.load()
	out := make([]string, len(cur.Ranking))
	copy(out, cur.Ranking)
	return out
}

// SetScores replaces a project's slider scores.
func (d *Drafts) SetScores(projectID string, scores models.SliderScores) error {
	for _, v := range []int{scores.Complexity, scores.Creativity, scores.Presentation, scores.Feedback} {
		if v < 0 || v > 10 {
			return fmt.Errorf("%w: %d", ErrInvalidScore, v)
		}
	}

	return d.mutate(projectID, func(p *models.Project) {
		p.Scores = scores
	})
}

// SetReadiness flags whether the voter considers the project ready.
func (d *Drafts) SetReadiness(projectID string, ready bool) error {
	return d.mutate(projectID, func(p *models.Project) {
		p.Readiness = ready
	})
}

// SetComment replaces the voter's comment on a project.
func (d *Drafts) SetComment(projectID, comment string) error {
	return d.mutate(projectID, func(p *models.Project) {
		p.Comment = comment
	})
}

// SetTags replaces the voter-entered tag list on a project.
func (d *Drafts) SetTags(projectID string, tags []string) error {
	return d.mutate(projectID, func(p *models.Project) {
		p.UserTags = append([]string(nil), tags...)
	})
}

// SetRanking replaces the popular ranking. At most models.MaxPopularRanking
// entries; every id must be in the catalogue and appear once.
func (d *Drafts) SetRanking(ranking []string) error {
	if len(ranking) > models.MaxPopularRanking {
		return fmt.Errorf("projects: ranking holds at most %d entries", models.MaxPopularRanking)
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	cur := d.load()
	known := make(map[string]bool, len(cur.Projects))
	for _, p := range cur.Projects {
		known[p.ID] = true
	}

	seen := make(map[string]bool, len(ranking))
	for _, id := range ranking {
		if !known[id] {
			return fmt.Errorf("%w: %s", ErrUnknownProject, id)
		}
		if seen[id] {
			return fmt.Errorf("projects: duplicate id in ranking: %s", id)
		}
		seen[id] = true
	}

	cur.Ranking = append([]string(nil), ranking...)
	cur.Pending = true
	return d.save(cur)
}

// OwnProjectID returns the voter's self-declared project id, or "".
func (d *Drafts) OwnProjectID() string {
	var id string
	err := d.store.GetJSON(ownKey, &id)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			d.logger.Warn("own-project record unreadable", "error", err)
		}
		return ""
	}
	return id
}

// SetOwnProjectID records which catalogue project belongs to the voter, so
// submissions exclude it.
func (d *Drafts) SetOwnProjectID(projectID string) error {
	if projectID != "" {
		d.mu.Lock()
		cur := d.load()
		found := false
		for _, p := range cur.Projects {
			if p.ID == projectID {
				found = true
				break
			}
		}
		d.mu.Unlock()
		if !found {
			return fmt.Errorf("%w: %s", ErrUnknownProject, projectID)
		}
	}

	return d.store.SetJSON(ownKey, projectID)
}

// Pending reports whether the draft holds changes not yet synced remotely.
func (d *Drafts) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.load().Pending
}

// ClearPending marks the draft as synced. Called by the submission
// orchestrator after a successful flush.
func (d *Drafts) ClearPending() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	cur := d.load()
	if !cur.Pending {
		return nil
	}
	cur.Pending = false
	return d.save(cur)
}

// Persist rewrites the current draft. The draft is already saved on every
// mutation; this exists so a submission can force a write even when nothing
// changed since the last one.
func (d *Drafts) Persist() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.save(d.load())
}

// mutate applies fn to one project and persists the draft with the pending
// flag set.
func (d *Drafts) mutate(projectID string, fn func(*models.Project)) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	cur := d.load()
	for i := range cur.Projects {
		if cur.Projects[i].ID != projectID {
			continue
		}
		fn(&cur.Projects[i])
		cur.Pending = true
		return d.save(cur)
	}

	return fmt.Errorf("%w: %s", ErrUnknownProject, projectID)
}

// load reads the persisted draft. A corrupt record is discarded and the
// draft reset to empty; the next Seed repopulates the catalogue.
func (d *Drafts) load() draft {
	var cur draft
	err := d.store.GetJSON(draftKey, &cur)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			d.logger.Warn("draft store corrupt, resetting draft", "error", err)
		}
		return draft{}
	}
	return cur
}

func (d *Drafts) save(cur draft) error {
	if err := d.store.SetJSON(draftKey, cur); err != nil {
		return fmt.Errorf("projects: failed to persist draft: %w", err)
	}
	return nil
}
