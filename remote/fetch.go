// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package remote

import (
	"context"
	"errors"

	"github.com/danielhkuo/voteboard/models"
)

// FetchSummary retrieves the precomputed leaderboard summary, or nil when it
// is absent. Network faults, 404s and malformed JSON all collapse to nil:
// absence is an expected state, not a fault.
func (c *Client) FetchSummary(ctx context.Context) *models.Summary {
	var summary models.Summary
	err := c.Get(ctx, c.SummaryPath(), &summary)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			c.logger.Debug("summary unavailable", "error", err)
		}
		return nil
	}

	// A summary with no entries is not usable; fall through to ballots.
	if len(summary.Entries) == 0 {
		return nil
	}

	return &summary
}

// FetchAllBallots retrieves the ballot index, or an empty slice when it is
// absent or unreadable.
func (c *Client) FetchAllBallots(ctx context.Context) []models.Ballot {
	var ballots []models.Ballot
	err := c.Get(ctx, c.IndexPath(), &ballots)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			c.logger.Debug("ballot index unavailable", "error", err)
		}
		return nil
	}

	return ballots
}
