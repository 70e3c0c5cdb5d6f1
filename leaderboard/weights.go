// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package leaderboard

import "github.com/danielhkuo/voteboard/models"

// Weights holds the per-component contribution to an entry's total.
type Weights struct {
	Complexity   float64
	Creativity   float64
	Readiness    float64
	Presentation float64
	Feedback     float64
	Popular      float64
	AI           float64
}

// DefaultWeights returns the standard scoring policy. The values sum to 1.0
// and must be reproduced exactly for compatibility with totals computed by
// other clients and by the summary producer.
func DefaultWeights() Weights {
	return Weights{
		Complexity:   0.15,
		Creativity:   0.15,
		Readiness:    0.10,
		Presentation: 0.15,
		Feedback:     0.15,
		Popular:      0.15,
		AI:           0.15,
	}
}

// Total computes the weighted sum over the seven normalized components.
func (w Weights) Total(c models.Components) float64 {
	return c.Complexity*w.Complexity +
		c.Creativity*w.Creativity +
		c.Readiness*w.Readiness +
		c.Presentation*w.Presentation +
		c.Feedback*w.Feedback +
		c.Popular*w.Popular +
		c.AI*w.AI
}
