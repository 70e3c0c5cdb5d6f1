// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package bus provides the in-process signal bus.

Two application-level signals cross component boundaries: "a ballot was
submitted" (the refresh loop re-aggregates) and "connectivity was restored"
(the outbox retries delivery). Both are modeled as explicit Watermill
gochannel topics rather than ambient global events, so the components that
care hold a reference to the bus they subscribe on:

	b := bus.New(logger)
	msgs, err := b.Subscribe(ctx, bus.TopicBallotSubmitted)
	err = b.Publish(bus.TopicConnectivityRestored)

Messages are empty; subscribers only care that the signal fired.
*/
package bus
