// Curator - Content Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/curator

/*
Package events carries interaction.recorded events from the interaction log
to the profile store.

The bus is an in-process Watermill GoChannel by default. When NATS is
enabled it is a JetStream stream with a durable queue-group consumer, so
several instances share the work and each event is applied once.

Flow:

	interactions.Log.Record
	        |
	        v
	Publisher.InteractionRecorded  (gobreaker, Nats-Msg-Id = event id)
	        |
	        v
	bus topic "interaction.recorded"
	        |
	        v
	Router (Recoverer, Retry) -> ProfileApplier.ApplyInteraction

Decode failures are logged and acknowledged. Any other handler error is
retried with exponential backoff and then dropped by the Recoverer chain,
since a later full recompute repairs the profile.
*/
package events
