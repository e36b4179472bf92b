// Package relay carries punchcard panel traffic over Redis Pub/Sub so that a
// chat gateway running in another process can drive the panel controller.
//
// # Overview
//
// Inbound events (button presses and start commands) are published by the
// gateway and consumed by the relay engine. Every effect the controller
// produces (message edits, new messages, private notices) is published back
// on the effects channel, and the current view of every relay-managed
// message is kept in a Redis hash so a gateway that missed an effect can
// re-read it.
//
// # Multi-Instance Support
//
// All keys and channels are namespaced by instance name:
//
//	punchcard:{instance}:button_events
//	punchcard:{instance}:start_events
//	punchcard:{instance}:effects
//	punchcard:{instance}:message:{message_id}
//
// # Delivery
//
// Redis Pub/Sub is at-most-once. A subscriber that is not connected when an
// event is published never sees it.
package relay
