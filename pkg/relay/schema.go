package relay

import "fmt"

// Key pattern: punchcard:{instance_name}:{entity}:{id}
// Channel pattern: punchcard:{instance_name}:{stream}

// MessageKey returns the Redis key for a relay-managed message hash.
func MessageKey(instanceName, messageID string) string {
	return fmt.Sprintf("punchcard:%s:message:%s", instanceName, messageID)
}

// ButtonEventsChannel returns the Pub/Sub channel carrying button presses.
func ButtonEventsChannel(instanceName string) string {
	return fmt.Sprintf("punchcard:%s:button_events", instanceName)
}

// StartEventsChannel returns the Pub/Sub channel carrying start commands.
func StartEventsChannel(instanceName string) string {
	return fmt.Sprintf("punchcard:%s:start_events", instanceName)
}

// EffectsChannel returns the Pub/Sub channel carrying outbound effects.
func EffectsChannel(instanceName string) string {
	return fmt.Sprintf("punchcard:%s:effects", instanceName)
}
