package mqtt

import "fmt"

// TopicPrefix is the base for all fieldsense MQTT topics.
//
// The scheme is flat: fieldsense/{client_id}/{channel}. Each device
// publishes under its own client ID so a single broker can serve a
// fleet of handhelds without topic collisions.
const TopicPrefix = "fieldsense"

// Topics provides builders for fieldsense MQTT topics.
// Using these helpers ensures consistent topic naming across the codebase.
//
//	topics := mqtt.Topics{}
//	availTopic := topics.Availability("handheld-01")
//	// Returns: "fieldsense/handheld-01/availability"
type Topics struct{}

// Availability returns the topic for device online/offline announcements.
//
// Messages on this topic are retained so late subscribers immediately
// learn whether the device is up. The Last Will and Testament is also
// published here when the device drops off the broker unexpectedly.
//
// Example: fieldsense/handheld-01/availability
func (Topics) Availability(clientID string) string {
	return fmt.Sprintf("%s/%s/availability", TopicPrefix, clientID)
}

// Status returns the topic for the device's mirrored status display.
//
// The agent publishes a retained JSON document here after every
// collection cycle so dashboards can show the same lines the device
// renders locally.
//
// Example: fieldsense/handheld-01/status
func (Topics) Status(clientID string) string {
	return fmt.Sprintf("%s/%s/status", TopicPrefix, clientID)
}
