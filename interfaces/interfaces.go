package interfaces

// Publisher sends a JSON-encoded payload to the device side of the broker.
// Delivery is best-effort; a returned error is a soft failure the caller
// may log and ignore.
type Publisher interface {
	Publish(topic string, payload interface{}) error
}

// Broadcaster fans an envelope out to every connected dashboard. Envelopes
// are delivered to all clients in the order Broadcast is called.
type Broadcaster interface {
	Broadcast(topic string, data interface{})
}
