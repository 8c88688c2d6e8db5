package models

// Envelope is the frame relayed to dashboard clients: the broker topic the
// event arrived on (or was published to) plus its decoded payload.
type Envelope struct {
	Topic string      `json:"topic"`
	Data  interface{} `json:"data"`
}

// WelcomeMessage is the first frame sent on every new dashboard connection.
type WelcomeMessage struct {
	Message string `json:"message"`
}

// BalanceReport is a device-initiated deduction on the balance topic.
// Deduct is a pointer so a missing or non-numeric field is distinguishable
// from an explicit zero.
type BalanceReport struct {
	UID    string   `json:"uid"`
	Deduct *float64 `json:"deduct"`
}

// BalanceUpdate is the authoritative balance for a card after a mutation,
// broadcast to dashboards and sent as snapshot frames on connect.
type BalanceUpdate struct {
	UID     string  `json:"uid"`
	Balance float64 `json:"balance"`
}

// TopUpCommand is published to the device side so the card firmware can
// apply the credited amount locally.
type TopUpCommand struct {
	UID    string  `json:"uid"`
	Amount float64 `json:"amount"`
}

// TopUpRequest is the administrative top-up request body.
type TopUpRequest struct {
	UID    string  `json:"uid"`
	Amount float64 `json:"amount"`
}
