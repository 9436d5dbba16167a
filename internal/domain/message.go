package domain

// InboundMessage is one message received from a requester.
type InboundMessage struct {
	Identity Identity
	Text     string
	// Start marks the explicit start signal (e.g. the /start command).
	Start bool
}

// OutboundMessage is one reply to send back, in order.
type OutboundMessage struct {
	Text string `json:"text"`
}
