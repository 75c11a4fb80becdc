package relay

// Message is the internal representation of a raw frame a Client has
// read off its websocket, on its way to its hub via Hub.Forward. Msg is
// opaque application payload the hub never parses; gorilla/websocket's
// ReadMessage only ever hands back TextMessage/BinaryMessage data
// frames (pings, pongs and closes are consumed by the registered
// handlers before readLoop sees them), so there's no frame type left
// to discriminate on here.
type Message struct {
	From *Client
	Msg  []byte
}

// admitResult is the hub's answer to an addEvent: either the client is
// now a member, or it's rejected with a reason suitable for a close frame.
type admitResult struct {
	ok       bool
	closeMsg string
}

// addEvent, stopEvent and msgEvent are the three shapes of the single
// inbound event queue a hub's dispatcher drains, per the hub's
// single-point-of-serialization contract.
type addEvent struct {
	client  *Client
	lastNum int // -1 means "no replay requested"
	result  chan admitResult
}

type stopEvent struct {
	client *Client
}

type msgEvent struct {
	msg *Message
}
