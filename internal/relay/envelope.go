package relay

import "time"

// Intent discriminates the kind of envelope the hub has emitted.
type Intent string

const (
	Welcome Intent = "Welcome"
	Receipt Intent = "Receipt"
	Peer    Intent = "Peer"
	Joiner  Intent = "Joiner"
	Leaver  Intent = "Leaver"
)

// Envelope is the record a hub emits to one or more clients. Body is
// marshaled as standard base64 by encoding/json's []byte handling, which
// is exactly the wire contract the browser shim expects.
type Envelope struct {
	Intent Intent   `json:"Intent"`
	From   []string `json:"From"`
	To     []string `json:"To"`
	Num    int      `json:"Num"`
	Time   int64    `json:"Time"`
	Body   []byte   `json:"Body,omitempty"`
}

func nowMillis() int64 {
	return time.Now().UnixMilli()
}

// Recipients reports the set of client IDs this envelope was addressed
// to, for the replay buffer to test membership against when deciding
// what a reconnecting client missed.
func (e *Envelope) Recipients() []string {
	return e.To
}
