// Package relay implements the per-game hub and per-connection client
// actor that together form the relay engine: ordered envelope
// broadcasting, join/leave notification, and replay-based reconnection.
package relay

import (
	"encoding/json"
	"fmt"
	"sort"
	"sync/atomic"

	"github.com/inconshreveable/log15"

	"github.com/pradeep9868/board-game-framework/internal/logging"
)

// RejectError is returned by Hub.Add when a client cannot be admitted
// (currently: only for an un-replayable lastnum). The caller is expected
// to close the websocket with code 4000 and a reason containing
// "lastnum", per spec §4.3.
type RejectError struct {
	Reason string
}

func (e *RejectError) Error() string { return e.Reason }

// Hub is the single point of serialization for one game: all mutation
// of room state happens inside its dispatcher loop (run), which drains
// one inbound event queue of admissions, stop requests and client
// messages. No shared mutable state crosses the loop's boundary.
type Hub struct {
	gameID string

	inbound chan interface{}
	done    chan struct{}

	clients map[*Client]bool
	byID    map[string]*Client
	nextNum int
	recent  *replayBuffer

	dir     *Directory
	pending int32 // admissions handed out by the directory, not yet delivered

	log log15.Logger
}

func newHub(gameID string, dir *Directory, cfg HubConfig) *Hub {
	return &Hub{
		gameID:  gameID,
		inbound: make(chan interface{}, cfg.HubQueueSize),
		done:    make(chan struct{}),
		clients: make(map[*Client]bool),
		byID:    make(map[string]*Client),
		recent:  newReplayBuffer(cfg.ReplayBufferSize),
		dir:     dir,
		log:     logging.New("hub", "gameID", gameID),
	}
}

// run is the hub's dispatcher loop: the only goroutine that ever reads
// or writes h.clients, h.byID, h.nextNum or h.recent. It exits once
// removeClient closes h.done, letting this goroutine (and the Hub it
// closes over) be garbage-collected once the last client has left.
func (h *Hub) run() {
	h.log.Debug("hub started")
	for {
		select {
		case ev := <-h.inbound:
			switch e := ev.(type) {
			case addEvent:
				h.handleAdd(e)
			case stopEvent:
				h.handleStop(e)
			case msgEvent:
				h.handleMsg(e)
			}
		case <-h.done:
			h.log.Debug("hub idle, dispatcher exiting")
			return
		}
	}
}

// Add requests admission of c, with optional replay from lastNum
// (pass -1 for none). It blocks until the hub has decided.
func (h *Hub) Add(c *Client, lastNum int) error {
	defer atomic.AddInt32(&h.pending, -1)

	result := make(chan admitResult, 1)
	select {
	case h.inbound <- addEvent{client: c, lastNum: lastNum, result: result}:
	case <-h.done:
		return &RejectError{Reason: "hub no longer active"}
	}

	select {
	case r := <-result:
		if !r.ok {
			return &RejectError{Reason: r.closeMsg}
		}
		return nil
	case <-h.done:
		return &RejectError{Reason: "hub no longer active"}
	}
}

// StopRequest asks the hub to remove c. It never blocks beyond the
// bounded hub queue, and is a no-op once the hub has torn itself down.
func (h *Hub) StopRequest(c *Client) {
	select {
	case h.inbound <- stopEvent{client: c}:
	case <-h.done:
	}
}

// Forward asks the hub to relay m, a message c has read from its
// socket. Like Add and StopRequest, it blocks while the hub queue is
// full (spec §4.2: a saturated hub throttles the reading socket), short
// of the hub having already torn down.
func (h *Hub) Forward(m *Message) {
	select {
	case h.inbound <- msgEvent{m}:
	case <-h.done:
	}
}

// handleAdd implements spec §4.3's Add operation. The concrete example
// in spec §8 scenario 1 numbers the Joiner lower than the Welcome it
// precedes (A's Joiner gets Num 1, B's own Welcome gets Num 2), so the
// Joiner is emitted to existing members first and the Welcome to the
// new client second; see DESIGN.md for the resolution of this against
// §4.3's prose, which lists them in the other order.
func (h *Hub) handleAdd(e addEvent) {
	if e.lastNum >= 0 {
		if !h.recent.coversFrom(e.lastNum) {
			e.result <- admitResult{
				ok:       false,
				closeMsg: fmt.Sprintf("lastnum %d is outside the replay window", e.lastNum),
			}
			return
		}
		for _, raw := range h.recent.since(e.lastNum, e.client.ID) {
			e.client.deliver(raw)
		}
	}

	existing := h.memberList()
	existingIDs := idsOf(existing)

	if len(existing) > 0 {
		h.emit(Joiner, []string{e.client.ID}, existing, nil)
	}
	h.emit(Welcome, existingIDs, []*Client{e.client}, nil)

	h.clients[e.client] = true
	h.byID[e.client.ID] = e.client

	e.result <- admitResult{ok: true}
}

func (h *Hub) handleStop(e stopEvent) {
	h.removeClient(e.client)
}

func (h *Hub) handleMsg(e msgEvent) {
	m := e.msg
	if !h.clients[m.From] {
		// This client's stop was already processed; drop the stray
		// message rather than resurrect it as a member.
		return
	}

	num := h.nextNum
	h.nextNum++
	t := nowMillis()

	receiptTo := []string{m.From.ID}
	receipt := &Envelope{Intent: Receipt, From: receiptTo, To: receiptTo, Num: num, Time: t, Body: m.Msg}
	h.send(receipt, []*Client{m.From})

	peers := removeFromList(h.memberList(), m.From)
	if len(peers) == 0 {
		return
	}
	peerIDs := idsOf(peers)
	peer := &Envelope{Intent: Peer, From: receiptTo, To: peerIDs, Num: num, Time: t, Body: m.Msg}
	h.send(peer, peers)
}

// removeClient tears a member out of the room: it is used both for an
// ordinary StopRequest and for a backpressure drop discovered mid-emit,
// so it never round-trips through the inbound channel (a self-send from
// inside the dispatcher could deadlock against a full queue).
func (h *Hub) removeClient(c *Client) {
	if !h.clients[c] {
		return
	}
	delete(h.clients, c)
	if h.byID[c.ID] == c {
		delete(h.byID, c.ID)
	}
	close(c.inbound)

	survivors := h.memberList()
	if len(survivors) > 0 {
		h.emit(Leaver, []string{c.ID}, survivors, nil)
	}

	if len(h.clients) == 0 && h.dir.release(h.gameID, h) {
		close(h.done)
	}
}

// emit assigns the next Num and Time, marshals one envelope and
// delivers it to every client in to, retaining it in the replay buffer.
// All of to receives byte-identical wire content, which is valid because
// Joiner/Leaver/Welcome all address the same To list to every recipient.
func (h *Hub) emit(intent Intent, from []string, to []*Client, body []byte) {
	toIDs := idsOf(to)
	env := &Envelope{
		Intent: intent,
		From:   from,
		To:     toIDs,
		Num:    h.nextNum,
		Time:   nowMillis(),
		Body:   body,
	}
	h.nextNum++
	h.send(env, to)
}

func (h *Hub) send(env *Envelope, to []*Client) {
	raw, err := json.Marshal(env)
	if err != nil {
		h.log.Error("marshal envelope", "intent", env.Intent, "error", err)
		return
	}
	h.recent.add(env, raw)
	for _, c := range to {
		if c.deliver(raw) {
			h.log.Warn("dropped saturated client", "clientID", c.ID)
		}
	}
}

func (h *Hub) memberList() []*Client {
	out := make([]*Client, 0, len(h.clients))
	for c := range h.clients {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func idsOf(cs []*Client) []string {
	ids := make([]string, len(cs))
	for i, c := range cs {
		ids[i] = c.ID
	}
	return ids
}

func removeFromList(cs []*Client, target *Client) []*Client {
	out := make([]*Client, 0, len(cs))
	for _, c := range cs {
		if c != target {
			out = append(out, c)
		}
	}
	return out
}
