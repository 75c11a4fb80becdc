package relay

import (
	"sync"
	"sync/atomic"

	"github.com/pradeep9868/board-game-framework/internal/logging"
)

// HubConfig bounds the per-hub queues and replay window; every hub a
// Directory creates is configured identically.
type HubConfig struct {
	ReplayBufferSize int
	ClientQueueSize  int
	HubQueueSize     int
}

// Directory maps game IDs to their hub, ensuring admission and teardown
// races cannot produce two hubs for one game ID, nor admit a client to a
// hub that is already mid-teardown (spec §5/§9).
//
// The mutex is held only for the map lookup/insert/delete below; it is
// never held while a hub dispatches, so a busy room never blocks an
// unrelated one's admission.
type Directory struct {
	mu   sync.Mutex
	hubs map[string]*Hub
	cfg  HubConfig
}

// NewDirectory creates an empty hub directory.
func NewDirectory(cfg HubConfig) *Directory {
	return &Directory{
		hubs: make(map[string]*Hub),
		cfg:  cfg,
	}
}

// HubFor returns the hub for gameID, creating it on first use, and
// reserves one pending admission against it so it cannot be torn down
// before the caller's Client.Start has delivered its Add.
func (d *Directory) HubFor(gameID string) *Hub {
	return d.get(gameID)
}

// Len reports how many hubs are currently live, for the health endpoint.
func (d *Directory) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.hubs)
}

// get returns the hub for gameID, creating and starting one if this is
// the first reference, and marks one admission as pending on it so it
// cannot be released out from under the caller before they've delivered
// their Add.
func (d *Directory) get(gameID string) *Hub {
	d.mu.Lock()
	defer d.mu.Unlock()

	h, ok := d.hubs[gameID]
	if !ok {
		h = newHub(gameID, d, d.cfg)
		d.hubs[gameID] = h
		go h.run()
	}
	atomic.AddInt32(&h.pending, 1)
	return h
}

// release removes gameID's hub from the directory iff it is still h and
// h has no admission in flight. It is called only from h's own
// dispatcher goroutine, once h's member set has just become empty.
func (d *Directory) release(gameID string, h *Hub) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.hubs[gameID] != h {
		return false
	}
	if atomic.LoadInt32(&h.pending) != 0 {
		return false
	}
	delete(d.hubs, gameID)
	logging.New("directory").Debug("hub released", "gameID", gameID)
	return true
}
