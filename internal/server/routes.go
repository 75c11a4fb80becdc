package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"github.com/pradeep9868/board-game-framework/internal/clientid"
	"github.com/pradeep9868/board-game-framework/internal/gameid"
	"github.com/pradeep9868/board-game-framework/internal/logging"
	"github.com/pradeep9868/board-game-framework/internal/relay"
)

const closeWriteWait = 5 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  64 * 1024,
	WriteBufferSize: 64 * 1024,
	// The browser shim is served from wherever the integrating site
	// hosts it, not from this origin, so Origin checking is left to a
	// reverse proxy rather than enforced here.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// NewRouter builds the HTTP handler tree: the game websocket endpoint at
// /g/{gameID} and a /healthz liveness probe, wired against dir.
func NewRouter(dir *relay.Directory, clientQueueSize int) http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/g/{gameID}", serveGame(dir, clientQueueSize)).Methods(http.MethodGet)
	r.HandleFunc("/healthz", serveHealthz(dir)).Methods(http.MethodGet)
	return r
}

// serveGame upgrades the request to a websocket and admits it to the
// named game's hub, per spec §4's transport contract: a stable client
// ID cookie, an optional ?lastnum= replay request, an HTTP 400 before
// any upgrade for an invalid game ID or malformed lastnum, and a close
// code 4000 when the hub cannot replay from the requested lastnum.
func serveGame(dir *relay.Directory, clientQueueSize int) http.HandlerFunc {
	log := logging.New("server")
	return func(w http.ResponseWriter, r *http.Request) {
		gameID := mux.Vars(r)["gameID"]
		if err := gameid.Validate(gameID); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		lastNum, err := parseLastNum(r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		id := clientIDFor(r)

		// The cookie must ride the handshake response itself: once
		// Upgrade hijacks the connection there is no ResponseWriter
		// left to call http.SetCookie against.
		conn, err := upgrader.Upgrade(w, r, clientid.Header(id))
		if err != nil {
			log.Warn("upgrade failed", "gameID", gameID, "error", err)
			return
		}

		c := relay.NewClient(id, conn, clientQueueSize)
		if err := c.Start(dir.HubFor(gameID), lastNum); err != nil {
			closeWithReject(conn, err)
			return
		}
		log.Debug("client admitted", "gameID", gameID, "clientID", id)
	}
}

func serveHealthz(dir *relay.Directory) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok, " + strconv.Itoa(dir.Len()) + " active game(s)\n"))
	}
}

// clientIDFor resolves the caller's identity per §6: an explicit
// ?id= query parameter (how a resuming client pairs itself with
// ?lastnum= for replay) takes priority over the clientID cookie, which
// in turn takes priority over minting a fresh one.
func clientIDFor(r *http.Request) string {
	if id := r.URL.Query().Get("id"); id != "" {
		return id
	}
	return clientid.OrNew(r.Cookies())
}

// parseLastNum reads ?lastnum=, defaulting to "no replay requested".
func parseLastNum(r *http.Request) (int, error) {
	raw := r.URL.Query().Get("lastnum")
	if raw == "" {
		return -1, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, errBadLastNum
	}
	return n, nil
}

type badRequestError struct{ msg string }

func (e *badRequestError) Error() string { return e.msg }

var errBadLastNum = &badRequestError{"lastnum must be a non-negative integer"}

// closeWithReject sends the close-4000 frame the spec requires when a
// hub rejects admission, then closes the socket.
func closeWithReject(conn *websocket.Conn, err error) {
	data := websocket.FormatCloseMessage(4000, err.Error())
	conn.WriteControl(websocket.CloseMessage, data, time.Now().Add(closeWriteWait))
	conn.Close()
}
