// internal/handlers/game_ws.go
package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/jason-s-yu/landgrab/internal/game"
	"github.com/jason-s-yu/landgrab/internal/middleware"
	"github.com/jason-s-yu/landgrab/internal/models"
	"github.com/sirupsen/logrus"
)

const wsWriteTimeout = 3 * time.Second

// GameMessage is the envelope for messages read from a match socket.
type GameMessage struct {
	// Type is one of "state", "advance", "action", "ping".
	Type    string         `json:"type"`
	Action1 *models.Action `json:"action1,omitempty"`
	Action2 *models.Action `json:"action2,omitempty"`
}

// GameEvent is the envelope for messages written to a match socket.
type GameEvent struct {
	Type  string      `json:"type"`
	State interface{} `json:"state,omitempty"`
	Error string      `json:"error,omitempty"`
}

// wsClient is one socket on a match. A non-empty playerID gets the obfuscated view.
type wsClient struct {
	conn     *websocket.Conn
	playerID string
}

func (c *wsClient) view(state models.GameState) interface{} {
	if c.playerID == "" {
		return state
	}
	return game.ObfuscatedView(state, c.playerID)
}

// matchHub tracks the sockets attached to each match.
type matchHub struct {
	mu      sync.Mutex
	clients map[string]map[*wsClient]struct{}
	logger  *logrus.Logger
}

func newMatchHub(logger *logrus.Logger) *matchHub {
	return &matchHub{
		clients: make(map[string]map[*wsClient]struct{}),
		logger:  logger,
	}
}

func (h *matchHub) add(matchID string, c *wsClient) {
	h.mu.Lock()
	defer h.mu.Unlock()
	set, ok := h.clients[matchID]
	if !ok {
		set = make(map[*wsClient]struct{})
		h.clients[matchID] = set
	}
	set[c] = struct{}{}
}

func (h *matchHub) remove(matchID string, c *wsClient) {
	h.mu.Lock()
	defer h.mu.Unlock()
	set := h.clients[matchID]
	delete(set, c)
	if len(set) == 0 {
		delete(h.clients, matchID)
	}
}

func (h *matchHub) snapshot(matchID string) []*wsClient {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]*wsClient, 0, len(h.clients[matchID]))
	for c := range h.clients[matchID] {
		out = append(out, c)
	}
	return out
}

// broadcastState writes state to every socket on the match. Writes happen outside the hub lock.
func (h *matchHub) broadcastState(matchID string, state models.GameState) {
	for _, c := range h.snapshot(matchID) {
		if err := writeEvent(c.conn, GameEvent{Type: "state", State: c.view(state)}); err != nil {
			h.logger.Warnf("broadcast to %s on match %s failed: %v", c.playerID, matchID, err)
		}
	}
}

// closeMatch disconnects every socket on a deleted match. The close handshakes run in the background.
func (h *matchHub) closeMatch(matchID string) {
	h.mu.Lock()
	set := h.clients[matchID]
	delete(h.clients, matchID)
	h.mu.Unlock()
	for c := range set {
		go c.conn.Close(MatchDeletedError, "match deleted")
	}
}

func writeEvent(conn *websocket.Conn, ev GameEvent) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), wsWriteTimeout)
	defer cancel()
	return conn.Write(ctx, websocket.MessageText, data)
}

// GameWSHandler upgrades to a WebSocket attached to one match.
// ?playerId= selects the seat whose obfuscated view the socket receives.
func GameWSHandler(gs *GameServer, allowedOrigins []string) http.HandlerFunc {
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"*"}
	}
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := gs.session(w, r)
		if !ok {
			return
		}
		c, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			Subprotocols:   []string{"game"},
			OriginPatterns: allowedOrigins,
		})
		if err != nil {
			gs.Logger.Warnf("WebSocket accept error for match %s: %v", sess.ID(), err)
			return
		}
		defer c.Close(websocket.StatusInternalError, "handler exit")

		if c.Subprotocol() != "game" {
			c.Close(BadSubprotocolError, "client must use the 'game' subprotocol")
			return
		}
		middleware.LogWebSocketConnect(gs.Logger, r.RemoteAddr, r.URL.Path)

		client := &wsClient{conn: c, playerID: r.URL.Query().Get("playerId")}
		gs.hub.add(sess.ID(), client)
		defer gs.hub.remove(sess.ID(), client)

		if err := writeEvent(c, GameEvent{Type: "state", State: client.view(sess.State())}); err != nil {
			middleware.LogWebSocketDisconnect(gs.Logger, r.RemoteAddr, r.URL.Path, err)
			return
		}

		err = readGameMessages(r.Context(), gs, sess, client)
		middleware.LogWebSocketDisconnect(gs.Logger, r.RemoteAddr, r.URL.Path, err)
		if websocket.CloseStatus(err) == websocket.StatusNormalClosure {
			c.Close(websocket.StatusNormalClosure, "")
		}
	}
}

// readGameMessages handles client messages until the socket fails or closes.
func readGameMessages(ctx context.Context, gs *GameServer, sess *game.Session, client *wsClient) error {
	for {
		_, data, err := client.conn.Read(ctx)
		if err != nil {
			return err
		}
		var msg GameMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			if err := writeEvent(client.conn, GameEvent{Type: "error", Error: "invalid message"}); err != nil {
				return err
			}
			continue
		}

		switch msg.Type {
		case "ping":
			err = writeEvent(client.conn, GameEvent{Type: "pong"})
		case "state":
			err = writeEvent(client.conn, GameEvent{Type: "state", State: client.view(sess.State())})
		case "advance":
			gs.hub.broadcastState(sess.ID(), sess.Advance())
		case "action":
			gs.hub.broadcastState(sess.ID(), gs.applyActions(sess, msg.Action1, msg.Action2))
		default:
			err = writeEvent(client.conn, GameEvent{Type: "error", Error: "unknown message type: " + msg.Type})
		}
		if err != nil {
			return err
		}
	}
}
