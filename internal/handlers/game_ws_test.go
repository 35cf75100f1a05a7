package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/jason-s-yu/landgrab/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type wsEvent struct {
	Type  string          `json:"type"`
	State json.RawMessage `json:"state"`
	Error string          `json:"error"`
}

func dialMatch(t *testing.T, ctx context.Context, url string) *websocket.Conn {
	t.Helper()
	c, _, err := websocket.Dial(ctx, url, &websocket.DialOptions{Subprotocols: []string{"game"}})
	require.NoError(t, err)
	t.Cleanup(func() { c.Close(websocket.StatusNormalClosure, "") })
	return c
}

func readEvent(t *testing.T, ctx context.Context, c *websocket.Conn) wsEvent {
	t.Helper()
	_, data, err := c.Read(ctx)
	require.NoError(t, err)
	var ev wsEvent
	require.NoError(t, json.Unmarshal(data, &ev))
	return ev
}

func send(t *testing.T, ctx context.Context, c *websocket.Conn, msg GameMessage) {
	t.Helper()
	data, err := json.Marshal(msg)
	require.NoError(t, err)
	require.NoError(t, c.Write(ctx, websocket.MessageText, data))
}

func TestGameWebSocketFlow(t *testing.T) {
	_, srv := newTestServer(t)
	st := createMatch(t, srv, CreateMatchRequest{Player1ID: p1, Player2ID: p2, Seed: seed(5)}, nil)
	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/v1/games/" + st.MatchID + "/ws"

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	spectator := dialMatch(t, ctx, wsURL)
	player := dialMatch(t, ctx, wsURL+"?playerId="+p1)

	ev := readEvent(t, ctx, spectator)
	assert.Equal(t, "state", ev.Type)
	ev = readEvent(t, ctx, player)
	assert.Equal(t, "state", ev.Type)

	send(t, ctx, player, GameMessage{Type: "ping"})
	assert.Equal(t, "pong", readEvent(t, ctx, player).Type)

	// advance from one socket, both receive the new state
	send(t, ctx, player, GameMessage{Type: "advance"})

	var full models.GameState
	ev = readEvent(t, ctx, spectator)
	require.Equal(t, "state", ev.Type)
	require.NoError(t, json.Unmarshal(ev.State, &full))
	assert.Equal(t, 1, full.Turn)
	assert.Len(t, full.Players[1].Hand, 3)

	var view struct {
		Players []struct {
			PlayerID string        `json:"playerId"`
			Hand     []models.Card `json:"hand"`
		} `json:"players"`
	}
	ev = readEvent(t, ctx, player)
	require.NoError(t, json.Unmarshal(ev.State, &view))
	require.Len(t, view.Players, 2)
	assert.Len(t, view.Players[0].Hand, 3)
	assert.Empty(t, view.Players[1].Hand)

	card := full.Players[0].Hand[0]
	send(t, ctx, spectator, GameMessage{Type: "action", Action1: &models.Action{PlayerID: p1, CardID: card.ID}})
	ev = readEvent(t, ctx, spectator)
	require.NoError(t, json.Unmarshal(ev.State, &full))
	require.Len(t, full.LastActions, 1)
	assert.Equal(t, card.TemplateID, full.LastActions[0].CardTemplateID)
	readEvent(t, ctx, player)

	send(t, ctx, spectator, GameMessage{Type: "bogus"})
	ev = readEvent(t, ctx, spectator)
	assert.Equal(t, "error", ev.Type)
	assert.Contains(t, ev.Error, "bogus")
}

func TestGameWebSocketHTTPBroadcast(t *testing.T) {
	_, srv := newTestServer(t)
	st := createMatch(t, srv, CreateMatchRequest{Player1ID: p1, Player2ID: p2, Seed: seed(9)}, nil)
	base := srv.URL + "/api/v1/games/" + st.MatchID

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	c := dialMatch(t, ctx, "ws"+strings.TrimPrefix(base, "http")+"/ws")
	readEvent(t, ctx, c)

	doJSON(t, http.MethodPost, base+"/advance", nil, nil, nil)
	var got models.GameState
	require.NoError(t, json.Unmarshal(readEvent(t, ctx, c).State, &got))
	assert.Equal(t, models.PhaseAction, got.Phase)

	doJSON(t, http.MethodDelete, base, nil, nil, nil)
	_, _, err := c.Read(ctx)
	assert.Equal(t, MatchDeletedError, websocket.CloseStatus(err))
}

func TestGameWebSocketUnknownMatch(t *testing.T) {
	_, srv := newTestServer(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_, resp, err := websocket.Dial(ctx, "ws"+strings.TrimPrefix(srv.URL, "http")+"/api/v1/games/nope/ws",
		&websocket.DialOptions{Subprotocols: []string{"game"}})
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestGameWebSocketRequiresSubprotocol(t *testing.T) {
	_, srv := newTestServer(t)
	st := createMatch(t, srv, CreateMatchRequest{Player1ID: p1, Player2ID: p2}, nil)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	c, _, err := websocket.Dial(ctx, "ws"+strings.TrimPrefix(srv.URL, "http")+"/api/v1/games/"+st.MatchID+"/ws", nil)
	require.NoError(t, err)
	defer c.Close(websocket.StatusNormalClosure, "")
	_, _, err = c.Read(ctx)
	assert.Equal(t, BadSubprotocolError, websocket.CloseStatus(err))
}

func TestGameWebSocketInvalidMessage(t *testing.T) {
	_, srv := newTestServer(t)
	st := createMatch(t, srv, CreateMatchRequest{Player1ID: p1, Player2ID: p2}, nil)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	c := dialMatch(t, ctx, "ws"+strings.TrimPrefix(srv.URL, "http")+"/api/v1/games/"+st.MatchID+"/ws")
	readEvent(t, ctx, c)

	require.NoError(t, c.Write(ctx, websocket.MessageText, []byte("{not json")))
	ev := readEvent(t, ctx, c)
	assert.Equal(t, "error", ev.Type)
	assert.Equal(t, "invalid message", ev.Error)

	// the loop keeps serving after a bad message
	send(t, ctx, c, GameMessage{Type: "ping"})
	assert.Equal(t, "pong", readEvent(t, ctx, c).Type)
}
