// internal/handlers/ws_codes.go
package handlers

import "github.com/coder/websocket"

// Custom WebSocket close codes used by the match socket.
const (
	BadSubprotocolError websocket.StatusCode = 3000 // Client connected without the "game" subprotocol.
	MatchDeletedError   websocket.StatusCode = 3004 // The match was dropped from the store while connected.
)
