// internal/handlers/ws_codes.go
package handlers

import "github.com/coder/websocket"

// Custom WebSocket close codes used by the game push channel.
const (
	BadSubprotocolError   websocket.StatusCode = 3000 // Client connected with an unsupported subprotocol.
	InvalidAuthTokenError websocket.StatusCode = 3001 // Session cookie missing, invalid or expired.
	InvalidGameIDError    websocket.StatusCode = 3003 // Game in the URL does not exist or does not match the session.
	NotInGameError        websocket.StatusCode = 3004 // Session names a seat that is no longer in the game.
)
