package websocket

import (
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

// ServeWs registers the connection and blocks until it closes.
func ServeWs(hub *Hub, conn *websocket.Conn, userID uuid.UUID) {
	client := NewClient(hub, conn, userID)
	hub.register <- client

	go client.writePump()
	client.readPump()
}
