package handler

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"pingdm/backend/internal/chathub"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Allows connections from any origin. Tighten in production.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// ServeWebSocket authenticates the handshake and upgrades the connection.
// No connection is established on a failed credential; banned users are
// rejected before the upgrade.
func (h *Handler) ServeWebSocket(c *gin.Context) {
	userID, err := h.Auth.Verify(bearerToken(c))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token or expired"})
		return
	}

	banned, err := h.Storage.IsUserBanned(userID)
	if err != nil {
		// Fail open: a redis hiccup must not lock everyone out.
		log.Printf("WARN: failed to check ban status for %s: %v", userID, err)
	}
	if banned {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Account is suspended"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to upgrade connection"})
		return
	}

	client := chathub.NewWebSocketClient(h.Hub, uuid.New().String(), userID, conn)
	h.Hub.Register(client)
	client.Run()
}
