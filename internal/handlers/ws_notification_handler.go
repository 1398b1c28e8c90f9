package handlers

import (
	"net/http"

	"github.com/aidostt/wanderstay/internal/realtime"
	jwtutil "github.com/aidostt/wanderstay/pkg/jwt"
	"github.com/aidostt/wanderstay/pkg/logger"
	"github.com/gorilla/websocket"
)

// WSNotificationHandler upgrades clients to a websocket and registers them
// with the realtime hub so notification pushes reach them live.
type WSNotificationHandler struct {
	Hub       *realtime.Hub
	JWTSecret string
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

func NewWSNotificationHandler(hub *realtime.Hub, jwtSecret string) *WSNotificationHandler {
	return &WSNotificationHandler{Hub: hub, JWTSecret: jwtSecret}
}

// ConnectHandler authenticates via a token query parameter (browsers cannot
// set headers on websocket dials) and keeps the connection registered until
// the client disconnects.
func (h *WSNotificationHandler) ConnectHandler(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		http.Error(w, "Missing token", http.StatusUnauthorized)
		return
	}
	claims, err := jwtutil.ValidateToken(token, h.JWTSecret)
	if err != nil {
		http.Error(w, "Invalid token", http.StatusUnauthorized)
		logger.Log.Warnf("WebSocket auth failed: %v", err)
		return
	}
	userID := claims.UserID

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Log.Warnf("WebSocket upgrade failed for user %s: %v", userID, err)
		return
	}

	logger.Log.Infof("WebSocket connected: %s", userID)
	h.Hub.Register(userID, conn)

	defer func() {
		h.Hub.Unregister(userID, conn)
		conn.Close()
		logger.Log.Infof("WebSocket disconnected: %s", userID)
	}()

	// The notification stream is one-way. Reading drains client control
	// frames and detects disconnects.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}
