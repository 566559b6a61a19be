package websocket

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/iamasit07/connect4/internal/domain"
	"go.uber.org/zap"
)

// SnapshotSource looks up the current state of a game.
type SnapshotSource interface {
	Snapshot(ctx context.Context, gameID string) (domain.Snapshot, error)
}

// Handler manages WebSocket dependencies
type Handler struct {
	ConnManager *ConnectionManager
	Games       SnapshotSource
	Upgrader    websocket.Upgrader
	log         *zap.Logger
}

// NewHandler creates a new WebSocket handler. Browsers are only accepted
// from allowedOrigins; clients that send no Origin header always are.
func NewHandler(cm *ConnectionManager, games SnapshotSource, allowedOrigins []string, log *zap.Logger) *Handler {
	return &Handler{
		ConnManager: cm,
		Games:       games,
		Upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if origin == "" {
					return true
				}
				for _, allowed := range allowedOrigins {
					if origin == allowed {
						return true
					}
				}
				return false
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		log: log.With(zap.String("component", "ws")),
	}
}

// HandleWebSocket upgrades the request and streams the game named by the
// game_id query parameter.
func (h *Handler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	gameID := r.URL.Query().Get("game_id")
	if gameID == "" {
		http.Error(w, "game_id is required", http.StatusBadRequest)
		return
	}

	if _, err := h.Games.Snapshot(r.Context(), gameID); err != nil {
		if errors.Is(err, domain.ErrGameNotFound) {
			http.Error(w, "game not found", http.StatusNotFound)
			return
		}
		h.log.Error("snapshot lookup failed", zap.String("game_id", gameID), zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	conn, err := h.Upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("upgrade error", zap.Error(err))
		return
	}

	h.handleConnection(gameID, conn)
}

// handleConnection manages the lifecycle of a single WebSocket connection
func (h *Handler) handleConnection(gameID string, conn *websocket.Conn) {
	client := h.ConnManager.AddConnection(gameID, conn)
	h.log.Info("watcher connected", zap.String("game_id", gameID))

	// Register before reading the snapshot so no change can fall between
	// the two; anything queued meanwhile is sent after it.
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	snap, err := h.Games.Snapshot(ctx, gameID)
	cancel()
	if err != nil {
		client.write(Message{Type: TypeError, Message: err.Error()})
		h.ConnManager.RemoveConnection(client)
		conn.Close()
		return
	}
	if err := client.write(Message{Type: TypeSnapshot, Game: &snap}); err != nil {
		h.ConnManager.RemoveConnection(client)
		conn.Close()
		return
	}

	go client.writePump()

	defer func() {
		h.ConnManager.RemoveConnection(client)
		<-client.done
		h.log.Info("watcher disconnected", zap.String("game_id", gameID))
	}()

	// Watchers never send anything we act on; reading keeps control
	// frames flowing and notices when the peer goes away.
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.log.Debug("watcher disconnected unexpectedly", zap.String("game_id", gameID), zap.Error(err))
			}
			return
		}
	}
}
