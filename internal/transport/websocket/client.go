package websocket

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/iamasit07/connect4/internal/domain"
	"go.uber.org/zap"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 30 * time.Second
	sendBuffer = 32
)

const (
	TypeSnapshot     = "snapshot"
	TypeStateChanged = "state_changed"
	TypeGameClosed   = "game_closed"
	TypeError        = "error"
)

// Message is the only frame the server sends.
type Message struct {
	Type    string           `json:"type"`
	Game    *domain.Snapshot `json:"game,omitempty"`
	Message string           `json:"message,omitempty"`
}

// Client is one socket watching one game.
type Client struct {
	conn   *websocket.Conn
	gameID string
	send   chan Message

	// writeMu ensures only one goroutine writes to the socket at a time.
	// conn.WriteJSON is not safe for concurrent use.
	writeMu sync.Mutex
	done    chan struct{}
}

func (c *Client) write(msg Message) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteJSON(msg)
}

func (c *Client) ping() error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	return c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait))
}

// writePump drains the send queue. When the queue is closed it says goodbye
// and closes the socket.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
		close(c.done)
	}()

	for {
		select {
		case msg, ok := <-c.send:
			if !ok {
				c.writeMu.Lock()
				c.conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
					time.Now().Add(writeWait))
				c.writeMu.Unlock()
				return
			}
			if err := c.write(msg); err != nil {
				return
			}
		case <-ticker.C:
			if err := c.ping(); err != nil {
				return
			}
		}
	}
}

// ConnectionManager tracks the sockets watching each game and fans state
// changes out to them.
type ConnectionManager struct {
	games map[string]map[*Client]struct{} // gameID → watchers
	mu    sync.RWMutex                    // Protects the map itself
	log   *zap.Logger
}

func NewConnectionManager(log *zap.Logger) *ConnectionManager {
	return &ConnectionManager{
		games: make(map[string]map[*Client]struct{}),
		log:   log.With(zap.String("component", "ws")),
	}
}

// AddConnection registers conn as a watcher of gameID. Messages published
// from now on are queued; nothing is written until the caller starts the
// client's write pump.
func (cm *ConnectionManager) AddConnection(gameID string, conn *websocket.Conn) *Client {
	c := &Client{
		conn:   conn,
		gameID: gameID,
		send:   make(chan Message, sendBuffer),
		done:   make(chan struct{}),
	}

	cm.mu.Lock()
	defer cm.mu.Unlock()

	watchers, ok := cm.games[gameID]
	if !ok {
		watchers = make(map[*Client]struct{})
		cm.games[gameID] = watchers
	}
	watchers[c] = struct{}{}
	return c
}

// RemoveConnection unregisters c and closes its send queue. Safe to call
// more than once.
func (cm *ConnectionManager) RemoveConnection(c *Client) {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	cm.removeLocked(c)
}

func (cm *ConnectionManager) removeLocked(c *Client) {
	watchers, ok := cm.games[c.gameID]
	if !ok {
		return
	}
	if _, ok := watchers[c]; !ok {
		return
	}
	delete(watchers, c)
	close(c.send)
	if len(watchers) == 0 {
		delete(cm.games, c.gameID)
	}
}

// Publish queues a state change for every watcher of the game. A watcher
// whose queue is full is dropped.
func (cm *ConnectionManager) Publish(snap domain.Snapshot) {
	msg := Message{Type: TypeStateChanged, Game: &snap}

	var slow []*Client
	cm.mu.RLock()
	for c := range cm.games[snap.GameID] {
		select {
		case c.send <- msg:
		default:
			slow = append(slow, c)
		}
	}
	cm.mu.RUnlock()

	for _, c := range slow {
		cm.log.Warn("dropping slow watcher", zap.String("game_id", snap.GameID))
		cm.RemoveConnection(c)
	}
}

// CloseGame tells every watcher the game is gone and disconnects them.
func (cm *ConnectionManager) CloseGame(gameID string) {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	for c := range cm.games[gameID] {
		select {
		case c.send <- Message{Type: TypeGameClosed, Message: "game removed"}:
		default:
		}
		cm.removeLocked(c)
	}
}

// Count returns the number of sockets watching gameID.
func (cm *ConnectionManager) Count(gameID string) int {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	return len(cm.games[gameID])
}
