package server

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"WorshipHub/core/cipher"
	"WorshipHub/logger"

	"github.com/gorilla/websocket"
)

// MessageType tags websocket messages.
type MessageType string

const (
	MsgTypeKey   MessageType = "key"   // viewer -> server: change key
	MsgTypeSheet MessageType = "sheet" // server -> viewers: rendered sheet
	MsgTypeError MessageType = "error" // server -> one viewer
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
	sendBuffer     = 16
)

// Message is the websocket envelope.
type Message struct {
	Type    MessageType  `json:"type"`
	MusicID string       `json:"musicId,omitempty"`
	Key     string       `json:"key,omitempty"`
	Title   string       `json:"title,omitempty"`
	Rows    []cipher.Row `json:"rows,omitempty"`
	Error   string       `json:"error,omitempty"`
}

func sheetMessage(s cipher.Sheet) *Message {
	return &Message{Type: MsgTypeSheet, MusicID: s.MusicID, Key: s.Key, Title: s.Title, Rows: s.Rows}
}

// Viewer is one websocket connection looking at a music.
type Viewer struct {
	hub     *Hub
	conn    *websocket.Conn
	send    chan []byte
	musicID string
}

// Hub fans rendered sheets out to every viewer of a music.
type Hub struct {
	// music id -> viewers
	rooms map[string]map[*Viewer]bool
	mu    sync.RWMutex

	register   chan *Viewer
	unregister chan *Viewer
	broadcast  chan *broadcastMessage

	done     chan struct{}
	stopOnce sync.Once
}

type broadcastMessage struct {
	musicID string
	// only, when set, restricts delivery to one viewer
	only *Viewer
	data []byte
}

// NewHub creates a hub. Run must be started before viewers connect.
func NewHub() *Hub {
	return &Hub{
		rooms:      make(map[string]map[*Viewer]bool),
		register:   make(chan *Viewer),
		unregister: make(chan *Viewer),
		broadcast:  make(chan *broadcastMessage, 64),
		done:       make(chan struct{}),
	}
}

// Run processes registrations and broadcasts until Stop.
func (h *Hub) Run() {
	for {
		select {
		case v := <-h.register:
			h.registerViewer(v)

		case v := <-h.unregister:
			h.mu.Lock()
			h.removeViewer(v)
			h.mu.Unlock()

		case msg := <-h.broadcast:
			h.broadcastToMusic(msg)

		case <-h.done:
			h.cleanup()
			return
		}
	}
}

// Stop closes every viewer and ends Run.
func (h *Hub) Stop() {
	h.stopOnce.Do(func() { close(h.done) })
}

func (h *Hub) registerViewer(v *Viewer) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.rooms[v.musicID] == nil {
		h.rooms[v.musicID] = make(map[*Viewer]bool)
	}
	h.rooms[v.musicID][v] = true

	logger.Debug("viewer registered",
		logger.String("music", v.musicID),
		logger.Int("viewers", len(h.rooms[v.musicID])))
}

// removeViewer requires h.mu.
func (h *Hub) removeViewer(v *Viewer) {
	viewers, ok := h.rooms[v.musicID]
	if !ok || !viewers[v] {
		return
	}
	delete(viewers, v)
	close(v.send)
	if len(viewers) == 0 {
		delete(h.rooms, v.musicID)
	}
	logger.Debug("viewer unregistered", logger.String("music", v.musicID))
}

func (h *Hub) broadcastToMusic(msg *broadcastMessage) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for v := range h.rooms[msg.musicID] {
		if msg.only != nil && v != msg.only {
			continue
		}
		select {
		case v.send <- msg.data:
		default:
			// slow viewer
			h.removeViewer(v)
		}
	}
}

func (h *Hub) cleanup() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, viewers := range h.rooms {
		for v := range viewers {
			close(v.send)
		}
	}
	h.rooms = make(map[string]map[*Viewer]bool)
}

// Register adds a viewer. It returns false once the hub is stopped.
func (h *Hub) Register(v *Viewer) bool {
	select {
	case h.register <- v:
		return true
	case <-h.done:
		return false
	}
}

// Unregister removes a viewer and closes its send channel.
func (h *Hub) Unregister(v *Viewer) {
	select {
	case h.unregister <- v:
	case <-h.done:
	}
}

// Broadcast sends msg to every viewer of musicID.
func (h *Hub) Broadcast(musicID string, msg *Message) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	h.queue(&broadcastMessage{musicID: musicID, data: data})
	return nil
}

func (h *Hub) queue(msg *broadcastMessage) {
	select {
	case h.broadcast <- msg:
	case <-h.done:
	}
}

// Viewers returns how many connections watch musicID.
func (h *Hub) Viewers(musicID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[musicID])
}

func newViewer(h *Hub, conn *websocket.Conn, musicID string) *Viewer {
	return &Viewer{hub: h, conn: conn, send: make(chan []byte, sendBuffer), musicID: musicID}
}

// Send queues msg for this viewer only. Delivery goes through the hub so it
// is ordered with broadcasts and skipped once the viewer is gone.
func (v *Viewer) Send(msg *Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		logger.Error("failed to encode message", logger.ErrorField(err))
		return
	}
	v.hub.queue(&broadcastMessage{musicID: v.musicID, only: v, data: data})
}

// ReadPump reads viewer messages until the connection closes.
func (v *Viewer) ReadPump(ctx context.Context, handle func(ctx context.Context, v *Viewer, msg *Message)) {
	defer func() {
		v.hub.Unregister(v)
		v.conn.Close()
	}()

	v.conn.SetReadLimit(maxMessageSize)
	v.conn.SetReadDeadline(time.Now().Add(pongWait))
	v.conn.SetPongHandler(func(string) error {
		v.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := v.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Warn("websocket read error", logger.ErrorField(err), logger.String("music", v.musicID))
			}
			return
		}
		var msg Message
		if err := json.Unmarshal(data, &msg); err != nil {
			logger.Warn("invalid message format", logger.ErrorField(err), logger.String("music", v.musicID))
			v.Send(&Message{Type: MsgTypeError, Error: "invalid message"})
			continue
		}
		handle(ctx, v, &msg)
	}
}

// WritePump writes queued messages and keeps the connection alive with pings.
func (v *Viewer) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		v.conn.Close()
	}()

	for {
		select {
		case data, ok := <-v.send:
			v.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				v.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := v.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}

		case <-ticker.C:
			v.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := v.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
