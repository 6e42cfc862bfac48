package host

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/qbicsoftware/samplegraph/pkg/lineage"
	"github.com/qbicsoftware/samplegraph/pkg/observability"
	"github.com/qbicsoftware/samplegraph/pkg/sample"
	"github.com/qbicsoftware/samplegraph/pkg/scene"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Ping period; must be less than pongWait.
	pingPeriod = 54 * time.Second

	// Subscribers only send pongs and close frames.
	maxMessageSize = 512

	sendBuffer = 16
)

// Message types sent to subscribers.
const (
	MessageScene = "scene"
	MessageClick = "click"
)

// Detail is one row of click details.
type Detail struct {
	Code          string `json:"code"`
	SecondaryName string `json:"secondary_name,omitempty"`
	ExternalID    string `json:"external_id,omitempty"`
}

// Message is what subscribers receive.
type Message struct {
	Type    string            `json:"type"`
	ID      string            `json:"id"`
	Scene   string            `json:"scene,omitempty"`
	Width   float64           `json:"width,omitempty"`
	Height  float64           `json:"height,omitempty"`
	Factor  string            `json:"factor,omitempty"`
	Click   *scene.ClickEvent `json:"click,omitempty"`
	Details []Detail          `json:"details,omitempty"`
}

func newSceneMessage(v *view) Message {
	return Message{
		Type:   MessageScene,
		ID:     uuid.NewString(),
		Scene:  v.scene.ID,
		Width:  v.scene.Width,
		Height: v.scene.Height,
		Factor: v.factor,
	}
}

// details resolves one row per code of the clicked sample from the render
// that produced the scene. A code whose metadata is missing gets a bare row.
func details(g *lineage.Graph, ev scene.ClickEvent) []Detail {
	var meta map[string]string
	if g != nil {
		if s, ok := g.Sample(ev.SampleID); ok {
			meta = s.Metadata
		}
	}
	out := make([]Detail, 0, len(ev.Codes))
	for _, code := range ev.Codes {
		out = append(out, Detail{
			Code:          code,
			SecondaryName: metaFor(meta, code, sample.MetaSecondaryName),
			ExternalID:    metaFor(meta, code, sample.MetaExternalID),
		})
	}
	return out
}

// metaFor prefers a per-code entry ("<code>/<key>") over the sample-wide key.
func metaFor(meta map[string]string, code, key string) string {
	if v, ok := meta[code+"/"+key]; ok {
		return v
	}
	return meta[key]
}

// hub fans messages out to websocket subscribers.
type hub struct {
	logger   *log.Logger
	upgrader websocket.Upgrader

	mu      sync.RWMutex
	clients map[*subscriber]struct{}
	closed  bool
}

type subscriber struct {
	conn      *websocket.Conn
	send      chan []byte
	closeOnce sync.Once
}

func (c *subscriber) stop() {
	c.closeOnce.Do(func() { close(c.send) })
}

func newHub(logger *log.Logger, origins []string) *hub {
	h := &hub{
		logger:  logger,
		clients: make(map[*subscriber]struct{}),
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 4096,
		CheckOrigin:     originChecker(origins),
	}
	return h
}

// originChecker accepts requests without an Origin header, same-host
// origins, and origins starting with one of the allowed prefixes.
func originChecker(allowed []string) func(*http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		for _, prefix := range allowed {
			if strings.HasPrefix(origin, prefix) {
				return true
			}
		}
		u, err := url.Parse(origin)
		return err == nil && strings.EqualFold(u.Host, r.Host)
	}
}

func (h *hub) serve(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Debug("websocket upgrade failed", "error", err)
		return
	}
	c := &subscriber{conn: conn, send: make(chan []byte, sendBuffer)}
	if !h.add(r.Context(), c) {
		conn.Close()
		return
	}
	go c.writePump()
	c.readPump()
	h.remove(context.WithoutCancel(r.Context()), c)
}

func (h *hub) add(ctx context.Context, c *subscriber) bool {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return false
	}
	h.clients[c] = struct{}{}
	n := len(h.clients)
	h.mu.Unlock()

	observability.Interaction().OnSubscribers(ctx, n)
	h.logger.Debug("event subscriber connected", "subscribers", n)
	return true
}

func (h *hub) remove(ctx context.Context, c *subscriber) {
	h.mu.Lock()
	if _, ok := h.clients[c]; !ok {
		h.mu.Unlock()
		return
	}
	delete(h.clients, c)
	n := len(h.clients)
	h.mu.Unlock()

	c.stop()
	observability.Interaction().OnSubscribers(ctx, n)
	h.logger.Debug("event subscriber disconnected", "subscribers", n)
}

// count returns the number of connected subscribers.
func (h *hub) count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// broadcast sends msg to every subscriber and returns how many accepted it.
// Subscribers whose buffer is full miss the message.
func (h *hub) broadcast(msg Message) int {
	data, err := json.Marshal(msg)
	if err != nil {
		h.logger.Error("encode event", "type", msg.Type, "error", err)
		return 0
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	sent := 0
	for c := range h.clients {
		select {
		case c.send <- data:
			sent++
		default:
			h.logger.Warn("event subscriber is slow, dropping message", "type", msg.Type)
		}
	}
	return sent
}

// close disconnects every subscriber and refuses new ones.
func (h *hub) close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for c := range h.clients {
		delete(h.clients, c)
		c.stop()
	}
}

// readPump discards incoming messages and returns when the peer is gone.
func (c *subscriber) readPump() {
	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (c *subscriber) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case data, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
