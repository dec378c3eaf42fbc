package notify

import (
	"sync"

	"github.com/gorilla/websocket"

	"beltsense/internal/logger"
	"beltsense/internal/models"
)

// sendBuffer bounds the per-device push queue. A device that stops
// draining loses pushes rather than blocking the broadcasters.
const sendBuffer = 16

// Device alert payload knobs. The companion device plays these as a
// short-long-short vibration plus the bundled notification sound; both
// effects are best-effort on the device side too.
var vibrationPattern = []int{200, 500, 200}

const notificationSound = "/sounds/alert-notification.mp3"

// Envelope is the wire format for hub pushes.
type Envelope struct {
	Type string `json:"type"`
	Data any    `json:"data,omitempty"`
}

type deviceAlertPayload struct {
	Source    string          `json:"source"`
	Severity  models.Severity `json:"severity"`
	Summary   string          `json:"summary"`
	Vibration []int           `json:"vibration_ms"`
	Sound     string          `json:"sound"`
}

// Hub fans out pushes to every connected companion device. The hub never
// writes to a connection itself: each registration hands back a channel
// and the connection's own writer loop drains it, so a conn only ever has
// one writer. Full queues and an empty connection set are logged and
// swallowed: notification delivery problems are never surfaced to callers.
type Hub struct {
	mu    sync.Mutex
	conns map[*websocket.Conn]chan Envelope
	log   *logger.Logger
}

func NewHub(log *logger.Logger) *Hub {
	return &Hub{conns: make(map[*websocket.Conn]chan Envelope), log: log}
}

// Register adds a connection to the broadcast set and returns the channel
// its writer loop must drain. The channel is closed by Unregister.
func (h *Hub) Register(conn *websocket.Conn) <-chan Envelope {
	ch := make(chan Envelope, sendBuffer)
	h.mu.Lock()
	defer h.mu.Unlock()
	h.conns[conn] = ch
	return ch
}

// Unregister removes a connection and closes its push channel. Closing
// the conn is the caller's job.
func (h *Hub) Unregister(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if ch, ok := h.conns[conn]; ok {
		delete(h.conns, conn)
		close(ch)
	}
}

// DeviceAlert pushes a device_alert envelope to every connection.
func (h *Hub) DeviceAlert(rec models.AlertRecord) {
	h.Broadcast(Envelope{
		Type: "device_alert",
		Data: deviceAlertPayload{
			Source:    rec.Source,
			Severity:  rec.Severity.Normalize(),
			Summary:   rec.Summary,
			Vibration: vibrationPattern,
			Sound:     notificationSound,
		},
	})
}

// SessionReset tells devices to close the chat surface.
func (h *Hub) SessionReset() {
	h.Broadcast(Envelope{Type: "chat_session_reset"})
}

// Broadcast enqueues env for every registered connection, dropping the
// push for any device whose queue is full.
func (h *Hub) Broadcast(env Envelope) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.conns) == 0 {
		if h.log != nil {
			h.log.Debugw("hub_no_devices", "type", env.Type)
		}
		return
	}

	for _, ch := range h.conns {
		select {
		case ch <- env:
		default:
			if h.log != nil {
				h.log.Infow("hub_push_dropped", "type", env.Type)
			}
		}
	}
}
