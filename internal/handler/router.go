package handler

import (
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/ugaemi/codeblock-server/internal/codeblock"
	"github.com/ugaemi/codeblock-server/internal/metrics"
	"github.com/ugaemi/codeblock-server/internal/room"
	"github.com/ugaemi/codeblock-server/internal/ws"
)

// Router dispatches incoming messages to the appropriate handler.
// All of its methods are expected to be called from the hub loop.
type Router struct {
	blocks  *CodeBlockHandler
	tracker *room.Tracker
	metrics *metrics.Metrics

	// clients tracks session ID -> live connection.
	clients map[string]*ws.Client
	mu      sync.RWMutex
}

// NewRouter creates a new message router.
func NewRouter(registry *codeblock.Registry, tracker *room.Tracker, m *metrics.Metrics) *Router {
	r := &Router{
		tracker: tracker,
		metrics: m,
		clients: make(map[string]*ws.Client),
	}
	r.blocks = NewCodeBlockHandler(registry, tracker, r, m)
	return r
}

// HandleConnect allocates an unassigned session for a new client.
func (r *Router) HandleConnect(client *ws.Client) {
	r.mu.Lock()
	r.clients[client.ID] = client
	r.mu.Unlock()

	r.tracker.Connect(client.ID)
	r.metrics.ActiveSessions.Inc()
}

// HandleMessage parses and routes an incoming client message.
func (r *Router) HandleMessage(cm *ws.ClientMessage) {
	if r.client(cm.Client.ID) == nil {
		// Queued before the client unregistered; its send channel is closed.
		slog.Debug("dropping message from disconnected client", "client", cm.Client.ID)
		return
	}

	var msg ws.Message
	if err := json.Unmarshal(cm.Data, &msg); err != nil {
		slog.Warn("invalid message format", "client", cm.Client.ID, "error", err)
		r.metrics.Rejected.WithLabelValues("invalid").Inc()
		cm.Client.SendMessage(ws.NewErrorMessage("invalid message format"))
		return
	}

	switch msg.Type {
	case ws.TypeJoinCodeBlock:
		r.metrics.Events.WithLabelValues(msg.Type).Inc()
		r.blocks.HandleJoin(cm.Client, msg)
	case ws.TypeUpdateCodeBlock:
		r.metrics.Events.WithLabelValues(msg.Type).Inc()
		r.blocks.HandleUpdate(cm.Client, msg)
	case ws.TypeLeaveCodeBlock:
		r.metrics.Events.WithLabelValues(msg.Type).Inc()
		r.blocks.HandleLeave(cm.Client, msg)

	default:
		slog.Warn("unknown message type", "type", msg.Type, "client", cm.Client.ID)
		r.metrics.Rejected.WithLabelValues("unknown_type").Inc()
		cm.Client.SendMessage(ws.NewErrorMessage("unknown message type: " + msg.Type))
	}
}

// HandleDisconnect handles client disconnection.
func (r *Router) HandleDisconnect(client *ws.Client) {
	r.mu.Lock()
	_, ok := r.clients[client.ID]
	delete(r.clients, client.ID)
	r.mu.Unlock()
	if !ok {
		return
	}

	r.metrics.ActiveSessions.Dec()
	r.blocks.HandleDisconnect(client)
}

func (r *Router) client(sessionID string) *ws.Client {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.clients[sessionID]
}

// sendTo delivers msg to every listed session that is still connected.
func (r *Router) sendTo(sessionIDs []string, msg ws.Message) {
	for _, id := range sessionIDs {
		if c := r.client(id); c != nil {
			c.SendMessage(msg)
		}
	}
}
