package handler

import (
	"encoding/json"
	"log/slog"
	"strconv"

	"github.com/ugaemi/codeblock-server/internal/codeblock"
	"github.com/ugaemi/codeblock-server/internal/metrics"
	"github.com/ugaemi/codeblock-server/internal/room"
	"github.com/ugaemi/codeblock-server/internal/ws"
)

const defaultDisplayName = "Anonymous"

// CodeBlockHandler handles joining, editing and leaving code block rooms.
type CodeBlockHandler struct {
	registry *codeblock.Registry
	tracker  *room.Tracker
	router   *Router
	metrics  *metrics.Metrics
}

// NewCodeBlockHandler creates a new code block handler.
func NewCodeBlockHandler(registry *codeblock.Registry, tracker *room.Tracker, router *Router, m *metrics.Metrics) *CodeBlockHandler {
	return &CodeBlockHandler{
		registry: registry,
		tracker:  tracker,
		router:   router,
		metrics:  m,
	}
}

type joinCodeBlockRequest struct {
	ID       *int   `json:"id"`
	Username string `json:"username"`
}

type roleAssignedResponse struct {
	Role    room.Role `json:"role"`
	Message string    `json:"message"`
}

type studentCountResponse struct {
	Count int `json:"count"`
}

// HandleJoin places the client in a code block room and assigns its role.
func (h *CodeBlockHandler) HandleJoin(client *ws.Client, msg ws.Message) {
	var req joinCodeBlockRequest
	if err := json.Unmarshal(msg.Data, &req); err != nil || req.ID == nil {
		client.SendMessage(ws.NewErrorMessage("code block id is required"))
		return
	}
	name := req.Username
	if name == "" {
		name = defaultDisplayName
	}

	// Look the block up before touching membership so an unknown id changes nothing.
	block, err := h.registry.Get(*req.ID)
	if err != nil {
		slog.Info("join rejected, unknown code block", "client", client.ID, "room", *req.ID)
		h.metrics.Rejected.WithLabelValues("not_found").Inc()
		client.SendMessage(ws.NewCodedErrorMessage(ws.ErrCodeNotFound, "code block not found"))
		return
	}

	res, err := h.tracker.Join(client.ID, block.ID, name)
	if err != nil {
		slog.Warn("join failed", "client", client.ID, "room", block.ID, "error", err)
		client.SendMessage(ws.NewErrorMessage("join failed"))
		return
	}
	if res.Left != nil {
		h.announceLeave(*res.Left)
	}
	h.metrics.Joins.WithLabelValues(res.Role.String()).Inc()

	blockMsg, _ := ws.NewMessage(ws.TypeCodeBlock, block.Summary())
	client.SendMessage(blockMsg)

	roleMsg, _ := ws.NewMessage(ws.TypeRoleAssigned, roleAssignedResponse{
		Role:    res.Role,
		Message: res.Role.Greeting(),
	})
	client.SendMessage(roleMsg)

	h.broadcastStudentCount(h.tracker.Members(block.ID), res.StudentCount)

	slog.Info("session joined code block", "client", client.ID, "name", name, "room", block.ID, "role", res.Role.String())
}

type updateCodeBlockRequest struct {
	ID       int     `json:"id"`
	Template *string `json:"template"`
}

// HandleUpdate applies a student's edit and fans it out to the room.
func (h *CodeBlockHandler) HandleUpdate(client *ws.Client, msg ws.Message) {
	var req updateCodeBlockRequest
	if err := json.Unmarshal(msg.Data, &req); err != nil || req.Template == nil {
		client.SendMessage(ws.NewErrorMessage("id and template are required"))
		return
	}

	session, err := h.tracker.Member(client.ID, req.ID)
	if err != nil {
		// Stale client still editing a room it left; nothing to report.
		slog.Debug("ignoring edit for room not joined", "client", client.ID, "room", req.ID, "error", err)
		h.metrics.Rejected.WithLabelValues("stale").Inc()
		return
	}
	if !session.Role.CanEdit() {
		slog.Debug("ignoring edit from read-only session", "client", client.ID, "room", req.ID, "role", session.Role.String())
		h.metrics.Rejected.WithLabelValues("read_only").Inc()
		return
	}

	block, err := h.registry.ApplyEdit(req.ID, *req.Template)
	if err != nil {
		slog.Warn("edit failed", "client", client.ID, "room", req.ID, "error", err)
		return
	}
	h.metrics.Edits.Inc()

	members := h.tracker.Members(block.ID)
	peers := make([]string, 0, len(members))
	for _, id := range members {
		if id != client.ID {
			peers = append(peers, id)
		}
	}
	updateMsg, _ := ws.NewMessage(ws.TypeUpdateCodeBlocks, h.registry.List())
	h.router.sendTo(peers, updateMsg)

	if codeblock.Matches(block) {
		h.metrics.Solutions.WithLabelValues(strconv.Itoa(block.ID)).Inc()
		h.router.sendTo(members, ws.NewSignal(ws.TypeShowSmiley))
		slog.Info("code block solved", "client", client.ID, "room", block.ID)
	}
}

type leaveCodeBlockRequest struct {
	ID int `json:"id"`
}

// HandleLeave takes the client out of its room without disconnecting it.
func (h *CodeBlockHandler) HandleLeave(client *ws.Client, msg ws.Message) {
	var req leaveCodeBlockRequest
	if err := json.Unmarshal(msg.Data, &req); err != nil {
		client.SendMessage(ws.NewErrorMessage("code block id is required"))
		return
	}

	if _, err := h.tracker.Member(client.ID, req.ID); err != nil {
		slog.Debug("ignoring leave for room not joined", "client", client.ID, "room", req.ID)
		h.metrics.Rejected.WithLabelValues("stale").Inc()
		return
	}

	if res, ok := h.tracker.Leave(client.ID); ok {
		h.announceLeave(res)
	}
}

// HandleDisconnect releases the client's session and notifies its room.
func (h *CodeBlockHandler) HandleDisconnect(client *ws.Client) {
	res, ok := h.tracker.Disconnect(client.ID)
	if !ok {
		return
	}
	h.announceLeave(res)
}

// announceLeave tells a room about a departure. When the mentor left, every
// evicted session is sent back to the lobby.
func (h *CodeBlockHandler) announceLeave(res room.LeaveResult) {
	if res.WasMentor {
		h.router.sendTo(res.Evicted, ws.NewSignal(ws.TypeRedirectToLobby))
		h.broadcastStudentCount(res.Evicted, 0)
		h.metrics.Evictions.Add(float64(len(res.Evicted)))
		return
	}
	h.broadcastStudentCount(res.Remaining, res.StudentCount)
}

func (h *CodeBlockHandler) broadcastStudentCount(sessionIDs []string, count int) {
	msg, _ := ws.NewMessage(ws.TypeStudentCountUpdate, studentCountResponse{Count: count})
	h.router.sendTo(sessionIDs, msg)
}
