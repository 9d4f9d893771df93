package room

import (
	"errors"
	"log/slog"
	"sort"
	"sync"
)

var (
	// ErrUnknownSession is returned for a session id that was never connected or already disconnected.
	ErrUnknownSession = errors.New("unknown session")
	// ErrNotInRoom is returned when a session references a room it is not a member of.
	ErrNotInRoom = errors.New("session is not in the room")
)

// Session is one connection's room and role state.
// Role is RoleUnassigned exactly when the session is in no room.
type Session struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	RoomID      int    `json:"room_id"`
	Role        Role   `json:"role"`
}

// InRoom reports whether the session currently belongs to a room.
func (s Session) InRoom() bool {
	return s.Role != RoleUnassigned
}

// JoinResult describes the outcome of a join.
type JoinResult struct {
	RoomID       int
	Role         Role
	StudentCount int
	// Left is set when joining implied leaving another room first.
	Left *LeaveResult
}

// LeaveResult describes the outcome of a session leaving its room.
type LeaveResult struct {
	RoomID    int
	WasMentor bool
	// Remaining lists the sessions still in the room. Empty when the mentor left.
	Remaining []string
	// Evicted lists the sessions removed because the mentor left.
	Evicted      []string
	StudentCount int
}

type membership struct {
	mentorID string
	members  map[string]struct{}
}

func (m *membership) studentCount() int {
	if m.mentorID != "" {
		return len(m.members) - 1
	}
	return len(m.members)
}

func (m *membership) sortedMembers() []string {
	ids := make([]string, 0, len(m.members))
	for id := range m.members {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Tracker owns the session -> room/role mapping and enforces one mentor per room.
type Tracker struct {
	sessions map[string]*Session
	rooms    map[int]*membership
	mu       sync.RWMutex
}

// NewTracker creates an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{
		sessions: make(map[string]*Session),
		rooms:    make(map[int]*membership),
	}
}

// Connect allocates an unassigned session. Connecting an existing id is a no-op.
func (t *Tracker) Connect(sessionID string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.sessions[sessionID]; ok {
		return
	}
	t.sessions[sessionID] = &Session{ID: sessionID}
}

// Join places a session in a room, leaving its previous room first.
// The first session in a room without a mentor becomes the mentor.
func (t *Tracker) Join(sessionID string, roomID int, displayName string) (JoinResult, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	s, ok := t.sessions[sessionID]
	if !ok {
		return JoinResult{}, ErrUnknownSession
	}

	if s.InRoom() && s.RoomID == roomID {
		s.DisplayName = displayName
		return JoinResult{
			RoomID:       roomID,
			Role:         s.Role,
			StudentCount: t.rooms[roomID].studentCount(),
		}, nil
	}

	var left *LeaveResult
	if s.InRoom() {
		res := t.leave(s)
		left = &res
	}

	m, ok := t.rooms[roomID]
	if !ok {
		m = &membership{members: make(map[string]struct{})}
		t.rooms[roomID] = m
	}

	role := RoleStudent
	if m.mentorID == "" {
		role = RoleMentor
		m.mentorID = sessionID
	}
	m.members[sessionID] = struct{}{}

	s.DisplayName = displayName
	s.RoomID = roomID
	s.Role = role

	slog.Info("session joined room", "session", sessionID, "room", roomID, "role", role.String())

	return JoinResult{
		RoomID:       roomID,
		Role:         role,
		StudentCount: m.studentCount(),
		Left:         left,
	}, nil
}

// Leave removes a session from its room. If it was the mentor, every other
// member is evicted and the room is left empty. Returns false if the session
// was in no room.
func (t *Tracker) Leave(sessionID string) (LeaveResult, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	s, ok := t.sessions[sessionID]
	if !ok || !s.InRoom() {
		return LeaveResult{}, false
	}
	return t.leave(s), true
}

// Disconnect leaves the session's room, if any, and forgets the session.
func (t *Tracker) Disconnect(sessionID string) (LeaveResult, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	s, ok := t.sessions[sessionID]
	if !ok {
		return LeaveResult{}, false
	}
	delete(t.sessions, sessionID)
	if !s.InRoom() {
		return LeaveResult{}, false
	}
	return t.leave(s), true
}

// leave must be called with t.mu held.
func (t *Tracker) leave(s *Session) LeaveResult {
	roomID := s.RoomID
	m := t.rooms[roomID]
	delete(m.members, s.ID)

	res := LeaveResult{RoomID: roomID}
	if m.mentorID == s.ID {
		res.WasMentor = true
		res.Evicted = m.sortedMembers()
		for _, id := range res.Evicted {
			if other, ok := t.sessions[id]; ok {
				other.RoomID = 0
				other.Role = RoleUnassigned
			}
		}
		m.mentorID = ""
		m.members = make(map[string]struct{})
		slog.Info("mentor left room, evicting students", "session", s.ID, "room", roomID, "evicted", len(res.Evicted))
	} else {
		res.Remaining = m.sortedMembers()
		slog.Info("session left room", "session", s.ID, "room", roomID)
	}
	res.StudentCount = m.studentCount()

	if len(m.members) == 0 {
		delete(t.rooms, roomID)
	}

	s.RoomID = 0
	s.Role = RoleUnassigned
	return res
}

// Member returns the session if it is currently in the given room.
func (t *Tracker) Member(sessionID string, roomID int) (Session, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	s, ok := t.sessions[sessionID]
	if !ok {
		return Session{}, ErrUnknownSession
	}
	if !s.InRoom() || s.RoomID != roomID {
		return Session{}, ErrNotInRoom
	}
	return *s, nil
}

// Session returns a copy of the session state.
func (t *Tracker) Session(sessionID string) (Session, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	s, ok := t.sessions[sessionID]
	if !ok {
		return Session{}, false
	}
	return *s, true
}

// Members returns the ids of every session in a room, sorted.
func (t *Tracker) Members(roomID int) []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	m, ok := t.rooms[roomID]
	if !ok {
		return nil
	}
	return m.sortedMembers()
}

// Mentor returns the mentor session id of a room, or "" if it has none.
func (t *Tracker) Mentor(roomID int) string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if m, ok := t.rooms[roomID]; ok {
		return m.mentorID
	}
	return ""
}

// StudentCount returns the number of members in a room, not counting the mentor.
func (t *Tracker) StudentCount(roomID int) int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if m, ok := t.rooms[roomID]; ok {
		return m.studentCount()
	}
	return 0
}

// SessionCount returns the number of connected sessions.
func (t *Tracker) SessionCount() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.sessions)
}

// OccupiedRooms returns the number of rooms with at least one member.
func (t *Tracker) OccupiedRooms() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.rooms)
}
