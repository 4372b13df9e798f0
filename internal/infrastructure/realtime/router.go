package realtime

import (
	"sync"
)

// Router coordinates websocket sessions and logical rooms (chats). A user may
// hold several concurrent sessions; every session of a participant is
// subscribed to that chat's room so fan-out reaches all devices. The router is
// the subscription registry of the delivery path: participant changes must go
// through JoinUser/LeaveUser in the same operation that mutates the store
// (add before broadcasting, remove after), so a just-removed participant never
// receives a trailing event and a just-added one never misses the first.
type Router struct {
	mu           sync.RWMutex
	sessions     map[string]*Connection            // sessionID -> connection
	userSessions map[string]map[string]*Connection // userID -> sessionID -> connection
	rooms        map[string]map[string]*Connection // chatID -> sessionID -> connection
	sessionRooms map[string]map[string]struct{}    // sessionID -> set of chatIDs
}

// NewRouter constructs an initialized Router.
func NewRouter() *Router {
	return &Router{
		sessions:     make(map[string]*Connection),
		userSessions: make(map[string]map[string]*Connection),
		rooms:        make(map[string]map[string]*Connection),
		sessionRooms: make(map[string]map[string]struct{}),
	}
}

// Attach registers a connection for its user and reports whether this is the
// user's 0→1 connection transition, i.e. the user just came online.
func (r *Router) Attach(conn *Connection) (cameOnline bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.sessions[conn.ID] = conn
	r.sessionRooms[conn.ID] = make(map[string]struct{})

	byUser := r.userSessions[conn.UserID]
	if byUser == nil {
		byUser = make(map[string]*Connection)
		r.userSessions[conn.UserID] = byUser
	}
	byUser[conn.ID] = conn
	return len(byUser) == 1
}

// Detach removes a connection and reports whether the user's last connection
// just went away (the 1→0 transition).
func (r *Router) Detach(conn *Connection) (wentOffline bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.detachLocked(conn.ID)
}

// ConnectionCount returns the number of live sessions for the user.
func (r *Router) ConnectionCount(userID string) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.userSessions[userID])
}

// IsOnline reports whether the user has at least one live session.
func (r *Router) IsOnline(userID string) bool {
	return r.ConnectionCount(userID) > 0
}

// Join subscribes one session to a chat room.
func (r *Router) Join(chatID string, conn *Connection) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sessions[conn.ID]; !ok {
		return
	}
	r.joinLocked(chatID, conn)
}

// JoinUser subscribes every live session of the user to the chat room. Called
// when the user becomes a participant while already connected.
func (r *Router) JoinUser(chatID, userID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, conn := range r.userSessions[userID] {
		r.joinLocked(chatID, conn)
	}
}

// LeaveUser unsubscribes every session of the user from the chat room,
// suppressing any further delivery for that chat.
func (r *Router) LeaveUser(chatID, userID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for sessionID := range r.userSessions[userID] {
		r.leaveLocked(chatID, sessionID)
	}
}

// DropRoom removes the whole room after a chat is deleted.
func (r *Router) DropRoom(chatID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for sessionID := range r.rooms[chatID] {
		r.leaveLocked(chatID, sessionID)
	}
}

// Broadcast writes payload to every session in the chat room, skipping
// sessions owned by any user in exclude. Returns the number of sessions the
// payload was queued for.
func (r *Router) Broadcast(chatID string, payload []byte, exclude ...string) int {
	skip := make(map[string]struct{}, len(exclude))
	for _, id := range exclude {
		skip[id] = struct{}{}
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	delivered := 0
	for _, conn := range r.rooms[chatID] {
		if _, excluded := skip[conn.UserID]; excluded {
			continue
		}
		if err := conn.Send(payload); err == nil {
			delivered++
		}
	}
	return delivered
}

// BroadcastAll writes payload to every connected session except those owned by
// excludeUserID. Used for presence announcements, which are not room-scoped.
func (r *Router) BroadcastAll(payload []byte, excludeUserID string) int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	delivered := 0
	for _, conn := range r.sessions {
		if excludeUserID != "" && conn.UserID == excludeUserID {
			continue
		}
		if err := conn.Send(payload); err == nil {
			delivered++
		}
	}
	return delivered
}

// NotifyUser delivers payload to every live session of the given user.
func (r *Router) NotifyUser(userID string, payload []byte) bool {
	r.mu.RLock()
	conns := make([]*Connection, 0, len(r.userSessions[userID]))
	for _, conn := range r.userSessions[userID] {
		conns = append(conns, conn)
	}
	r.mu.RUnlock()

	ok := false
	for _, conn := range conns {
		if err := conn.Send(payload); err == nil {
			ok = true
		}
	}
	return ok
}

// Close terminates all tracked connections and clears router state.
func (r *Router) Close() {
	r.mu.Lock()
	conns := make([]*Connection, 0, len(r.sessions))
	for _, conn := range r.sessions {
		conns = append(conns, conn)
	}
	r.sessions = make(map[string]*Connection)
	r.userSessions = make(map[string]map[string]*Connection)
	r.rooms = make(map[string]map[string]*Connection)
	r.sessionRooms = make(map[string]map[string]struct{})
	r.mu.Unlock()

	for _, conn := range conns {
		conn.Close(1001, "router shutdown")
	}
}

func (r *Router) joinLocked(chatID string, conn *Connection) {
	room := r.rooms[chatID]
	if room == nil {
		room = make(map[string]*Connection)
		r.rooms[chatID] = room
	}
	room[conn.ID] = conn

	memberships := r.sessionRooms[conn.ID]
	if memberships == nil {
		memberships = make(map[string]struct{})
		r.sessionRooms[conn.ID] = memberships
	}
	memberships[chatID] = struct{}{}
}

func (r *Router) detachLocked(sessionID string) (wentOffline bool) {
	conn, ok := r.sessions[sessionID]
	if !ok {
		return false
	}
	delete(r.sessions, sessionID)

	for chatID := range r.sessionRooms[sessionID] {
		r.leaveLocked(chatID, sessionID)
	}
	delete(r.sessionRooms, sessionID)

	byUser := r.userSessions[conn.UserID]
	delete(byUser, sessionID)
	if len(byUser) == 0 {
		delete(r.userSessions, conn.UserID)
		return true
	}
	return false
}

func (r *Router) leaveLocked(chatID string, sessionID string) {
	room := r.rooms[chatID]
	if room == nil {
		return
	}
	delete(room, sessionID)
	if len(room) == 0 {
		delete(r.rooms, chatID)
	}
	if memberships, ok := r.sessionRooms[sessionID]; ok {
		delete(memberships, chatID)
	}
}
