package chathub

import "sync"

// RoomRegistry maps conversation IDs to the connections currently
// subscribed to them. Join and Leave are idempotent and touch no
// persistent state; broadcasts read a membership snapshot.
type RoomRegistry struct {
	mu     sync.RWMutex
	rooms  map[string]map[string]Client   // conversationID -> connID -> client
	joined map[string]map[string]struct{} // connID -> set of conversationIDs
}

func NewRoomRegistry() *RoomRegistry {
	return &RoomRegistry{
		rooms:  make(map[string]map[string]Client),
		joined: make(map[string]map[string]struct{}),
	}
}

// Join subscribes the connection to a conversation room.
func (r *RoomRegistry) Join(conversationID string, c Client) {
	r.mu.Lock()
	defer r.mu.Unlock()

	room, ok := r.rooms[conversationID]
	if !ok {
		room = make(map[string]Client)
		r.rooms[conversationID] = room
	}
	room[c.GetConnID()] = c

	set, ok := r.joined[c.GetConnID()]
	if !ok {
		set = make(map[string]struct{})
		r.joined[c.GetConnID()] = set
	}
	set[conversationID] = struct{}{}
}

// Leave unsubscribes the connection from a conversation room.
func (r *RoomRegistry) Leave(conversationID string, c Client) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.leaveLocked(conversationID, c.GetConnID())
}

// LeaveAll drops the connection from every room it joined. Called on
// disconnect.
func (r *RoomRegistry) LeaveAll(c Client) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for conversationID := range r.joined[c.GetConnID()] {
		r.leaveLocked(conversationID, c.GetConnID())
	}
}

func (r *RoomRegistry) leaveLocked(conversationID, connID string) {
	if room, ok := r.rooms[conversationID]; ok {
		delete(room, connID)
		if len(room) == 0 {
			delete(r.rooms, conversationID)
		}
	}
	if set, ok := r.joined[connID]; ok {
		delete(set, conversationID)
		if len(set) == 0 {
			delete(r.joined, connID)
		}
	}
}

// Members returns a snapshot of the room's connections at call time.
// Connections joining after the snapshot do not receive the broadcast
// being prepared from it.
func (r *RoomRegistry) Members(conversationID string) []Client {
	r.mu.RLock()
	defer r.mu.RUnlock()

	room := r.rooms[conversationID]
	out := make([]Client, 0, len(room))
	for _, c := range room {
		out = append(out, c)
	}
	return out
}

// InRoom reports whether the connection is currently subscribed.
func (r *RoomRegistry) InRoom(conversationID, connID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	room, ok := r.rooms[conversationID]
	if !ok {
		return false
	}
	_, ok = room[connID]
	return ok
}
