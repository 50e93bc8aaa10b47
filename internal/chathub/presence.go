package chathub

import "sync"

// PresenceRegistry maps user IDs to their live connections. Presence is
// derived: a user is online while at least one connection is registered.
// The registry holds back-references only; connection lifecycle is owned
// by the gateway.
type PresenceRegistry struct {
	mu     sync.RWMutex
	byUser map[string]map[string]Client // userID -> connID -> client
}

func NewPresenceRegistry() *PresenceRegistry {
	return &PresenceRegistry{byUser: make(map[string]map[string]Client)}
}

// Add registers a connection and reports whether it is the user's first
// live connection (the online transition).
func (p *PresenceRegistry) Add(c Client) (first bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	conns, ok := p.byUser[c.GetUserID()]
	if !ok {
		conns = make(map[string]Client)
		p.byUser[c.GetUserID()] = conns
	}
	first = len(conns) == 0
	conns[c.GetConnID()] = c
	return first
}

// Remove unregisters a connection and reports whether it was the user's
// last one (the offline transition). Idempotent.
func (p *PresenceRegistry) Remove(c Client) (last bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	conns, ok := p.byUser[c.GetUserID()]
	if !ok {
		return false
	}
	if _, ok := conns[c.GetConnID()]; !ok {
		return false
	}
	delete(conns, c.GetConnID())
	if len(conns) == 0 {
		delete(p.byUser, c.GetUserID())
		return true
	}
	return false
}

// ClientsOf returns a snapshot of the user's live connections.
func (p *PresenceRegistry) ClientsOf(userID string) []Client {
	p.mu.RLock()
	defer p.mu.RUnlock()

	conns := p.byUser[userID]
	out := make([]Client, 0, len(conns))
	for _, c := range conns {
		out = append(out, c)
	}
	return out
}

// All returns a snapshot of every live connection.
func (p *PresenceRegistry) All() []Client {
	p.mu.RLock()
	defer p.mu.RUnlock()

	var out []Client
	for _, conns := range p.byUser {
		for _, c := range conns {
			out = append(out, c)
		}
	}
	return out
}

// IsOnline reports whether the user has at least one live connection.
func (p *PresenceRegistry) IsOnline(userID string) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.byUser[userID]) > 0
}
