package relay

import (
	"sync"
)

// PresenceRegistry tracks which room each live connection is subscribed
// to. A connection is in at most one room at a time; joining a new room
// implicitly leaves the previous one. The registry is the only shared
// mutable state in the relay and is safe for concurrent use.
type PresenceRegistry struct {
	mu    sync.RWMutex
	conns map[*Client]string
	rooms map[string]map[*Client]struct{}
}

func NewPresenceRegistry() *PresenceRegistry {
	return &PresenceRegistry{
		conns: make(map[*Client]string),
		rooms: make(map[string]map[*Client]struct{}),
	}
}

// Join subscribes c to room, leaving its current room first if it has
// one. Any room key is accepted as-is.
func (p *PresenceRegistry) Join(c *Client, room string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.removeLocked(c)

	if p.rooms[room] == nil {
		p.rooms[room] = make(map[*Client]struct{})
	}
	p.rooms[room][c] = struct{}{}
	p.conns[c] = room
}

// Leave unsubscribes c from its current room. No-op if c is unjoined.
func (p *PresenceRegistry) Leave(c *Client) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.removeLocked(c)
}

func (p *PresenceRegistry) removeLocked(c *Client) {
	room, ok := p.conns[c]
	if !ok {
		return
	}

	delete(p.conns, c)
	if members, ok := p.rooms[room]; ok {
		delete(members, c)
		if len(members) == 0 {
			delete(p.rooms, room)
		}
	}
}

// Room returns the room c is currently subscribed to.
func (p *PresenceRegistry) Room(c *Client) (string, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	room, ok := p.conns[c]
	return room, ok
}

// RoomMembers returns a snapshot of the connections subscribed to room.
func (p *PresenceRegistry) RoomMembers(room string) []*Client {
	p.mu.RLock()
	defer p.mu.RUnlock()

	members := make([]*Client, 0, len(p.rooms[room]))
	for c := range p.rooms[room] {
		members = append(members, c)
	}

	return members
}
