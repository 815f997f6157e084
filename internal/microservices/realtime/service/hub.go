package service

import (
	"context"
	"encoding/json"
	"sync"

	"cafesync/internal/common/logger"
	"cafesync/internal/domain"
)

// Forwarder carries locally originated events to other instances. Relay is
// for frames that came from a socket client rather than from the server.
type Forwarder interface {
	Publish(ctx context.Context, ev domain.Event)
	Relay(ctx context.Context, ev domain.Event)
}

// Hub routes station events to connected sockets. Delivery is fire and
// forget: a client whose send queue is full is disconnected.
type Hub struct {
	mu      sync.RWMutex
	clients map[*Client]struct{}
	rooms   map[string]map[*Client]struct{}

	forward Forwarder
	lg      *logger.Logger
}

func NewHub() *Hub {
	return &Hub{
		clients: make(map[*Client]struct{}),
		rooms:   make(map[string]map[*Client]struct{}),
		lg:      logger.New("realtime"),
	}
}

// SetForwarder must be called before the hub serves traffic.
func (h *Hub) SetForwarder(f Forwarder) { h.forward = f }

func (h *Hub) register(c *Client) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	n := len(h.clients)
	h.mu.Unlock()
	h.lg.Info("client_connected", map[string]any{"client": c.id, "employee": c.employee, "clients": n})
}

// unregister removes c from every room and closes its send queue. Safe to
// call more than once.
func (h *Hub) unregister(c *Client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; !ok {
		h.mu.Unlock()
		return
	}
	delete(h.clients, c)
	for room, members := range h.rooms {
		delete(members, c)
		if len(members) == 0 {
			delete(h.rooms, room)
		}
	}
	close(c.send)
	h.mu.Unlock()
	h.lg.Info("client_disconnected", map[string]any{"client": c.id})
}

func (h *Hub) join(c *Client, room string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; !ok {
		return
	}
	members, ok := h.rooms[room]
	if !ok {
		members = make(map[*Client]struct{})
		h.rooms[room] = members
	}
	members[c] = struct{}{}
}

func (h *Hub) leave(c *Client, room string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if members, ok := h.rooms[room]; ok {
		delete(members, c)
		if len(members) == 0 {
			delete(h.rooms, room)
		}
	}
}

// Clients reports the number of open connections.
func (h *Hub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Publish delivers a server-originated event to every target and forwards
// it to other instances.
func (h *Hub) Publish(ctx context.Context, ev domain.Event) {
	h.deliver(ev, nil)
	if h.forward != nil {
		h.forward.Publish(ctx, ev)
	}
}

// DeliverRemote delivers an event received from another instance.
func (h *Hub) DeliverRemote(ev domain.Event) { h.deliver(ev, nil) }

// receive handles a validated client frame; the sender is skipped.
func (h *Hub) receive(ctx context.Context, c *Client, ev domain.Event) {
	switch ev.Type {
	case domain.EventJoinStation:
		h.join(c, ev.Station)
		return
	case domain.EventLeaveStation:
		h.leave(c, ev.Station)
		return
	}
	h.deliver(ev, c)
	if h.forward != nil {
		h.forward.Relay(ctx, ev)
	}
}

func (h *Hub) deliver(ev domain.Event, except *Client) {
	frame, err := json.Marshal(ev)
	if err != nil {
		h.lg.Error("event_encode_failed", err, map[string]any{"type": ev.Type})
		return
	}

	var slow []*Client
	h.mu.RLock()
	for c := range h.targets(ev) {
		if c == except {
			continue
		}
		select {
		case c.send <- frame:
		default:
			slow = append(slow, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range slow {
		h.lg.Warn("client_dropped", map[string]any{"client": c.id, "reason": "send queue full"})
		c.close()
	}
}

// targets must be called with h.mu held.
func (h *Hub) targets(ev domain.Event) map[*Client]struct{} {
	rooms := ev.Rooms()
	if rooms == nil {
		return h.clients
	}
	if len(rooms) == 1 {
		return h.rooms[rooms[0]]
	}
	out := make(map[*Client]struct{})
	for _, room := range rooms {
		for c := range h.rooms[room] {
			out[c] = struct{}{}
		}
	}
	return out
}

// sendTo queues frame for c alone, dropping it if c is gone or full.
func (h *Hub) sendTo(c *Client, frame []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if _, ok := h.clients[c]; !ok {
		return
	}
	select {
	case c.send <- frame:
	default:
	}
}
