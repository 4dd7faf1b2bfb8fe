package ws

import (
	"sync"

	"github.com/mobmart/storefront/internal/mob"
)

// Hub — комнаты рассылки по id сессии. Одно соединение может состоять
// в нескольких комнатах сразу.
type Hub struct {
	mu    sync.RWMutex
	rooms map[string]map[mob.Conn]struct{} // sessionID -> set of connections
}

func NewHub() *Hub {
	return &Hub{rooms: make(map[string]map[mob.Conn]struct{})}
}

func (h *Hub) Join(sessionID string, c mob.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	rs, ok := h.rooms[sessionID]
	if !ok {
		rs = make(map[mob.Conn]struct{})
		h.rooms[sessionID] = rs
	}
	rs[c] = struct{}{}
}

func (h *Hub) Leave(sessionID string, c mob.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if rs, ok := h.rooms[sessionID]; ok {
		delete(rs, c)
		if len(rs) == 0 {
			delete(h.rooms, sessionID)
		}
	}
}

func (h *Hub) Broadcast(sessionID, event string, payload any) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if rs, ok := h.rooms[sessionID]; ok {
		for c := range rs {
			_ = c.Send(event, payload) // best-effort
		}
	}
}
