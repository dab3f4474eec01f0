package dashboard

import (
	"context"
	"errors"
	"sort"
)

// ErrUnknownProvider is returned for provider names without a session.
var ErrUnknownProvider = errors.New("unknown provider")

// Hub holds one session per provider slice.
type Hub struct {
	sessions map[string]*Session
	order    []string
}

// NewHub indexes sessions by provider name.
func NewHub(sessions ...*Session) *Hub {
	h := &Hub{sessions: make(map[string]*Session, len(sessions))}
	for _, s := range sessions {
		name := s.Provider()
		if _, dup := h.sessions[name]; !dup {
			h.order = append(h.order, name)
		}
		h.sessions[name] = s
	}
	sort.Strings(h.order)
	return h
}

// Session returns the session for provider.
func (h *Hub) Session(provider string) (*Session, error) {
	s, ok := h.sessions[provider]
	if !ok {
		return nil, ErrUnknownProvider
	}
	return s, nil
}

// Providers lists provider names in stable order.
func (h *Hub) Providers() []string {
	out := make([]string, len(h.order))
	copy(out, h.order)
	return out
}

// Sessions returns all sessions in provider order.
func (h *Hub) Sessions() []*Session {
	out := make([]*Session, 0, len(h.order))
	for _, name := range h.order {
		out = append(out, h.sessions[name])
	}
	return out
}

// StartAll runs the initial transition of every session.
func (h *Hub) StartAll(ctx context.Context) []*Ticket {
	var tickets []*Ticket
	for _, s := range h.Sessions() {
		if t := s.Start(ctx); t != nil {
			tickets = append(tickets, t)
		}
	}
	return tickets
}
