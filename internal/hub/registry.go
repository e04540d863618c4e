package hub

import (
	"sync"

	"github.com/google/uuid"
)

// Role is a connection's resolved privilege level. Exactly one role per
// session; it only changes through Identify or Demote.
type Role int

const (
	RoleUnauthenticated Role = iota
	RoleVoter
	RoleAdmin
	RoleProjector
)

func (r Role) String() string {
	switch r {
	case RoleVoter:
		return "voter"
	case RoleAdmin:
		return "admin"
	case RoleProjector:
		return "projector"
	default:
		return "unauthenticated"
	}
}

// Session is the server-side record of one open connection's identity.
// VoterID is the client-supplied opaque identifier; Token is the credential
// the session presented at identify time, kept so admin actions can be
// re-validated.
type Session struct {
	ID      string
	VoterID string
	Role    Role
	Token   string
}

// Identified reports whether the session has completed identify.
func (s Session) Identified() bool {
	return s.Role != RoleUnauthenticated
}

// Registry tracks every open connection and its session. It is pure
// bookkeeping with its own lock, independent of the voting state so identify
// traffic never contends with vote traffic.
type Registry struct {
	mu       sync.RWMutex
	sessions map[*Client]*Session
}

// NewRegistry creates an empty Registry
func NewRegistry() *Registry {
	return &Registry{sessions: make(map[*Client]*Session)}
}

// Register admits a connection in the unauthenticated state.
func (r *Registry) Register(c *Client) Session {
	s := &Session{ID: uuid.NewString()}
	r.mu.Lock()
	r.sessions[c] = s
	r.mu.Unlock()
	return *s
}

// Deregister removes a connection; idempotent. Reports whether the
// connection was still registered.
func (r *Registry) Deregister(c *Client) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sessions[c]; !ok {
		return false
	}
	delete(r.sessions, c)
	return true
}

// Session returns a copy of the connection's session record. The zero
// Session is returned for connections that were never registered.
func (r *Registry) Session(c *Client) Session {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if s, ok := r.sessions[c]; ok {
		return *s
	}
	return Session{}
}

// Identify binds a voter identifier, role, and presented credential to the
// connection. Called exactly once per connection by the router.
func (r *Registry) Identify(c *Client, voterID string, role Role, token string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.sessions[c]; ok {
		s.VoterID = voterID
		s.Role = role
		s.Token = token
	}
}

// Demote drops a session back to plain voter and forgets its credential.
// Used when an admin action fails re-validation.
func (r *Registry) Demote(c *Client) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.sessions[c]; ok && s.Role == RoleAdmin {
		s.Role = RoleVoter
		s.Token = ""
	}
}

// Identified returns every connection that has completed identify.
func (r *Registry) Identified() []*Client {
	r.mu.RLock()
	defer r.mu.RUnlock()
	clients := make([]*Client, 0, len(r.sessions))
	for c, s := range r.sessions {
		if s.Identified() {
			clients = append(clients, c)
		}
	}
	return clients
}

// ByVoter returns every connection identified with the given voter id. The
// same human may have several tabs open; ballot-owner events go to all of
// them.
func (r *Registry) ByVoter(voterID string) []*Client {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var clients []*Client
	for c, s := range r.sessions {
		if s.Identified() && s.VoterID == voterID {
			clients = append(clients, c)
		}
	}
	return clients
}

// Count returns the number of registered connections.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
