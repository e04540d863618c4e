// Package hub is the connection and event hub for the voting event. It owns
// the session registry, routes typed inbound events, mutates the voting
// state, and fans the resulting updates out to every interested connection.
package hub

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/kmarsden/maskvote/internal/logger"
	"github.com/kmarsden/maskvote/internal/models"
	"github.com/kmarsden/maskvote/internal/state"
)

// unauthorizedMessage is part of the client contract: the admin page matches
// on this exact string to detect an expired credential. Do not change it.
const unauthorizedMessage = "Unauthorized"

// DefaultProjectorID is the reserved voter identifier the display client
// identifies with.
const DefaultProjectorID = "projector-uuid-12345"

const defaultAuthTimeout = 2 * time.Second

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Voters join from arbitrary LAN origins
	},
}

// Authorizer decides whether a presented credential currently grants admin
// privilege. The hub treats credentials as opaque strings.
type Authorizer interface {
	ValidateToken(ctx context.Context, token string) bool
}

// Hub maintains the set of active clients, routes their events through the
// voting state, and broadcasts updates. All state mutations and all sends
// happen on the hub's own goroutine, so every client observes a single
// global mutation order.
type Hub struct {
	log         logger.Logger
	state       *state.State
	registry    *Registry
	authorizer  Authorizer
	projectorID string
	authTimeout time.Duration

	register   chan *Client
	unregister chan *Client
	inbound    chan command
}

// New creates a new Hub instance with injected dependencies
func New(log logger.Logger, st *state.State, authorizer Authorizer, projectorID string) *Hub {
	if projectorID == "" {
		projectorID = DefaultProjectorID
	}
	return &Hub{
		log:         log,
		state:       st,
		registry:    NewRegistry(),
		authorizer:  authorizer,
		projectorID: projectorID,
		authTimeout: defaultAuthTimeout,
		register:    make(chan *Client),
		unregister:  make(chan *Client),
		inbound:     make(chan command),
	}
}

// Registry exposes the session registry for handlers and tests.
func (h *Hub) Registry() *Registry {
	return h.registry
}

// Start begins the hub's main loop in a goroutine
func (h *Hub) Start() {
	go h.run()
}

// run handles client registration/unregistration and event dispatch
func (h *Hub) run() {
	for {
		select {
		case client := <-h.register:
			sess := h.registry.Register(client)
			h.log.Debug("Client connected", "session", sess.ID, "total_clients", h.registry.Count())

		case client := <-h.unregister:
			if h.registry.Deregister(client) {
				close(client.send)
			}
			h.log.Debug("Client disconnected", "total_clients", h.registry.Count())

		case cmd := <-h.inbound:
			h.dispatch(cmd)
		}
	}
}

// dispatch handles one typed command. Events other than identify are only
// accepted from identified sessions; everything else is a protocol error and
// is dropped silently.
func (h *Hub) dispatch(cmd command) {
	sess := h.registry.Session(cmd.client())
	if sess.ID == "" {
		// Connection already deregistered; its send channel is closed.
		return
	}

	if _, ok := cmd.(identifyCmd); !ok && !sess.Identified() {
		h.log.Debug("Dropping event from unidentified session", "session", sess.ID)
		return
	}

	switch cmd := cmd.(type) {
	case identifyCmd:
		h.handleIdentify(cmd, sess)
	case getMyVoteCmd:
		h.handleGetMyVote(cmd, sess)
	case getVoteCountsCmd:
		h.handleGetVoteCounts(cmd)
	case voteCmd:
		h.handleVote(cmd, sess)
	case nextRoundCmd:
		h.handleNextRound(cmd, sess)
	case toggleIntermissionCmd:
		h.handleToggleIntermission(cmd, sess)
	case toggleWaitingCmd:
		h.handleToggleWaiting(cmd, sess)
	case toggleTakeItOffCmd:
		h.handleToggleTakeItOff(cmd, sess)
	case clearAllCmd:
		h.handleClearAll(cmd, sess)
	}
}

func (h *Hub) handleIdentify(cmd identifyCmd, sess Session) {
	if sess.Identified() {
		// Re-identification is not supported for the life of a connection.
		h.log.Debug("Dropping repeated identify", "session", sess.ID)
		return
	}

	role := RoleVoter
	switch {
	case cmd.voterID == h.projectorID:
		role = RoleProjector
	case cmd.adminOK:
		role = RoleAdmin
	}

	token := ""
	if role == RoleAdmin {
		token = cmd.token
	}
	h.registry.Identify(cmd.c, cmd.voterID, role, token)
	h.log.Info("Client identified", "session", sess.ID, "role", role.String())

	h.unicast(cmd.c, models.EventWelcome, models.WelcomePayload{
		Snapshot: h.state.Snapshot(),
		IsAdmin:  role == RoleAdmin,
	})
}

func (h *Hub) handleGetMyVote(cmd getMyVoteCmd, sess Session) {
	if sess.Role != RoleVoter && sess.Role != RoleAdmin {
		return
	}
	h.unicast(cmd.c, models.EventMyVote, myVotePayload(h.state.MyVote(sess.VoterID)))
}

func (h *Hub) handleGetVoteCounts(cmd getVoteCountsCmd) {
	h.unicast(cmd.c, models.EventVoteUpdate, models.VoteCountsPayload{
		VoteCounts: h.state.VoteCounts(),
	})
}

func (h *Hub) handleVote(cmd voteCmd, sess Session) {
	if sess.Role != RoleVoter {
		h.log.Debug("Dropping vote from non-voter session", "session", sess.ID, "role", sess.Role.String())
		return
	}

	counts, err := h.state.CastVote(sess.VoterID, cmd.contestantID)
	if err != nil {
		if errors.Is(err, state.ErrUnknownContestant) {
			h.unicast(cmd.c, models.EventVoteError, models.ErrorPayload{Message: "Unknown contestant"})
			return
		}
		h.log.Error("Vote failed", "error", err)
		h.unicast(cmd.c, models.EventVoteError, models.ErrorPayload{Message: "Vote failed"})
		return
	}

	// vote_success goes to every tab this voter has open so they stay in sync
	success := models.MyVotePayload{ContestantID: &cmd.contestantID}
	for _, sibling := range h.registry.ByVoter(sess.VoterID) {
		h.trySend(sibling, models.Envelope{Event: models.EventVoteSuccess, Data: success})
	}

	h.broadcast(models.EventVoteUpdate, models.VoteCountsPayload{VoteCounts: counts})
}

func (h *Hub) handleNextRound(cmd nextRoundCmd, sess Session) {
	if !h.requireAdmin(cmd.c, sess, cmd.authOK) {
		return
	}

	round := h.state.AdvanceRound()
	h.broadcast(models.EventRoundUpdate, models.RoundPayload{CurrentRound: round})
	h.broadcast(models.EventStateUpdate, h.state.Display())
	h.broadcast(models.EventVoteUpdate, models.VoteCountsPayload{VoteCounts: h.state.VoteCounts()})
}

func (h *Hub) handleToggleIntermission(cmd toggleIntermissionCmd, sess Session) {
	if !h.requireAdmin(cmd.c, sess, cmd.authOK) {
		return
	}
	h.state.ToggleIntermission()
	h.broadcast(models.EventStateUpdate, h.state.Display())
}

func (h *Hub) handleToggleWaiting(cmd toggleWaitingCmd, sess Session) {
	if !h.requireAdmin(cmd.c, sess, cmd.authOK) {
		return
	}
	h.state.ToggleWaiting()
	h.broadcast(models.EventStateUpdate, h.state.Display())
}

func (h *Hub) handleToggleTakeItOff(cmd toggleTakeItOffCmd, sess Session) {
	if !h.requireAdmin(cmd.c, sess, cmd.authOK) {
		return
	}
	h.state.ToggleTakeItOff()
	h.broadcast(models.EventStateUpdate, h.state.Display())
}

func (h *Hub) handleClearAll(cmd clearAllCmd, sess Session) {
	if !h.requireAdmin(cmd.c, sess, cmd.authOK) {
		return
	}
	snapshot := h.state.ResetAll()
	h.broadcast(models.EventResetAll, snapshot)
}

// requireAdmin gates an admin-only command. The session's role and its
// re-validated credential must both hold; otherwise the session is demoted
// and told "Unauthorized", but the connection stays open so the client can
// fall back to its login prompt.
func (h *Hub) requireAdmin(c *Client, sess Session, authOK bool) bool {
	if sess.Role == RoleAdmin && authOK {
		return true
	}
	if sess.Role == RoleAdmin {
		h.registry.Demote(c)
		h.log.Info("Admin session demoted", "session", sess.ID)
	}
	h.unicast(c, models.EventError, models.ErrorPayload{Message: unauthorizedMessage})
	return false
}

// broadcast sends an event to every identified connection.
func (h *Hub) broadcast(event string, data any) {
	env := models.Envelope{Event: event, Data: data}
	for _, c := range h.registry.Identified() {
		h.trySend(c, env)
	}
}

// unicast sends an event to a single connection.
func (h *Hub) unicast(c *Client, event string, data any) {
	h.trySend(c, models.Envelope{Event: event, Data: data})
}

// trySend queues a message without blocking the hub loop. A client whose
// send buffer is full is considered dead and unregistered.
func (h *Hub) trySend(c *Client, env models.Envelope) {
	select {
	case c.send <- env:
	default:
		go func() {
			h.unregister <- c
		}()
	}
}

func myVotePayload(contestantID string, ok bool) models.MyVotePayload {
	if !ok {
		return models.MyVotePayload{}
	}
	return models.MyVotePayload{ContestantID: &contestantID}
}

// ServeWs handles websocket requests from clients
func (h *Hub) ServeWs(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Error("WebSocket upgrade error", "error", err)
		return
	}

	client := &Client{
		hub:  h,
		conn: conn,
		send: make(chan models.Envelope, 256),
	}
	h.register <- client

	go client.writePump()
	go client.readPump()
}
