package hub

import (
	"context"
	"encoding/json"

	"github.com/kmarsden/maskvote/internal/models"
)

// command is the tagged-variant form of an inbound event. Each wire event
// decodes into exactly one concrete command type, and the hub's dispatch
// switch handles every variant, so adding an event is a compile-time change
// rather than a string match scattered across handlers.
type command interface {
	client() *Client
}

type identifyCmd struct {
	c       *Client
	voterID string
	token   string
	adminOK bool // credential already validated, off the hub goroutine
}

type getMyVoteCmd struct{ c *Client }

type getVoteCountsCmd struct{ c *Client }

type voteCmd struct {
	c            *Client
	contestantID string
}

type nextRoundCmd struct {
	c      *Client
	authOK bool
}

type toggleIntermissionCmd struct {
	c      *Client
	authOK bool
}

type toggleWaitingCmd struct {
	c      *Client
	authOK bool
}

type toggleTakeItOffCmd struct {
	c      *Client
	authOK bool
}

type clearAllCmd struct {
	c      *Client
	authOK bool
}

func (cmd identifyCmd) client() *Client           { return cmd.c }
func (cmd getMyVoteCmd) client() *Client          { return cmd.c }
func (cmd getVoteCountsCmd) client() *Client      { return cmd.c }
func (cmd voteCmd) client() *Client               { return cmd.c }
func (cmd nextRoundCmd) client() *Client          { return cmd.c }
func (cmd toggleIntermissionCmd) client() *Client { return cmd.c }
func (cmd toggleWaitingCmd) client() *Client      { return cmd.c }
func (cmd toggleTakeItOffCmd) client() *Client    { return cmd.c }
func (cmd clearAllCmd) client() *Client           { return cmd.c }

// inboundEnvelope defers payload decoding until the event name is known.
type inboundEnvelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// decodeInbound turns a raw frame into a typed command. It runs on the
// connection's read goroutine, so credential checks happen here, sequenced
// before the hub goroutine touches state and never inside it. Malformed
// frames and unknown event names return false and are dropped without
// closing the connection.
func (h *Hub) decodeInbound(c *Client, raw []byte) (command, bool) {
	var env inboundEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		h.log.Debug("Dropping malformed frame", "error", err)
		return nil, false
	}

	switch env.Event {
	case models.EventIdentify:
		var p models.IdentifyPayload
		if len(env.Data) > 0 {
			if err := json.Unmarshal(env.Data, &p); err != nil {
				h.log.Debug("Dropping malformed identify payload", "error", err)
				return nil, false
			}
		}
		if p.UUID == "" {
			h.log.Debug("Dropping identify without uuid")
			return nil, false
		}
		adminOK := false
		if p.Token != "" {
			adminOK = h.validateToken(p.Token)
		}
		return identifyCmd{c: c, voterID: p.UUID, token: p.Token, adminOK: adminOK}, true

	case models.EventGetMyVote:
		return getMyVoteCmd{c: c}, true

	case models.EventGetVoteCounts:
		return getVoteCountsCmd{c: c}, true

	case models.EventVote:
		var p models.VotePayload
		if err := json.Unmarshal(env.Data, &p); err != nil {
			h.log.Debug("Dropping malformed vote payload", "error", err)
			return nil, false
		}
		return voteCmd{c: c, contestantID: p.ContestantID}, true

	case models.EventNextRound:
		return nextRoundCmd{c: c, authOK: h.revalidateAdmin(c)}, true

	case models.EventToggleIntermission:
		return toggleIntermissionCmd{c: c, authOK: h.revalidateAdmin(c)}, true

	case models.EventToggleWaiting:
		return toggleWaitingCmd{c: c, authOK: h.revalidateAdmin(c)}, true

	case models.EventToggleTakeItOff:
		return toggleTakeItOffCmd{c: c, authOK: h.revalidateAdmin(c)}, true

	case models.EventClearAll:
		return clearAllCmd{c: c, authOK: h.revalidateAdmin(c)}, true

	default:
		h.log.Debug("Dropping unknown event", "event", env.Event)
		return nil, false
	}
}

// validateToken asks the authorizer with a bounded timeout. A slow or failed
// check is an invalid credential, never a stall or a crash.
func (h *Hub) validateToken(token string) bool {
	ctx, cancel := context.WithTimeout(context.Background(), h.authTimeout)
	defer cancel()
	return h.authorizer.ValidateToken(ctx, token)
}

// revalidateAdmin re-checks the session's credential for an admin action.
// Admin privilege is never trusted from the identify-time flag alone.
func (h *Hub) revalidateAdmin(c *Client) bool {
	sess := h.registry.Session(c)
	if sess.Role != RoleAdmin || sess.Token == "" {
		return false
	}
	return h.validateToken(sess.Token)
}
