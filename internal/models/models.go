package models

// Contestant is one entry on the voting roster. The roster is loaded once at
// startup and is read-only afterwards.
type Contestant struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Envelope is the wire format for every WebSocket message in both directions.
type Envelope struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

// Inbound event names (client -> server)
const (
	EventIdentify           = "identify"
	EventGetMyVote          = "get_my_vote"
	EventGetVoteCounts      = "get_vote_counts"
	EventVote               = "vote"
	EventNextRound          = "next_round"
	EventToggleIntermission = "toggle_intermission"
	EventToggleWaiting      = "toggle_waiting"
	EventToggleTakeItOff    = "toggle_take_it_off"
	EventClearAll           = "clear_all"
)

// Outbound event names (server -> client)
const (
	EventWelcome     = "welcome"
	EventRoundUpdate = "round_update"
	EventVoteUpdate  = "vote_update"
	EventVoteSuccess = "vote_success"
	EventMyVote      = "my_vote"
	EventStateUpdate = "state_update"
	EventResetAll    = "reset_all"
	EventError       = "error"
	EventVoteError   = "vote_error"
)

// Snapshot is the full authoritative view of the voting state, sent in
// welcome and reset_all payloads.
type Snapshot struct {
	Contestants         []Contestant   `json:"contestants"`
	CurrentRound        int            `json:"currentRound"`
	Intermission        bool           `json:"intermission"`
	WaitingForNextRound bool           `json:"waitingForNextRound"`
	TakeItOff           bool           `json:"takeItOff"`
	VoteCounts          map[string]int `json:"voteCounts"`
}

// IdentifyPayload is the client's identify request. Token is only present for
// admin sessions.
type IdentifyPayload struct {
	UUID  string `json:"uuid"`
	Token string `json:"token,omitempty"`
}

// VotePayload is the client's vote request.
type VotePayload struct {
	ContestantID string `json:"contestantId"`
}

// WelcomePayload is sent once to a connection after a successful identify.
type WelcomePayload struct {
	Snapshot
	IsAdmin bool `json:"isAdmin"`
}

// RoundPayload carries the round number for round_update.
type RoundPayload struct {
	CurrentRound int `json:"currentRound"`
}

// VoteCountsPayload carries the current tally for vote_update.
type VoteCountsPayload struct {
	VoteCounts map[string]int `json:"voteCounts"`
}

// MyVotePayload carries a voter's own ballot for my_vote and vote_success.
// ContestantID is null when no ballot is on file for the current round.
type MyVotePayload struct {
	ContestantID *string `json:"contestantId"`
}

// DisplayPayload carries the display flags for state_update.
type DisplayPayload struct {
	Intermission        bool `json:"intermission"`
	WaitingForNextRound bool `json:"waitingForNextRound"`
	TakeItOff           bool `json:"takeItOff"`
}

// ErrorPayload carries a human-readable message for error and vote_error.
// Clients pattern-match on the literal message text, notably "Unauthorized".
type ErrorPayload struct {
	Message string `json:"message"`
}
