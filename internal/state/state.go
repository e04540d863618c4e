// Package state holds the single authoritative record of the voting event:
// the current round, every ballot cast in it, and the display flags the admin
// drives. All access goes through methods on State; the struct is never
// exposed by reference to handlers.
package state

import (
	"errors"
	"sync"

	"github.com/kmarsden/maskvote/internal/logger"
	"github.com/kmarsden/maskvote/internal/models"
)

// ErrUnknownContestant is returned by CastVote when the contestant is not on
// the roster.
var ErrUnknownContestant = errors.New("unknown contestant")

// State is the mutex-guarded voting state. Ballots are scoped to the current
// round only; advancing the round discards them. The tally is always derived
// from the ballot map, never stored as an independent counter.
type State struct {
	log    logger.Logger
	roster []models.Contestant

	mu           sync.Mutex
	onRoster     map[string]bool
	round        int
	ballots      map[string]string // voter id -> contestant id
	touched      map[string]bool   // contestants voted on this round, kept so a drained contestant reports 0
	intermission bool
	waiting      bool
	takeItOff    bool
}

// New creates a State for the given roster. The roster is treated as
// immutable after this call.
func New(log logger.Logger, roster []models.Contestant) *State {
	onRoster := make(map[string]bool, len(roster))
	for _, c := range roster {
		onRoster[c.ID] = true
	}
	return &State{
		log:      log,
		roster:   roster,
		onRoster: onRoster,
		ballots:  make(map[string]string),
		touched:  make(map[string]bool),
	}
}

// Snapshot returns the full current view: roster, round, display flags, and
// tally. Used to build welcome and reset_all payloads.
func (s *State) Snapshot() models.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return models.Snapshot{
		Contestants:         s.roster,
		CurrentRound:        s.round,
		Intermission:        s.intermission,
		WaitingForNextRound: s.waiting,
		TakeItOff:           s.takeItOff,
		VoteCounts:          s.voteCountsLocked(),
	}
}

// Round returns the current round number.
func (s *State) Round() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.round
}

// Display returns the current display flags.
func (s *State) Display() models.DisplayPayload {
	s.mu.Lock()
	defer s.mu.Unlock()
	return models.DisplayPayload{
		Intermission:        s.intermission,
		WaitingForNextRound: s.waiting,
		TakeItOff:           s.takeItOff,
	}
}

// CastVote records or overwrites the ballot for voterID in the current round
// and returns the updated tally. A voter has at most one ballot per round;
// re-voting replaces it. Retransmitting the same vote is a no-op beyond the
// returned tally.
func (s *State) CastVote(voterID, contestantID string) (map[string]int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.onRoster[contestantID] {
		return nil, ErrUnknownContestant
	}

	s.ballots[voterID] = contestantID
	s.touched[contestantID] = true

	s.log.Debug("Ballot recorded", "voter", voterID, "contestant", contestantID, "round", s.round)
	return s.voteCountsLocked(), nil
}

// MyVote returns the contestant id on file for voterID in the current round,
// or false when no ballot exists.
func (s *State) MyVote(voterID string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.ballots[voterID]
	return id, ok
}

// VoteCounts returns the current tally: one entry per contestant that has
// received a ballot this round, including zero for contestants whose last
// ballot moved elsewhere.
func (s *State) VoteCounts() map[string]int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.voteCountsLocked()
}

// voteCountsLocked derives the tally from the ballot map. Callers must hold mu.
func (s *State) voteCountsLocked() map[string]int {
	counts := make(map[string]int, len(s.touched))
	for id := range s.touched {
		counts[id] = 0
	}
	for _, contestantID := range s.ballots {
		counts[contestantID]++
	}
	return counts
}

// AdvanceRound increments the round, discards all ballots, and force-clears
// every display flag. Returns the new round number.
func (s *State) AdvanceRound() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.round++
	s.ballots = make(map[string]string)
	s.touched = make(map[string]bool)
	s.intermission = false
	s.waiting = false
	s.takeItOff = false

	s.log.Info("Round advanced", "round", s.round)
	return s.round
}

// ToggleIntermission flips the intermission flag and returns the new value.
func (s *State) ToggleIntermission() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.intermission = !s.intermission
	return s.intermission
}

// ToggleWaiting flips the waiting-for-next-round flag and returns the new value.
func (s *State) ToggleWaiting() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.waiting = !s.waiting
	return s.waiting
}

// ToggleTakeItOff flips the reveal overlay flag and returns the new value.
func (s *State) ToggleTakeItOff() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.takeItOff = !s.takeItOff
	return s.takeItOff
}

// ResetAll returns the event to its initial state: round 0, no ballots, all
// display flags off. Destructive; callers are expected to have confirmed with
// a human first. Returns the fresh snapshot.
func (s *State) ResetAll() models.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.round = 0
	s.ballots = make(map[string]string)
	s.touched = make(map[string]bool)
	s.intermission = false
	s.waiting = false
	s.takeItOff = false

	s.log.Info("Full reset")
	return models.Snapshot{
		Contestants:         s.roster,
		CurrentRound:        s.round,
		Intermission:        s.intermission,
		WaitingForNextRound: s.waiting,
		TakeItOff:           s.takeItOff,
		VoteCounts:          s.voteCountsLocked(),
	}
}
