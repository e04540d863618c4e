package state

import (
	"errors"
	"testing"

	"github.com/kmarsden/maskvote/internal/logger"
	"github.com/kmarsden/maskvote/internal/models"
)

func testRoster() []models.Contestant {
	return []models.Contestant{
		{ID: "a", Name: "Fox"},
		{ID: "b", Name: "Wolf"},
	}
}

func newTestState() *State {
	return New(logger.New(), testRoster())
}

func TestNew_StartsAtRoundZero(t *testing.T) {
	s := newTestState()

	snap := s.Snapshot()
	if snap.CurrentRound != 0 {
		t.Errorf("expected round 0, got %d", snap.CurrentRound)
	}
	if len(snap.VoteCounts) != 0 {
		t.Errorf("expected empty tally, got %v", snap.VoteCounts)
	}
	if snap.Intermission || snap.WaitingForNextRound || snap.TakeItOff {
		t.Error("expected all display flags false at start")
	}
	if len(snap.Contestants) != 2 {
		t.Errorf("expected 2 contestants, got %d", len(snap.Contestants))
	}
}

func TestCastVote_CountsBallot(t *testing.T) {
	s := newTestState()

	counts, err := s.CastVote("v1", "a")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if counts["a"] != 1 {
		t.Errorf("expected a=1, got %v", counts)
	}
}

func TestCastVote_UnknownContestant(t *testing.T) {
	s := newTestState()

	_, err := s.CastVote("v1", "nope")
	if !errors.Is(err, ErrUnknownContestant) {
		t.Errorf("expected ErrUnknownContestant, got %v", err)
	}

	// Failed vote must leave state untouched
	if counts := s.VoteCounts(); len(counts) != 0 {
		t.Errorf("expected empty tally after rejected vote, got %v", counts)
	}
	if _, ok := s.MyVote("v1"); ok {
		t.Error("expected no ballot on file after rejected vote")
	}
}

func TestCastVote_OverwriteReplacesOldBallot(t *testing.T) {
	s := newTestState()

	s.CastVote("v1", "a")
	counts, err := s.CastVote("v1", "b")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Only the most recent vote counts; the drained contestant reports 0
	if counts["a"] != 0 || counts["b"] != 1 {
		t.Errorf("expected a=0 b=1, got %v", counts)
	}

	vote, ok := s.MyVote("v1")
	if !ok || vote != "b" {
		t.Errorf("expected ballot b on file, got %q (ok=%v)", vote, ok)
	}
}

func TestCastVote_IdempotentRetransmission(t *testing.T) {
	s := newTestState()

	s.CastVote("v1", "a")
	counts, err := s.CastVote("v1", "a")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if counts["a"] != 1 {
		t.Errorf("expected a=1 after retransmission, got %v", counts)
	}
}

func TestVoteCounts_SumEqualsDistinctVoters(t *testing.T) {
	s := newTestState()

	voters := []string{"v1", "v2", "v3", "v4", "v5"}
	s.CastVote("v1", "a")
	s.CastVote("v2", "a")
	s.CastVote("v3", "b")
	s.CastVote("v4", "b")
	s.CastVote("v5", "a")
	s.CastVote("v2", "b") // revote, must not inflate the sum

	total := 0
	for _, n := range s.VoteCounts() {
		total += n
	}
	if total != len(voters) {
		t.Errorf("expected tally sum %d (one per distinct voter), got %d", len(voters), total)
	}
}

func TestAdvanceRound_IncrementsAndClears(t *testing.T) {
	s := newTestState()
	s.CastVote("v1", "a")
	s.ToggleIntermission()
	s.ToggleWaiting()
	s.ToggleTakeItOff()

	round := s.AdvanceRound()

	if round != 1 {
		t.Errorf("expected round 1, got %d", round)
	}
	if counts := s.VoteCounts(); len(counts) != 0 {
		t.Errorf("expected empty tally for new round, got %v", counts)
	}
	if _, ok := s.MyVote("v1"); ok {
		t.Error("expected ballot discarded on round advance")
	}

	display := s.Display()
	if display.Intermission || display.WaitingForNextRound || display.TakeItOff {
		t.Errorf("expected all display flags force-cleared, got %+v", display)
	}
}

func TestAdvanceRound_StrictlyIncrements(t *testing.T) {
	s := newTestState()

	for want := 1; want <= 5; want++ {
		if got := s.AdvanceRound(); got != want {
			t.Fatalf("expected round %d, got %d", want, got)
		}
	}
}

func TestToggles_IndependentOfEachOther(t *testing.T) {
	s := newTestState()

	if !s.ToggleIntermission() {
		t.Error("expected intermission true after first toggle")
	}
	if !s.ToggleWaiting() {
		t.Error("expected waiting true after first toggle")
	}

	display := s.Display()
	if !display.Intermission || !display.WaitingForNextRound || display.TakeItOff {
		t.Errorf("expected intermission and waiting set, takeItOff unset, got %+v", display)
	}

	if s.ToggleIntermission() {
		t.Error("expected intermission false after second toggle")
	}
	display = s.Display()
	if !display.WaitingForNextRound {
		t.Error("toggling intermission must not touch waiting")
	}
}

func TestResetAll_RestoresInitialState(t *testing.T) {
	s := newTestState()
	s.CastVote("v1", "a")
	s.AdvanceRound()
	s.CastVote("v2", "b")
	s.AdvanceRound()
	s.ToggleIntermission()
	s.ToggleTakeItOff()

	snap := s.ResetAll()

	if snap.CurrentRound != 0 {
		t.Errorf("expected round 0 after reset, got %d", snap.CurrentRound)
	}
	if len(snap.VoteCounts) != 0 {
		t.Errorf("expected empty tally after reset, got %v", snap.VoteCounts)
	}
	if snap.Intermission || snap.WaitingForNextRound || snap.TakeItOff {
		t.Error("expected all display flags false after reset")
	}
	if s.Round() != 0 {
		t.Errorf("expected live round 0 after reset, got %d", s.Round())
	}
}

func TestMyVote_NoBallot(t *testing.T) {
	s := newTestState()

	if _, ok := s.MyVote("nobody"); ok {
		t.Error("expected no ballot for unknown voter")
	}
}

func TestSnapshot_TallyMatchesBallots(t *testing.T) {
	s := newTestState()
	s.CastVote("v1", "a")
	s.CastVote("v2", "b")
	s.CastVote("v3", "b")

	snap := s.Snapshot()
	if snap.VoteCounts["a"] != 1 || snap.VoteCounts["b"] != 2 {
		t.Errorf("expected a=1 b=2, got %v", snap.VoteCounts)
	}
}
