package main

import (
	"errors"
	"testing"
)

// sessionAtCategories returns a session with teams Eagles/Chiefs, players
// Alice (Eagles) and Bob (Chiefs), catalog loaded, on CategorySelect.
func sessionAtCategories(t *testing.T) *Session {
	t.Helper()

	s := newSession()

	steps := []struct {
		name string
		fn   func() error
	}{
		{"reveal", s.Reveal},
		{"begin", s.Begin},
		{"set teams", func() error { return s.SetTeams("Eagles", "Chiefs") }},
		{"set count", func() error { return s.SetPlayerCount(2) }},
		{"add alice", func() error { return s.AddPlayer("Alice", Team1) }},
		{"add bob", func() error { return s.AddPlayer("Bob", Team2) }},
		{"store catalog", func() error { return s.StoreCatalog(defaultCategories) }},
		{"begin categories", s.BeginCategories},
	}

	for _, step := range steps {
		if err := step.fn(); err != nil {
			t.Fatalf("%s: unexpected error: %v", step.name, err)
		}
	}

	return s
}

func TestRegistrationAdvancesOnlyWhenComplete(t *testing.T) {
	s := newSession()
	mustOK(t, s.Reveal())
	mustOK(t, s.Begin())
	mustOK(t, s.SetTeams("Eagles", "Chiefs"))
	mustOK(t, s.SetPlayerCount(3))

	names := []string{"Alice", "Bob", "Carol"}
	for i, name := range names {
		if s.Phase() != PhasePlayerEntry {
			t.Fatalf("expected player_entry before player %d, got %s", i+1, s.Phase())
		}
		mustOK(t, s.AddPlayer(name, Team1))
	}

	if s.Phase() != PhaseReadyToPlay {
		t.Fatalf("expected ready_to_play after all players, got %s", s.Phase())
	}
}

func TestInvalidInputKeepsPhase(t *testing.T) {
	s := newSession()
	mustOK(t, s.Reveal())
	mustOK(t, s.Begin())

	if err := s.SetTeams("", "Chiefs"); err == nil {
		t.Fatal("expected validation error")
	}
	if s.Phase() != PhaseTeamSetup {
		t.Fatalf("rejected input must keep the phase, got %s", s.Phase())
	}

	mustOK(t, s.SetTeams("Eagles", "Chiefs"))

	if err := s.SetPlayerCount(0); err == nil {
		t.Fatal("expected validation error")
	}
	if s.Phase() != PhasePlayerCountSetup {
		t.Fatalf("rejected input must keep the phase, got %s", s.Phase())
	}
}

func TestBeginCategoriesRequiresCatalog(t *testing.T) {
	s := newSession()
	mustOK(t, s.Reveal())
	mustOK(t, s.Begin())
	mustOK(t, s.SetTeams("Eagles", "Chiefs"))
	mustOK(t, s.SetPlayerCount(1))
	mustOK(t, s.AddPlayer("Alice", Team1))

	err := s.BeginCategories()

	var ferr *FetchError
	if !errors.As(err, &ferr) {
		t.Fatalf("expected FetchError, got %v", err)
	}
	if s.Phase() != PhaseReadyToPlay {
		t.Fatalf("failed load must keep ready_to_play, got %s", s.Phase())
	}
}

func TestStoreCatalogFirstWins(t *testing.T) {
	s := newSession()

	mustOK(t, s.StoreCatalog(Catalog{"Defense": {"Sack": "High"}}))
	mustOK(t, s.StoreCatalog(Catalog{"Other": {"X": "Low"}}))

	if _, ok := s.catalog.Severity("Defense", "Sack"); !ok {
		t.Fatal("expected first stored catalog to be kept")
	}
	if s.catalog.Events("Other") != nil {
		t.Fatal("expected second catalog to be ignored")
	}
}

func TestSelectCategoryNotFound(t *testing.T) {
	s := sessionAtCategories(t)

	err := s.SelectCategory("Halftime Show")

	var nerr *NotFoundError
	if !errors.As(err, &nerr) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
	if s.Phase() != PhaseCategorySelect {
		t.Fatalf("unknown category must keep the phase, got %s", s.Phase())
	}
}

func TestRecordPlayScoresAtTransition(t *testing.T) {
	s := sessionAtCategories(t)
	mustOK(t, s.SelectCategory("Defense"))

	mustOK(t, s.RecordPlay(Team2))

	players := s.Players()
	if players[0].Points != 1 {
		t.Fatalf("expected Alice +1 (backed the wrong team), got %d", players[0].Points)
	}
	if players[1].Points != 0 {
		t.Fatalf("expected Bob unaffected, got %d", players[1].Points)
	}
	if s.Phase() != PhaseEventSelect {
		t.Fatalf("expected event_select, got %s", s.Phase())
	}
}

func TestBackToCategoriesKeepsPenalty(t *testing.T) {
	s := sessionAtCategories(t)
	mustOK(t, s.SelectCategory("Defense"))
	mustOK(t, s.RecordPlay(Team2))

	mustOK(t, s.BackToCategories())

	if s.Phase() != PhaseCategorySelect {
		t.Fatalf("expected category_select, got %s", s.Phase())
	}
	if got := s.Players()[0].Points; got != 1 {
		t.Fatalf("back-navigation must not revert the play penalty, got %d", got)
	}
}

func TestCompleteEventDropsStaleRound(t *testing.T) {
	s := sessionAtCategories(t)
	mustOK(t, s.SelectCategory("Defense"))
	mustOK(t, s.RecordPlay(Team2))

	stale := s.Round()

	// The player backs out and starts a fresh round before the first
	// outcome response lands.
	mustOK(t, s.BackToCategories())
	mustOK(t, s.SelectCategory("Defense"))
	mustOK(t, s.RecordPlay(Team1))

	if s.CompleteEvent(stale, "Sack", "Take a shot") {
		t.Fatal("stale outcome must not be applied")
	}
	if s.Phase() != PhaseEventSelect {
		t.Fatalf("expected event_select, got %s", s.Phase())
	}

	if !s.CompleteEvent(s.Round(), "Interception", "Everyone drinks") {
		t.Fatal("current-round outcome must be applied")
	}
	if s.currentOutcome != "Everyone drinks" {
		t.Fatalf("unexpected outcome %q", s.currentOutcome)
	}
}

func TestCompleteEventOutsideEventSelect(t *testing.T) {
	s := sessionAtCategories(t)

	if s.CompleteEvent(s.Round(), "Sack", "Take a shot") {
		t.Fatal("outcome must be dropped when the phase has moved on")
	}
}

func TestFinishResultGuardsRound(t *testing.T) {
	s := sessionAtCategories(t)
	mustOK(t, s.SelectCategory("Defense"))
	mustOK(t, s.RecordPlay(Team2))
	round := s.Round()
	if !s.CompleteEvent(round, "Sack", "Take a shot") {
		t.Fatal("expected outcome applied")
	}

	mustOK(t, s.ReturnToCategories())

	// The dwell timer for the finished round fires late.
	if s.FinishResult(round) {
		t.Fatal("stale dwell timer must not transition")
	}
	if s.Phase() != PhaseCategorySelect {
		t.Fatalf("expected category_select, got %s", s.Phase())
	}
}

func TestScoreboardReturnsToPreviousPhase(t *testing.T) {
	s := sessionAtCategories(t)

	mustOK(t, s.ShowScoreboard())
	if s.Phase() != PhaseScoreboard {
		t.Fatalf("expected scoreboard, got %s", s.Phase())
	}

	if err := s.ShowScoreboard(); err == nil {
		t.Fatal("opening the scoreboard twice must be rejected")
	}

	mustOK(t, s.HideScoreboard())
	if s.Phase() != PhaseCategorySelect {
		t.Fatalf("expected return to category_select, got %s", s.Phase())
	}
}

func TestScoreboardBlockedOnResult(t *testing.T) {
	s := sessionAtCategories(t)
	mustOK(t, s.SelectCategory("Defense"))
	mustOK(t, s.RecordPlay(Team2))
	if !s.CompleteEvent(s.Round(), "Sack", "Take a shot") {
		t.Fatal("expected outcome applied")
	}

	if err := s.ShowScoreboard(); err == nil {
		t.Fatal("scoreboard must not open over the result card")
	}
	if s.Phase() != PhaseResult {
		t.Fatalf("expected result, got %s", s.Phase())
	}
}

func TestFinalScoreTieAppliesNoPenalty(t *testing.T) {
	s := sessionAtCategories(t)
	mustOK(t, s.FinishGame())

	mustOK(t, s.SubmitFinalScore(14, 14))

	if !s.finalTie {
		t.Fatal("expected tie")
	}
	for _, p := range s.Players() {
		if p.Points != 0 {
			t.Fatalf("tie must not change points, %s has %d", p.Name, p.Points)
		}
	}
	if s.LosingPlayers() != nil {
		t.Fatal("tie has no losing players")
	}
}

func TestFinalScoreAppliesLossPenalty(t *testing.T) {
	s := sessionAtCategories(t)
	mustOK(t, s.FinishGame())

	mustOK(t, s.SubmitFinalScore(21, 14))

	players := s.Players()
	if players[0].Points != 0 {
		t.Fatalf("winning team player must be unaffected, got %d", players[0].Points)
	}
	if players[1].Points != 3 {
		t.Fatalf("losing team player must gain 3, got %d", players[1].Points)
	}

	losers := s.LosingPlayers()
	if len(losers) != 1 || losers[0].Name != "Bob" {
		t.Fatalf("unexpected losing players: %v", losers)
	}
}

func TestFinalScoreValidation(t *testing.T) {
	s := sessionAtCategories(t)
	mustOK(t, s.FinishGame())

	if err := s.SubmitFinalScore(-1, 14); err == nil {
		t.Fatal("expected validation error for negative score")
	}
	if s.Phase() != PhaseFinalScoreEntry {
		t.Fatalf("rejected score must keep the phase, got %s", s.Phase())
	}
}

func TestRevealWinnerOnce(t *testing.T) {
	s := sessionAtCategories(t)
	mustOK(t, s.FinishGame())
	mustOK(t, s.SubmitFinalScore(21, 14))

	if !s.RevealWinner() {
		t.Fatal("expected first reveal to apply")
	}
	if s.RevealWinner() {
		t.Fatal("expected second reveal to be a no-op")
	}
}

func TestRestartDiscardsEverything(t *testing.T) {
	s := sessionAtCategories(t)
	mustOK(t, s.SelectCategory("Defense"))
	mustOK(t, s.RecordPlay(Team2))
	if !s.CompleteEvent(s.Round(), "Sack", "Take a shot") {
		t.Fatal("expected outcome applied")
	}
	mustOK(t, s.ReturnToCategories())
	mustOK(t, s.FinishGame())
	mustOK(t, s.SubmitFinalScore(21, 14))

	mustOK(t, s.Restart())

	if s.Phase() != PhaseWelcome {
		t.Fatalf("expected welcome after restart, got %s", s.Phase())
	}
	if s.CatalogLoaded() {
		t.Fatal("restart must clear the cached catalog")
	}
	if len(s.Players()) != 0 {
		t.Fatal("restart must clear the roster")
	}
	if s.Round() != 0 {
		t.Fatalf("restart must reset the round counter, got %d", s.Round())
	}
}

// The walkthrough from a full evening: two teams, two players, one round,
// final score settles the loss penalty, Alice wins with the fewest points.
func TestFullGame(t *testing.T) {
	s := sessionAtCategories(t)

	mustOK(t, s.SelectCategory("Game Outcome"))
	mustOK(t, s.RecordPlay(Team2)) // Chiefs made the play, Alice +1
	if !s.CompleteEvent(s.Round(), "First Down", "Sip of your drink") {
		t.Fatal("expected outcome applied")
	}
	mustOK(t, s.ReturnToCategories())

	mustOK(t, s.FinishGame())
	mustOK(t, s.SubmitFinalScore(20, 17)) // Chiefs lose, Bob +3

	ranked := rankAscending(s.Players())
	if ranked[0].Name != "Alice" || ranked[0].Points != 1 {
		t.Fatalf("expected Alice to win with 1 point, got %s with %d", ranked[0].Name, ranked[0].Points)
	}
	if ranked[1].Name != "Bob" || ranked[1].Points != 3 {
		t.Fatalf("expected Bob last with 3 points, got %s with %d", ranked[1].Name, ranked[1].Points)
	}
}

func mustOK(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
