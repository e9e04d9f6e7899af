/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

// Phase identifies the card currently face-up on the phone. Exactly one
// phase is active at a time; the scoreboard is an overlay that remembers
// the single phase it was opened from.
type Phase int

const (
	PhaseCardBack Phase = iota
	PhaseWelcome
	PhaseTeamSetup
	PhasePlayerCountSetup
	PhasePlayerEntry
	PhaseReadyToPlay
	PhaseCategorySelect
	PhaseTeamPlaySelect
	PhaseEventSelect
	PhaseResult
	PhaseFinalScoreEntry
	PhaseFinalResult
	PhaseScoreboard
)

var phaseNames = map[Phase]string{
	PhaseCardBack:         "card_back",
	PhaseWelcome:          "welcome",
	PhaseTeamSetup:        "team_setup",
	PhasePlayerCountSetup: "player_count_setup",
	PhasePlayerEntry:      "player_entry",
	PhaseReadyToPlay:      "ready_to_play",
	PhaseCategorySelect:   "category_select",
	PhaseTeamPlaySelect:   "team_play_select",
	PhaseEventSelect:      "event_select",
	PhaseResult:           "result",
	PhaseFinalScoreEntry:  "final_score_entry",
	PhaseFinalResult:      "final_result",
	PhaseScoreboard:       "scoreboard",
}

func (p Phase) String() string {
	if name, ok := phaseNames[p]; ok {
		return name
	}
	return "unknown"
}

// allowsScoreboard reports whether the scoreboard overlay may be opened
// from this phase. The result card (timed) and the endgame cards are
// excluded, as is the scoreboard itself, so the previous-phase slot can
// never be overwritten while in use.
func (p Phase) allowsScoreboard() bool {
	switch p {
	case PhaseResult, PhaseFinalScoreEntry, PhaseFinalResult, PhaseScoreboard:
		return false
	}
	return true
}
