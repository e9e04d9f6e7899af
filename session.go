/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

// Session is the authoritative state of one game: the active phase, the
// roster, the cached catalog, and the data produced by each transition.
// Every method either fully commits (data updated and phase changed) or
// rejects with a typed error and leaves the session untouched.
//
// Methods are not safe for concurrent use; the owning hub confines all
// access to its run loop.
type Session struct {
	phase     Phase
	prevPhase Phase

	roster Roster

	catalog          Catalog
	currentCategory  string
	teamThatMadePlay TeamID

	// round increments each time play is recorded, tagging the
	// EventSelect/Result cycle it starts. Outcome responses and dwell
	// timers carry the round they were issued for and are dropped on
	// mismatch.
	round          int
	currentEvent   string
	currentOutcome string

	finalScore1 int
	finalScore2 int
	finalTie    bool
	losingTeam  TeamID
	revealed    bool
}

func newSession() *Session {
	return &Session{
		phase:            PhaseCardBack,
		teamThatMadePlay: TeamNone,
		losingTeam:       TeamNone,
	}
}

func (s *Session) Phase() Phase {
	return s.phase
}

func (s *Session) Round() int {
	return s.round
}

func (s *Session) Players() []Player {
	out := make([]Player, len(s.roster.players))
	copy(out, s.roster.players)
	return out
}

func (s *Session) requirePhase(want Phase) error {
	if s.phase != want {
		return errValidation("not allowed while the %s card is up", s.phase)
	}
	return nil
}

// Reveal flips the deck over: CardBack -> Welcome.
func (s *Session) Reveal() error {
	if err := s.requirePhase(PhaseCardBack); err != nil {
		return err
	}
	s.phase = PhaseWelcome
	return nil
}

// Begin starts setup: Welcome -> TeamSetup.
func (s *Session) Begin() error {
	if err := s.requirePhase(PhaseWelcome); err != nil {
		return err
	}
	s.phase = PhaseTeamSetup
	return nil
}

// SetTeams records the two team names: TeamSetup -> PlayerCountSetup.
func (s *Session) SetTeams(name1, name2 string) error {
	if err := s.requirePhase(PhaseTeamSetup); err != nil {
		return err
	}
	if err := s.roster.SetTeams(name1, name2); err != nil {
		return err
	}
	s.phase = PhasePlayerCountSetup
	return nil
}

// SetPlayerCount records how many players will be entered:
// PlayerCountSetup -> PlayerEntry.
func (s *Session) SetPlayerCount(n int) error {
	if err := s.requirePhase(PhasePlayerCountSetup); err != nil {
		return err
	}
	if err := s.roster.SetCount(n); err != nil {
		return err
	}
	s.phase = PhasePlayerEntry
	return nil
}

// AddPlayer registers one player. The phase advances to ReadyToPlay only
// on the submission that completes the roster; otherwise PlayerEntry
// repeats for the next player.
func (s *Session) AddPlayer(name string, team TeamID) error {
	if err := s.requirePhase(PhasePlayerEntry); err != nil {
		return err
	}
	done, err := s.roster.Add(name, team)
	if err != nil {
		return err
	}
	if done {
		s.phase = PhaseReadyToPlay
	}
	return nil
}

// CatalogLoaded reports whether the category catalog has been fetched
// this session.
func (s *Session) CatalogLoaded() bool {
	return s.catalog != nil
}

// StoreCatalog caches a fetched catalog. The first stored catalog wins;
// it is read-only for the rest of the session.
func (s *Session) StoreCatalog(catalog Catalog) error {
	if len(catalog) == 0 {
		return errFetch(nil, "category catalog is empty")
	}
	if s.catalog == nil {
		s.catalog = catalog
	}
	return nil
}

// BeginCategories enters category selection: ReadyToPlay ->
// CategorySelect. Requires a stored catalog; a failed load keeps the
// session on ReadyToPlay.
func (s *Session) BeginCategories() error {
	if err := s.requirePhase(PhaseReadyToPlay); err != nil {
		return err
	}
	if s.catalog == nil {
		return errFetch(nil, "category catalog is not loaded")
	}
	s.phase = PhaseCategorySelect
	return nil
}

// SelectCategory records the category for this round: CategorySelect ->
// TeamPlaySelect.
func (s *Session) SelectCategory(name string) error {
	if err := s.requirePhase(PhaseCategorySelect); err != nil {
		return err
	}
	if len(s.catalog.Events(name)) == 0 {
		return errNotFound("category %q not found", name)
	}
	s.currentCategory = name
	s.phase = PhaseTeamPlaySelect
	return nil
}

// RecordPlay notes which team made the play and immediately applies the
// play penalty: TeamPlaySelect -> EventSelect. Scoring happens here, not
// when the event is chosen, and back-navigation does not revert it.
func (s *Session) RecordPlay(team TeamID) error {
	if err := s.requirePhase(PhaseTeamPlaySelect); err != nil {
		return err
	}
	if team != Team1 && team != Team2 {
		return errValidation("a team must be selected")
	}
	s.teamThatMadePlay = team
	s.roster.players = applyPlayPenalty(s.roster.players, team)
	s.round++
	s.currentEvent = ""
	s.currentOutcome = ""
	s.phase = PhaseEventSelect
	return nil
}

// EventSeverity resolves the severity of an event in the current
// category, validated before the outcome fetch is started.
func (s *Session) EventSeverity(event string) (string, error) {
	if err := s.requirePhase(PhaseEventSelect); err != nil {
		return "", err
	}
	severity, ok := s.catalog.Severity(s.currentCategory, event)
	if !ok {
		return "", errNotFound("event %q not found in category %q", event, s.currentCategory)
	}
	return severity, nil
}

// CompleteEvent applies a fetched outcome: EventSelect -> Result. The
// round guard drops responses that arrive after the player navigated
// away; a stale outcome is never displayed.
func (s *Session) CompleteEvent(round int, event, outcome string) bool {
	if s.phase != PhaseEventSelect || round != s.round {
		return false
	}
	s.currentEvent = event
	s.currentOutcome = outcome
	s.phase = PhaseResult
	return true
}

// ReturnToCategories is the manual early return from the result card:
// Result -> CategorySelect.
func (s *Session) ReturnToCategories() error {
	if err := s.requirePhase(PhaseResult); err != nil {
		return err
	}
	s.phase = PhaseCategorySelect
	return nil
}

// FinishResult is the timer-driven return: same transition as
// ReturnToCategories, guarded by the round the timer was armed for.
func (s *Session) FinishResult(round int) bool {
	if s.phase != PhaseResult || round != s.round {
		return false
	}
	s.phase = PhaseCategorySelect
	return true
}

// BackToCategories backs out of the event picker without choosing:
// EventSelect -> CategorySelect. The play penalty already applied this
// round stands.
func (s *Session) BackToCategories() error {
	if err := s.requirePhase(PhaseEventSelect); err != nil {
		return err
	}
	s.phase = PhaseCategorySelect
	return nil
}

// ShowScoreboard opens the overlay, remembering the single phase to
// return to.
func (s *Session) ShowScoreboard() error {
	if !s.phase.allowsScoreboard() {
		return errValidation("the scoreboard is not available right now")
	}
	s.prevPhase = s.phase
	s.phase = PhaseScoreboard
	return nil
}

// HideScoreboard returns to exactly the phase the overlay was opened
// from.
func (s *Session) HideScoreboard() error {
	if err := s.requirePhase(PhaseScoreboard); err != nil {
		return err
	}
	s.phase = s.prevPhase
	s.prevPhase = PhaseCardBack
	return nil
}

// FinishGame moves to final score entry: CategorySelect ->
// FinalScoreEntry.
func (s *Session) FinishGame() error {
	if err := s.requirePhase(PhaseCategorySelect); err != nil {
		return err
	}
	s.phase = PhaseFinalScoreEntry
	return nil
}

// SubmitFinalScore records the real game's final score and settles the
// loss penalty: FinalScoreEntry -> FinalResult. A tie applies no penalty
// and routes to the everyone-drinks branch.
func (s *Session) SubmitFinalScore(score1, score2 int) error {
	if err := s.requirePhase(PhaseFinalScoreEntry); err != nil {
		return err
	}
	if score1 < 0 || score2 < 0 {
		return errValidation("scores must be non-negative")
	}

	s.finalScore1 = score1
	s.finalScore2 = score2

	switch {
	case score1 == score2:
		s.finalTie = true
		s.losingTeam = TeamNone
	case score1 > score2:
		s.finalTie = false
		s.losingTeam = Team2
		s.roster.players = applyLossPenalty(s.roster.players, Team2)
	default:
		s.finalTie = false
		s.losingTeam = Team1
		s.roster.players = applyLossPenalty(s.roster.players, Team1)
	}

	s.revealed = false
	s.phase = PhaseFinalResult
	return nil
}

// RevealWinner flips the final card to the full ranking after the reveal
// delay.
func (s *Session) RevealWinner() bool {
	if s.phase != PhaseFinalResult || s.revealed {
		return false
	}
	s.revealed = true
	return true
}

// Restart discards the whole session and lands on Welcome: roster,
// scores, cached catalog and produced data are all gone.
func (s *Session) Restart() error {
	if err := s.requirePhase(PhaseFinalResult); err != nil {
		return err
	}
	*s = *newSession()
	s.phase = PhaseWelcome
	return nil
}

// LosingPlayers lists the players on the losing team, in registration
// order.
func (s *Session) LosingPlayers() []Player {
	if s.losingTeam == TeamNone {
		return nil
	}
	var out []Player
	for _, p := range s.roster.players {
		if p.Team == s.losingTeam {
			out = append(out, p)
		}
	}
	return out
}
