// Gameday Drinking Game
//
// A pass-the-phone drinking game played alongside a real football game.
// One phone drives the session: two team names are entered, each player
// registers with a name and the team they back, and then rounds repeat
// until the real game ends. Each round the phone picks an event category,
// records which team made a play (everyone who backed the other team
// drinks a point), picks the event that happened, and receives a random
// drink outcome for its severity. At the end the real final score is
// entered: players on the losing team take three points, a tied score
// means everyone drinks, and the player with the FEWEST points wins.
//
// Features:
// - WebSockets per game ID: /gameday/:gameid and /gameday/:gameid/ws
// - First connection controls the game; later connections are read-only
//   spectators (live scoreboard mirrors)
// - Clients identified by cookie (playerID)
// - In-browser QR button to share the spectator view, backed by go-qrcode
// - Category/outcome data served by the builtin JSON API, or fetched from
//   an external one via --catalog-url
// - Result card auto-returns to categories after --result-dwell; the
//   final card reveals the full ranking after --reveal-delay
// - Games auto-reaped after configurable idle timeout
// - Random 8-char game IDs via crypto/rand, with server-side collision check

package main

import (
	"context"
	"crypto/rand"
	_ "embed"
	"log"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
	"github.com/skip2/go-qrcode"
)

// Messages coming from the controlling client
type ClientMessage struct {
	Type       string `json:"type"`                 // action name, see handleAction
	Team1      string `json:"team1,omitempty"`      // set_teams
	Team2      string `json:"team2,omitempty"`      // set_teams
	Count      int    `json:"count,omitempty"`      // set_player_count
	Name       string `json:"name,omitempty"`       // add_player
	Team       int    `json:"team,omitempty"`       // add_player / team_play (1 or 2)
	Category   string `json:"category,omitempty"`   // select_category
	Event      string `json:"event,omitempty"`      // select_event
	Team1Score *int   `json:"team1Score,omitempty"` // final_score
	Team2Score *int   `json:"team2Score,omitempty"` // final_score
}

// SessionInfoMessage is sent immediately on connect so the client knows
// whether it drives the game or only watches.
type SessionInfoMessage struct {
	Type       string `json:"type"` // "session_info"
	Controller bool   `json:"controller"`
}

// ErrorMessage carries a rejected action back to the acting client only.
// The phase never changes on error.
type ErrorMessage struct {
	Type    string `json:"type"` // "game_error"
	Kind    string `json:"kind"` // "validation", "not_found" or "fetch"
	Message string `json:"message"`
}

// EventChoice is one selectable event of the current category.
type EventChoice struct {
	Name     string `json:"name"`
	Severity string `json:"severity"`
}

// ScoreEntry is one row of a player listing or ranked scoreboard.
type ScoreEntry struct {
	Rank   int    `json:"rank,omitempty"`
	Medal  string `json:"medal,omitempty"`
	Name   string `json:"name"`
	Team   string `json:"team"`
	Points int    `json:"points"`
}

// GameStateMessage is the full authoritative state, broadcast after every
// committed transition. From/Phase drive the client's card-flip effect.
type GameStateMessage struct {
	Type  string `json:"type"` // "game_state"
	From  string `json:"from,omitempty"`
	Phase string `json:"phase"`

	Team1 string `json:"team1,omitempty"`
	Team2 string `json:"team2,omitempty"`

	PlayerCount  int          `json:"playerCount,omitempty"`
	PlayerNumber int          `json:"playerNumber,omitempty"` // 1-based, next player to enter
	Players      []ScoreEntry `json:"players,omitempty"`      // registration order

	Categories       []string      `json:"categories,omitempty"`
	CurrentCategory  string        `json:"currentCategory,omitempty"`
	Events           []EventChoice `json:"events,omitempty"`
	TeamThatMadePlay string        `json:"teamThatMadePlay,omitempty"`

	ResultEvent   string `json:"resultEvent,omitempty"`
	ResultOutcome string `json:"resultOutcome,omitempty"`

	Scoreboard []ScoreEntry `json:"scoreboard,omitempty"`

	Team1Score    int         `json:"team1Score"`
	Team2Score    int         `json:"team2Score"`
	Tie           bool        `json:"tie,omitempty"`
	WinningTeam   string      `json:"winningTeam,omitempty"`
	LosingTeam    string      `json:"losingTeam,omitempty"`
	LosingPlayers []string    `json:"losingPlayers,omitempty"`
	Revealed      bool        `json:"revealed,omitempty"`
	OverallWinner *ScoreEntry `json:"overallWinner,omitempty"`
}

type Client struct {
	conn     *websocket.Conn
	send     chan any
	playerID string
}

type actionRequest struct {
	client *Client
	msg    ClientMessage
}

type timerKind int

const (
	timerDwell timerKind = iota
	timerReveal
)

type timerEvent struct {
	kind  timerKind
	round int
}

type outcomeResult struct {
	round   int
	event   string
	outcome string
	err     error
}

type catalogResult struct {
	catalog Catalog
	err     error
}

// scheduler arms a one-shot task and returns its cancel. The indirection
// keeps timer behavior deterministic in tests.
type scheduler interface {
	Schedule(d time.Duration, fn func()) (cancel func())
}

type timerScheduler struct{}

func (timerScheduler) Schedule(d time.Duration, fn func()) func() {
	t := time.AfterFunc(d, fn)
	return func() { t.Stop() }
}

// Hub owns exactly one Session and is the only goroutine that touches it.
// Client actions, fetched outcomes and fired timers all funnel through
// the run loop, so transitions commit one at a time.
type Hub struct {
	id      string
	clients map[*Client]bool

	register chan *Client
	unreg    chan *Client
	actions  chan actionRequest
	outcomes chan outcomeResult
	catalogs chan catalogResult
	timers   chan timerEvent
	done     chan struct{}

	session        *Session
	categorySource CategorySource
	outcomeSource  OutcomeSource
	clock          scheduler

	controllerID   string
	catalogPending bool

	// cancel-and-replace: at most one pending task per purpose.
	cancelDwell  func()
	cancelReveal func()

	mu         sync.RWMutex
	createdAt  time.Time
	lastActive time.Time
}

func newHub(gameID string, categories CategorySource, outcomes OutcomeSource, clock scheduler) *Hub {
	now := time.Now()
	metricSessionsStarted.Inc()
	return &Hub{
		id:             gameID,
		clients:        make(map[*Client]bool),
		register:       make(chan *Client),
		unreg:          make(chan *Client),
		actions:        make(chan actionRequest),
		outcomes:       make(chan outcomeResult, 4),
		catalogs:       make(chan catalogResult, 1),
		timers:         make(chan timerEvent, 4),
		done:           make(chan struct{}),
		session:        newSession(),
		categorySource: categories,
		outcomeSource:  outcomes,
		clock:          clock,
		createdAt:      now,
		lastActive:     now,
	}
}

func (h *Hub) run(cfg *Config) {
	for {
		select {
		case c := <-h.register:
			h.touch()

			if h.controllerID == "" {
				h.controllerID = c.playerID
			}
			h.clients[c] = true

			c.send <- SessionInfoMessage{
				Type:       "session_info",
				Controller: c.playerID == h.controllerID,
			}
			c.send <- h.stateMessage(h.session.Phase())

		case c := <-h.unreg:
			h.touch()

			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				close(c.send)
			}

		case ar := <-h.actions:
			h.handleAction(cfg, ar)

		case res := <-h.catalogs:
			h.handleCatalog(cfg, res)

		case res := <-h.outcomes:
			h.handleOutcome(cfg, res)

		case ev := <-h.timers:
			h.handleTimer(cfg, ev)

		case <-h.done:
			return
		}
	}
}

func (h *Hub) touch() {
	h.mu.Lock()
	h.lastActive = time.Now()
	h.mu.Unlock()
}

// handleAction applies one controller action to the session. A rejected
// action answers the acting client only; a committed one broadcasts the
// new state to everyone.
func (h *Hub) handleAction(cfg *Config, ar actionRequest) {
	h.touch()

	c := ar.client
	msg := ar.msg

	if c.playerID != h.controllerID {
		h.sendTo(c, ErrorMessage{
			Type:    "game_error",
			Kind:    "validation",
			Message: "Only the controlling phone can play. You are watching.",
		})
		return
	}

	s := h.session
	from := s.Phase()

	var err error

	switch msg.Type {
	case "reveal":
		err = s.Reveal()

	case "begin":
		err = s.Begin()

	case "set_teams":
		err = s.SetTeams(msg.Team1, msg.Team2)

	case "set_player_count":
		err = s.SetPlayerCount(msg.Count)

	case "add_player":
		err = s.AddPlayer(msg.Name, TeamID(msg.Team))

	case "show_categories":
		if !s.CatalogLoaded() {
			if err := s.requirePhase(PhaseReadyToPlay); err != nil {
				h.sendError(c, err)
				return
			}
			h.fetchCatalog()
			return
		}
		err = s.BeginCategories()

	case "select_category":
		err = s.SelectCategory(msg.Category)

	case "team_play":
		err = s.RecordPlay(TeamID(msg.Team))

	case "select_event":
		h.startOutcomeFetch(cfg, c, msg.Event)
		return

	case "return_to_categories":
		if err = s.ReturnToCategories(); err == nil {
			h.stopDwell()
		}

	case "back_to_categories":
		err = s.BackToCategories()

	case "show_scoreboard":
		err = s.ShowScoreboard()

	case "hide_scoreboard":
		err = s.HideScoreboard()

	case "finish_game":
		err = s.FinishGame()

	case "final_score":
		if msg.Team1Score == nil || msg.Team2Score == nil {
			h.sendError(c, errValidation("both final scores are required"))
			return
		}
		if err = s.SubmitFinalScore(*msg.Team1Score, *msg.Team2Score); err == nil {
			h.armReveal(cfg)
		}

	case "restart":
		if err = s.Restart(); err == nil {
			h.stopDwell()
			h.stopReveal()
			h.catalogPending = false
			metricSessionsStarted.Inc()
			logf(cfg, "GAMES: Session %s restarted", h.id)
		}

	default:
		return
	}

	if err != nil {
		h.sendError(c, err)
		return
	}

	h.broadcastState(cfg, from)
}

// fetchCatalog loads the category catalog off-loop. At most one fetch is
// in flight; the result re-enters the loop as a catalogResult.
func (h *Hub) fetchCatalog() {
	if h.catalogPending {
		return
	}
	h.catalogPending = true

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		catalog, err := h.categorySource.Categories(ctx)

		select {
		case h.catalogs <- catalogResult{catalog: catalog, err: err}:
		case <-h.done:
		}
	}()
}

func (h *Hub) handleCatalog(cfg *Config, res catalogResult) {
	h.catalogPending = false
	s := h.session

	if res.err != nil {
		logf(cfg, "GAMES: Catalog load failed for %s: %v", h.id, res.err)
		if s.Phase() == PhaseReadyToPlay {
			h.sendToController(ErrorMessage{
				Type:    "game_error",
				Kind:    "fetch",
				Message: "Could not load categories. Tap again to retry.",
			})
		}
		return
	}

	if err := s.StoreCatalog(res.catalog); err != nil {
		if s.Phase() == PhaseReadyToPlay {
			h.sendErrorToController(err)
		}
		return
	}

	// The phone may have opened the scoreboard meanwhile; the cached
	// catalog makes the next tap succeed instantly.
	if s.Phase() != PhaseReadyToPlay {
		return
	}

	from := s.Phase()
	if err := s.BeginCategories(); err != nil {
		h.sendErrorToController(err)
		return
	}
	h.broadcastState(cfg, from)
}

// startOutcomeFetch validates the chosen event, then requests a random
// outcome off-loop. The response carries the round it was issued for; a
// response landing after the phase moved on is dropped.
func (h *Hub) startOutcomeFetch(cfg *Config, c *Client, event string) {
	severity, err := h.session.EventSeverity(event)
	if err != nil {
		h.sendError(c, err)
		return
	}

	round := h.session.Round()

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		outcome, err := h.outcomeSource.Outcome(ctx, severity)

		select {
		case h.outcomes <- outcomeResult{round: round, event: event, outcome: outcome, err: err}:
		case <-h.done:
		}
	}()
}

func (h *Hub) handleOutcome(cfg *Config, res outcomeResult) {
	s := h.session

	if res.err != nil {
		logf(cfg, "GAMES: Outcome fetch failed for %s: %v", h.id, res.err)
		if s.Phase() == PhaseEventSelect && s.Round() == res.round {
			h.sendToController(ErrorMessage{
				Type:    "game_error",
				Kind:    "fetch",
				Message: "Could not get an outcome. Pick the event again.",
			})
		}
		return
	}

	from := s.Phase()
	if !s.CompleteEvent(res.round, res.event, res.outcome) {
		return
	}

	metricRoundsCompleted.Inc()
	h.armDwell(cfg, res.round)
	h.broadcastState(cfg, from)
}

func (h *Hub) handleTimer(cfg *Config, ev timerEvent) {
	s := h.session
	from := s.Phase()

	switch ev.kind {
	case timerDwell:
		h.cancelDwell = nil
		if s.FinishResult(ev.round) {
			h.broadcastState(cfg, from)
		}

	case timerReveal:
		h.cancelReveal = nil
		if s.RevealWinner() {
			h.broadcastState(cfg, from)
		}
	}
}

// armDwell (re)arms the result auto-return. Arming always cancels any
// prior pending task, so at most one dwell timer exists.
func (h *Hub) armDwell(cfg *Config, round int) {
	h.stopDwell()
	h.cancelDwell = h.clock.Schedule(cfg.resultDwell, func() {
		select {
		case h.timers <- timerEvent{kind: timerDwell, round: round}:
		case <-h.done:
		}
	})
}

func (h *Hub) stopDwell() {
	if h.cancelDwell != nil {
		h.cancelDwell()
		h.cancelDwell = nil
	}
}

func (h *Hub) armReveal(cfg *Config) {
	h.stopReveal()
	h.cancelReveal = h.clock.Schedule(cfg.revealDelay, func() {
		select {
		case h.timers <- timerEvent{kind: timerReveal}:
		case <-h.done:
		}
	})
}

func (h *Hub) stopReveal() {
	if h.cancelReveal != nil {
		h.cancelReveal()
		h.cancelReveal = nil
	}
}

func (h *Hub) sendError(c *Client, err error) {
	h.sendTo(c, errorMessage(err))
}

func (h *Hub) sendErrorToController(err error) {
	h.sendToController(errorMessage(err))
}

func errorMessage(err error) ErrorMessage {
	msg := ErrorMessage{
		Type:    "game_error",
		Kind:    "validation",
		Message: err.Error(),
	}

	switch err.(type) {
	case *NotFoundError:
		msg.Kind = "not_found"
	case *FetchError:
		msg.Kind = "fetch"
	}

	return msg
}

func (h *Hub) sendTo(c *Client, msg any) {
	select {
	case c.send <- msg:
	default:
		delete(h.clients, c)
		close(c.send)
	}
}

func (h *Hub) sendToController(msg any) {
	for c := range h.clients {
		if c.playerID == h.controllerID {
			h.sendTo(c, msg)
			return
		}
	}
}

// broadcastState is the rendering effect: it pushes the committed
// transition to every connected client, which flips from the old card to
// the new one.
func (h *Hub) broadcastState(cfg *Config, from Phase) {
	msg := h.stateMessage(from)

	for c := range h.clients {
		h.sendTo(c, msg)
	}

	logf(cfg, "GAMES: %s: %s -> %s", h.id, from, h.session.Phase())
}

func (h *Hub) stateMessage(from Phase) GameStateMessage {
	s := h.session
	r := &s.roster

	msg := GameStateMessage{
		Type:  "game_state",
		Phase: s.phase.String(),
		Team1: r.team1,
		Team2: r.team2,
	}
	if from != s.phase {
		msg.From = from.String()
	}

	if r.count > 0 {
		msg.PlayerCount = r.count
		msg.PlayerNumber = r.cursor + 1
	}
	for _, p := range r.players {
		msg.Players = append(msg.Players, ScoreEntry{
			Name:   p.Name,
			Team:   r.TeamName(p.Team),
			Points: p.Points,
		})
	}

	if s.catalog != nil {
		msg.Categories = s.catalog.Names()
	}
	if s.currentCategory != "" {
		msg.CurrentCategory = s.currentCategory
		events := s.catalog.Events(s.currentCategory)
		for name, severity := range events {
			msg.Events = append(msg.Events, EventChoice{Name: name, Severity: severity})
		}
		sort.Slice(msg.Events, func(i, j int) bool {
			return msg.Events[i].Name < msg.Events[j].Name
		})
	}
	if s.teamThatMadePlay != TeamNone {
		msg.TeamThatMadePlay = r.TeamName(s.teamThatMadePlay)
	}

	msg.ResultEvent = s.currentEvent
	msg.ResultOutcome = s.currentOutcome

	if s.phase == PhaseScoreboard || (s.phase == PhaseFinalResult && s.revealed) {
		msg.Scoreboard = rankedEntries(r)
	}

	if s.phase == PhaseFinalResult {
		msg.Team1Score = s.finalScore1
		msg.Team2Score = s.finalScore2
		msg.Tie = s.finalTie
		msg.Revealed = s.revealed
		if !s.finalTie {
			winning := Team1
			if s.losingTeam == Team1 {
				winning = Team2
			}
			msg.WinningTeam = r.TeamName(winning)
			msg.LosingTeam = r.TeamName(s.losingTeam)
			for _, p := range s.LosingPlayers() {
				msg.LosingPlayers = append(msg.LosingPlayers, p.Name)
			}
		}
		if s.revealed {
			if ranked := msg.Scoreboard; len(ranked) > 0 {
				winner := ranked[0]
				msg.OverallWinner = &winner
			}
		}
	}

	return msg
}

// rankedEntries builds the ascending scoreboard, fewest points first.
// Ties keep registration order; the top three get medals.
func rankedEntries(r *Roster) []ScoreEntry {
	medals := [...]string{"🥇", "🥈", "🥉"}

	ranked := rankAscending(r.players)
	out := make([]ScoreEntry, 0, len(ranked))

	for i, p := range ranked {
		entry := ScoreEntry{
			Rank:   i + 1,
			Name:   p.Name,
			Team:   r.TeamName(p.Team),
			Points: p.Points,
		}
		if i < len(medals) {
			entry.Medal = medals[i]
		}
		out = append(out, entry)
	}

	return out
}

// closeAll disconnects all clients of this hub and stops its loop (used
// by reaper).
func (h *Hub) closeAll() {
	close(h.done)

	h.mu.Lock()
	defer h.mu.Unlock()

	for c := range h.clients {
		close(c.send)
		_ = c.conn.Close()
		delete(h.clients, c)
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

const playerCookieName = "gameday_id"

func getOrSetPlayerID(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(playerCookieName); err == nil && c.Value != "" {
		return c.Value
	}

	id := uuid.New().String()

	http.SetCookie(w, &http.Cookie{
		Name:     playerCookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	return id
}

// GameManager holds a set of hubs keyed by game ID, so each $path/$gameid
// is its own isolated session.
type GameManager struct {
	mu          sync.Mutex
	hubs        map[string]*Hub
	idleTimeout time.Duration

	categories CategorySource
	outcomes   OutcomeSource
	clock      scheduler
}

func newGameManager(idleTimeout time.Duration, categories CategorySource, outcomes OutcomeSource) *GameManager {
	gm := &GameManager{
		hubs:        make(map[string]*Hub),
		idleTimeout: idleTimeout,
		categories:  categories,
		outcomes:    outcomes,
		clock:       timerScheduler{},
	}
	if idleTimeout > 0 {
		go gm.reaperLoop()
	}
	return gm
}

func (gm *GameManager) getHub(cfg *Config, gameID string) *Hub {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	if hub, ok := gm.hubs[gameID]; ok {
		return hub
	}

	hub := newHub(gameID, gm.categories, gm.outcomes, gm.clock)
	gm.hubs[gameID] = hub
	go hub.run(cfg)
	return hub
}

// newGameID generates a crypto-random game ID and ensures it doesn't
// collide with existing games.
func (gm *GameManager) newGameID() string {
	const letters = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
	for {
		buf := make([]byte, 8)
		if _, err := rand.Read(buf); err != nil {
			panic("crypto/rand failure: " + err.Error())
		}
		out := make([]byte, 8)
		for i := range out {
			out[i] = letters[int(buf[i])%len(letters)]
		}
		id := string(out)

		gm.mu.Lock()
		_, exists := gm.hubs[id]
		gm.mu.Unlock()

		if !exists {
			return id
		}
	}
}

// reaperLoop periodically removes hubs that have been idle longer than
// idleTimeout.
func (gm *GameManager) reaperLoop() {
	ticker := time.NewTicker(gm.idleTimeout / 2)
	for range ticker.C {
		cutoff := time.Now().Add(-gm.idleTimeout)

		gm.mu.Lock()
		for id, hub := range gm.hubs {
			hub.mu.RLock()
			last := hub.lastActive
			hub.mu.RUnlock()

			if last.Before(cutoff) {
				delete(gm.hubs, id)
				go hub.closeAll()
			}
		}
		gm.mu.Unlock()
	}
}

// WebSocket handler that picks the hub based on :gameid
func serveWSForManager(cfg *Config, gm *GameManager) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		gameID := ps.ByName("gameid")
		if gameID == "" {
			http.Error(w, "missing game id", http.StatusBadRequest)
			return
		}

		playerID := getOrSetPlayerID(w, r)

		hub := gm.getHub(cfg, gameID)

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Println("upgrade error:", err)
			return
		}

		client := &Client{
			conn:     conn,
			send:     make(chan any, 8),
			playerID: playerID,
		}

		hub.register <- client

		go client.writePump()
		client.readPump(hub)
	}
}

func (c *Client) readPump(h *Hub) {
	defer func() {
		select {
		case h.unreg <- c:
		case <-h.done:
		}
		_ = c.conn.Close()
	}()

	for {
		var msg ClientMessage
		if err := c.conn.ReadJSON(&msg); err != nil {
			return
		}

		select {
		case h.actions <- actionRequest{client: c, msg: msg}:
		case <-h.done:
			return
		}
	}
}

func (c *Client) writePump() {
	defer c.conn.Close()

	for msg := range c.send {
		if err := c.conn.WriteJSON(msg); err != nil {
			return
		}
	}
}

// QR handler: generates a PNG QR code for the current game URL using
// go-qrcode, so spectators can pull up the live scoreboard.
func qrHandler(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	gameID := ps.ByName("gameid")
	if gameID == "" {
		http.Error(w, "missing game id", http.StatusBadRequest)
		return
	}

	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	}

	// We are at /.../:gameid/qr; strip trailing "/qr" to get the game URL.
	path := strings.TrimSuffix(r.URL.Path, "/qr")

	url := scheme + "://" + r.Host + path

	const qrSize = 320 // mobile-friendly size
	png, err := qrcode.Encode(url, qrcode.Medium, qrSize)
	if err != nil {
		http.Error(w, "qr generation failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	_, _ = w.Write(png)
}

// ---- Static file paths ----

//go:embed gameday/index.html
var indexHTML []byte

//go:embed gameday/app.css
var gamedayCSS []byte

//go:embed gameday/app.js
var gamedayJS []byte

func getIndexHandler(cfg *Config) func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("Cache-Control", "public, max-age=3600")
		w.Header().Set("Expires", time.Now().Add(time.Hour).UTC().Format(http.TimeFormat))
		securityHeaders(cfg, w)

		_ = getOrSetPlayerID(w, r)

		_, _ = w.Write(indexHTML)
	}
}

func getCssHandler(cfg *Config) func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		w.Header().Set("Content-Type", "text/css; charset=utf-8")
		w.Header().Set("Cache-Control", "public, max-age=3600")
		w.Header().Set("Expires", time.Now().Add(time.Hour).UTC().Format(http.TimeFormat))
		securityHeaders(cfg, w)

		_, _ = w.Write(gamedayCSS)
	}
}

func getJsHandler(cfg *Config) func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		w.Header().Set("Content-Type", "application/javascript; charset=utf-8")
		w.Header().Set("Cache-Control", "public, max-age=3600")
		w.Header().Set("Expires", time.Now().Add(time.Hour).UTC().Format(http.TimeFormat))
		securityHeaders(cfg, w)

		_, _ = w.Write(gamedayJS)
	}
}

// redirectNewGame handles GET /path by generating a new random game ID
// (with server-side collision detection) and redirecting to /path/:gameid.
func redirectNewGame(cfg *Config, path string, gm *GameManager) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		gameID := gm.newGameID()
		logf(cfg, "GAMES: Created game %s/%s", path, gameID)
		http.Redirect(w, r, path+"/"+gameID, http.StatusTemporaryRedirect)
	}
}

// registerGamedayGame sets up routes so that:
//   - $path                  → redirects to new random game (8-char ID)
//   - $path/:gameid          → HTML client
//   - $path/:gameid/ws       → WebSocket for that game
//   - $path/:gameid/qr       → PNG QR code for that game URL
func registerGamedayGame(cfg *Config, path string, mux *httprouter.Router) {
	var categories CategorySource = builtinSource{}
	var outcomes OutcomeSource = builtinSource{}
	if cfg.catalogURL != "" {
		src := newHTTPSource(strings.TrimSuffix(cfg.catalogURL, "/"))
		categories = src
		outcomes = src
	}

	gm := newGameManager(cfg.sessionTimeout, categories, outcomes)

	// Root path → redirect to new random game
	mux.GET(cfg.prefix+path, redirectNewGame(cfg, cfg.prefix+path, gm))

	// Per-game client view (HTML)
	mux.GET(cfg.prefix+path+"/:gameid", getIndexHandler(cfg))

	// Shared assets (no gameid in route)
	mux.GET(cfg.prefix+"/assets/gameday/app.css", getCssHandler(cfg))
	mux.GET(cfg.prefix+"/assets/gameday/app.js", getJsHandler(cfg))

	// Per-game websocket
	mux.GET(cfg.prefix+path+"/:gameid/ws", serveWSForManager(cfg, gm))

	// Per-game QR code
	mux.GET(cfg.prefix+path+"/:gameid/qr", qrHandler)
}
