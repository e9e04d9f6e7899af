/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"strings"

	"github.com/google/uuid"
)

// TeamID picks one of the two teams of a session.
type TeamID int

const (
	TeamNone TeamID = iota
	Team1
	Team2
)

// Player holds the data we store server-side. Points only ever move
// through the scoring functions; players are never removed mid-session.
type Player struct {
	PlayerID string `json:"-"`
	Name     string `json:"name"`
	Team     TeamID `json:"-"`
	Points   int    `json:"points"`
}

// Roster tracks the two team names and the players entered so far.
// Registration is cursor-based: the phone prompts for one player at a
// time until count players have been entered.
type Roster struct {
	team1   string
	team2   string
	count   int
	cursor  int
	players []Player
}

func (r *Roster) SetTeams(name1, name2 string) error {
	name1 = strings.TrimSpace(name1)
	name2 = strings.TrimSpace(name2)

	if name1 == "" || name2 == "" {
		return errValidation("both team names are required")
	}
	if name1 == name2 {
		return errValidation("team names must be different")
	}

	r.team1 = name1
	r.team2 = name2
	r.players = nil
	r.count = 0
	r.cursor = 0

	return nil
}

func (r *Roster) SetCount(n int) error {
	if n < 1 {
		return errValidation("player count must be at least 1")
	}

	r.count = n
	r.cursor = 0
	r.players = nil

	return nil
}

// Add appends one player and reports whether the roster is now complete.
func (r *Roster) Add(name string, team TeamID) (bool, error) {
	name = strings.TrimSpace(name)

	if name == "" {
		return false, errValidation("player name is required")
	}
	if team != Team1 && team != Team2 {
		return false, errValidation("a team must be selected")
	}
	if r.cursor >= r.count {
		return false, errValidation("all players have already been entered")
	}

	r.players = append(r.players, Player{
		PlayerID: uuid.New().String(),
		Name:     name,
		Team:     team,
		Points:   0,
	})
	r.cursor++

	return r.cursor == r.count, nil
}

// TeamName maps a TeamID to its display name.
func (r *Roster) TeamName(id TeamID) string {
	switch id {
	case Team1:
		return r.team1
	case Team2:
		return r.team2
	}
	return ""
}
