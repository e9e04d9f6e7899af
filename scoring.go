/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import "sort"

// Scoring rules. Lowest total wins, so every rule hands points out as a
// punishment. All three functions leave their input untouched and return
// a fresh slice.

// applyPlayPenalty gives +1 to every player NOT on the team that made the
// play: they bet on the wrong team acting.
func applyPlayPenalty(players []Player, teamThatMadePlay TeamID) []Player {
	out := make([]Player, len(players))
	copy(out, players)

	for i := range out {
		if out[i].Team != teamThatMadePlay {
			out[i].Points++
		}
	}

	return out
}

// applyLossPenalty gives +3 to every player on the losing team.
func applyLossPenalty(players []Player, losingTeam TeamID) []Player {
	out := make([]Player, len(players))
	copy(out, players)

	for i := range out {
		if out[i].Team == losingTeam {
			out[i].Points += 3
		}
	}

	return out
}

// rankAscending orders players by points, fewest first. The sort is
// stable: equal totals keep their registration order, which is also the
// tie-break for the overall winner.
func rankAscending(players []Player) []Player {
	out := make([]Player, len(players))
	copy(out, players)

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Points < out[j].Points
	})

	return out
}
