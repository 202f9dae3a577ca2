package models

import (
	"strings"
	"time"
)

// ScorerEntry - один бомбардир в списке голов команды.
type ScorerEntry struct {
	Player string `json:"player"`
	Count  int    `json:"count"`
}

type Match struct {
	ID            int           `json:"id" db:"id"`
	Date          time.Time     `json:"date" db:"date"`
	TeamA         string        `json:"team_a" db:"team_a"`
	TeamB         string        `json:"team_b" db:"team_b"`
	GoalsA        int           `json:"goals_a" db:"goals_a"`
	GoalsB        int           `json:"goals_b" db:"goals_b"`
	ScorersA      []ScorerEntry `json:"scorers_a" db:"scorers_a"`
	ScorersB      []ScorerEntry `json:"scorers_b" db:"scorers_b"`
	YellowA       int           `json:"yellow_a" db:"yellow_a"`
	RedA          int           `json:"red_a" db:"red_a"`
	YellowB       int           `json:"yellow_b" db:"yellow_b"`
	RedB          int           `json:"red_b" db:"red_b"`
	ManOfTheMatch *string       `json:"man_of_the_match,omitempty" db:"man_of_the_match"`
	PrizeA        int64         `json:"prize_a" db:"prize_a"` // Фактически применённое призовое, нужно для отката
	PrizeB        int64         `json:"prize_b" db:"prize_b"`
	CreatedAt     time.Time     `json:"created_at" db:"created_at"`
	Transactions  []Transaction `json:"transactions,omitempty" db:"-"`
}

// MatchDraft is a validated match that has not been stored yet.
type MatchDraft struct {
	Date          time.Time
	TeamA         string
	TeamB         string
	GoalsA        int
	GoalsB        int
	ScorersA      []ScorerEntry
	ScorersB      []ScorerEntry
	YellowA       int
	RedA          int
	YellowB       int
	RedB          int
	ManOfTheMatch *string
}

// Scorers returns the scorer list recorded for the given team, or nil when
// the team did not play in this match.
func (m *Match) Scorers(team string) []ScorerEntry {
	switch team {
	case m.TeamA:
		return m.ScorersA
	case m.TeamB:
		return m.ScorersB
	}
	return nil
}

func (m *Match) HasManOfTheMatch() bool {
	return m.ManOfTheMatch != nil && strings.TrimSpace(*m.ManOfTheMatch) != ""
}

func (d *MatchDraft) HasManOfTheMatch() bool {
	return d.ManOfTheMatch != nil && strings.TrimSpace(*d.ManOfTheMatch) != ""
}

var ownGoalMarkers = []string{"eigentor", "own goal"}

// IsOwnGoal reports whether a scorer-list name is an own-goal placeholder.
func IsOwnGoal(player string) bool {
	name := strings.ToLower(strings.TrimSpace(player))
	for _, marker := range ownGoalMarkers {
		if strings.HasPrefix(name, marker) {
			return true
		}
	}
	return false
}

// DeriveGoals computes both scores from the scorer lists. An own-goal entry
// in one team's list counts for the other team.
func DeriveGoals(scorersA, scorersB []ScorerEntry) (goalsA, goalsB int) {
	for _, s := range scorersA {
		if IsOwnGoal(s.Player) {
			goalsB += s.Count
		} else {
			goalsA += s.Count
		}
	}
	for _, s := range scorersB {
		if IsOwnGoal(s.Player) {
			goalsA += s.Count
		} else {
			goalsB += s.Count
		}
	}
	return goalsA, goalsB
}
