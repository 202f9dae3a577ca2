package models

type Player struct {
	ID    int    `json:"id" db:"id"`
	Name  string `json:"name" db:"name"`
	Team  string `json:"team" db:"team"`
	Goals int    `json:"goals" db:"goals"`
}

// AwardTally counts "player of the match" awards per (player, team) pair.
type AwardTally struct {
	Name  string `json:"name" db:"name"`
	Team  string `json:"team" db:"team"`
	Count int    `json:"count" db:"count"`
}
