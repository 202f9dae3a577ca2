package models

type Ban struct {
	ID            int    `json:"id" db:"id"`
	PlayerName    string `json:"player_name" db:"player_name"`
	Team          string `json:"team" db:"team"`
	TotalGames    int    `json:"total_games" db:"totalgames"`
	MatchesServed int    `json:"matches_served" db:"matchesserved"`
}

func (b *Ban) Active() bool {
	return b.MatchesServed < b.TotalGames
}
