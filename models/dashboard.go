package models

type DashboardStats struct {
	Season             string        `json:"season"`
	MatchesTotal       int           `json:"matches_total"`
	Finances           []TeamFinance `json:"finances"`
	RecentTransactions []Transaction `json:"recent_transactions"`
	ActiveBans         int           `json:"active_bans"`
	TopScorers         []Player      `json:"top_scorers"`
}
