package models

// TeamFinance - одна строка на команду: виртуальный баланс и реальный долг.
type TeamFinance struct {
	Team    string `json:"team" db:"team"`
	Balance int64  `json:"balance" db:"balance"`
	Debt    int64  `json:"debt" db:"debt"`
}
