package models

import "time"

type TransactionType string

const (
	TxPrizeMoney     TransactionType = "Preisgeld"
	TxMatchBonus     TransactionType = "SdS Bonus"
	TxDebtSettlement TransactionType = "Echtgeld-Ausgleich"
	TxDebtRepaid     TransactionType = "Echtgeld-Ausgleich (getilgt)"
)

// AffectsDebt reports whether a transaction of this type moves the team's
// real-money debt instead of its virtual balance.
func (t TransactionType) AffectsDebt() bool {
	return t == TxDebtSettlement || t == TxDebtRepaid
}

type Transaction struct {
	ID        int             `json:"id" db:"id"`
	Date      time.Time       `json:"date" db:"date"`
	Type      TransactionType `json:"type" db:"type"`
	Team      string          `json:"team" db:"team"`
	Amount    int64           `json:"amount" db:"amount"`
	MatchID   *int            `json:"match_id,omitempty" db:"match_id"` // nil для ручных транзакций
	Info      string          `json:"info" db:"info"`
	CreatedAt time.Time       `json:"created_at" db:"created_at"`
}
