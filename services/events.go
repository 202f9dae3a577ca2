package services

import (
	"context"

	"github.com/Dosada05/league-ledger/models"
)

const (
	EventMatchSettled  = "MATCH_SETTLED"
	EventMatchReversed = "MATCH_REVERSED"
)

// EventPublisher рассылает события клиентам, подписанным на сезон.
type EventPublisher interface {
	Publish(room string, eventType string, payload interface{})
}

// MatchArchiver сохраняет копию матча и его транзакций перед удалением при
// откате. Возвращает адрес архива.
type MatchArchiver interface {
	ArchiveMatch(ctx context.Context, scope models.StorageScope, match *models.Match, txs []*models.Transaction) (string, error)
}

type MatchSettledPayload struct {
	MatchID  int                  `json:"match_id"`
	Match    *models.Match        `json:"match"`
	Prizes   Prizes               `json:"prizes"`
	Bonuses  Bonuses              `json:"bonuses"`
	Debt     *DebtNetting         `json:"debt,omitempty"`
	Finances []models.TeamFinance `json:"finances,omitempty"`
}

type MatchReversedPayload struct {
	MatchID  int                  `json:"match_id"`
	Finances []models.TeamFinance `json:"finances,omitempty"`
}
