package services

import (
	"context"
	"errors"
	"testing"

	"github.com/Dosada05/league-ledger/models"
)

func txsByType(txs []models.Transaction) map[models.TransactionType][]models.Transaction {
	byType := make(map[models.TransactionType][]models.Transaction)
	for _, tx := range txs {
		byType[tx.Type] = append(byType[tx.Type], tx)
	}
	return byType
}

func TestSettle_winnerTakesPrize(t *testing.T) {
	f := newFixture(t)
	f.setFinance("AEK", 500_000, 0)
	f.setFinance("Real", 2_000_000, 0)

	report, err := f.settlement.Settle(context.Background(), testScope, models.MatchDraft{
		Date: matchDay, TeamA: "AEK", TeamB: "Real", GoalsA: 2, GoalsB: 0,
	}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if report.Prizes.A != 1_000_000 || report.Prizes.B != -600_000 {
		t.Errorf("prizes incorrect, got: %+v", report.Prizes)
	}
	if got := f.finance("AEK"); got.Balance != 1_500_000 || got.Debt != 0 {
		t.Errorf("AEK finances incorrect, got: %+v", got)
	}
	// Проигравший покрыл потерю балансом, поэтому должен только базовую сумму
	if got := f.finance("Real"); got.Balance != 1_400_000 || got.Debt != BaseRealMoneyOwed {
		t.Errorf("Real finances incorrect, got: %+v", got)
	}

	byType := txsByType(report.Transactions)
	if len(report.Transactions) != 3 {
		t.Fatalf("wanted 3 transactions, got: %d (%+v)", len(report.Transactions), report.Transactions)
	}
	if len(byType[models.TxPrizeMoney]) != 2 {
		t.Errorf("wanted 2 prize transactions, got: %d", len(byType[models.TxPrizeMoney]))
	}
	settlement := byType[models.TxDebtSettlement]
	if len(settlement) != 1 || settlement[0].Team != "Real" || settlement[0].Amount != BaseRealMoneyOwed {
		t.Errorf("debt settlement transaction incorrect, got: %+v", settlement)
	}
	for _, tx := range report.Transactions {
		if tx.MatchID == nil || *tx.MatchID != report.MatchID {
			t.Errorf("transaction %d not tagged with match %d", tx.ID, report.MatchID)
		}
		if !tx.Date.Equal(matchDay) {
			t.Errorf("transaction date incorrect, wanted: %v, got: %v", matchDay, tx.Date)
		}
	}

	stored, err := f.store.Matches().GetByID(context.Background(), testScope, report.MatchID)
	if err != nil {
		t.Fatalf("match not stored: %v", err)
	}
	if stored.PrizeA != 1_000_000 || stored.PrizeB != -600_000 {
		t.Errorf("stored prizes incorrect, got: %d / %d", stored.PrizeA, stored.PrizeB)
	}
}

func TestSettle_loserBalanceFlooredAtZero(t *testing.T) {
	f := newFixture(t)
	f.setFinance("Real", 100_000, 0)

	report, err := f.settlement.Settle(context.Background(), testScope, models.MatchDraft{
		Date: matchDay, TeamA: "AEK", TeamB: "Real", GoalsA: 2, GoalsB: 0,
	}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got := f.finance("Real")
	if got.Balance != 0 {
		t.Errorf("balance must be floored at 0, got: %d", got.Balance)
	}
	// 5 + round((600,000 - 0) / 100,000)
	if got.Debt != 11 {
		t.Errorf("debt incorrect, wanted: 11, got: %d", got.Debt)
	}
	for _, tx := range txsByType(report.Transactions)[models.TxPrizeMoney] {
		if tx.Team == "Real" && tx.Amount != -600_000 {
			t.Errorf("prize transaction must record the full prize, got: %d", tx.Amount)
		}
	}
}

func TestSettle_draw(t *testing.T) {
	f := newFixture(t)
	f.store.AddPlayer(testScope, "Nikos", "AEK", 3)
	f.store.AddPlayer(testScope, "Pedro", "Real", 0)
	f.setFinance("AEK", 700_000, 2)

	report, err := f.settlement.Settle(context.Background(), testScope, models.MatchDraft{
		Date: matchDay, TeamA: "AEK", TeamB: "Real", GoalsA: 1, GoalsB: 1,
		ScorersA: scorers("Nikos", 1),
		ScorersB: scorers("Pedro", 1),
	}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(report.Transactions) != 0 {
		t.Errorf("a draw must not produce transactions, got: %+v", report.Transactions)
	}
	if report.Debt != nil {
		t.Errorf("a draw must not net debt, got: %+v", report.Debt)
	}
	if got := f.finance("AEK"); got.Balance != 700_000 || got.Debt != 2 {
		t.Errorf("AEK finances must be unchanged, got: %+v", got)
	}
	if p, _ := f.store.Player(testScope, "Nikos", "AEK"); p.Goals != 4 {
		t.Errorf("Nikos goals incorrect, wanted: 4, got: %d", p.Goals)
	}
	if p, _ := f.store.Player(testScope, "Pedro", "Real"); p.Goals != 1 {
		t.Errorf("Pedro goals incorrect, wanted: 1, got: %d", p.Goals)
	}
}

func TestSettle_nettingAgainstWinnerDebt(t *testing.T) {
	tests := map[string]struct {
		winnerDebt      int64
		wantWinnerDebt  int64
		wantLoserDebt   int64
		wantRepaid      int64
		wantSettlements int
	}{
		"debt larger than owed":  {winnerDebt: 12, wantWinnerDebt: 7, wantLoserDebt: 0, wantRepaid: -5, wantSettlements: 0},
		"debt smaller than owed": {winnerDebt: 3, wantWinnerDebt: 0, wantLoserDebt: 2, wantRepaid: -3, wantSettlements: 1},
		"no debt":                {winnerDebt: 0, wantWinnerDebt: 0, wantLoserDebt: 5, wantRepaid: 0, wantSettlements: 1},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			f := newFixture(t)
			f.setFinance("AEK", 2_000_000, 0)
			f.setFinance("Real", 1_000_000, tc.winnerDebt)

			report, err := f.settlement.Settle(context.Background(), testScope, models.MatchDraft{
				Date: matchDay, TeamA: "AEK", TeamB: "Real", GoalsA: 0, GoalsB: 1,
			}, nil)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if got := f.finance("Real").Debt; got != tc.wantWinnerDebt {
				t.Errorf("winner debt incorrect, wanted: %d, got: %d", tc.wantWinnerDebt, got)
			}
			if got := f.finance("AEK").Debt; got != tc.wantLoserDebt {
				t.Errorf("loser debt incorrect, wanted: %d, got: %d", tc.wantLoserDebt, got)
			}

			byType := txsByType(report.Transactions)
			repaid := byType[models.TxDebtRepaid]
			if tc.wantRepaid == 0 {
				if len(repaid) != 0 {
					t.Errorf("no repaid transaction expected, got: %+v", repaid)
				}
			} else if len(repaid) != 1 || repaid[0].Team != "Real" || repaid[0].Amount != tc.wantRepaid {
				t.Errorf("repaid transaction incorrect, got: %+v", repaid)
			}
			if got := len(byType[models.TxDebtSettlement]); got != tc.wantSettlements {
				t.Errorf("settlement transactions incorrect, wanted: %d, got: %d", tc.wantSettlements, got)
			}
		})
	}
}

func TestSettle_manOfTheMatchBonus(t *testing.T) {
	f := newFixture(t)
	f.store.AddPlayer(testScope, "Pedro", "Real", 0)
	f.store.AddPlayer(testScope, "Iker", "Real", 0)
	f.setFinance("Real", 1_000_000, 0)

	tests := map[string]struct {
		motm     string
		wantSide string
	}{
		"scorer":       {motm: "Pedro", wantSide: "Real"},
		"non-scorer":   {motm: "Iker", wantSide: "Real"},
		"unknown name": {motm: "Ghost", wantSide: ""},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			report, err := f.settlement.Settle(context.Background(), testScope, models.MatchDraft{
				Date: matchDay, TeamA: "AEK", TeamB: "Real", GoalsA: 2, GoalsB: 1,
				ScorersB:      scorers("Pedro", 1),
				ManOfTheMatch: strPtr(tc.motm),
			}, nil)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			bonus := txsByType(report.Transactions)[models.TxMatchBonus]
			if tc.wantSide == "" {
				if len(bonus) != 0 || len(report.Warnings) == 0 {
					t.Errorf("unresolved player must give no bonus and a warning, got: %+v / %v", bonus, report.Warnings)
				}
				return
			}
			if len(bonus) != 1 || bonus[0].Team != tc.wantSide || bonus[0].Amount != ManOfTheMatchBonus {
				t.Errorf("bonus transaction incorrect, got: %+v", bonus)
			}
			if report.Bonuses.B != ManOfTheMatchBonus {
				t.Errorf("report bonus incorrect, got: %+v", report.Bonuses)
			}
		})
	}

	if got := f.store.AwardCount(testScope, "Pedro", "Real"); got != 1 {
		t.Errorf("Pedro award count incorrect, wanted: 1, got: %d", got)
	}
	if got := f.store.AwardCount(testScope, "Iker", "Real"); got != 1 {
		t.Errorf("Iker award count incorrect, wanted: 1, got: %d", got)
	}
}

func TestSettle_ownGoalsNotAttributed(t *testing.T) {
	f := newFixture(t)
	f.store.AddPlayer(testScope, "Nikos", "AEK", 0)

	_, err := f.settlement.Settle(context.Background(), testScope, models.MatchDraft{
		Date: matchDay, TeamA: "AEK", TeamB: "Real", GoalsA: 3, GoalsB: 0,
		ScorersA: scorers("Nikos", 2, "Eigentor Real", 1),
	}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p, _ := f.store.Player(testScope, "Nikos", "AEK"); p.Goals != 2 {
		t.Errorf("Nikos goals incorrect, wanted: 2, got: %d", p.Goals)
	}
}

func TestSettle_advancesEveryActiveBan(t *testing.T) {
	f := newFixture(t)
	served := f.store.AddBan(testScope, "Nikos", "AEK", 2, 2)
	active := f.store.AddBan(testScope, "Pedro", "Real", 3, 1)
	other := f.store.AddBan(testScope, "Luis", "Real", 1, 0)

	report, err := f.settlement.Settle(context.Background(), testScope, models.MatchDraft{
		Date: matchDay, TeamA: "AEK", TeamB: "Real", GoalsA: 1, GoalsB: 0,
	}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := f.store.Ban(testScope, served.ID); got.MatchesServed != 2 {
		t.Errorf("fully served ban must be untouched, got: %+v", got)
	}
	if got := f.store.Ban(testScope, active.ID); got.MatchesServed != 2 {
		t.Errorf("active ban must advance by one, got: %+v", got)
	}
	if got := f.store.Ban(testScope, other.ID); got.MatchesServed != 1 {
		t.Errorf("active ban must advance by one, got: %+v", got)
	}
	if len(report.AdvancedBans) != 2 {
		t.Errorf("wanted 2 advanced bans, got: %v", report.AdvancedBans)
	}
}

func TestSettle_validation(t *testing.T) {
	tests := map[string]struct {
		draft   models.MatchDraft
		wantErr error
	}{
		"unknown team":    {draft: models.MatchDraft{TeamA: "AEK", TeamB: "Ajax"}, wantErr: ErrUnknownTeam},
		"same team":       {draft: models.MatchDraft{TeamA: "AEK", TeamB: "AEK"}, wantErr: ErrInvalidDraft},
		"missing team":    {draft: models.MatchDraft{TeamA: "AEK"}, wantErr: ErrInvalidDraft},
		"negative goals":  {draft: models.MatchDraft{TeamA: "AEK", TeamB: "Real", GoalsA: -1}, wantErr: ErrInvalidDraft},
		"negative cards":  {draft: models.MatchDraft{TeamA: "AEK", TeamB: "Real", RedB: -2}, wantErr: ErrInvalidDraft},
		"empty scorer":    {draft: models.MatchDraft{TeamA: "AEK", TeamB: "Real", ScorersA: scorers(" ", 1)}, wantErr: ErrInvalidDraft},
		"zero count":      {draft: models.MatchDraft{TeamA: "AEK", TeamB: "Real", ScorersA: scorers("Nikos", 0)}, wantErr: ErrInvalidDraft},
		"duplicate entry": {draft: models.MatchDraft{TeamA: "AEK", TeamB: "Real", ScorersB: scorers("Pedro", 1, "Pedro", 1)}, wantErr: ErrInvalidDraft},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			f := newFixture(t)
			report, err := f.settlement.Settle(context.Background(), testScope, tc.draft, nil)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("error incorrect, wanted: %v, got: %v", tc.wantErr, err)
			}
			if report != nil {
				t.Errorf("validation errors must not return a report")
			}
			count, _ := f.store.Matches().Count(context.Background(), testScope)
			if count != 0 || f.store.TransactionCount(testScope) != 0 {
				t.Errorf("validation errors must not write anything")
			}
		})
	}
}

func TestSettle_defaultsDateToToday(t *testing.T) {
	f := newFixture(t)

	report, err := f.settlement.Settle(context.Background(), testScope, models.MatchDraft{
		TeamA: "AEK", TeamB: "Real", GoalsA: 1, GoalsB: 0,
	}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !report.Match.Date.Equal(matchDay) {
		t.Errorf("date incorrect, wanted: %v, got: %v", matchDay, report.Match.Date)
	}
}

func TestSettle_partialLedgerFailure(t *testing.T) {
	f := newFixture(t)
	f.setFinance("AEK", 500_000, 0)
	f.setFinance("Real", 2_000_000, 0)
	f.store.FailFinance["Real"] = errors.New("connection reset")

	report, err := f.settlement.Settle(context.Background(), testScope, models.MatchDraft{
		Date: matchDay, TeamA: "AEK", TeamB: "Real", GoalsA: 2, GoalsB: 0,
	}, nil)
	if !errors.Is(err, ErrSettlementFailed) {
		t.Fatalf("wanted ErrSettlementFailed, got: %v", err)
	}
	if report == nil || report.MatchID == 0 {
		t.Fatalf("a partial settlement must still return the report")
	}
	if got := f.finance("AEK"); got.Balance != 1_500_000 {
		t.Errorf("the other team must still be settled, got: %+v", got)
	}
	if got := f.finance("Real"); got.Balance != 2_000_000 {
		t.Errorf("failed team must be unchanged, got: %+v", got)
	}
	if len(report.Warnings) == 0 {
		t.Errorf("failures must be listed in the warnings")
	}
}

func TestSettle_editReplacesMatch(t *testing.T) {
	f := newFixture(t)
	f.setFinance("AEK", 500_000, 0)
	f.setFinance("Real", 2_000_000, 0)

	first, err := f.settlement.Settle(context.Background(), testScope, models.MatchDraft{
		Date: matchDay, TeamA: "AEK", TeamB: "Real", GoalsA: 2, GoalsB: 0,
	}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Результат исправлен: на самом деле выиграл Real 0:1
	second, err := f.settlement.Settle(context.Background(), testScope, models.MatchDraft{
		Date: matchDay, TeamA: "AEK", TeamB: "Real", GoalsA: 0, GoalsB: 1,
	}, intPtr(first.MatchID))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if second.Replaced == nil || second.Replaced.MatchID != first.MatchID {
		t.Errorf("report must carry the replaced match, got: %+v", second.Replaced)
	}
	if _, err := f.store.Matches().GetByID(context.Background(), testScope, first.MatchID); err == nil {
		t.Errorf("replaced match must be deleted")
	}
	// AEK: 500,000 - 550,000 -> 0, долг 5 + round(5.5); Real: 2,000,000 + 1,000,000
	if got := f.finance("AEK"); got.Balance != 0 || got.Debt != 11 {
		t.Errorf("AEK finances incorrect, got: %+v", got)
	}
	if got := f.finance("Real"); got.Balance != 3_000_000 || got.Debt != 0 {
		t.Errorf("Real finances incorrect, got: %+v", got)
	}
}

func TestSettle_editKeepsPartialReversalReport(t *testing.T) {
	f := newFixture(t)
	f.setFinance("AEK", 500_000, 0)
	f.setFinance("Real", 2_000_000, 0)

	first, err := f.settlement.Settle(context.Background(), testScope, models.MatchDraft{
		Date: matchDay, TeamA: "AEK", TeamB: "Real", GoalsA: 2, GoalsB: 0,
	}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	f.store.FailFinance["Real"] = errors.New("connection reset")
	report, err := f.settlement.Settle(context.Background(), testScope, models.MatchDraft{
		Date: matchDay, TeamA: "AEK", TeamB: "Real", GoalsA: 0, GoalsB: 1,
	}, intPtr(first.MatchID))
	if !errors.Is(err, ErrReversalFailed) {
		t.Fatalf("wanted ErrReversalFailed, got: %v", err)
	}
	if report == nil || report.Replaced == nil {
		t.Fatalf("report of the partial reversal must be returned, got: %+v", report)
	}
	if report.Replaced.MatchID != first.MatchID || report.Replaced.TransactionsReversed == 0 {
		t.Errorf("replaced report incorrect, got: %+v", report.Replaced)
	}
	if report.MatchID != 0 {
		t.Errorf("no new match must be written, got id: %d", report.MatchID)
	}
	if len(report.Warnings) == 0 {
		t.Errorf("reversal failures must be listed in the warnings")
	}
	if count, _ := f.store.Matches().Count(context.Background(), testScope); count != 0 {
		t.Errorf("wanted no matches after the partial edit, got: %d", count)
	}
}

func TestSettle_editUnknownMatch(t *testing.T) {
	f := newFixture(t)

	_, err := f.settlement.Settle(context.Background(), testScope, models.MatchDraft{
		Date: matchDay, TeamA: "AEK", TeamB: "Real", GoalsA: 1, GoalsB: 0,
	}, intPtr(42))
	if !errors.Is(err, ErrMatchNotFound) {
		t.Fatalf("wanted ErrMatchNotFound, got: %v", err)
	}
	if count, _ := f.store.Matches().Count(context.Background(), testScope); count != 0 {
		t.Errorf("nothing must be written when the edited match is missing")
	}
}

func TestSettle_publishesEvent(t *testing.T) {
	f := newFixture(t)

	report, err := f.settlement.Settle(context.Background(), testScope, models.MatchDraft{
		Date: matchDay, TeamA: "AEK", TeamB: "Real", GoalsA: 1, GoalsB: 0,
	}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(f.publisher.events) != 1 {
		t.Fatalf("wanted 1 event, got: %d", len(f.publisher.events))
	}
	ev := f.publisher.events[0]
	if ev.room != "2024" || ev.eventType != EventMatchSettled {
		t.Errorf("event incorrect, got: %+v", ev)
	}
	if payload, ok := ev.payload.(MatchSettledPayload); !ok || payload.MatchID != report.MatchID {
		t.Errorf("payload incorrect, got: %+v", ev.payload)
	}
}
