package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Dosada05/league-ledger/models"
	"github.com/Dosada05/league-ledger/repositories"
	"github.com/itbasis/go-clock"
)

type SettlementService interface {
	// Settle записывает матч со всеми денежными и статистическими
	// последствиями. С editID старый матч сначала откатывается.
	Settle(ctx context.Context, scope models.StorageScope, draft models.MatchDraft, editID *int) (*SettlementReport, error)
}

type SettlementReport struct {
	MatchID      int                  `json:"match_id"`
	Match        *models.Match        `json:"match"`
	Prizes       Prizes               `json:"prizes"`
	Bonuses      Bonuses              `json:"bonuses"`
	Debt         *DebtNetting         `json:"debt,omitempty"`
	Transactions []models.Transaction `json:"transactions"`
	AdvancedBans []int                `json:"advanced_bans"`
	Finances     []models.TeamFinance `json:"finances,omitempty"`
	Replaced     *ReversalReport      `json:"replaced,omitempty"`
	Warnings     []string             `json:"warnings,omitempty"`
}

type settlementService struct {
	matchRepo repositories.MatchRepository
	banRepo   repositories.BanRepository
	ledger    *ledger
	stats     StatsService
	reversal  ReversalService
	publisher EventPublisher
	clock     clock.Clock
	teams     [2]string
	logger    *slog.Logger
}

func NewSettlementService(
	matchRepo repositories.MatchRepository,
	txRepo repositories.TransactionRepository,
	financeRepo repositories.FinanceRepository,
	banRepo repositories.BanRepository,
	stats StatsService,
	reversal ReversalService,
	publisher EventPublisher,
	clk clock.Clock,
	teams [2]string,
	logger *slog.Logger,
) SettlementService {
	return &settlementService{
		matchRepo: matchRepo,
		banRepo:   banRepo,
		ledger:    &ledger{txRepo: txRepo, financeRepo: financeRepo, logger: logger},
		stats:     stats,
		reversal:  reversal,
		publisher: publisher,
		clock:     clk,
		teams:     teams,
		logger:    logger,
	}
}

func (s *settlementService) Settle(ctx context.Context, scope models.StorageScope, draft models.MatchDraft, editID *int) (*SettlementReport, error) {
	if err := s.validateDraft(&draft); err != nil {
		return nil, err
	}
	if editID != nil && *editID <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidMatchID, *editID)
	}

	report := &SettlementReport{}

	// Редактирование = полный откат старого матча и запись нового
	if editID != nil {
		replaced, err := s.reversal.Reverse(ctx, scope, *editID)
		if err != nil {
			if replaced == nil {
				return nil, fmt.Errorf("replace match %d: %w", *editID, err)
			}
			// Старый матч откатан частично, новый не записываем
			report.Replaced = replaced
			report.Warnings = replaced.Warnings
			return report, fmt.Errorf("replace match %d: %w", *editID, err)
		}
		report.Replaced = replaced
	}

	prizes := CalculatePrizes(draft.GoalsA, draft.GoalsB, draft.YellowA, draft.RedA, draft.YellowB, draft.RedB)
	match := &models.Match{
		Date:          draft.Date,
		TeamA:         draft.TeamA,
		TeamB:         draft.TeamB,
		GoalsA:        draft.GoalsA,
		GoalsB:        draft.GoalsB,
		ScorersA:      draft.ScorersA,
		ScorersB:      draft.ScorersB,
		YellowA:       draft.YellowA,
		RedA:          draft.RedA,
		YellowB:       draft.YellowB,
		RedB:          draft.RedB,
		ManOfTheMatch: draft.ManOfTheMatch,
		PrizeA:        prizes.A,
		PrizeB:        prizes.B,
	}
	if err := s.matchRepo.Create(ctx, scope, match); err != nil {
		return nil, fmt.Errorf("%w: insert match: %w", ErrSettlementFailed, err)
	}

	// Матч уже записан; дальше доводим последовательность до конца даже при отмене запроса
	ctx = context.WithoutCancel(ctx)

	logger := s.logger.With(slog.String("scope", scope.String()), slog.Int("match_id", match.ID))
	logger.InfoContext(ctx, "settling match",
		slog.String("team_a", match.TeamA), slog.String("team_b", match.TeamB),
		slog.Int("goals_a", match.GoalsA), slog.Int("goals_b", match.GoalsB),
		slog.Int64("prize_a", prizes.A), slog.Int64("prize_b", prizes.B))

	effects := &effectLog{matchID: match.ID}
	report.MatchID = match.ID
	report.Match = match
	report.Prizes = prizes

	if err := s.stats.ApplyGoals(ctx, scope, match.ScorersA, match.TeamA); err != nil {
		effects.warn("%v", err)
	}
	if err := s.stats.ApplyGoals(ctx, scope, match.ScorersB, match.TeamB); err != nil {
		effects.warn("%v", err)
	}

	bonusSide := SideNone
	if match.HasManOfTheMatch() {
		bonusSide = s.applyAward(ctx, scope, logger, effects, match)
	}
	report.Bonuses = CalculateBonus(bonusSide)

	sides := [2]struct {
		side Side
		team string
	}{{SideA, match.TeamA}, {SideB, match.TeamB}}

	balanceAfter := make(map[Side]int64, 2)
	balanceKnown := make(map[Side]bool, 2)

	for _, sd := range sides {
		bonus := report.Bonuses.For(sd.side)
		if bonus == 0 {
			continue
		}
		finance, err := s.credit(ctx, scope, effects, match, sd.team, models.TxMatchBonus, bonus,
			fmt.Sprintf("Spieler des Spiels: %s", *match.ManOfTheMatch))
		if err != nil {
			logger.ErrorContext(ctx, "failed to apply bonus", slog.String("team", sd.team), slog.Any("error", err))
			effects.fail(err)
			continue
		}
		balanceAfter[sd.side], balanceKnown[sd.side] = finance.Balance, true
	}

	for _, sd := range sides {
		prize := prizes.For(sd.side)
		if prize == 0 {
			continue
		}
		finance, err := s.credit(ctx, scope, effects, match, sd.team, models.TxPrizeMoney, prize,
			fmt.Sprintf("%s %d:%d %s", match.TeamA, match.GoalsA, match.GoalsB, match.TeamB))
		if err != nil {
			logger.ErrorContext(ctx, "failed to apply prize", slog.String("team", sd.team), slog.Any("error", err))
			effects.fail(err)
			continue
		}
		balanceAfter[sd.side], balanceKnown[sd.side] = finance.Balance, true
	}

	if prizes.Winner != SideNone {
		winner, loser := sides[prizes.Winner-1], sides[prizes.Loser()-1]
		for _, sd := range []Side{winner.side, loser.side} {
			if balanceKnown[sd] {
				continue
			}
			team := sides[sd-1].team
			finance, err := s.ledger.finance(ctx, scope, team)
			if err != nil {
				logger.WarnContext(ctx, "balance unknown for debt netting, assuming 0", slog.String("team", team), slog.Any("error", err))
				effects.warn("balance of %s: %v", team, err)
				continue
			}
			balanceAfter[sd] = finance.Balance
		}
		report.Debt = s.settleDebt(ctx, scope, logger, effects, match, winner.team, loser.team,
			balanceAfter[winner.side], balanceAfter[loser.side],
			prizes.For(winner.side), prizes.For(loser.side),
			report.Bonuses.For(winner.side) != 0, report.Bonuses.For(loser.side) != 0)
	}

	report.AdvancedBans = s.advanceBans(ctx, scope, logger, effects)

	report.Transactions = effects.transactions
	report.Warnings = effects.warnings
	report.Finances = s.currentFinances(ctx, scope, match)

	if s.publisher != nil {
		s.publisher.Publish(scope.String(), EventMatchSettled, MatchSettledPayload{
			MatchID:  match.ID,
			Match:    match,
			Prizes:   prizes,
			Bonuses:  report.Bonuses,
			Debt:     report.Debt,
			Finances: report.Finances,
		})
	}

	if ledgerErr := effects.err(); ledgerErr != nil {
		return report, fmt.Errorf("%w: match %d saved but ledger is incomplete: %w", ErrSettlementFailed, match.ID, ledgerErr)
	}
	logger.InfoContext(ctx, "match settled",
		slog.Int("transactions", len(report.Transactions)), slog.Int("warnings", len(report.Warnings)))
	return report, nil
}

// applyAward находит команду игрока матча, записывает награду и
// возвращает сторону, получающую бонус.
func (s *settlementService) applyAward(ctx context.Context, scope models.StorageScope, logger *slog.Logger, effects *effectLog, match *models.Match) Side {
	player := *match.ManOfTheMatch
	team, err := s.stats.ResolveTeam(ctx, scope, match, player)
	if err != nil {
		logger.WarnContext(ctx, "player of the match has no team, no award or bonus", slog.String("player", player), slog.Any("error", err))
		effects.warn("award: %v", err)
		return SideNone
	}
	if err := s.stats.ApplyAward(ctx, scope, player, team); err != nil {
		logger.WarnContext(ctx, "failed to record award", slog.String("player", player), slog.Any("error", err))
		effects.warn("award: %v", err)
	}
	switch team {
	case match.TeamA:
		return SideA
	case match.TeamB:
		return SideB
	}
	logger.WarnContext(ctx, "player of the match plays for neither team, no bonus", slog.String("player", player), slog.String("team", team))
	return SideNone
}

// credit записывает транзакцию и применяет её к балансу (не ниже нуля).
func (s *settlementService) credit(ctx context.Context, scope models.StorageScope, effects *effectLog, match *models.Match, team string, txType models.TransactionType, amount int64, info string) (*models.TeamFinance, error) {
	matchID := match.ID
	err := s.ledger.record(ctx, scope, effects, models.Transaction{
		Date:    match.Date,
		Type:    txType,
		Team:    team,
		Amount:  amount,
		MatchID: &matchID,
		Info:    info,
	})
	if err != nil {
		return nil, err
	}
	return s.ledger.adjustBalance(ctx, scope, team, amount)
}

func (s *settlementService) settleDebt(
	ctx context.Context,
	scope models.StorageScope,
	logger *slog.Logger,
	effects *effectLog,
	match *models.Match,
	winnerTeam, loserTeam string,
	winnerBalance, loserBalance int64,
	winnerPrize, loserPrize int64,
	winnerBonus, loserBonus bool,
) *DebtNetting {
	var winnerDebt int64
	if finance, err := s.ledger.finance(ctx, scope, winnerTeam); err != nil {
		logger.WarnContext(ctx, "winner debt unknown, nothing to net", slog.String("team", winnerTeam), slog.Any("error", err))
		effects.warn("debt of %s: %v", winnerTeam, err)
	} else {
		winnerDebt = finance.Debt
	}

	netting := NetDebt(winnerDebt,
		AmountOwed(loserBalance, loserPrize, loserBonus),
		AmountOwed(winnerBalance, winnerPrize, winnerBonus))
	logger.InfoContext(ctx, "debt netting",
		slog.String("winner", winnerTeam), slog.String("loser", loserTeam),
		slog.Int64("loser_owed", netting.LoserOwed), slog.Int64("netted", netting.Netted),
		slog.Int64("remainder", netting.Remainder))

	matchID := match.ID

	if netting.Netted > 0 {
		if _, err := s.ledger.adjustDebt(ctx, scope, winnerTeam, -netting.Netted); err != nil {
			logger.ErrorContext(ctx, "failed to reduce winner debt", slog.String("team", winnerTeam), slog.Any("error", err))
			effects.fail(err)
			// Без списания долга запись "getilgt" была бы ложной
			netting.WinnerDebt += netting.Netted
			netting.Netted = 0
		}
	}

	if netting.Remainder > 0 {
		err := s.ledger.record(ctx, scope, effects, models.Transaction{
			Date:    match.Date,
			Type:    models.TxDebtSettlement,
			Team:    loserTeam,
			Amount:  netting.Remainder,
			MatchID: &matchID,
			Info:    fmt.Sprintf("Schulden an %s", winnerTeam),
		})
		if err == nil {
			_, err = s.ledger.adjustDebt(ctx, scope, loserTeam, netting.Remainder)
		}
		if err != nil {
			logger.ErrorContext(ctx, "failed to add loser debt", slog.String("team", loserTeam), slog.Any("error", err))
			effects.fail(err)
		}
	}

	if netting.Netted > 0 {
		err := s.ledger.record(ctx, scope, effects, models.Transaction{
			Date:    match.Date,
			Type:    models.TxDebtRepaid,
			Team:    winnerTeam,
			Amount:  -netting.Netted,
			MatchID: &matchID,
			Info:    fmt.Sprintf("Verrechnet mit Schulden von %s", loserTeam),
		})
		if err != nil {
			logger.ErrorContext(ctx, "failed to record repaid debt", slog.String("team", winnerTeam), slog.Any("error", err))
			effects.fail(err)
		}
	}
	return &netting
}

// advanceBans продвигает все активные дисквалификации лиги на один матч,
// а не только игроков двух сыгравших команд.
func (s *settlementService) advanceBans(ctx context.Context, scope models.StorageScope, logger *slog.Logger, effects *effectLog) []int {
	advanced := make([]int, 0)
	bans, err := s.banRepo.ListActive(ctx, scope)
	if err != nil {
		logger.WarnContext(ctx, "failed to list active bans", slog.Any("error", err))
		effects.warn("bans: %v", err)
		return advanced
	}
	for _, ban := range bans {
		if !ban.Active() {
			continue
		}
		if err := s.banRepo.IncrementServed(ctx, scope, ban.ID); err != nil {
			if !errors.Is(err, repositories.ErrBanNotActive) {
				logger.WarnContext(ctx, "failed to advance ban", slog.Int("ban_id", ban.ID), slog.Any("error", err))
				effects.warn("ban %d: %v", ban.ID, err)
			}
			continue
		}
		advanced = append(advanced, ban.ID)
	}
	if len(advanced) > 0 {
		logger.InfoContext(ctx, "bans advanced", slog.Any("ban_ids", advanced))
	}
	return advanced
}

func (s *settlementService) currentFinances(ctx context.Context, scope models.StorageScope, match *models.Match) []models.TeamFinance {
	finances := make([]models.TeamFinance, 0, 2)
	for _, team := range []string{match.TeamA, match.TeamB} {
		f, err := s.ledger.finance(ctx, scope, team)
		if err != nil {
			s.logger.WarnContext(ctx, "failed to load finances after settlement", slog.String("team", team), slog.Any("error", err))
			continue
		}
		finances = append(finances, *f)
	}
	return finances
}

func (s *settlementService) validateDraft(draft *models.MatchDraft) error {
	draft.TeamA = strings.TrimSpace(draft.TeamA)
	draft.TeamB = strings.TrimSpace(draft.TeamB)
	if draft.TeamA == "" || draft.TeamB == "" {
		return fmt.Errorf("%w: both teams are required", ErrInvalidDraft)
	}
	if draft.TeamA == draft.TeamB {
		return fmt.Errorf("%w: a team cannot play itself", ErrInvalidDraft)
	}
	for _, team := range []string{draft.TeamA, draft.TeamB} {
		if team != s.teams[0] && team != s.teams[1] {
			return fmt.Errorf("%w: %s", ErrUnknownTeam, team)
		}
	}
	for name, v := range map[string]int{
		"goals_a": draft.GoalsA, "goals_b": draft.GoalsB,
		"yellow_a": draft.YellowA, "red_a": draft.RedA,
		"yellow_b": draft.YellowB, "red_b": draft.RedB,
	} {
		if v < 0 {
			return fmt.Errorf("%w: %s must not be negative", ErrInvalidDraft, name)
		}
	}
	if err := validateScorers(draft.ScorersA, draft.TeamA); err != nil {
		return err
	}
	if err := validateScorers(draft.ScorersB, draft.TeamB); err != nil {
		return err
	}
	if draft.ManOfTheMatch != nil {
		name := strings.TrimSpace(*draft.ManOfTheMatch)
		if name == "" {
			draft.ManOfTheMatch = nil
		} else {
			draft.ManOfTheMatch = &name
		}
	}
	if draft.Date.IsZero() {
		draft.Date = s.clock.Now().UTC().Truncate(24 * time.Hour)
	}
	return nil
}

func validateScorers(scorers []models.ScorerEntry, team string) error {
	seen := make(map[string]bool, len(scorers))
	for _, entry := range scorers {
		name := strings.TrimSpace(entry.Player)
		if name == "" {
			return fmt.Errorf("%w: scorer without a name for %s", ErrInvalidDraft, team)
		}
		if entry.Count <= 0 {
			return fmt.Errorf("%w: scorer %s of %s needs a positive count", ErrInvalidDraft, name, team)
		}
		if seen[name] {
			return fmt.Errorf("%w: scorer %s listed twice for %s", ErrInvalidDraft, name, team)
		}
		seen[name] = true
	}
	return nil
}
