package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Dosada05/league-ledger/models"
	"github.com/Dosada05/league-ledger/repositories"
)

type ReversalService interface {
	Reverse(ctx context.Context, scope models.StorageScope, matchID int) (*ReversalReport, error)
}

type ReversalReport struct {
	MatchID              int                  `json:"match_id"`
	TransactionsReversed int                  `json:"transactions_reversed"`
	FallbackTeams        []string             `json:"fallback_teams,omitempty"` // команды, откатанные по полям prize матча
	ArchiveLocation      string               `json:"archive_location,omitempty"`
	Finances             []models.TeamFinance `json:"finances,omitempty"`
	Warnings             []string             `json:"warnings,omitempty"`
}

type reversalService struct {
	matchRepo repositories.MatchRepository
	ledger    *ledger
	stats     StatsService
	archiver  MatchArchiver
	publisher EventPublisher
	logger    *slog.Logger
}

// NewReversalService: archiver и publisher могут быть nil.
func NewReversalService(
	matchRepo repositories.MatchRepository,
	txRepo repositories.TransactionRepository,
	financeRepo repositories.FinanceRepository,
	stats StatsService,
	archiver MatchArchiver,
	publisher EventPublisher,
	logger *slog.Logger,
) ReversalService {
	return &reversalService{
		matchRepo: matchRepo,
		ledger:    &ledger{txRepo: txRepo, financeRepo: financeRepo, logger: logger},
		stats:     stats,
		archiver:  archiver,
		publisher: publisher,
		logger:    logger,
	}
}

// Reverse отменяет все последствия записи матча: транзакции применяются к
// финансам в обратном порядке, статистика откатывается, строки транзакций
// и матча удаляются с проверкой. Отбытые матчи дисквалификаций остаются.
func (s *reversalService) Reverse(ctx context.Context, scope models.StorageScope, matchID int) (*ReversalReport, error) {
	if matchID <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidMatchID, matchID)
	}

	logger := s.logger.With(slog.String("scope", scope.String()), slog.Int("match_id", matchID))

	match, err := s.matchRepo.GetByID(ctx, scope, matchID)
	if err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return nil, fmt.Errorf("%w: %d", ErrMatchNotFound, matchID)
		}
		return nil, fmt.Errorf("%w: load match %d: %w", ErrReversalFailed, matchID, err)
	}

	txs, err := s.ledger.txRepo.ListByMatch(ctx, scope, matchID)
	if err != nil {
		return nil, fmt.Errorf("%w: load transactions of match %d: %w", ErrReversalFailed, matchID, err)
	}
	logger.InfoContext(ctx, "reversing match", slog.Int("transactions", len(txs)))

	// С этого момента данные меняются; отмена запроса не должна оборвать откат на середине
	ctx = context.WithoutCancel(ctx)

	effects := &effectLog{matchID: matchID}
	report := &ReversalReport{MatchID: matchID}

	prizeReversed := make(map[string]bool, 2)
	// Откат строго от последней записи к первой: каждое изменение обрезается нулём
	for i := len(txs) - 1; i >= 0; i-- {
		tx := txs[i]
		var adjustErr error
		if tx.Type.AffectsDebt() {
			_, adjustErr = s.ledger.adjustDebt(ctx, scope, tx.Team, -tx.Amount)
		} else {
			_, adjustErr = s.ledger.adjustBalance(ctx, scope, tx.Team, -tx.Amount)
		}
		if adjustErr != nil {
			logger.ErrorContext(ctx, "failed to reverse transaction",
				slog.Int("transaction_id", tx.ID), slog.String("team", tx.Team), slog.Any("error", adjustErr))
			effects.fail(fmt.Errorf("transaction %d: %w", tx.ID, adjustErr))
			continue
		}
		if tx.Type == models.TxPrizeMoney {
			prizeReversed[tx.Team] = true
		}
		report.TransactionsReversed++
	}

	// Запасной путь для старых записей без транзакций: откат по призовым полям матча
	for _, side := range []struct {
		team  string
		prize int64
	}{{match.TeamA, match.PrizeA}, {match.TeamB, match.PrizeB}} {
		if side.prize == 0 || prizeReversed[side.team] {
			continue
		}
		if _, err := s.ledger.adjustBalance(ctx, scope, side.team, -side.prize); err != nil {
			logger.ErrorContext(ctx, "failed to reverse stored prize", slog.String("team", side.team), slog.Any("error", err))
			effects.fail(fmt.Errorf("stored prize of %s: %w", side.team, err))
			continue
		}
		logger.WarnContext(ctx, "reversed stored prize without a matching transaction",
			slog.String("team", side.team), slog.Int64("prize", side.prize))
		report.FallbackTeams = append(report.FallbackTeams, side.team)
	}

	if s.archiver != nil {
		location, archiveErr := s.archiver.ArchiveMatch(ctx, scope, match, txs)
		if archiveErr != nil {
			logger.WarnContext(ctx, "failed to archive match before deletion", slog.Any("error", archiveErr))
			effects.warn("archive: %v", archiveErr)
		} else {
			report.ArchiveLocation = location
		}
	}

	if err := s.deleteTransactions(ctx, scope, matchID); err != nil {
		logger.ErrorContext(ctx, "transaction deletion failed", slog.Any("error", err))
		return report, errors.Join(err, effects.err())
	}

	if err := s.stats.ReverseGoals(ctx, scope, match.ScorersA, match.TeamA); err != nil {
		effects.warn("%v", err)
	}
	if err := s.stats.ReverseGoals(ctx, scope, match.ScorersB, match.TeamB); err != nil {
		effects.warn("%v", err)
	}

	if match.HasManOfTheMatch() {
		player := *match.ManOfTheMatch
		team, resolveErr := s.stats.ResolveTeam(ctx, scope, match, player)
		if resolveErr != nil {
			logger.WarnContext(ctx, "skipping award reversal", slog.String("player", player), slog.Any("error", resolveErr))
			effects.warn("award: %v", resolveErr)
		} else if awardErr := s.stats.ReverseAward(ctx, scope, player, team); awardErr != nil {
			logger.WarnContext(ctx, "failed to reverse award", slog.String("player", player), slog.Any("error", awardErr))
			effects.warn("award: %v", awardErr)
		}
	}

	if err := s.deleteMatch(ctx, scope, matchID); err != nil {
		logger.ErrorContext(ctx, "match deletion failed", slog.Any("error", err))
		return report, errors.Join(err, effects.err())
	}

	report.Warnings = effects.warnings
	report.Finances = s.currentFinances(ctx, scope, match)

	if s.publisher != nil {
		s.publisher.Publish(scope.String(), EventMatchReversed, MatchReversedPayload{MatchID: matchID, Finances: report.Finances})
	}

	if ledgerErr := effects.err(); ledgerErr != nil {
		return report, fmt.Errorf("%w: match %d deleted but ledger is incomplete: %w", ErrReversalFailed, matchID, ledgerErr)
	}
	logger.InfoContext(ctx, "match reversed",
		slog.Int("transactions_reversed", report.TransactionsReversed), slog.Int("warnings", len(report.Warnings)))
	return report, nil
}

func (s *reversalService) deleteTransactions(ctx context.Context, scope models.StorageScope, matchID int) error {
	if _, err := s.ledger.txRepo.DeleteByMatch(ctx, scope, matchID); err != nil {
		return fmt.Errorf("%w: delete transactions of match %d: %w", ErrReversalFailed, matchID, err)
	}
	remaining, err := s.ledger.txRepo.CountByMatch(ctx, scope, matchID)
	if err != nil {
		return fmt.Errorf("%w: verify transactions of match %d: %w", ErrReversalFailed, matchID, err)
	}
	if remaining > 0 {
		return fmt.Errorf("%w: %d left for match %d", ErrTransactionDeletionIncomplete, remaining, matchID)
	}
	return nil
}

func (s *reversalService) deleteMatch(ctx context.Context, scope models.StorageScope, matchID int) error {
	if err := s.matchRepo.Delete(ctx, scope, matchID); err != nil && !errors.Is(err, repositories.ErrMatchNotFound) {
		return fmt.Errorf("%w: delete match %d: %w", ErrReversalFailed, matchID, err)
	}
	_, err := s.matchRepo.GetByID(ctx, scope, matchID)
	switch {
	case errors.Is(err, repositories.ErrMatchNotFound):
		return nil
	case err != nil:
		return fmt.Errorf("%w: verify match %d: %w", ErrMatchDeletionFailed, matchID, err)
	default:
		return fmt.Errorf("%w: match %d", ErrMatchDeletionFailed, matchID)
	}
}

func (s *reversalService) currentFinances(ctx context.Context, scope models.StorageScope, match *models.Match) []models.TeamFinance {
	finances := make([]models.TeamFinance, 0, 2)
	for _, team := range []string{match.TeamA, match.TeamB} {
		f, err := s.ledger.finance(ctx, scope, team)
		if err != nil {
			s.logger.WarnContext(ctx, "failed to load finances after reversal", slog.String("team", team), slog.Any("error", err))
			continue
		}
		finances = append(finances, *f)
	}
	return finances
}
