package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Dosada05/league-ledger/models"
	"github.com/Dosada05/league-ledger/repositories"
)

// effectLog собирает всё, что сделал один проход записи или отката.
// failures - несостоявшиеся денежные операции, проход становится частичным.
// warnings - неденежные проблемы: статистика, дисквалификации, архив.
type effectLog struct {
	matchID      int
	transactions []models.Transaction
	warnings     []string
	failures     []error
}

func (l *effectLog) warn(format string, args ...interface{}) {
	l.warnings = append(l.warnings, fmt.Sprintf(format, args...))
}

func (l *effectLog) fail(err error) {
	l.failures = append(l.failures, err)
	l.warnings = append(l.warnings, err.Error())
}

func (l *effectLog) err() error {
	return errors.Join(l.failures...)
}

// ledger объединяет репозитории транзакций и финансов. Каждый вызов
// затрагивает одну строку.
type ledger struct {
	txRepo      repositories.TransactionRepository
	financeRepo repositories.FinanceRepository
	logger      *slog.Logger
}

func (l *ledger) record(ctx context.Context, scope models.StorageScope, log *effectLog, tx models.Transaction) error {
	if err := l.txRepo.Create(ctx, scope, &tx); err != nil {
		return fmt.Errorf("insert %q transaction for %s: %w", tx.Type, tx.Team, err)
	}
	log.transactions = append(log.transactions, tx)
	l.logger.InfoContext(ctx, "transaction recorded",
		slog.String("scope", scope.String()),
		slog.Int("match_id", log.matchID),
		slog.String("type", string(tx.Type)),
		slog.String("team", tx.Team),
		slog.Int64("amount", tx.Amount))
	return nil
}

func (l *ledger) adjustBalance(ctx context.Context, scope models.StorageScope, team string, delta int64) (*models.TeamFinance, error) {
	finance, err := l.financeRepo.AdjustBalance(ctx, scope, team, delta)
	if err != nil {
		return nil, fmt.Errorf("adjust balance of %s by %d: %w", team, delta, mapFinanceError(err))
	}
	return finance, nil
}

func (l *ledger) adjustDebt(ctx context.Context, scope models.StorageScope, team string, delta int64) (*models.TeamFinance, error) {
	finance, err := l.financeRepo.AdjustDebt(ctx, scope, team, delta)
	if err != nil {
		return nil, fmt.Errorf("adjust debt of %s by %d: %w", team, delta, mapFinanceError(err))
	}
	return finance, nil
}

func (l *ledger) finance(ctx context.Context, scope models.StorageScope, team string) (*models.TeamFinance, error) {
	finance, err := l.financeRepo.GetByTeam(ctx, scope, team)
	if err != nil {
		return nil, fmt.Errorf("load finances of %s: %w", team, mapFinanceError(err))
	}
	return finance, nil
}

func mapFinanceError(err error) error {
	if errors.Is(err, repositories.ErrFinanceNotFound) {
		return fmt.Errorf("%w: %w", ErrFinanceNotFound, err)
	}
	return err
}
