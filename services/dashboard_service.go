package services

import (
	"context"
	"fmt"

	"github.com/Dosada05/league-ledger/models"
	"github.com/Dosada05/league-ledger/repositories"
	"golang.org/x/sync/errgroup"
)

const (
	dashboardRecentTransactions = 10
	dashboardTopScorers         = 5
)

type DashboardService interface {
	GetStats(ctx context.Context, scope models.StorageScope) (models.DashboardStats, error)
}

type dashboardService struct {
	matchRepo   repositories.MatchRepository
	financeRepo repositories.FinanceRepository
	txRepo      repositories.TransactionRepository
	playerRepo  repositories.PlayerRepository
	banRepo     repositories.BanRepository
}

func NewDashboardService(
	matchRepo repositories.MatchRepository,
	financeRepo repositories.FinanceRepository,
	txRepo repositories.TransactionRepository,
	playerRepo repositories.PlayerRepository,
	banRepo repositories.BanRepository,
) DashboardService {
	return &dashboardService{
		matchRepo:   matchRepo,
		financeRepo: financeRepo,
		txRepo:      txRepo,
		playerRepo:  playerRepo,
		banRepo:     banRepo,
	}
}

// GetStats читает независимые части дашборда параллельно. Первая ошибка
// отменяет остальные чтения.
func (s *dashboardService) GetStats(ctx context.Context, scope models.StorageScope) (models.DashboardStats, error) {
	stats := models.DashboardStats{Season: scope.String()}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		count, err := s.matchRepo.Count(gctx, scope)
		if err != nil {
			return fmt.Errorf("count matches: %w", err)
		}
		stats.MatchesTotal = count
		return nil
	})
	g.Go(func() error {
		finances, err := s.financeRepo.List(gctx, scope)
		if err != nil {
			return fmt.Errorf("list finances: %w", err)
		}
		stats.Finances = finances
		return nil
	})
	g.Go(func() error {
		txs, err := s.txRepo.List(gctx, scope, nil, dashboardRecentTransactions, 0)
		if err != nil {
			return fmt.Errorf("list transactions: %w", err)
		}
		stats.RecentTransactions = make([]models.Transaction, 0, len(txs))
		for _, tx := range txs {
			stats.RecentTransactions = append(stats.RecentTransactions, *tx)
		}
		return nil
	})
	g.Go(func() error {
		bans, err := s.banRepo.ListActive(gctx, scope)
		if err != nil {
			return fmt.Errorf("list bans: %w", err)
		}
		stats.ActiveBans = len(bans)
		return nil
	})
	g.Go(func() error {
		players, err := s.playerRepo.List(gctx, scope, nil)
		if err != nil {
			return fmt.Errorf("list players: %w", err)
		}
		if len(players) > dashboardTopScorers {
			players = players[:dashboardTopScorers]
		}
		stats.TopScorers = players
		return nil
	})

	if err := g.Wait(); err != nil {
		return models.DashboardStats{}, fmt.Errorf("failed to load dashboard for season %s: %w", scope, err)
	}
	return stats, nil
}
