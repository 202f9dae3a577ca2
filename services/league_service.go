package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/Dosada05/league-ledger/models"
	"github.com/Dosada05/league-ledger/repositories"
)

// LeagueService - чтение финансов, транзакций и статистики.
type LeagueService interface {
	ListFinances(ctx context.Context, scope models.StorageScope) ([]models.TeamFinance, error)
	ListTransactions(ctx context.Context, scope models.StorageScope, team string, limit, offset int) ([]*models.Transaction, error)
	ListPlayers(ctx context.Context, scope models.StorageScope, team string) ([]models.Player, error)
	ListAwards(ctx context.Context, scope models.StorageScope) ([]models.AwardTally, error)
	Teams() [2]string
}

type leagueService struct {
	financeRepo repositories.FinanceRepository
	txRepo      repositories.TransactionRepository
	playerRepo  repositories.PlayerRepository
	awardRepo   repositories.AwardRepository
	teams       [2]string
}

func NewLeagueService(
	financeRepo repositories.FinanceRepository,
	txRepo repositories.TransactionRepository,
	playerRepo repositories.PlayerRepository,
	awardRepo repositories.AwardRepository,
	teams [2]string,
) LeagueService {
	return &leagueService{
		financeRepo: financeRepo,
		txRepo:      txRepo,
		playerRepo:  playerRepo,
		awardRepo:   awardRepo,
		teams:       teams,
	}
}

func (s *leagueService) Teams() [2]string {
	return s.teams
}

func (s *leagueService) ListFinances(ctx context.Context, scope models.StorageScope) ([]models.TeamFinance, error) {
	finances, err := s.financeRepo.List(ctx, scope)
	if err != nil {
		return nil, fmt.Errorf("failed to list finances for season %s: %w", scope, err)
	}
	return finances, nil
}

func (s *leagueService) teamFilter(team string) (*string, error) {
	team = strings.TrimSpace(team)
	if team == "" {
		return nil, nil
	}
	if team != s.teams[0] && team != s.teams[1] {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTeam, team)
	}
	return &team, nil
}

func (s *leagueService) ListTransactions(ctx context.Context, scope models.StorageScope, team string, limit, offset int) ([]*models.Transaction, error) {
	filter, err := s.teamFilter(team)
	if err != nil {
		return nil, err
	}
	limit, offset = normalizePage(limit, offset)
	txs, err := s.txRepo.List(ctx, scope, filter, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions for season %s: %w", scope, err)
	}
	return txs, nil
}

func (s *leagueService) ListPlayers(ctx context.Context, scope models.StorageScope, team string) ([]models.Player, error) {
	filter, err := s.teamFilter(team)
	if err != nil {
		return nil, err
	}
	players, err := s.playerRepo.List(ctx, scope, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list players for season %s: %w", scope, err)
	}
	return players, nil
}

func (s *leagueService) ListAwards(ctx context.Context, scope models.StorageScope) ([]models.AwardTally, error) {
	awards, err := s.awardRepo.List(ctx, scope)
	if err != nil {
		return nil, fmt.Errorf("failed to list awards for season %s: %w", scope, err)
	}
	return awards, nil
}
