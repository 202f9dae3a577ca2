package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/Dosada05/league-ledger/models"
	"github.com/Dosada05/league-ledger/repositories"
)

// ErrMatchesListFailed - общая ошибка для листинга матчей
var ErrMatchesListFailed = errors.New("failed to list matches")

const (
	defaultPageSize = 50
	maxPageSize     = 200
)

type MatchService interface {
	ListMatches(ctx context.Context, scope models.StorageScope, limit, offset int) ([]*models.Match, error)
	GetMatch(ctx context.Context, scope models.StorageScope, id int) (*models.Match, error)
}

type matchService struct {
	matchRepo repositories.MatchRepository
	txRepo    repositories.TransactionRepository
}

func NewMatchService(matchRepo repositories.MatchRepository, txRepo repositories.TransactionRepository) MatchService {
	return &matchService{
		matchRepo: matchRepo,
		txRepo:    txRepo,
	}
}

func (s *matchService) ListMatches(ctx context.Context, scope models.StorageScope, limit, offset int) ([]*models.Match, error) {
	limit, offset = normalizePage(limit, offset)
	matches, err := s.matchRepo.List(ctx, scope, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%w: season %s: %w", ErrMatchesListFailed, scope, err)
	}
	if matches == nil {
		return []*models.Match{}, nil
	}
	return matches, nil
}

// GetMatch возвращает матч вместе с его транзакциями.
func (s *matchService) GetMatch(ctx context.Context, scope models.StorageScope, id int) (*models.Match, error) {
	if id <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidMatchID, id)
	}
	match, err := s.matchRepo.GetByID(ctx, scope, id)
	if err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return nil, ErrMatchNotFound
		}
		return nil, fmt.Errorf("failed to get match %d: %w", id, err)
	}

	txs, err := s.txRepo.ListByMatch(ctx, scope, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get transactions of match %d: %w", id, err)
	}
	match.Transactions = make([]models.Transaction, 0, len(txs))
	for _, tx := range txs {
		match.Transactions = append(match.Transactions, *tx)
	}
	return match, nil
}

func normalizePage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
