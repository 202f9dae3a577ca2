package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Dosada05/league-ledger/models"
	"github.com/Dosada05/league-ledger/repositories"
)

// ErrSeasonNotInitialized - таблицы сезона ещё не созданы
var ErrSeasonNotInitialized = repositories.ErrScopeNotInitialized

// SchemaInitializer создаёт таблицы сезона и строки финансов команд.
type SchemaInitializer func(ctx context.Context, scope models.StorageScope, teams []string) error

type SeasonService interface {
	Init(ctx context.Context, scope models.StorageScope) ([]models.TeamFinance, error)
}

type seasonService struct {
	initSchema  SchemaInitializer
	financeRepo repositories.FinanceRepository
	teams       [2]string
	logger      *slog.Logger
}

func NewSeasonService(initSchema SchemaInitializer, financeRepo repositories.FinanceRepository, teams [2]string, logger *slog.Logger) SeasonService {
	return &seasonService{
		initSchema:  initSchema,
		financeRepo: financeRepo,
		teams:       teams,
		logger:      logger,
	}
}

// Init идемпотентен: данные существующего сезона не трогаются.
func (s *seasonService) Init(ctx context.Context, scope models.StorageScope) ([]models.TeamFinance, error) {
	if err := s.initSchema(ctx, scope, s.teams[:]); err != nil {
		return nil, fmt.Errorf("failed to initialize season %s: %w", scope, err)
	}
	s.logger.InfoContext(ctx, "season initialized", slog.String("scope", scope.String()))

	finances, err := s.financeRepo.List(ctx, scope)
	if err != nil {
		return nil, fmt.Errorf("failed to list finances for season %s: %w", scope, err)
	}
	return finances, nil
}
