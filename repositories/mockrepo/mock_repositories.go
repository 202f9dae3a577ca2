package mockrepo

import (
	"context"

	"github.com/Dosada05/league-ledger/models"
	"github.com/stretchr/testify/mock"
)

type MatchRepository struct {
	mock.Mock
}

func (r *MatchRepository) Create(ctx context.Context, scope models.StorageScope, match *models.Match) error {
	args := r.Called(ctx, scope, match)
	return args.Error(0)
}

func (r *MatchRepository) GetByID(ctx context.Context, scope models.StorageScope, id int) (*models.Match, error) {
	args := r.Called(ctx, scope, id)

	var m *models.Match
	if args.Get(0) != nil {
		m = args.Get(0).(*models.Match)
	}
	return m, args.Error(1)
}

func (r *MatchRepository) List(ctx context.Context, scope models.StorageScope, limit, offset int) ([]*models.Match, error) {
	args := r.Called(ctx, scope, limit, offset)

	var m []*models.Match
	if args.Get(0) != nil {
		m = args.Get(0).([]*models.Match)
	}
	return m, args.Error(1)
}

func (r *MatchRepository) Count(ctx context.Context, scope models.StorageScope) (int, error) {
	args := r.Called(ctx, scope)
	return args.Int(0), args.Error(1)
}

func (r *MatchRepository) Delete(ctx context.Context, scope models.StorageScope, id int) error {
	args := r.Called(ctx, scope, id)
	return args.Error(0)
}

type TransactionRepository struct {
	mock.Mock
}

func (r *TransactionRepository) Create(ctx context.Context, scope models.StorageScope, tx *models.Transaction) error {
	args := r.Called(ctx, scope, tx)
	return args.Error(0)
}

func (r *TransactionRepository) ListByMatch(ctx context.Context, scope models.StorageScope, matchID int) ([]*models.Transaction, error) {
	args := r.Called(ctx, scope, matchID)

	var txs []*models.Transaction
	if args.Get(0) != nil {
		txs = args.Get(0).([]*models.Transaction)
	}
	return txs, args.Error(1)
}

func (r *TransactionRepository) CountByMatch(ctx context.Context, scope models.StorageScope, matchID int) (int, error) {
	args := r.Called(ctx, scope, matchID)
	return args.Int(0), args.Error(1)
}

func (r *TransactionRepository) DeleteByMatch(ctx context.Context, scope models.StorageScope, matchID int) (int64, error) {
	args := r.Called(ctx, scope, matchID)
	return args.Get(0).(int64), args.Error(1)
}

func (r *TransactionRepository) List(ctx context.Context, scope models.StorageScope, team *string, limit, offset int) ([]*models.Transaction, error) {
	args := r.Called(ctx, scope, team, limit, offset)

	var txs []*models.Transaction
	if args.Get(0) != nil {
		txs = args.Get(0).([]*models.Transaction)
	}
	return txs, args.Error(1)
}

type FinanceRepository struct {
	mock.Mock
}

func (r *FinanceRepository) Create(ctx context.Context, scope models.StorageScope, finance *models.TeamFinance) error {
	args := r.Called(ctx, scope, finance)
	return args.Error(0)
}

func (r *FinanceRepository) GetByTeam(ctx context.Context, scope models.StorageScope, team string) (*models.TeamFinance, error) {
	args := r.Called(ctx, scope, team)
	return financeArg(args), args.Error(1)
}

func (r *FinanceRepository) List(ctx context.Context, scope models.StorageScope) ([]models.TeamFinance, error) {
	args := r.Called(ctx, scope)

	var f []models.TeamFinance
	if args.Get(0) != nil {
		f = args.Get(0).([]models.TeamFinance)
	}
	return f, args.Error(1)
}

func (r *FinanceRepository) AdjustBalance(ctx context.Context, scope models.StorageScope, team string, delta int64) (*models.TeamFinance, error) {
	args := r.Called(ctx, scope, team, delta)
	return financeArg(args), args.Error(1)
}

func (r *FinanceRepository) AdjustDebt(ctx context.Context, scope models.StorageScope, team string, delta int64) (*models.TeamFinance, error) {
	args := r.Called(ctx, scope, team, delta)
	return financeArg(args), args.Error(1)
}

func financeArg(args mock.Arguments) *models.TeamFinance {
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(*models.TeamFinance)
}

type PlayerRepository struct {
	mock.Mock
}

func (r *PlayerRepository) Create(ctx context.Context, scope models.StorageScope, player *models.Player) error {
	args := r.Called(ctx, scope, player)
	return args.Error(0)
}

func (r *PlayerRepository) GetByName(ctx context.Context, scope models.StorageScope, name string) (*models.Player, error) {
	args := r.Called(ctx, scope, name)

	var p *models.Player
	if args.Get(0) != nil {
		p = args.Get(0).(*models.Player)
	}
	return p, args.Error(1)
}

func (r *PlayerRepository) AddGoals(ctx context.Context, scope models.StorageScope, name, team string, delta int) (*models.Player, error) {
	args := r.Called(ctx, scope, name, team, delta)

	var p *models.Player
	if args.Get(0) != nil {
		p = args.Get(0).(*models.Player)
	}
	return p, args.Error(1)
}

func (r *PlayerRepository) List(ctx context.Context, scope models.StorageScope, team *string) ([]models.Player, error) {
	args := r.Called(ctx, scope, team)

	var p []models.Player
	if args.Get(0) != nil {
		p = args.Get(0).([]models.Player)
	}
	return p, args.Error(1)
}

type AwardRepository struct {
	mock.Mock
}

func (r *AwardRepository) Increment(ctx context.Context, scope models.StorageScope, name, team string) (*models.AwardTally, error) {
	args := r.Called(ctx, scope, name, team)
	return tallyArg(args), args.Error(1)
}

func (r *AwardRepository) Decrement(ctx context.Context, scope models.StorageScope, name, team string) (*models.AwardTally, error) {
	args := r.Called(ctx, scope, name, team)
	return tallyArg(args), args.Error(1)
}

func (r *AwardRepository) List(ctx context.Context, scope models.StorageScope) ([]models.AwardTally, error) {
	args := r.Called(ctx, scope)

	var a []models.AwardTally
	if args.Get(0) != nil {
		a = args.Get(0).([]models.AwardTally)
	}
	return a, args.Error(1)
}

func tallyArg(args mock.Arguments) *models.AwardTally {
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(*models.AwardTally)
}

type BanRepository struct {
	mock.Mock
}

func (r *BanRepository) Create(ctx context.Context, scope models.StorageScope, ban *models.Ban) error {
	args := r.Called(ctx, scope, ban)
	return args.Error(0)
}

func (r *BanRepository) ListActive(ctx context.Context, scope models.StorageScope) ([]models.Ban, error) {
	args := r.Called(ctx, scope)

	var b []models.Ban
	if args.Get(0) != nil {
		b = args.Get(0).([]models.Ban)
	}
	return b, args.Error(1)
}

func (r *BanRepository) IncrementServed(ctx context.Context, scope models.StorageScope, id int) error {
	args := r.Called(ctx, scope, id)
	return args.Error(0)
}
