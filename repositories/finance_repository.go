package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dosada05/league-ledger/models"
	"github.com/lib/pq"
)

var (
	ErrFinanceNotFound = errors.New("team finance row not found")
	ErrFinanceConflict = errors.New("team finance row already exists")
)

// FinanceRepository holds one row per team. Adjust* run as a single UPDATE
// that floors the result at zero and returns the stored row.
type FinanceRepository interface {
	Create(ctx context.Context, scope models.StorageScope, finance *models.TeamFinance) error
	GetByTeam(ctx context.Context, scope models.StorageScope, team string) (*models.TeamFinance, error)
	List(ctx context.Context, scope models.StorageScope) ([]models.TeamFinance, error)
	AdjustBalance(ctx context.Context, scope models.StorageScope, team string, delta int64) (*models.TeamFinance, error)
	AdjustDebt(ctx context.Context, scope models.StorageScope, team string, delta int64) (*models.TeamFinance, error)
}

type postgresFinanceRepository struct {
	db *sql.DB
}

func NewPostgresFinanceRepository(db *sql.DB) FinanceRepository {
	return &postgresFinanceRepository{db: db}
}

func (r *postgresFinanceRepository) Create(ctx context.Context, scope models.StorageScope, finance *models.TeamFinance) error {
	query := fmt.Sprintf(`INSERT INTO %s (team, balance, debt) VALUES ($1, $2, $3)`, scope.Table("finances"))

	_, err := r.db.ExecContext(ctx, query, finance.Team, finance.Balance, finance.Debt)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return ErrFinanceConflict
		}
		return wrapScopeError(err, scope)
	}
	return nil
}

func (r *postgresFinanceRepository) GetByTeam(ctx context.Context, scope models.StorageScope, team string) (*models.TeamFinance, error) {
	query := fmt.Sprintf(`SELECT team, balance, debt FROM %s WHERE team = $1`, scope.Table("finances"))

	var f models.TeamFinance
	err := r.db.QueryRowContext(ctx, query, team).Scan(&f.Team, &f.Balance, &f.Debt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrFinanceNotFound
		}
		return nil, wrapScopeError(err, scope)
	}
	return &f, nil
}

func (r *postgresFinanceRepository) List(ctx context.Context, scope models.StorageScope) ([]models.TeamFinance, error) {
	query := fmt.Sprintf(`SELECT team, balance, debt FROM %s ORDER BY team ASC`, scope.Table("finances"))

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, wrapScopeError(err, scope)
	}
	defer rows.Close()

	finances := make([]models.TeamFinance, 0, 2)
	for rows.Next() {
		var f models.TeamFinance
		if scanErr := rows.Scan(&f.Team, &f.Balance, &f.Debt); scanErr != nil {
			return nil, scanErr
		}
		finances = append(finances, f)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return finances, nil
}

func (r *postgresFinanceRepository) AdjustBalance(ctx context.Context, scope models.StorageScope, team string, delta int64) (*models.TeamFinance, error) {
	return r.adjust(ctx, scope, "balance", team, delta)
}

func (r *postgresFinanceRepository) AdjustDebt(ctx context.Context, scope models.StorageScope, team string, delta int64) (*models.TeamFinance, error) {
	return r.adjust(ctx, scope, "debt", team, delta)
}

// column всегда константа из этого файла, не пользовательский ввод
func (r *postgresFinanceRepository) adjust(ctx context.Context, scope models.StorageScope, column, team string, delta int64) (*models.TeamFinance, error) {
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = GREATEST(%s + $1, 0)
		WHERE team = $2
		RETURNING team, balance, debt`, scope.Table("finances"), column, column)

	var f models.TeamFinance
	err := r.db.QueryRowContext(ctx, query, delta, team).Scan(&f.Team, &f.Balance, &f.Debt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrFinanceNotFound
		}
		return nil, wrapScopeError(err, scope)
	}
	return &f, nil
}
