package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dosada05/league-ledger/models"
	"github.com/lib/pq"
)

var ErrTransactionTeamInvalid = errors.New("transaction team conflict or invalid")

// TransactionRepository is append-only: rows are created and later removed
// per match, never updated.
type TransactionRepository interface {
	Create(ctx context.Context, scope models.StorageScope, tx *models.Transaction) error
	// ListByMatch возвращает записи в порядке вставки (по id).
	ListByMatch(ctx context.Context, scope models.StorageScope, matchID int) ([]*models.Transaction, error)
	CountByMatch(ctx context.Context, scope models.StorageScope, matchID int) (int, error)
	DeleteByMatch(ctx context.Context, scope models.StorageScope, matchID int) (int64, error)
	List(ctx context.Context, scope models.StorageScope, team *string, limit, offset int) ([]*models.Transaction, error)
}

type postgresTransactionRepository struct {
	db *sql.DB
}

func NewPostgresTransactionRepository(db *sql.DB) TransactionRepository {
	return &postgresTransactionRepository{db: db}
}

func (r *postgresTransactionRepository) Create(ctx context.Context, scope models.StorageScope, tx *models.Transaction) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (date, type, team, amount, match_id, info)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`, scope.Table("transactions"))

	err := r.db.QueryRowContext(ctx, query,
		tx.Date,
		tx.Type,
		tx.Team,
		tx.Amount,
		tx.MatchID,
		tx.Info,
	).Scan(&tx.ID, &tx.CreatedAt)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23503" {
			return fmt.Errorf("%w: %s", ErrTransactionTeamInvalid, tx.Team)
		}
		return wrapScopeError(err, scope)
	}
	return nil
}

func (r *postgresTransactionRepository) scanTransactions(rows *sql.Rows) ([]*models.Transaction, error) {
	defer rows.Close()

	txs := make([]*models.Transaction, 0)
	for rows.Next() {
		var tx models.Transaction
		var matchID sql.NullInt64
		if err := rows.Scan(
			&tx.ID,
			&tx.Date,
			&tx.Type,
			&tx.Team,
			&tx.Amount,
			&matchID,
			&tx.Info,
			&tx.CreatedAt,
		); err != nil {
			return nil, err
		}
		if matchID.Valid {
			id := int(matchID.Int64)
			tx.MatchID = &id
		}
		txs = append(txs, &tx)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return txs, nil
}

func (r *postgresTransactionRepository) ListByMatch(ctx context.Context, scope models.StorageScope, matchID int) ([]*models.Transaction, error) {
	query := fmt.Sprintf(`
		SELECT id, date, type, team, amount, match_id, info, created_at
		FROM %s
		WHERE match_id = $1
		ORDER BY id ASC`, scope.Table("transactions"))

	rows, err := r.db.QueryContext(ctx, query, matchID)
	if err != nil {
		return nil, wrapScopeError(err, scope)
	}
	return r.scanTransactions(rows)
}

func (r *postgresTransactionRepository) CountByMatch(ctx context.Context, scope models.StorageScope, matchID int) (int, error) {
	query := fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE match_id = $1`, scope.Table("transactions"))
	var count int
	if err := r.db.QueryRowContext(ctx, query, matchID).Scan(&count); err != nil {
		return 0, wrapScopeError(err, scope)
	}
	return count, nil
}

func (r *postgresTransactionRepository) DeleteByMatch(ctx context.Context, scope models.StorageScope, matchID int) (int64, error) {
	query := fmt.Sprintf(`DELETE FROM %s WHERE match_id = $1`, scope.Table("transactions"))
	result, err := r.db.ExecContext(ctx, query, matchID)
	if err != nil {
		return 0, wrapScopeError(err, scope)
	}
	return checkRowsAffected(result)
}

func (r *postgresTransactionRepository) List(ctx context.Context, scope models.StorageScope, team *string, limit, offset int) ([]*models.Transaction, error) {
	query := fmt.Sprintf(`
		SELECT id, date, type, team, amount, match_id, info, created_at
		FROM %s
		WHERE ($1::text IS NULL OR team = $1)
		ORDER BY date DESC, id DESC
		LIMIT $2 OFFSET $3`, scope.Table("transactions"))

	rows, err := r.db.QueryContext(ctx, query, team, limit, offset)
	if err != nil {
		return nil, wrapScopeError(err, scope)
	}
	return r.scanTransactions(rows)
}
