package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dosada05/league-ledger/models"
)

var ErrAwardNotFound = errors.New("award tally not found")

// AwardRepository manages the "spieler_des_spiels" tally.
type AwardRepository interface {
	Increment(ctx context.Context, scope models.StorageScope, name, team string) (*models.AwardTally, error)
	Decrement(ctx context.Context, scope models.StorageScope, name, team string) (*models.AwardTally, error)
	List(ctx context.Context, scope models.StorageScope) ([]models.AwardTally, error)
}

type postgresAwardRepository struct {
	db *sql.DB
}

func NewPostgresAwardRepository(db *sql.DB) AwardRepository {
	return &postgresAwardRepository{db: db}
}

func (r *postgresAwardRepository) Increment(ctx context.Context, scope models.StorageScope, name, team string) (*models.AwardTally, error) {
	query := fmt.Sprintf(`
		INSERT INTO %[1]s (name, team, count)
		VALUES ($1, $2, 1)
		ON CONFLICT (name, team) DO UPDATE SET count = %[1]s.count + 1
		RETURNING name, team, count`, scope.Table("spieler_des_spiels"))

	var a models.AwardTally
	if err := r.db.QueryRowContext(ctx, query, name, team).Scan(&a.Name, &a.Team, &a.Count); err != nil {
		return nil, wrapScopeError(err, scope)
	}
	return &a, nil
}

func (r *postgresAwardRepository) Decrement(ctx context.Context, scope models.StorageScope, name, team string) (*models.AwardTally, error) {
	query := fmt.Sprintf(`
		UPDATE %s
		SET count = GREATEST(count - 1, 0)
		WHERE name = $1 AND team = $2
		RETURNING name, team, count`, scope.Table("spieler_des_spiels"))

	var a models.AwardTally
	err := r.db.QueryRowContext(ctx, query, name, team).Scan(&a.Name, &a.Team, &a.Count)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAwardNotFound
		}
		return nil, wrapScopeError(err, scope)
	}
	return &a, nil
}

func (r *postgresAwardRepository) List(ctx context.Context, scope models.StorageScope) ([]models.AwardTally, error) {
	query := fmt.Sprintf(`
		SELECT name, team, count FROM %s
		WHERE count > 0
		ORDER BY count DESC, name ASC`, scope.Table("spieler_des_spiels"))

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, wrapScopeError(err, scope)
	}
	defer rows.Close()

	tallies := make([]models.AwardTally, 0)
	for rows.Next() {
		var a models.AwardTally
		if scanErr := rows.Scan(&a.Name, &a.Team, &a.Count); scanErr != nil {
			return nil, scanErr
		}
		tallies = append(tallies, a)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return tallies, nil
}
