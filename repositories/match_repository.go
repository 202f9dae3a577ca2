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
	ErrMatchNotFound     = errors.New("match not found")
	ErrMatchTeamsInvalid = errors.New("match teams conflict or invalid")
)

type MatchRepository interface {
	Create(ctx context.Context, scope models.StorageScope, match *models.Match) error
	GetByID(ctx context.Context, scope models.StorageScope, id int) (*models.Match, error)
	List(ctx context.Context, scope models.StorageScope, limit, offset int) ([]*models.Match, error)
	Count(ctx context.Context, scope models.StorageScope) (int, error)
	Delete(ctx context.Context, scope models.StorageScope, id int) error
}

type postgresMatchRepository struct {
	db *sql.DB
}

func NewPostgresMatchRepository(db *sql.DB) MatchRepository {
	return &postgresMatchRepository{db: db}
}

const matchColumns = `id, date, team_a, team_b, goals_a, goals_b, scorers_a, scorers_b,
	yellow_a, red_a, yellow_b, red_b, man_of_the_match, prize_a, prize_b, created_at`

func (r *postgresMatchRepository) Create(ctx context.Context, scope models.StorageScope, match *models.Match) error {
	scorersA, err := encodeScorers(match.ScorersA)
	if err != nil {
		return fmt.Errorf("encode scorers of %s: %w", match.TeamA, err)
	}
	scorersB, err := encodeScorers(match.ScorersB)
	if err != nil {
		return fmt.Errorf("encode scorers of %s: %w", match.TeamB, err)
	}

	query := fmt.Sprintf(`
		INSERT INTO %s
			(date, team_a, team_b, goals_a, goals_b, scorers_a, scorers_b,
			 yellow_a, red_a, yellow_b, red_b, man_of_the_match, prize_a, prize_b)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING id, created_at`, scope.Table("matches"))

	err = r.db.QueryRowContext(ctx, query,
		match.Date,
		match.TeamA,
		match.TeamB,
		match.GoalsA,
		match.GoalsB,
		scorersA,
		scorersB,
		match.YellowA,
		match.RedA,
		match.YellowB,
		match.RedB,
		match.ManOfTheMatch,
		match.PrizeA,
		match.PrizeB,
	).Scan(&match.ID, &match.CreatedAt)

	return r.handleMatchError(err, scope)
}

func (r *postgresMatchRepository) scanMatch(row rowScanner) (*models.Match, error) {
	var (
		m                  models.Match
		scorersA, scorersB []byte
		prizeA, prizeB     sql.NullInt64
	)
	err := row.Scan(
		&m.ID,
		&m.Date,
		&m.TeamA,
		&m.TeamB,
		&m.GoalsA,
		&m.GoalsB,
		&scorersA,
		&scorersB,
		&m.YellowA,
		&m.RedA,
		&m.YellowB,
		&m.RedB,
		&m.ManOfTheMatch,
		&prizeA,
		&prizeB,
		&m.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	// Старые записи могли храниться без призовых полей
	m.PrizeA = prizeA.Int64
	m.PrizeB = prizeB.Int64

	if m.ScorersA, err = decodeScorers(scorersA); err != nil {
		return nil, fmt.Errorf("match %d: %w", m.ID, err)
	}
	if m.ScorersB, err = decodeScorers(scorersB); err != nil {
		return nil, fmt.Errorf("match %d: %w", m.ID, err)
	}
	return &m, nil
}

func (r *postgresMatchRepository) GetByID(ctx context.Context, scope models.StorageScope, id int) (*models.Match, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1`, matchColumns, scope.Table("matches"))

	match, err := r.scanMatch(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMatchNotFound
		}
		return nil, wrapScopeError(err, scope)
	}
	return match, nil
}

func (r *postgresMatchRepository) List(ctx context.Context, scope models.StorageScope, limit, offset int) ([]*models.Match, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s
		ORDER BY date DESC, id DESC
		LIMIT $1 OFFSET $2`, matchColumns, scope.Table("matches"))

	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, wrapScopeError(err, scope)
	}
	defer rows.Close()

	matches := make([]*models.Match, 0)
	for rows.Next() {
		match, scanErr := r.scanMatch(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		matches = append(matches, match)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return matches, nil
}

func (r *postgresMatchRepository) Count(ctx context.Context, scope models.StorageScope) (int, error) {
	query := fmt.Sprintf(`SELECT COUNT(*) FROM %s`, scope.Table("matches"))
	var count int
	if err := r.db.QueryRowContext(ctx, query).Scan(&count); err != nil {
		return 0, wrapScopeError(err, scope)
	}
	return count, nil
}

func (r *postgresMatchRepository) Delete(ctx context.Context, scope models.StorageScope, id int) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, scope.Table("matches"))
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return wrapScopeError(err, scope)
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

func (r *postgresMatchRepository) handleMatchError(err error, scope models.StorageScope) error {
	if err == nil {
		return nil
	}
	if pqErr, ok := err.(*pq.Error); ok {
		switch pqErr.Code {
		case "23503", "23514": // foreign_key_violation, check_violation
			return fmt.Errorf("%w: %s", ErrMatchTeamsInvalid, pqErr.Message)
		}
	}
	return wrapScopeError(err, scope)
}
