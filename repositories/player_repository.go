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
	ErrPlayerNotFound = errors.New("player not found")
	ErrPlayerConflict = errors.New("player already exists in this team")
)

type PlayerRepository interface {
	Create(ctx context.Context, scope models.StorageScope, player *models.Player) error
	GetByName(ctx context.Context, scope models.StorageScope, name string) (*models.Player, error)
	AddGoals(ctx context.Context, scope models.StorageScope, name, team string, delta int) (*models.Player, error)
	List(ctx context.Context, scope models.StorageScope, team *string) ([]models.Player, error)
}

type postgresPlayerRepository struct {
	db *sql.DB
}

func NewPostgresPlayerRepository(db *sql.DB) PlayerRepository {
	return &postgresPlayerRepository{db: db}
}

func (r *postgresPlayerRepository) Create(ctx context.Context, scope models.StorageScope, player *models.Player) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (name, team, goals)
		VALUES ($1, $2, $3)
		RETURNING id`, scope.Table("players"))

	err := r.db.QueryRowContext(ctx, query, player.Name, player.Team, player.Goals).Scan(&player.ID)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return ErrPlayerConflict
		}
		return wrapScopeError(err, scope)
	}
	return nil
}

func (r *postgresPlayerRepository) GetByName(ctx context.Context, scope models.StorageScope, name string) (*models.Player, error) {
	query := fmt.Sprintf(`SELECT id, name, team, goals FROM %s WHERE name = $1 ORDER BY id LIMIT 1`, scope.Table("players"))

	var p models.Player
	err := r.db.QueryRowContext(ctx, query, name).Scan(&p.ID, &p.Name, &p.Team, &p.Goals)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPlayerNotFound
		}
		return nil, wrapScopeError(err, scope)
	}
	return &p, nil
}

// AddGoals adds delta (possibly negative) to the player's goals, never
// going below zero.
func (r *postgresPlayerRepository) AddGoals(ctx context.Context, scope models.StorageScope, name, team string, delta int) (*models.Player, error) {
	query := fmt.Sprintf(`
		UPDATE %s
		SET goals = GREATEST(goals + $1, 0)
		WHERE name = $2 AND team = $3
		RETURNING id, name, team, goals`, scope.Table("players"))

	var p models.Player
	err := r.db.QueryRowContext(ctx, query, delta, name, team).Scan(&p.ID, &p.Name, &p.Team, &p.Goals)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPlayerNotFound
		}
		return nil, wrapScopeError(err, scope)
	}
	return &p, nil
}

func (r *postgresPlayerRepository) List(ctx context.Context, scope models.StorageScope, team *string) ([]models.Player, error) {
	query := fmt.Sprintf(`
		SELECT id, name, team, goals FROM %s
		WHERE ($1::text IS NULL OR team = $1)
		ORDER BY goals DESC, name ASC`, scope.Table("players"))

	rows, err := r.db.QueryContext(ctx, query, team)
	if err != nil {
		return nil, wrapScopeError(err, scope)
	}
	defer rows.Close()

	players := make([]models.Player, 0)
	for rows.Next() {
		var p models.Player
		if scanErr := rows.Scan(&p.ID, &p.Name, &p.Team, &p.Goals); scanErr != nil {
			return nil, scanErr
		}
		players = append(players, p)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return players, nil
}
