package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dosada05/league-ledger/models"
)

var ErrBanNotActive = errors.New("ban not found or already served")

type BanRepository interface {
	Create(ctx context.Context, scope models.StorageScope, ban *models.Ban) error
	ListActive(ctx context.Context, scope models.StorageScope) ([]models.Ban, error)
	IncrementServed(ctx context.Context, scope models.StorageScope, id int) error
}

type postgresBanRepository struct {
	db *sql.DB
}

func NewPostgresBanRepository(db *sql.DB) BanRepository {
	return &postgresBanRepository{db: db}
}

func (r *postgresBanRepository) Create(ctx context.Context, scope models.StorageScope, ban *models.Ban) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (player_name, team, totalgames, matchesserved)
		VALUES ($1, $2, $3, $4)
		RETURNING id`, scope.Table("bans"))

	err := r.db.QueryRowContext(ctx, query, ban.PlayerName, ban.Team, ban.TotalGames, ban.MatchesServed).Scan(&ban.ID)
	if err != nil {
		return wrapScopeError(err, scope)
	}
	return nil
}

func (r *postgresBanRepository) scanBans(rows *sql.Rows) ([]models.Ban, error) {
	defer rows.Close()

	bans := make([]models.Ban, 0)
	for rows.Next() {
		var b models.Ban
		if err := rows.Scan(&b.ID, &b.PlayerName, &b.Team, &b.TotalGames, &b.MatchesServed); err != nil {
			return nil, err
		}
		bans = append(bans, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return bans, nil
}

func (r *postgresBanRepository) ListActive(ctx context.Context, scope models.StorageScope) ([]models.Ban, error) {
	query := fmt.Sprintf(`
		SELECT id, player_name, team, totalgames, matchesserved
		FROM %s
		WHERE matchesserved < totalgames
		ORDER BY id ASC`, scope.Table("bans"))

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, wrapScopeError(err, scope)
	}
	return r.scanBans(rows)
}

// IncrementServed advances one ban; a ban that is already fully served is
// left untouched and reported as ErrBanNotActive.
func (r *postgresBanRepository) IncrementServed(ctx context.Context, scope models.StorageScope, id int) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET matchesserved = matchesserved + 1
		WHERE id = $1 AND matchesserved < totalgames`, scope.Table("bans"))

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return wrapScopeError(err, scope)
	}
	return checkAffectedRows(result, ErrBanNotActive)
}
