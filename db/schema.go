package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Dosada05/league-ledger/models"
)

// EnsureSchema creates the season's tables if they are missing and seeds one
// finance row per team. Existing rows are left as they are.
func EnsureSchema(ctx context.Context, db *sql.DB, scope models.StorageScope, teams []string) error {
	finances := scope.Table("finances")
	statements := []string{
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			team    TEXT PRIMARY KEY,
			balance BIGINT NOT NULL DEFAULT 0 CHECK (balance >= 0),
			debt    BIGINT NOT NULL DEFAULT 0 CHECK (debt >= 0)
		)`, finances),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			id               SERIAL PRIMARY KEY,
			date             DATE NOT NULL,
			team_a           TEXT NOT NULL REFERENCES %s (team),
			team_b           TEXT NOT NULL REFERENCES %s (team),
			goals_a          INT NOT NULL DEFAULT 0,
			goals_b          INT NOT NULL DEFAULT 0,
			scorers_a        JSONB,
			scorers_b        JSONB,
			yellow_a         INT NOT NULL DEFAULT 0,
			red_a            INT NOT NULL DEFAULT 0,
			yellow_b         INT NOT NULL DEFAULT 0,
			red_b            INT NOT NULL DEFAULT 0,
			man_of_the_match TEXT,
			prize_a          BIGINT,
			prize_b          BIGINT,
			created_at       TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			CHECK (team_a <> team_b)
		)`, scope.Table("matches"), finances, finances),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			id         SERIAL PRIMARY KEY,
			date       DATE NOT NULL,
			type       TEXT NOT NULL,
			team       TEXT NOT NULL REFERENCES %s (team),
			amount     BIGINT NOT NULL,
			match_id   INT,
			info       TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`, scope.Table("transactions"), finances),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %s ON %s (match_id)`,
			scope.Table("transactions_match_id_idx"), scope.Table("transactions")),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			id    SERIAL PRIMARY KEY,
			name  TEXT NOT NULL,
			team  TEXT NOT NULL,
			goals INT NOT NULL DEFAULT 0 CHECK (goals >= 0),
			UNIQUE (name, team)
		)`, scope.Table("players")),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			name  TEXT NOT NULL,
			team  TEXT NOT NULL,
			count INT NOT NULL DEFAULT 0 CHECK (count >= 0),
			PRIMARY KEY (name, team)
		)`, scope.Table("spieler_des_spiels")),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			id            SERIAL PRIMARY KEY,
			player_name   TEXT NOT NULL,
			team          TEXT NOT NULL,
			totalgames    INT NOT NULL CHECK (totalgames >= 0),
			matchesserved INT NOT NULL DEFAULT 0 CHECK (matchesserved >= 0)
		)`, scope.Table("bans")),
	}

	for _, stmt := range statements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to ensure schema for season %s: %w", scope, err)
		}
	}

	seed := fmt.Sprintf(`INSERT INTO %s (team, balance, debt) VALUES ($1, 0, 0) ON CONFLICT (team) DO NOTHING`, finances)
	for _, team := range teams {
		if _, err := db.ExecContext(ctx, seed, team); err != nil {
			return fmt.Errorf("failed to seed finances for team %s: %w", team, err)
		}
	}
	return nil
}
