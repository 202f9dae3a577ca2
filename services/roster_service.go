package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Dosada05/league-ledger/models"
	"github.com/Dosada05/league-ledger/repositories"
)

// RosterService ведёт состав команд и дисквалификации сезона. Голы и
// отбытые матчи меняются только при записи и откате матчей.
type RosterService interface {
	AddPlayer(ctx context.Context, scope models.StorageScope, name, team string) (*models.Player, error)
	AddBan(ctx context.Context, scope models.StorageScope, player, team string, games int) (*models.Ban, error)
}

type rosterService struct {
	playerRepo repositories.PlayerRepository
	banRepo    repositories.BanRepository
	teams      [2]string
	logger     *slog.Logger
}

func NewRosterService(playerRepo repositories.PlayerRepository, banRepo repositories.BanRepository, teams [2]string, logger *slog.Logger) RosterService {
	return &rosterService{
		playerRepo: playerRepo,
		banRepo:    banRepo,
		teams:      teams,
		logger:     logger,
	}
}

func (s *rosterService) checkTeam(team string) error {
	if team != s.teams[0] && team != s.teams[1] {
		return fmt.Errorf("%w: %s", ErrUnknownTeam, team)
	}
	return nil
}

// AddPlayer регистрирует игрока с нулём голов.
func (s *rosterService) AddPlayer(ctx context.Context, scope models.StorageScope, name, team string) (*models.Player, error) {
	name, team = strings.TrimSpace(name), strings.TrimSpace(team)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidPlayer)
	}
	if models.IsOwnGoal(name) {
		return nil, fmt.Errorf("%w: %q is reserved for own goals", ErrInvalidPlayer, name)
	}
	if err := s.checkTeam(team); err != nil {
		return nil, err
	}

	player := &models.Player{Name: name, Team: team}
	if err := s.playerRepo.Create(ctx, scope, player); err != nil {
		if errors.Is(err, repositories.ErrPlayerConflict) {
			return nil, fmt.Errorf("%w: %s (%s)", ErrPlayerExists, name, team)
		}
		return nil, fmt.Errorf("failed to add player %s to season %s: %w", name, scope, err)
	}
	s.logger.InfoContext(ctx, "player added",
		slog.String("scope", scope.String()), slog.String("player", name), slog.String("team", team))
	return player, nil
}

// AddBan записывает дисквалификацию на games матчей. Отсчёт идёт с
// ближайшего записанного матча.
func (s *rosterService) AddBan(ctx context.Context, scope models.StorageScope, player, team string, games int) (*models.Ban, error) {
	player, team = strings.TrimSpace(player), strings.TrimSpace(team)
	if player == "" {
		return nil, fmt.Errorf("%w: player is required", ErrInvalidBan)
	}
	if games <= 0 {
		return nil, fmt.Errorf("%w: games must be positive, got %d", ErrInvalidBan, games)
	}
	if err := s.checkTeam(team); err != nil {
		return nil, err
	}

	ban := &models.Ban{PlayerName: player, Team: team, TotalGames: games}
	if err := s.banRepo.Create(ctx, scope, ban); err != nil {
		return nil, fmt.Errorf("failed to add ban for %s in season %s: %w", player, scope, err)
	}
	s.logger.InfoContext(ctx, "ban added",
		slog.String("scope", scope.String()), slog.String("player", player),
		slog.String("team", team), slog.Int("games", games))
	return ban, nil
}
