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

var ErrPlayerTeamUnresolved = errors.New("player of the match could not be resolved to a team")

// StatsService начисляет и откатывает голы игроков и награды "игрок
// матча". Ошибка по одному игроку не останавливает остальных, все ошибки
// возвращаются вместе.
type StatsService interface {
	ApplyGoals(ctx context.Context, scope models.StorageScope, scorers []models.ScorerEntry, team string) error
	ReverseGoals(ctx context.Context, scope models.StorageScope, scorers []models.ScorerEntry, team string) error
	ResolveTeam(ctx context.Context, scope models.StorageScope, match *models.Match, player string) (string, error)
	ApplyAward(ctx context.Context, scope models.StorageScope, player, team string) error
	ReverseAward(ctx context.Context, scope models.StorageScope, player, team string) error
}

type statsService struct {
	playerRepo repositories.PlayerRepository
	awardRepo  repositories.AwardRepository
	logger     *slog.Logger
}

func NewStatsService(playerRepo repositories.PlayerRepository, awardRepo repositories.AwardRepository, logger *slog.Logger) StatsService {
	return &statsService{
		playerRepo: playerRepo,
		awardRepo:  awardRepo,
		logger:     logger,
	}
}

func (s *statsService) ApplyGoals(ctx context.Context, scope models.StorageScope, scorers []models.ScorerEntry, team string) error {
	return s.addGoals(ctx, scope, scorers, team, 1)
}

func (s *statsService) ReverseGoals(ctx context.Context, scope models.StorageScope, scorers []models.ScorerEntry, team string) error {
	return s.addGoals(ctx, scope, scorers, team, -1)
}

func (s *statsService) addGoals(ctx context.Context, scope models.StorageScope, scorers []models.ScorerEntry, team string, sign int) error {
	var errs []error
	for _, entry := range attributableGoals(scorers) {
		player, count := entry.Player, entry.Count
		p, err := s.playerRepo.AddGoals(ctx, scope, player, team, sign*count)
		if err != nil {
			s.logger.WarnContext(ctx, "failed to update player goals",
				slog.String("scope", scope.String()),
				slog.String("player", player),
				slog.String("team", team),
				slog.Int("delta", sign*count),
				slog.Any("error", err))
			errs = append(errs, fmt.Errorf("goals for %s (%s): %w", player, team, err))
			continue
		}
		s.logger.DebugContext(ctx, "player goals updated",
			slog.String("player", p.Name), slog.String("team", p.Team), slog.Int("goals", p.Goals))
	}
	return errors.Join(errs...)
}

// attributableGoals суммирует голы по игрокам в порядке списка, без
// автоголов и пустых имён.
func attributableGoals(scorers []models.ScorerEntry) []models.ScorerEntry {
	goals := make([]models.ScorerEntry, 0, len(scorers))
	index := make(map[string]int, len(scorers))
	for _, entry := range scorers {
		name := strings.TrimSpace(entry.Player)
		if name == "" || entry.Count <= 0 || models.IsOwnGoal(name) {
			continue
		}
		if i, ok := index[name]; ok {
			goals[i].Count += entry.Count
			continue
		}
		index[name] = len(goals)
		goals = append(goals, models.ScorerEntry{Player: name, Count: entry.Count})
	}
	return goals
}

// ResolveTeam ищет команду игрока матча: сначала в списках бомбардиров,
// потом в таблице игроков.
func (s *statsService) ResolveTeam(ctx context.Context, scope models.StorageScope, match *models.Match, player string) (string, error) {
	player = strings.TrimSpace(player)
	if player == "" {
		return "", ErrPlayerTeamUnresolved
	}
	if containsScorer(match.ScorersA, player) {
		return match.TeamA, nil
	}
	if containsScorer(match.ScorersB, player) {
		return match.TeamB, nil
	}

	p, err := s.playerRepo.GetByName(ctx, scope, player)
	if err != nil {
		if errors.Is(err, repositories.ErrPlayerNotFound) {
			return "", fmt.Errorf("%w: %s", ErrPlayerTeamUnresolved, player)
		}
		return "", fmt.Errorf("lookup team of %s: %w", player, err)
	}
	if p.Team == "" {
		return "", fmt.Errorf("%w: %s has no team", ErrPlayerTeamUnresolved, player)
	}
	return p.Team, nil
}

func containsScorer(scorers []models.ScorerEntry, player string) bool {
	for _, entry := range scorers {
		if strings.TrimSpace(entry.Player) == player && !models.IsOwnGoal(player) {
			return true
		}
	}
	return false
}

func (s *statsService) ApplyAward(ctx context.Context, scope models.StorageScope, player, team string) error {
	tally, err := s.awardRepo.Increment(ctx, scope, player, team)
	if err != nil {
		return fmt.Errorf("award for %s (%s): %w", player, team, err)
	}
	s.logger.DebugContext(ctx, "award tally incremented",
		slog.String("player", tally.Name), slog.String("team", tally.Team), slog.Int("count", tally.Count))
	return nil
}

// ReverseAward уменьшает счётчик наград (не ниже нуля). Отсутствие строки
// не ошибка.
func (s *statsService) ReverseAward(ctx context.Context, scope models.StorageScope, player, team string) error {
	tally, err := s.awardRepo.Decrement(ctx, scope, player, team)
	if err != nil {
		if errors.Is(err, repositories.ErrAwardNotFound) {
			s.logger.WarnContext(ctx, "no award tally to reverse",
				slog.String("player", player), slog.String("team", team))
			return nil
		}
		return fmt.Errorf("reverse award for %s (%s): %w", player, team, err)
	}
	s.logger.DebugContext(ctx, "award tally decremented",
		slog.String("player", tally.Name), slog.String("team", tally.Team), slog.Int("count", tally.Count))
	return nil
}
