package testutils

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/Dosada05/league-ledger/models"
	"github.com/Dosada05/league-ledger/repositories"
)

type season struct {
	matches      map[int]models.Match
	transactions map[int]models.Transaction
	finances     map[string]models.TeamFinance
	players      map[int]models.Player
	awards       map[[2]string]int
	bans         map[int]models.Ban
}

// Store is an in-memory stand-in for the postgres repositories with the same
// floor-at-zero semantics. A season must be initialized before use.
type Store struct {
	mu      sync.Mutex
	seasons map[string]*season
	nextID  int

	// FailFinance makes every finance adjustment of the team fail.
	FailFinance map[string]error
}

func NewStore() *Store {
	return &Store{
		seasons:     make(map[string]*season),
		FailFinance: make(map[string]error),
	}
}

// InitSeason has the signature of services.SchemaInitializer.
func (s *Store) InitSeason(ctx context.Context, scope models.StorageScope, teams []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	se, ok := s.seasons[scope.String()]
	if !ok {
		se = &season{
			matches:      make(map[int]models.Match),
			transactions: make(map[int]models.Transaction),
			finances:     make(map[string]models.TeamFinance),
			players:      make(map[int]models.Player),
			awards:       make(map[[2]string]int),
			bans:         make(map[int]models.Ban),
		}
		s.seasons[scope.String()] = se
	}
	for _, team := range teams {
		if _, ok := se.finances[team]; !ok {
			se.finances[team] = models.TeamFinance{Team: team}
		}
	}
	return nil
}

func (s *Store) season(scope models.StorageScope) (*season, error) {
	se, ok := s.seasons[scope.String()]
	if !ok {
		return nil, repositories.ErrScopeNotInitialized
	}
	return se, nil
}

func (s *Store) id() int {
	s.nextID++
	return s.nextID
}

// SetFinance overwrites a team's row.
func (s *Store) SetFinance(scope models.StorageScope, f models.TeamFinance) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seasons[scope.String()].finances[f.Team] = f
}

func (s *Store) Finance(scope models.StorageScope, team string) models.TeamFinance {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.seasons[scope.String()].finances[team]
}

func (s *Store) AddPlayer(scope models.StorageScope, name, team string, goals int) models.Player {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := models.Player{ID: s.id(), Name: name, Team: team, Goals: goals}
	s.seasons[scope.String()].players[p.ID] = p
	return p
}

func (s *Store) Player(scope models.StorageScope, name, team string) (models.Player, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.seasons[scope.String()].players {
		if p.Name == name && p.Team == team {
			return p, true
		}
	}
	return models.Player{}, false
}

func (s *Store) RemovePlayer(scope models.StorageScope, name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	se := s.seasons[scope.String()]
	for id, p := range se.players {
		if p.Name == name {
			delete(se.players, id)
		}
	}
}

func (s *Store) AwardCount(scope models.StorageScope, name, team string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.seasons[scope.String()].awards[[2]string{name, team}]
}

func (s *Store) AddBan(scope models.StorageScope, player, team string, total, served int) models.Ban {
	s.mu.Lock()
	defer s.mu.Unlock()
	b := models.Ban{ID: s.id(), PlayerName: player, Team: team, TotalGames: total, MatchesServed: served}
	s.seasons[scope.String()].bans[b.ID] = b
	return b
}

func (s *Store) Ban(scope models.StorageScope, id int) models.Ban {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.seasons[scope.String()].bans[id]
}

// InsertMatch stores a match row directly, bypassing settlement.
func (s *Store) InsertMatch(scope models.StorageScope, m models.Match) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	m.ID = s.id()
	s.seasons[scope.String()].matches[m.ID] = m
	return m.ID
}

func (s *Store) TransactionCount(scope models.StorageScope) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.seasons[scope.String()].transactions)
}

func (s *Store) Matches() repositories.MatchRepository { return matchRepo{s} }
func (s *Store) Transactions() repositories.TransactionRepository { return txRepo{s} }
func (s *Store) Finances() repositories.FinanceRepository { return financeRepo{s} }
func (s *Store) Players() repositories.PlayerRepository { return playerRepo{s} }
func (s *Store) Awards() repositories.AwardRepository { return awardRepo{s} }
func (s *Store) Bans() repositories.BanRepository { return banRepo{s} }

type matchRepo struct{ s *Store }

func (r matchRepo) Create(ctx context.Context, scope models.StorageScope, match *models.Match) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	se, err := r.s.season(scope)
	if err != nil {
		return err
	}
	if _, ok := se.finances[match.TeamA]; !ok {
		return repositories.ErrMatchTeamsInvalid
	}
	if _, ok := se.finances[match.TeamB]; !ok || match.TeamA == match.TeamB {
		return repositories.ErrMatchTeamsInvalid
	}
	match.ID = r.s.id()
	match.CreatedAt = time.Now()
	stored := *match
	stored.Transactions = nil
	se.matches[match.ID] = stored
	return nil
}

func (r matchRepo) GetByID(ctx context.Context, scope models.StorageScope, id int) (*models.Match, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	se, err := r.s.season(scope)
	if err != nil {
		return nil, err
	}
	m, ok := se.matches[id]
	if !ok {
		return nil, repositories.ErrMatchNotFound
	}
	return &m, nil
}

func (r matchRepo) List(ctx context.Context, scope models.StorageScope, limit, offset int) ([]*models.Match, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	se, err := r.s.season(scope)
	if err != nil {
		return nil, err
	}
	matches := make([]*models.Match, 0, len(se.matches))
	for _, m := range se.matches {
		m := m
		matches = append(matches, &m)
	}
	sort.Slice(matches, func(i, j int) bool {
		if !matches[i].Date.Equal(matches[j].Date) {
			return matches[i].Date.After(matches[j].Date)
		}
		return matches[i].ID > matches[j].ID
	})
	return page(matches, limit, offset), nil
}

func (r matchRepo) Count(ctx context.Context, scope models.StorageScope) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	se, err := r.s.season(scope)
	if err != nil {
		return 0, err
	}
	return len(se.matches), nil
}

func (r matchRepo) Delete(ctx context.Context, scope models.StorageScope, id int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	se, err := r.s.season(scope)
	if err != nil {
		return err
	}
	if _, ok := se.matches[id]; !ok {
		return repositories.ErrMatchNotFound
	}
	delete(se.matches, id)
	return nil
}

type txRepo struct{ s *Store }

func (r txRepo) Create(ctx context.Context, scope models.StorageScope, tx *models.Transaction) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	se, err := r.s.season(scope)
	if err != nil {
		return err
	}
	if _, ok := se.finances[tx.Team]; !ok {
		return repositories.ErrTransactionTeamInvalid
	}
	tx.ID = r.s.id()
	tx.CreatedAt = time.Now()
	se.transactions[tx.ID] = *tx
	return nil
}

func (r txRepo) ListByMatch(ctx context.Context, scope models.StorageScope, matchID int) ([]*models.Transaction, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	se, err := r.s.season(scope)
	if err != nil {
		return nil, err
	}
	txs := make([]*models.Transaction, 0)
	for _, tx := range se.transactions {
		if tx.MatchID != nil && *tx.MatchID == matchID {
			tx := tx
			txs = append(txs, &tx)
		}
	}
	sort.Slice(txs, func(i, j int) bool { return txs[i].ID < txs[j].ID })
	return txs, nil
}

func (r txRepo) CountByMatch(ctx context.Context, scope models.StorageScope, matchID int) (int, error) {
	txs, err := r.ListByMatch(ctx, scope, matchID)
	return len(txs), err
}

func (r txRepo) DeleteByMatch(ctx context.Context, scope models.StorageScope, matchID int) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	se, err := r.s.season(scope)
	if err != nil {
		return 0, err
	}
	var deleted int64
	for id, tx := range se.transactions {
		if tx.MatchID != nil && *tx.MatchID == matchID {
			delete(se.transactions, id)
			deleted++
		}
	}
	return deleted, nil
}

func (r txRepo) List(ctx context.Context, scope models.StorageScope, team *string, limit, offset int) ([]*models.Transaction, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	se, err := r.s.season(scope)
	if err != nil {
		return nil, err
	}
	txs := make([]*models.Transaction, 0)
	for _, tx := range se.transactions {
		if team != nil && tx.Team != *team {
			continue
		}
		tx := tx
		txs = append(txs, &tx)
	}
	sort.Slice(txs, func(i, j int) bool { return txs[i].ID > txs[j].ID })
	return page(txs, limit, offset), nil
}

type financeRepo struct{ s *Store }

func (r financeRepo) Create(ctx context.Context, scope models.StorageScope, finance *models.TeamFinance) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	se, err := r.s.season(scope)
	if err != nil {
		return err
	}
	if _, ok := se.finances[finance.Team]; ok {
		return repositories.ErrFinanceConflict
	}
	se.finances[finance.Team] = *finance
	return nil
}

func (r financeRepo) GetByTeam(ctx context.Context, scope models.StorageScope, team string) (*models.TeamFinance, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	se, err := r.s.season(scope)
	if err != nil {
		return nil, err
	}
	f, ok := se.finances[team]
	if !ok {
		return nil, repositories.ErrFinanceNotFound
	}
	return &f, nil
}

func (r financeRepo) List(ctx context.Context, scope models.StorageScope) ([]models.TeamFinance, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	se, err := r.s.season(scope)
	if err != nil {
		return nil, err
	}
	finances := make([]models.TeamFinance, 0, len(se.finances))
	for _, f := range se.finances {
		finances = append(finances, f)
	}
	sort.Slice(finances, func(i, j int) bool { return finances[i].Team < finances[j].Team })
	return finances, nil
}

func (r financeRepo) AdjustBalance(ctx context.Context, scope models.StorageScope, team string, delta int64) (*models.TeamFinance, error) {
	return r.adjust(scope, team, func(f *models.TeamFinance) { f.Balance = max(f.Balance+delta, 0) })
}

func (r financeRepo) AdjustDebt(ctx context.Context, scope models.StorageScope, team string, delta int64) (*models.TeamFinance, error) {
	return r.adjust(scope, team, func(f *models.TeamFinance) { f.Debt = max(f.Debt+delta, 0) })
}

func (r financeRepo) adjust(scope models.StorageScope, team string, apply func(*models.TeamFinance)) (*models.TeamFinance, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	se, err := r.s.season(scope)
	if err != nil {
		return nil, err
	}
	if err := r.s.FailFinance[team]; err != nil {
		return nil, err
	}
	f, ok := se.finances[team]
	if !ok {
		return nil, repositories.ErrFinanceNotFound
	}
	apply(&f)
	se.finances[team] = f
	return &f, nil
}

type playerRepo struct{ s *Store }

func (r playerRepo) Create(ctx context.Context, scope models.StorageScope, player *models.Player) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	se, err := r.s.season(scope)
	if err != nil {
		return err
	}
	for _, p := range se.players {
		if p.Name == player.Name && p.Team == player.Team {
			return repositories.ErrPlayerConflict
		}
	}
	player.ID = r.s.id()
	se.players[player.ID] = *player
	return nil
}

func (r playerRepo) GetByName(ctx context.Context, scope models.StorageScope, name string) (*models.Player, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	se, err := r.s.season(scope)
	if err != nil {
		return nil, err
	}
	var found *models.Player
	for _, p := range se.players {
		if p.Name == name && (found == nil || p.ID < found.ID) {
			p := p
			found = &p
		}
	}
	if found == nil {
		return nil, repositories.ErrPlayerNotFound
	}
	return found, nil
}

func (r playerRepo) AddGoals(ctx context.Context, scope models.StorageScope, name, team string, delta int) (*models.Player, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	se, err := r.s.season(scope)
	if err != nil {
		return nil, err
	}
	for id, p := range se.players {
		if p.Name == name && p.Team == team {
			p.Goals = max(p.Goals+delta, 0)
			se.players[id] = p
			return &p, nil
		}
	}
	return nil, repositories.ErrPlayerNotFound
}

func (r playerRepo) List(ctx context.Context, scope models.StorageScope, team *string) ([]models.Player, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	se, err := r.s.season(scope)
	if err != nil {
		return nil, err
	}
	players := make([]models.Player, 0)
	for _, p := range se.players {
		if team == nil || p.Team == *team {
			players = append(players, p)
		}
	}
	sort.Slice(players, func(i, j int) bool {
		if players[i].Goals != players[j].Goals {
			return players[i].Goals > players[j].Goals
		}
		return players[i].Name < players[j].Name
	})
	return players, nil
}

type awardRepo struct{ s *Store }

func (r awardRepo) Increment(ctx context.Context, scope models.StorageScope, name, team string) (*models.AwardTally, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	se, err := r.s.season(scope)
	if err != nil {
		return nil, err
	}
	key := [2]string{name, team}
	se.awards[key]++
	return &models.AwardTally{Name: name, Team: team, Count: se.awards[key]}, nil
}

func (r awardRepo) Decrement(ctx context.Context, scope models.StorageScope, name, team string) (*models.AwardTally, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	se, err := r.s.season(scope)
	if err != nil {
		return nil, err
	}
	key := [2]string{name, team}
	count, ok := se.awards[key]
	if !ok {
		return nil, repositories.ErrAwardNotFound
	}
	se.awards[key] = max(count-1, 0)
	return &models.AwardTally{Name: name, Team: team, Count: se.awards[key]}, nil
}

func (r awardRepo) List(ctx context.Context, scope models.StorageScope) ([]models.AwardTally, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	se, err := r.s.season(scope)
	if err != nil {
		return nil, err
	}
	tallies := make([]models.AwardTally, 0)
	for key, count := range se.awards {
		if count > 0 {
			tallies = append(tallies, models.AwardTally{Name: key[0], Team: key[1], Count: count})
		}
	}
	sort.Slice(tallies, func(i, j int) bool {
		if tallies[i].Count != tallies[j].Count {
			return tallies[i].Count > tallies[j].Count
		}
		return tallies[i].Name < tallies[j].Name
	})
	return tallies, nil
}

type banRepo struct{ s *Store }

func (r banRepo) Create(ctx context.Context, scope models.StorageScope, ban *models.Ban) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	se, err := r.s.season(scope)
	if err != nil {
		return err
	}
	ban.ID = r.s.id()
	se.bans[ban.ID] = *ban
	return nil
}

func (r banRepo) ListActive(ctx context.Context, scope models.StorageScope) ([]models.Ban, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	se, err := r.s.season(scope)
	if err != nil {
		return nil, err
	}
	bans := make([]models.Ban, 0)
	for _, b := range se.bans {
		if b.Active() {
			bans = append(bans, b)
		}
	}
	sort.Slice(bans, func(i, j int) bool { return bans[i].ID < bans[j].ID })
	return bans, nil
}

func (r banRepo) IncrementServed(ctx context.Context, scope models.StorageScope, id int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	se, err := r.s.season(scope)
	if err != nil {
		return err
	}
	b, ok := se.bans[id]
	if !ok || !b.Active() {
		return repositories.ErrBanNotActive
	}
	b.MatchesServed++
	se.bans[id] = b
	return nil
}

func page[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return items[:0]
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
