package services

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/Dosada05/league-ledger/models"
	"github.com/Dosada05/league-ledger/testutils"
	"github.com/itbasis/go-clock"
)

var (
	testScope = models.StorageScope{Season: "2024"}
	testTeams = [2]string{"AEK", "Real"}
	matchDay  = time.Date(2024, time.May, 4, 0, 0, 0, 0, time.UTC)
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type publishedEvent struct {
	room      string
	eventType string
	payload   interface{}
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []publishedEvent
}

func (p *recordingPublisher) Publish(room string, eventType string, payload interface{}) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, publishedEvent{room: room, eventType: eventType, payload: payload})
}

type recordingArchiver struct {
	archived []int
	err      error
}

func (a *recordingArchiver) ArchiveMatch(ctx context.Context, scope models.StorageScope, match *models.Match, txs []*models.Transaction) (string, error) {
	if a.err != nil {
		return "", a.err
	}
	a.archived = append(a.archived, match.ID)
	return "archive/" + scope.String(), nil
}

type fixture struct {
	store      *testutils.Store
	clock      *clock.Mock
	publisher  *recordingPublisher
	archiver   *recordingArchiver
	stats      StatsService
	reversal   ReversalService
	settlement SettlementService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	store := testutils.NewStore()
	if err := store.InitSeason(context.Background(), testScope, testTeams[:]); err != nil {
		t.Fatalf("failed to init season: %v", err)
	}

	clk := clock.NewMock()
	clk.Set(matchDay.Add(20 * time.Hour))

	f := &fixture{
		store:     store,
		clock:     clk,
		publisher: &recordingPublisher{},
		archiver:  &recordingArchiver{},
	}
	logger := discardLogger()
	f.stats = NewStatsService(store.Players(), store.Awards(), logger)
	f.reversal = NewReversalService(store.Matches(), store.Transactions(), store.Finances(), f.stats, f.archiver, f.publisher, logger)
	f.settlement = NewSettlementService(store.Matches(), store.Transactions(), store.Finances(), store.Bans(),
		f.stats, f.reversal, f.publisher, clk, testTeams, logger)
	return f
}

func (f *fixture) setFinance(team string, balance, debt int64) {
	f.store.SetFinance(testScope, models.TeamFinance{Team: team, Balance: balance, Debt: debt})
}

func (f *fixture) finance(team string) models.TeamFinance {
	return f.store.Finance(testScope, team)
}

func scorers(entries ...interface{}) []models.ScorerEntry {
	list := make([]models.ScorerEntry, 0, len(entries)/2)
	for i := 0; i+1 < len(entries); i += 2 {
		list = append(list, models.ScorerEntry{Player: entries[i].(string), Count: entries[i+1].(int)})
	}
	return list
}

func strPtr(s string) *string {
	return &s
}

func intPtr(i int) *int {
	return &i
}
