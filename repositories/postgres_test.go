package repositories

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/Dosada05/league-ledger/containers"
	"github.com/Dosada05/league-ledger/db"
	"github.com/Dosada05/league-ledger/models"
)

// A global test db shared by all integration tests, nil with -short.
var testDB *sql.DB

var (
	seasonScope = models.StorageScope{Season: "it2024"}
	teams       = []string{"AEK", "Real"}
)

func TestMain(m *testing.M) {
	flag.Parse()
	if testing.Short() {
		os.Exit(m.Run())
	}

	container := containers.NewDBContainer()
	defer func() {
		// Catch all panics to make sure the shutdown is successfully run
		if r := recover(); r != nil {
			container.Shutdown()
			fmt.Printf("panic - %v\n", r)
		}
	}()

	var err error
	testDB, err = db.Connect(container.ConnectionString(), 10*time.Second, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		fmt.Printf("error connecting to db: %v", err)
		container.Shutdown()
		os.Exit(-1)
	}
	if err := db.EnsureSchema(context.Background(), testDB, seasonScope, teams); err != nil {
		fmt.Printf("error creating schema: %v", err)
		container.Shutdown()
		os.Exit(-1)
	}

	code := m.Run()
	testDB.Close()
	container.Shutdown()
	os.Exit(code)
}

func requireDB(t *testing.T) {
	t.Helper()
	if testDB == nil {
		t.Skip("integration test skipped in short mode")
	}
}

func TestFinance_adjustFloorsAtZero(t *testing.T) {
	requireDB(t)
	ctx := context.Background()
	repo := NewPostgresFinanceRepository(testDB)

	if _, err := testDB.ExecContext(ctx, fmt.Sprintf(`UPDATE %s SET balance = 100000, debt = 2 WHERE team = 'Real'`, seasonScope.Table("finances"))); err != nil {
		t.Fatalf("failed to reset finances: %v", err)
	}

	f, err := repo.AdjustBalance(ctx, seasonScope, "Real", -600_000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.Balance != 0 {
		t.Errorf("balance must be floored, got: %d", f.Balance)
	}

	f, err = repo.AdjustDebt(ctx, seasonScope, "Real", -5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.Debt != 0 {
		t.Errorf("debt must be floored, got: %d", f.Debt)
	}

	if _, err := repo.AdjustBalance(ctx, seasonScope, "Bayern", 1); !errors.Is(err, ErrFinanceNotFound) {
		t.Errorf("wanted ErrFinanceNotFound, got: %v", err)
	}
}

func TestMatchAndTransactions_lifecycle(t *testing.T) {
	requireDB(t)
	ctx := context.Background()
	matchRepo := NewPostgresMatchRepository(testDB)
	txRepo := NewPostgresTransactionRepository(testDB)

	motm := "Nikos"
	match := &models.Match{
		Date:          time.Date(2024, time.May, 4, 0, 0, 0, 0, time.UTC),
		TeamA:         "AEK",
		TeamB:         "Real",
		GoalsA:        2,
		GoalsB:        1,
		ScorersA:      []models.ScorerEntry{{Player: "Nikos", Count: 2}},
		ScorersB:      []models.ScorerEntry{{Player: "Pedro", Count: 1}},
		ManOfTheMatch: &motm,
		PrizeA:        950_000,
		PrizeB:        -600_000,
	}
	if err := matchRepo.Create(ctx, seasonScope, match); err != nil {
		t.Fatalf("failed to create match: %v", err)
	}

	got, err := matchRepo.GetByID(ctx, seasonScope, match.ID)
	if err != nil {
		t.Fatalf("failed to load match: %v", err)
	}
	if got.PrizeA != match.PrizeA || got.PrizeB != match.PrizeB {
		t.Errorf("prizes not stored, got: %d/%d", got.PrizeA, got.PrizeB)
	}
	if len(got.ScorersA) != 1 || got.ScorersA[0] != match.ScorersA[0] {
		t.Errorf("scorers not stored, got: %+v", got.ScorersA)
	}
	if got.ManOfTheMatch == nil || *got.ManOfTheMatch != motm {
		t.Errorf("player of the match not stored, got: %v", got.ManOfTheMatch)
	}

	for _, team := range teams {
		tx := &models.Transaction{Date: match.Date, Type: models.TxPrizeMoney, Team: team, Amount: 1, MatchID: &match.ID}
		if err := txRepo.Create(ctx, seasonScope, tx); err != nil {
			t.Fatalf("failed to create transaction: %v", err)
		}
	}
	if n, err := txRepo.CountByMatch(ctx, seasonScope, match.ID); err != nil || n != 2 {
		t.Fatalf("wanted 2 transactions, got: %d (%v)", n, err)
	}

	deleted, err := txRepo.DeleteByMatch(ctx, seasonScope, match.ID)
	if err != nil || deleted != 2 {
		t.Fatalf("wanted 2 deleted transactions, got: %d (%v)", deleted, err)
	}
	if err := matchRepo.Delete(ctx, seasonScope, match.ID); err != nil {
		t.Fatalf("failed to delete match: %v", err)
	}
	if _, err := matchRepo.GetByID(ctx, seasonScope, match.ID); !errors.Is(err, ErrMatchNotFound) {
		t.Errorf("wanted ErrMatchNotFound, got: %v", err)
	}
	if err := matchRepo.Delete(ctx, seasonScope, match.ID); !errors.Is(err, ErrMatchNotFound) {
		t.Errorf("second delete must report ErrMatchNotFound, got: %v", err)
	}
}

func TestTransaction_unknownTeam(t *testing.T) {
	requireDB(t)
	txRepo := NewPostgresTransactionRepository(testDB)

	err := txRepo.Create(context.Background(), seasonScope, &models.Transaction{
		Date: time.Now(), Type: models.TxMatchBonus, Team: "Bayern", Amount: 100_000,
	})
	if !errors.Is(err, ErrTransactionTeamInvalid) {
		t.Errorf("wanted ErrTransactionTeamInvalid, got: %v", err)
	}
}

func TestPlayersAndAwards(t *testing.T) {
	requireDB(t)
	ctx := context.Background()
	playerRepo := NewPostgresPlayerRepository(testDB)
	awardRepo := NewPostgresAwardRepository(testDB)

	kostas := &models.Player{Name: "Kostas", Team: "AEK", Goals: 1}
	if err := playerRepo.Create(ctx, seasonScope, kostas); err != nil {
		t.Fatalf("failed to insert player: %v", err)
	}
	if kostas.ID == 0 {
		t.Errorf("id must be set on create")
	}
	if err := playerRepo.Create(ctx, seasonScope, &models.Player{Name: "Kostas", Team: "AEK"}); !errors.Is(err, ErrPlayerConflict) {
		t.Errorf("wanted ErrPlayerConflict, got: %v", err)
	}

	p, err := playerRepo.AddGoals(ctx, seasonScope, "Kostas", "AEK", -5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Goals != 0 {
		t.Errorf("goals must be floored, got: %d", p.Goals)
	}
	if _, err := playerRepo.AddGoals(ctx, seasonScope, "Ghost", "AEK", 1); !errors.Is(err, ErrPlayerNotFound) {
		t.Errorf("wanted ErrPlayerNotFound, got: %v", err)
	}

	team := "AEK"
	players, err := playerRepo.List(ctx, seasonScope, &team)
	if err != nil || len(players) == 0 {
		t.Fatalf("wanted AEK players, got: %v (%v)", players, err)
	}

	if _, err := awardRepo.Decrement(ctx, seasonScope, "Kostas", "AEK"); !errors.Is(err, ErrAwardNotFound) {
		t.Errorf("wanted ErrAwardNotFound, got: %v", err)
	}
	for i := 1; i <= 2; i++ {
		a, err := awardRepo.Increment(ctx, seasonScope, "Kostas", "AEK")
		if err != nil || a.Count != i {
			t.Fatalf("increment %d: got %+v (%v)", i, a, err)
		}
	}
	a, err := awardRepo.Decrement(ctx, seasonScope, "Kostas", "AEK")
	if err != nil || a.Count != 1 {
		t.Errorf("wanted count 1, got: %+v (%v)", a, err)
	}
}

func TestBans_incrementServed(t *testing.T) {
	requireDB(t)
	ctx := context.Background()
	banRepo := NewPostgresBanRepository(testDB)

	ban := &models.Ban{PlayerName: "Pedro", Team: "Real", TotalGames: 1}
	if err := banRepo.Create(ctx, seasonScope, ban); err != nil {
		t.Fatalf("failed to insert ban: %v", err)
	}
	id := ban.ID

	if err := banRepo.IncrementServed(ctx, seasonScope, id); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := banRepo.IncrementServed(ctx, seasonScope, id); !errors.Is(err, ErrBanNotActive) {
		t.Errorf("served ban must not advance, got: %v", err)
	}

	active, err := banRepo.ListActive(ctx, seasonScope)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, b := range active {
		if b.ID == id {
			t.Errorf("served ban listed as active")
		}
	}
}

func TestUninitializedSeason(t *testing.T) {
	requireDB(t)
	_, err := NewPostgresMatchRepository(testDB).Count(context.Background(), models.StorageScope{Season: "missing"})
	if !errors.Is(err, ErrScopeNotInitialized) {
		t.Errorf("wanted ErrScopeNotInitialized, got: %v", err)
	}
}
