package services

import (
	"context"
	"errors"
	"testing"

	"github.com/Dosada05/league-ledger/models"
	"github.com/Dosada05/league-ledger/testutils"
)

func TestSeasonInit_idempotent(t *testing.T) {
	store := testutils.NewStore()
	scope := models.StorageScope{Season: "2025"}
	svc := NewSeasonService(store.InitSeason, store.Finances(), testTeams, discardLogger())

	finances, err := svc.Init(context.Background(), scope)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(finances) != 2 {
		t.Fatalf("wanted 2 finance rows, got: %d", len(finances))
	}

	store.SetFinance(scope, models.TeamFinance{Team: "AEK", Balance: 42, Debt: 1})
	if _, err := svc.Init(context.Background(), scope); err != nil {
		t.Fatalf("second init failed: %v", err)
	}
	if got := store.Finance(scope, "AEK"); got.Balance != 42 || got.Debt != 1 {
		t.Errorf("existing data must be kept, got: %+v", got)
	}
}

func TestSeasonInit_schemaFailure(t *testing.T) {
	store := testutils.NewStore()
	failing := func(ctx context.Context, scope models.StorageScope, teams []string) error {
		return errors.New("permission denied")
	}
	svc := NewSeasonService(failing, store.Finances(), testTeams, discardLogger())

	if _, err := svc.Init(context.Background(), models.StorageScope{Season: "2025"}); err == nil {
		t.Errorf("expected schema error")
	}
}

func TestUninitializedSeason(t *testing.T) {
	store := testutils.NewStore()
	svc := NewMatchService(store.Matches(), store.Transactions())

	_, err := svc.ListMatches(context.Background(), models.StorageScope{Season: "1999"}, 0, 0)
	if !errors.Is(err, ErrSeasonNotInitialized) {
		t.Errorf("wanted ErrSeasonNotInitialized, got: %v", err)
	}
}
