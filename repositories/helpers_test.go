package repositories

import (
	"reflect"
	"testing"

	"github.com/Dosada05/league-ledger/models"
)

func TestDecodeScorers(t *testing.T) {
	tests := map[string]struct {
		raw     string
		wanted  []models.ScorerEntry
		wantErr bool
	}{
		"null": {
			raw:    "null",
			wanted: []models.ScorerEntry{},
		},
		"empty": {
			raw:    "",
			wanted: []models.ScorerEntry{},
		},
		"object form": {
			raw:    `[{"player":"Nikos","count":2},{"player":"Eigentor Real","count":1}]`,
			wanted: []models.ScorerEntry{{Player: "Nikos", Count: 2}, {Player: "Eigentor Real", Count: 1}},
		},
		"legacy list of names": {
			raw:    `["Nikos","Pedro","Nikos"]`,
			wanted: []models.ScorerEntry{{Player: "Nikos", Count: 2}, {Player: "Pedro", Count: 1}},
		},
		"garbage": {
			raw:     `{"Nikos":2}`,
			wantErr: true,
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			got, err := decodeScorers([]byte(tc.raw))
			if tc.wantErr {
				if err == nil {
					t.Errorf("expected error, got: %+v", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !reflect.DeepEqual(got, tc.wanted) {
				t.Errorf("wanted: %+v, got: %+v", tc.wanted, got)
			}
		})
	}
}

func TestEncodeScorers_nilIsEmptyList(t *testing.T) {
	raw, err := encodeScorers(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(raw) != "[]" {
		t.Errorf("wanted: [], got: %s", raw)
	}
}
