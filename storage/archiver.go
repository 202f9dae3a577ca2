package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Dosada05/league-ledger/models"
	"github.com/itbasis/go-clock"
)

type matchArchive struct {
	Season       string                `json:"season"`
	ArchivedAt   time.Time             `json:"archived_at"`
	Match        *models.Match         `json:"match"`
	Transactions []*models.Transaction `json:"transactions"`
}

// MatchArchiver uploads a JSON snapshot of a match and its ledger rows
// before they are deleted.
type MatchArchiver struct {
	uploader FileUploader
	clock    clock.Clock
}

func NewMatchArchiver(uploader FileUploader, clk clock.Clock) *MatchArchiver {
	return &MatchArchiver{uploader: uploader, clock: clk}
}

func (a *MatchArchiver) ArchiveMatch(ctx context.Context, scope models.StorageScope, match *models.Match, txs []*models.Transaction) (string, error) {
	now := a.clock.Now().UTC()
	if txs == nil {
		txs = []*models.Transaction{}
	}
	body, err := json.Marshal(matchArchive{
		Season:       scope.String(),
		ArchivedAt:   now,
		Match:        match,
		Transactions: txs,
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode archive of match %d: %w", match.ID, err)
	}

	result, err := a.uploader.Upload(ctx, ArchiveKey(scope, match.ID, now), "application/json", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	if result.Location != "" {
		return result.Location, nil
	}
	return result.Key, nil
}

// ArchiveKey - archive/<season>/match-<id>-<unix>.json
func ArchiveKey(scope models.StorageScope, matchID int, at time.Time) string {
	return fmt.Sprintf("archive/%s/match-%d-%d.json", scope.String(), matchID, at.Unix())
}
