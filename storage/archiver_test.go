package storage

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/Dosada05/league-ledger/models"
	"github.com/itbasis/go-clock"
)

type fakeUploader struct {
	key         string
	contentType string
	body        []byte
	location    string
	err         error
}

func (u *fakeUploader) Upload(ctx context.Context, key string, contentType string, reader io.Reader) (*UploadResult, error) {
	if u.err != nil {
		return nil, u.err
	}
	body, err := io.ReadAll(reader)
	if err != nil {
		return nil, err
	}
	u.key, u.contentType, u.body = key, contentType, body
	return &UploadResult{Key: key, Location: u.location}, nil
}

func (u *fakeUploader) GetPublicURL(key string) string {
	return ""
}

func TestArchiveMatch(t *testing.T) {
	clk := clock.NewMock()
	now := time.Date(2024, time.May, 5, 9, 30, 0, 0, time.UTC)
	clk.Set(now)

	scope := models.StorageScope{Season: "2024"}
	match := &models.Match{ID: 17, TeamA: "AEK", TeamB: "Real", PrizeA: 1_000_000, PrizeB: -600_000}

	tests := map[string]struct {
		location string
		wanted   string
	}{
		"public location": {location: "https://cdn.example.com/archive/2024/match-17.json", wanted: "https://cdn.example.com/archive/2024/match-17.json"},
		"key fallback":    {location: "", wanted: ArchiveKey(scope, 17, now)},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			uploader := &fakeUploader{location: tc.location}
			got, err := NewMatchArchiver(uploader, clk).ArchiveMatch(context.Background(), scope, match, nil)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.wanted {
				t.Errorf("wanted: %s, got: %s", tc.wanted, got)
			}
			if uploader.key != "archive/2024/match-17-1714901400.json" {
				t.Errorf("key incorrect, got: %s", uploader.key)
			}
			if uploader.contentType != "application/json" {
				t.Errorf("content type incorrect, got: %s", uploader.contentType)
			}

			var archived matchArchive
			if err := json.Unmarshal(uploader.body, &archived); err != nil {
				t.Fatalf("archive is not valid JSON: %v", err)
			}
			if archived.Match.ID != 17 || archived.Season != "2024" || archived.Transactions == nil {
				t.Errorf("archive content incorrect, got: %+v", archived)
			}
		})
	}
}

func TestArchiveMatch_uploadError(t *testing.T) {
	uploader := &fakeUploader{err: errors.New("access denied")}
	_, err := NewMatchArchiver(uploader, clock.NewMock()).ArchiveMatch(context.Background(), models.StorageScope{}, &models.Match{ID: 1}, nil)
	if err == nil {
		t.Errorf("expected upload error")
	}
}

func TestPublicURL(t *testing.T) {
	tests := map[string]struct {
		base, key, wanted string
	}{
		"no base":       {base: "", key: "a.json", wanted: ""},
		"no key":        {base: "https://cdn.example.com", key: "", wanted: ""},
		"joined":        {base: "https://cdn.example.com", key: "archive/a.json", wanted: "https://cdn.example.com/archive/a.json"},
		"leading slash": {base: "https://cdn.example.com/files/", key: "/archive/a.json", wanted: "https://cdn.example.com/files/archive/a.json"},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			if got := publicURL(tc.base, tc.key); got != tc.wanted {
				t.Errorf("wanted: %q, got: %q", tc.wanted, got)
			}
		})
	}
}
