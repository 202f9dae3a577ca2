package models

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/lib/pq"
)

var ErrInvalidScope = errors.New("invalid storage scope")

var seasonPattern = regexp.MustCompile(`^[a-z0-9_]{1,32}$`)

// StorageScope selects the season partition every table lives in. Tables of
// season "2024" are named "s2024_matches", "s2024_finances" and so on; the
// empty season uses the bare table names.
type StorageScope struct {
	Season string
}

func NewStorageScope(season string) (StorageScope, error) {
	season = strings.ToLower(strings.TrimSpace(season))
	if season == "" {
		return StorageScope{}, nil
	}
	if !seasonPattern.MatchString(season) {
		return StorageScope{}, fmt.Errorf("%w: season %q", ErrInvalidScope, season)
	}
	return StorageScope{Season: season}, nil
}

// Table returns the quoted table identifier for this scope.
func (s StorageScope) Table(name string) string {
	if s.Season == "" {
		return pq.QuoteIdentifier(name)
	}
	return pq.QuoteIdentifier("s" + s.Season + "_" + name)
}

func (s StorageScope) String() string {
	if s.Season == "" {
		return "default"
	}
	return s.Season
}
