package repositories

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Dosada05/league-ledger/models"
	"github.com/lib/pq"
)

// rowScanner покрывает и *sql.Row, и *sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func checkAffectedRows(result sql.Result, notFoundError error) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check affected rows: %w", err)
	}
	if rowsAffected == 0 {
		return notFoundError // Возвращаем переданную ошибку "не найдено"
	}
	return nil
}

func checkRowsAffected(result sql.Result) (int64, error) {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to check affected rows: %w", err)
	}
	return rowsAffected, nil
}

// isUndefinedTable распознаёт запросы к сезону, для которого таблицы ещё не созданы.
func isUndefinedTable(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "42P01"
	}
	return false
}

func wrapScopeError(err error, scope models.StorageScope) error {
	if err == nil {
		return nil
	}
	if isUndefinedTable(err) {
		return fmt.Errorf("%w: %s", ErrScopeNotInitialized, scope)
	}
	return err
}

var ErrScopeNotInitialized = errors.New("season tables are not initialized")

// encodeScorers хранит список бомбардиров как JSONB.
func encodeScorers(list []models.ScorerEntry) ([]byte, error) {
	if list == nil {
		list = []models.ScorerEntry{}
	}
	return json.Marshal(list)
}

// decodeScorers accepts the current object form, the legacy plain list of
// names (one goal per occurrence) and NULL.
func decodeScorers(raw []byte) ([]models.ScorerEntry, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return []models.ScorerEntry{}, nil
	}

	var entries []models.ScorerEntry
	if err := json.Unmarshal(raw, &entries); err == nil {
		return entries, nil
	}

	var names []string
	if err := json.Unmarshal(raw, &names); err != nil {
		return nil, fmt.Errorf("unrecognized scorer list %s: %w", string(raw), err)
	}
	entries = make([]models.ScorerEntry, 0, len(names))
	index := make(map[string]int, len(names))
	for _, name := range names {
		if i, ok := index[name]; ok {
			entries[i].Count++
			continue
		}
		index[name] = len(entries)
		entries = append(entries, models.ScorerEntry{Player: name, Count: 1})
	}
	return entries, nil
}
