package model

import (
	"database/sql"
	"fmt"

	"github.com/username/yuhfolio/src/logger"
	"github.com/username/yuhfolio/src/models"
)

// InsertWatchlistEntry appends one entry. No dedup: tracking the same ticker
// twice is the user's prerogative.
func InsertWatchlistEntry(db *sql.DB, entry models.WatchlistEntry) error {
	_, err := db.Exec(`
		INSERT INTO watchlist (name, ticker, currency, comment, instrument_type)
		VALUES (?, ?, ?, ?, ?)`,
		entry.Name, entry.Ticker, entry.Currency, entry.Comment, entry.InstrumentType)
	if err != nil {
		return fmt.Errorf("error inserting watchlist entry %s: %w", entry.Ticker, err)
	}
	return nil
}

// DeleteWatchlistEntries removes every entry matching the ticker exactly.
// Returns the number of rows removed.
func DeleteWatchlistEntries(db *sql.DB, ticker string) (int64, error) {
	result, err := db.Exec("DELETE FROM watchlist WHERE ticker = ?", ticker)
	if err != nil {
		return 0, fmt.Errorf("error deleting watchlist entries for %s: %w", ticker, err)
	}
	removed, _ := result.RowsAffected()
	logger.L.Info("Removed watchlist entries", "ticker", ticker, "count", removed)
	return removed, nil
}

// GetWatchlist returns all tracked instruments.
func GetWatchlist(db *sql.DB) ([]models.WatchlistEntry, error) {
	rows, err := db.Query(`
		SELECT id, name, ticker, currency, comment, instrument_type
		FROM watchlist
		ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("error querying watchlist: %w", err)
	}
	defer rows.Close()

	var entries []models.WatchlistEntry
	for rows.Next() {
		var e models.WatchlistEntry
		if err := rows.Scan(&e.ID, &e.Name, &e.Ticker, &e.Currency, &e.Comment, &e.InstrumentType); err != nil {
			return nil, fmt.Errorf("error scanning watchlist row: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
