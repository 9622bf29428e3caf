package model

import (
	"database/sql"
	"fmt"

	"github.com/username/yuhfolio/src/models"
)

// ReplacePositions swaps the current_positions snapshot wholesale inside one
// transaction. The snapshot only exists for fast reads; the transactions table
// remains the source of truth and the snapshot is rebuilt from it after every
// import.
func ReplacePositions(db *sql.DB, positions []models.Position) error {
	dbTx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("error beginning database transaction: %w", err)
	}
	defer dbTx.Rollback()

	if _, err := dbTx.Exec("DELETE FROM current_positions"); err != nil {
		return fmt.Errorf("error clearing current_positions: %w", err)
	}

	stmt, err := dbTx.Prepare(`INSERT INTO current_positions
		(ticker, name, currency, instrument_type, units, average_buy_price)
		VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("error preparing insert statement: %w", err)
	}
	defer stmt.Close()

	for _, p := range positions {
		avg := sql.NullFloat64{}
		if p.AverageBuyPrice != nil {
			avg = sql.NullFloat64{Float64: *p.AverageBuyPrice, Valid: true}
		}
		if _, err := stmt.Exec(p.Ticker, p.Name, p.Currency, p.InstrumentType, p.Units, avg); err != nil {
			return fmt.Errorf("error inserting position %s: %w", p.Ticker, err)
		}
	}
	return dbTx.Commit()
}

// GetPositions reads the denormalized position snapshot.
func GetPositions(db *sql.DB) ([]models.Position, error) {
	rows, err := db.Query(`
		SELECT ticker, name, currency, instrument_type, units, average_buy_price
		FROM current_positions
		ORDER BY ticker ASC`)
	if err != nil {
		return nil, fmt.Errorf("error querying current positions: %w", err)
	}
	defer rows.Close()

	var positions []models.Position
	for rows.Next() {
		var p models.Position
		var avg sql.NullFloat64
		if err := rows.Scan(&p.Ticker, &p.Name, &p.Currency, &p.InstrumentType, &p.Units, &avg); err != nil {
			return nil, fmt.Errorf("error scanning position row: %w", err)
		}
		if avg.Valid {
			v := avg.Float64
			p.AverageBuyPrice = &v
		}
		positions = append(positions, p)
	}
	return positions, rows.Err()
}
