package model

import (
	"database/sql"
	"fmt"

	"github.com/username/yuhfolio/src/models"
)

// InsertTransactions appends rows to the transactions table. The table is
// append-only: nothing here updates or deletes existing rows.
func InsertTransactions(db *sql.DB, txs []models.Transaction) error {
	if len(txs) == 0 {
		return nil
	}
	dbTx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("error beginning database transaction: %w", err)
	}
	defer dbTx.Rollback()

	stmt, err := dbTx.Prepare(`INSERT INTO transactions
		(date, transaction_type, transaction_info, debit_amount, debit_currency,
		 credit_amount, credit_currency, fees, buy_sell, quantity, ticker,
		 price_per_unit, platform, currency, instrument_type)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("error preparing insert statement: %w", err)
	}
	defer stmt.Close()

	for _, tx := range txs {
		_, err := stmt.Exec(
			tx.Date, tx.TransactionType, tx.TransactionInfo, tx.DebitAmount, tx.DebitCurrency,
			tx.CreditAmount, tx.CreditCurrency, tx.Fees, tx.BuySell, tx.Quantity, tx.Ticker,
			tx.PricePerUnit, tx.Platform, tx.Currency, tx.InstrumentType,
		)
		if err != nil {
			return fmt.Errorf("error inserting transaction (ticker %s, date %s): %w", tx.Ticker, tx.Date, err)
		}
	}
	return dbTx.Commit()
}

// GetTransactions returns the full transaction log ordered by date, then by
// insertion order. Callers treat an error as "store unavailable" and report it
// alongside an empty result rather than failing hard.
func GetTransactions(db *sql.DB) ([]models.Transaction, error) {
	rows, err := db.Query(`
		SELECT id, date, transaction_type, transaction_info, debit_amount, debit_currency,
		       credit_amount, credit_currency, fees, buy_sell, quantity, ticker,
		       price_per_unit, platform, currency, instrument_type
		FROM transactions
		ORDER BY date ASC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("error querying transactions: %w", err)
	}
	defer rows.Close()

	var transactions []models.Transaction
	for rows.Next() {
		var tx models.Transaction
		scanErr := rows.Scan(
			&tx.ID, &tx.Date, &tx.TransactionType, &tx.TransactionInfo, &tx.DebitAmount, &tx.DebitCurrency,
			&tx.CreditAmount, &tx.CreditCurrency, &tx.Fees, &tx.BuySell, &tx.Quantity, &tx.Ticker,
			&tx.PricePerUnit, &tx.Platform, &tx.Currency, &tx.InstrumentType,
		)
		if scanErr != nil {
			return nil, fmt.Errorf("error scanning transaction row: %w", scanErr)
		}
		transactions = append(transactions, tx)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating over transaction rows: %w", err)
	}
	return transactions, nil
}
