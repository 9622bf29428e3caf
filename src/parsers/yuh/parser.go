package yuh

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/username/yuhfolio/src/logger"
	"github.com/username/yuhfolio/src/models"
)

// Column headers of a Yuh account statement export (semicolon-delimited).
const (
	colDate           = "DATE"
	colActivityType   = "ACTIVITY TYPE"
	colActivityName   = "ACTIVITY NAME"
	colDebit          = "DEBIT"
	colDebitCurrency  = "DEBIT CURRENCY"
	colCredit         = "CREDIT"
	colCreditCurrency = "CREDIT CURRENCY"
	colFees           = "FEES/COMMISSION"
	colBuySell        = "BUY/SELL"
	colQuantity       = "QUANTITY"
	colAsset          = "ASSET"
	colPricePerUnit   = "PRICE PER UNIT"
)

var requiredColumns = []string{
	colDate, colActivityType, colActivityName,
	colDebit, colDebitCurrency, colCredit, colCreditCurrency,
	colFees, colBuySell, colQuantity, colAsset, colPricePerUnit,
}

// Activity types recognized by the importer. Everything else in the export
// (card payments, twint transfers, ...) is dropped without complaint.
var recognizedActivityTypes = map[string]bool{
	"INVEST_ORDER_EXECUTED":          true,
	"CASH_TRANSACTION_RELATED_OTHER": true,
}

// YuhParser reads the semicolon-delimited Yuh export format.
type YuhParser struct{}

// NewParser creates a new instance of the YuhParser.
func NewParser() *YuhParser {
	return &YuhParser{}
}

// normalizeDecimalString strips the decoration Yuh puts on numbers: quotes,
// Swiss thousands apostrophes, and comma decimal points.
func normalizeDecimalString(s string) string {
	cleaned := strings.TrimSpace(s)
	cleaned = strings.Trim(cleaned, "\"")
	cleaned = strings.ReplaceAll(cleaned, "'", "")
	cleaned = strings.ReplaceAll(cleaned, " ", "")
	cleaned = strings.ReplaceAll(cleaned, ",", ".")
	return cleaned
}

// parseAmount coerces a raw cell to a number. Unparseable values become 0 so
// one bad cell never fails a whole import.
func parseAmount(s string) float64 {
	normalized := normalizeDecimalString(s)
	if normalized == "" {
		return 0
	}
	v, err := strconv.ParseFloat(normalized, 64)
	if err != nil {
		logger.L.Debug("Yuh parser: unparseable numeric cell coerced to 0", "value", s)
		return 0
	}
	return v
}

// Parse reads a Yuh CSV export and converts the recognized rows into
// normalized transactions. A missing required column yields a
// *models.SchemaError; malformed data rows are skipped, not fatal.
func (p *YuhParser) Parse(file io.Reader) ([]models.Transaction, error) {
	reader := csv.NewReader(file)
	reader.Comma = ';'
	reader.FieldsPerRecord = -1 // Allow variable number of fields per record

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("yuh parser: failed to read CSV header: %w", err)
	}

	colIndex := make(map[string]int, len(header))
	found := make([]string, 0, len(header))
	for i, name := range header {
		name = strings.TrimSpace(strings.Trim(strings.TrimSpace(name), "\""))
		colIndex[strings.ToUpper(name)] = i
		found = append(found, name)
	}

	var missing []string
	for _, col := range requiredColumns {
		if _, ok := colIndex[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, &models.SchemaError{MissingColumns: missing, FoundColumns: found}
	}

	var txs []models.Transaction
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			// Bad row, not a bad file: skip and keep going.
			logger.L.Debug("Yuh parser: skipping malformed row", "error", err)
			continue
		}
		if len(record) <= maxIndex(colIndex) {
			logger.L.Debug("Yuh parser: skipping short row", "fields", len(record))
			continue
		}

		cell := func(col string) string {
			return strings.TrimSpace(record[colIndex[col]])
		}

		activityType := cell(colActivityType)
		if !recognizedActivityTypes[activityType] {
			continue
		}

		debitCurrency := cell(colDebitCurrency)
		creditCurrency := cell(colCreditCurrency)
		currency := debitCurrency
		if currency == "" {
			currency = creditCurrency
		}

		txs = append(txs, models.Transaction{
			Date:            cell(colDate),
			TransactionType: activityType,
			TransactionInfo: cell(colActivityName),
			DebitAmount:     parseAmount(cell(colDebit)),
			DebitCurrency:   debitCurrency,
			CreditAmount:    parseAmount(cell(colCredit)),
			CreditCurrency:  creditCurrency,
			Fees:            parseAmount(cell(colFees)),
			BuySell:         strings.ToUpper(cell(colBuySell)),
			Quantity:        math.Abs(parseAmount(cell(colQuantity))),
			Ticker:          cell(colAsset),
			PricePerUnit:    math.Abs(parseAmount(cell(colPricePerUnit))),
			Platform:        "Yuh",
			Currency:        currency,
		})
	}

	return txs, nil
}

func maxIndex(colIndex map[string]int) int {
	max := 0
	for _, col := range requiredColumns {
		if idx := colIndex[col]; idx > max {
			max = idx
		}
	}
	return max
}
