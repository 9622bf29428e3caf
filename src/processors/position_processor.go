package processors

import (
	"sort"

	"github.com/username/yuhfolio/src/models"
)

// PositionProcessor folds the transaction log into one row per instrument.
type PositionProcessor struct{}

func NewPositionProcessor() *PositionProcessor { return &PositionProcessor{} }

// Process computes the open positions from a transaction snapshot. It is pure
// with respect to its input: no hidden state, and re-running it on the same
// snapshot yields identical output (results are sorted by ticker).
//
// Rules:
//   - only BUY/SELL rows participate; everything else is ignored
//   - net units = sum(quantity) over BUY minus sum(quantity) over SELL
//   - average buy price = mean(price_per_unit) over BUY rows only; nil when a
//     ticker has no BUY rows at all
//   - name, currency and instrument type come from the chronologically latest
//     row per ticker (ties broken by input order); instrument type defaults to
//     "Stock"
//   - only tickers with net units > 0 survive. Closed and short positions are
//     dropped from the visible set; that loss of history is a known
//     limitation, not an accident.
func (p *PositionProcessor) Process(txs []models.Transaction) []models.Position {
	type accum struct {
		netUnits    float64
		buyPriceSum float64
		buyCount    int
		latest      models.Transaction
		hasLatest   bool
	}

	byTicker := make(map[string]*accum)
	var order []string

	for _, tx := range txs {
		if tx.BuySell != "BUY" && tx.BuySell != "SELL" {
			continue
		}
		acc, ok := byTicker[tx.Ticker]
		if !ok {
			acc = &accum{}
			byTicker[tx.Ticker] = acc
			order = append(order, tx.Ticker)
		}

		if tx.BuySell == "BUY" {
			acc.netUnits += tx.Quantity
			acc.buyPriceSum += tx.PricePerUnit
			acc.buyCount++
		} else {
			acc.netUnits -= tx.Quantity
		}

		// Later rows with the same date win, so ties resolve to input order.
		if !acc.hasLatest || tx.Date >= acc.latest.Date {
			acc.latest = tx
			acc.hasLatest = true
		}
	}

	var positions []models.Position
	for _, ticker := range order {
		acc := byTicker[ticker]
		if acc.netUnits <= 0 {
			continue
		}

		var avg *float64
		if acc.buyCount > 0 {
			v := acc.buyPriceSum / float64(acc.buyCount)
			avg = &v
		}

		instrumentType := acc.latest.InstrumentType
		if instrumentType == "" {
			instrumentType = "Stock"
		}

		positions = append(positions, models.Position{
			Ticker:          ticker,
			Name:            acc.latest.TransactionInfo,
			Currency:        acc.latest.Currency,
			InstrumentType:  instrumentType,
			Units:           acc.netUnits,
			AverageBuyPrice: avg,
		})
	}

	sort.Slice(positions, func(i, j int) bool {
		return positions[i].Ticker < positions[j].Ticker
	})
	return positions
}
