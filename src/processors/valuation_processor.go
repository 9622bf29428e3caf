package processors

import (
	"github.com/username/yuhfolio/src/logger"
	"github.com/username/yuhfolio/src/models"
	"github.com/username/yuhfolio/src/utils"
)

// displayPrecision is applied uniformly to all monetary and percentage
// outputs. Rounding happens here, for display, and is never written back into
// stored values.
const displayPrecision = 3

// ValuationProcessor combines aggregated positions with live quotes and FX
// rates to produce CHF-denominated values and profit/loss figures.
type ValuationProcessor struct{}

func NewValuationProcessor() *ValuationProcessor { return &ValuationProcessor{} }

// priceInCHF converts a price into the reporting currency. Identity for CHF,
// multiplication by the pair rate for USD and EUR. An unrecognized currency
// contributes zero; that is a data gap to log, not a reason to fail the render.
func priceInCHF(price float64, currency string, fxRates map[string]float64) float64 {
	switch currency {
	case "CHF":
		return price
	case "USD":
		return price * fxRates[models.PairUSDCHF]
	case "EUR":
		return price * fxRates[models.PairEURCHF]
	default:
		logger.L.Warn("Unrecognized position currency, valuing at 0", "currency", currency)
		return 0
	}
}

// Process enriches each position with its market snapshot. Missing upstream
// data surfaces as nil fields, never as an error: one unreachable ticker must
// not take down the whole table.
func (p *ValuationProcessor) Process(positions []models.Position, quotes map[string]models.MarketSnapshot, fxRates map[string]float64) []models.ValuedPosition {
	valued := make([]models.ValuedPosition, 0, len(positions))
	for _, pos := range positions {
		vp := models.ValuedPosition{Position: pos}
		vp.AverageBuyPrice = utils.RoundPtr(pos.AverageBuyPrice, displayPrecision)

		snapshot := quotes[pos.Ticker]
		vp.EPS = utils.RoundPtr(snapshot.EPS, displayPrecision)
		vp.PERatio = utils.RoundPtr(snapshot.PERatio, displayPrecision)
		vp.MarketCap = snapshot.MarketCap
		vp.PEGRatio = utils.RoundPtr(snapshot.PEGRatio, displayPrecision)
		vp.Beta = utils.RoundPtr(snapshot.Beta, displayPrecision)
		vp.FreeCashFlow = snapshot.FreeCashFlow
		vp.RevenueGrowthPct = utils.RoundPtr(snapshot.RevenueGrowthPct, displayPrecision)

		if snapshot.CurrentPrice == nil {
			valued = append(valued, vp)
			continue
		}
		price := *snapshot.CurrentPrice
		vp.CurrentPrice = utils.RoundPtr(&price, displayPrecision)

		value := priceInCHF(price, pos.Currency, fxRates) * pos.Units
		vp.ValueCHF = utils.RoundPtr(&value, displayPrecision)

		if pos.AverageBuyPrice != nil {
			avg := *pos.AverageBuyPrice
			pl := (price - avg) * pos.Units
			vp.ProfitLoss = utils.RoundPtr(&pl, displayPrecision)
			if avg != 0 {
				pct := (price - avg) / avg * 100
				vp.ProfitLossPct = utils.RoundPtr(&pct, displayPrecision)
			}
		}
		valued = append(valued, vp)
	}
	return valued
}

// Summarize rolls the valued positions up with the cash ledger into the
// headline dashboard figures.
func (p *ValuationProcessor) Summarize(valued []models.ValuedPosition, cashCHF, totalDepositCHF float64) models.PortfolioSummary {
	totalValue := cashCHF
	for _, vp := range valued {
		if vp.ValueCHF != nil {
			totalValue += *vp.ValueCHF
		}
	}

	growthPct := 0.0
	if totalDepositCHF != 0 {
		growthPct = (totalValue - totalDepositCHF) / totalDepositCHF * 100
	}

	return models.PortfolioSummary{
		TotalValueCHF:   utils.RoundFloat(totalValue, displayPrecision),
		CashCHF:         utils.RoundFloat(cashCHF, displayPrecision),
		TotalDepositCHF: utils.RoundFloat(totalDepositCHF, displayPrecision),
		InvestedCHF:     utils.RoundFloat(totalDepositCHF-cashCHF, displayPrecision),
		GrowthPct:       utils.RoundFloat(growthPct, displayPrecision),
	}
}
