package sentinel

import (
	"strings"

	"github.com/shopspring/decimal"
)

// MetricSnapshot is a point-in-time bundle of a company's price and
// fundamental metrics. Pointer fields are nil when the provider did not
// supply the metric; they are never fabricated. Constructed once per
// request and never mutated afterwards.
type MetricSnapshot struct {
	Ticker                string   `json:"ticker"`
	CompanyName           string   `json:"company_name"`
	Sector                string   `json:"sector"`
	Industry              string   `json:"industry"`
	CurrentPrice          float64  `json:"current_price"`
	Currency              string   `json:"currency"`
	MarketCap             float64  `json:"market_cap"`
	PERatio               *float64 `json:"pe_ratio"`
	ForwardPE             *float64 `json:"forward_pe"`
	PEGRatio              *float64 `json:"peg_ratio"`
	PriceToBook           *float64 `json:"price_to_book"`
	ProfitMargin          *float64 `json:"profit_margin"`
	OperatingMargin       *float64 `json:"operating_margin"`
	ROE                   *float64 `json:"roe"`
	DebtToEquity          *float64 `json:"debt_to_equity"`
	RevenueGrowth         *float64 `json:"revenue_growth"`
	EarningsGrowth        *float64 `json:"earnings_growth"`
	YearHigh              float64  `json:"52_week_high"`
	YearLow               float64  `json:"52_week_low"`
	FiftyDayAvg           float64  `json:"50_day_avg"`
	TwoHundredDayAvg      float64  `json:"200_day_avg"`
	AvgVolume             int64    `json:"avg_volume"`
	PriceChange1D         float64  `json:"price_change_1d"`
	PriceChange1M         float64  `json:"price_change_1m"`
	DividendYield         float64  `json:"dividend_yield"`
	Beta                  *float64 `json:"beta"`
	AnalystRecommendation string   `json:"analyst_recommendation"`
	TargetMeanPrice       *float64 `json:"target_mean_price"`
}

// normalizeTicker trims and uppercases a free-text symbol. No further
// validation: an invalid ticker is discovered only when the provider
// returns empty history.
func normalizeTicker(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}

// round2 rounds to exactly 2 decimal places. decimal avoids the float
// bias of math.Round(v*100)/100 on values like 2.675.
func round2(value float64) float64 {
	return decimal.NewFromFloat(value).Round(2).InexactFloat64()
}

// scaled returns round2(v*scale), treating nil and zero as absent. A zero
// from the provider means the field was missing, not a true zero ratio.
func scaled(value *float64, scale float64) *float64 {
	if value == nil || *value == 0 {
		return nil
	}
	scaledValue := round2(*value * scale)
	return &scaledValue
}

// orDefault returns round2(v) or fallback when the value is absent/zero.
func orDefault(value *float64, fallback float64) float64 {
	if value == nil || *value == 0 {
		return fallback
	}
	return round2(*value)
}
