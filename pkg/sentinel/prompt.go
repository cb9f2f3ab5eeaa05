package sentinel

import (
	"fmt"
	"strconv"
	"strings"
)

// buildAnalysisPrompt renders the snapshot into the analyst prompt. Absent
// metrics render as "N/A" so the model is never fed fabricated numbers.
func buildAnalysisPrompt(s *MetricSnapshot) string {
	var b strings.Builder

	fmt.Fprintf(&b, "You are a professional stock analyst. Analyze this stock and provide a comprehensive investment report.\n\n")
	fmt.Fprintf(&b, "Stock: %s - %s\n", s.Ticker, s.CompanyName)
	fmt.Fprintf(&b, "Sector: %s | Industry: %s\n\n", s.Sector, s.Industry)

	fmt.Fprintf(&b, "FINANCIAL METRICS:\n")
	fmt.Fprintf(&b, "- Current Price: $%s %s\n", formatNumber(s.CurrentPrice), s.Currency)
	fmt.Fprintf(&b, "- Market Cap: $%s\n", formatGrouped(s.MarketCap))
	fmt.Fprintf(&b, "- P/E Ratio: %s\n", formatMetric(s.PERatio))
	fmt.Fprintf(&b, "- Forward P/E: %s\n", formatMetric(s.ForwardPE))
	fmt.Fprintf(&b, "- PEG Ratio: %s\n", formatMetric(s.PEGRatio))
	fmt.Fprintf(&b, "- Price to Book: %s\n\n", formatMetric(s.PriceToBook))

	fmt.Fprintf(&b, "PROFITABILITY:\n")
	fmt.Fprintf(&b, "- Profit Margin: %s%%\n", formatMetric(s.ProfitMargin))
	fmt.Fprintf(&b, "- Operating Margin: %s%%\n", formatMetric(s.OperatingMargin))
	fmt.Fprintf(&b, "- ROE: %s%%\n\n", formatMetric(s.ROE))

	fmt.Fprintf(&b, "GROWTH:\n")
	fmt.Fprintf(&b, "- Revenue Growth: %s%%\n", formatMetric(s.RevenueGrowth))
	fmt.Fprintf(&b, "- Earnings Growth: %s%%\n\n", formatMetric(s.EarningsGrowth))

	fmt.Fprintf(&b, "DEBT & RISK:\n")
	fmt.Fprintf(&b, "- Debt to Equity: %s\n", formatMetric(s.DebtToEquity))
	fmt.Fprintf(&b, "- Beta: %s\n\n", formatMetric(s.Beta))

	fmt.Fprintf(&b, "PRICE MOMENTUM:\n")
	fmt.Fprintf(&b, "- 1-Day Change: %s%%\n", formatNumber(s.PriceChange1D))
	fmt.Fprintf(&b, "- 1-Month Change: %s%%\n", formatNumber(s.PriceChange1M))
	fmt.Fprintf(&b, "- 52-Week Range: $%s - $%s\n", formatNumber(s.YearLow), formatNumber(s.YearHigh))
	fmt.Fprintf(&b, "- 50-Day Avg: $%s\n", formatNumber(s.FiftyDayAvg))
	fmt.Fprintf(&b, "- 200-Day Avg: $%s\n\n", formatNumber(s.TwoHundredDayAvg))

	fmt.Fprintf(&b, "ANALYST DATA:\n")
	fmt.Fprintf(&b, "- Recommendation: %s\n", s.AnalystRecommendation)
	fmt.Fprintf(&b, "- Target Price: $%s\n\n", formatMetric(s.TargetMeanPrice))

	fmt.Fprintf(&b, "Provide a detailed analysis with:\n")
	fmt.Fprintf(&b, "1. Valuation Assessment (Is it overvalued/undervalued?)\n")
	fmt.Fprintf(&b, "2. Financial Health (Profitability, margins, debt)\n")
	fmt.Fprintf(&b, "3. Growth Prospects (Revenue and earnings trends)\n")
	fmt.Fprintf(&b, "4. Risk Factors (What could go wrong?)\n")
	fmt.Fprintf(&b, "5. Price Momentum (Technical analysis)\n")
	fmt.Fprintf(&b, "6. Final Recommendation (BUY/HOLD/SELL with confidence level)\n")
	fmt.Fprintf(&b, "7. Entry/Exit Strategy (Specific price targets)\n\n")
	fmt.Fprintf(&b, "Be specific, data-driven, and actionable.")

	return b.String()
}

// formatNumber prints a float without trailing zeros (12.5, not 12.50).
func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// formatMetric prints a nullable metric, "N/A" when absent.
func formatMetric(v *float64) string {
	if v == nil {
		return "N/A"
	}
	return formatNumber(*v)
}

// formatGrouped prints a whole-dollar amount with comma thousand
// separators (3400000000 -> "3,400,000,000").
func formatGrouped(v float64) string {
	digits := strconv.FormatFloat(v, 'f', 0, 64)
	negative := strings.HasPrefix(digits, "-")
	if negative {
		digits = digits[1:]
	}
	var b strings.Builder
	for i, d := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(d)
	}
	if negative {
		return "-" + b.String()
	}
	return b.String()
}
