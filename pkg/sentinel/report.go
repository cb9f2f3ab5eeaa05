package sentinel

import (
	"context"
)

// ReportRequest is one analysis request. CompanyName carries the ticker
// symbol; Email identifies the requester and is used for logging only.
type ReportRequest struct {
	CompanyName string
	Email       string
}

// AnalysisResult is the report envelope. Exactly one of Report or Error
// is set, keyed by Success.
type AnalysisResult struct {
	Success  bool            `json:"success"`
	LiveData *MetricSnapshot `json:"live_data"`
	Report   *string         `json:"report"`
	Error    *string         `json:"error"`
}

// GenerateReport runs the full pipeline: collect market data, generate
// the narrative, wrap the result. Collection failures come back as a
// success=false envelope rather than an error; the generator stage
// cannot fail.
func (c *Core) GenerateReport(ctx context.Context, req ReportRequest) AnalysisResult {
	ticker := normalizeTicker(req.CompanyName)
	c.logger.Info("analysis requested", "ticker", ticker, "email", req.Email)

	snapshot, err := c.market.fetchSnapshot(ctx, ticker)
	if err != nil {
		c.logger.Error("analysis failed", "ticker", ticker, "error", err)
		message := err.Error()
		return AnalysisResult{Success: false, Error: &message}
	}

	report := c.gen.analyze(ctx, snapshot)
	c.logger.Info("analysis complete", "ticker", ticker, "source", report.Source)
	return AnalysisResult{Success: true, LiveData: snapshot, Report: &report.Text}
}

// PriceCheck is the verify-price response. Price is nil when the symbol
// has no recent history.
type PriceCheck struct {
	Ticker  string   `json:"ticker"`
	Price   *float64 `json:"price"`
	Company string   `json:"company"`
	Valid   bool     `json:"valid"`
}

// VerifyPrice looks up the latest close for a symbol. It never fails
// outward: an unknown symbol or a provider outage both come back as
// Valid=false.
func (c *Core) VerifyPrice(ctx context.Context, ticker string) PriceCheck {
	ticker = normalizeTicker(ticker)
	check := PriceCheck{Ticker: ticker, Company: ticker}

	price, company, ok, err := c.market.fetchLatestClose(ctx, ticker)
	if err != nil {
		c.logger.Warn("price check failed", "ticker", ticker, "error", err)
		return check
	}
	if !ok {
		return check
	}
	check.Price = &price
	check.Company = company
	check.Valid = true
	return check
}
