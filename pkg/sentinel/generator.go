package sentinel

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// ReportSource identifies which path produced a report's text.
type ReportSource string

const (
	SourceAI       ReportSource = "ai"
	SourceFallback ReportSource = "fallback"
)

// Report is a generated narrative plus its provenance.
type Report struct {
	Text   string
	Source ReportSource
}

// generator turns a metric snapshot into a narrative report. Both
// implementations are total: they always return a report.
type generator interface {
	analyze(ctx context.Context, snapshot *MetricSnapshot) Report
}

// aiCallTimeout bounds a single model call.
const aiCallTimeout = 60 * time.Second

const fallbackNote = "Note: This is an automated analysis. For detailed insights, configure an AI provider API key."

// completeFunc issues one prompt to a model and returns its text.
type completeFunc func(ctx context.Context, prompt string) (string, error)

// aiGenerator asks a model for the analysis and degrades to the
// rule-based fallback on any failure, so a provider outage never fails
// a report request.
type aiGenerator struct {
	logger   *slog.Logger
	complete completeFunc
	fallback fallbackGenerator
}

func (g *aiGenerator) analyze(ctx context.Context, snapshot *MetricSnapshot) Report {
	ctx, cancel := context.WithTimeout(ctx, aiCallTimeout)
	defer cancel()

	text, err := g.complete(ctx, buildAnalysisPrompt(snapshot))
	if err != nil {
		g.logger.Warn("AI analysis failed, using fallback", "ticker", snapshot.Ticker, "error", err)
		return g.fallback.analyze(ctx, snapshot)
	}
	g.logger.Info("AI analysis generated", "ticker", snapshot.Ticker, "chars", len(text))
	return Report{Text: text, Source: SourceAI}
}

// fallbackGenerator produces a deterministic rule-based analysis from
// three metrics. Missing metrics never satisfy a threshold.
type fallbackGenerator struct{}

func (fallbackGenerator) analyze(_ context.Context, snapshot *MetricSnapshot) Report {
	pe := snapshot.PERatio
	margin := snapshot.ProfitMargin
	growth := snapshot.RevenueGrowth

	// SELL deliberately mixes a strict P/E ceiling with a margin floor;
	// either alone is disqualifying.
	recommendation := "HOLD"
	switch {
	case present(pe) && *pe < 20 && present(margin) && *margin > 15 && present(growth) && *growth > 10:
		recommendation = "BUY"
	case (present(pe) && *pe > 40) || (present(margin) && *margin < 5):
		recommendation = "SELL"
	}

	valuationTone := "premium valuation"
	if present(pe) && *pe < 25 {
		valuationTone = "attractive valuation"
	}
	marginTone := "moderate"
	if present(margin) && *margin > 15 {
		marginTone = "strong"
	}
	growthTone := "steady"
	if present(growth) && *growth > 10 {
		growthTone = "impressive"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "AUTOMATED ANALYSIS FOR %s\n\n", snapshot.Ticker)
	fmt.Fprintf(&b, "VALUATION: P/E Ratio of %s suggests %s\n\n", formatMetric(pe), valuationTone)
	fmt.Fprintf(&b, "PROFITABILITY: Profit margin of %s%% indicates %s profitability\n\n", formatMetric(margin), marginTone)
	fmt.Fprintf(&b, "GROWTH: Revenue growth of %s%% shows %s expansion\n\n", formatMetric(growth), growthTone)
	fmt.Fprintf(&b, "RECOMMENDATION: %s\n\n", recommendation)
	b.WriteString(fallbackNote)

	return Report{Text: b.String(), Source: SourceFallback}
}

// present reports whether a nullable metric carries a usable value.
func present(v *float64) bool {
	return v != nil && *v != 0
}
