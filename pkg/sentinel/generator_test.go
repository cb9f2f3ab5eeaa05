package sentinel

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

func snapshotWith(pe, margin, growth *float64) *MetricSnapshot {
	return &MetricSnapshot{
		Ticker:        "TEST",
		CompanyName:   "Test Corp",
		PERatio:       pe,
		ProfitMargin:  margin,
		RevenueGrowth: growth,
	}
}

func TestFallbackRecommendation(t *testing.T) {
	cases := []struct {
		name   string
		pe     *float64
		margin *float64
		growth *float64
		want   string
	}{
		{"buy when cheap profitable growing", fp(15), fp(20), fp(12), "RECOMMENDATION: BUY"},
		{"sell on high pe despite margin", fp(45), fp(20), fp(12), "RECOMMENDATION: SELL"},
		{"sell on thin margin alone", fp(18), fp(3), fp(12), "RECOMMENDATION: SELL"},
		{"hold in between", fp(25), fp(10), fp(5), "RECOMMENDATION: HOLD"},
		{"hold when metrics missing", nil, nil, nil, "RECOMMENDATION: HOLD"},
		{"buy needs all three", fp(15), fp(20), nil, "RECOMMENDATION: HOLD"},
	}

	var gen fallbackGenerator
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			report := gen.analyze(context.Background(), snapshotWith(c.pe, c.margin, c.growth))
			if report.Source != SourceFallback {
				t.Fatalf("source = %q, want fallback", report.Source)
			}
			if !strings.Contains(report.Text, c.want) {
				t.Errorf("report missing %q:\n%s", c.want, report.Text)
			}
		})
	}
}

func TestFallbackTones(t *testing.T) {
	var gen fallbackGenerator

	report := gen.analyze(context.Background(), snapshotWith(fp(15), fp(20), fp(12)))
	for _, want := range []string{"attractive valuation", "strong profitability", "impressive expansion"} {
		if !strings.Contains(report.Text, want) {
			t.Errorf("report missing %q", want)
		}
	}

	report = gen.analyze(context.Background(), snapshotWith(fp(30), fp(10), fp(5)))
	for _, want := range []string{"premium valuation", "moderate profitability", "steady expansion"} {
		if !strings.Contains(report.Text, want) {
			t.Errorf("report missing %q", want)
		}
	}
}

func TestFallbackMissingMetricsRenderNA(t *testing.T) {
	var gen fallbackGenerator
	report := gen.analyze(context.Background(), snapshotWith(nil, nil, nil))
	if !strings.Contains(report.Text, "P/E Ratio of N/A") {
		t.Errorf("expected N/A placeholder:\n%s", report.Text)
	}
	if !strings.Contains(report.Text, "AUTOMATED ANALYSIS FOR TEST") {
		t.Error("missing header")
	}
	if !strings.Contains(report.Text, fallbackNote) {
		t.Error("missing automated-analysis note")
	}
}

func TestAIGeneratorSuccess(t *testing.T) {
	gen := &aiGenerator{
		logger: slog.Default(),
		complete: func(ctx context.Context, prompt string) (string, error) {
			if !strings.Contains(prompt, "TEST") {
				t.Errorf("prompt missing ticker:\n%s", prompt)
			}
			return "model analysis", nil
		},
		fallback: fallbackGenerator{},
	}

	report := gen.analyze(context.Background(), snapshotWith(fp(15), fp(20), fp(12)))
	if report.Source != SourceAI {
		t.Fatalf("source = %q, want ai", report.Source)
	}
	if report.Text != "model analysis" {
		t.Errorf("text = %q", report.Text)
	}
}

func TestAIGeneratorDegradesToFallback(t *testing.T) {
	gen := &aiGenerator{
		logger: slog.Default(),
		complete: func(ctx context.Context, prompt string) (string, error) {
			return "", errors.New("provider down")
		},
		fallback: fallbackGenerator{},
	}

	report := gen.analyze(context.Background(), snapshotWith(fp(15), fp(20), fp(12)))
	if report.Source != SourceFallback {
		t.Fatalf("source = %q, want fallback", report.Source)
	}
	if !strings.Contains(report.Text, "RECOMMENDATION: BUY") {
		t.Errorf("fallback rules not applied:\n%s", report.Text)
	}
}
