package sentinel

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"
)

const (
	defaultMarketBaseURL = "https://query1.finance.yahoo.com"

	// quoteSummary modules covering the fundamentals the snapshot needs.
	quoteSummaryModules = "price,summaryProfile,summaryDetail,defaultKeyStatistics,financialData"

	// maxResponseSize limits provider responses to 1MB to prevent memory
	// exhaustion from malicious/buggy upstreams.
	maxResponseSize = 1 << 20

	// tradingDaysPerMonth is the lookback used for the 1-month momentum
	// metric; histories shorter than this report 0 instead.
	tradingDaysPerMonth = 21
)

// HTTPDoer is an interface for making HTTP requests. It enables dependency
// injection for testing without network calls.
type HTTPDoer interface {
	Do(*http.Request) (*http.Response, error)
}

type marketClientOptions struct {
	Logger      *slog.Logger
	BaseURL     string
	HTTPTimeout time.Duration
	HTTPClient  HTTPDoer // Optional: inject custom client for testing
}

// marketClient fetches quotes and fundamentals from the market-data
// provider. Stateless apart from the shared HTTP client; safe for
// concurrent use.
type marketClient struct {
	logger  *slog.Logger
	baseURL string
	client  HTTPDoer
}

func newMarketClient(opts marketClientOptions) *marketClient {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	baseURL := opts.BaseURL
	if baseURL == "" {
		baseURL = defaultMarketBaseURL
	}
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: opts.HTTPTimeout}
	}
	return &marketClient{
		logger:  logger,
		baseURL: baseURL,
		client:  client,
	}
}

// priceBar is one daily OHLCV observation with all fields present.
type priceBar struct {
	Close  float64
	High   float64
	Low    float64
	Volume float64
}

// chartPayload mirrors the provider's v8 chart response shape. Quote
// arrays may contain nulls on non-trading timestamps, hence pointers.
type chartPayload struct {
	Chart struct {
		Result []struct {
			Meta struct {
				Currency           string  `json:"currency"`
				RegularMarketPrice float64 `json:"regularMarketPrice"`
			} `json:"meta"`
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Close  []*float64 `json:"close"`
					High   []*float64 `json:"high"`
					Low    []*float64 `json:"low"`
					Volume []*float64 `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// fetchSnapshot collects company metadata plus one year of daily history
// for the ticker and derives the full metric set. Fails with a NOT_FOUND
// error when the history is empty and a PROVIDER_ERROR for transport or
// parse failures.
func (mc *marketClient) fetchSnapshot(ctx context.Context, ticker string) (*MetricSnapshot, error) {
	ticker = normalizeTicker(ticker)
	mc.logger.Info("fetching market data", "ticker", ticker)

	bars, err := mc.fetchDailyHistory(ctx, ticker, "1y")
	if err != nil {
		return nil, err
	}
	if len(bars) == 0 {
		return nil, WrapError(ErrCodeNotFound, fmt.Sprintf("no data found for ticker: %s", ticker), ErrNoData)
	}

	info, err := mc.fetchQuoteSummary(ctx, ticker)
	if err != nil {
		return nil, err
	}

	snapshot := deriveSnapshot(ticker, bars, info)
	mc.logger.Info("market data collected", "ticker", ticker, "bars", len(bars), "price", snapshot.CurrentPrice)
	return snapshot, nil
}

// fetchLatestClose returns the most recent daily close plus the long
// company name, or ok=false when the provider has no history for the
// symbol.
func (mc *marketClient) fetchLatestClose(ctx context.Context, ticker string) (price float64, company string, ok bool, err error) {
	ticker = normalizeTicker(ticker)
	bars, err := mc.fetchDailyHistory(ctx, ticker, "1d")
	if err != nil {
		return 0, "", false, err
	}
	if len(bars) == 0 {
		return 0, "", false, nil
	}

	company = ticker
	if info, infoErr := mc.fetchQuoteSummary(ctx, ticker); infoErr == nil {
		if name := stringField(info, "price", "longName"); name != "" {
			company = name
		}
	}
	return round2(bars[len(bars)-1].Close), company, true, nil
}

func (mc *marketClient) fetchDailyHistory(ctx context.Context, ticker, window string) ([]priceBar, error) {
	url := fmt.Sprintf("%s/v8/finance/chart/%s?interval=1d&range=%s", mc.baseURL, ticker, window)
	body, status, err := mc.httpGet(ctx, url)
	if err != nil {
		return nil, WrapError(ErrCodeProvider, "market data request failed", err)
	}

	var payload chartPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		if status < 200 || status >= 300 {
			return nil, NewError(ErrCodeProvider, fmt.Sprintf("market data http status %d", status))
		}
		return nil, WrapError(ErrCodeProvider, "malformed market data response", err)
	}
	// The provider reports unknown symbols in-band, usually alongside an
	// HTTP 404.
	if chartErr := payload.Chart.Error; chartErr != nil {
		if strings.EqualFold(chartErr.Code, "not found") {
			return nil, nil
		}
		return nil, NewError(ErrCodeProvider, fmt.Sprintf("market data error: %s", chartErr.Description))
	}
	if status < 200 || status >= 300 {
		return nil, NewError(ErrCodeProvider, fmt.Sprintf("market data http status %d", status))
	}
	if len(payload.Chart.Result) == 0 {
		return nil, nil
	}

	result := payload.Chart.Result[0]
	if len(result.Indicators.Quote) == 0 {
		return nil, nil
	}
	quote := result.Indicators.Quote[0]

	// Keep only complete rows; the provider emits nulls for half-days
	// and pre-listing timestamps.
	bars := make([]priceBar, 0, len(quote.Close))
	for i := range quote.Close {
		if quote.Close[i] == nil || quote.High[i] == nil || quote.Low[i] == nil {
			continue
		}
		bar := priceBar{
			Close: *quote.Close[i],
			High:  *quote.High[i],
			Low:   *quote.Low[i],
		}
		if i < len(quote.Volume) && quote.Volume[i] != nil {
			bar.Volume = *quote.Volume[i]
		}
		bars = append(bars, bar)
	}
	return bars, nil
}

// fetchQuoteSummary returns the per-module fundamentals keyed by module
// name. Values stay untyped; numeric fields arrive wrapped as
// {"raw": n, "fmt": "..."} objects.
func (mc *marketClient) fetchQuoteSummary(ctx context.Context, ticker string) (map[string]map[string]any, error) {
	url := fmt.Sprintf("%s/v10/finance/quoteSummary/%s?modules=%s", mc.baseURL, ticker, quoteSummaryModules)
	body, status, err := mc.httpGet(ctx, url)
	if err != nil {
		return nil, WrapError(ErrCodeProvider, "company metadata request failed", err)
	}
	if status < 200 || status >= 300 {
		return nil, NewError(ErrCodeProvider, fmt.Sprintf("company metadata http status %d", status))
	}

	var payload struct {
		QuoteSummary struct {
			Result []map[string]any `json:"result"`
		} `json:"quoteSummary"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, WrapError(ErrCodeProvider, "malformed company metadata response", err)
	}

	modules := make(map[string]map[string]any)
	if len(payload.QuoteSummary.Result) == 0 {
		return modules, nil
	}
	for name, value := range payload.QuoteSummary.Result[0] {
		if module, ok := value.(map[string]any); ok {
			modules[name] = module
		}
	}
	return modules, nil
}

// deriveSnapshot computes the metric set from the raw history and
// fundamentals. A zero numeric from the provider means the field was
// absent and maps to nil, except where a sentinel default applies
// (dividend yield 0, moving averages falling back to current price).
func deriveSnapshot(ticker string, bars []priceBar, info map[string]map[string]any) *MetricSnapshot {
	currentPrice := bars[len(bars)-1].Close

	yearHigh := bars[0].High
	yearLow := bars[0].Low
	var volumeSum float64
	for _, bar := range bars {
		if bar.High > yearHigh {
			yearHigh = bar.High
		}
		if bar.Low < yearLow {
			yearLow = bar.Low
		}
		volumeSum += bar.Volume
	}

	priceChange1D := 0.0
	if len(bars) > 1 {
		prev := bars[len(bars)-2].Close
		priceChange1D = (currentPrice - prev) / prev * 100
	}
	priceChange1M := 0.0
	if len(bars) > tradingDaysPerMonth {
		// Baseline is the 21st close counted from the end, inclusive.
		prev := bars[len(bars)-tradingDaysPerMonth].Close
		priceChange1M = (currentPrice - prev) / prev * 100
	}

	companyName := stringField(info, "price", "longName")
	if companyName == "" {
		companyName = ticker
	}
	currency := stringField(info, "price", "currency")
	if currency == "" {
		currency = "USD"
	}
	sector := stringFieldDefault(info, "summaryProfile", "sector", "Unknown")
	industry := stringFieldDefault(info, "summaryProfile", "industry", "Unknown")

	recommendation := stringField(info, "financialData", "recommendationKey")
	if recommendation == "" {
		recommendation = "hold"
	}

	marketCap := 0.0
	if cap := numericField(info, "price", "marketCap"); cap != nil {
		marketCap = *cap
	}

	dividendYield := 0.0
	if yield := scaled(numericField(info, "summaryDetail", "dividendYield"), 100); yield != nil {
		dividendYield = *yield
	}

	return &MetricSnapshot{
		Ticker:                ticker,
		CompanyName:           companyName,
		Sector:                sector,
		Industry:              industry,
		CurrentPrice:          round2(currentPrice),
		Currency:              currency,
		MarketCap:             marketCap,
		PERatio:               scaled(numericField(info, "summaryDetail", "trailingPE"), 1),
		ForwardPE:             scaled(numericField(info, "summaryDetail", "forwardPE"), 1),
		PEGRatio:              scaled(numericField(info, "defaultKeyStatistics", "pegRatio"), 1),
		PriceToBook:           scaled(numericField(info, "defaultKeyStatistics", "priceToBook"), 1),
		ProfitMargin:          scaled(numericField(info, "financialData", "profitMargins"), 100),
		OperatingMargin:       scaled(numericField(info, "financialData", "operatingMargins"), 100),
		ROE:                   scaled(numericField(info, "financialData", "returnOnEquity"), 100),
		DebtToEquity:          scaled(numericField(info, "financialData", "debtToEquity"), 1),
		RevenueGrowth:         scaled(numericField(info, "financialData", "revenueGrowth"), 100),
		EarningsGrowth:        scaled(numericField(info, "financialData", "earningsGrowth"), 100),
		YearHigh:              round2(yearHigh),
		YearLow:               round2(yearLow),
		FiftyDayAvg:           orDefault(numericField(info, "summaryDetail", "fiftyDayAverage"), round2(currentPrice)),
		TwoHundredDayAvg:      orDefault(numericField(info, "summaryDetail", "twoHundredDayAverage"), round2(currentPrice)),
		AvgVolume:             int64(volumeSum / float64(len(bars))),
		PriceChange1D:         round2(priceChange1D),
		PriceChange1M:         round2(priceChange1M),
		DividendYield:         dividendYield,
		Beta:                  scaled(numericField(info, "summaryDetail", "beta"), 1),
		AnalystRecommendation: recommendation,
		TargetMeanPrice:       scaled(numericField(info, "financialData", "targetMeanPrice"), 1),
	}
}

// numericField extracts a numeric module field, unwrapping the provider's
// {"raw": n} envelope when present. Returns nil when absent or unparsable.
func numericField(info map[string]map[string]any, module, key string) *float64 {
	m, ok := info[module]
	if !ok {
		return nil
	}
	value, ok := m[key]
	if !ok || value == nil {
		return nil
	}
	if wrapped, ok := value.(map[string]any); ok {
		value = wrapped["raw"]
	}
	parsed, err := parseFloat(value)
	if err != nil {
		return nil
	}
	return &parsed
}

func stringField(info map[string]map[string]any, module, key string) string {
	m, ok := info[module]
	if !ok {
		return ""
	}
	value, _ := m[key].(string)
	return value
}

func stringFieldDefault(info map[string]map[string]any, module, key, fallback string) string {
	if value := stringField(info, module, key); value != "" {
		return value
	}
	return fallback
}

// httpGet returns the response body and status code. Error responses
// still carry a body; chart errors in particular arrive as JSON on a 404.
func (mc *marketClient) httpGet(ctx context.Context, url string) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")
	resp, err := mc.client.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, 0, err
	}
	return body, resp.StatusCode, nil
}

func parseFloat(value any) (float64, error) {
	switch v := value.(type) {
	case nil:
		return 0, errors.New("no value")
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case json.Number:
		return v.Float64()
	case string:
		if v == "" {
			return 0, errors.New("empty")
		}
		return strconv.ParseFloat(v, 64)
	default:
		return 0, fmt.Errorf("unsupported type %T", value)
	}
}
