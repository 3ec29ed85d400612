package main

import (
	"encoding/csv"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/mfgsight/qualitycast/internal/analytics"
	"github.com/mfgsight/qualitycast/internal/analytics/anomaly"
	"github.com/mfgsight/qualitycast/internal/analytics/correlation"
	"github.com/mfgsight/qualitycast/internal/analytics/engine"
	"github.com/mfgsight/qualitycast/internal/analytics/forecast"
	"github.com/mfgsight/qualitycast/internal/analytics/seasonality"
	"github.com/mfgsight/qualitycast/internal/analytics/stats"
	"github.com/mfgsight/qualitycast/internal/logging"
	"github.com/mfgsight/qualitycast/internal/utils"
)

// timeLayouts are tried in order for the time column
var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// Report is the JSON document printed to stdout
type Report struct {
	Source      string                        `json:"source"`
	Points      int                           `json:"points"`
	Skipped     int                           `json:"skipped_rows"`
	Summary     stats.SummaryStatistics       `json:"summary"`
	Forecast    *forecast.TrendAnalysis       `json:"forecast,omitempty"`
	ForecastErr string                        `json:"forecast_error,omitempty"`
	Anomalies   []anomaly.AnomalyResult       `json:"anomalies"`
	Seasonality seasonality.SeasonalityResult `json:"seasonality"`

	// Trend correlates each value with its sample index
	Trend    *correlation.CorrelationResult `json:"trend,omitempty"`
	TrendErr string                         `json:"trend_error,omitempty"`
}

func main() {
	// Command line flags
	input := flag.String("input", "", "CSV file with time,value rows (- for stdin)")
	timeColumn := flag.Int("time-column", 0, "Zero-based index of the time column")
	valueColumn := flag.Int("value-column", 1, "Zero-based index of the value column")
	method := flag.String("method", "linear", "Forecast method ("+strings.Join(forecast.ListForecasters(), ", ")+")")
	horizon := flag.Int("horizon", forecast.DefaultHorizon, "Number of steps to forecast")
	confidence := flag.Float64("confidence", forecast.DefaultConfidence, "Confidence level (0.90, 0.95, 0.99)")
	sensitivity := flag.Float64("sensitivity", anomaly.DefaultSensitivity, "Anomaly score threshold")
	maxPeriod := flag.Int("max-period", seasonality.DefaultMaxPeriod, "Longest seasonal period to test")
	pvalue := flag.String("pvalue", string(stats.PValueApproximate), "P-value method (approximate, exact)")
	pretty := flag.Bool("pretty", true, "Indent JSON output")

	flag.Parse()

	logger := logging.NewDevelopment()

	// Validate required parameters
	if *input == "" {
		logger.Fatal("Error: -input parameter is required")
	}

	pValue, err := stats.PValueFuncFor(stats.PValueMethod(*pvalue))
	if err != nil {
		logger.Fatal("Invalid p-value method", "error", err)
	}

	var r io.Reader = os.Stdin
	if *input != "-" {
		f, err := os.Open(*input)
		if err != nil {
			logger.Fatal("Failed to open input", "path", *input, "error", err)
		}
		defer func() { _ = f.Close() }()
		r = f
	}

	points, skipped, err := readSeries(r, *timeColumn, *valueColumn)
	if err != nil {
		logger.Fatal("Failed to read CSV", "error", err)
	}
	if skipped > 0 {
		logger.Warn("Skipped rows without a numeric value or parseable time", "rows", skipped)
	}
	if len(points) == 0 {
		logger.Fatal("No data points found", "path", *input)
	}

	eng := engine.New(engine.Options{PValue: pValue})

	report := Report{
		Source:      *input,
		Points:      len(points),
		Skipped:     skipped,
		Summary:     eng.SummaryStatistics(analytics.TimeSeriesData(points).Values()),
		Anomalies:   eng.DetectAnomalies(points, *sensitivity).Anomalies(),
		Seasonality: eng.DetectSeasonality(points, *maxPeriod),
	}

	cfg := forecast.DefaultForecastConfig()
	cfg.Horizon = *horizon
	cfg.ConfidenceLevel = *confidence
	trend, err := eng.Forecast(forecast.Method(*method), points, cfg)
	if err != nil {
		report.ForecastErr = err.Error()
	} else {
		report.Forecast = trend
	}

	if trend, err := trendSignificance(eng, points); err != nil {
		report.TrendErr = err.Error()
	} else {
		report.Trend = trend
	}

	enc := json.NewEncoder(os.Stdout)
	if *pretty {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(report); err != nil {
		logger.Fatal("Failed to write report", "error", err)
	}
}

// trendSignificance correlates values with their position in the series.
// The p-value comes from the engine's configured method.
func trendSignificance(eng engine.Engine, points []analytics.TimeSeriesPoint) (*correlation.CorrelationResult, error) {
	values := analytics.TimeSeriesData(points).Values()
	index := make([]float64, len(values))
	for i := range index {
		index[i] = float64(i)
	}
	return eng.CalculateCorrelation(index, values, correlation.WithLabels("index", "value"))
}

// readSeries reads time/value pairs. Rows whose value does not parse, such
// as a header, are counted as skipped.
func readSeries(r io.Reader, timeColumn, valueColumn int) ([]analytics.TimeSeriesPoint, int, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, 0, err
	}

	valueFields := make([]string, len(records))
	for i, record := range records {
		if valueColumn < len(record) {
			valueFields[i] = record[valueColumn]
		}
	}

	values, indices := utils.ParseFloat64Slice(valueFields)

	points := make([]analytics.TimeSeriesPoint, 0, len(values))
	for j, rowIdx := range indices {
		record := records[rowIdx]
		if timeColumn >= len(record) {
			continue
		}
		ts, err := parseTime(record[timeColumn])
		if err != nil {
			continue
		}
		points = append(points, analytics.TimeSeriesPoint{Time: ts, Value: values[j]})
	}

	return points, len(records) - len(points), nil
}

// parseTime accepts the layouts in timeLayouts or Unix seconds
func parseTime(field string) (time.Time, error) {
	field = strings.TrimSpace(field)
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, field); err == nil {
			return t, nil
		}
	}
	if secs, err := strconv.ParseInt(field, 10, 64); err == nil {
		return time.Unix(secs, 0).UTC(), nil
	}
	return time.Time{}, fmt.Errorf("unrecognized time %q", field)
}
