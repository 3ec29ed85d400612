package services

import (
	"context"
	"fmt"
	"time"

	"github.com/mfgsight/qualitycast/internal/analytics"
	"github.com/mfgsight/qualitycast/internal/analytics/anomaly"
	"github.com/mfgsight/qualitycast/internal/analytics/correlation"
	"github.com/mfgsight/qualitycast/internal/analytics/engine"
	"github.com/mfgsight/qualitycast/internal/analytics/forecast"
	"github.com/mfgsight/qualitycast/internal/analytics/seasonality"
	"github.com/mfgsight/qualitycast/internal/analytics/stats"
	"github.com/mfgsight/qualitycast/internal/config"
	"github.com/mfgsight/qualitycast/internal/logging"
	"github.com/mfgsight/qualitycast/internal/queue"
)

// MaxHorizon caps the number of forecast steps per request
const MaxHorizon = 1000

// AnalyticsService handles analytics business logic
type AnalyticsService struct {
	logger      *logging.Logger
	engine      engine.Engine
	cfg         config.AnalyticsConfig
	events      config.EventsConfig
	minSeverity anomaly.Severity
	publisher   queue.Publisher
}

// NewAnalyticsService creates a new AnalyticsService. publisher may be nil,
// in which case no anomaly events are sent.
func NewAnalyticsService(
	logger *logging.Logger,
	cfg config.AnalyticsConfig,
	events config.EventsConfig,
	publisher queue.Publisher,
) (*AnalyticsService, error) {
	pValue, err := stats.PValueFuncFor(stats.PValueMethod(cfg.PValueMethod))
	if err != nil {
		return nil, err
	}

	minSeverity := anomaly.SeverityHigh
	if events.MinSeverity != "" {
		var ok bool
		if minSeverity, ok = anomaly.ParseSeverity(events.MinSeverity); !ok {
			return nil, fmt.Errorf("unknown anomaly severity: %s", events.MinSeverity)
		}
	}

	eng := engine.New(engine.Options{
		Alpha:         cfg.SmoothingAlpha,
		Sensitivity:   cfg.DefaultSensitivity,
		MaxPeriod:     cfg.DefaultMaxPeriod,
		Normalization: forecast.StrengthNormalization(cfg.StrengthNormalization),
		PValue:        pValue,
	})

	return &AnalyticsService{
		logger:      logger,
		engine:      eng,
		cfg:         cfg,
		events:      events,
		minSeverity: minSeverity,
		publisher:   publisher,
	}, nil
}

// ForecastRequest represents a forecast request
type ForecastRequest struct {
	Series          []analytics.TimeSeriesPoint
	Method          string
	Horizon         int
	ConfidenceLevel float64
	Alpha           float64
	SeasonalPeriod  int
}

// AnomalyRequest represents an anomaly detection request
type AnomalyRequest struct {
	Series      []analytics.TimeSeriesPoint
	Sensitivity float64
	Source      string // Machine or sensor the series belongs to
}

// AnomalyResponse is the index-aligned detection result
type AnomalyResponse struct {
	Results         []anomaly.AnomalyResult `json:"results"`
	AnomalyCount    int                     `json:"anomaly_count"`
	EventsPublished int                     `json:"events_published,omitempty"`
}

// CorrelationRequest represents a correlation request
type CorrelationRequest struct {
	A         []float64
	B         []float64
	Variable1 string
	Variable2 string
}

// SeasonalityRequest represents a seasonality request
type SeasonalityRequest struct {
	Series    []analytics.TimeSeriesPoint
	MaxPeriod int
}

// Methods lists the registered forecast methods
func (s *AnalyticsService) Methods() []string {
	return forecast.ListForecasters()
}

// Summary describes values; an empty slice yields the zero summary
func (s *AnalyticsService) Summary(ctx context.Context, values []float64) (stats.SummaryStatistics, error) {
	if err := s.checkLength(len(values)); err != nil {
		return stats.SummaryStatistics{}, err
	}
	return s.engine.SummaryStatistics(values), nil
}

// Forecast validates the request and runs the selected forecaster
func (s *AnalyticsService) Forecast(ctx context.Context, req *ForecastRequest) (*forecast.TrendAnalysis, error) {
	startExec := time.Now()

	if err := s.checkLength(len(req.Series)); err != nil {
		return nil, err
	}

	method := forecast.Method(req.Method)
	if method == "" {
		method = forecast.MethodLinear
	}
	if _, err := forecast.GetForecaster(method); err != nil {
		return nil, &ServiceError{
			Code:    CodeInvalidMethod,
			Message: err.Error(),
			Details: map[string]interface{}{
				"available_methods": forecast.ListForecasters(),
			},
		}
	}

	if req.Horizon < 0 || req.Horizon > MaxHorizon {
		return nil, NewServiceErrorWithDetails(CodeInvalidRequest,
			fmt.Sprintf("horizon must be between 0 and %d", MaxHorizon),
			map[string]interface{}{"horizon": req.Horizon})
	}

	cfg := forecast.DefaultForecastConfig()
	cfg.Horizon = req.Horizon
	if cfg.Horizon == 0 {
		cfg.Horizon = s.cfg.DefaultHorizon
	}
	cfg.ConfidenceLevel = req.ConfidenceLevel
	if cfg.ConfidenceLevel == 0 {
		cfg.ConfidenceLevel = s.cfg.DefaultConfidence
	}
	cfg.Alpha = req.Alpha
	cfg.SeasonalPeriod = req.SeasonalPeriod
	cfg.Normalization = ""

	result, err := s.engine.Forecast(method, req.Series, cfg)
	if err != nil {
		return nil, toServiceError(err)
	}

	s.logger.WithContext(ctx).Debug("Forecast completed",
		"method", result.Method,
		"points", len(req.Series),
		"horizon", cfg.Horizon,
		"latency_ms", time.Since(startExec).Milliseconds())

	return result, nil
}

// DetectAnomalies scores every point and publishes reportable anomalies
func (s *AnalyticsService) DetectAnomalies(ctx context.Context, req *AnomalyRequest) (*AnomalyResponse, error) {
	if err := s.checkLength(len(req.Series)); err != nil {
		return nil, err
	}
	if req.Sensitivity < 0 {
		return nil, NewServiceError(CodeInvalidRequest, "sensitivity must not be negative")
	}

	if req.Source != "" {
		ctx = logging.WithSource(ctx, req.Source)
	}

	report := s.engine.DetectAnomalies(req.Series, req.Sensitivity)
	published := s.publishAnomalies(ctx, req.Source, report)

	return &AnomalyResponse{
		Results:         report.Results,
		AnomalyCount:    report.Count(),
		EventsPublished: published,
	}, nil
}

// Correlation computes the Pearson correlation of two aligned series
func (s *AnalyticsService) Correlation(ctx context.Context, req *CorrelationRequest) (*correlation.CorrelationResult, error) {
	if err := s.checkLength(len(req.A)); err != nil {
		return nil, err
	}

	var opts []correlation.Option
	if req.Variable1 != "" || req.Variable2 != "" {
		opts = append(opts, correlation.WithLabels(req.Variable1, req.Variable2))
	}

	result, err := s.engine.CalculateCorrelation(req.A, req.B, opts...)
	if err != nil {
		return nil, toServiceError(err)
	}
	return result, nil
}

// Seasonality looks for a repeating cycle in the series
func (s *AnalyticsService) Seasonality(ctx context.Context, req *SeasonalityRequest) (seasonality.SeasonalityResult, error) {
	if err := s.checkLength(len(req.Series)); err != nil {
		return seasonality.None(), err
	}
	if req.MaxPeriod < 0 {
		return seasonality.None(), NewServiceError(CodeInvalidRequest, "max_period must not be negative")
	}
	return s.engine.DetectSeasonality(req.Series, req.MaxPeriod), nil
}

// checkLength rejects series longer than the configured maximum
func (s *AnalyticsService) checkLength(n int) error {
	if s.cfg.MaxSeriesLength > 0 && n > s.cfg.MaxSeriesLength {
		return NewServiceErrorWithDetails(CodeInvalidRequest,
			fmt.Sprintf("series has %d points, maximum is %d", n, s.cfg.MaxSeriesLength),
			map[string]interface{}{"max_series_length": s.cfg.MaxSeriesLength})
	}
	return nil
}
