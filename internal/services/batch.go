package services

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/mfgsight/qualitycast/internal/analytics"
	"github.com/mfgsight/qualitycast/internal/analytics/forecast"
	"github.com/mfgsight/qualitycast/internal/analytics/seasonality"
	"github.com/mfgsight/qualitycast/internal/analytics/stats"
)

// SeriesRequest is one series of a batch, typically one machine or sensor
type SeriesRequest struct {
	ID          string                      `json:"id"`
	Series      []analytics.TimeSeriesPoint `json:"series"`
	Method      string                      `json:"method,omitempty"`
	Horizon     int                         `json:"horizon,omitempty"`
	Sensitivity float64                     `json:"sensitivity,omitempty"`
	MaxPeriod   int                         `json:"max_period,omitempty"`
}

// SeriesResult holds every analysis of one batch item. Error carries the
// first failure; the analyses that succeeded are still filled in.
type SeriesResult struct {
	ID          string                         `json:"id"`
	Summary     stats.SummaryStatistics        `json:"summary"`
	Forecast    *forecast.TrendAnalysis        `json:"forecast,omitempty"`
	Anomalies   *AnomalyResponse               `json:"anomalies,omitempty"`
	Seasonality *seasonality.SeasonalityResult `json:"seasonality,omitempty"`
	Error       *ServiceError                  `json:"error,omitempty"`
}

// BatchResponse is the outcome of AnalyzeBatch, in request order
type BatchResponse struct {
	Results   []SeriesResult `json:"results"`
	Succeeded int            `json:"succeeded"`
	Failed    int            `json:"failed"`
}

// AnalyzeBatch analyzes each series concurrently, bounded by the configured
// batch concurrency. Item failures are reported per item. Items not yet
// started when ctx is cancelled are marked CANCELLED.
func (s *AnalyticsService) AnalyzeBatch(ctx context.Context, items []SeriesRequest) (*BatchResponse, error) {
	startExec := time.Now()

	if len(items) == 0 {
		return nil, NewServiceError(CodeInvalidRequest, "batch must contain at least one series")
	}
	if s.cfg.MaxBatchSize > 0 && len(items) > s.cfg.MaxBatchSize {
		return nil, NewServiceErrorWithDetails(CodeInvalidRequest,
			fmt.Sprintf("batch has %d series, maximum is %d", len(items), s.cfg.MaxBatchSize),
			map[string]interface{}{"max_batch_size": s.cfg.MaxBatchSize})
	}

	results := make([]SeriesResult, len(items))

	g, gctx := errgroup.WithContext(ctx)
	if s.cfg.BatchConcurrency > 0 {
		g.SetLimit(s.cfg.BatchConcurrency)
	}

	for i, item := range items {
		i, item := i, item
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				results[i] = SeriesResult{
					ID:    item.ID,
					Error: NewServiceError(CodeCancelled, err.Error()),
				}
				return nil
			}
			results[i] = s.analyzeSeries(gctx, item)
			return nil
		})
	}
	_ = g.Wait()

	resp := &BatchResponse{Results: results}
	for _, r := range results {
		if r.Error != nil {
			resp.Failed++
		} else {
			resp.Succeeded++
		}
	}

	s.logger.WithContext(ctx).Info("Batch analysis completed",
		"series", len(items),
		"succeeded", resp.Succeeded,
		"failed", resp.Failed,
		"latency_ms", time.Since(startExec).Milliseconds())

	return resp, nil
}

// analyzeSeries runs summary, forecast, anomaly and seasonality analysis
func (s *AnalyticsService) analyzeSeries(ctx context.Context, item SeriesRequest) SeriesResult {
	result := SeriesResult{ID: item.ID}

	if err := s.checkLength(len(item.Series)); err != nil {
		result.Error = toServiceError(err)
		return result
	}

	result.Summary = s.engine.SummaryStatistics(analytics.TimeSeriesData(item.Series).Values())

	trend, err := s.Forecast(ctx, &ForecastRequest{
		Series:  item.Series,
		Method:  item.Method,
		Horizon: item.Horizon,
	})
	if err != nil {
		result.Error = toServiceError(err)
	} else {
		result.Forecast = trend
	}

	anomalies, err := s.DetectAnomalies(ctx, &AnomalyRequest{
		Series:      item.Series,
		Sensitivity: item.Sensitivity,
		Source:      item.ID,
	})
	if err != nil {
		if result.Error == nil {
			result.Error = toServiceError(err)
		}
	} else {
		result.Anomalies = anomalies
	}

	seasonal := s.engine.DetectSeasonality(item.Series, item.MaxPeriod)
	result.Seasonality = &seasonal

	return result
}
