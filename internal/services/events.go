package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/mfgsight/qualitycast/internal/analytics/anomaly"
	"github.com/mfgsight/qualitycast/internal/queue"
)

// AnomalyEvent is the message published for each reportable anomaly
type AnomalyEvent struct {
	ID         string              `json:"id"`
	Source     string              `json:"source,omitempty"`
	Index      int                 `json:"index"`
	Timestamp  time.Time           `json:"timestamp"`
	Value      float64             `json:"value"`
	Score      float64             `json:"score"`
	Type       anomaly.AnomalyType `json:"type"`
	Severity   anomaly.Severity    `json:"severity"`
	Expected   *anomaly.Range      `json:"expected,omitempty"`
	DetectedAt time.Time           `json:"detected_at"`
}

// newAnomalyEvent builds the event for one anomalous result
func newAnomalyEvent(source string, r anomaly.AnomalyResult, detectedAt time.Time) AnomalyEvent {
	return AnomalyEvent{
		ID:         uuid.New().String(),
		Source:     source,
		Index:      r.Index,
		Timestamp:  r.Timestamp,
		Value:      r.Value,
		Score:      r.Score,
		Type:       r.Type,
		Severity:   r.Severity,
		Expected:   r.Expected,
		DetectedAt: detectedAt,
	}
}

// publishAnomalies sends one event per anomaly at or above the configured
// severity. Failures are logged with the request fields carried by ctx and
// reported as zero published.
func (s *AnalyticsService) publishAnomalies(ctx context.Context, source string, report anomaly.Report) int {
	if s.publisher == nil || !s.events.Enabled {
		return 0
	}

	log := s.logger.WithContext(ctx)
	detectedAt := time.Now().UTC()
	var messages []queue.BatchMessage
	for _, r := range report.Anomalies() {
		if !r.Severity.AtLeast(s.minSeverity) {
			continue
		}
		data, err := json.Marshal(newAnomalyEvent(source, r, detectedAt))
		if err != nil {
			log.Warn("Failed to encode anomaly event", "index", r.Index, "error", err)
			continue
		}
		messages = append(messages, queue.BatchMessage{Subject: s.events.Subject, Data: data})
	}

	if len(messages) == 0 {
		return 0
	}

	if s.events.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.events.Timeout)
		defer cancel()
	}

	published, err := s.publisher.PublishBatch(ctx, messages)
	if err != nil {
		log.Warn("Failed to publish anomaly events",
			"subject", s.events.Subject,
			"events", len(messages),
			"error", err)
		return 0
	}

	log.Debug("Published anomaly events",
		"subject", s.events.Subject,
		"published", published)
	return published
}
