package snapshot

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/renalcare/renalcare/internal/engine"
	"github.com/renalcare/renalcare/internal/platform/audit"
	"github.com/renalcare/renalcare/internal/platform/metrics"
)

// seriesLookbackDays bounds how far back lab series are fetched for bundle
// assembly. Wider than any default rule lookback so windowing happens in the
// engine, not in SQL.
const seriesLookbackDays = 180

type Service struct {
	charts  ChartRepository
	reviews ReviewRepository
	tags    TagRepository
	eng     *engine.Engine
	audit   audit.Publisher
	metrics *metrics.Metrics
	log     zerolog.Logger
}

func NewService(
	charts ChartRepository,
	reviews ReviewRepository,
	tags TagRepository,
	eng *engine.Engine,
	auditPub audit.Publisher,
	m *metrics.Metrics,
	log zerolog.Logger,
) *Service {
	return &Service{
		charts:  charts,
		reviews: reviews,
		tags:    tags,
		eng:     eng,
		audit:   auditPub,
		metrics: m,
		log:     log,
	}
}

// Bundle assembles the complete engine input for one patient at the given
// clock. Every read is bounded by asOf, so assembling twice against unchanged
// chart data yields the same bundle.
func (s *Service) Bundle(ctx context.Context, patientID uuid.UUID, asOf time.Time) (*engine.PatientBundle, error) {
	latest, err := s.charts.LatestLabs(ctx, patientID, asOf)
	if err != nil {
		return nil, fmt.Errorf("load latest labs: %w", err)
	}

	since := asOf.AddDate(0, 0, -seriesLookbackDays)
	series := make(map[string][]engine.TimeSeriesPoint, len(engine.TrackedLabs))
	for _, labType := range engine.TrackedLabs {
		points, err := s.charts.LabSeries(ctx, patientID, labType, since, asOf)
		if err != nil {
			return nil, fmt.Errorf("load %s series: %w", labType, err)
		}
		if len(points) == 0 {
			continue
		}
		ts := make([]engine.TimeSeriesPoint, 0, len(points))
		for _, p := range points {
			ts = append(ts, engine.TimeSeriesPoint{Date: p.Date, Value: p.Value})
		}
		series[labType] = ts
	}

	vitals, err := s.charts.LatestVitals(ctx, patientID, asOf)
	if err != nil {
		return nil, fmt.Errorf("load vitals: %w", err)
	}

	meds, err := s.charts.ActiveMedications(ctx, patientID)
	if err != nil {
		return nil, fmt.Errorf("load medications: %w", err)
	}

	msgs, err := s.charts.Messages(ctx, patientID, asOf)
	if err != nil {
		return nil, fmt.Errorf("load messages: %w", err)
	}

	alertCount, err := s.charts.UnresolvedAlertCount(ctx, patientID)
	if err != nil {
		return nil, fmt.Errorf("count alerts: %w", err)
	}

	tags, err := s.charts.HistoryTags(ctx, patientID)
	if err != nil {
		return nil, fmt.Errorf("load history tags: %w", err)
	}

	lastReview, err := s.charts.LastReview(ctx, patientID)
	if err != nil {
		return nil, fmt.Errorf("load last review: %w", err)
	}

	override, err := s.charts.IntervalOverride(ctx, patientID)
	if err != nil {
		return nil, fmt.Errorf("load schedule override: %w", err)
	}

	b := &engine.PatientBundle{
		AsOf:                asOf,
		LatestLabs:          latest,
		Series:              series,
		Medications:         meds,
		UnresolvedAlerts:    alertCount,
		Messages:            msgs,
		HistoryTags:         tags,
		LastReviewAt:        lastReview,
		LabIntervalOverride: override,
	}
	if vitals != nil {
		b.BloodPressure = vitals.BloodPressure
		b.HeartRate = vitals.HeartRate
		b.Temperature = vitals.Temperature
	}
	return b, nil
}

// Compute assembles the patient's chart and derives the decision snapshot.
// actor is the requesting user, recorded on the audit trail.
func (s *Service) Compute(ctx context.Context, patientID uuid.UUID, actor string) (*Snapshot, error) {
	asOf := time.Now().UTC()
	return s.ComputeAt(ctx, patientID, actor, asOf)
}

// ComputeAt is Compute with an explicit clock. Snapshots are never stored;
// the audit trail records that one was produced, not its content.
func (s *Service) ComputeAt(ctx context.Context, patientID uuid.UUID, actor string, asOf time.Time) (*Snapshot, error) {
	start := time.Now()

	bundle, err := s.Bundle(ctx, patientID, asOf)
	if err != nil {
		return nil, err
	}

	result := s.eng.Compute(*bundle)

	if s.metrics != nil {
		s.metrics.SnapshotDuration.Observe(time.Since(start).Seconds())
		s.metrics.SnapshotsComputed.WithLabelValues(string(result.Tier.Level), string(result.Action.Level)).Inc()
	}

	if err := s.audit.Publish(ctx, "snapshot.computed", actor, patientID.String(), map[string]interface{}{
		"as_of":  asOf,
		"tier":   result.Tier.Level,
		"action": result.Action.Level,
	}); err != nil {
		if s.metrics != nil {
			s.metrics.AuditPublishError.Inc()
		}
		s.log.Warn().Err(err).Str("patient_id", patientID.String()).Msg("audit publish failed")
	}

	return &Snapshot{PatientID: patientID, AsOf: asOf, Result: result}, nil
}

// -- Reviews --

func (s *Service) RecordReview(ctx context.Context, r *Review) error {
	if r.PatientID == uuid.Nil {
		return fmt.Errorf("patient_id is required")
	}
	if r.ReviewedBy == "" {
		return fmt.Errorf("reviewed_by is required")
	}
	if r.ReviewedAt.IsZero() {
		r.ReviewedAt = time.Now().UTC()
	}
	if err := s.reviews.Create(ctx, r); err != nil {
		return err
	}

	if err := s.audit.Publish(ctx, "patient.reviewed", r.ReviewedBy, r.PatientID.String(), nil); err != nil {
		if s.metrics != nil {
			s.metrics.AuditPublishError.Inc()
		}
		s.log.Warn().Err(err).Str("patient_id", r.PatientID.String()).Msg("audit publish failed")
	}
	return nil
}

func (s *Service) ListReviews(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Review, int, error) {
	return s.reviews.ListByPatient(ctx, patientID, limit, offset)
}

// -- History Tags --

func (s *Service) AddTag(ctx context.Context, t *HistoryTag) error {
	if t.PatientID == uuid.Nil {
		return fmt.Errorf("patient_id is required")
	}
	if t.Tag == "" {
		return fmt.Errorf("tag is required")
	}
	return s.tags.Add(ctx, t)
}

func (s *Service) RemoveTag(ctx context.Context, patientID uuid.UUID, tag string) error {
	return s.tags.Remove(ctx, patientID, tag)
}

func (s *Service) ListTags(ctx context.Context, patientID uuid.UUID) ([]*HistoryTag, error) {
	return s.tags.ListByPatient(ctx, patientID)
}
