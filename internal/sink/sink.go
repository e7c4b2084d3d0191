// Package sink delivers the feature rows of a run to external systems.
package sink

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/hashicorp/go-multierror"

	"insider-features/contracts/events"
	"insider-features/internal/metrics"
	"insider-features/internal/pipeline"
	"insider-features/internal/record"
	"insider-features/internal/session"
	"insider-features/internal/summary"
)

// OffHoursCount is the off-hours logon tally of one user-day.
type OffHoursCount struct {
	User  string
	Date  record.Date
	Count int
}

// Batch is everything a sink may persist from one run.
type Batch struct {
	RunID     string
	CreatedAt time.Time
	Rows      []events.FeatureRow
	Primary   map[string]string
	OffHours  []OffHoursCount
}

func NewBatch(runID string, now time.Time, res *pipeline.Result) Batch {
	b := Batch{
		RunID:     runID,
		CreatedAt: now,
		Rows:      summary.Rows(res.LogonDays, res.EmailDays, res.HttpDays),
		Primary:   res.Primary,
	}
	res.Sessions.Each(func(user string, date record.Date, day *session.Day) {
		if day.OffHoursLogonCount > 0 {
			b.OffHours = append(b.OffHours, OffHoursCount{User: user, Date: date, Count: day.OffHoursLogonCount})
		}
	})
	return b
}

// Envelopes wraps every row in a contract envelope, in row order.
func (b Batch) Envelopes() ([]events.Envelope, error) {
	out := make([]events.Envelope, 0, len(b.Rows))
	for _, row := range b.Rows {
		env, err := events.NewEnvelope(row, b.RunID, b.CreatedAt)
		if err != nil {
			return nil, err
		}
		out = append(out, env)
	}
	return out, nil
}

type Sink interface {
	Name() string
	Publish(ctx context.Context, b Batch) error
	io.Closer
}

// Multi fans a batch out to every configured sink. One failing sink does
// not stop the others.
type Multi struct {
	sinks   []Sink
	metrics *metrics.Metrics
	logger  *slog.Logger
}

func NewMulti(logger *slog.Logger, m *metrics.Metrics, sinks ...Sink) *Multi {
	return &Multi{sinks: sinks, metrics: m, logger: logger}
}

func (m *Multi) Len() int {
	return len(m.sinks)
}

func (m *Multi) Publish(ctx context.Context, b Batch) error {
	var result *multierror.Error
	for _, s := range m.sinks {
		if err := s.Publish(ctx, b); err != nil {
			if m.metrics != nil {
				m.metrics.IncrementSinkErrors(s.Name())
			}
			m.logger.Error("Sink publish failed", "sink", s.Name(), "error", err)
			result = multierror.Append(result, fmt.Errorf("%s: %w", s.Name(), err))
			continue
		}
		if m.metrics != nil {
			m.metrics.AddSinkPublished(s.Name(), len(b.Rows))
		}
		m.logger.Info("Sink published", "sink", s.Name(), "rows", len(b.Rows), "run_id", b.RunID)
	}
	return result.ErrorOrNil()
}

func (m *Multi) Close() error {
	var result *multierror.Error
	for _, s := range m.sinks {
		if err := s.Close(); err != nil {
			result = multierror.Append(result, fmt.Errorf("close %s: %w", s.Name(), err))
		}
	}
	return result.ErrorOrNil()
}
