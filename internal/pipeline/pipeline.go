// Package pipeline runs one complete feature extraction pass over the five
// activity streams.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"insider-features/contracts/events"
	"insider-features/internal/aggregator"
	"insider-features/internal/metrics"
	"insider-features/internal/policy"
	"insider-features/internal/processor"
	"insider-features/internal/record"
	"insider-features/internal/session"
	"insider-features/internal/summary"
)

// Dataset holds the raw rows of every stream. A nil stream is simply empty.
type Dataset struct {
	Logon  []record.Row
	Device []record.Row
	File   []record.Row
	Email  []record.Row
	Http   []record.Row
}

func (d Dataset) Rows(stream string) []record.Row {
	switch stream {
	case aggregator.StreamLogon:
		return d.Logon
	case aggregator.StreamDevice:
		return d.Device
	case aggregator.StreamFile:
		return d.File
	case aggregator.StreamEmail:
		return d.Email
	case aggregator.StreamHttp:
		return d.Http
	}
	return nil
}

type Options struct {
	Policy policy.Policy
	// Parallel runs the device, file, email and http stages concurrently
	// once the logon stage has produced the primary device map.
	Parallel      bool
	TimeCacheSize int
	Location      *time.Location
	Logger        *slog.Logger
	Metrics       *metrics.Metrics
}

type Stats struct {
	RecordsRead     int64 `json:"records_read"`
	RecordsSkipped  int64 `json:"records_skipped"`
	EntriesAppended int64 `json:"entries_appended"`
	OffHoursLogons  int64 `json:"off_hours_logons"`
}

type Result struct {
	Primary     map[string]string
	Sessions    *session.Store
	LogonDays   []summary.LogonDay
	EmailDays   []summary.EmailDay
	HttpDays    []summary.HttpDay
	Diagnostics []aggregator.Diagnostic
	Stats       Stats
}

// Run is rebuilt from scratch on every call; nothing is shared between runs.
func Run(ctx context.Context, data Dataset, opts Options) (*Result, error) {
	c := aggregator.NewContext(opts.Policy, opts.Logger)
	parser := record.NewParser(record.NewTimeParser(opts.TimeCacheSize, opts.Location))

	logon := &processor.LogonHandler{Parser: parser}
	web := &processor.HttpHandler{Parser: parser, Scorers: aggregator.NewHttpScorers(opts.Policy.Lexicons)}
	reg := processor.NewRegistry(
		logon,
		&processor.DeviceHandler{Parser: parser},
		&processor.FileHandler{Parser: parser},
		&processor.EmailHandler{Parser: parser},
		web,
	)

	stage := func(stream string) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		start := time.Now()
		err := reg.Handle(stream, c, data.Rows(stream))
		if opts.Metrics != nil {
			opts.Metrics.ObserveStage(stream, start)
		}
		return err
	}

	if err := stage(aggregator.StreamLogon); err != nil {
		return nil, fmt.Errorf("run pipeline: %w", err)
	}

	rest := aggregator.Streams[1:]
	if opts.Parallel {
		g, _ := errgroup.WithContext(ctx)
		for _, stream := range rest {
			g.Go(func() error { return stage(stream) })
		}
		if err := g.Wait(); err != nil {
			return nil, fmt.Errorf("run pipeline: %w", err)
		}
	} else {
		for _, stream := range rest {
			if err := stage(stream); err != nil {
				return nil, fmt.Errorf("run pipeline: %w", err)
			}
		}
	}

	start := time.Now()
	result := &Result{
		Primary:     c.Primary,
		Sessions:    c.Store,
		LogonDays:   summary.LogonDays(logon.Logons, opts.Policy.OfficeHours),
		EmailDays:   summary.EmailDays(c.Store),
		HttpDays:    web.Days,
		Diagnostics: c.Diagnostics.List(),
		Stats: Stats{
			RecordsRead:     c.Stats.RecordsRead.Load(),
			RecordsSkipped:  c.Stats.RecordsSkipped.Load(),
			EntriesAppended: c.Stats.EntriesAppended.Load(),
			OffHoursLogons:  c.Stats.OffHoursLogons.Load(),
		},
	}
	if opts.Metrics != nil {
		opts.Metrics.ObserveStage("summary", start)
		observe(opts.Metrics, result)
	}

	c.Logger.Info("Pipeline finished",
		"users", len(result.Primary),
		"logon_days", len(result.LogonDays),
		"email_days", len(result.EmailDays),
		"http_days", len(result.HttpDays),
		"diagnostics", len(result.Diagnostics),
	)
	return result, nil
}

func observe(m *metrics.Metrics, r *Result) {
	m.RecordsRead.Add(float64(r.Stats.RecordsRead))
	m.RecordsSkipped.Add(float64(r.Stats.RecordsSkipped))
	for _, d := range r.Diagnostics {
		m.Diagnostics.WithLabelValues(d.Stream).Inc()
	}
	m.AddFeatureRows(events.DomainLogonDay, len(r.LogonDays))
	m.AddFeatureRows(events.DomainEmailDay, len(r.EmailDays))
	m.AddFeatureRows(events.DomainHttpDay, len(r.HttpDays))
}
