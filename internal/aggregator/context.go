// Package aggregator folds the five activity streams into the session store.
//
// Stages share one explicit Context instead of passing maps around: the
// primary device map, the store, the office-hours policy and the diagnostics
// sink. The logon stage must run first because it produces the primary
// device map read by the device and email stages.
package aggregator

import (
	"io"
	"log/slog"

	"go.uber.org/atomic"

	"insider-features/internal/policy"
	"insider-features/internal/record"
	"insider-features/internal/session"
)

const (
	StreamLogon  = "logon"
	StreamDevice = "device"
	StreamFile   = "file"
	StreamEmail  = "email"
	StreamHttp   = "http"
)

// Streams lists the streams in pipeline order.
var Streams = []string{StreamLogon, StreamDevice, StreamFile, StreamEmail, StreamHttp}

// Stats counts work done by the stages. Counters are atomic because stream
// stages may run concurrently.
type Stats struct {
	RecordsRead     atomic.Int64
	RecordsSkipped  atomic.Int64
	EntriesAppended atomic.Int64
	OffHoursLogons  atomic.Int64
}

type Context struct {
	Primary     map[string]string
	Store       *session.Store
	Policy      policy.Policy
	Diagnostics *Diagnostics
	Stats       *Stats
	Logger      *slog.Logger
}

func NewContext(p policy.Policy, logger *slog.Logger) *Context {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Context{
		Primary:     map[string]string{},
		Store:       session.NewStore(),
		Policy:      p,
		Diagnostics: NewDiagnostics(),
		Stats:       &Stats{},
		Logger:      logger,
	}
}

// PrimaryOf reports the user's baseline device. A user without one has no
// established baseline; callers must not treat that as a mismatch.
func (c *Context) PrimaryOf(stream string, b record.Base) (string, bool) {
	pc, ok := c.Primary[b.User]
	if !ok {
		c.Diagnostics.AddOnce(stream+"/"+b.User, Diagnostic{
			Stream: stream,
			Row:    b.Index,
			User:   b.User,
			Err:    record.ErrMissingPrimaryDevice,
		})
	}
	return pc, ok
}

func (c *Context) skip(stream string, index int, user string, err error) {
	c.Stats.RecordsSkipped.Inc()
	c.Diagnostics.Add(Diagnostic{Stream: stream, Row: index, User: user, Err: err})
	c.Logger.Debug("Skipping record", "stream", stream, "row", index, "error", err)
}

func (c *Context) appendEntry(user string, date record.Date, e session.Entry) {
	c.Store.Append(user, date, e)
	c.Stats.EntriesAppended.Inc()
}

// Parse converts raw rows into typed records. Rows that fail to parse are
// recorded as diagnostics and dropped; the pass always completes.
func Parse[T any](c *Context, stream string, rows []record.Row, parse func(int, record.Row) (T, error)) []T {
	out := make([]T, 0, len(rows))
	for i, row := range rows {
		c.Stats.RecordsRead.Inc()
		rec, err := parse(i, row)
		if err != nil {
			user, _ := row.Get(record.ColumnUser)
			c.skip(stream, i, user, err)
			continue
		}
		out = append(out, rec)
	}
	return out
}
