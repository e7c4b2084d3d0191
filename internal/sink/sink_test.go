package sink

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"io/fs"
	"log/slog"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/nats-io/nats.go"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"insider-features/contracts/events"
	"insider-features/internal/metrics"
	"insider-features/internal/pipeline"
	"insider-features/internal/policy"
	"insider-features/internal/record"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

func testBatch() Batch {
	early := -60.0
	return Batch{
		RunID:     "run-1",
		CreatedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Primary:   map[string]string{"B": "PC-2", "A": "PC-1"},
		OffHours:  []OffHoursCount{{User: "A", Date: "2010-01-04", Count: 2}},
		Rows: []events.FeatureRow{
			events.LogonDayPayload{User: "A", Date: "2010-01-04", MinutesFirstLoginVsOfficeStart: &early, LogonCount: 2, OffHoursLogonCount: 2},
			events.EmailDayPayload{User: "A", Date: "2010-01-04", EmailsInsideOrg: 1, TotalRecipients: 1},
			events.HttpDayPayload{User: "B", Date: "2010-01-05", WikileaksVisitCount: 1},
		},
	}
}

func TestNewBatch(t *testing.T) {
	res, err := pipeline.Run(context.Background(), pipeline.Dataset{
		Logon: []record.Row{
			record.MapRow{"date": "01/04/2010 07:00:00", "user": "A", "pc": "PC-1", "activity": "Logon"},
			record.MapRow{"date": "01/05/2010 09:00:00", "user": "A", "pc": "PC-1", "activity": "Logon"},
		},
	}, pipeline.Options{Policy: policy.Default()})
	require.NoError(t, err)

	b := NewBatch("run", time.Now(), res)
	assert.Len(t, b.Rows, 2)
	assert.Equal(t, []OffHoursCount{{User: "A", Date: "2010-01-04", Count: 1}}, b.OffHours)
	assert.Equal(t, map[string]string{"A": "PC-1"}, b.Primary)
}

func TestBatch_Envelopes(t *testing.T) {
	envs, err := testBatch().Envelopes()
	require.NoError(t, err)
	require.Len(t, envs, 3)
	assert.Equal(t, events.DomainLogonDay, envs[0].Domain)
	assert.Equal(t, "B", envs[2].Key())
	assert.Equal(t, "run-1", envs[1].Correlation[events.CorrelationRunID])

	bad := testBatch()
	bad.Rows = append(bad.Rows, events.HttpDayPayload{Date: "2010-01-05"})
	_, err = bad.Envelopes()
	assert.Error(t, err)
}

func TestJSONLines(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewJSONLines(&buf).Publish(context.Background(), testBatch()))

	scanner := bufio.NewScanner(&buf)
	var domains []string
	for scanner.Scan() {
		env, err := events.ParseEnvelope(scanner.Bytes())
		require.NoError(t, err)
		domains = append(domains, env.Domain)
	}
	assert.Equal(t, []string{events.DomainLogonDay, events.DomainEmailDay, events.DomainHttpDay}, domains)
}

type fakeSink struct {
	name      string
	err       error
	published int
	closed    bool
}

func (f *fakeSink) Name() string { return f.name }

func (f *fakeSink) Publish(_ context.Context, b Batch) error {
	if f.err != nil {
		return f.err
	}
	f.published += len(b.Rows)
	return nil
}

func (f *fakeSink) Close() error {
	f.closed = true
	return nil
}

func TestMulti(t *testing.T) {
	boom := errors.New("boom")
	ok := &fakeSink{name: "ok"}
	broken := &fakeSink{name: "broken", err: boom}
	m := metrics.NewMetrics()

	multi := NewMulti(discard, m, broken, ok)
	err := multi.Publish(context.Background(), testBatch())

	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 3, ok.published, "a failing sink does not stop the rest")
	assert.Equal(t, 3.0, testutil.ToFloat64(m.SinkPublished.WithLabelValues("ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SinkErrors.WithLabelValues("broken")))

	require.NoError(t, multi.Close())
	assert.True(t, ok.closed)
	assert.True(t, broken.closed)
	assert.Equal(t, 2, multi.Len())
}

func TestKafkaRecord(t *testing.T) {
	envs, err := testBatch().Envelopes()
	require.NoError(t, err)

	rec, err := kafkaRecord("features", envs[2])
	require.NoError(t, err)
	assert.Equal(t, "features", rec.Topic)
	assert.Equal(t, []byte("B"), rec.Key)
	assert.Equal(t, "domain", rec.Headers[0].Key)
	assert.Equal(t, []byte(events.DomainHttpDay), rec.Headers[0].Value)

	var back events.Envelope
	require.NoError(t, json.Unmarshal(rec.Value, &back))
	payload, err := back.HttpDayPayload()
	require.NoError(t, err)
	assert.Equal(t, 1, payload.WikileaksVisitCount)
}

func TestNatsMsg(t *testing.T) {
	envs, err := testBatch().Envelopes()
	require.NoError(t, err)

	msg, err := natsMsg("features", envs[0])
	require.NoError(t, err)
	assert.Equal(t, "features.logon_day", msg.Subject)
	assert.Equal(t, "run-1/logon_day/A/2010-01-04", msg.Header.Get(nats.MsgIdHdr))
	assert.Equal(t, "A", msg.Header.Get("x-user"))
}

func TestRedisKeys(t *testing.T) {
	assert.Equal(t, "user:ABC0001:primary_pc", primaryKey("ABC0001"))
	assert.Equal(t, "user:ABC0001:off_hours_logons", offHoursKey("ABC0001"))
	assert.Equal(t, "user:ABC0001:http_day", featureKey(events.DomainHttpDay, "ABC0001"))
}

func TestRedisQueue(t *testing.T) {
	rdb := redis.NewClient(&redis.Options{Addr: "127.0.0.1:0"})
	defer rdb.Close()
	r := NewRedis(rdb, 0)
	assert.Equal(t, defaultBaselineTTL, r.ttl)

	pipe := rdb.Pipeline()
	require.NoError(t, r.queue(context.Background(), pipe, testBatch()))
	// 2 primary sets, 1 off-hours hset+expire, 3 rows hset+expire
	assert.Equal(t, 2+2+6, pipe.Len())
}

func TestBuildBatch(t *testing.T) {
	batch, err := buildBatch(testBatch())
	require.NoError(t, err)
	require.Equal(t, 5, batch.Len())

	assert.Equal(t, upsertPrimary, batch.QueuedQueries[0].SQL)
	assert.Equal(t, "A", batch.QueuedQueries[0].Arguments[0], "primary users are sorted")

	logon := batch.QueuedQueries[2]
	assert.Equal(t, upsertLogonDay, logon.SQL)
	assert.Equal(t, pgtype.Float8{Float64: -60, Valid: true}, logon.Arguments[2])
	assert.Equal(t, pgtype.Float8{}, logon.Arguments[3])
	assert.Equal(t, pgtype.Date{Time: time.Date(2010, 1, 4, 0, 0, 0, 0, time.UTC), Valid: true}, logon.Arguments[1])

	assert.Equal(t, upsertHttpDay, batch.QueuedQueries[4].SQL)
}

type unknownRow struct{ events.HttpDayPayload }

func (unknownRow) Domain() string { return "printer_day" }

func TestQueueRow_Unknown(t *testing.T) {
	err := queueRow(&pgx.Batch{}, "run", unknownRow{events.HttpDayPayload{User: "A", Date: "2010-01-04"}})
	assert.Error(t, err)
}

func TestMigrateURL(t *testing.T) {
	assert.Equal(t, "pgx5://u:p@db:5432/x?sslmode=disable", migrateURL("postgres://u:p@db:5432/x?sslmode=disable"))
	assert.Equal(t, "pgx5://db/x", migrateURL("postgresql://db/x"))
	assert.Equal(t, "pgx5://db/x", migrateURL("pgx5://db/x"))
}

func TestMigrations_Embedded(t *testing.T) {
	names, err := fs.Glob(migrations, "migrations/*.sql")
	require.NoError(t, err)
	assert.Equal(t, []string{
		"migrations/000001_create_feature_tables.down.sql",
		"migrations/000001_create_feature_tables.up.sql",
	}, names)
}
