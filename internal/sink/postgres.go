package sink

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"insider-features/contracts/events"
)

//go:embed migrations/*.sql
var migrations embed.FS

const (
	upsertPrimary = `INSERT INTO primary_devices (user_id, pc, run_id, updated_at)
VALUES ($1, $2, $3, $4)
ON CONFLICT (user_id) DO UPDATE SET pc = EXCLUDED.pc, run_id = EXCLUDED.run_id, updated_at = EXCLUDED.updated_at`

	upsertLogonDay = `INSERT INTO logon_days (user_id, day, diff_start_first_login, diff_end_last_logoff,
    avg_minutes_early_login, avg_minutes_late_login, no_of_logon, no_of_logon_off_hours,
    no_of_computers, no_of_computers_off_hours, avg_session_gap_off_hours, run_id)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
ON CONFLICT (user_id, day) DO UPDATE SET
    diff_start_first_login = EXCLUDED.diff_start_first_login,
    diff_end_last_logoff = EXCLUDED.diff_end_last_logoff,
    avg_minutes_early_login = EXCLUDED.avg_minutes_early_login,
    avg_minutes_late_login = EXCLUDED.avg_minutes_late_login,
    no_of_logon = EXCLUDED.no_of_logon,
    no_of_logon_off_hours = EXCLUDED.no_of_logon_off_hours,
    no_of_computers = EXCLUDED.no_of_computers,
    no_of_computers_off_hours = EXCLUDED.no_of_computers_off_hours,
    avg_session_gap_off_hours = EXCLUDED.avg_session_gap_off_hours,
    run_id = EXCLUDED.run_id`

	upsertEmailDay = `INSERT INTO email_days (user_id, day, emails_outside_organization, emails_inside_organization,
    total_recipients, number_of_attachments, average_email_size, malicious_count, run_id)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
ON CONFLICT (user_id, day) DO UPDATE SET
    emails_outside_organization = EXCLUDED.emails_outside_organization,
    emails_inside_organization = EXCLUDED.emails_inside_organization,
    total_recipients = EXCLUDED.total_recipients,
    number_of_attachments = EXCLUDED.number_of_attachments,
    average_email_size = EXCLUDED.average_email_size,
    malicious_count = EXCLUDED.malicious_count,
    run_id = EXCLUDED.run_id`

	upsertHttpDay = `INSERT INTO http_days (user_id, day, wikileaks_count, job_search_score, keylogger_score, run_id)
VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (user_id, day) DO UPDATE SET
    wikileaks_count = EXCLUDED.wikileaks_count,
    job_search_score = EXCLUDED.job_search_score,
    keylogger_score = EXCLUDED.keylogger_score,
    run_id = EXCLUDED.run_id`
)

// Migrate applies the embedded schema migrations.
func Migrate(databaseURL string) error {
	src, err := iofs.New(migrations, "migrations")
	if err != nil {
		return fmt.Errorf("open migrations: %w", err)
	}
	m, err := migrate.NewWithSourceInstance("iofs", src, migrateURL(databaseURL))
	if err != nil {
		return fmt.Errorf("init migrations: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}

// migrateURL points a postgres URL at the pgx v5 migrate driver.
func migrateURL(databaseURL string) string {
	for _, scheme := range []string{"postgres://", "postgresql://"} {
		if strings.HasPrefix(databaseURL, scheme) {
			return "pgx5://" + strings.TrimPrefix(databaseURL, scheme)
		}
	}
	return databaseURL
}

type Postgres struct {
	pool *pgxpool.Pool
}

func NewPostgres(ctx context.Context, databaseURL string) (*Postgres, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to PostgreSQL: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("unable to reach PostgreSQL: %w", err)
	}
	return &Postgres{pool: pool}, nil
}

func (p *Postgres) Name() string { return "postgres" }

func (p *Postgres) Publish(ctx context.Context, b Batch) error {
	ctx, cancel := context.WithTimeout(ctx, time.Minute)
	defer cancel()

	batch, err := buildBatch(b)
	if err != nil {
		return err
	}

	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	results := tx.SendBatch(ctx, batch)
	for i := 0; i < batch.Len(); i++ {
		if _, err := results.Exec(); err != nil {
			results.Close()
			return fmt.Errorf("insert statement %d: %w", i, err)
		}
	}
	if err := results.Close(); err != nil {
		return fmt.Errorf("close batch: %w", err)
	}
	return tx.Commit(ctx)
}

func buildBatch(b Batch) (*pgx.Batch, error) {
	batch := &pgx.Batch{}

	users := make([]string, 0, len(b.Primary))
	for u := range b.Primary {
		users = append(users, u)
	}
	sort.Strings(users)
	for _, u := range users {
		batch.Queue(upsertPrimary, u, b.Primary[u], b.RunID, pgtype.Timestamptz{Time: b.CreatedAt, Valid: true})
	}

	for _, row := range b.Rows {
		if err := queueRow(batch, b.RunID, row); err != nil {
			return nil, err
		}
	}
	return batch, nil
}

func queueRow(batch *pgx.Batch, runID string, row events.FeatureRow) error {
	user, date := row.Owner()
	day, err := time.Parse("2006-01-02", date)
	if err != nil {
		return fmt.Errorf("row date %q: %w", date, err)
	}
	pgDay := pgtype.Date{Time: day, Valid: true}

	switch r := row.(type) {
	case events.LogonDayPayload:
		batch.Queue(upsertLogonDay, user, pgDay,
			nullableFloat(r.MinutesFirstLoginVsOfficeStart), nullableFloat(r.MinutesLastLogoffVsOfficeEnd),
			r.AvgMinutesEarlyLogin, r.AvgMinutesLateLogin, r.LogonCount, r.OffHoursLogonCount,
			r.DistinctDeviceCount, r.OffHoursDistinctDeviceCount, r.AvgOffHoursSessionGapMinutes, runID)
	case events.EmailDayPayload:
		batch.Queue(upsertEmailDay, user, pgDay, r.EmailsOutsideOrg, r.EmailsInsideOrg,
			r.TotalRecipients, r.TotalAttachments, r.AvgEmailSizeBytes, r.MaliciousCount, runID)
	case events.HttpDayPayload:
		batch.Queue(upsertHttpDay, user, pgDay, r.WikileaksVisitCount, r.JobSearchScore, r.KeyloggerScore, runID)
	default:
		return fmt.Errorf("unsupported row domain %q", row.Domain())
	}
	return nil
}

func nullableFloat(v *float64) pgtype.Float8 {
	if v == nil {
		return pgtype.Float8{}
	}
	return pgtype.Float8{Float64: *v, Valid: true}
}

func (p *Postgres) Close() error {
	p.pool.Close()
	return nil
}
