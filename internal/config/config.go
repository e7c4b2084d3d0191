package config

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/twmb/franz-go/pkg/kgo"

	"insider-features/internal/env"
	"insider-features/internal/metrics"
	"insider-features/internal/pipeline"
	"insider-features/internal/policy"
	"insider-features/internal/sink"
)

// Config of one extraction run. Sinks are optional: an unset URL disables
// the corresponding sink.
type Config struct {
	Sources       pipeline.Sources
	Policy        policy.Policy
	Parallel      bool
	TimeCacheSize int
	LogLevel      slog.Level
	Output        string

	KafkaURL       string
	KafkaTopic     string
	RedisURL       string
	RedisTTL       time.Duration
	PostgresURL    string
	Migrate        bool
	NatsURL        string
	NatsSubject    string
	PushgatewayURL string
	PushJob        string
}

func setupSources() pipeline.Sources {
	dir := env.GetEnvString("DATA_DIR", "data")
	return pipeline.Sources{
		Logon:  sourcePath(dir, "LOGON_CSV", "logon.csv"),
		Device: sourcePath(dir, "DEVICE_CSV", "device.csv"),
		File:   sourcePath(dir, "FILE_CSV", "file.csv"),
		Email:  sourcePath(dir, "EMAIL_CSV", "email.csv"),
		Http:   sourcePath(dir, "HTTP_CSV", "http.csv"),
	}
}

// sourcePath prefers an explicit variable. The default file under dir is used
// only when it exists, so a dataset may omit streams.
func sourcePath(dir, key, name string) string {
	if path := env.GetEnvString(key, ""); path != "" {
		return path
	}
	path := filepath.Join(dir, name)
	if _, err := os.Stat(path); err != nil {
		return ""
	}
	return path
}

func setupPolicy() (policy.Policy, error) {
	path := env.GetEnvString("POLICY_FILE", "")
	if path == "" {
		return policy.Default(), nil
	}
	p, err := policy.Load(path)
	if err != nil {
		return policy.Policy{}, fmt.Errorf("Could not load policy: %w", err)
	}
	return p, nil
}

func parseLevel(raw string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(raw)); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid LOG_LEVEL %q: %w", raw, err)
	}
	return level, nil
}

func SetupConfig() (*Config, error) {
	p, err := setupPolicy()
	if err != nil {
		return nil, fmt.Errorf("Error configuring the app: %w", err)
	}
	level, err := parseLevel(env.GetEnvString("LOG_LEVEL", "info"))
	if err != nil {
		return nil, fmt.Errorf("Error configuring the app: %w", err)
	}

	return &Config{
		Sources:       setupSources(),
		Policy:        p,
		Parallel:      env.GetEnvBool("PIPELINE_PARALLEL", false),
		TimeCacheSize: env.GetEnvInt("TIME_CACHE_SIZE", 4096),
		LogLevel:      level,
		Output:        env.GetEnvString("OUTPUT", "-"),

		KafkaURL:       env.GetEnvString("KAFKA_URL", ""),
		KafkaTopic:     env.GetEnvString("KAFKA_TOPIC", "insider-features"),
		RedisURL:       env.GetEnvString("REDIS_URL", ""),
		RedisTTL:       env.GetEnvDuration("REDIS_TTL", 30*24*time.Hour),
		PostgresURL:    env.GetEnvString("POSTGRES_URL", ""),
		Migrate:        env.GetEnvBool("POSTGRES_MIGRATE", true),
		NatsURL:        env.GetEnvString("NATS_URL", ""),
		NatsSubject:    env.GetEnvString("NATS_SUBJECT", sink.DefaultSubjectPrefix),
		PushgatewayURL: env.GetEnvString("PUSHGATEWAY_URL", ""),
		PushJob:        env.GetEnvString("PUSHGATEWAY_JOB", "insider-features"),
	}, nil
}

func (c *Config) Logger(w io.Writer) *slog.Logger {
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: c.LogLevel}))
}

func (c *Config) PipelineOptions(logger *slog.Logger, m *metrics.Metrics) pipeline.Options {
	return pipeline.Options{
		Policy:        c.Policy,
		Parallel:      c.Parallel,
		TimeCacheSize: c.TimeCacheSize,
		Logger:        logger,
		Metrics:       m,
	}
}

func setupKafka(broker, topic string) (*kgo.Client, error) {
	cl, err := kgo.NewClient(kgo.SeedBrokers(broker),
		kgo.DefaultProduceTopic(topic),
		kgo.ClientID("insider-features"),
	)
	if err != nil {
		return nil, fmt.Errorf("Unable to create producer client: %v", err)
	}
	return cl, nil
}

func setupRedis(url string) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr: url,
		DB:   0,
	})
}

// Sinks connects every configured sink. out receives the JSON lines output
// when OUTPUT is "-"; any other non-empty OUTPUT is a file path.
func (c *Config) Sinks(ctx context.Context, out io.Writer, logger *slog.Logger, m *metrics.Metrics) (*sink.Multi, error) {
	var sinks []sink.Sink
	fail := func(err error) (*sink.Multi, error) {
		sink.NewMulti(logger, m, sinks...).Close()
		return nil, err
	}

	switch c.Output {
	case "":
	case "-":
		sinks = append(sinks, sink.NewJSONLines(out))
	default:
		f, err := os.Create(c.Output)
		if err != nil {
			return fail(fmt.Errorf("Could not create output file: %w", err))
		}
		sinks = append(sinks, &fileSink{JSONLines: sink.NewJSONLines(f), f: f})
	}

	if c.KafkaURL != "" {
		kafka, err := setupKafka(c.KafkaURL, c.KafkaTopic)
		if err != nil {
			return fail(err)
		}
		sinks = append(sinks, sink.NewKafka(kafka, c.KafkaTopic, logger))
	}

	if c.RedisURL != "" {
		sinks = append(sinks, sink.NewRedis(setupRedis(c.RedisURL), c.RedisTTL))
	}

	if c.PostgresURL != "" {
		if c.Migrate {
			if err := sink.Migrate(c.PostgresURL); err != nil {
				return fail(fmt.Errorf("Could not migrate Postgres: %w", err))
			}
		}
		pg, err := sink.NewPostgres(ctx, c.PostgresURL)
		if err != nil {
			return fail(fmt.Errorf("Could not set up Postgres: %w", err))
		}
		sinks = append(sinks, pg)
	}

	if c.NatsURL != "" {
		n, err := sink.NewNATS(c.NatsURL, c.NatsSubject, logger)
		if err != nil {
			return fail(err)
		}
		sinks = append(sinks, n)
	}

	return sink.NewMulti(logger, m, sinks...), nil
}

type fileSink struct {
	*sink.JSONLines
	f *os.File
}

func (s *fileSink) Name() string { return "file" }

func (s *fileSink) Close() error {
	return s.f.Close()
}
