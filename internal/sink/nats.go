package sink

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"

	"insider-features/contracts/events"
)

const (
	// DefaultSubjectPrefix is followed by the row domain, e.g. features.logon_day
	DefaultSubjectPrefix = "features"
	ConnectTimeout       = 10 * time.Second
)

type NATS struct {
	conn   *nats.Conn
	prefix string
	logger *slog.Logger
}

func NewNATS(natsURL, prefix string, logger *slog.Logger) (*NATS, error) {
	if prefix == "" {
		prefix = DefaultSubjectPrefix
	}
	conn, err := nats.Connect(natsURL, nats.Timeout(ConnectTimeout), nats.Name("insider-features"))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS at %s: %w", natsURL, err)
	}
	logger.Info("Connected to NATS", "url", natsURL, "prefix", prefix)
	return &NATS{conn: conn, prefix: prefix, logger: logger}, nil
}

func (n *NATS) Name() string { return "nats" }

func (n *NATS) Publish(ctx context.Context, b Batch) error {
	envs, err := b.Envelopes()
	if err != nil {
		return err
	}
	for _, env := range envs {
		msg, err := natsMsg(n.prefix, env)
		if err != nil {
			return err
		}
		if err := n.conn.PublishMsg(msg); err != nil {
			return fmt.Errorf("failed to publish %s row: %w", env.Domain, err)
		}
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := n.conn.FlushWithContext(ctx); err != nil {
		return fmt.Errorf("flush NATS: %w", err)
	}
	n.logger.Debug("Feature rows published", "rows", len(envs), "prefix", n.prefix)
	return nil
}

func natsMsg(prefix string, env events.Envelope) (*nats.Msg, error) {
	data, err := json.Marshal(env)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal envelope to JSON: %w", err)
	}
	runID := env.Correlation[events.CorrelationRunID]
	user := env.Correlation[events.CorrelationUser]
	date := env.Correlation[events.CorrelationDate]

	msg := nats.NewMsg(prefix + "." + env.Domain)
	msg.Data = data
	msg.Header.Set(nats.MsgIdHdr, fmt.Sprintf("%s/%s/%s/%s", runID, env.Domain, user, date))
	msg.Header.Set("x-run-id", runID)
	msg.Header.Set("x-user", user)
	msg.Header.Set("x-date", date)
	return msg, nil
}

func (n *NATS) Close() error {
	n.conn.Close()
	n.logger.Info("NATS publisher closed")
	return nil
}
