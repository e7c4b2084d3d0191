package sink

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
)

// JSONLines writes one envelope per line.
type JSONLines struct {
	w io.Writer
}

func NewJSONLines(w io.Writer) *JSONLines {
	return &JSONLines{w: w}
}

func (j *JSONLines) Name() string { return "jsonl" }

func (j *JSONLines) Publish(ctx context.Context, b Batch) error {
	envs, err := b.Envelopes()
	if err != nil {
		return err
	}
	enc := json.NewEncoder(j.w)
	for _, env := range envs {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := enc.Encode(env); err != nil {
			return fmt.Errorf("write envelope: %w", err)
		}
	}
	return nil
}

func (j *JSONLines) Close() error { return nil }
