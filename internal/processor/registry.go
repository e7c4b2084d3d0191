package processor

import (
	"errors"
	"fmt"

	"insider-features/internal/aggregator"
	"insider-features/internal/record"
)

var ErrUnknownStream = errors.New("unknown stream")

// Handler folds the rows of one activity stream into the aggregation context.
type Handler interface {
	Stream() string
	Handle(c *aggregator.Context, rows []record.Row) error
}

type Registry struct {
	handlers map[string]Handler
}

func NewRegistry(handlers ...Handler) *Registry {
	reg := &Registry{handlers: make(map[string]Handler, len(handlers))}
	for _, handler := range handlers {
		if handler == nil {
			continue
		}
		reg.handlers[handler.Stream()] = handler
	}
	return reg
}

func (r *Registry) Handle(stream string, c *aggregator.Context, rows []record.Row) error {
	handler, ok := r.handlers[stream]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownStream, stream)
	}
	if err := handler.Handle(c, rows); err != nil {
		return fmt.Errorf("%s stage: %w", stream, err)
	}
	return nil
}

// Has reports whether a handler is registered for stream.
func (r *Registry) Has(stream string) bool {
	_, ok := r.handlers[stream]
	return ok
}
