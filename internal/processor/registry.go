package processor

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"
)

// SourceHandler applies source-specific logic to an event payload. The
// payload is opaque; handlers own whatever schema their source sends.
type SourceHandler func(ctx context.Context, payload json.RawMessage) error

// Registry maps webhook sources to their handlers. Unknown sources fall
// through to a log-only handler, never an error.
type Registry struct {
	handlers map[string]SourceHandler
	log      *zap.Logger
}

// NewRegistry creates an empty handler registry.
func NewRegistry(log *zap.Logger) *Registry {
	return &Registry{
		handlers: make(map[string]SourceHandler),
		log:      log,
	}
}

// Register installs a handler for a source, replacing any previous one.
func (r *Registry) Register(source string, handler SourceHandler) {
	r.handlers[source] = handler
}

// Handler returns the handler for source, or the default log-only handler.
func (r *Registry) Handler(source string) SourceHandler {
	if h, ok := r.handlers[source]; ok {
		return h
	}
	return func(ctx context.Context, payload json.RawMessage) error {
		r.log.Info("No handler registered for source, logging payload only",
			zap.String("source", source),
			zap.ByteString("payload", payload))
		return nil
	}
}
