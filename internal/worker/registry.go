package worker

import (
	"context"
	"fmt"
)

// TaskHandler executes one unit of asynchronous work. Handlers must be
// idempotent: the queue may deliver the same task more than once.
type TaskHandler func(ctx context.Context, args map[string]string) error

// Registry maps task names to their handlers.
type Registry struct {
	handlers map[string]TaskHandler
}

// NewRegistry creates an empty task registry.
func NewRegistry() *Registry {
	return &Registry{handlers: make(map[string]TaskHandler)}
}

// Register installs a handler under a task name.
func (r *Registry) Register(name string, handler TaskHandler) {
	r.handlers[name] = handler
}

// Handler returns the handler registered under name.
func (r *Registry) Handler(name string) (TaskHandler, error) {
	h, ok := r.handlers[name]
	if !ok {
		return nil, fmt.Errorf("no handler registered for task %q", name)
	}
	return h, nil
}
