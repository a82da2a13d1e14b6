package syncer

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/Mahmoudshahin94/webhook-event-service/internal/domain"
)

// ErrRemoteNotFound is reported by RemoteStore.Lookup when no resource exists
// under the given name.
var ErrRemoteNotFound = errors.New("remote resource not found")

// RemoteResource is the remote mirror of a local record. Revision is the
// opaque token the store requires for a safe conditional update.
type RemoteResource struct {
	Name     string
	Content  string
	Revision string
}

// RemoteStore is the client surface the reconciler needs from any remote
// named-resource store. A stale revision on Update is surfaced as an error,
// not retried.
type RemoteStore interface {
	Lookup(ctx context.Context, name string) (*RemoteResource, error)
	Create(ctx context.Context, name, content string) error
	Update(ctx context.Context, name, content, revision string) error
}

// RecordError is a per-record reconcile failure.
type RecordError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Result summarizes one reconcile run. Status is "success" when Errors is
// empty and "partial" otherwise; partial is actionable, not fatal.
type Result struct {
	Status    string        `json:"status"`
	Created   int           `json:"created"`
	Updated   int           `json:"updated"`
	Unchanged int           `json:"unchanged"`
	Total     int           `json:"total"`
	Errors    []RecordError `json:"errors,omitempty"`
}

const (
	StatusSuccess = "success"
	StatusPartial = "partial"
)

// Reconciler mirrors local process records into a remote store with
// idempotent create-or-update, one record at a time. One bad record never
// blocks the sync of the others.
type Reconciler struct {
	remote RemoteStore
	log    *zap.Logger
}

// New creates a reconciler against the given remote store.
func New(remote RemoteStore, log *zap.Logger) *Reconciler {
	return &Reconciler{
		remote: remote,
		log:    log,
	}
}

// Reconcile makes the remote content of every record match its local script.
// An empty record list is a successful no-op.
func (r *Reconciler) Reconcile(ctx context.Context, records []*domain.Process) *Result {
	result := &Result{
		Status: StatusSuccess,
		Total:  len(records),
	}

	for _, record := range records {
		if err := r.reconcileOne(ctx, record, result); err != nil {
			r.log.Error("Failed to reconcile record",
				zap.String("code", record.Code),
				zap.Error(err))
			result.Errors = append(result.Errors, RecordError{
				Code:    record.Code,
				Message: err.Error(),
			})
		}
	}

	if len(result.Errors) > 0 {
		result.Status = StatusPartial
	}
	return result
}

func (r *Reconciler) reconcileOne(ctx context.Context, record *domain.Process, result *Result) error {
	remote, err := r.remote.Lookup(ctx, record.Code)
	if err != nil {
		if errors.Is(err, ErrRemoteNotFound) {
			if err := r.remote.Create(ctx, record.Code, record.Script); err != nil {
				return fmt.Errorf("create: %w", err)
			}
			result.Created++
			r.log.Info("Created remote resource", zap.String("code", record.Code))
			return nil
		}
		return fmt.Errorf("lookup: %w", err)
	}

	// Exact string equality; no normalization.
	if remote.Content == record.Script {
		result.Unchanged++
		r.log.Info("No changes for remote resource", zap.String("code", record.Code))
		return nil
	}

	if err := r.remote.Update(ctx, record.Code, record.Script, remote.Revision); err != nil {
		return fmt.Errorf("update: %w", err)
	}
	result.Updated++
	r.log.Info("Updated remote resource", zap.String("code", record.Code))
	return nil
}
