package backup

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/Mahmoudshahin94/webhook-event-service/internal/config"
	"github.com/Mahmoudshahin94/webhook-event-service/internal/githubstore"
	"github.com/Mahmoudshahin94/webhook-event-service/internal/store"
	"github.com/Mahmoudshahin94/webhook-event-service/internal/syncer"
)

// RemoteFactory builds the remote store for one backup run. Constructing the
// adapter per run means a missing credential aborts the batch before any
// record is touched, and credentials rotated between runs are picked up.
type RemoteFactory func(ctx context.Context) (syncer.RemoteStore, string, error)

// Result is the outcome of one backup run.
type Result struct {
	*syncer.Result
	RepositoryURL string `json:"repository_url,omitempty"`
}

// Service mirrors all process scripts into the remote code host.
type Service struct {
	processes store.ProcessStore
	remote    RemoteFactory
	log       *zap.Logger
}

// NewService creates a backup service with a custom remote factory.
func NewService(processes store.ProcessStore, remote RemoteFactory, log *zap.Logger) *Service {
	return &Service{
		processes: processes,
		remote:    remote,
		log:       log,
	}
}

// NewGitHubService creates a backup service targeting the configured GitHub
// repository.
func NewGitHubService(processes store.ProcessStore, cfg config.GitHub, log *zap.Logger) *Service {
	return NewService(processes, func(ctx context.Context) (syncer.RemoteStore, string, error) {
		remote, err := githubstore.New(cfg, log)
		if err != nil {
			return nil, "", err
		}
		url, err := remote.EnsureRepository(ctx)
		if err != nil {
			return nil, "", err
		}
		return remote, url, nil
	}, log)
}

// Run reconciles every stored process against the remote store. A
// configuration or repository error fails the whole run; per-record failures
// are collected into a partial result.
func (s *Service) Run(ctx context.Context) (*Result, error) {
	remote, url, err := s.remote(ctx)
	if err != nil {
		return nil, fmt.Errorf("backup aborted: %w", err)
	}

	records, err := s.processes.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list processes: %w", err)
	}
	if len(records) == 0 {
		s.log.Warn("No processes found in database to backup")
	}

	result := syncer.New(remote, s.log).Reconcile(ctx, records)

	s.log.Info("Backup completed",
		zap.String("status", result.Status),
		zap.Int("created", result.Created),
		zap.Int("updated", result.Updated),
		zap.Int("unchanged", result.Unchanged),
		zap.Int("errors", len(result.Errors)))

	return &Result{Result: result, RepositoryURL: url}, nil
}
