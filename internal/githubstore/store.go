package githubstore

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/go-github/v66/github"
	"go.uber.org/zap"

	"github.com/Mahmoudshahin94/webhook-event-service/internal/config"
	"github.com/Mahmoudshahin94/webhook-event-service/internal/syncer"
)

// Store adapts a GitHub repository into the syncer.RemoteStore interface.
// Each process script is mirrored as <code>.py in the repository root; the
// file blob SHA is the revision token for conditional updates.
type Store struct {
	client *github.Client
	owner  string
	repo   string
	now    func() time.Time
	log    *zap.Logger
}

// New creates the adapter. Fails fast with a configuration error when the
// token or username is missing, so a misconfigured backup aborts before any
// record is touched.
func New(cfg config.GitHub, log *zap.Logger) (*Store, error) {
	if cfg.Token == "" {
		return nil, fmt.Errorf("GITHUB_TOKEN: %w", config.ErrNotConfigured)
	}
	if cfg.Username == "" {
		return nil, fmt.Errorf("GITHUB_USERNAME: %w", config.ErrNotConfigured)
	}

	return &Store{
		client: github.NewClient(nil).WithAuthToken(cfg.Token),
		owner:  cfg.Username,
		repo:   cfg.Repo,
		now:    time.Now,
		log:    log,
	}, nil
}

// EnsureRepository gets the backup repository, creating it (auto-initialized
// with a README) when it does not exist. Returns the repository HTML URL.
func (s *Store) EnsureRepository(ctx context.Context) (string, error) {
	repo, _, err := s.client.Repositories.Get(ctx, s.owner, s.repo)
	if err == nil {
		s.log.Info("Found existing repository", zap.String("repo", s.repo))
		return repo.GetHTMLURL(), nil
	}
	if !is404(err) {
		return "", fmt.Errorf("failed to get repository %s: %w", s.repo, err)
	}

	s.log.Info("Creating new repository", zap.String("repo", s.repo))
	repo, _, err = s.client.Repositories.Create(ctx, "", &github.Repository{
		Name:        github.String(s.repo),
		Description: github.String("Automated backup of process scripts from the Webhook Event Service"),
		Private:     github.Bool(false),
		AutoInit:    github.Bool(true),
	})
	if err != nil {
		return "", fmt.Errorf("failed to create repository %s: %w", s.repo, err)
	}
	return repo.GetHTMLURL(), nil
}

// Lookup fetches the mirrored file for a process code.
func (s *Store) Lookup(ctx context.Context, name string) (*syncer.RemoteResource, error) {
	file, _, _, err := s.client.Repositories.GetContents(ctx, s.owner, s.repo, fileName(name), nil)
	if err != nil {
		if is404(err) {
			return nil, syncer.ErrRemoteNotFound
		}
		return nil, fmt.Errorf("failed to get contents of %s: %w", fileName(name), err)
	}
	if file == nil {
		return nil, fmt.Errorf("%s is not a file", fileName(name))
	}

	content, err := file.GetContent()
	if err != nil {
		return nil, fmt.Errorf("failed to decode contents of %s: %w", fileName(name), err)
	}

	return &syncer.RemoteResource{
		Name:     name,
		Content:  content,
		Revision: file.GetSHA(),
	}, nil
}

// Create adds a new mirrored file.
func (s *Store) Create(ctx context.Context, name, content string) error {
	_, _, err := s.client.Repositories.CreateFile(ctx, s.owner, s.repo, fileName(name),
		&github.RepositoryContentFileOptions{
			Message: github.String(s.commitMessage(name)),
			Content: []byte(content),
		})
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", fileName(name), err)
	}
	return nil
}

// Update overwrites the mirrored file, conditional on the blob SHA captured
// at lookup time. A stale SHA surfaces as an error; the reconciler does not
// retry it.
func (s *Store) Update(ctx context.Context, name, content, revision string) error {
	_, _, err := s.client.Repositories.UpdateFile(ctx, s.owner, s.repo, fileName(name),
		&github.RepositoryContentFileOptions{
			Message: github.String(s.commitMessage(name)),
			Content: []byte(content),
			SHA:     github.String(revision),
		})
	if err != nil {
		return fmt.Errorf("failed to update %s: %w", fileName(name), err)
	}
	return nil
}

func (s *Store) commitMessage(name string) string {
	return fmt.Sprintf("Backup: %s - %s", name, s.now().UTC().Format("2006-01-02 15:04:05"))
}

func fileName(code string) string {
	return code + ".py"
}

func is404(err error) bool {
	var errResp *github.ErrorResponse
	return errors.As(err, &errResp) &&
		errResp.Response != nil &&
		errResp.Response.StatusCode == http.StatusNotFound
}
