package update

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/go-git/go-billy/v5/memfs"
	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/transport"
	"github.com/go-git/go-git/v5/storage/memory"

	"starttls-hq/everywhere/pkg/config"
)

// GitFetcher reads the policy document from a git repository. Every fetch
// is a fresh shallow clone held in memory, so no working copy is left on
// disk.
type GitFetcher struct {
	repository string
	branch     string
	path       string
	timeout    time.Duration
	auth       transport.AuthMethod
	logger     *slog.Logger
}

// NewGitFetcher creates a fetcher for the configured repository.
func NewGitFetcher(cfg *config.GitSourceConfig, timeout time.Duration) (*GitFetcher, error) {
	if cfg == nil {
		return nil, errors.New("git source config cannot be nil")
	}
	if cfg.Repository == "" {
		return nil, errors.New("repository URL cannot be empty")
	}
	if cfg.Branch == "" {
		return nil, errors.New("branch cannot be empty")
	}
	if cfg.Path == "" {
		return nil, errors.New("document path cannot be empty")
	}

	auth, err := gitAuth(&cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to create git auth: %w", err)
	}

	return &GitFetcher{
		repository: cfg.Repository,
		branch:     cfg.Branch,
		path:       cfg.Path,
		timeout:    timeout,
		auth:       auth,
		logger:     slog.Default().With("component", "policy.update.git"),
	}, nil
}

// Fetch clones the branch at depth one and returns the document contents.
func (f *GitFetcher) Fetch(ctx context.Context) ([]byte, error) {
	if f.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.timeout)
		defer cancel()
	}

	start := time.Now()
	fs := memfs.New()
	repo, err := gogit.CloneContext(ctx, memory.NewStorage(), fs, &gogit.CloneOptions{
		URL:           f.repository,
		Auth:          f.auth,
		ReferenceName: plumbing.NewBranchReferenceName(f.branch),
		SingleBranch:  true,
		Depth:         1,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to clone repository: %w", err)
	}

	head, err := repo.Head()
	if err != nil {
		return nil, fmt.Errorf("failed to get HEAD: %w", err)
	}

	file, err := fs.Open(f.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s at %s: %w", f.path, head.Hash(), err)
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxDocumentSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", f.path, err)
	}
	if len(data) > maxDocumentSize {
		return nil, fmt.Errorf("policy document exceeds %d bytes", maxDocumentSize)
	}

	f.logger.Debug("fetched policy from git",
		"repository", f.repository,
		"branch", f.branch,
		"commit", head.Hash().String(),
		"duration", time.Since(start),
	)

	return data, nil
}
