package gateway

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/google/go-github/v62/github"
	"github.com/sirupsen/logrus"

	"github.com/naka-gawa/community-stats/internal/domain"
)

// SnapshotStore persists snapshot files through the GitHub contents API.
// The blob SHA of the current file is the version token.
type SnapshotStore struct {
	client *github.Client
	owner  string
	repo   string
	branch string
	logger *logrus.Logger
}

// SnapshotStore returns a store writing into owner/repo on branch.
// An empty branch means the repository's default branch.
func (g *GitHubGateway) SnapshotStore(owner, repo, branch string) *SnapshotStore {
	return &SnapshotStore{
		client: g.restClient,
		owner:  owner,
		repo:   repo,
		branch: branch,
		logger: g.logger,
	}
}

// ReadVersion returns the blob SHA of the file at path, or "" if it does not exist yet.
func (s *SnapshotStore) ReadVersion(ctx context.Context, path string) (string, error) {
	opts := &github.RepositoryContentGetOptions{Ref: s.branch}
	file, _, resp, err := s.client.Repositories.GetContents(ctx, s.owner, s.repo, path, opts)
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusNotFound {
			s.logger.WithField("path", path).Debug("Snapshot does not exist yet")
			return "", nil
		}
		return "", fmt.Errorf("failed to read snapshot version of %s: %w", path, err)
	}
	if file == nil {
		return "", fmt.Errorf("snapshot path %s is a directory", path)
	}
	return file.GetSHA(), nil
}

// WriteSnapshot creates or replaces the file at path.
// A version that no longer matches the stored file yields domain.ErrPersistenceConflict.
func (s *SnapshotStore) WriteSnapshot(ctx context.Context, path string, content []byte, version string, meta domain.CommitMetadata) error {
	opts := &github.RepositoryContentFileOptions{
		Message: github.String(meta.Message),
		Content: content,
	}
	if version != "" {
		opts.SHA = github.String(version)
	}
	if s.branch != "" {
		opts.Branch = github.String(s.branch)
	}
	if meta.AuthorName != "" && meta.AuthorEmail != "" {
		opts.Committer = &github.CommitAuthor{
			Name:  github.String(meta.AuthorName),
			Email: github.String(meta.AuthorEmail),
		}
	}

	_, _, err := s.client.Repositories.UpdateFile(ctx, s.owner, s.repo, path, opts)
	if err != nil {
		if isVersionConflict(err, version) {
			return fmt.Errorf("%w: %s changed since version %q: %w", domain.ErrPersistenceConflict, path, version, err)
		}
		return fmt.Errorf("failed to write snapshot %s: %w", path, err)
	}
	s.logger.WithFields(logrus.Fields{"repo": s.owner + "/" + s.repo, "path": path}).Info("Snapshot committed.")
	return nil
}

// isVersionConflict reports whether err means the stored file moved on.
// GitHub answers 409 for a stale SHA and 422 when a file appeared after
// we observed it missing.
func isVersionConflict(err error, version string) bool {
	var errResp *github.ErrorResponse
	if !errors.As(err, &errResp) || errResp.Response == nil {
		return false
	}
	switch errResp.Response.StatusCode {
	case http.StatusConflict:
		return true
	case http.StatusUnprocessableEntity:
		return version == ""
	}
	return false
}
