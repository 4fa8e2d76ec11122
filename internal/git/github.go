package git

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/go-github/v57/github"
)

// GitHubSource fetches pull-request diffs through the GitHub API and
// normalizes them to the same DiffResult the local source produces.
type GitHubSource struct {
	client *github.Client
	owner  string
	repo   string
	logger *slog.Logger
}

// NewGitHubSource creates a PR diff source. token may be empty for
// public repositories.
func NewGitHubSource(token, owner, repo string) *GitHubSource {
	client := github.NewClient(nil)
	if token != "" {
		client = client.WithAuthToken(token)
	}
	return &GitHubSource{
		client: client,
		owner:  owner,
		repo:   repo,
		logger: slog.Default().With("component", "github", "repo", owner+"/"+repo),
	}
}

// GetPullRequestDiff retrieves the unified diff for a pull request.
// API failures yield Success=false; the engine degrades to an empty
// schema-valid report.
func (s *GitHubSource) GetPullRequestDiff(ctx context.Context, number int) DiffResult {
	pr, _, err := s.client.PullRequests.Get(ctx, s.owner, s.repo, number)
	if err != nil {
		s.logger.Warn("failed to fetch pull request", "number", number, "error", err)
		return DiffResult{Success: false, Error: err.Error()}
	}

	raw, _, err := s.client.PullRequests.GetRaw(ctx, s.owner, s.repo, number,
		github.RawOptions{Type: github.Diff})
	if err != nil {
		s.logger.Warn("failed to fetch pull request diff", "number", number, "error", err)
		return DiffResult{Success: false, Error: err.Error()}
	}

	var files []string
	opts := &github.ListOptions{PerPage: 100}
	for {
		changed, resp, err := s.client.PullRequests.ListFiles(ctx, s.owner, s.repo, number, opts)
		if err != nil {
			s.logger.Warn("failed to list pull request files", "number", number, "error", err)
			break
		}
		for _, f := range changed {
			files = append(files, f.GetFilename())
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	s.logger.Debug("pull request diff fetched",
		"number", number,
		"diff_bytes", len(raw),
		"files", len(files))

	// The PR payload carries the SHA under head.sha, not head_sha.
	return rawPayload{
		diff:      raw,
		commitSHA: pr.GetHead().GetSHA(),
		files:     files,
	}.normalize()
}

// Ref returns a human-readable ref label for report metadata.
func (s *GitHubSource) Ref(number int) string {
	return fmt.Sprintf("%s/%s#%d", s.owner, s.repo, number)
}
