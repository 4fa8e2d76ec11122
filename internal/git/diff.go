package git

import (
	"context"
	"os/exec"
	"strings"

	"golang.org/x/sync/errgroup"
)

// DiffResult is the canonical payload every diff source produces.
// Source-specific field names (head_sha vs commit_sha and friends) are
// normalized here, at ingestion, so the engine sees one shape.
type DiffResult struct {
	Success      bool     `json:"success"`
	Diff         string   `json:"diff"`
	HeadSHA      string   `json:"head_sha"`
	TotalLines   int      `json:"total_lines"`
	FilesChanged []string `json:"files_changed"`
	Error        string   `json:"error,omitempty"`
}

// rawPayload covers the field aliases seen across diff sources.
type rawPayload struct {
	diff      string
	headSHA   string
	commitSHA string
	files     []string
}

// normalize folds alias fields into the canonical DiffResult.
func (p rawPayload) normalize() DiffResult {
	sha := p.headSHA
	if sha == "" {
		sha = p.commitSHA
	}
	return DiffResult{
		Success:      true,
		Diff:         p.diff,
		HeadSHA:      sha,
		TotalLines:   LineCount(p.diff),
		FilesChanged: p.files,
	}
}

// GetUncommittedDiff collects the uncommitted diff for a repository
// along with HEAD SHA and the changed-file list. Staged changes are
// preferred; the working tree is the fallback (both are combined).
// A failure yields Success=false, never an error: the engine answers
// unavailable input with an empty schema-valid report.
func GetUncommittedDiff(ctx context.Context, repoPath string) DiffResult {
	var diff, headSHA string
	var files []string

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		out, err := runGit(gctx, repoPath, "diff", "HEAD")
		if err != nil {
			// Repos without commits have no HEAD; fall back to plain diff.
			out, err = runGit(gctx, repoPath, "diff")
			if err != nil {
				return err
			}
		}
		diff = out
		return nil
	})

	g.Go(func() error {
		out, err := runGit(gctx, repoPath, "rev-parse", "HEAD")
		if err != nil {
			headSHA = "unknown"
			return nil
		}
		headSHA = strings.TrimSpace(out)
		return nil
	})

	g.Go(func() error {
		out, err := runGit(gctx, repoPath, "diff", "HEAD", "--name-only")
		if err != nil {
			out, err = runGit(gctx, repoPath, "diff", "--name-only")
			if err != nil {
				return nil
			}
		}
		for _, name := range strings.Split(strings.TrimSpace(out), "\n") {
			if name != "" {
				files = append(files, name)
			}
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return DiffResult{Success: false, Error: err.Error()}
	}

	return rawPayload{diff: diff, headSHA: headSHA, files: files}.normalize()
}

// runGit executes a git command in repoPath and returns stdout.
func runGit(ctx context.Context, repoPath string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", append([]string{"-C", repoPath}, args...)...)
	out, err := cmd.Output()
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// CountChangedLines counts added plus deleted lines in a diff,
// excluding the +++/--- header lines.
func CountChangedLines(diff string) int {
	count := 0
	for _, line := range SplitLines(diff) {
		if len(line) == 0 {
			continue
		}
		switch line[0] {
		case '+':
			if !strings.HasPrefix(line, "+++") {
				count++
			}
		case '-':
			if !strings.HasPrefix(line, "---") {
				count++
			}
		}
	}
	return count
}

// TruncateForOracle bounds a file diff to maxChars for the external
// classifier prompt, cutting on a line boundary where possible.
func TruncateForOracle(fileDiff string, maxChars int) string {
	if maxChars <= 0 || len(fileDiff) <= maxChars {
		return fileDiff
	}
	cut := fileDiff[:maxChars]
	if idx := strings.LastIndexByte(cut, '\n'); idx > 0 {
		cut = cut[:idx]
	}
	return cut
}
