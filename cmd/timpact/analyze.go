package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/rohankatakam/testimpact/internal/engine"
	"github.com/rohankatakam/testimpact/internal/git"
	"github.com/rohankatakam/testimpact/internal/llm"
	"github.com/rohankatakam/testimpact/internal/models"
	"github.com/rohankatakam/testimpact/internal/output"
	"github.com/rohankatakam/testimpact/internal/report"
	"github.com/rohankatakam/testimpact/internal/risk"
)

var (
	analyzePR      int
	analyzeOwner   string
	analyzeRepo    string
	analyzeOutput  string
	analyzeFormat  string
	analyzeTimeout time.Duration
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [repo-path]",
	Short: "Analyze a diff and derive required tests",
	Long: `Analyze the uncommitted diff of a local repository (default) or the
diff of a GitHub pull request (--pr), classify each changed file, and
emit the impact report with its test requirements.

Exits non-zero when a business-critical impact has no test requirement
covering it, so the command can gate commits and CI.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().IntVar(&analyzePR, "pr", 0, "analyze a GitHub pull request instead of the working tree")
	analyzeCmd.Flags().StringVar(&analyzeOwner, "owner", "", "GitHub repository owner (with --pr)")
	analyzeCmd.Flags().StringVar(&analyzeRepo, "repo", "", "GitHub repository name (with --pr)")
	analyzeCmd.Flags().StringVarP(&analyzeOutput, "output", "o", "", "write the report to a file instead of stdout")
	analyzeCmd.Flags().StringVar(&analyzeFormat, "format", "", "output format: quiet, standard, or json")
	analyzeCmd.Flags().DurationVar(&analyzeTimeout, "timeout", 5*time.Minute, "overall analysis deadline")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	repoPath := "."
	if len(args) > 0 {
		repoPath = args[0]
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), analyzeTimeout)
	defer cancel()

	// The oracle is optional: when no provider is configured the
	// classifier keeps its keyword-based answers.
	var oracle risk.RiskOracle
	client, err := llm.NewClient(ctx, cfg)
	if err != nil {
		logger.WithError(err).Warn("Oracle unavailable, continuing without escalation")
	} else if client.IsEnabled() {
		oracle = client
	}

	source, gitRef, err := retrieveDiff(ctx, repoPath)
	if err != nil {
		return err
	}
	if gitRef != "" && source.HeadSHA == "" {
		source.HeadSHA = gitRef
	}

	eng := engine.New(cfg, oracle)
	rep := eng.Analyze(ctx, source, repoPath)

	if err := writeReport(rep); err != nil {
		return err
	}

	if report.HasUncoveredCriticalImpacts(rep) {
		logger.Error("Business-critical impacts lack test coverage")
		os.Exit(1)
	}
	return nil
}

// retrieveDiff picks the diff source: the local working tree by
// default, a GitHub pull request when --pr is set
func retrieveDiff(ctx context.Context, repoPath string) (git.DiffResult, string, error) {
	if analyzePR <= 0 {
		return git.GetUncommittedDiff(ctx, repoPath), "", nil
	}

	owner, repo := analyzeOwner, analyzeRepo
	if owner == "" {
		owner = cfg.GitHub.Owner
	}
	if repo == "" {
		repo = cfg.GitHub.Repo
	}
	if owner == "" || repo == "" {
		return git.DiffResult{}, "", fmt.Errorf("--pr requires --owner and --repo (or github config)")
	}

	source := git.NewGitHubSource(cfg.GitHub.Token, owner, repo)
	return source.GetPullRequestDiff(ctx, analyzePR), source.Ref(analyzePR), nil
}

// writeReport renders the report per the selected format. --output (or
// report.output_path in config) always gets the full JSON report; the
// terminal gets the chosen human format.
func writeReport(rep *models.ImpactReport) error {
	outputPath := analyzeOutput
	if outputPath == "" {
		outputPath = cfg.Report.OutputPath
	}
	if outputPath != "" {
		f, err := os.Create(outputPath)
		if err != nil {
			return fmt.Errorf("failed to create report file: %w", err)
		}
		defer f.Close()
		jsonFmt := &output.JSONFormatter{}
		if err := jsonFmt.Format(rep, f); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
		logger.WithField("path", outputPath).Info("Report written")
	}

	formatter := output.NewFormatter(selectedVerbosity())
	return formatter.Format(rep, os.Stdout)
}

func selectedVerbosity() output.VerbosityLevel {
	switch analyzeFormat {
	case "quiet":
		return output.VerbosityQuiet
	case "standard":
		return output.VerbosityStandard
	case "json":
		return output.VerbosityJSON
	default:
		return output.GetDefaultVerbosity()
	}
}
