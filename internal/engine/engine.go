// Package engine orchestrates the analysis pipeline: parse the diff,
// chunk it when large, categorize and classify each changed file,
// derive test obligations, and assemble the validated report.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/rohankatakam/testimpact/internal/categorize"
	"github.com/rohankatakam/testimpact/internal/config"
	"github.com/rohankatakam/testimpact/internal/git"
	"github.com/rohankatakam/testimpact/internal/models"
	"github.com/rohankatakam/testimpact/internal/report"
	"github.com/rohankatakam/testimpact/internal/risk"
	"github.com/rohankatakam/testimpact/internal/testgen"
)

// Engine runs the synchronous analysis pipeline. The only suspension
// point is the classifier's optional oracle call; every other stage is
// pure computation over the diff text.
type Engine struct {
	cfg        *config.Config
	chunker    *git.Chunker
	classifier *risk.Classifier
	generator  *testgen.Generator
	builder    *report.Builder
	logger     *slog.Logger
}

// New creates an engine. A nil oracle disables escalation; ambiguous
// files then keep their keyword-based risk.
func New(cfg *config.Config, oracle risk.RiskOracle) *Engine {
	weights := risk.Weights{
		PathWeight:       cfg.Risk.PathWeight,
		CategoryBonus:    cfg.Risk.CategoryBonus,
		EscalationMargin: cfg.Risk.EscalationMargin,
	}
	retry := risk.RetryPolicy{
		MaxAttempts: cfg.Oracle.MaxAttempts,
		BaseDelay:   cfg.Oracle.BaseDelay,
		MaxDelay:    cfg.Oracle.MaxDelay,
		CallTimeout: cfg.Oracle.CallTimeout,
	}

	return &Engine{
		cfg:        cfg,
		chunker:    git.NewChunker(cfg.Chunking.MaxLines),
		classifier: risk.NewClassifier(weights, retry, oracle),
		generator:  testgen.NewGenerator(),
		builder:    report.NewBuilder(),
		logger:     slog.Default().With("component", "engine"),
	}
}

// idState threads the monotonic counters through chunk processing.
// Chunks run strictly in order, so IMP-/TEST- numbering stays stable
// for a given diff.
type idState struct {
	impacts int
	tests   testgen.Sequence
}

func (s *idState) nextImpactID() string {
	s.impacts++
	return fmt.Sprintf("IMP-%03d", s.impacts)
}

// Analyze runs the full pipeline over a retrieved diff. Unavailable or
// empty input yields an empty schema-valid report, never an error; the
// gate treats nothing-to-analyze as a pass.
func (e *Engine) Analyze(ctx context.Context, source git.DiffResult, projectPath string) *models.ImpactReport {
	start := time.Now()
	runID := uuid.NewString()
	logger := e.logger.With("run_id", runID)

	meta := report.Meta{
		ProjectPath: projectPath,
		GitRef:      source.HeadSHA,
	}

	if !source.Success || source.Diff == "" {
		if source.Error != "" {
			logger.Warn("diff unavailable, emitting empty report", "error", source.Error)
		} else {
			logger.Info("no uncommitted changes, emitting empty report")
		}
		meta.Elapsed = time.Since(start)
		return e.finish(logger, nil, nil, meta)
	}

	logger.Info("analysis started",
		"lines", git.LineCount(source.Diff),
		"files", len(source.FilesChanged))

	chunks := e.chunks(source.Diff)
	logger.Debug("diff chunked", "chunks", len(chunks))

	state := &idState{}
	impacts := []models.Impact{}
	lineOffset := 0
	for _, chunk := range chunks {
		impacts = append(impacts, e.analyzeChunk(ctx, logger, chunk, lineOffset, state)...)
		lineOffset += chunk.LineCount
	}

	requirements := e.generator.Generate(impacts, &state.tests)

	meta.TotalLinesChanged = git.CountChangedLines(source.Diff)
	meta.Elapsed = time.Since(start)

	return e.finish(logger, impacts, requirements, meta)
}

// chunks always returns at least the single-chunk form so the per-chunk
// loop is the only code path
func (e *Engine) chunks(diff string) []git.DiffChunk {
	if git.IsLarge(diff, e.cfg.Chunking.LargeDiffThreshold) {
		return e.chunker.Chunk(diff)
	}
	return []git.DiffChunk{{
		Index:       0,
		TotalChunks: 1,
		Content:     diff,
		LineCount:   git.LineCount(diff),
	}}
}

// analyzeChunk turns one chunk's file sections into impacts.
// lineOffset is the number of diff lines in earlier chunks, so
// DiffLines stays relative to the whole diff.
func (e *Engine) analyzeChunk(ctx context.Context, logger *slog.Logger, chunk git.DiffChunk, lineOffset int, state *idState) []models.Impact {
	sections := git.ParseSections(chunk.Content)

	impacts := make([]models.Impact, 0, len(sections))
	for _, section := range sections {
		if section.Path == "" {
			continue // preamble before the first file header
		}

		category := categorize.Categorize(section.Path)
		riskLevel := e.classifier.Classify(ctx, section.Path, section.Diff, category)

		impact := models.Impact{
			ID:                 state.nextImpactID(),
			FilePath:           section.Path,
			Category:           category,
			RiskLevel:          riskLevel,
			AffectedComponents: categorize.IdentifyAffectedComponents(section.Path, section.Diff),
			RequiredTestType:   categorize.SelectTestType(category),
			ChangeSummary:      summarize(section),
			DiffLines:          []int{lineOffset + section.StartLine, lineOffset + section.EndLine},
			IsBugFix:           risk.DetectBugFix(section.Diff),
		}
		impacts = append(impacts, impact)

		logger.Debug("impact extracted",
			"id", impact.ID,
			"file", impact.FilePath,
			"category", string(impact.Category),
			"risk", string(impact.RiskLevel),
			"bug_fix", impact.IsBugFix)
	}
	return impacts
}

// summarize describes a file section in one line
func summarize(section git.FileSection) string {
	added, removed := 0, 0
	for _, line := range git.SplitLines(section.Diff) {
		switch {
		case strings.HasPrefix(line, "+") && !strings.HasPrefix(line, "+++"):
			added++
		case strings.HasPrefix(line, "-") && !strings.HasPrefix(line, "---"):
			removed++
		}
	}
	return fmt.Sprintf("%d line(s) added, %d removed in %s", added, removed, section.Path)
}

// finish builds the report and runs the non-fatal structural check
func (e *Engine) finish(logger *slog.Logger, impacts []models.Impact, requirements []models.TestRequirement, meta report.Meta) *models.ImpactReport {
	rep := e.builder.Build(impacts, requirements, meta)

	if valid, err := report.Validate(rep); !valid {
		logger.Warn("report failed structural validation", "error", err)
	}

	logger.Info("analysis complete",
		"impacts", rep.Summary.TotalImpacts,
		"critical", rep.Summary.BusinessCriticalCount,
		"requirements", rep.Summary.TotalTestRequirements,
		"seconds", rep.ProcessingTimeSeconds)

	return rep
}
