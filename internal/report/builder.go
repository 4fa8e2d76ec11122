// Package report assembles and validates the impact report that the
// engine hands to the CI gate.
package report

import (
	"log/slog"
	"math"
	"time"

	"github.com/rohankatakam/testimpact/internal/models"
)

// Meta carries run-level metadata into the builder
type Meta struct {
	ProjectPath       string
	GitRef            string
	TotalLinesChanged int
	Elapsed           time.Duration
	GeneratedAt       time.Time // zero value means time.Now()
}

// Builder computes summary statistics and stamps report metadata
type Builder struct {
	logger *slog.Logger
}

func NewBuilder() *Builder {
	return &Builder{
		logger: slog.Default().With("component", "report"),
	}
}

// Build assembles the final report. Nil impact or requirement slices
// become empty slices so the JSON output always carries arrays.
func (b *Builder) Build(impacts []models.Impact, requirements []models.TestRequirement, meta Meta) *models.ImpactReport {
	if impacts == nil {
		impacts = []models.Impact{}
	}
	if requirements == nil {
		requirements = []models.TestRequirement{}
	}

	summary := models.Summary{
		TotalImpacts:          len(impacts),
		TotalTestRequirements: len(requirements),
		ByCategory:            map[string]int{},
	}
	for _, impact := range impacts {
		summary.ByCategory[string(impact.Category)]++
		switch impact.RiskLevel {
		case models.RiskBusinessCritical:
			summary.BusinessCriticalCount++
		case models.RiskNonCritical:
			summary.NonCriticalCount++
		}
	}

	generatedAt := meta.GeneratedAt
	if generatedAt.IsZero() {
		generatedAt = time.Now()
	}

	report := &models.ImpactReport{
		Version:               models.ReportVersion,
		GeneratedAt:           generatedAt.UTC().Format(time.RFC3339),
		ProjectPath:           meta.ProjectPath,
		GitRef:                meta.GitRef,
		TotalLinesChanged:     meta.TotalLinesChanged,
		ProcessingTimeSeconds: math.Round(meta.Elapsed.Seconds()*100) / 100,
		Summary:               summary,
		Impacts:               impacts,
		TestRequirements:      requirements,
	}

	b.logger.Debug("report built",
		"impacts", summary.TotalImpacts,
		"critical", summary.BusinessCriticalCount,
		"requirements", summary.TotalTestRequirements)

	return report
}
