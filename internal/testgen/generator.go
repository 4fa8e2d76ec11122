// Package testgen derives test obligations from classified impacts.
// Generation is deterministic: the same impacts in the same order
// always yield the same requirements.
package testgen

import (
	"fmt"
	"log/slog"
	"strings"
	"unicode"

	"github.com/rohankatakam/testimpact/internal/models"
)

// Sequence hands out globally sequential TEST-NNN identifiers. One
// sequence spans the whole report, including across diff chunks, so
// the caller threads a single instance through the run.
type Sequence struct {
	n int
}

// Next returns the next identifier, starting at TEST-001
func (s *Sequence) Next() string {
	s.n++
	return fmt.Sprintf("TEST-%03d", s.n)
}

// Generator produces test requirements for non-TEST impacts
type Generator struct {
	logger *slog.Logger
}

func NewGenerator() *Generator {
	return &Generator{
		logger: slog.Default().With("component", "testgen"),
	}
}

// Generate emits requirements for each impact in order: the nominal
// case, then edge cases, then a regression case for bug fixes, then an
// invariant case for critical business rules. Impacts in the TEST
// category describe test-file changes and get no requirements of
// their own.
func (g *Generator) Generate(impacts []models.Impact, seq *Sequence) []models.TestRequirement {
	requirements := []models.TestRequirement{}

	for _, impact := range impacts {
		if impact.Category == models.CategoryTest {
			continue
		}

		target := targetClass(impact)
		nominalPriority := 3
		if impact.RiskLevel == models.RiskBusinessCritical {
			nominalPriority = 1
		}

		requirements = append(requirements, models.TestRequirement{
			ID:                seq.Next(),
			ImpactID:          impact.ID,
			TestType:          impact.RequiredTestType,
			ScenarioType:      models.ScenarioNominal,
			Description:       fmt.Sprintf("Verify %s behaves correctly for the nominal case after this change", target),
			Priority:          nominalPriority,
			TargetClass:       target,
			TargetMethod:      targetMethod(impact),
			SuggestedTestName: suggestedName(target, "WorkCorrectly"),
		})

		for _, edge := range edgeCases(impact.Category) {
			requirements = append(requirements, models.TestRequirement{
				ID:                seq.Next(),
				ImpactID:          impact.ID,
				TestType:          impact.RequiredTestType,
				ScenarioType:      models.ScenarioEdgeCase,
				Description:       fmt.Sprintf("Verify %s %s", target, edge.description),
				Priority:          nominalPriority + 1,
				TargetClass:       target,
				TargetMethod:      targetMethod(impact),
				SuggestedTestName: suggestedName(target, edge.nameSuffix),
			})
		}

		if impact.IsBugFix {
			requirements = append(requirements, models.TestRequirement{
				ID:                seq.Next(),
				ImpactID:          impact.ID,
				TestType:          impact.RequiredTestType,
				ScenarioType:      models.ScenarioRegression,
				Description:       fmt.Sprintf("Verify the bug fixed in %s does not reoccur", target),
				Priority:          1,
				TargetClass:       target,
				TargetMethod:      targetMethod(impact),
				SuggestedTestName: suggestedName(target, "NotRegress"),
			})
		}

		if impact.Category == models.CategoryBusinessRule && impact.RiskLevel == models.RiskBusinessCritical {
			requirements = append(requirements, models.TestRequirement{
				ID:                seq.Next(),
				ImpactID:          impact.ID,
				TestType:          impact.RequiredTestType,
				ScenarioType:      models.ScenarioInvariant,
				Description:       fmt.Sprintf("Assert the business invariants of %s hold after this change", target),
				Priority:          1,
				TargetClass:       target,
				TargetMethod:      targetMethod(impact),
				SuggestedTestName: suggestedName(target, "PreserveInvariants"),
			})
		}
	}

	g.logger.Debug("generated test requirements",
		"impacts", len(impacts),
		"requirements", len(requirements))

	return requirements
}

type edgeCase struct {
	description string
	nameSuffix  string
}

// edgeCases picks the category-specific edge scenarios. Categories
// without a tailored list get one generic edge case.
func edgeCases(category models.ChangeCategory) []edgeCase {
	switch category {
	case models.CategoryEndpoint:
		return []edgeCase{
			{"rejects invalid input with a client error", "RejectInvalidInput"},
			{"rejects unauthorized callers", "RejectUnauthorized"},
		}
	case models.CategoryBusinessRule:
		return []edgeCase{
			{"handles null or missing values safely", "HandleNullValues"},
			{"handles boundary values correctly", "HandleBoundaryValues"},
		}
	case models.CategoryQuery:
		return []edgeCase{
			{"handles an empty result set", "HandleEmptyResult"},
		}
	case models.CategoryDTO:
		return []edgeCase{
			{"validates its fields on construction", "ValidateFields"},
		}
	default:
		return []edgeCase{
			{"handles edge-case input gracefully", "HandleEdgeCases"},
		}
	}
}

// targetClass picks the class under test: the first affected component
// that looks like a type name, falling back to the first component.
func targetClass(impact models.Impact) string {
	if len(impact.AffectedComponents) == 0 {
		return "UnknownTarget"
	}
	for _, comp := range impact.AffectedComponents {
		if isExported(comp) {
			return comp
		}
	}
	return impact.AffectedComponents[0]
}

// targetMethod picks the first component that looks like a method name
// (lowercase initial), or empty when only type names were found
func targetMethod(impact models.Impact) string {
	for _, comp := range impact.AffectedComponents {
		if !isExported(comp) {
			return comp
		}
	}
	return ""
}

func isExported(name string) bool {
	if name == "" {
		return false
	}
	return unicode.IsUpper(rune(name[0]))
}

// suggestedName builds names like shouldUserControllerWorkCorrectly.
// The convention is deterministic but not guaranteed unique.
func suggestedName(target, suffix string) string {
	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return r
		}
		return -1
	}, target)
	if cleaned == "" {
		cleaned = "Target"
	}
	return "should" + strings.ToUpper(cleaned[:1]) + cleaned[1:] + suffix
}
