package testgen

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rohankatakam/testimpact/internal/models"
)

func impact(id string, category models.ChangeCategory, level models.RiskLevel, bugFix bool, components ...string) models.Impact {
	if components == nil {
		components = []string{"Target"}
	}
	return models.Impact{
		ID:                 id,
		FilePath:           "src/" + id + ".java",
		Category:           category,
		RiskLevel:          level,
		AffectedComponents: components,
		RequiredTestType:   models.TestTypeUnit,
		DiffLines:          []int{1, 10},
		IsBugFix:           bugFix,
	}
}

func byScenario(reqs []models.TestRequirement, scenario models.ScenarioType) []models.TestRequirement {
	var out []models.TestRequirement
	for _, r := range reqs {
		if r.ScenarioType == scenario {
			out = append(out, r)
		}
	}
	return out
}

func TestGenerateEmpty(t *testing.T) {
	g := NewGenerator()
	reqs := g.Generate([]models.Impact{}, &Sequence{})
	assert.Empty(t, reqs)
	assert.NotNil(t, reqs)
}

func TestGenerateNominalAlways(t *testing.T) {
	g := NewGenerator()
	impacts := []models.Impact{
		impact("IMP-001", models.CategoryOther, models.RiskNonCritical, false),
	}
	reqs := g.Generate(impacts, &Sequence{})

	nominals := byScenario(reqs, models.ScenarioNominal)
	require.Len(t, nominals, 1)
	assert.Equal(t, 3, nominals[0].Priority)
	assert.Equal(t, "IMP-001", nominals[0].ImpactID)
	assert.Equal(t, models.TestTypeUnit, nominals[0].TestType)
}

func TestGenerateCriticalNominalPriority(t *testing.T) {
	g := NewGenerator()
	impacts := []models.Impact{
		impact("IMP-001", models.CategoryOther, models.RiskBusinessCritical, false),
	}
	reqs := g.Generate(impacts, &Sequence{})

	nominals := byScenario(reqs, models.ScenarioNominal)
	require.Len(t, nominals, 1)
	assert.Equal(t, 1, nominals[0].Priority)

	edges := byScenario(reqs, models.ScenarioEdgeCase)
	require.NotEmpty(t, edges)
	assert.Equal(t, 2, edges[0].Priority) // nominal + 1
}

func TestGenerateEdgeCasesByCategory(t *testing.T) {
	tests := []struct {
		category models.ChangeCategory
		want     int
	}{
		{models.CategoryEndpoint, 2},     // invalid input + unauthorized
		{models.CategoryBusinessRule, 2}, // null values + boundaries
		{models.CategoryQuery, 1},
		{models.CategoryDTO, 1},
		{models.CategoryOther, 1},
		{models.CategoryConfiguration, 1},
	}

	g := NewGenerator()
	for _, tt := range tests {
		t.Run(string(tt.category), func(t *testing.T) {
			impacts := []models.Impact{
				impact("IMP-001", tt.category, models.RiskNonCritical, false),
			}
			reqs := g.Generate(impacts, &Sequence{})
			assert.Len(t, byScenario(reqs, models.ScenarioEdgeCase), tt.want)
		})
	}
}

func TestGenerateBugFixRegressionAndInvariant(t *testing.T) {
	// A business-critical business-rule bug fix owes exactly one
	// regression and exactly one invariant requirement, both top
	// priority.
	g := NewGenerator()
	impacts := []models.Impact{
		impact("IMP-001", models.CategoryBusinessRule, models.RiskBusinessCritical, true, "PaymentService"),
	}
	reqs := g.Generate(impacts, &Sequence{})

	regressions := byScenario(reqs, models.ScenarioRegression)
	require.Len(t, regressions, 1)
	assert.Equal(t, 1, regressions[0].Priority)

	invariants := byScenario(reqs, models.ScenarioInvariant)
	require.Len(t, invariants, 1)
	assert.Equal(t, 1, invariants[0].Priority)

	// 1 nominal + 2 edges + 1 regression + 1 invariant
	assert.Len(t, reqs, 5)
}

func TestGenerateNoInvariantForNonCriticalRule(t *testing.T) {
	g := NewGenerator()
	impacts := []models.Impact{
		impact("IMP-001", models.CategoryBusinessRule, models.RiskNonCritical, false),
	}
	reqs := g.Generate(impacts, &Sequence{})
	assert.Empty(t, byScenario(reqs, models.ScenarioInvariant))
	assert.Empty(t, byScenario(reqs, models.ScenarioRegression))
}

func TestGenerateSkipsTestCategory(t *testing.T) {
	g := NewGenerator()
	impacts := []models.Impact{
		impact("IMP-001", models.CategoryTest, models.RiskNonCritical, false),
		impact("IMP-002", models.CategoryOther, models.RiskNonCritical, false),
	}
	reqs := g.Generate(impacts, &Sequence{})

	for _, r := range reqs {
		assert.Equal(t, "IMP-002", r.ImpactID)
	}
	assert.NotEmpty(t, reqs)
}

func TestGenerateSequentialIDs(t *testing.T) {
	g := NewGenerator()
	impacts := []models.Impact{
		impact("IMP-001", models.CategoryEndpoint, models.RiskBusinessCritical, false),
		impact("IMP-002", models.CategoryQuery, models.RiskNonCritical, true),
	}
	seq := &Sequence{}
	reqs := g.Generate(impacts, seq)

	for i, r := range reqs {
		assert.Equal(t, fmt.Sprintf("TEST-%03d", i+1), r.ID)
	}

	// A shared sequence keeps numbering monotonic across calls.
	more := g.Generate(impacts[:1], seq)
	require.NotEmpty(t, more)
	assert.Equal(t, fmt.Sprintf("TEST-%03d", len(reqs)+1), more[0].ID)
}

func TestGenerateCoverageInvariant(t *testing.T) {
	g := NewGenerator()
	var impacts []models.Impact
	for i, cat := range models.Categories {
		impacts = append(impacts, impact(fmt.Sprintf("IMP-%03d", i+1), cat, models.RiskNonCritical, false))
	}
	reqs := g.Generate(impacts, &Sequence{})

	covered := map[string]bool{}
	for _, r := range reqs {
		covered[r.ImpactID] = true
	}
	for _, imp := range impacts {
		if imp.Category == models.CategoryTest {
			assert.False(t, covered[imp.ID])
			continue
		}
		assert.True(t, covered[imp.ID], imp.ID)
	}
}

func TestGenerateSuggestedNames(t *testing.T) {
	g := NewGenerator()
	impacts := []models.Impact{
		impact("IMP-001", models.CategoryEndpoint, models.RiskBusinessCritical, false, "UserController", "login"),
	}
	reqs := g.Generate(impacts, &Sequence{})
	require.NotEmpty(t, reqs)

	nominal := byScenario(reqs, models.ScenarioNominal)[0]
	assert.Equal(t, "shouldUserControllerWorkCorrectly", nominal.SuggestedTestName)
	assert.Equal(t, "UserController", nominal.TargetClass)
	assert.Equal(t, "login", nominal.TargetMethod)
}

func TestGenerateFallbackTarget(t *testing.T) {
	g := NewGenerator()
	imp := impact("IMP-001", models.CategoryOther, models.RiskNonCritical, false)
	imp.AffectedComponents = nil
	reqs := g.Generate([]models.Impact{imp}, &Sequence{})

	require.NotEmpty(t, reqs)
	assert.Equal(t, "UnknownTarget", reqs[0].TargetClass)
}
