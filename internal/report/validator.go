package report

import (
	"regexp"

	"github.com/rohankatakam/testimpact/internal/errors"
	"github.com/rohankatakam/testimpact/internal/models"
)

var (
	impactIDRe = regexp.MustCompile(`^IMP-\d{3}$`)
	testIDRe   = regexp.MustCompile(`^TEST-\d{3}$`)
)

var validCategories = enumSet(models.Categories)

var validRiskLevels = map[string]bool{
	string(models.RiskBusinessCritical): true,
	string(models.RiskNonCritical):      true,
}

var validTestTypes = map[string]bool{
	string(models.TestTypeUnit):        true,
	string(models.TestTypeController):  true,
	string(models.TestTypeDataLayer):   true,
	string(models.TestTypeIntegration): true,
	string(models.TestTypeContract):    true,
}

var validScenarioTypes = map[string]bool{
	string(models.ScenarioNominal):    true,
	string(models.ScenarioEdgeCase):   true,
	string(models.ScenarioRegression): true,
	string(models.ScenarioInvariant):  true,
}

func enumSet(categories []models.ChangeCategory) map[string]bool {
	set := make(map[string]bool, len(categories))
	for _, c := range categories {
		set[string(c)] = true
	}
	return set
}

// Validate checks the report against its structural contract. It is
// non-fatal: callers log the returned error and keep the report.
func Validate(report *models.ImpactReport) (bool, error) {
	if report == nil {
		return false, errors.SchemaErrorf("report is nil")
	}
	if report.Version == "" {
		return false, errors.SchemaErrorf("missing version")
	}
	if report.GeneratedAt == "" {
		return false, errors.SchemaErrorf("missing generated_at")
	}
	if report.Impacts == nil {
		return false, errors.SchemaErrorf("impacts must be present (may be empty)")
	}
	if report.TestRequirements == nil {
		return false, errors.SchemaErrorf("test_requirements must be present (may be empty)")
	}

	impactIDs := make(map[string]bool, len(report.Impacts))
	for i, impact := range report.Impacts {
		if !impactIDRe.MatchString(impact.ID) {
			return false, errors.SchemaErrorf("impact %d: id %q does not match IMP-NNN", i, impact.ID)
		}
		if impactIDs[impact.ID] {
			return false, errors.SchemaErrorf("impact %d: duplicate id %q", i, impact.ID)
		}
		impactIDs[impact.ID] = true

		if impact.FilePath == "" {
			return false, errors.SchemaErrorf("impact %s: missing file_path", impact.ID)
		}
		if !validCategories[string(impact.Category)] {
			return false, errors.SchemaErrorf("impact %s: invalid category %q", impact.ID, impact.Category)
		}
		if !validRiskLevels[string(impact.RiskLevel)] {
			return false, errors.SchemaErrorf("impact %s: invalid risk_level %q", impact.ID, impact.RiskLevel)
		}
		if !validTestTypes[string(impact.RequiredTestType)] {
			return false, errors.SchemaErrorf("impact %s: invalid required_test_type %q", impact.ID, impact.RequiredTestType)
		}
		if len(impact.DiffLines) != 2 {
			return false, errors.SchemaErrorf("impact %s: diff_lines must have exactly 2 elements, got %d", impact.ID, len(impact.DiffLines))
		}
	}

	testIDs := make(map[string]bool, len(report.TestRequirements))
	for i, req := range report.TestRequirements {
		if !testIDRe.MatchString(req.ID) {
			return false, errors.SchemaErrorf("test requirement %d: id %q does not match TEST-NNN", i, req.ID)
		}
		if testIDs[req.ID] {
			return false, errors.SchemaErrorf("test requirement %d: duplicate id %q", i, req.ID)
		}
		testIDs[req.ID] = true

		if !impactIDs[req.ImpactID] {
			return false, errors.SchemaErrorf("test requirement %s: impact_id %q does not reference an impact in this report", req.ID, req.ImpactID)
		}
		if !validTestTypes[string(req.TestType)] {
			return false, errors.SchemaErrorf("test requirement %s: invalid test_type %q", req.ID, req.TestType)
		}
		if !validScenarioTypes[string(req.ScenarioType)] {
			return false, errors.SchemaErrorf("test requirement %s: invalid scenario_type %q", req.ID, req.ScenarioType)
		}
		if req.Priority < 1 || req.Priority > 5 {
			return false, errors.SchemaErrorf("test requirement %s: priority %d out of range [1,5]", req.ID, req.Priority)
		}
		if req.Description == "" {
			return false, errors.SchemaErrorf("test requirement %s: missing description", req.ID)
		}
	}

	return true, nil
}

// HasUncoveredCriticalImpacts reports whether any BUSINESS_CRITICAL
// impact lacks a test requirement referencing it. The CLI turns this
// into a non-zero exit status.
func HasUncoveredCriticalImpacts(report *models.ImpactReport) bool {
	covered := make(map[string]bool, len(report.TestRequirements))
	for _, req := range report.TestRequirements {
		covered[req.ImpactID] = true
	}
	for _, impact := range report.Impacts {
		if impact.RiskLevel == models.RiskBusinessCritical && !covered[impact.ID] {
			return true
		}
	}
	return false
}
