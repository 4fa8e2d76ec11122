package models

// ChangeCategory classifies what a changed file touches.
type ChangeCategory string

const (
	CategoryBusinessRule  ChangeCategory = "BUSINESS_RULE"
	CategoryEndpoint      ChangeCategory = "ENDPOINT"
	CategoryDTO           ChangeCategory = "DTO"
	CategoryQuery         ChangeCategory = "QUERY"
	CategoryMigration     ChangeCategory = "MIGRATION"
	CategoryAPIContract   ChangeCategory = "API_CONTRACT"
	CategoryConfiguration ChangeCategory = "CONFIGURATION"
	CategoryTest          ChangeCategory = "TEST"
	CategoryOther         ChangeCategory = "OTHER"
)

// Categories lists every valid change category.
var Categories = []ChangeCategory{
	CategoryBusinessRule,
	CategoryEndpoint,
	CategoryDTO,
	CategoryQuery,
	CategoryMigration,
	CategoryAPIContract,
	CategoryConfiguration,
	CategoryTest,
	CategoryOther,
}

// RiskLevel represents the two-way risk classification that drives
// test priority and CI gating.
type RiskLevel string

const (
	RiskBusinessCritical RiskLevel = "BUSINESS_CRITICAL"
	RiskNonCritical      RiskLevel = "NON_CRITICAL"
)

// TestType selects the cheapest test layer sufficient for a change
// (test-pyramid policy).
type TestType string

const (
	TestTypeUnit        TestType = "UNIT"
	TestTypeController  TestType = "CONTROLLER"
	TestTypeDataLayer   TestType = "DATA_LAYER"
	TestTypeIntegration TestType = "INTEGRATION"
	TestTypeContract    TestType = "CONTRACT"
)

// ScenarioType describes what a generated test obligation verifies.
type ScenarioType string

const (
	ScenarioNominal    ScenarioType = "NOMINAL"
	ScenarioEdgeCase   ScenarioType = "EDGE_CASE"
	ScenarioRegression ScenarioType = "REGRESSION"
	ScenarioInvariant  ScenarioType = "INVARIANT"
)

// Impact is a single file-level change extracted from a diff, with its
// assigned category and risk. Impacts are immutable once created.
type Impact struct {
	ID                 string         `json:"id"`
	FilePath           string         `json:"file_path"`
	Category           ChangeCategory `json:"category"`
	RiskLevel          RiskLevel      `json:"risk_level"`
	AffectedComponents []string       `json:"affected_components"`
	RequiredTestType   TestType       `json:"required_test_type"`
	ChangeSummary      string         `json:"change_summary"`
	DiffLines          []int          `json:"diff_lines"` // exactly [start, end]
	IsBugFix           bool           `json:"is_bug_fix"`
}

// TestRequirement is a concrete test obligation derived from an Impact.
type TestRequirement struct {
	ID                string       `json:"id"`
	ImpactID          string       `json:"impact_id"`
	TestType          TestType     `json:"test_type"`
	ScenarioType      ScenarioType `json:"scenario_type"`
	Description       string       `json:"description"`
	Priority          int          `json:"priority"` // 1 = highest … 5
	TargetClass       string       `json:"target_class"`
	TargetMethod      string       `json:"target_method,omitempty"`
	SuggestedTestName string       `json:"suggested_test_name,omitempty"`
}

// Summary holds derived report statistics.
type Summary struct {
	TotalImpacts          int            `json:"total_impacts"`
	BusinessCriticalCount int            `json:"business_critical_count"`
	NonCriticalCount      int            `json:"non_critical_count"`
	TotalTestRequirements int            `json:"total_test_requirements"`
	ByCategory            map[string]int `json:"by_category"`
}

// ImpactReport is the canonical analysis output handed to the CI gate
// and the downstream test-authoring system. The engine owns no
// persistence; the report is discarded after handoff.
type ImpactReport struct {
	Version               string            `json:"version"`
	GeneratedAt           string            `json:"generated_at"` // UTC ISO-8601 with trailing Z
	ProjectPath           string            `json:"project_path"`
	GitRef                string            `json:"git_ref"`
	TotalLinesChanged     int               `json:"total_lines_changed"`
	ProcessingTimeSeconds float64           `json:"processing_time_seconds"`
	Summary               Summary           `json:"summary"`
	Impacts               []Impact          `json:"impacts"`
	TestRequirements      []TestRequirement `json:"test_requirements"`
}

// ReportVersion is the report schema version emitted by the builder.
const ReportVersion = "1.0"
