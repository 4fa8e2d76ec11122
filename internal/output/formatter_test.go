package output

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rohankatakam/testimpact/internal/models"
)

func sampleReport(critical bool, covered bool) *models.ImpactReport {
	level := models.RiskNonCritical
	criticalCount := 0
	if critical {
		level = models.RiskBusinessCritical
		criticalCount = 1
	}

	rep := &models.ImpactReport{
		Version:           models.ReportVersion,
		GeneratedAt:       "2026-08-26T12:00:00Z",
		GitRef:            "abc1234",
		TotalLinesChanged: 5,
		Summary: models.Summary{
			TotalImpacts:          1,
			BusinessCriticalCount: criticalCount,
			NonCriticalCount:      1 - criticalCount,
			ByCategory:            map[string]int{"BUSINESS_RULE": 1},
		},
		Impacts: []models.Impact{{
			ID:               "IMP-001",
			FilePath:         "src/PaymentService.java",
			Category:         models.CategoryBusinessRule,
			RiskLevel:        level,
			RequiredTestType: models.TestTypeUnit,
			ChangeSummary:    "3 line(s) added, 0 removed in src/PaymentService.java",
			DiffLines:        []int{1, 8},
		}},
		TestRequirements: []models.TestRequirement{},
	}

	if covered {
		rep.Summary.TotalTestRequirements = 1
		rep.TestRequirements = []models.TestRequirement{{
			ID:           "TEST-001",
			ImpactID:     "IMP-001",
			TestType:     models.TestTypeUnit,
			ScenarioType: models.ScenarioNominal,
			Description:  "Verify PaymentService behaves correctly",
			Priority:     1,
			TargetClass:  "PaymentService",
		}}
	}
	return rep
}

func TestQuietFormatter(t *testing.T) {
	tests := []struct {
		name     string
		report   *models.ImpactReport
		contains string
	}{
		{"empty report", &models.ImpactReport{TestRequirements: []models.TestRequirement{}}, "no impacts detected"},
		{"covered critical", sampleReport(true, true), "1 critical"},
		{"uncovered critical", sampleReport(true, false), "uncovered"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, (&QuietFormatter{}).Format(tt.report, &buf))
			assert.Contains(t, buf.String(), tt.contains)
		})
	}
}

func TestStandardFormatter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, (&StandardFormatter{}).Format(sampleReport(true, true), &buf))

	out := buf.String()
	assert.Contains(t, out, "IMP-001")
	assert.Contains(t, out, "TEST-001")
	assert.Contains(t, out, "src/PaymentService.java")
	assert.Contains(t, out, "abc1234")
	assert.NotContains(t, out, "lack test coverage")
}

func TestStandardFormatterFlagsUncoveredCriticals(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, (&StandardFormatter{}).Format(sampleReport(true, false), &buf))
	assert.Contains(t, buf.String(), "lack test coverage")
}

func TestJSONFormatterRoundTrips(t *testing.T) {
	var buf bytes.Buffer
	rep := sampleReport(false, true)
	require.NoError(t, (&JSONFormatter{}).Format(rep, &buf))

	var decoded models.ImpactReport
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, rep.Impacts, decoded.Impacts)
	assert.Equal(t, rep.Summary, decoded.Summary)
}

func TestNewFormatter(t *testing.T) {
	assert.IsType(t, &QuietFormatter{}, NewFormatter(VerbosityQuiet))
	assert.IsType(t, &StandardFormatter{}, NewFormatter(VerbosityStandard))
	assert.IsType(t, &JSONFormatter{}, NewFormatter(VerbosityJSON))
	assert.IsType(t, &StandardFormatter{}, NewFormatter(VerbosityLevel(99)))
}
