package output

import (
	"fmt"
	"io"

	"github.com/rohankatakam/testimpact/internal/models"
	"github.com/rohankatakam/testimpact/internal/report"
)

// StandardFormatter outputs impacts + test requirements (default)
type StandardFormatter struct{}

func (f *StandardFormatter) Format(rep *models.ImpactReport, w io.Writer) error {
	fmt.Fprintf(w, "🔍 Test Impact Analysis\n")
	if rep.GitRef != "" {
		fmt.Fprintf(w, "Ref: %s\n", rep.GitRef)
	}
	fmt.Fprintf(w, "Lines changed: %d\n", rep.TotalLinesChanged)
	fmt.Fprintf(w, "Impacts: %d (%d critical, %d non-critical)\n\n",
		rep.Summary.TotalImpacts,
		rep.Summary.BusinessCriticalCount,
		rep.Summary.NonCriticalCount)

	if len(rep.Impacts) > 0 {
		fmt.Fprintf(w, "Impacts:\n")
		for _, impact := range rep.Impacts {
			fmt.Fprintf(w, "%s %s %s [%s] %s\n",
				riskEmoji(impact.RiskLevel),
				impact.ID,
				impact.FilePath,
				impact.Category,
				impact.ChangeSummary,
			)
		}
		fmt.Fprintf(w, "\n")
	}

	if len(rep.TestRequirements) > 0 {
		fmt.Fprintf(w, "Required tests:\n")
		for _, req := range rep.TestRequirements {
			fmt.Fprintf(w, "- %s [P%d %s/%s → %s] %s\n",
				req.ID,
				req.Priority,
				req.TestType,
				req.ScenarioType,
				req.ImpactID,
				req.Description,
			)
		}
		fmt.Fprintf(w, "\n")
	}

	if report.HasUncoveredCriticalImpacts(rep) {
		fmt.Fprintf(w, "🔴 Business-critical impacts lack test coverage\n")
	}

	fmt.Fprintf(w, "Completed in %.2fs\n", rep.ProcessingTimeSeconds)
	return nil
}

func riskEmoji(level models.RiskLevel) string {
	if level == models.RiskBusinessCritical {
		return "🔴"
	}
	return "ℹ️ "
}
