package output

import (
	"fmt"
	"io"

	"github.com/rohankatakam/testimpact/internal/models"
	"github.com/rohankatakam/testimpact/internal/report"
)

// QuietFormatter outputs one-line summary (for pre-commit hooks)
type QuietFormatter struct{}

func (f *QuietFormatter) Format(rep *models.ImpactReport, w io.Writer) error {
	if rep.Summary.TotalImpacts == 0 {
		fmt.Fprintf(w, "✅ no impacts detected\n")
		return nil
	}

	if report.HasUncoveredCriticalImpacts(rep) {
		fmt.Fprintf(w, "🔴 %d impacts (%d critical, uncovered): %d tests required\n",
			rep.Summary.TotalImpacts,
			rep.Summary.BusinessCriticalCount,
			rep.Summary.TotalTestRequirements)
		fmt.Fprintf(w, "Run 'timpact analyze' for details\n")
		return nil
	}

	fmt.Fprintf(w, "⚠️  %d impacts (%d critical): %d tests required\n",
		rep.Summary.TotalImpacts,
		rep.Summary.BusinessCriticalCount,
		rep.Summary.TotalTestRequirements)

	return nil
}
