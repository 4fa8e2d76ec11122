package output

import (
	"encoding/json"
	"io"

	"github.com/rohankatakam/testimpact/internal/models"
)

// JSONFormatter emits the report verbatim for machine consumers
// (the CI gate and the downstream test-authoring system)
type JSONFormatter struct{}

func (f *JSONFormatter) Format(rep *models.ImpactReport, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(rep)
}
