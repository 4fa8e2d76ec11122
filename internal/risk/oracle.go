package risk

import (
	"fmt"
	"strings"

	"github.com/rohankatakam/testimpact/internal/models"
)

// ParseOracleToken validates an oracle response against the strict
// two-way contract. Only the two literal risk tokens are accepted
// after trimming and case folding; everything else is a
// classification failure, so a chatty or hedging response can never
// be read as BUSINESS_CRITICAL.
func ParseOracleToken(raw string) (models.RiskLevel, error) {
	token := strings.ToUpper(strings.TrimSpace(raw))
	token = strings.Trim(token, ".\"'`")

	switch token {
	case string(models.RiskBusinessCritical):
		return models.RiskBusinessCritical, nil
	case string(models.RiskNonCritical):
		return models.RiskNonCritical, nil
	default:
		return "", fmt.Errorf("malformed oracle token %q", raw)
	}
}
