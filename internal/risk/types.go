package risk

import (
	"context"
	"time"

	"github.com/rohankatakam/testimpact/internal/models"
)

// OracleRequest carries the context an external classifier needs for
// an ambiguous file. DiffExcerpt is already bounded to the excerpt
// budget; never send a whole diff.
type OracleRequest struct {
	FilePath    string
	Category    models.ChangeCategory
	DiffExcerpt string
}

// RiskOracle is the injected external fallback classifier. It must
// answer with exactly one of the two risk levels; anything else is a
// classification failure. Implementations live in internal/llm; tests
// use a stub. A nil oracle disables escalation and keeps Classify a
// pure function of its inputs.
type RiskOracle interface {
	ClassifyRisk(ctx context.Context, req OracleRequest) (models.RiskLevel, error)
}

// RetryPolicy bounds oracle retries: sequential attempts with
// exponential backoff, doubling from BaseDelay up to MaxDelay.
type RetryPolicy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
	CallTimeout time.Duration
}

// DefaultRetryPolicy matches the empirically chosen production knobs.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts: 3,
		BaseDelay:   2 * time.Second,
		MaxDelay:    30 * time.Second,
		CallTimeout: 10 * time.Second,
	}
}

// Delay returns the backoff delay before the given 1-based attempt.
// The first attempt runs immediately.
func (p RetryPolicy) Delay(attempt int) time.Duration {
	if attempt <= 1 {
		return 0
	}
	d := p.BaseDelay
	for i := 2; i < attempt; i++ {
		d *= 2
		if d >= p.MaxDelay {
			return p.MaxDelay
		}
	}
	if d > p.MaxDelay {
		return p.MaxDelay
	}
	return d
}

// Weights are the keyword tie-break constants. They are tuned, not
// proven optimal, so they arrive from configuration.
type Weights struct {
	PathWeight       int
	CategoryBonus    int
	EscalationMargin int
}

// DefaultWeights returns the production defaults.
func DefaultWeights() Weights {
	return Weights{PathWeight: 2, CategoryBonus: 2, EscalationMargin: 2}
}
