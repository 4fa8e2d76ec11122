// Package risk assigns the two-way risk classification that drives
// test priority and CI gating. Classification is a tiered heuristic:
// path vocabularies first, weighted keyword scores second, with an
// optional external oracle consulted when the keyword margin is thin.
package risk

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/rohankatakam/testimpact/internal/git"
	"github.com/rohankatakam/testimpact/internal/models"
)

// OracleExcerptMaxChars bounds the diff excerpt sent to the oracle.
const OracleExcerptMaxChars = 1000

// Classifier assigns BUSINESS_CRITICAL or NON_CRITICAL to a changed
// file. With a nil oracle, Classify is a pure function of its inputs.
type Classifier struct {
	weights Weights
	retry   RetryPolicy
	oracle  RiskOracle
	sleep   func(context.Context, int) bool // swapped out in tests
	logger  *slog.Logger
}

// NewClassifier creates a classifier. oracle may be nil to disable
// escalation.
func NewClassifier(weights Weights, retry RetryPolicy, oracle RiskOracle) *Classifier {
	c := &Classifier{
		weights: weights,
		retry:   retry,
		oracle:  oracle,
		logger:  slog.Default().With("component", "risk"),
	}
	c.sleep = c.waitBackoff
	return c
}

// Classify decides the risk level for one file section.
// Decision order: TEST category is never critical; then the path
// vocabularies decide outright; then weighted keyword scores with the
// category default as tie-break. A thin keyword margin consults the
// oracle before trusting the keyword answer, and every oracle failure
// path degrades silently to that answer.
func (c *Classifier) Classify(ctx context.Context, filePath, fileDiff string, category models.ChangeCategory) models.RiskLevel {
	if category == models.CategoryTest {
		return models.RiskNonCritical
	}

	lowerPath := strings.ToLower(filePath)
	for _, term := range criticalPathTerms {
		if strings.Contains(lowerPath, term) {
			return models.RiskBusinessCritical
		}
	}
	for _, term := range nonCriticalPathTerms {
		if strings.Contains(lowerPath, term) {
			return models.RiskNonCritical
		}
	}

	critical, nonCritical := c.keywordScores(filePath, fileDiff)
	if category == models.CategoryBusinessRule || category == models.CategoryAPIContract {
		critical += c.weights.CategoryBonus
	}

	keyword := c.keywordDecision(critical, nonCritical, category)

	margin := critical - nonCritical
	if margin < 0 {
		margin = -margin
	}
	if margin <= c.weights.EscalationMargin && c.oracle != nil {
		if level, ok := c.consultOracle(ctx, filePath, fileDiff, category); ok {
			return level
		}
		c.logger.Warn("oracle escalation failed, using keyword result",
			"file", filePath,
			"keyword_risk", string(keyword))
	}

	return keyword
}

// keywordScores computes occurrence counts of both vocabularies over
// the diff body and, weighted, over the path.
func (c *Classifier) keywordScores(filePath, fileDiff string) (critical, nonCritical int) {
	lowerDiff := strings.ToLower(fileDiff)
	lowerPath := strings.ToLower(filePath)

	for _, kw := range criticalKeywords {
		critical += strings.Count(lowerDiff, kw)
		critical += strings.Count(lowerPath, kw) * c.weights.PathWeight
	}
	for _, kw := range nonCriticalKeywords {
		nonCritical += strings.Count(lowerDiff, kw)
		nonCritical += strings.Count(lowerPath, kw) * c.weights.PathWeight
	}
	return critical, nonCritical
}

// keywordDecision applies the score comparison with the category
// default as the zero-signal fallback.
func (c *Classifier) keywordDecision(critical, nonCritical int, category models.ChangeCategory) models.RiskLevel {
	if critical > nonCritical {
		return models.RiskBusinessCritical
	}
	if nonCritical > 0 {
		return models.RiskNonCritical
	}
	return categoryDefault(category)
}

// categoryDefault is the risk assumed when no signal exists at all.
// Config, migration, and endpoint changes fail unsafe.
func categoryDefault(category models.ChangeCategory) models.RiskLevel {
	switch category {
	case models.CategoryConfiguration, models.CategoryMigration, models.CategoryEndpoint:
		return models.RiskBusinessCritical
	default:
		return models.RiskNonCritical
	}
}

// consultOracle runs the external classifier under the retry policy.
// A malformed token is a failed attempt like any transient error; on
// exhaustion the caller falls back to the keyword answer.
func (c *Classifier) consultOracle(ctx context.Context, filePath, fileDiff string, category models.ChangeCategory) (models.RiskLevel, bool) {
	req := OracleRequest{
		FilePath:    filePath,
		Category:    category,
		DiffExcerpt: git.TruncateForOracle(fileDiff, OracleExcerptMaxChars),
	}

	for attempt := 1; attempt <= c.retry.MaxAttempts; attempt++ {
		if attempt > 1 && !c.sleep(ctx, attempt) {
			return "", false
		}
		if ctx.Err() != nil {
			return "", false
		}

		level, err := c.callOracle(ctx, req)
		if err != nil {
			c.logger.Warn("oracle attempt failed",
				"file", filePath,
				"attempt", attempt,
				"error", err)
			continue
		}

		parsed, perr := ParseOracleToken(string(level))
		if perr != nil {
			c.logger.Warn("oracle returned malformed token",
				"file", filePath,
				"attempt", attempt,
				"token", string(level))
			continue
		}
		return parsed, true
	}

	return "", false
}

// callOracle makes a single oracle call under the per-call timeout.
// Scoping the timeout context here releases it as soon as the attempt
// finishes instead of piling cancels up across retries.
func (c *Classifier) callOracle(ctx context.Context, req OracleRequest) (models.RiskLevel, error) {
	if c.retry.CallTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.retry.CallTimeout)
		defer cancel()
	}
	return c.oracle.ClassifyRisk(ctx, req)
}

// waitBackoff sleeps the exponential-backoff delay before an attempt,
// honoring context cancellation. Returns false when the pipeline
// deadline fired.
func (c *Classifier) waitBackoff(ctx context.Context, attempt int) bool {
	delay := c.retry.Delay(attempt)
	if delay <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(delay)
	defer t.Stop()
	select {
	case <-t.C:
		return true
	case <-ctx.Done():
		return false
	}
}
