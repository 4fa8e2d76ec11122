// Package llm implements the external risk oracle on top of the
// OpenAI and Gemini APIs. The deterministic classifier stays
// synchronous and oracle-free; this package only answers the
// ambiguous cases the classifier escalates.
package llm

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/rohankatakam/testimpact/internal/config"
	apperrors "github.com/rohankatakam/testimpact/internal/errors"
	"github.com/rohankatakam/testimpact/internal/models"
	"github.com/rohankatakam/testimpact/internal/risk"
)

// Provider represents the oracle backend
type Provider string

const (
	ProviderOpenAI Provider = "openai"
	ProviderGemini Provider = "gemini"
	ProviderNone   Provider = "none" // escalation disabled
)

const systemPrompt = `You are a code-change risk classifier for a CI gate.
Given one changed file from an uncommitted diff, answer with exactly one token:
BUSINESS_CRITICAL or NON_CRITICAL.
Answer BUSINESS_CRITICAL only when the change plausibly affects money movement,
authentication, authorization, security, or order processing. No explanation,
no punctuation, one token only.`

// Client is the multi-provider risk oracle. It satisfies
// risk.RiskOracle; the classifier owns retry and degradation, the
// client owns transport, prompting, and throttling.
type Client struct {
	provider Provider
	openai   *openAIBackend
	gemini   *geminiBackend
	limiter  *Limiter
	logger   *slog.Logger
	enabled  bool
}

// NewClient creates an oracle client from configuration. A missing
// key or provider "none" yields a disabled client; callers should
// pass a nil oracle to the classifier in that case.
func NewClient(ctx context.Context, cfg *config.Config) (*Client, error) {
	logger := slog.Default().With("component", "llm")

	c := &Client{
		provider: Provider(cfg.Oracle.Provider),
		limiter:  NewLimiter(cfg.Oracle.RequestsPerMin),
		logger:   logger,
	}

	switch c.provider {
	case ProviderOpenAI:
		if cfg.Oracle.OpenAIKey == "" {
			logger.Warn("openai oracle selected but no API key configured")
			c.provider = ProviderNone
			return c, nil
		}
		c.openai = newOpenAIBackend(cfg.Oracle.OpenAIKey, cfg.Oracle.OpenAIModel)
		c.enabled = true
		logger.Info("openai oracle initialized", "model", cfg.Oracle.OpenAIModel)

	case ProviderGemini:
		if cfg.Oracle.GeminiKey == "" {
			logger.Warn("gemini oracle selected but no API key configured")
			c.provider = ProviderNone
			return c, nil
		}
		backend, err := newGeminiBackend(ctx, cfg.Oracle.GeminiKey, cfg.Oracle.GeminiModel)
		if err != nil {
			return nil, fmt.Errorf("failed to create gemini backend: %w", err)
		}
		c.gemini = backend
		c.enabled = true
		logger.Info("gemini oracle initialized", "model", cfg.Oracle.GeminiModel)

	case ProviderNone:
		logger.Debug("oracle disabled")

	default:
		logger.Warn("unknown oracle provider, escalation disabled", "provider", cfg.Oracle.Provider)
		c.provider = ProviderNone
	}

	return c, nil
}

// IsEnabled returns true if a backend is configured and ready
func (c *Client) IsEnabled() bool {
	return c.enabled
}

// GetProvider returns the active oracle backend
func (c *Client) GetProvider() Provider {
	return c.provider
}

// ClassifyRisk asks the backend for a strict two-way risk token.
// The raw trimmed response is returned as-is; token validation is the
// classifier's job so a malformed answer counts as a failed attempt
// there.
func (c *Client) ClassifyRisk(ctx context.Context, req risk.OracleRequest) (models.RiskLevel, error) {
	if !c.enabled {
		return "", fmt.Errorf("oracle not enabled")
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return "", apperrors.ClassificationError(err, "oracle throttled")
	}

	userPrompt := fmt.Sprintf("File: %s\nCategory: %s\n\nDiff excerpt:\n%s",
		req.FilePath, req.Category, req.DiffExcerpt)

	var answer string
	var err error
	switch c.provider {
	case ProviderOpenAI:
		answer, err = c.openai.complete(ctx, systemPrompt, userPrompt)
	case ProviderGemini:
		answer, err = c.gemini.complete(ctx, systemPrompt, userPrompt)
	default:
		return "", fmt.Errorf("no oracle backend configured")
	}
	if err != nil {
		return "", apperrors.ClassificationError(err, "oracle call failed")
	}

	c.logger.Debug("oracle answered",
		"file", req.FilePath,
		"category", string(req.Category),
		"answer", answer)

	return models.RiskLevel(answer), nil
}
