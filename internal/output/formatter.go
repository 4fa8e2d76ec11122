// Package output renders impact reports for the terminal and for
// machine consumers.
package output

import (
	"io"
	"os"

	"github.com/rohankatakam/testimpact/internal/models"
)

// Formatter defines output formatting interface
type Formatter interface {
	Format(report *models.ImpactReport, w io.Writer) error
}

// VerbosityLevel determines output detail
type VerbosityLevel int

const (
	VerbosityQuiet    VerbosityLevel = iota // One-line summary for hooks
	VerbosityStandard                       // Impacts + requirements table
	VerbosityJSON                           // Machine-readable report
)

// NewFormatter creates appropriate formatter based on level
func NewFormatter(level VerbosityLevel) Formatter {
	switch level {
	case VerbosityQuiet:
		return &QuietFormatter{}
	case VerbosityJSON:
		return &JSONFormatter{}
	default:
		return &StandardFormatter{}
	}
}

// GetDefaultVerbosity returns appropriate default based on environment
func GetDefaultVerbosity() VerbosityLevel {
	// Pre-commit hook context (GIT_AUTHOR_DATE set by git)
	if os.Getenv("GIT_AUTHOR_DATE") != "" {
		return VerbosityQuiet
	}

	// CI/CD context wants the full report on stdout
	if os.Getenv("CI") == "true" {
		return VerbosityJSON
	}

	return VerbosityStandard
}
