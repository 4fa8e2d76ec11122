package risk

import "strings"

// DetectBugFix reports whether diff text carries any bug-fix
// indicator. The match is a case-insensitive substring check over the
// fixed vocabulary; a bug-fix impact owes exactly one regression test.
func DetectBugFix(diffText string) bool {
	lower := strings.ToLower(diffText)
	for _, indicator := range bugFixIndicators {
		if strings.Contains(lower, indicator) {
			return true
		}
	}
	return false
}
