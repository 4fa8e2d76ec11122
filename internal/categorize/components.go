package categorize

import (
	"path/filepath"
	"regexp"
	"strings"
)

// Type and method declaration patterns across the languages the
// heuristics need to recognize. This is a path/keyword heuristic, not
// semantic analysis: a declaration anywhere in the section counts as a
// type, while methods only count when they appear on added lines.
var (
	classDeclRe = regexp.MustCompile(`\b(?:class|interface|enum|record|trait)\s+([A-Z]\w*)`)
	goTypeRe    = regexp.MustCompile(`\btype\s+([A-Z]\w*)\s+(?:struct|interface)\b`)

	javaMethodRe = regexp.MustCompile(`\b(?:public|protected|private)\b[\w<>\[\],\s.?]*?\s(\w+)\s*\(`)
	goFuncRe     = regexp.MustCompile(`\bfunc\s+(?:\([^)]*\)\s*)?(\w+)\s*\(`)
	pyDefRe      = regexp.MustCompile(`\bdef\s+(\w+)\s*\(`)
	jsFuncRe     = regexp.MustCompile(`\bfunction\s+(\w+)\s*\(`)
)

var methodKeywords = map[string]bool{
	"if": true, "for": true, "while": true, "switch": true,
	"return": true, "new": true, "class": true, "interface": true,
	"enum": true, "record": true, "super": true, "this": true,
}

// IdentifyAffectedComponents extracts the components a file diff
// touches: the file's base name, type declarations found anywhere in
// the section, and method declarations found only on added lines.
// Order is first-seen, duplicates dropped; the base name is the
// fallback when nothing else matches.
func IdentifyAffectedComponents(filePath, fileDiff string) []string {
	var ordered []string
	seen := make(map[string]bool)

	add := func(name string) {
		if name == "" || seen[name] || methodKeywords[name] {
			return
		}
		seen[name] = true
		ordered = append(ordered, name)
	}

	base := filepath.Base(filePath)
	baseName := strings.TrimSuffix(base, filepath.Ext(base))
	add(baseName)

	// Type declarations count wherever they appear in the section,
	// removed lines included: deleting a class still affects it.
	for _, re := range []*regexp.Regexp{classDeclRe, goTypeRe} {
		for _, m := range re.FindAllStringSubmatch(fileDiff, -1) {
			add(m[1])
		}
	}

	// Method declarations count only on added or modified lines.
	for _, line := range strings.Split(fileDiff, "\n") {
		if !strings.HasPrefix(line, "+") || strings.HasPrefix(line, "+++") {
			continue
		}
		body := line[1:]
		if classDeclRe.MatchString(body) {
			continue // already captured as a type
		}
		for _, re := range []*regexp.Regexp{javaMethodRe, goFuncRe, pyDefRe, jsFuncRe} {
			if m := re.FindStringSubmatch(body); m != nil {
				add(m[1])
				break
			}
		}
	}

	if len(ordered) == 0 {
		return []string{baseName}
	}
	return ordered
}
