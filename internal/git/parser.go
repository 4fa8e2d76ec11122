package git

import (
	"strings"
)

// FileSection is one file's portion of a unified diff, with its line
// range inside the overall diff text (1-based, inclusive).
type FileSection struct {
	Path      string
	Diff      string
	StartLine int
	EndLine   int
}

// SplitLines splits diff text into lines, dropping the empty trailer
// produced by a final newline so line accounting stays exact.
func SplitLines(text string) []string {
	if text == "" {
		return nil
	}
	lines := strings.Split(text, "\n")
	if len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// LineCount returns the number of lines in the diff text.
func LineCount(text string) int {
	return len(SplitLines(text))
}

// ParseSections splits raw unified-diff text into ordered per-file
// sections using "diff --git" headers as boundaries. Blank input
// yields no sections.
func ParseSections(diffText string) []FileSection {
	lines := SplitLines(diffText)
	if len(lines) == 0 {
		return nil
	}

	var sections []FileSection
	var current *FileSection
	var body []string

	flush := func(endLine int) {
		if current == nil {
			return
		}
		current.Diff = strings.Join(body, "\n")
		current.EndLine = endLine
		sections = append(sections, *current)
		current = nil
		body = nil
	}

	for i, line := range lines {
		if strings.HasPrefix(line, "diff --git") {
			flush(i) // previous section ended on line i (1-based: line i)
			current = &FileSection{
				Path:      parseFilePath(line),
				StartLine: i + 1,
			}
			body = []string{line}
			continue
		}
		if current != nil {
			body = append(body, line)
		}
	}
	flush(len(lines))

	return sections
}

// parseFilePath extracts the file path from a "diff --git a/path b/path"
// header line. The b/ side wins so renames map to the new path.
func parseFilePath(line string) string {
	fields := strings.Fields(line)
	if len(fields) >= 4 {
		path := fields[3]
		return strings.TrimPrefix(path, "b/")
	}
	if len(fields) >= 3 {
		path := fields[2]
		return strings.TrimPrefix(path, "a/")
	}
	return ""
}
