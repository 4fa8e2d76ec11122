package git

import (
	"strings"
)

// DefaultChunkMaxLines bounds chunk size for large-diff processing.
const DefaultChunkMaxLines = 500

// DiffChunk is a bounded slice of a large diff. A chunk boundary never
// falls inside a single file's section; the renumbering pass depends
// on that atomicity.
type DiffChunk struct {
	Index       int
	TotalChunks int
	Files       []string
	Content     string
	LineCount   int
}

// Chunker groups whole file sections into line-bounded chunks.
type Chunker struct {
	maxLines int
}

// NewChunker creates a chunker. maxLines <= 0 uses the default.
func NewChunker(maxLines int) *Chunker {
	if maxLines <= 0 {
		maxLines = DefaultChunkMaxLines
	}
	return &Chunker{maxLines: maxLines}
}

// segment is a run of raw diff lines belonging to one file section.
// A leading segment with an empty path holds any preamble before the
// first file header so every diff line lands in exactly one chunk.
type segment struct {
	path  string
	lines []string
}

// Chunk splits diff text into chunks of whole file sections. A section
// joins the current chunk unless that would push it past maxLines; a
// single section larger than maxLines becomes its own oversized chunk.
// TotalChunks is back-filled once all chunks exist.
func (c *Chunker) Chunk(diffText string) []DiffChunk {
	lines := SplitLines(diffText)
	if len(lines) == 0 {
		return nil
	}

	var segments []segment
	var current *segment

	for _, line := range lines {
		if strings.HasPrefix(line, "diff --git") {
			if current != nil {
				segments = append(segments, *current)
			}
			current = &segment{path: parseFilePath(line)}
		} else if current == nil {
			// Preamble before the first header still counts toward
			// the line-accounting invariant.
			current = &segment{}
		}
		current.lines = append(current.lines, line)
	}
	if current != nil {
		segments = append(segments, *current)
	}

	var chunks []DiffChunk
	var chunk DiffChunk

	flush := func() {
		if chunk.LineCount == 0 {
			return
		}
		chunk.Index = len(chunks)
		chunks = append(chunks, chunk)
		chunk = DiffChunk{}
	}

	for _, seg := range segments {
		if chunk.LineCount > 0 && chunk.LineCount+len(seg.lines) > c.maxLines {
			flush()
		}
		if seg.path != "" {
			chunk.Files = append(chunk.Files, seg.path)
		}
		if chunk.Content != "" {
			chunk.Content += "\n"
		}
		chunk.Content += strings.Join(seg.lines, "\n")
		chunk.LineCount += len(seg.lines)
	}
	flush()

	for i := range chunks {
		chunks[i].TotalChunks = len(chunks)
	}

	return chunks
}

// IsLarge reports whether a diff exceeds the chunked-processing
// threshold.
func IsLarge(diffText string, threshold int) bool {
	if threshold <= 0 {
		threshold = DefaultChunkMaxLines
	}
	return LineCount(diffText) > threshold
}
