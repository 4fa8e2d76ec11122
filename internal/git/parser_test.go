package git

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const twoFileDiff = `diff --git a/src/main/java/UserService.java b/src/main/java/UserService.java
index 1111111..2222222 100644
--- a/src/main/java/UserService.java
+++ b/src/main/java/UserService.java
@@ -10,6 +10,7 @@ public class UserService {
     public User find(String id) {
+        validate(id);
         return repo.get(id);
     }
diff --git a/README.md b/README.md
index 3333333..4444444 100644
--- a/README.md
+++ b/README.md
@@ -1,3 +1,4 @@
 # Project
+New docs line.
`

func TestSplitLines(t *testing.T) {
	tests := []struct {
		name string
		text string
		want int
	}{
		{"empty", "", 0},
		{"single line no newline", "one", 1},
		{"trailing newline dropped", "one\ntwo\n", 2},
		{"blank interior lines kept", "one\n\nthree\n", 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Len(t, SplitLines(tt.text), tt.want)
			assert.Equal(t, tt.want, LineCount(tt.text))
		})
	}
}

func TestParseSections(t *testing.T) {
	sections := ParseSections(twoFileDiff)
	require.Len(t, sections, 2)

	assert.Equal(t, "src/main/java/UserService.java", sections[0].Path)
	assert.Equal(t, "README.md", sections[1].Path)

	// Sections cover the diff contiguously, 1-based inclusive.
	assert.Equal(t, 1, sections[0].StartLine)
	assert.Equal(t, sections[0].EndLine+1, sections[1].StartLine)
	assert.Equal(t, LineCount(twoFileDiff), sections[1].EndLine)

	assert.True(t, strings.HasPrefix(sections[0].Diff, "diff --git"))
	assert.Contains(t, sections[0].Diff, "validate(id);")
	assert.NotContains(t, sections[0].Diff, "README")
}

func TestParseSectionsEmpty(t *testing.T) {
	assert.Nil(t, ParseSections(""))
}

func TestParseSectionsIgnoresPreamble(t *testing.T) {
	diff := "some preamble\n" + twoFileDiff
	sections := ParseSections(diff)
	require.Len(t, sections, 2)
	assert.Equal(t, 2, sections[0].StartLine)
}

func TestParseFilePath(t *testing.T) {
	tests := []struct {
		line string
		want string
	}{
		{"diff --git a/foo/bar.go b/foo/bar.go", "foo/bar.go"},
		{"diff --git a/old.go b/new.go", "new.go"}, // rename: b/ side wins
		{"diff --git", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, parseFilePath(tt.line))
	}
}

func TestCountChangedLines(t *testing.T) {
	// Two added body lines; +++/--- headers are excluded.
	assert.Equal(t, 2, CountChangedLines(twoFileDiff))
	assert.Equal(t, 0, CountChangedLines(""))
}

func TestTruncateForOracle(t *testing.T) {
	long := strings.Repeat("aaaa aaaa\n", 200)
	cut := TruncateForOracle(long, 100)
	assert.LessOrEqual(t, len(cut), 100)
	assert.False(t, strings.HasSuffix(cut, "\n"))

	short := "short diff"
	assert.Equal(t, short, TruncateForOracle(short, 100))
	assert.Equal(t, short, TruncateForOracle(short, 0))
}
